package domain

import (
	"fmt"
)

// FormatError reports a missing required column or a numeric cell that
// cannot be coerced. Row is 0 when the problem is in the header.
type FormatError struct {
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Row == 0 {
		if e.Err != nil {
			return fmt.Sprintf("format error: %v", e.Err)
		}
		return fmt.Sprintf("format error: missing required column %q", e.Column)
	}
	if e.Column == "" {
		return fmt.Sprintf("format error: row %d: %v", e.Row, e.Err)
	}
	msg := fmt.Sprintf("format error: row %d column %s: invalid value %q", e.Row, e.Column, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// DateParseError reports a begin date that does not carry a year in its
// third slash- or space-delimited token.
type DateParseError struct {
	Value  string
	Row    int
	Reason string
}

func (e *DateParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("date parse error: row %d: %q: %s", e.Row, e.Value, e.Reason)
	}
	return fmt.Sprintf("date parse error: %q: %s", e.Value, e.Reason)
}

// NormalizationWarning records an exponent code that resolved to 10^0
// because it was not recognized, or a numeric code so large the damage
// overflowed and was counted as 0. It never stops a run.
type NormalizationWarning struct {
	Field      string // "PROPDMGEXP" or "CROPDMGEXP"
	Token      string
	Row        int
	OutOfRange bool
}

// Key is the aggregation key used in Summary.Warnings.
func (w NormalizationWarning) Key() string {
	return w.Field + ":" + w.Token
}

func (w NormalizationWarning) String() string {
	if w.OutOfRange {
		return fmt.Sprintf("row %d: %s %q overflows damage, using 0", w.Row, w.Field, w.Token)
	}
	return fmt.Sprintf("row %d: unrecognized %s %q, using exponent 0", w.Row, w.Field, w.Token)
}
