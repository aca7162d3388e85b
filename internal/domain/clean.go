package domain

import (
	"errors"
	"strings"
)

// Exponent code column names, used as the Field of a NormalizationWarning.
const (
	FieldPropDmgExp = "PROPDMGEXP"
	FieldCropDmgExp = "CROPDMGEXP"
)

// HasImpact reports whether a record has any fatalities, injuries or a
// positive raw damage base. Exponent codes are ignored: a zero base is no
// impact whatever the code, and a positive base counts even when the
// normalized value is tiny.
func HasImpact(r RawRecord) bool {
	return r.Fatalities > 0 || r.Injuries > 0 || r.CropDmg > 0 || r.PropDmg > 0
}

// CleanResult is the outcome of cleaning one RawRecord.
type CleanResult struct {
	Record   CleanRecord
	Kept     bool
	Warnings []NormalizationWarning
}

// Clean dates, filters and normalizes a raw record. The group is left empty;
// callers attach it with a Classifier. The year is extracted for every row,
// so a malformed begin date is an error even on a record that would be
// dropped. Records without impact come back with Kept false.
func Clean(r RawRecord) (CleanResult, error) {
	year, err := ExtractYear(r.BeginDate)
	if err != nil {
		var de *DateParseError
		if errors.As(err, &de) {
			de.Row = r.Row
		}
		return CleanResult{}, err
	}

	if !HasImpact(r) {
		return CleanResult{}, nil
	}

	res := CleanResult{Kept: true}

	prop, warn := normalizeField(FieldPropDmgExp, r.Row, r.PropDmg, r.PropDmgExp)
	if warn != nil {
		res.Warnings = append(res.Warnings, *warn)
	}
	crop, warn := normalizeField(FieldCropDmgExp, r.Row, r.CropDmg, r.CropDmgExp)
	if warn != nil {
		res.Warnings = append(res.Warnings, *warn)
	}

	res.Record = CleanRecord{
		Year:           year,
		EventType:      NormalizeEventType(r.EventType),
		Fatalities:     r.Fatalities,
		Injuries:       r.Injuries,
		PropertyDamage: prop,
		CropDamage:     crop,
	}
	return res, nil
}

// NormalizeEventType lowercases and trims a catalog event type.
func NormalizeEventType(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
