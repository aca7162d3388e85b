package domain

import (
	"math"
	"strconv"
	"strings"
)

// ExponentKind tags how an exponent code was interpreted.
type ExponentKind int

const (
	ExponentUnknown ExponentKind = iota
	ExponentNumeric
	ExponentLetter
)

func (k ExponentKind) String() string {
	switch k {
	case ExponentNumeric:
		return "numeric"
	case ExponentLetter:
		return "letter"
	default:
		return "unknown"
	}
}

// Exponent is a resolved exponent code.
type Exponent struct {
	Kind  ExponentKind
	Value int
}

// letterExponents maps the lowercase letter codes to powers of ten.
var letterExponents = map[string]int{
	"h": 2,
	"k": 3,
	"m": 6,
	"b": 9,
}

// ResolveExponent classifies an exponent code before interpreting it:
// all-digit tokens are their own value, h/k/m/b (any case) map to 2/3/6/9,
// and everything else, including "", is unknown with value 0.
func ResolveExponent(token string) Exponent {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return Exponent{Kind: ExponentUnknown}
	}
	if isDigits(token) {
		v, err := strconv.Atoi(token)
		if err != nil {
			return Exponent{Kind: ExponentUnknown}
		}
		return Exponent{Kind: ExponentNumeric, Value: v}
	}
	if v, ok := letterExponents[token]; ok {
		return Exponent{Kind: ExponentLetter, Value: v}
	}
	return Exponent{Kind: ExponentUnknown}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// NormalizeDamage converts a damage base and exponent code to millions of
// USD: base * 10^(exp-6). Unrecognized codes use exp 0. A code large enough
// to overflow float64 yields 0.
func NormalizeDamage(base float64, token string) float64 {
	v, _ := scaleToMillions(base, ResolveExponent(token).Value)
	return v
}

// scaleToMillions reports false when the scaled value is not finite.
func scaleToMillions(base float64, exp int) (float64, bool) {
	if base == 0 {
		return 0, true
	}
	v := base * math.Pow10(exp-6)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// normalizeField resolves one damage field and reports a warning when a
// non-empty code was not recognized or scaled the damage out of range.
func normalizeField(field string, row int, base float64, token string) (float64, *NormalizationWarning) {
	exp := ResolveExponent(token)
	value, finite := scaleToMillions(base, exp.Value)
	trimmed := strings.TrimSpace(token)
	switch {
	case !finite:
		return 0, &NormalizationWarning{Field: field, Token: trimmed, Row: row, OutOfRange: true}
	case exp.Kind == ExponentUnknown && trimmed != "":
		return value, &NormalizationWarning{Field: field, Token: trimmed, Row: row}
	}
	return value, nil
}
