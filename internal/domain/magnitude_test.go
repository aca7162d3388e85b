package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExponent(t *testing.T) {
	tests := []struct {
		token string
		kind  ExponentKind
		value int
	}{
		{"h", ExponentLetter, 2},
		{"H", ExponentLetter, 2},
		{"k", ExponentLetter, 3},
		{"K", ExponentLetter, 3},
		{"m", ExponentLetter, 6},
		{"M", ExponentLetter, 6},
		{"b", ExponentLetter, 9},
		{"B", ExponentLetter, 9},
		{"0", ExponentNumeric, 0},
		{"3", ExponentNumeric, 3},
		{"8", ExponentNumeric, 8},
		{" 5 ", ExponentNumeric, 5},
		{"", ExponentUnknown, 0},
		{"?", ExponentUnknown, 0},
		{"+", ExponentUnknown, 0},
		{"-", ExponentUnknown, 0},
		{"x", ExponentUnknown, 0},
		{"kk", ExponentUnknown, 0},
		{"3k", ExponentUnknown, 0},
	}

	for _, tt := range tests {
		t.Run("token "+tt.token, func(t *testing.T) {
			got := ResolveExponent(tt.token)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.value, got.Value)
		})
	}
}

func TestNormalizeDamage_LetterCodes(t *testing.T) {
	const base = 2.5
	for token, exp := range map[string]int{
		"h": 2, "H": 2, "k": 3, "K": 3, "m": 6, "M": 6, "b": 9, "B": 9,
	} {
		want := base * math.Pow10(exp-6)
		assert.InDelta(t, want, NormalizeDamage(base, token), 1e-12, "token %q", token)
	}
}

func TestNormalizeDamage_NumericCodes(t *testing.T) {
	assert.InDelta(t, 0.01, NormalizeDamage(10, "3"), 1e-12)
	assert.InDelta(t, 5.0, NormalizeDamage(5, "6"), 1e-12)
	assert.InDelta(t, 2e-6, NormalizeDamage(2, "0"), 1e-18)
}

func TestNormalizeDamage_UnknownCodesUseExponentZero(t *testing.T) {
	for _, token := range []string{"", "?", "x", "+", "-"} {
		assert.InDelta(t, 4e-6, NormalizeDamage(4, token), 1e-18, "token %q", token)
	}
}

func TestNormalizeDamage_ZeroBase(t *testing.T) {
	assert.Zero(t, NormalizeDamage(0, "B"))
	assert.Zero(t, NormalizeDamage(0, "999"))
}

func TestNormalizeDamage_HugeDigitCodeStaysFinite(t *testing.T) {
	for _, token := range []string{"309", "400", "999"} {
		v := NormalizeDamage(1, token)
		assert.False(t, math.IsInf(v, 0), "token %q", token)
		assert.Zero(t, v, "token %q", token)
	}
	assert.InDelta(t, 1e302, NormalizeDamage(1, "308"), 1e288)
}

func TestNormalizeField_Warnings(t *testing.T) {
	t.Run("recognized code", func(t *testing.T) {
		v, warn := normalizeField(FieldPropDmgExp, 7, 25, "K")
		assert.InDelta(t, 0.025, v, 1e-12)
		assert.Nil(t, warn)
	})

	t.Run("empty code is not a warning", func(t *testing.T) {
		_, warn := normalizeField(FieldCropDmgExp, 7, 0, "")
		assert.Nil(t, warn)
	})

	t.Run("unknown code", func(t *testing.T) {
		v, warn := normalizeField(FieldCropDmgExp, 9, 3, " ? ")
		assert.InDelta(t, 3e-6, v, 1e-18)
		require.NotNil(t, warn)
		assert.Equal(t, FieldCropDmgExp, warn.Field)
		assert.Equal(t, "?", warn.Token)
		assert.Equal(t, 9, warn.Row)
		assert.Equal(t, "CROPDMGEXP:?", warn.Key())
		assert.False(t, warn.OutOfRange)
	})

	t.Run("overflowing numeric code", func(t *testing.T) {
		v, warn := normalizeField(FieldPropDmgExp, 11, 2.5, "400")
		assert.Zero(t, v)
		require.NotNil(t, warn)
		assert.True(t, warn.OutOfRange)
		assert.Equal(t, "PROPDMGEXP:400", warn.Key())
		assert.Contains(t, warn.String(), "overflows")
	})

	t.Run("overflowing code on zero base is silent", func(t *testing.T) {
		v, warn := normalizeField(FieldPropDmgExp, 11, 0, "400")
		assert.Zero(t, v)
		assert.Nil(t, warn)
	})
}
