package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBeginDate = "4/1/1995 0:00:00"

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"catalog layout", "6/1/2005 0:00:00", 2005},
		{"two digit day and month", "12/31/1950 0:00:00", 1950},
		{"date only", "4/18/1950", 1950},
		{"repeated separator shifts tokens", "4//18/1950", 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, err := ExtractYear(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, year)
		})
	}
}

func TestExtractYear_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"two tokens", "6/1"},
		{"iso date", "2005-06-01"},
		{"non-integer year", "6/1/20x5 0:00:00"},
		{"empty third token", "6/1 /2005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractYear(tt.input)
			require.Error(t, err)
			var de *DateParseError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.input, de.Value)
		})
	}
}

func TestHasImpact(t *testing.T) {
	tests := []struct {
		name     string
		record   RawRecord
		expected bool
	}{
		{"no impact", RawRecord{PropDmgExp: "B", CropDmgExp: "M"}, false},
		{"fatality", RawRecord{Fatalities: 1}, true},
		{"injury", RawRecord{Injuries: 1}, true},
		{"property base", RawRecord{PropDmg: 0.01}, true},
		{"crop base", RawRecord{CropDmg: 5}, true},
		{"small base with unknown code", RawRecord{PropDmg: 1, PropDmgExp: "?"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasImpact(tt.record))
		})
	}
}

func TestClean_TstmWindScenario(t *testing.T) {
	raw := RawRecord{
		Row:        1,
		EventType:  "TSTM WIND",
		Injuries:   1,
		PropDmg:    10,
		PropDmgExp: "K",
		BeginDate:  testBeginDate,
	}

	res, err := Clean(raw)
	require.NoError(t, err)
	require.True(t, res.Kept)
	assert.Empty(t, res.Warnings)

	rec := DefaultClassifier().ClassifyRecord(res.Record)
	assert.Equal(t, 1995, rec.Year)
	assert.Equal(t, "tstm wind", rec.EventType)
	assert.Equal(t, GroupRainStorms, rec.Group)
	assert.Equal(t, 1, rec.Injuries)
	assert.Equal(t, 0, rec.Fatalities)
	assert.InDelta(t, 0.01, rec.PropertyDamage, 1e-12)
	assert.Zero(t, rec.CropDamage)
}

func TestClean_DropsRecordWithoutImpact(t *testing.T) {
	res, err := Clean(RawRecord{EventType: "HAIL", PropDmgExp: "B", BeginDate: testBeginDate})
	require.NoError(t, err)
	assert.False(t, res.Kept)
}

func TestClean_CollectsWarnings(t *testing.T) {
	res, err := Clean(RawRecord{
		Row:        42,
		EventType:  "FLASH FLOOD",
		PropDmg:    3,
		PropDmgExp: "?",
		CropDmg:    2,
		CropDmgExp: "+",
		BeginDate:  testBeginDate,
	})
	require.NoError(t, err)
	require.True(t, res.Kept)
	require.Len(t, res.Warnings, 2)
	assert.Equal(t, "PROPDMGEXP:?", res.Warnings[0].Key())
	assert.Equal(t, "CROPDMGEXP:+", res.Warnings[1].Key())
	assert.InDelta(t, 3e-6, res.Record.PropertyDamage, 1e-18)
}

func TestClean_DateErrorCarriesRow(t *testing.T) {
	_, err := Clean(RawRecord{Row: 12, Injuries: 1, BeginDate: "garbage"})
	require.Error(t, err)

	var de *DateParseError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 12, de.Row)
	assert.Contains(t, err.Error(), "row 12")
}

func TestClean_DateErrorOnDroppedRecord(t *testing.T) {
	_, err := Clean(RawRecord{Row: 3, BeginDate: "1995"})
	var de *DateParseError
	assert.ErrorAs(t, err, &de)
}
