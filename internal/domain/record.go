package domain

import (
	"time"
)

// RawRecord is one catalog row restricted to the columns the pipeline uses.
type RawRecord struct {
	Row        int // 1-based data row index, header excluded
	EventType  string
	Fatalities int
	Injuries   int
	PropDmg    float64
	PropDmgExp string
	CropDmg    float64
	CropDmgExp string
	BeginDate  string
}

// CleanRecord is a RawRecord with a parsed year, a normalized event type and
// damage expressed in millions of USD.
type CleanRecord struct {
	Year           int        `json:"year" yaml:"year"`
	EventType      string     `json:"event_type" yaml:"event_type"`
	Group          EventGroup `json:"group" yaml:"group"`
	Fatalities     int        `json:"fatalities" yaml:"fatalities"`
	Injuries       int        `json:"injuries" yaml:"injuries"`
	PropertyDamage float64    `json:"property_damage" yaml:"property_damage"`
	CropDamage     float64    `json:"crop_damage" yaml:"crop_damage"`
}

// Summary is the outcome of one pipeline run over the catalog.
type Summary struct {
	RunID       string            `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time         `json:"generated_at" yaml:"generated_at"`
	Source      string            `json:"source" yaml:"source"`
	RowsLoaded  int               `json:"rows_loaded" yaml:"rows_loaded"`
	Retained    int               `json:"retained" yaml:"retained"`
	Dropped     int               `json:"dropped" yaml:"dropped"`
	FirstYear   int               `json:"first_year,omitempty" yaml:"first_year,omitempty"`
	LastYear    int               `json:"last_year,omitempty" yaml:"last_year,omitempty"`
	Warnings    map[string]int    `json:"warnings,omitempty" yaml:"warnings,omitempty"` // keyed by "field:token"
	Aggregates  []ImpactAggregate `json:"aggregates" yaml:"aggregates"`
}

// Health returns the population-health view of the aggregates.
func (s Summary) Health() []HealthImpact {
	out := make([]HealthImpact, 0, len(s.Aggregates))
	for _, a := range s.Aggregates {
		out = append(out, a.Health())
	}
	return out
}

// Economic returns the economic-damage view of the aggregates.
func (s Summary) Economic() []EconomicImpact {
	out := make([]EconomicImpact, 0, len(s.Aggregates))
	for _, a := range s.Aggregates {
		out = append(out, a.Economic())
	}
	return out
}

// WarningCount is the total number of normalization warnings in the run.
func (s Summary) WarningCount() int {
	n := 0
	for _, c := range s.Warnings {
		n += c
	}
	return n
}
