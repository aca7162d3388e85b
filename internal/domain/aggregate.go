package domain

// ImpactAggregate holds per-group totals and means of every impact measure.
// Damage fields are in millions of USD.
type ImpactAggregate struct {
	Group              EventGroup `json:"group" yaml:"group"`
	Count              int        `json:"count" yaml:"count"`
	InjuriesSum        int        `json:"injuries_sum" yaml:"injuries_sum"`
	InjuriesMean       float64    `json:"injuries_mean" yaml:"injuries_mean"`
	FatalitiesSum      int        `json:"fatalities_sum" yaml:"fatalities_sum"`
	FatalitiesMean     float64    `json:"fatalities_mean" yaml:"fatalities_mean"`
	PropertyDamageSum  float64    `json:"property_damage_sum" yaml:"property_damage_sum"`
	PropertyDamageMean float64    `json:"property_damage_mean" yaml:"property_damage_mean"`
	CropDamageSum      float64    `json:"crop_damage_sum" yaml:"crop_damage_sum"`
	CropDamageMean     float64    `json:"crop_damage_mean" yaml:"crop_damage_mean"`
}

// HealthImpact is the population-health view of an aggregate.
type HealthImpact struct {
	Group          EventGroup `json:"group" yaml:"group"`
	Count          int        `json:"count" yaml:"count"`
	InjuriesSum    int        `json:"injuries_sum" yaml:"injuries_sum"`
	InjuriesMean   float64    `json:"injuries_mean" yaml:"injuries_mean"`
	FatalitiesSum  int        `json:"fatalities_sum" yaml:"fatalities_sum"`
	FatalitiesMean float64    `json:"fatalities_mean" yaml:"fatalities_mean"`
}

// Total is fatalities plus injuries.
func (h HealthImpact) Total() int { return h.FatalitiesSum + h.InjuriesSum }

// EconomicImpact is the economic-damage view of an aggregate.
type EconomicImpact struct {
	Group              EventGroup `json:"group" yaml:"group"`
	Count              int        `json:"count" yaml:"count"`
	PropertyDamageSum  float64    `json:"property_damage_sum" yaml:"property_damage_sum"`
	PropertyDamageMean float64    `json:"property_damage_mean" yaml:"property_damage_mean"`
	CropDamageSum      float64    `json:"crop_damage_sum" yaml:"crop_damage_sum"`
	CropDamageMean     float64    `json:"crop_damage_mean" yaml:"crop_damage_mean"`
}

// Total is property plus crop damage in millions of USD.
func (e EconomicImpact) Total() float64 { return e.PropertyDamageSum + e.CropDamageSum }

// Health returns the health view.
func (a ImpactAggregate) Health() HealthImpact {
	return HealthImpact{
		Group:          a.Group,
		Count:          a.Count,
		InjuriesSum:    a.InjuriesSum,
		InjuriesMean:   a.InjuriesMean,
		FatalitiesSum:  a.FatalitiesSum,
		FatalitiesMean: a.FatalitiesMean,
	}
}

// Economic returns the economic view.
func (a ImpactAggregate) Economic() EconomicImpact {
	return EconomicImpact{
		Group:              a.Group,
		Count:              a.Count,
		PropertyDamageSum:  a.PropertyDamageSum,
		PropertyDamageMean: a.PropertyDamageMean,
		CropDamageSum:      a.CropDamageSum,
		CropDamageMean:     a.CropDamageMean,
	}
}

type groupTotals struct {
	count      int
	injuries   int
	fatalities int
	property   float64
	crop       float64
}

// Accumulator reduces clean records into per-group sums. Partial
// accumulators built over disjoint slices can be combined with Merge; sums
// are then numerically close to a single pass but not bit-identical.
type Accumulator struct {
	totals map[EventGroup]*groupTotals
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{totals: make(map[EventGroup]*groupTotals)}
}

// Add folds one record into its group. A record without a group counts as
// others.
func (a *Accumulator) Add(r CleanRecord) {
	g := r.Group
	if g == "" {
		g = GroupOthers
	}
	t := a.totals[g]
	if t == nil {
		t = &groupTotals{}
		a.totals[g] = t
	}
	t.count++
	t.injuries += r.Injuries
	t.fatalities += r.Fatalities
	t.property += r.PropertyDamage
	t.crop += r.CropDamage
}

// Merge adds another accumulator's sums into a.
func (a *Accumulator) Merge(other *Accumulator) {
	for g, o := range other.totals {
		t := a.totals[g]
		if t == nil {
			t = &groupTotals{}
			a.totals[g] = t
		}
		t.count += o.count
		t.injuries += o.injuries
		t.fatalities += o.fatalities
		t.property += o.property
		t.crop += o.crop
	}
}

// Result computes means from the sums. Only groups with records are
// returned, in Groups order. Groups outside Groups follow, in no fixed order.
func (a *Accumulator) Result() []ImpactAggregate {
	out := make([]ImpactAggregate, 0, len(a.totals))
	seen := make(map[EventGroup]bool, len(Groups))
	for _, g := range Groups {
		seen[g] = true
		if t, ok := a.totals[g]; ok && t.count > 0 {
			out = append(out, t.aggregate(g))
		}
	}
	for g, t := range a.totals {
		if !seen[g] && t.count > 0 {
			out = append(out, t.aggregate(g))
		}
	}
	return out
}

func (t *groupTotals) aggregate(g EventGroup) ImpactAggregate {
	n := float64(t.count)
	return ImpactAggregate{
		Group:              g,
		Count:              t.count,
		InjuriesSum:        t.injuries,
		InjuriesMean:       float64(t.injuries) / n,
		FatalitiesSum:      t.fatalities,
		FatalitiesMean:     float64(t.fatalities) / n,
		PropertyDamageSum:  t.property,
		PropertyDamageMean: t.property / n,
		CropDamageSum:      t.crop,
		CropDamageMean:     t.crop / n,
	}
}

// Aggregate groups records by EventGroup and computes count, sums and means.
func Aggregate(records []CleanRecord) []ImpactAggregate {
	acc := NewAccumulator()
	for _, r := range records {
		acc.Add(r)
	}
	return acc.Result()
}
