package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// EventGroup is one of the seven canonical event categories.
type EventGroup string

const (
	GroupRainStorms  EventGroup = "rain/storms"
	GroupTornadoHail EventGroup = "tornado/hail"
	GroupFlood       EventGroup = "flood"
	GroupWinter      EventGroup = "winter"
	GroupSummerHeat  EventGroup = "summer/heat"
	GroupFog         EventGroup = "fog"
	GroupOthers      EventGroup = "others"
)

// Groups lists every group in evaluation order, with the default last.
var Groups = []EventGroup{
	GroupRainStorms,
	GroupTornadoHail,
	GroupFlood,
	GroupWinter,
	GroupSummerHeat,
	GroupFog,
	GroupOthers,
}

// GroupRule pairs a group with the regular expression fragments that select
// it. A rule matches when any fragment matches anywhere in the event type.
type GroupRule struct {
	Group     EventGroup
	Fragments []string
}

// DefaultRules returns the catalog rules in evaluation order. Order matters:
// a later matching rule overwrites an earlier one, so "tstm wind/hail" is
// tornado/hail and "fog and smoke/thunderstorm" is fog.
func DefaultRules() []GroupRule {
	return []GroupRule{
		{Group: GroupRainStorms, Fragments: []string{
			`thunderstorm`, `tstm ?wind`, `lightning`, `lighting`, `ligntning`,
			`wind`, `wnd`, `tropical storm`, `tropical depression`,
			`heavy rain`, `hurricane`, `waterspout`, `water spout`,
			`storm surge`, `landslide`, `mudslide`, `surf`,
			`tsunami`, `typhoon`, `excessive rainfall`, `excessive wetness`,
			`mixed precip`,
		}},
		{Group: GroupTornadoHail, Fragments: []string{
			`tornado`, `torndao`, `hail`, `funnel`, `sleet`,
		}},
		{Group: GroupFlood, Fragments: []string{
			`flood`, `stream fld`, `rip current`,
		}},
		{Group: GroupWinter, Fragments: []string{
			`snow`, `blizzard`, `avalanche`, `avalance`, `winter`, `ice`,
			`freez`, `cold`, `frost`, `icy`, `wind ?chill`, `hypothermia`,
			`wintry`, `glaze`, `unusual(ly)? cool`,
		}},
		{Group: GroupSummerHeat, Fragments: []string{
			`fire`, `heat`, `drought`, `dust (storm|devil)`, `dry microburst`,
			`hyperthermia`, `unseasonabl[ey] (warm|dry|hot)`, `record warmth`,
			`unusual(ly)? warm`,
		}},
		{Group: GroupFog, Fragments: []string{
			`fog`, `smoke`,
		}},
	}
}

type compiledRule struct {
	group   EventGroup
	pattern *regexp.Regexp
}

// Classifier assigns an EventGroup by folding an ordered rule list over an
// event type and keeping the last match. It holds no mutable state and is
// safe for concurrent use.
type Classifier struct {
	rules []compiledRule
}

// NewClassifier compiles rules in the given order.
func NewClassifier(rules []GroupRule) (*Classifier, error) {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		if r.Group == "" || r.Group == GroupOthers {
			return nil, fmt.Errorf("classifier rule: invalid group %q", r.Group)
		}
		if len(r.Fragments) == 0 {
			return nil, fmt.Errorf("classifier rule %s: no fragments", r.Group)
		}
		re, err := regexp.Compile("(?:" + strings.Join(r.Fragments, "|") + ")")
		if err != nil {
			return nil, fmt.Errorf("classifier rule %s: %w", r.Group, err)
		}
		c.rules = append(c.rules, compiledRule{group: r.Group, pattern: re})
	}
	return c, nil
}

// MustClassifier is like NewClassifier but panics on an invalid rule.
func MustClassifier(rules []GroupRule) *Classifier {
	c, err := NewClassifier(rules)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultClassifier = MustClassifier(DefaultRules())

// DefaultClassifier returns the classifier built from DefaultRules.
func DefaultClassifier() *Classifier {
	return defaultClassifier
}

// Classify returns the group for an event type. The input is normalized
// first, so raw and already lowercased values classify the same.
func (c *Classifier) Classify(eventType string) EventGroup {
	eventType = NormalizeEventType(eventType)
	group := GroupOthers
	for _, r := range c.rules {
		if r.pattern.MatchString(eventType) {
			group = r.group
		}
	}
	return group
}

// ClassifyRecord attaches the group to a clean record.
func (c *Classifier) ClassifyRecord(r CleanRecord) CleanRecord {
	r.Group = c.Classify(r.EventType)
	return r
}
