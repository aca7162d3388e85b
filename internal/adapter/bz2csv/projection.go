package bz2csv

import (
	"strings"

	"github.com/couchcryptid/storm-impact-etl/internal/domain"
)

// Catalog column names used by the pipeline.
const (
	ColEventType  = "EVTYPE"
	ColFatalities = "FATALITIES"
	ColInjuries   = "INJURIES"
	ColPropDmg    = "PROPDMG"
	ColPropDmgExp = "PROPDMGEXP"
	ColCropDmg    = "CROPDMG"
	ColCropDmgExp = "CROPDMGEXP"
	ColBeginDate  = "BGN_DATE"
)

// RequiredColumns lists the columns kept by a Projection, in field order.
var RequiredColumns = []string{
	ColEventType,
	ColFatalities,
	ColInjuries,
	ColPropDmg,
	ColPropDmgExp,
	ColCropDmg,
	ColCropDmgExp,
	ColBeginDate,
}

// Projection maps each required column to its index in the source header.
// Every other column is discarded.
type Projection struct {
	index [8]int
}

// ProjectedRow holds the required fields of one row as text.
type ProjectedRow struct {
	EventType  string
	Fatalities string
	Injuries   string
	PropDmg    string
	PropDmgExp string
	CropDmg    string
	CropDmgExp string
	BeginDate  string
}

// NewProjection locates the required columns in a header by name. Names are
// trimmed and compared case-sensitively; a leading UTF-8 BOM is ignored.
func NewProjection(header []string) (*Projection, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	p := &Projection{}
	for i, col := range RequiredColumns {
		idx, ok := pos[col]
		if !ok {
			return nil, &domain.FormatError{Column: col}
		}
		p.index[i] = idx
	}
	return p, nil
}

// Project extracts the required fields from a row. Cells beyond the end of a
// short row come back empty.
func (p *Projection) Project(row []string) ProjectedRow {
	get := func(i int) string {
		idx := p.index[i]
		if idx >= len(row) {
			return ""
		}
		return row[idx]
	}
	return ProjectedRow{
		EventType:  get(0),
		Fatalities: get(1),
		Injuries:   get(2),
		PropDmg:    get(3),
		PropDmgExp: get(4),
		CropDmg:    get(5),
		CropDmgExp: get(6),
		BeginDate:  get(7),
	}
}
