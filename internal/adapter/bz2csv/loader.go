// Package bz2csv reads the bzip2-compressed storm catalog into raw records.
package bz2csv

import (
	"bufio"
	"compress/bzip2"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/storm-impact-etl/internal/domain"
)

// ctxCheckInterval is how many rows are read between context checks.
const ctxCheckInterval = 4096

var (
	errNegative    = errors.New("negative value")
	errNotIntegral = errors.New("not a whole number")
	errNotFinite   = errors.New("not a finite number")
	errOutOfRange  = errors.New("count out of range")
)

// Loader reads catalog files. It implements pipeline.Loader.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load opens a bzip2-compressed CSV file and returns one RawRecord per data
// row in source order.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	records, err := l.Read(ctx, bufio.NewReaderSize(f, 1<<20))
	if err != nil {
		return nil, err
	}
	l.logger.Info("catalog loaded", "path", path, "rows", len(records))
	return records, nil
}

// Read decompresses a bzip2 stream and parses it as CSV with a header row.
func (l *Loader) Read(ctx context.Context, r io.Reader) ([]domain.RawRecord, error) {
	return readCSV(ctx, bzip2.NewReader(r))
}

// readCSV parses an uncompressed catalog stream.
func readCSV(ctx context.Context, r io.Reader) ([]domain.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &domain.FormatError{Err: errors.New("empty input: missing header row")}
		}
		return nil, &domain.FormatError{Err: fmt.Errorf("read header: %w", err)}
	}

	proj, err := NewProjection(header)
	if err != nil {
		return nil, err
	}

	var records []domain.RawRecord
	for row := 1; ; row++ {
		if row%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.FormatError{Row: row, Err: err}
		}

		rec, err := toRawRecord(row, proj.Project(fields))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// toRawRecord coerces the numeric fields of a projected row.
func toRawRecord(row int, p ProjectedRow) (domain.RawRecord, error) {
	fatalities, err := parseCount(p.Fatalities)
	if err != nil {
		return domain.RawRecord{}, cellError(ColFatalities, row, p.Fatalities, err)
	}
	injuries, err := parseCount(p.Injuries)
	if err != nil {
		return domain.RawRecord{}, cellError(ColInjuries, row, p.Injuries, err)
	}
	prop, err := parseAmount(p.PropDmg)
	if err != nil {
		return domain.RawRecord{}, cellError(ColPropDmg, row, p.PropDmg, err)
	}
	crop, err := parseAmount(p.CropDmg)
	if err != nil {
		return domain.RawRecord{}, cellError(ColCropDmg, row, p.CropDmg, err)
	}

	return domain.RawRecord{
		Row:        row,
		EventType:  p.EventType,
		Fatalities: fatalities,
		Injuries:   injuries,
		PropDmg:    prop,
		PropDmgExp: strings.TrimSpace(p.PropDmgExp),
		CropDmg:    crop,
		CropDmgExp: strings.TrimSpace(p.CropDmgExp),
		BeginDate:  strings.TrimSpace(p.BeginDate),
	}, nil
}

func cellError(column string, row int, value string, err error) error {
	return &domain.FormatError{Column: column, Row: row, Value: value, Err: err}
}

// parseCount accepts "3" and "3.00" alike; empty cells are 0.
func parseCount(s string) (int, error) {
	v, err := parseAmount(s)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, errNotIntegral
	}
	if v > math.MaxInt32 {
		return 0, errOutOfRange
	}
	return int(v), nil
}

// parseAmount parses a non-negative decimal; empty cells are 0.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	if v < 0 {
		return 0, errNegative
	}
	return v, nil
}
