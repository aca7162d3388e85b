package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-impact-etl/internal/domain"
	"github.com/couchcryptid/storm-impact-etl/internal/observability"
	"github.com/google/uuid"
)

// Loader reads the raw catalog from a local path.
type Loader interface {
	Load(ctx context.Context, path string) ([]domain.RawRecord, error)
}

// Cleaner turns a raw record into a classified clean record.
type Cleaner interface {
	Clean(raw domain.RawRecord) (domain.CleanResult, error)
}

// Sink receives the summary of a completed run.
type Sink interface {
	Name() string
	Publish(ctx context.Context, s domain.Summary) error
}

// Result is the full output of a run.
type Result struct {
	Summary domain.Summary
	Records []domain.CleanRecord
}

// Pipeline orchestrates the load-clean-aggregate run and hands the summary
// to its sinks.
type Pipeline struct {
	loader  Loader
	cleaner Cleaner
	sinks   []Sink
	logger  *slog.Logger
	metrics *observability.Metrics
	newID   func() string

	ready atomic.Bool
	mu    sync.RWMutex
	last  domain.Summary
}

// New creates a Pipeline with the given stages and observability.
func New(l Loader, c Cleaner, logger *slog.Logger, metrics *observability.Metrics, sinks ...Sink) *Pipeline {
	return &Pipeline{
		loader:  l,
		cleaner: c,
		sinks:   sinks,
		logger:  logger,
		metrics: metrics,
		newID:   func() string { return uuid.New().String() },
	}
}

// CheckReadiness returns nil once a run has completed, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no pipeline run has completed yet")
	}
	return nil
}

// LastSummary returns the summary of the most recent completed run.
func (p *Pipeline) LastSummary() (domain.Summary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last, p.ready.Load()
}

// Run loads the catalog at path, cleans and classifies every record,
// aggregates the survivors and publishes the summary to each sink. A format
// or date error aborts the whole run. Sink failures are reported after all
// sinks have been tried; the summary is still recorded.
func (p *Pipeline) Run(ctx context.Context, path string) (Result, error) {
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)
	start := time.Now()

	p.logger.Info("pipeline started", "source", path)

	raw, err := p.loader.Load(ctx, path)
	if err != nil {
		p.metrics.RunErrors.Inc()
		return Result{}, fmt.Errorf("load catalog: %w", err)
	}
	p.metrics.RowsLoaded.Add(float64(len(raw)))

	res, err := p.Process(raw)
	if err != nil {
		p.metrics.RunErrors.Inc()
		return Result{}, err
	}
	res.Summary.Source = path

	p.mu.Lock()
	p.last = res.Summary
	p.mu.Unlock()
	p.ready.Store(true)

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("pipeline finished",
		"run_id", res.Summary.RunID,
		"rows", res.Summary.RowsLoaded,
		"retained", res.Summary.Retained,
		"dropped", res.Summary.Dropped,
		"warnings", res.Summary.WarningCount(),
		"groups", len(res.Summary.Aggregates),
		"duration", time.Since(start),
	)

	return res, p.publish(ctx, res.Summary)
}

// Process runs the clean, classify and aggregate stages over records that
// are already in memory.
func (p *Pipeline) Process(raw []domain.RawRecord) (Result, error) {
	s := domain.Summary{
		RunID:       p.newID(),
		GeneratedAt: domain.Now(),
		RowsLoaded:  len(raw),
	}

	records := make([]domain.CleanRecord, 0, len(raw))
	acc := domain.NewAccumulator()
	for _, r := range raw {
		cr, err := p.cleaner.Clean(r)
		if err != nil {
			return Result{}, fmt.Errorf("clean catalog: %w", err)
		}
		if !cr.Kept {
			s.Dropped++
			continue
		}
		for _, w := range cr.Warnings {
			if s.Warnings == nil {
				s.Warnings = make(map[string]int)
			}
			s.Warnings[w.Key()]++
			p.metrics.NormalizationWarnings.WithLabelValues(w.Field).Inc()
		}
		rec := cr.Record
		if s.FirstYear == 0 || rec.Year < s.FirstYear {
			s.FirstYear = rec.Year
		}
		if rec.Year > s.LastYear {
			s.LastYear = rec.Year
		}
		acc.Add(rec)
		records = append(records, rec)
	}

	s.Retained = len(records)
	s.Aggregates = acc.Result()
	p.metrics.RecordsRetained.Add(float64(s.Retained))
	p.metrics.RecordsDropped.Add(float64(s.Dropped))

	return Result{Summary: s, Records: records}, nil
}

func (p *Pipeline) publish(ctx context.Context, s domain.Summary) error {
	var errs []error
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, s); err != nil {
			p.logger.Error("publish summary failed", "sink", sink.Name(), "error", err)
			errs = append(errs, fmt.Errorf("sink %s: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}
