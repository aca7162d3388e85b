package pipeline

import (
	"log/slog"

	"github.com/couchcryptid/storm-impact-etl/internal/domain"
)

// ImpactCleaner implements Cleaner using the domain cleaning functions and
// an event classifier.
type ImpactCleaner struct {
	classifier EventClassifier
	logger     *slog.Logger
}

// NewCleaner creates an ImpactCleaner. Pass a nil classifier to use the
// default catalog rules.
func NewCleaner(classifier EventClassifier, logger *slog.Logger) *ImpactCleaner {
	if classifier == nil {
		classifier = domain.DefaultClassifier()
	}
	return &ImpactCleaner{
		classifier: classifier,
		logger:     logger,
	}
}

// Clean dates, filters, normalizes and classifies one raw record.
func (c *ImpactCleaner) Clean(raw domain.RawRecord) (domain.CleanResult, error) {
	res, err := domain.Clean(raw)
	if err != nil || !res.Kept {
		return res, err
	}
	for _, w := range res.Warnings {
		c.logger.Debug("exponent code not applied", "row", w.Row, "field", w.Field, "token", w.Token, "out_of_range", w.OutOfRange)
	}
	res.Record.Group = c.classifier.Classify(res.Record.EventType)
	return res, nil
}
