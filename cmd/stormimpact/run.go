package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/couchcryptid/storm-impact-etl/internal/adapter/bz2csv"
	"github.com/couchcryptid/storm-impact-etl/internal/adapter/download"
	kafkaadapter "github.com/couchcryptid/storm-impact-etl/internal/adapter/kafka"
	"github.com/couchcryptid/storm-impact-etl/internal/config"
	"github.com/couchcryptid/storm-impact-etl/internal/domain"
	"github.com/couchcryptid/storm-impact-etl/internal/observability"
	"github.com/couchcryptid/storm-impact-etl/internal/pipeline"
	"github.com/couchcryptid/storm-impact-etl/internal/report"
	"github.com/spf13/cobra"
)

var (
	reportFormat string
	outPath      string
)

func init() {
	runCmd.Flags().StringVarP(&reportFormat, "format", "f", "", "Report format: "+strings.Join(config.ReportFormats, ", ")+" (overrides REPORT_FORMAT)")
	runCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the report to this file instead of stdout")
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the catalog if it is not cached locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		metrics := observability.NewMetrics()
		path, err := download.NewFetcher(cfg.DownloadTimeout, metrics, logger).Fetch(ctx, cfg.DataURL, cfg.DataPath)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the catalog, aggregate impact per event group and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		format := cfg.ReportFormat
		if reportFormat != "" {
			format = strings.ToLower(reportFormat)
		}
		if !config.ValidReportFormat(format) {
			return fmt.Errorf("invalid --format %q: want one of %s", reportFormat, strings.Join(config.ReportFormats, ", "))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		metrics := observability.NewMetrics()
		p, closeSinks := buildPipeline(metrics)
		defer closeSinks()

		// A sink failure still yields a summary worth printing.
		res, err := fetchAndRun(ctx, p, metrics)
		if err != nil && res.Summary.RunID == "" {
			return err
		}
		if werr := writeReport(cmd.OutOrStdout(), res.Summary, format); werr != nil {
			return werr
		}
		return err
	},
}

// buildPipeline wires the loader, cleaner and configured sinks. The returned
// func closes any sink connections.
func buildPipeline(metrics *observability.Metrics) (*pipeline.Pipeline, func()) {
	var sinks []pipeline.Sink
	var closers []io.Closer
	if cfg.KafkaEnabled {
		w := kafkaadapter.NewWriter(cfg, metrics, logger)
		sinks = append(sinks, w)
		closers = append(closers, w)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	classifier := pipeline.NewCachedClassifier(domain.DefaultClassifier(), cfg.ClassifierCacheSize, metrics)
	p := pipeline.New(bz2csv.NewLoader(logger), pipeline.NewCleaner(classifier, logger), logger, metrics, sinks...)
	return p, func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Error("sink close error", "error", err)
			}
		}
	}
}

func fetchAndRun(ctx context.Context, p *pipeline.Pipeline, metrics *observability.Metrics) (pipeline.Result, error) {
	path, err := download.NewFetcher(cfg.DownloadTimeout, metrics, logger).Fetch(ctx, cfg.DataURL, cfg.DataPath)
	if err != nil {
		return pipeline.Result{}, err
	}
	return p.Run(ctx, path)
}

func writeReport(stdout io.Writer, s domain.Summary, format string) error {
	if outPath == "" {
		return report.Render(stdout, s, format)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := report.Render(f, s, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}
	logger.Info("report written", "path", outPath, "format", format)
	return nil
}
