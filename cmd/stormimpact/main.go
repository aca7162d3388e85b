// Command stormimpact downloads the NOAA storm catalog, cleans and
// classifies every event, and reports which event groups cost the most
// lives and money.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/storm-impact-etl/internal/config"
	"github.com/couchcryptid/storm-impact-etl/internal/domain"
	"github.com/couchcryptid/storm-impact-etl/internal/observability"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	dataPath string
	cfg      *config.Config
	logger   *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logError(err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "stormimpact",
	Short:         "Storm impact on population health and the economy",
	Long:          "stormimpact aggregates the NOAA storm catalog into fatalities, injuries and damage per event group.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if dataPath != "" {
			cfg.DataPath = dataPath
		}
		// serve logs to stdout like the other services; the rest print
		// their result there.
		if cmd.Name() == "serve" {
			logger = observability.NewLogger(cfg)
		} else {
			logger = observability.NewStderrLogger(cfg)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data-path", "", "Local path of the compressed catalog (overrides DATA_PATH)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "stormimpact", version)
	},
}

// logError reports a fatal error, attaching the row and column of data
// errors so the offending cell can be found in the catalog.
func logError(err error) {
	l := logger
	if l == nil {
		l = slog.Default()
	}
	var fe *domain.FormatError
	var de *domain.DateParseError
	switch {
	case errors.As(err, &fe):
		l.Error("catalog format error", "row", fe.Row, "column", fe.Column, "value", fe.Value, "error", err)
	case errors.As(err, &de):
		l.Error("catalog date error", "row", de.Row, "value", de.Value, "error", err)
	default:
		l.Error("stormimpact failed", "error", err)
	}
}
