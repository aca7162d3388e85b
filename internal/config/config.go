package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// DefaultDataURL is the published location of the compressed storm catalog.
const DefaultDataURL = "https://d396qusza40orc.cloudfront.net/repdata%2Fdata%2FStormData.csv.bz2"

// ReportFormats lists the accepted REPORT_FORMAT values.
var ReportFormats = []string{"table", "markdown", "json", "yaml", "html"}

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataURL         string
	DataPath        string
	DownloadTimeout time.Duration
	ReportFormat    string
	// Distinct event types memoized by the classifier cache.
	ClassifierCacheSize int
	HTTPAddr            string
	LogLevel            string
	LogFormat           string
	ShutdownTimeout     time.Duration

	// Kafka publication of aggregates.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first if
// present; variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	downloadTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("DOWNLOAD_TIMEOUT", "10m"))
	if err != nil || downloadTimeout <= 0 {
		return nil, errors.New("invalid DOWNLOAD_TIMEOUT")
	}

	cacheSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("CLASSIFIER_CACHE_SIZE", "1024"))
	if err != nil || cacheSize < 0 {
		return nil, errors.New("invalid CLASSIFIER_CACHE_SIZE")
	}

	cfg := &Config{
		DataURL:             sharedcfg.EnvOrDefault("DATA_URL", DefaultDataURL),
		DataPath:            sharedcfg.EnvOrDefault("DATA_PATH", "data/StormData.csv.bz2"),
		DownloadTimeout:     downloadTimeout,
		ReportFormat:        strings.ToLower(sharedcfg.EnvOrDefault("REPORT_FORMAT", "table")),
		ClassifierCacheSize: cacheSize,
		HTTPAddr:            sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "storm-impact-aggregates"),
	}

	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if !ValidReportFormat(cfg.ReportFormat) {
		return nil, errors.New("invalid REPORT_FORMAT: want one of " + strings.Join(ReportFormats, ", "))
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

// ValidReportFormat reports whether f is one of ReportFormats.
func ValidReportFormat(f string) bool {
	for _, v := range ReportFormats {
		if f == v {
			return true
		}
	}
	return false
}
