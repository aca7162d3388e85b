// Package download acquires the storm catalog and caches it on local disk.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/storm-impact-etl/internal/observability"
)

// Fetcher downloads a remote file once and reuses the local copy afterwards.
type Fetcher struct {
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher whose requests are bounded by timeout.
func NewFetcher(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// Fetch returns path if it already exists. Otherwise it creates the parent
// directory, downloads url into a temporary file beside path and renames it
// into place, so an interrupted download never leaves a partial file at path.
func (f *Fetcher) Fetch(ctx context.Context, url, path string) (string, error) {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("cache path %s is a directory", path)
		}
		f.metrics.DownloadCache.WithLabelValues("hit").Inc()
		f.logger.Debug("catalog cache hit", "path", path)
		return path, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat cache path: %w", err)
	}
	f.metrics.DownloadCache.WithLabelValues("miss").Inc()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	start := time.Now()
	n, err := f.download(ctx, url, dir, path)
	if err != nil {
		return "", err
	}
	f.metrics.DownloadDuration.Observe(time.Since(start).Seconds())
	f.logger.Info("catalog downloaded", "url", url, "path", path, "bytes", n, "duration", time.Since(start))
	return path, nil
}

func (f *Fetcher) download(ctx context.Context, url, dir, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("download catalog: status %d: %s", resp.StatusCode, body)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("move catalog into place: %w", err)
	}
	return n, nil
}
