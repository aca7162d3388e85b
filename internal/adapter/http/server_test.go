package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/storm-impact-etl/internal/adapter/http"
	"github.com/couchcryptid/storm-impact-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockSummaries struct {
	summary domain.Summary
	ok      bool
}

func (m *mockSummaries) LastSummary() (domain.Summary, bool) { return m.summary, m.ok }

func sampleSummary() domain.Summary {
	return domain.Summary{
		RunID:       "run-7",
		GeneratedAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		Source:      "data/StormData.csv.bz2",
		RowsLoaded:  3,
		Retained:    2,
		Dropped:     1,
		FirstYear:   1993,
		LastYear:    2011,
		Aggregates: []domain.ImpactAggregate{
			{Group: domain.GroupTornadoHail, Count: 1, FatalitiesSum: 158, FatalitiesMean: 158, InjuriesSum: 1150, InjuriesMean: 1150, PropertyDamageSum: 2800, PropertyDamageMean: 2800},
			{Group: domain.GroupFlood, Count: 1, PropertyDamageSum: 115000, PropertyDamageMean: 115000},
		},
	}
}

func newTestServer(readyErr error, summaries *mockSummaries) *httpadapter.Server {
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, summaries, slog.Default())
}

func serve(srv *httpadapter.Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := serve(newTestServer(nil, &mockSummaries{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := serve(newTestServer(nil, &mockSummaries{}), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := serve(newTestServer(fmt.Errorf("no pipeline run has completed yet"), &mockSummaries{}), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no pipeline run has completed yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestServer(nil, &mockSummaries{}), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestReportJSON(t *testing.T) {
	rec := serve(newTestServer(nil, &mockSummaries{summary: sampleSummary(), ok: true}), "/report.json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got domain.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "run-7", got.RunID)
	require.Len(t, got.Aggregates, 2)
	assert.Equal(t, domain.GroupTornadoHail, got.Aggregates[0].Group)
	assert.Equal(t, 1150, got.Aggregates[0].InjuriesSum)
}

func TestReportHTML(t *testing.T) {
	rec := serve(newTestServer(nil, &mockSummaries{summary: sampleSummary(), ok: true}), "/report")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "Population health")
	assert.Contains(t, body, "tornado/hail")
}

func TestReportBeforeFirstRun(t *testing.T) {
	srv := newTestServer(nil, &mockSummaries{})

	for _, path := range []string{"/report", "/report.json"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(srv, path)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "no report available yet", body["error"])
		})
	}
}

func TestReportJSON_UnencodableSummaryReturns500(t *testing.T) {
	sum := sampleSummary()
	sum.Aggregates[1].PropertyDamageSum = math.Inf(1)

	rec := serve(newTestServer(nil, &mockSummaries{summary: sum, ok: true}), "/report.json")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "render report failed", body["error"])
}
