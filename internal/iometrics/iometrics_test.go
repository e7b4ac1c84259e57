package iometrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gnames/dictmatrix/internal/iometrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobMetrics(t *testing.T) {
	m := iometrics.New()
	m.Submitted("import")
	m.Submitted("import")
	m.Started("import")
	m.Finished("import", iometrics.OutcomeDone, time.Second)

	n, err := testutil.GatherAndCount(m.Registry(),
		"dictmatrix_jobs_submitted_total",
		"dictmatrix_jobs_finished_total",
		"dictmatrix_jobs_queued",
		"dictmatrix_jobs_running",
		"dictmatrix_jobs_duration_seconds",
	)
	require.Nil(t, err)
	assert.Equal(t, 5, n)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.Nil(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.Nil(t, err)
	assert.Contains(t, string(body), `dictmatrix_jobs_queued{kind="import"} 1`)
	assert.Contains(t, string(body),
		`dictmatrix_jobs_finished_total{kind="import",outcome="done"} 1`)
}

func TestNilMetrics(t *testing.T) {
	var m *iometrics.Metrics
	assert.NotPanics(t, func() {
		m.Submitted("link")
		m.Started("link")
		m.Finished("link", iometrics.OutcomeFailed, 0)
	})
}
