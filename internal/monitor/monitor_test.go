package monitor

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidashi/sales-analytics-pipeline/internal/analytics"
	"github.com/vaidashi/sales-analytics-pipeline/pkg/logger"
)

func TestTrackerFollowsRunLifecycle(t *testing.T) {
	tracker := NewTracker()
	assert.Equal(t, StateIdle, tracker.Status().State)

	tracker.RunStarted("run-1a2b3c4d")
	tracker.StageChanged("load")
	tracker.RowsLoaded(1000)
	tracker.ReportCompleted(analytics.ReportDailySales)
	tracker.ReportCompleted(analytics.ReportTopProducts)

	status := tracker.Status()
	assert.Equal(t, "run-1a2b3c4d", status.RunID)
	assert.Equal(t, StateRunning, status.State)
	assert.Equal(t, "load", status.Stage)
	assert.Equal(t, 1000, status.RowsLoaded)
	assert.Equal(t, []string{analytics.ReportDailySales, analytics.ReportTopProducts}, status.CompletedReports)

	tracker.RunFinished(nil)
	status = tracker.Status()
	assert.Equal(t, StateCompleted, status.State)
	assert.Empty(t, status.Error)
	assert.False(t, status.FinishedAt.IsZero())
}

func TestTrackerRecordsFailure(t *testing.T) {
	tracker := NewTracker()
	tracker.RunStarted("run-deadbeef")
	tracker.RunFinished(errors.New("load: io_error: cannot open file"))

	status := tracker.Status()
	assert.Equal(t, StateFailed, status.State)
	assert.Equal(t, "load: io_error: cannot open file", status.Error)
}

func TestTrackerNewRunResetsPreviousState(t *testing.T) {
	tracker := NewTracker()
	tracker.RunStarted("run-first")
	tracker.RowsLoaded(500)
	tracker.ReportCompleted(analytics.ReportDailySales)
	tracker.RunFinished(errors.New("boom"))

	tracker.RunStarted("run-second")

	status := tracker.Status()
	assert.Equal(t, "run-second", status.RunID)
	assert.Equal(t, StateRunning, status.State)
	assert.Zero(t, status.RowsLoaded)
	assert.Empty(t, status.CompletedReports)
	assert.Empty(t, status.Error)
}

func TestTrackerConcurrentUpdates(t *testing.T) {
	tracker := NewTracker()
	tracker.RunStarted("run-parallel")

	var wg sync.WaitGroup
	for _, name := range analytics.ReportNames() {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			tracker.ReportCompleted(name)
		}(name)
	}
	wg.Wait()

	assert.Len(t, tracker.Status().CompletedReports, len(analytics.ReportNames()))
}

func TestStatusEndpoint(t *testing.T) {
	tracker := NewTracker()
	tracker.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	tracker.RunStarted("run-1a2b3c4d")
	tracker.StageChanged("persist")

	server := NewServer(":0", tracker, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status RunStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "run-1a2b3c4d", status.RunID)
	assert.Equal(t, "persist", status.Stage)
	assert.Equal(t, StateRunning, status.State)
}

func TestHealthEndpoint(t *testing.T) {
	server := NewServer(":0", NewTracker(), logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}
