package monitor

import (
	"sync"
	"time"
)

// RunStatus is a point-in-time snapshot of pipeline progress
type RunStatus struct {
	RunID            string    `json:"run_id"`
	State            string    `json:"state"`
	Stage            string    `json:"stage"`
	RowsLoaded       int       `json:"rows_loaded"`
	CompletedReports []string  `json:"completed_reports"`
	Error            string    `json:"error,omitempty"`
	StartedAt        time.Time `json:"started_at,omitempty"`
	FinishedAt       time.Time `json:"finished_at,omitempty"`
}

// Run states reported on the status endpoint
const (
	StateIdle      = "idle"
	StateRunning   = "running"
	StateCompleted = "completed"
	StateFailed    = "failed"
)

// Tracker records pipeline progress for the status endpoint. All methods
// are safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	status RunStatus
	now    func() time.Time
}

// NewTracker creates a new tracker
func NewTracker() *Tracker {
	return &Tracker{
		status: RunStatus{State: StateIdle},
		now:    time.Now,
	}
}

// RunStarted resets the tracker for a new run
func (t *Tracker) RunStarted(runID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = RunStatus{
		RunID:     runID,
		State:     StateRunning,
		StartedAt: t.now(),
	}
}

// StageChanged records the stage the run is currently in
func (t *Tracker) StageChanged(stage string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.Stage = stage
}

// RowsLoaded records how many input rows the run loaded
func (t *Tracker) RowsLoaded(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.RowsLoaded = n
}

// ReportCompleted records a finished report
func (t *Tracker) ReportCompleted(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.CompletedReports = append(t.status.CompletedReports, name)
}

// RunFinished records the terminal state of the run
func (t *Tracker) RunFinished(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.FinishedAt = t.now()
	if err != nil {
		t.status.State = StateFailed
		t.status.Error = err.Error()
		return
	}

	t.status.State = StateCompleted
}

// Status returns a copy of the current run status
func (t *Tracker) Status() RunStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	status := t.status
	status.CompletedReports = append([]string(nil), t.status.CompletedReports...)
	return status
}
