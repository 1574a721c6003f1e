package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vaidashi/sales-analytics-pipeline/internal/config"
	"github.com/vaidashi/sales-analytics-pipeline/internal/dataset"
	"github.com/vaidashi/sales-analytics-pipeline/internal/models"
	apperrors "github.com/vaidashi/sales-analytics-pipeline/pkg/errors"
	"github.com/vaidashi/sales-analytics-pipeline/pkg/logger"
)

// SourceFileName is the raw sales file name the engine reads from the
// configured raw data path
const SourceFileName = "product_sales_data.csv"

// ReportArtifacts describes where one report's two output files landed
type ReportArtifacts struct {
	CSVPath     string `json:"csv_path"`
	ParquetPath string `json:"parquet_path"`
	Rows        int    `json:"rows"`
}

// Sink persists every report in both output formats under a timestamped
// name. A failure of either format fails the whole run; no partial report
// pair is left behind.
type Sink interface {
	Persist(reports map[string]Report, timestamp string) (map[string]ReportArtifacts, error)
}

// RunResult is the outcome of a completed pipeline run
type RunResult struct {
	RunID     string                     `json:"run_id"`
	Timestamp string                     `json:"timestamp"`
	Source    string                     `json:"source"`
	RowCount  int                        `json:"row_count"`
	Duration  time.Duration              `json:"duration"`
	Reports   map[string]ReportArtifacts `json:"reports"`
}

// RunManifest is the per-run record written to the reports directory. It
// is the handover point for downstream loads.
type RunManifest struct {
	RunResult
	Summary []string `json:"summary"`
}

// ManifestFileName returns the manifest file name for a run timestamp
func ManifestFileName(timestamp string) string {
	return "run_" + timestamp + ".json"
}

// LoadLatestManifest reads the most recent run manifest in reportsDir
func LoadLatestManifest(reportsDir string) (*RunManifest, error) {
	entries, err := os.ReadDir(reportsDir)

	if err != nil {
		return nil, apperrors.NewIOError("manifest", fmt.Sprintf("cannot read %s", reportsDir)).WithCause(err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, "run_") && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return nil, apperrors.NewIOError("manifest", fmt.Sprintf("no run manifest in %s", reportsDir))
	}

	// Timestamped names sort chronologically
	sort.Strings(names)
	path := filepath.Join(reportsDir, names[len(names)-1])

	data, err := os.ReadFile(path)

	if err != nil {
		return nil, apperrors.NewIOError("manifest", fmt.Sprintf("cannot read %s", path)).WithCause(err)
	}

	var manifest RunManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, apperrors.NewSchemaError("manifest", fmt.Sprintf("cannot parse %s", path)).WithCause(err)
	}

	return &manifest, nil
}

// Notifier publishes a run-completed event to downstream consumers
type Notifier interface {
	RunCompleted(ctx context.Context, result RunResult) error
}

// StatusTracker receives run progress updates for the monitor endpoint
type StatusTracker interface {
	RunStarted(runID string)
	StageChanged(stage string)
	RowsLoaded(n int)
	ReportCompleted(name string)
	RunFinished(err error)
}

// Engine transforms one wide order table into seven summary tables and
// one scalar summary, and persists the seven tables. Control flow is
// strictly linear: load, repartition, compute, persist, summarize. Any
// stage failure aborts the run; the executor is released regardless.
type Engine struct {
	cfg      *config.Config
	logger   logger.Logger
	executor *Executor
	sink     Sink
	notifier Notifier
	tracker  StatusTracker
}

// NewEngine creates a new aggregation engine. The notifier and tracker
// are optional and may be nil.
func NewEngine(cfg *config.Config, log logger.Logger, executor *Executor, sink Sink, notifier Notifier, tracker StatusTracker) *Engine {
	return &Engine{
		cfg:      cfg,
		logger:   log,
		executor: executor,
		sink:     sink,
		notifier: notifier,
		tracker:  tracker,
	}
}

// Run executes the full analytics pipeline once. The executor is released
// on every exit path.
func (e *Engine) Run(ctx context.Context) (err error) {
	defer e.executor.Release()
	defer func() {
		if e.tracker != nil {
			e.tracker.RunFinished(err)
		}
	}()

	runID := models.GenerateRunID()
	start := time.Now()
	timestamp := models.RunTimestamp(start)

	if e.tracker != nil {
		e.tracker.RunStarted(runID)
	}

	e.logger.Info("Starting sales analytics processing", "runID", runID, "timestamp", timestamp)

	sourcePath := filepath.Join(e.cfg.DataPaths.Raw, SourceFileName)

	e.stage("load")
	table, err := dataset.Load(sourcePath)

	if err != nil {
		e.logger.Error("Failed to load sales data", "stage", "load", "path", sourcePath, "error", err)
		return err
	}

	e.logger.Info("Data loaded successfully", "records", table.NumRows())
	if e.tracker != nil {
		e.tracker.RowsLoaded(table.NumRows())
	}

	e.stage("repartition")
	table = table.Repartition(e.cfg.Processing.Partitions)

	e.stage("aggregate")
	reports, err := e.ComputeReports(ctx, table)

	if err != nil {
		e.logger.Error("Failed to compute reports", "stage", "aggregate", "error", err)
		return err
	}

	e.stage("persist")
	artifacts, err := e.sink.Persist(reports, timestamp)

	if err != nil {
		e.logger.Error("Failed to persist reports", "stage", "persist", "error", err)
		return err
	}

	e.stage("summarize")
	summary := Summarize(table)
	for _, line := range summary.Lines() {
		e.logger.Info(line)
	}

	result := RunResult{
		RunID:     runID,
		Timestamp: timestamp,
		Source:    sourcePath,
		RowCount:  table.NumRows(),
		Duration:  time.Since(start),
		Reports:   artifacts,
	}

	e.stage("report")
	manifest := RunManifest{RunResult: result, Summary: summary.Lines()}

	if err := e.writeManifest(manifest); err != nil {
		e.logger.Error("Failed to write run manifest", "stage", "report", "error", err)
		return err
	}

	if e.notifier != nil {
		if err := e.notifier.RunCompleted(ctx, result); err != nil {
			// Notification failures do not invalidate persisted output
			e.logger.Warn("Failed to publish run notification", "error", err)
		}
	}

	e.logger.Info("Analytics processing completed successfully",
		"runID", runID, "duration", result.Duration.String())

	return nil
}

// ComputeReports computes the seven grouped reports. The reports have no
// data dependency on each other and run concurrently on the executor.
func (e *Engine) ComputeReports(ctx context.Context, table *dataset.Table) (map[string]Report, error) {
	builders := reportBuilders(e.cfg.Processing.TopProductsLimit)
	results := make([]Report, len(builders))

	tasks := make([]func(context.Context) error, 0, len(builders))
	for i, builder := range builders {
		i, builder := i, builder
		tasks = append(tasks, func(ctx context.Context) error {
			results[i] = builder.build(table.Partitions())

			e.logger.Debug("Report computed", "report", builder.name, "groups", results[i].NumRows())
			if e.tracker != nil {
				e.tracker.ReportCompleted(builder.name)
			}
			return nil
		})
	}

	if err := e.executor.Run(ctx, tasks); err != nil {
		return nil, err
	}

	reports := make(map[string]Report, len(results))
	for _, report := range results {
		reports[report.Name()] = report
	}

	return reports, nil
}

func (e *Engine) writeManifest(manifest RunManifest) error {
	dir := e.cfg.DataPaths.Reports

	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewIOError("report", fmt.Sprintf("cannot create %s", dir)).WithCause(err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")

	if err != nil {
		return apperrors.NewIOError("report", "cannot encode run manifest").WithCause(err)
	}

	path := filepath.Join(dir, ManifestFileName(manifest.Timestamp))

	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperrors.NewIOError("report", fmt.Sprintf("cannot write %s", path)).WithCause(err)
	}

	e.logger.Info("Run manifest written", "path", path)
	return nil
}

func (e *Engine) stage(name string) {
	if e.tracker != nil {
		e.tracker.StageChanged(name)
	}
}
