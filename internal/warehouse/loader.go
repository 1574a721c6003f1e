package warehouse

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vaidashi/sales-analytics-pipeline/internal/analytics"
	"github.com/vaidashi/sales-analytics-pipeline/internal/storage"
	apperrors "github.com/vaidashi/sales-analytics-pipeline/pkg/errors"
	"github.com/vaidashi/sales-analytics-pipeline/pkg/logger"
)

const loadStage = "warehouse"

// Loader copies curated report output into the warehouse
type Loader struct {
	db     *Database
	logger logger.Logger
}

// NewLoader creates a new warehouse loader
func NewLoader(db *Database, log logger.Logger) *Loader {
	return &Loader{
		db:     db,
		logger: log,
	}
}

// LoadRun bulk-loads every report artifact of a completed run, and records
// the run in the ledger. The whole load is one transaction.
func (l *Loader) LoadRun(ctx context.Context, result analytics.RunResult) error {
	tx, err := l.db.DB.BeginTxx(ctx, nil)

	if err != nil {
		return apperrors.NewIOError(loadStage, "cannot begin transaction").WithCause(err)
	}
	defer tx.Rollback()

	for _, spec := range tableSpecs() {
		artifact, ok := result.Reports[spec.report]
		if !ok {
			return apperrors.NewIOError(loadStage, fmt.Sprintf("run has no %s artifact", spec.report))
		}

		rows, err := readReportCSV(artifact.CSVPath)

		if err != nil {
			return err
		}

		if err := l.copyReport(ctx, tx, spec, result.RunID, rows); err != nil {
			return err
		}

		l.logger.Info("Loaded report into warehouse", "report", spec.report, "table", spec.table, "rows", len(rows))
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pipeline_runs (run_id, run_timestamp, source, row_count, duration_ms)
		 VALUES ($1, $2, $3, $4, $5)`,
		result.RunID, result.Timestamp, result.Source, result.RowCount, result.Duration.Milliseconds())

	if err != nil {
		return apperrors.NewIOError(loadStage, "cannot record run").WithCause(err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewIOError(loadStage, "cannot commit load").WithCause(err)
	}

	l.logger.Info("Warehouse load completed", "runID", result.RunID)
	return nil
}

func (l *Loader) copyReport(ctx context.Context, tx *sqlx.Tx, spec tableSpec, runID string, rows [][]string) error {
	stmt, err := tx.PreparexContext(ctx, pq.CopyIn(spec.table, copyColumns(spec)...))

	if err != nil {
		return apperrors.NewIOError(loadStage, fmt.Sprintf("cannot prepare copy into %s", spec.table)).WithCause(err)
	}

	for _, row := range rows {
		values, err := rowValues(spec, runID, row)

		if err != nil {
			stmt.Close()
			return apperrors.NewSchemaError(loadStage, fmt.Sprintf("bad row in %s artifact", spec.report)).WithCause(err)
		}

		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			stmt.Close()
			return apperrors.NewIOError(loadStage, fmt.Sprintf("cannot copy into %s", spec.table)).WithCause(err)
		}
	}

	// Flush the copy buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return apperrors.NewIOError(loadStage, fmt.Sprintf("cannot flush copy into %s", spec.table)).WithCause(err)
	}

	return stmt.Close()
}

// readReportCSV reads the coalesced csv shard of a report artifact,
// dropping the header row
func readReportCSV(artifactDir string) ([][]string, error) {
	path := filepath.Join(artifactDir, storage.PartFileName)
	file, err := os.Open(path)

	if err != nil {
		return nil, apperrors.NewIOError(loadStage, fmt.Sprintf("cannot open %s", path)).WithCause(err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()

	if err != nil {
		return nil, apperrors.NewIOError(loadStage, fmt.Sprintf("cannot read %s", path)).WithCause(err)
	}

	if len(rows) == 0 {
		return nil, apperrors.NewSchemaError(loadStage, fmt.Sprintf("%s has no header row", path))
	}

	return rows[1:], nil
}
