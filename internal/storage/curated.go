package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vaidashi/sales-analytics-pipeline/internal/analytics"
	apperrors "github.com/vaidashi/sales-analytics-pipeline/pkg/errors"
	"github.com/vaidashi/sales-analytics-pipeline/pkg/logger"
)

const persistStage = "persist"

// SuccessMarker mirrors the marker file a coalesced write leaves next to
// its single part file
const SuccessMarker = "_SUCCESS"

// PartFileName is the single coalesced csv shard of a report
const PartFileName = "part-00000.csv"

// CuratedWriter persists reports under the curated data directory. Each
// report becomes two artifacts sharing a timestamped base name: a
// directory with a single header-bearing csv part file, and a parquet
// file preserving the aggregate column types. Both artifacts are staged
// under temporary names and renamed into place only once complete, so a
// failed report never leaves a partial pair behind. A pre-existing
// artifact at the same path is replaced.
type CuratedWriter struct {
	curatedDir string
	logger     logger.Logger
}

// NewCuratedWriter creates a writer rooted at the curated data directory
func NewCuratedWriter(curatedDir string, log logger.Logger) *CuratedWriter {
	return &CuratedWriter{
		curatedDir: curatedDir,
		logger:     log,
	}
}

// Persist writes every report in both formats. The first failure aborts
// the whole run.
func (w *CuratedWriter) Persist(reports map[string]analytics.Report, timestamp string) (map[string]analytics.ReportArtifacts, error) {
	if err := os.MkdirAll(w.curatedDir, 0755); err != nil {
		return nil, apperrors.NewIOError(persistStage, "cannot create curated directory").WithCause(err)
	}

	artifacts := make(map[string]analytics.ReportArtifacts, len(reports))

	for _, name := range analytics.ReportNames() {
		report, ok := reports[name]
		if !ok {
			continue
		}

		saved, err := w.persistReport(report, timestamp)

		if err != nil {
			return nil, err
		}

		artifacts[name] = saved
		w.logger.Info(fmt.Sprintf("Saved %s report to %s", name, saved.CSVPath))
	}

	return artifacts, nil
}

func (w *CuratedWriter) persistReport(report analytics.Report, timestamp string) (analytics.ReportArtifacts, error) {
	base := fmt.Sprintf("%s_%s", report.Name(), timestamp)
	csvDir := filepath.Join(w.curatedDir, base)
	parquetPath := filepath.Join(w.curatedDir, base+".parquet")

	stagedCSV := filepath.Join(w.curatedDir, ".staging-"+base)
	stagedParquet := parquetPath + ".staging"

	cleanup := func() {
		os.RemoveAll(stagedCSV)
		os.Remove(stagedParquet)
	}

	if err := w.writeCSVDir(report, stagedCSV); err != nil {
		cleanup()
		return analytics.ReportArtifacts{}, err
	}

	if err := w.writeParquet(report, stagedParquet); err != nil {
		cleanup()
		return analytics.ReportArtifacts{}, err
	}

	// Both artifacts are complete; move them into place, replacing any
	// previous files at the same paths
	if err := replace(stagedCSV, csvDir); err != nil {
		cleanup()
		return analytics.ReportArtifacts{}, apperrors.NewIOError(persistStage,
			fmt.Sprintf("cannot finalize csv artifact for %s", report.Name())).WithCause(err)
	}

	if err := replace(stagedParquet, parquetPath); err != nil {
		os.RemoveAll(csvDir)
		cleanup()
		return analytics.ReportArtifacts{}, apperrors.NewIOError(persistStage,
			fmt.Sprintf("cannot finalize parquet artifact for %s", report.Name())).WithCause(err)
	}

	return analytics.ReportArtifacts{
		CSVPath:     csvDir,
		ParquetPath: parquetPath,
		Rows:        report.NumRows(),
	}, nil
}

func (w *CuratedWriter) writeCSVDir(report analytics.Report, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewIOError(persistStage,
			fmt.Sprintf("cannot create csv directory for %s", report.Name())).WithCause(err)
	}

	file, err := os.Create(filepath.Join(dir, PartFileName))

	if err != nil {
		return apperrors.NewIOError(persistStage,
			fmt.Sprintf("cannot create csv part file for %s", report.Name())).WithCause(err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(report.Header()); err != nil {
		return apperrors.NewIOError(persistStage,
			fmt.Sprintf("cannot write csv header for %s", report.Name())).WithCause(err)
	}

	for _, row := range report.CSVRows() {
		if err := writer.Write(row); err != nil {
			return apperrors.NewIOError(persistStage,
				fmt.Sprintf("cannot write csv row for %s", report.Name())).WithCause(err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewIOError(persistStage,
			fmt.Sprintf("cannot flush csv for %s", report.Name())).WithCause(err)
	}

	if err := file.Sync(); err != nil {
		return apperrors.NewIOError(persistStage,
			fmt.Sprintf("cannot sync csv for %s", report.Name())).WithCause(err)
	}

	marker, err := os.Create(filepath.Join(dir, SuccessMarker))

	if err != nil {
		return apperrors.NewIOError(persistStage,
			fmt.Sprintf("cannot create success marker for %s", report.Name())).WithCause(err)
	}

	return marker.Close()
}

func (w *CuratedWriter) writeParquet(report analytics.Report, path string) error {
	file, err := os.Create(path)

	if err != nil {
		return apperrors.NewIOError(persistStage,
			fmt.Sprintf("cannot create parquet file for %s", report.Name())).WithCause(err)
	}

	if err := report.WriteParquet(file); err != nil {
		file.Close()
		return apperrors.NewIOError(persistStage,
			fmt.Sprintf("cannot write parquet for %s", report.Name())).WithCause(err)
	}

	return file.Close()
}

// replace atomically moves src over dst, removing any previous dst first
func replace(src string, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	return os.Rename(src, dst)
}
