package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidashi/sales-analytics-pipeline/internal/analytics"
)

func TestNewRunEventCarriesRunResult(t *testing.T) {
	published := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	result := analytics.RunResult{
		RunID:     "run-1a2b3c4d",
		Timestamp: "20240601_115900",
		Source:    "data/raw/product_sales_data.csv",
		RowCount:  1000000,
		Duration:  92 * time.Second,
		Reports: map[string]analytics.ReportArtifacts{
			analytics.ReportDailySales: {
				CSVPath:     "data/curated/daily_sales_20240601_115900",
				ParquetPath: "data/curated/daily_sales_20240601_115900.parquet",
				Rows:        730,
			},
		},
	}

	event := NewRunEvent(result, published)

	assert.Equal(t, EventTypeRunCompleted, event.EventType)
	assert.Equal(t, "run-1a2b3c4d", event.RunID)
	assert.Equal(t, 1000000, event.RowCount)
	assert.Equal(t, int64(92000), event.DurationMS)
	assert.Equal(t, published, event.PublishedAt)
	assert.Equal(t, 730, event.Reports[analytics.ReportDailySales].Rows)
}

func TestRunEventJSONShape(t *testing.T) {
	result := analytics.RunResult{
		RunID:     "run-deadbeef",
		Timestamp: "20240601_120000",
		RowCount:  42,
		Duration:  1500 * time.Millisecond,
		Reports:   map[string]analytics.ReportArtifacts{},
	}

	event := NewRunEvent(result, time.Date(2024, 6, 1, 12, 1, 0, 0, time.UTC))

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "pipeline.run.completed", decoded["event_type"])
	assert.Equal(t, "run-deadbeef", decoded["run_id"])
	assert.Equal(t, float64(42), decoded["row_count"])
	assert.Equal(t, float64(1500), decoded["duration_ms"])
	assert.Contains(t, decoded, "published_at")
	assert.Contains(t, decoded, "reports")
}
