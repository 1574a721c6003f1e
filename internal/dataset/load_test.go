package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidashi/sales-analytics-pipeline/internal/models"
	apperrors "github.com/vaidashi/sales-analytics-pipeline/pkg/errors"
)

func writeSalesFile(t *testing.T, rows [][]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "product_sales_data.csv")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	w := csv.NewWriter(file)
	require.NoError(t, w.Write(models.OrderColumns()))
	require.NoError(t, w.WriteAll(rows))
	w.Flush()
	require.NoError(t, w.Error())

	return path
}

func sampleRow(orderID string) []string {
	return []string{
		orderID, "2023-05-14", "CUST-000001", "Ada Example", "ada@example.com",
		"Europe", "Paris", "PROD-000007", "Ergonomic Widget", "Electronics",
		"Smartphones", "2", "100.00", "200.00", "10.00", "20.00", "180.00",
		"50.00", "100.00", "80.00", "Credit Card", "Express", "17.50", "Completed",
	}
}

func TestLoadParsesTypedRecord(t *testing.T) {
	path := writeSalesFile(t, [][]string{sampleRow("ORD-00000001")})

	table, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, table.NumRows())

	row := table.Rows()[0]
	assert.Equal(t, "ORD-00000001", row.OrderID)
	assert.Equal(t, "2023-05-14", row.OrderDate.Format(models.DateFormat))
	assert.Equal(t, "Europe", row.CustomerRegion)
	assert.Equal(t, 2, row.Quantity)
	assert.True(t, row.FinalPrice.Equal(decimal.RequireFromString("180.00")))
	assert.True(t, row.Profit.Equal(decimal.RequireFromString("80.00")))
	assert.Equal(t, "Credit Card", row.PaymentMethod)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))

	require.Error(t, err)
	assert.True(t, apperrors.IsIOError(err))
}

func TestLoadMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.csv")
	require.NoError(t, os.WriteFile(path, []byte("Order_ID,Order_Date\nORD-1,2023-01-01\n"), 0644))

	_, err := Load(path)

	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
	assert.Contains(t, err.Error(), models.ColFinalPrice)
}

func TestLoadUnparsableValue(t *testing.T) {
	bad := sampleRow("ORD-00000002")
	bad[11] = "two" // Quantity
	path := writeSalesFile(t, [][]string{sampleRow("ORD-00000001"), bad})

	_, err := Load(path)

	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))

	var perr *apperrors.PipelineError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Context["row"])
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := Load(path)

	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
}

func TestLoadHeaderOnly(t *testing.T) {
	path := writeSalesFile(t, nil)

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, table.NumRows())
}

func TestLoadToleratesColumnReordering(t *testing.T) {
	// Columns are matched by name, not position
	cols := models.OrderColumns()
	reordered := append([]string{cols[len(cols)-1]}, cols[:len(cols)-1]...)

	row := sampleRow("ORD-00000003")
	reorderedRow := append([]string{row[len(row)-1]}, row[:len(row)-1]...)

	path := filepath.Join(t.TempDir(), "reordered.csv")
	content := strings.Join(reordered, ",") + "\n" + strings.Join(reorderedRow, ",") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, table.NumRows())
	assert.Equal(t, "Completed", table.Rows()[0].OrderStatus)
	assert.Equal(t, "ORD-00000003", table.Rows()[0].OrderID)
}
