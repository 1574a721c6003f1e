package warehouse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vaidashi/sales-analytics-pipeline/internal/analytics"
)

type columnKind int

const (
	colText columnKind = iota
	colMoney
	colCount
)

type column struct {
	name string
	kind columnKind
}

type tableSpec struct {
	report  string
	table   string
	columns []column
}

// tableSpecs maps each report to its warehouse table. Column order matches
// the report's csv header.
func tableSpecs() []tableSpec {
	return []tableSpec{
		{
			report: analytics.ReportDailySales,
			table:  "report_daily_sales",
			columns: []column{
				{"order_date", colText},
				{"daily_sales", colMoney},
				{"daily_profit", colMoney},
				{"daily_orders", colCount},
				{"daily_customers", colCount},
				{"avg_discount", colMoney},
			},
		},
		{
			report: analytics.ReportCategoryPerformance,
			table:  "report_category_performance",
			columns: []column{
				{"product_category", colText},
				{"category_sales", colMoney},
				{"category_profit", colMoney},
				{"orders_count", colCount},
				{"avg_discount", colMoney},
			},
		},
		{
			report: analytics.ReportRegionalAnalysis,
			table:  "report_regional_analysis",
			columns: []column{
				{"customer_region", colText},
				{"regional_sales", colMoney},
				{"customer_count", colCount},
				{"avg_order_value", colMoney},
			},
		},
		{
			report: analytics.ReportPaymentAnalysis,
			table:  "report_payment_analysis",
			columns: []column{
				{"payment_method", colText},
				{"transaction_count", colCount},
				{"total_amount", colMoney},
				{"avg_transaction_amount", colMoney},
			},
		},
		{
			report: analytics.ReportTopProducts,
			table:  "report_top_products",
			columns: []column{
				{"product_id", colText},
				{"product_name", colText},
				{"total_sales", colMoney},
				{"total_profit", colMoney},
				{"order_count", colCount},
				{"avg_discount", colMoney},
			},
		},
		{
			report: analytics.ReportStatusAnalysis,
			table:  "report_status_analysis",
			columns: []column{
				{"order_status", colText},
				{"order_count", colCount},
				{"total_amount", colMoney},
				{"avg_order_amount", colMoney},
			},
		},
		{
			report: analytics.ReportShippingAnalysis,
			table:  "report_shipping_analysis",
			columns: []column{
				{"shipping_method", colText},
				{"shipment_count", colCount},
				{"avg_shipping_cost", colMoney},
				{"total_sales", colMoney},
			},
		},
	}
}

const createRunsTableStatement = `
	CREATE TABLE IF NOT EXISTS pipeline_runs (
		run_id VARCHAR(50) PRIMARY KEY,
		run_timestamp VARCHAR(20) NOT NULL,
		source TEXT NOT NULL,
		row_count BIGINT NOT NULL,
		duration_ms BIGINT NOT NULL,
		loaded_at TIMESTAMP NOT NULL DEFAULT NOW()
	);
	`

func createTableStatement(spec tableSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\tCREATE TABLE IF NOT EXISTS %s (\n", spec.table)
	b.WriteString("\t\trun_id VARCHAR(50) NOT NULL,\n")

	for _, col := range spec.columns {
		fmt.Fprintf(&b, "\t\t%s %s NOT NULL,\n", col.name, sqlType(col.kind))
	}

	b.WriteString("\t\tloaded_at TIMESTAMP NOT NULL DEFAULT NOW()\n\t);\n")
	fmt.Fprintf(&b, "\n\tCREATE INDEX IF NOT EXISTS idx_%s_run_id ON %s(run_id);\n", spec.table, spec.table)

	return b.String()
}

func sqlType(kind columnKind) string {
	switch kind {
	case colMoney:
		return "DECIMAL(18, 2)"
	case colCount:
		return "BIGINT"
	default:
		return "TEXT"
	}
}

// copyColumns lists the CopyIn column order for a report table
func copyColumns(spec tableSpec) []string {
	cols := make([]string, 0, len(spec.columns)+1)
	cols = append(cols, "run_id")
	for _, col := range spec.columns {
		cols = append(cols, col.name)
	}
	return cols
}

// rowValues converts one csv report row into CopyIn arguments
func rowValues(spec tableSpec, runID string, row []string) ([]interface{}, error) {
	if len(row) != len(spec.columns) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(spec.columns), len(row))
	}

	values := make([]interface{}, 0, len(row)+1)
	values = append(values, runID)

	for i, col := range spec.columns {
		switch col.kind {
		case colMoney:
			v, err := strconv.ParseFloat(row[i], 64)

			if err != nil {
				return nil, fmt.Errorf("invalid value %q for column %s: %w", row[i], col.name, err)
			}
			values = append(values, v)
		case colCount:
			v, err := strconv.ParseInt(row[i], 10, 64)

			if err != nil {
				return nil, fmt.Errorf("invalid value %q for column %s: %w", row[i], col.name, err)
			}
			values = append(values, v)
		default:
			values = append(values, row[i])
		}
	}

	return values, nil
}
