package analytics

import (
	"fmt"
	"io"
	"strconv"

	"github.com/parquet-go/parquet-go"
)

// Report names, matching the base name of the persisted artifacts
const (
	ReportDailySales          = "daily_sales"
	ReportCategoryPerformance = "category_performance"
	ReportRegionalAnalysis    = "regional_analysis"
	ReportPaymentAnalysis     = "payment_analysis"
	ReportTopProducts         = "top_products"
	ReportStatusAnalysis      = "status_analysis"
	ReportShippingAnalysis    = "shipping_analysis"
)

// ReportNames lists every report produced by a run
func ReportNames() []string {
	return []string{
		ReportDailySales,
		ReportCategoryPerformance,
		ReportRegionalAnalysis,
		ReportPaymentAnalysis,
		ReportTopProducts,
		ReportStatusAnalysis,
		ReportShippingAnalysis,
	}
}

// Report is a named, ordered grouped-aggregation result. Reports are
// transient: computed, persisted and discarded within a single run.
type Report interface {
	Name() string
	Header() []string
	NumRows() int
	CSVRows() [][]string
	WriteParquet(w io.Writer) error
}

// reportRow is implemented by every report row type
type reportRow interface {
	csvRow() []string
}

// tableReport carries typed rows so the parquet serialization preserves
// each aggregate column's numeric type.
type tableReport[R reportRow] struct {
	name   string
	header []string
	rows   []R
}

func (r *tableReport[R]) Name() string {
	return r.name
}

func (r *tableReport[R]) Header() []string {
	return r.header
}

func (r *tableReport[R]) NumRows() int {
	return len(r.rows)
}

func (r *tableReport[R]) CSVRows() [][]string {
	rows := make([][]string, 0, len(r.rows))
	for _, row := range r.rows {
		rows = append(rows, row.csvRow())
	}
	return rows
}

func (r *tableReport[R]) WriteParquet(w io.Writer) error {
	writer := parquet.NewGenericWriter[R](w)

	if len(r.rows) > 0 {
		if _, err := writer.Write(r.rows); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	return nil
}

// DailySalesRow is one group of the daily_sales report, keyed by order date
type DailySalesRow struct {
	OrderDate      string  `parquet:"order_date"`
	DailySales     float64 `parquet:"daily_sales"`
	DailyProfit    float64 `parquet:"daily_profit"`
	DailyOrders    int64   `parquet:"daily_orders"`
	DailyCustomers int64   `parquet:"daily_customers"`
	AvgDiscount    float64 `parquet:"avg_discount"`
}

func (r DailySalesRow) csvRow() []string {
	return []string{
		r.OrderDate,
		money(r.DailySales),
		money(r.DailyProfit),
		count(r.DailyOrders),
		count(r.DailyCustomers),
		money(r.AvgDiscount),
	}
}

// CategoryPerformanceRow is one group of the category_performance report
type CategoryPerformanceRow struct {
	ProductCategory string  `parquet:"product_category"`
	CategorySales   float64 `parquet:"category_sales"`
	CategoryProfit  float64 `parquet:"category_profit"`
	OrdersCount     int64   `parquet:"orders_count"`
	AvgDiscount     float64 `parquet:"avg_discount"`
}

func (r CategoryPerformanceRow) csvRow() []string {
	return []string{
		r.ProductCategory,
		money(r.CategorySales),
		money(r.CategoryProfit),
		count(r.OrdersCount),
		money(r.AvgDiscount),
	}
}

// RegionalAnalysisRow is one group of the regional_analysis report
type RegionalAnalysisRow struct {
	CustomerRegion string  `parquet:"customer_region"`
	RegionalSales  float64 `parquet:"regional_sales"`
	CustomerCount  int64   `parquet:"customer_count"`
	AvgOrderValue  float64 `parquet:"avg_order_value"`
}

func (r RegionalAnalysisRow) csvRow() []string {
	return []string{
		r.CustomerRegion,
		money(r.RegionalSales),
		count(r.CustomerCount),
		money(r.AvgOrderValue),
	}
}

// PaymentAnalysisRow is one group of the payment_analysis report
type PaymentAnalysisRow struct {
	PaymentMethod        string  `parquet:"payment_method"`
	TransactionCount     int64   `parquet:"transaction_count"`
	TotalAmount          float64 `parquet:"total_amount"`
	AvgTransactionAmount float64 `parquet:"avg_transaction_amount"`
}

func (r PaymentAnalysisRow) csvRow() []string {
	return []string{
		r.PaymentMethod,
		count(r.TransactionCount),
		money(r.TotalAmount),
		money(r.AvgTransactionAmount),
	}
}

// TopProductsRow is one group of the top_products report, keyed by product
// id and name
type TopProductsRow struct {
	ProductID   string  `parquet:"product_id"`
	ProductName string  `parquet:"product_name"`
	TotalSales  float64 `parquet:"total_sales"`
	TotalProfit float64 `parquet:"total_profit"`
	OrderCount  int64   `parquet:"order_count"`
	AvgDiscount float64 `parquet:"avg_discount"`
}

func (r TopProductsRow) csvRow() []string {
	return []string{
		r.ProductID,
		r.ProductName,
		money(r.TotalSales),
		money(r.TotalProfit),
		count(r.OrderCount),
		money(r.AvgDiscount),
	}
}

// StatusAnalysisRow is one group of the status_analysis report
type StatusAnalysisRow struct {
	OrderStatus    string  `parquet:"order_status"`
	OrderCount     int64   `parquet:"order_count"`
	TotalAmount    float64 `parquet:"total_amount"`
	AvgOrderAmount float64 `parquet:"avg_order_amount"`
}

func (r StatusAnalysisRow) csvRow() []string {
	return []string{
		r.OrderStatus,
		count(r.OrderCount),
		money(r.TotalAmount),
		money(r.AvgOrderAmount),
	}
}

// ShippingAnalysisRow is one group of the shipping_analysis report
type ShippingAnalysisRow struct {
	ShippingMethod  string  `parquet:"shipping_method"`
	ShipmentCount   int64   `parquet:"shipment_count"`
	AvgShippingCost float64 `parquet:"avg_shipping_cost"`
	TotalSales      float64 `parquet:"total_sales"`
}

func (r ShippingAnalysisRow) csvRow() []string {
	return []string{
		r.ShippingMethod,
		count(r.ShipmentCount),
		money(r.AvgShippingCost),
		money(r.TotalSales),
	}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func count(v int64) string {
	return strconv.FormatInt(v, 10)
}
