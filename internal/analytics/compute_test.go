package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidashi/sales-analytics-pipeline/internal/models"
)

func order(overrides func(*models.OrderRecord)) models.OrderRecord {
	r := models.OrderRecord{
		OrderID:            "ORD-00000001",
		OrderDate:          time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC),
		CustomerID:         "CUST-000001",
		CustomerRegion:     "Europe",
		ProductID:          "PROD-000001",
		ProductName:        "Widget",
		ProductCategory:    "Electronics",
		Quantity:           1,
		UnitPrice:          decimal.NewFromInt(10),
		FinalPrice:         decimal.NewFromInt(10),
		Profit:             decimal.NewFromInt(1),
		DiscountPercentage: decimal.NewFromInt(5),
		PaymentMethod:      "Credit Card",
		ShippingMethod:     "Standard",
		ShippingCost:       decimal.NewFromInt(5),
		OrderStatus:        "Completed",
	}

	if overrides != nil {
		overrides(&r)
	}

	return r
}

func singlePartition(rows ...models.OrderRecord) [][]models.OrderRecord {
	return [][]models.OrderRecord{rows}
}

func TestCategoryPerformanceAggregates(t *testing.T) {
	// Three Electronics orders with final prices 10, 20, 30 and profits
	// 1, 2, 3 must report category_sales=60, category_profit=6,
	// orders_count=3
	rows := singlePartition(
		order(func(r *models.OrderRecord) {
			r.OrderID = "ORD-1"
			r.FinalPrice = decimal.NewFromInt(10)
			r.Profit = decimal.NewFromInt(1)
			r.DiscountPercentage = decimal.NewFromInt(10)
		}),
		order(func(r *models.OrderRecord) {
			r.OrderID = "ORD-2"
			r.FinalPrice = decimal.NewFromInt(20)
			r.Profit = decimal.NewFromInt(2)
			r.DiscountPercentage = decimal.NewFromInt(20)
		}),
		order(func(r *models.OrderRecord) {
			r.OrderID = "ORD-3"
			r.FinalPrice = decimal.NewFromInt(30)
			r.Profit = decimal.NewFromInt(3)
			r.DiscountPercentage = decimal.NewFromInt(30)
		}),
	)

	report := buildCategoryPerformance(rows).(*tableReport[CategoryPerformanceRow])
	require.Len(t, report.rows, 1)

	got := report.rows[0]
	assert.Equal(t, "Electronics", got.ProductCategory)
	assert.Equal(t, 60.0, got.CategorySales)
	assert.Equal(t, 6.0, got.CategoryProfit)
	assert.Equal(t, int64(3), got.OrdersCount)
	assert.Equal(t, 20.0, got.AvgDiscount)
}

func TestCategoryPerformanceSortedBySalesDescending(t *testing.T) {
	rows := singlePartition(
		order(func(r *models.OrderRecord) { r.ProductCategory = "Beauty"; r.FinalPrice = decimal.NewFromInt(5) }),
		order(func(r *models.OrderRecord) { r.ProductCategory = "Sports"; r.FinalPrice = decimal.NewFromInt(50) }),
		order(func(r *models.OrderRecord) { r.ProductCategory = "Clothing"; r.FinalPrice = decimal.NewFromInt(20) }),
	)

	report := buildCategoryPerformance(rows).(*tableReport[CategoryPerformanceRow])
	require.Len(t, report.rows, 3)

	for i := 1; i < len(report.rows); i++ {
		assert.GreaterOrEqual(t, report.rows[i-1].CategorySales, report.rows[i].CategorySales)
	}
	assert.Equal(t, "Sports", report.rows[0].ProductCategory)
}

func TestSortTieBreakIsGroupKeyAscending(t *testing.T) {
	rows := singlePartition(
		order(func(r *models.OrderRecord) { r.ProductCategory = "Sports"; r.FinalPrice = decimal.NewFromInt(10) }),
		order(func(r *models.OrderRecord) { r.ProductCategory = "Beauty"; r.FinalPrice = decimal.NewFromInt(10) }),
		order(func(r *models.OrderRecord) { r.ProductCategory = "Clothing"; r.FinalPrice = decimal.NewFromInt(10) }),
	)

	report := buildCategoryPerformance(rows).(*tableReport[CategoryPerformanceRow])
	require.Len(t, report.rows, 3)

	assert.Equal(t, "Beauty", report.rows[0].ProductCategory)
	assert.Equal(t, "Clothing", report.rows[1].ProductCategory)
	assert.Equal(t, "Sports", report.rows[2].ProductCategory)
}

func TestDailySalesDistinctCounting(t *testing.T) {
	// The same customer across 5 orders on one date counts once; 5
	// distinct order ids count 5
	var rows []models.OrderRecord
	for i := 0; i < 5; i++ {
		i := i
		rows = append(rows, order(func(r *models.OrderRecord) {
			r.OrderID = fmt.Sprintf("ORD-%d", i)
			r.CustomerID = "CUST-SAME"
		}))
	}

	report := buildDailySales(singlePartition(rows...)).(*tableReport[DailySalesRow])
	require.Len(t, report.rows, 1)

	assert.Equal(t, int64(5), report.rows[0].DailyOrders)
	assert.Equal(t, int64(1), report.rows[0].DailyCustomers)
}

func TestDailySalesOrderedByDateAscending(t *testing.T) {
	rows := singlePartition(
		order(func(r *models.OrderRecord) { r.OrderDate = time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC) }),
		order(func(r *models.OrderRecord) { r.OrderDate = time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC) }),
		order(func(r *models.OrderRecord) { r.OrderDate = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) }),
	)

	report := buildDailySales(rows).(*tableReport[DailySalesRow])
	require.Len(t, report.rows, 3)

	assert.Equal(t, "2023-01-15", report.rows[0].OrderDate)
	assert.Equal(t, "2023-06-02", report.rows[1].OrderDate)
	assert.Equal(t, "2024-02-01", report.rows[2].OrderDate)
}

func TestTopProductsLimit(t *testing.T) {
	var rows []models.OrderRecord
	for i := 0; i < 150; i++ {
		i := i
		rows = append(rows, order(func(r *models.OrderRecord) {
			r.ProductID = fmt.Sprintf("PROD-%06d", i)
			r.FinalPrice = decimal.NewFromInt(int64(i))
		}))
	}

	report := buildTopProducts(singlePartition(rows...), 100).(*tableReport[TopProductsRow])

	assert.Len(t, report.rows, 100)
	for i := 1; i < len(report.rows); i++ {
		assert.GreaterOrEqual(t, report.rows[i-1].TotalSales, report.rows[i].TotalSales)
	}
	// The cheapest 50 products fell off the bottom
	assert.Equal(t, "PROD-000149", report.rows[0].ProductID)
	assert.Equal(t, 49.0, report.rows[len(report.rows)-1].TotalSales)
}

func TestRegionalAnalysisAverageOrderValue(t *testing.T) {
	rows := singlePartition(
		order(func(r *models.OrderRecord) { r.CustomerID = "CUST-1"; r.FinalPrice = decimal.NewFromInt(30) }),
		order(func(r *models.OrderRecord) { r.CustomerID = "CUST-1"; r.FinalPrice = decimal.NewFromInt(10) }),
		order(func(r *models.OrderRecord) { r.CustomerID = "CUST-2"; r.FinalPrice = decimal.NewFromInt(20) }),
	)

	report := buildRegionalAnalysis(rows).(*tableReport[RegionalAnalysisRow])
	require.Len(t, report.rows, 1)

	got := report.rows[0]
	assert.Equal(t, 60.0, got.RegionalSales)
	assert.Equal(t, int64(2), got.CustomerCount)
	assert.Equal(t, 20.0, got.AvgOrderValue)
}

func TestPaymentAnalysisOrderedByTotalAmount(t *testing.T) {
	rows := singlePartition(
		order(func(r *models.OrderRecord) { r.PaymentMethod = "Cash"; r.FinalPrice = decimal.NewFromInt(100) }),
		order(func(r *models.OrderRecord) { r.PaymentMethod = "PayPal"; r.FinalPrice = decimal.NewFromInt(10) }),
		order(func(r *models.OrderRecord) { r.PaymentMethod = "PayPal"; r.FinalPrice = decimal.NewFromInt(20) }),
	)

	report := buildPaymentAnalysis(rows).(*tableReport[PaymentAnalysisRow])
	require.Len(t, report.rows, 2)

	assert.Equal(t, "Cash", report.rows[0].PaymentMethod)
	assert.Equal(t, int64(1), report.rows[0].TransactionCount)
	assert.Equal(t, "PayPal", report.rows[1].PaymentMethod)
	assert.Equal(t, 15.0, report.rows[1].AvgTransactionAmount)
}

func TestStatusAnalysisOrderedByCount(t *testing.T) {
	rows := singlePartition(
		order(func(r *models.OrderRecord) { r.OrderStatus = "Pending" }),
		order(func(r *models.OrderRecord) { r.OrderStatus = "Completed" }),
		order(func(r *models.OrderRecord) { r.OrderStatus = "Completed" }),
		order(func(r *models.OrderRecord) { r.OrderStatus = "Completed" }),
	)

	report := buildStatusAnalysis(rows).(*tableReport[StatusAnalysisRow])
	require.Len(t, report.rows, 2)

	assert.Equal(t, "Completed", report.rows[0].OrderStatus)
	assert.Equal(t, int64(3), report.rows[0].OrderCount)
}

func TestShippingAnalysisAverageCost(t *testing.T) {
	rows := singlePartition(
		order(func(r *models.OrderRecord) { r.ShippingMethod = "Express"; r.ShippingCost = decimal.NewFromInt(20) }),
		order(func(r *models.OrderRecord) { r.ShippingMethod = "Express"; r.ShippingCost = decimal.NewFromInt(30) }),
		order(func(r *models.OrderRecord) { r.ShippingMethod = "Standard"; r.ShippingCost = decimal.NewFromInt(5) }),
	)

	report := buildShippingAnalysis(rows).(*tableReport[ShippingAnalysisRow])
	require.Len(t, report.rows, 2)

	assert.Equal(t, "Express", report.rows[0].ShippingMethod)
	assert.Equal(t, int64(2), report.rows[0].ShipmentCount)
	assert.Equal(t, 25.0, report.rows[0].AvgShippingCost)
}

func TestAggregatesIndependentOfPartitionLayout(t *testing.T) {
	rows := []models.OrderRecord{
		order(func(r *models.OrderRecord) { r.OrderID = "ORD-1"; r.FinalPrice = decimal.RequireFromString("10.33") }),
		order(func(r *models.OrderRecord) { r.OrderID = "ORD-2"; r.FinalPrice = decimal.RequireFromString("20.17") }),
		order(func(r *models.OrderRecord) { r.OrderID = "ORD-3"; r.FinalPrice = decimal.RequireFromString("30.50") }),
	}

	single := buildCategoryPerformance(singlePartition(rows...)).(*tableReport[CategoryPerformanceRow])
	split := buildCategoryPerformance([][]models.OrderRecord{
		{rows[2]}, {rows[0]}, nil, {rows[1]},
	}).(*tableReport[CategoryPerformanceRow])

	assert.Equal(t, single.rows, split.rows)
}

func TestEmptyTableProducesEmptyReports(t *testing.T) {
	partitions := make([][]models.OrderRecord, 8)

	for _, builder := range reportBuilders(100) {
		report := builder.build(partitions)
		assert.Equal(t, 0, report.NumRows(), "report %s", builder.name)
		assert.NotEmpty(t, report.Header(), "report %s", builder.name)
	}
}
