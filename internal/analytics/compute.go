package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vaidashi/sales-analytics-pipeline/internal/models"
)

// Each report below is a full-table grouped aggregation: no filtering and
// no joins beyond the columns already denormalized onto the order. Sums
// and counts are accumulated as decimals per partition, so results are
// identical for any partition layout; ordering is enforced by the explicit
// sort, with the group key ascending as the tie-break.

type reportBuilder struct {
	name  string
	build func(partitions [][]models.OrderRecord) Report
}

func reportBuilders(topProductsLimit int) []reportBuilder {
	return []reportBuilder{
		{ReportDailySales, buildDailySales},
		{ReportCategoryPerformance, buildCategoryPerformance},
		{ReportRegionalAnalysis, buildRegionalAnalysis},
		{ReportPaymentAnalysis, buildPaymentAnalysis},
		{ReportTopProducts, func(p [][]models.OrderRecord) Report {
			return buildTopProducts(p, topProductsLimit)
		}},
		{ReportStatusAnalysis, buildStatusAnalysis},
		{ReportShippingAnalysis, buildShippingAnalysis},
	}
}

// moneyOf rounds a decimal aggregate to currency precision for output
func moneyOf(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// avgOf computes the mean of a decimal sum over n values
func avgOf(sum decimal.Decimal, n int64) float64 {
	if n == 0 {
		return 0
	}
	return moneyOf(sum.Div(decimal.NewFromInt(n)))
}

type dailyGroup struct {
	sales     decimal.Decimal
	profit    decimal.Decimal
	discount  decimal.Decimal
	rows      int64
	orders    map[string]struct{}
	customers map[string]struct{}
}

func buildDailySales(partitions [][]models.OrderRecord) Report {
	groups := make(map[string]*dailyGroup)

	for _, partition := range partitions {
		for i := range partition {
			r := &partition[i]
			key := r.OrderDate.Format(models.DateFormat)

			g := groups[key]
			if g == nil {
				g = &dailyGroup{
					orders:    make(map[string]struct{}),
					customers: make(map[string]struct{}),
				}
				groups[key] = g
			}

			g.sales = g.sales.Add(r.FinalPrice)
			g.profit = g.profit.Add(r.Profit)
			g.discount = g.discount.Add(r.DiscountPercentage)
			g.rows++
			g.orders[r.OrderID] = struct{}{}
			g.customers[r.CustomerID] = struct{}{}
		}
	}

	rows := make([]DailySalesRow, 0, len(groups))
	for key, g := range groups {
		rows = append(rows, DailySalesRow{
			OrderDate:      key,
			DailySales:     moneyOf(g.sales),
			DailyProfit:    moneyOf(g.profit),
			DailyOrders:    int64(len(g.orders)),
			DailyCustomers: int64(len(g.customers)),
			AvgDiscount:    avgOf(g.discount, g.rows),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].OrderDate < rows[j].OrderDate
	})

	return &tableReport[DailySalesRow]{
		name: ReportDailySales,
		header: []string{
			"order_date", "daily_sales", "daily_profit",
			"daily_orders", "daily_customers", "avg_discount",
		},
		rows: rows,
	}
}

type categoryGroup struct {
	sales    decimal.Decimal
	profit   decimal.Decimal
	discount decimal.Decimal
	orders   int64
}

func buildCategoryPerformance(partitions [][]models.OrderRecord) Report {
	groups := make(map[string]*categoryGroup)

	for _, partition := range partitions {
		for i := range partition {
			r := &partition[i]

			g := groups[r.ProductCategory]
			if g == nil {
				g = &categoryGroup{}
				groups[r.ProductCategory] = g
			}

			g.sales = g.sales.Add(r.FinalPrice)
			g.profit = g.profit.Add(r.Profit)
			g.discount = g.discount.Add(r.DiscountPercentage)
			g.orders++
		}
	}

	keys := sortedDesc(groups, func(g *categoryGroup) decimal.Decimal { return g.sales })

	rows := make([]CategoryPerformanceRow, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		rows = append(rows, CategoryPerformanceRow{
			ProductCategory: key,
			CategorySales:   moneyOf(g.sales),
			CategoryProfit:  moneyOf(g.profit),
			OrdersCount:     g.orders,
			AvgDiscount:     avgOf(g.discount, g.orders),
		})
	}

	return &tableReport[CategoryPerformanceRow]{
		name: ReportCategoryPerformance,
		header: []string{
			"product_category", "category_sales", "category_profit",
			"orders_count", "avg_discount",
		},
		rows: rows,
	}
}

type regionGroup struct {
	sales     decimal.Decimal
	rows      int64
	customers map[string]struct{}
}

func buildRegionalAnalysis(partitions [][]models.OrderRecord) Report {
	groups := make(map[string]*regionGroup)

	for _, partition := range partitions {
		for i := range partition {
			r := &partition[i]

			g := groups[r.CustomerRegion]
			if g == nil {
				g = &regionGroup{customers: make(map[string]struct{})}
				groups[r.CustomerRegion] = g
			}

			g.sales = g.sales.Add(r.FinalPrice)
			g.rows++
			g.customers[r.CustomerID] = struct{}{}
		}
	}

	keys := sortedDesc(groups, func(g *regionGroup) decimal.Decimal { return g.sales })

	rows := make([]RegionalAnalysisRow, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		rows = append(rows, RegionalAnalysisRow{
			CustomerRegion: key,
			RegionalSales:  moneyOf(g.sales),
			CustomerCount:  int64(len(g.customers)),
			AvgOrderValue:  avgOf(g.sales, g.rows),
		})
	}

	return &tableReport[RegionalAnalysisRow]{
		name: ReportRegionalAnalysis,
		header: []string{
			"customer_region", "regional_sales", "customer_count", "avg_order_value",
		},
		rows: rows,
	}
}

type paymentGroup struct {
	amount decimal.Decimal
	rows   int64
}

func buildPaymentAnalysis(partitions [][]models.OrderRecord) Report {
	groups := make(map[string]*paymentGroup)

	for _, partition := range partitions {
		for i := range partition {
			r := &partition[i]

			g := groups[r.PaymentMethod]
			if g == nil {
				g = &paymentGroup{}
				groups[r.PaymentMethod] = g
			}

			g.amount = g.amount.Add(r.FinalPrice)
			g.rows++
		}
	}

	keys := sortedDesc(groups, func(g *paymentGroup) decimal.Decimal { return g.amount })

	rows := make([]PaymentAnalysisRow, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		rows = append(rows, PaymentAnalysisRow{
			PaymentMethod:        key,
			TransactionCount:     g.rows,
			TotalAmount:          moneyOf(g.amount),
			AvgTransactionAmount: avgOf(g.amount, g.rows),
		})
	}

	return &tableReport[PaymentAnalysisRow]{
		name: ReportPaymentAnalysis,
		header: []string{
			"payment_method", "transaction_count", "total_amount", "avg_transaction_amount",
		},
		rows: rows,
	}
}

type productGroup struct {
	name     string
	sales    decimal.Decimal
	profit   decimal.Decimal
	discount decimal.Decimal
	orders   int64
}

func buildTopProducts(partitions [][]models.OrderRecord, limit int) Report {
	groups := make(map[string]*productGroup)

	for _, partition := range partitions {
		for i := range partition {
			r := &partition[i]

			g := groups[r.ProductID]
			if g == nil {
				g = &productGroup{name: r.ProductName}
				groups[r.ProductID] = g
			}

			g.sales = g.sales.Add(r.FinalPrice)
			g.profit = g.profit.Add(r.Profit)
			g.discount = g.discount.Add(r.DiscountPercentage)
			g.orders++
		}
	}

	keys := sortedDesc(groups, func(g *productGroup) decimal.Decimal { return g.sales })

	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	rows := make([]TopProductsRow, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		rows = append(rows, TopProductsRow{
			ProductID:   key,
			ProductName: g.name,
			TotalSales:  moneyOf(g.sales),
			TotalProfit: moneyOf(g.profit),
			OrderCount:  g.orders,
			AvgDiscount: avgOf(g.discount, g.orders),
		})
	}

	return &tableReport[TopProductsRow]{
		name: ReportTopProducts,
		header: []string{
			"product_id", "product_name", "total_sales",
			"total_profit", "order_count", "avg_discount",
		},
		rows: rows,
	}
}

type statusGroup struct {
	amount decimal.Decimal
	rows   int64
}

func buildStatusAnalysis(partitions [][]models.OrderRecord) Report {
	groups := make(map[string]*statusGroup)

	for _, partition := range partitions {
		for i := range partition {
			r := &partition[i]

			g := groups[r.OrderStatus]
			if g == nil {
				g = &statusGroup{}
				groups[r.OrderStatus] = g
			}

			g.amount = g.amount.Add(r.FinalPrice)
			g.rows++
		}
	}

	keys := sortedDescByCount(groups, func(g *statusGroup) int64 { return g.rows })

	rows := make([]StatusAnalysisRow, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		rows = append(rows, StatusAnalysisRow{
			OrderStatus:    key,
			OrderCount:     g.rows,
			TotalAmount:    moneyOf(g.amount),
			AvgOrderAmount: avgOf(g.amount, g.rows),
		})
	}

	return &tableReport[StatusAnalysisRow]{
		name: ReportStatusAnalysis,
		header: []string{
			"order_status", "order_count", "total_amount", "avg_order_amount",
		},
		rows: rows,
	}
}

type shippingGroup struct {
	cost  decimal.Decimal
	sales decimal.Decimal
	rows  int64
}

func buildShippingAnalysis(partitions [][]models.OrderRecord) Report {
	groups := make(map[string]*shippingGroup)

	for _, partition := range partitions {
		for i := range partition {
			r := &partition[i]

			g := groups[r.ShippingMethod]
			if g == nil {
				g = &shippingGroup{}
				groups[r.ShippingMethod] = g
			}

			g.cost = g.cost.Add(r.ShippingCost)
			g.sales = g.sales.Add(r.FinalPrice)
			g.rows++
		}
	}

	keys := sortedDescByCount(groups, func(g *shippingGroup) int64 { return g.rows })

	rows := make([]ShippingAnalysisRow, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		rows = append(rows, ShippingAnalysisRow{
			ShippingMethod:  key,
			ShipmentCount:   g.rows,
			AvgShippingCost: avgOf(g.cost, g.rows),
			TotalSales:      moneyOf(g.sales),
		})
	}

	return &tableReport[ShippingAnalysisRow]{
		name: ReportShippingAnalysis,
		header: []string{
			"shipping_method", "shipment_count", "avg_shipping_cost", "total_sales",
		},
		rows: rows,
	}
}

// sortedDesc returns the group keys ordered by the decimal measure
// descending, key ascending on ties
func sortedDesc[G any](groups map[string]G, measure func(G) decimal.Decimal) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		cmp := measure(groups[keys[i]]).Cmp(measure(groups[keys[j]]))
		if cmp != 0 {
			return cmp > 0
		}
		return keys[i] < keys[j]
	})

	return keys
}

// sortedDescByCount returns the group keys ordered by the count measure
// descending, key ascending on ties
func sortedDescByCount[G any](groups map[string]G, measure func(G) int64) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := measure(groups[keys[i]]), measure(groups[keys[j]])
		if a != b {
			return a > b
		}
		return keys[i] < keys[j]
	})

	return keys
}
