package analytics

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vaidashi/sales-analytics-pipeline/internal/dataset"
)

// SummaryMetrics are six scalars computed over the entire unaggregated
// table. They are printed for the operator, never persisted.
type SummaryMetrics struct {
	TotalSales      decimal.Decimal
	TotalProfit     decimal.Decimal
	TotalOrders     int64
	UniqueCustomers int64
	AvgDiscount     decimal.Decimal
	AvgOrderValue   decimal.Decimal
}

// Summarize computes the summary metrics for the full table
func Summarize(table *dataset.Table) SummaryMetrics {
	var sales, profit, discount decimal.Decimal
	var rows int64
	orders := make(map[string]struct{})
	customers := make(map[string]struct{})

	for _, partition := range table.Partitions() {
		for i := range partition {
			r := &partition[i]
			sales = sales.Add(r.FinalPrice)
			profit = profit.Add(r.Profit)
			discount = discount.Add(r.DiscountPercentage)
			rows++
			orders[r.OrderID] = struct{}{}
			customers[r.CustomerID] = struct{}{}
		}
	}

	m := SummaryMetrics{
		TotalSales:      sales,
		TotalProfit:     profit,
		TotalOrders:     int64(len(orders)),
		UniqueCustomers: int64(len(customers)),
	}

	if rows > 0 {
		n := decimal.NewFromInt(rows)
		m.AvgDiscount = discount.Div(n)
		m.AvgOrderValue = sales.Div(n)
	}

	return m
}

// Lines renders the summary block the way operators see it: thousands
// separators and two-decimal precision.
func (m SummaryMetrics) Lines() []string {
	return []string{
		"Summary Metrics:",
		fmt.Sprintf("Total Sales: %s", groupThousands(m.TotalSales.StringFixed(2))),
		fmt.Sprintf("Total Profit: %s", groupThousands(m.TotalProfit.StringFixed(2))),
		fmt.Sprintf("Total Orders: %s", groupThousands(decimal.NewFromInt(m.TotalOrders).StringFixed(2))),
		fmt.Sprintf("Unique Customers: %s", groupThousands(decimal.NewFromInt(m.UniqueCustomers).StringFixed(2))),
		fmt.Sprintf("Average Discount %%: %s", m.AvgDiscount.StringFixed(2)),
		fmt.Sprintf("Average Order Value: %s", groupThousands(m.AvgOrderValue.StringFixed(2))),
	}
}

// groupThousands inserts comma separators into the integer part of a
// fixed-point amount string
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}

	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
