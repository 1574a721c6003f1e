package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vaidashi/sales-analytics-pipeline/internal/models"
	apperrors "github.com/vaidashi/sales-analytics-pipeline/pkg/errors"
)

const loadStage = "load"

// Load reads the raw sales file into memory, applying the declared
// 24-column schema. The whole file is read before any aggregation starts;
// there are no partial results. A missing or unreadable file yields an
// IOError, a header missing required columns or a value that cannot be
// coerced yields a SchemaError.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)

	if err != nil {
		return nil, apperrors.NewIOError(loadStage, fmt.Sprintf("cannot open source file %s", path)).WithCause(err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()

	if err == io.EOF {
		return nil, apperrors.NewSchemaError(loadStage, "source file is empty")
	}
	if err != nil {
		return nil, apperrors.NewIOError(loadStage, "cannot read header").WithCause(err)
	}

	colIndex, err := indexColumns(header)

	if err != nil {
		return nil, err
	}

	var rows []models.OrderRecord
	rowNum := 1

	for {
		record, err := reader.Read()

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewIOError(loadStage, "malformed csv record").
				WithContext("row", rowNum).WithCause(err)
		}

		rowNum++
		row, err := parseRecord(record, colIndex, rowNum)

		if err != nil {
			return nil, err
		}

		rows = append(rows, row)
	}

	return NewTable(rows), nil
}

// indexColumns maps each required column name to its position in the header
func indexColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range models.OrderColumns() {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError(loadStage,
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}

	return idx, nil
}

func parseRecord(record []string, colIndex map[string]int, rowNum int) (models.OrderRecord, error) {
	p := &recordParser{record: record, colIndex: colIndex, rowNum: rowNum}

	row := models.OrderRecord{
		OrderID:            p.str(models.ColOrderID),
		OrderDate:          p.date(models.ColOrderDate),
		CustomerID:         p.str(models.ColCustomerID),
		CustomerName:       p.str(models.ColCustomerName),
		CustomerEmail:      p.str(models.ColCustomerEmail),
		CustomerRegion:     p.str(models.ColCustomerRegion),
		CustomerCity:       p.str(models.ColCustomerCity),
		ProductID:          p.str(models.ColProductID),
		ProductName:        p.str(models.ColProductName),
		ProductCategory:    p.str(models.ColProductCategory),
		ProductSubcategory: p.str(models.ColProductSubcategory),
		Quantity:           p.integer(models.ColQuantity),
		UnitPrice:          p.amount(models.ColUnitPrice),
		TotalPrice:         p.amount(models.ColTotalPrice),
		DiscountPercentage: p.amount(models.ColDiscountPercentage),
		DiscountAmount:     p.amount(models.ColDiscountAmount),
		FinalPrice:         p.amount(models.ColFinalPrice),
		CostPrice:          p.amount(models.ColCostPrice),
		TotalCost:          p.amount(models.ColTotalCost),
		Profit:             p.amount(models.ColProfit),
		PaymentMethod:      p.str(models.ColPaymentMethod),
		ShippingMethod:     p.str(models.ColShippingMethod),
		ShippingCost:       p.amount(models.ColShippingCost),
		OrderStatus:        p.str(models.ColOrderStatus),
	}

	if p.err != nil {
		return models.OrderRecord{}, p.err
	}

	return row, nil
}

// recordParser accumulates the first coercion failure while extracting
// typed fields from a raw csv record
type recordParser struct {
	record   []string
	colIndex map[string]int
	rowNum   int
	err      error
}

func (p *recordParser) raw(col string) (string, bool) {
	if p.err != nil {
		return "", false
	}

	i := p.colIndex[col]
	if i >= len(p.record) {
		p.err = apperrors.NewSchemaError(loadStage, fmt.Sprintf("row has no value for column %s", col)).
			WithContext("row", p.rowNum)
		return "", false
	}

	return strings.TrimSpace(p.record[i]), true
}

func (p *recordParser) str(col string) string {
	v, _ := p.raw(col)
	return v
}

func (p *recordParser) date(col string) time.Time {
	v, ok := p.raw(col)
	if !ok {
		return time.Time{}
	}

	t, err := time.Parse(models.DateFormat, v)

	if err != nil {
		p.fail(col, v)
		return time.Time{}
	}

	return t
}

func (p *recordParser) integer(col string) int {
	v, ok := p.raw(col)
	if !ok {
		return 0
	}

	n, err := strconv.Atoi(v)

	if err != nil {
		p.fail(col, v)
		return 0
	}

	return n
}

func (p *recordParser) amount(col string) decimal.Decimal {
	v, ok := p.raw(col)
	if !ok {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(v)

	if err != nil {
		p.fail(col, v)
		return decimal.Zero
	}

	return d
}

func (p *recordParser) fail(col string, value string) {
	p.err = apperrors.NewSchemaError(loadStage,
		fmt.Sprintf("cannot coerce value %q for column %s", value, col)).
		WithContext("row", p.rowNum)
}
