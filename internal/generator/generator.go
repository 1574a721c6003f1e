package generator

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/vaidashi/sales-analytics-pipeline/internal/models"
	apperrors "github.com/vaidashi/sales-analytics-pipeline/pkg/errors"
	"github.com/vaidashi/sales-analytics-pipeline/pkg/logger"
)

const generateStage = "generate"

// OutputFileName is the raw sales file the generator produces
const OutputFileName = "product_sales_data.csv"

// Options tunes a generation run
type Options struct {
	Records   int
	Products  int
	Customers int
	Seed      int64
	OutputDir string
}

// DefaultOptions returns the standard generation volume
func DefaultOptions(outputDir string) Options {
	return Options{
		Records:   1000000,
		Products:  1000,
		Customers: 10000,
		Seed:      time.Now().UnixNano(),
		OutputDir: outputDir,
	}
}

type product struct {
	id          string
	name        string
	category    string
	subcategory string
	unitPrice   decimal.Decimal
	costPrice   decimal.Decimal
}

type customer struct {
	id     string
	name   string
	email  string
	phone  string
	region string
	city   string
}

// Generator fabricates a synthetic raw sales file matching the pipeline's
// input schema. A fixed seed yields an identical file.
type Generator struct {
	opts   Options
	logger logger.Logger
	rng    *rand.Rand
	faker  *gofakeit.Faker
}

// NewGenerator creates a new generator
func NewGenerator(opts Options, log logger.Logger) *Generator {
	return &Generator{
		opts:   opts,
		logger: log,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		faker:  gofakeit.New(uint64(opts.Seed)),
	}
}

// Generate writes the sales file and returns the path and record count
func (g *Generator) Generate() (string, int, error) {
	g.logger.Info("Starting data generation",
		"records", g.opts.Records, "products", g.opts.Products, "customers", g.opts.Customers)

	if err := os.MkdirAll(g.opts.OutputDir, 0755); err != nil {
		return "", 0, apperrors.NewIOError(generateStage, "cannot create output directory").WithCause(err)
	}

	products := g.generateProducts()
	customers := g.generateCustomers()

	path := filepath.Join(g.opts.OutputDir, OutputFileName)
	file, err := os.Create(path)

	if err != nil {
		return "", 0, apperrors.NewIOError(generateStage, fmt.Sprintf("cannot create %s", path)).WithCause(err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(models.OrderColumns()); err != nil {
		return "", 0, apperrors.NewIOError(generateStage, "cannot write header").WithCause(err)
	}

	var totalSales, totalProfit decimal.Decimal
	uniqueCustomers := make(map[string]struct{})

	for i := 0; i < g.opts.Records; i++ {
		record := g.generateOrder(i, products, customers)

		if err := writer.Write(record.CSVRow()); err != nil {
			return "", 0, apperrors.NewIOError(generateStage, "cannot write record").WithCause(err)
		}

		totalSales = totalSales.Add(record.FinalPrice)
		totalProfit = totalProfit.Add(record.Profit)
		uniqueCustomers[record.CustomerID] = struct{}{}

		if (i+1)%100000 == 0 {
			g.logger.Info("Generation progress", "records", i+1)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", 0, apperrors.NewIOError(generateStage, "cannot flush output").WithCause(err)
	}

	g.logger.Info("Data generation completed",
		"records", g.opts.Records,
		"columns", len(models.OrderColumns()),
		"path", path,
		"totalSales", totalSales.StringFixed(2),
		"totalProfit", totalProfit.StringFixed(2),
		"uniqueCustomers", len(uniqueCustomers))

	return path, g.opts.Records, nil
}

func (g *Generator) generateProducts() []product {
	categories := sortedKeys(models.ProductCategories)

	products := make([]product, g.opts.Products)
	for i := range products {
		category := categories[g.rng.Intn(len(categories))]
		subcategories := models.ProductCategories[category]
		basePrice := 10 + g.rng.Float64()*990

		products[i] = product{
			id:          fmt.Sprintf("PROD-%06d", i),
			name:        g.faker.ProductName(),
			category:    category,
			subcategory: subcategories[g.rng.Intn(len(subcategories))],
			unitPrice:   decimal.NewFromFloat(basePrice).Round(2),
			costPrice:   decimal.NewFromFloat(basePrice * (0.4 + g.rng.Float64()*0.3)).Round(2),
		}
	}

	return products
}

func (g *Generator) generateCustomers() []customer {
	regions := sortedKeys(models.Regions)

	customers := make([]customer, g.opts.Customers)
	for i := range customers {
		region := regions[g.rng.Intn(len(regions))]
		cities := models.Regions[region]

		customers[i] = customer{
			id:     fmt.Sprintf("CUST-%06d", i),
			name:   g.faker.Name(),
			email:  g.faker.Email(),
			phone:  g.faker.Phone(),
			region: region,
			city:   cities[g.rng.Intn(len(cities))],
		}
	}

	return customers
}

var (
	hundred = decimal.NewFromInt(100)

	statusWeights = []weighted{
		{models.OrderStatusCompleted, 0.7},
		{models.OrderStatusPending, 0.1},
		{models.OrderStatusCancelled, 0.1},
		{models.OrderStatusDelivered, 0.1},
	}

	paymentWeights = []weighted{
		{models.PaymentCreditCard, 0.5},
		{models.PaymentDebitCard, 0.2},
		{models.PaymentPayPal, 0.2},
		{models.PaymentBankTransfer, 0.05},
		{models.PaymentCash, 0.05},
	}
)

func (g *Generator) generateOrder(i int, products []product, customers []customer) models.OrderRecord {
	p := products[g.rng.Intn(len(products))]
	c := customers[g.rng.Intn(len(customers))]

	orderDate := g.randomDate()
	quantity := 1 + g.rng.Intn(10)
	qty := decimal.NewFromInt(int64(quantity))

	totalPrice := p.unitPrice.Mul(qty)
	totalCost := p.costPrice.Mul(qty)

	// Discount grows with quantity, with an extra 5% for Europe
	discountPct := g.rng.Float64() * 20
	discountPct += float64(min(quantity-1, 10))
	if c.region == "Europe" {
		discountPct += 5
	}

	discountPercentage := decimal.NewFromFloat(discountPct).Round(2)
	discountAmount := totalPrice.Mul(discountPercentage).Div(hundred).Round(2)
	finalPrice := totalPrice.Sub(discountAmount)
	profit := finalPrice.Sub(totalCost)

	shippingMethod := models.ShippingMethods[g.rng.Intn(len(models.ShippingMethods))]

	return models.OrderRecord{
		OrderID:            fmt.Sprintf("ORD-%08d", i),
		OrderDate:          orderDate,
		CustomerID:         c.id,
		CustomerName:       c.name,
		CustomerEmail:      c.email,
		CustomerRegion:     c.region,
		CustomerCity:       c.city,
		ProductID:          p.id,
		ProductName:        p.name,
		ProductCategory:    p.category,
		ProductSubcategory: p.subcategory,
		Quantity:           quantity,
		UnitPrice:          p.unitPrice,
		TotalPrice:         totalPrice,
		DiscountPercentage: discountPercentage,
		DiscountAmount:     discountAmount,
		FinalPrice:         finalPrice,
		CostPrice:          p.costPrice,
		TotalCost:          totalCost,
		Profit:             profit,
		PaymentMethod:      g.weightedChoice(paymentWeights),
		ShippingMethod:     shippingMethod,
		ShippingCost:       g.shippingCost(shippingMethod),
		OrderStatus:        g.weightedChoice(statusWeights),
	}
}

// randomDate picks a calendar date between 2023-01-01 and 2024-12-31
func (g *Generator) randomDate() time.Time {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	days := int(end.Sub(start).Hours() / 24)
	return start.AddDate(0, 0, g.rng.Intn(days+1))
}

func (g *Generator) shippingCost(method string) decimal.Decimal {
	var cost float64

	switch method {
	case models.ShippingExpress:
		cost = 15 + g.rng.Float64()*15
	case models.ShippingNextDay:
		cost = 25 + g.rng.Float64()*15
	default:
		cost = 5 + g.rng.Float64()*15
	}

	return decimal.NewFromFloat(cost).Round(2)
}

type weighted struct {
	value  string
	weight float64
}

func (g *Generator) weightedChoice(choices []weighted) string {
	r := g.rng.Float64()

	acc := 0.0
	for _, c := range choices {
		acc += c.weight
		if r < acc {
			return c.value
		}
	}

	return choices[len(choices)-1].value
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	// Stable ordering keeps generation deterministic for a fixed seed
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}

	return keys
}
