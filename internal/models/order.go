package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar date layout used in the raw sales file
const DateFormat = "2006-01-02"

// OrderRecord represents one row of the raw sales table. Records are
// immutable once loaded; region and category are denormalized onto the
// order by the upstream generator.
type OrderRecord struct {
	OrderID            string
	OrderDate          time.Time
	CustomerID         string
	CustomerName       string
	CustomerEmail      string
	CustomerRegion     string
	CustomerCity       string
	ProductID          string
	ProductName        string
	ProductCategory    string
	ProductSubcategory string
	Quantity           int
	UnitPrice          decimal.Decimal
	TotalPrice         decimal.Decimal
	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal
	FinalPrice         decimal.Decimal
	CostPrice          decimal.Decimal
	TotalCost          decimal.Decimal
	Profit             decimal.Decimal
	PaymentMethod      string
	ShippingMethod     string
	ShippingCost       decimal.Decimal
	OrderStatus        string
}

// Column header names of the raw sales file, in file order
const (
	ColOrderID            = "Order_ID"
	ColOrderDate          = "Order_Date"
	ColCustomerID         = "Customer_ID"
	ColCustomerName       = "Customer_Name"
	ColCustomerEmail      = "Customer_Email"
	ColCustomerRegion     = "Customer_Region"
	ColCustomerCity       = "Customer_City"
	ColProductID          = "Product_ID"
	ColProductName        = "Product_Name"
	ColProductCategory    = "Product_Category"
	ColProductSubcategory = "Product_Subcategory"
	ColQuantity           = "Quantity"
	ColUnitPrice          = "Unit_Price"
	ColTotalPrice         = "Total_Price"
	ColDiscountPercentage = "Discount_Percentage"
	ColDiscountAmount     = "Discount_Amount"
	ColFinalPrice         = "Final_Price"
	ColCostPrice          = "Cost_Price"
	ColTotalCost          = "Total_Cost"
	ColProfit             = "Profit"
	ColPaymentMethod      = "Payment_Method"
	ColShippingMethod     = "Shipping_Method"
	ColShippingCost       = "Shipping_Cost"
	ColOrderStatus        = "Order_Status"
)

// OrderColumns returns the expected header of the raw sales file
func OrderColumns() []string {
	return []string{
		ColOrderID,
		ColOrderDate,
		ColCustomerID,
		ColCustomerName,
		ColCustomerEmail,
		ColCustomerRegion,
		ColCustomerCity,
		ColProductID,
		ColProductName,
		ColProductCategory,
		ColProductSubcategory,
		ColQuantity,
		ColUnitPrice,
		ColTotalPrice,
		ColDiscountPercentage,
		ColDiscountAmount,
		ColFinalPrice,
		ColCostPrice,
		ColTotalCost,
		ColProfit,
		ColPaymentMethod,
		ColShippingMethod,
		ColShippingCost,
		ColOrderStatus,
	}
}

// CSVRow renders the record as a row of the raw sales file
func (r *OrderRecord) CSVRow() []string {
	return []string{
		r.OrderID,
		r.OrderDate.Format(DateFormat),
		r.CustomerID,
		r.CustomerName,
		r.CustomerEmail,
		r.CustomerRegion,
		r.CustomerCity,
		r.ProductID,
		r.ProductName,
		r.ProductCategory,
		r.ProductSubcategory,
		formatInt(r.Quantity),
		r.UnitPrice.StringFixed(2),
		r.TotalPrice.StringFixed(2),
		r.DiscountPercentage.StringFixed(2),
		r.DiscountAmount.StringFixed(2),
		r.FinalPrice.StringFixed(2),
		r.CostPrice.StringFixed(2),
		r.TotalCost.StringFixed(2),
		r.Profit.StringFixed(2),
		r.PaymentMethod,
		r.ShippingMethod,
		r.ShippingCost.StringFixed(2),
		r.OrderStatus,
	}
}
