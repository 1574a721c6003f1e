package models

// OrderStatus values produced by the order lifecycle
const (
	OrderStatusCompleted = "Completed"
	OrderStatusPending   = "Pending"
	OrderStatusCancelled = "Cancelled"
	OrderStatusDelivered = "Delivered"
)

// OrderStatuses lists the order status vocabulary
var OrderStatuses = []string{
	OrderStatusCompleted,
	OrderStatusPending,
	OrderStatusCancelled,
	OrderStatusDelivered,
}

// Payment method vocabulary
const (
	PaymentCreditCard   = "Credit Card"
	PaymentDebitCard    = "Debit Card"
	PaymentPayPal       = "PayPal"
	PaymentBankTransfer = "Bank Transfer"
	PaymentCash         = "Cash"
)

// PaymentMethods lists the payment method vocabulary
var PaymentMethods = []string{
	PaymentCreditCard,
	PaymentDebitCard,
	PaymentPayPal,
	PaymentBankTransfer,
	PaymentCash,
}

// Shipping method vocabulary
const (
	ShippingStandard = "Standard"
	ShippingExpress  = "Express"
	ShippingNextDay  = "Next Day"
)

// ShippingMethods lists the shipping method vocabulary
var ShippingMethods = []string{
	ShippingStandard,
	ShippingExpress,
	ShippingNextDay,
}

// ProductCategories maps each product category to its subcategories
var ProductCategories = map[string][]string{
	"Electronics":    {"Smartphones", "Laptops", "Tablets", "Accessories"},
	"Clothing":       {"Men", "Women", "Kids", "Accessories"},
	"Home & Kitchen": {"Furniture", "Appliances", "Cookware", "Decor"},
	"Sports":         {"Fitness", "Outdoor", "Team Sports", "Equipment"},
	"Beauty":         {"Skincare", "Makeup", "Haircare", "Fragrances"},
}

// Regions maps each customer region to its cities
var Regions = map[string][]string{
	"North America": {"New York", "Los Angeles", "Chicago", "Toronto", "Vancouver"},
	"Europe":        {"London", "Paris", "Berlin", "Madrid", "Rome"},
	"Asia":          {"Tokyo", "Shanghai", "Singapore", "Seoul", "Mumbai"},
	"Oceania":       {"Sydney", "Melbourne", "Auckland", "Brisbane", "Perth"},
}
