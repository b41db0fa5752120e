package schema

// OrderPurchaseTable represents the 'orders.purchase' table
type OrderPurchaseTable struct {
	Table           string
	ID              string
	UserID          string
	Items           string
	ShippingAddress string
	PaymentMethod   string
	ItemsPrice      string
	TaxPrice        string
	ShippingPrice   string
	TotalPrice      string
	IsPaid          string
	PaidAt          string
	PaymentResult   string
	IsDelivered     string
	DeliveredAt     string
	CreatedAt       string
	UpdatedAt       string
}

// OrderPurchase is the schema definition for orders.purchase.
//
// Items, ShippingAddress, and PaymentResult are JSONB columns so an order is
// one row: line items are creation-time snapshots and every lifecycle update
// is a single-row (hence atomic) write.
var OrderPurchase = OrderPurchaseTable{
	Table:           "orders.purchase",
	ID:              "id",
	UserID:          "userid",
	Items:           "items",
	ShippingAddress: "shippingaddress",
	PaymentMethod:   "paymentmethod",
	ItemsPrice:      "itemsprice",
	TaxPrice:        "taxprice",
	ShippingPrice:   "shippingprice",
	TotalPrice:      "totalprice",
	IsPaid:          "ispaid",
	PaidAt:          "paidat",
	PaymentResult:   "paymentresult",
	IsDelivered:     "isdelivered",
	DeliveredAt:     "deliveredat",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}
