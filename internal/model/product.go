package model

// Product is an inventory snapshot of one product at one organization.
type Product struct {
	ID             int64   `json:"id"`
	OrganizationID int64   `json:"organizationId"`
	ProductID      int64   `json:"productId"`
	ProductName    string  `json:"productName"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unitPrice"`
	BasePrice      float64 `json:"basePrice"`
	UpdatedAt      string  `json:"updatedAt"`
}

// StockStatus classifies the product's on-hand quantity.
func (p Product) StockStatus() StockStatus {
	return StockStatusOf(p.Quantity)
}

// CartItem is a line of an in-progress order. Quantity never exceeds MaxQuantity.
type CartItem struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	MaxQuantity int     `json:"maxQuantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Subtotal is the line total.
func (c CartItem) Subtotal() float64 {
	return float64(c.Quantity) * c.UnitPrice
}
