package view

import (
	"fmt"
	"io"

	"github.com/tuanvumaihuynh/pos-station/internal/model"
)

// ProductCard renders one product of a station. The product name is the
// activation target; activating it hands the product to OnAddToCart.
type ProductCard struct {
	Product model.Product
	// CartItem is the matching cart line, nil when the product is not in the cart.
	CartItem *model.CartItem
	// Action is the URL the activation target posts to.
	Action      string
	OnAddToCart func(model.Product)
}

// Activate invokes OnAddToCart once with the card's product.
func (c ProductCard) Activate() {
	if c.OnAddToCart == nil {
		return
	}
	c.OnAddToCart(c.Product)
}

func (c ProductCard) StockStatus() model.StockStatus {
	return c.Product.StockStatus()
}

func (c ProductCard) UnitPriceLabel() string {
	return FormatPrice(c.Product.UnitPrice)
}

func (c ProductCard) BasePriceLabel() string {
	return FormatPrice(c.Product.BasePrice)
}

func (c ProductCard) StockLabel() string {
	return fmt.Sprintf("Stock: %d", c.Product.Quantity)
}

// CartLabel is empty when the product is not in the cart.
func (c ProductCard) CartLabel() string {
	if c.CartItem == nil {
		return ""
	}
	return fmt.Sprintf("In cart: %d", c.CartItem.Quantity)
}

func (c ProductCard) statusClass() string {
	switch c.StockStatus() {
	case model.StockStatusOutOfStock:
		return "out"
	case model.StockStatusLowStock:
		return "low"
	default:
		return "in"
	}
}

// Render writes the card as an HTML fragment.
func (c ProductCard) Render(w io.Writer) error {
	return render(w, "product_card", cardData{ProductCard: c, StatusClass: c.statusClass()})
}

type cardData struct {
	ProductCard
	StatusClass string
}
