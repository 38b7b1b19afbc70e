package cart

import (
	"errors"
	"slices"
	"sync"

	"github.com/tuanvumaihuynh/pos-station/internal/model"
)

var (
	ErrOutOfStock  = errors.New("product is out of stock")
	ErrMaxQuantity = errors.New("cart already holds all units on hand")
)

// Cart holds the lines of one in-progress order. It is safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	items map[int64]model.CartItem
}

func New() *Cart {
	return &Cart{items: make(map[int64]model.CartItem)}
}

// Add puts one unit of p in the cart. The line's MaxQuantity follows the
// latest on-hand quantity of the product; a product that ran out of stock
// loses its line.
func (c *Cart) Add(p model.Product) (model.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.Quantity <= 0 {
		delete(c.items, p.ProductID)
		return model.CartItem{}, ErrOutOfStock
	}

	item, ok := c.items[p.ProductID]
	if !ok {
		item = model.CartItem{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
		}
	}
	item.MaxQuantity = p.Quantity
	item.UnitPrice = p.UnitPrice

	if item.Quantity >= item.MaxQuantity {
		// stock may have shrunk since the line was created
		item.Quantity = item.MaxQuantity
		c.items[p.ProductID] = item
		return item, ErrMaxQuantity
	}
	item.Quantity++
	c.items[p.ProductID] = item

	return item, nil
}

func (c *Cart) Item(productID int64) (model.CartItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[productID]
	return item, ok
}

// Items returns a snapshot of the lines ordered by product id.
func (c *Cart) Items() []model.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]model.CartItem, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b model.CartItem) int {
		switch {
		case a.ProductID < b.ProductID:
			return -1
		case a.ProductID > b.ProductID:
			return 1
		default:
			return 0
		}
	})

	return items
}

func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return total
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.items)
}
