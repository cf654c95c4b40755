// Package cart holds the per-session shopping cart: mutation rules here,
// persistence in the redis store.
package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Item is a denormalized snapshot of a catalog kit taken at add time, so a
// later catalog price change does not retroactively alter an open cart.
type Item struct {
	ProductKitID string          `json:"productKitId"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
}

type Cart struct {
	Items       []Item          `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

var ErrInvalidItem = errors.New("invalid cart item")

func New() *Cart {
	return &Cart{Items: []Item{}, TotalAmount: decimal.Zero}
}

func validateItem(it Item) error {
	switch {
	case it.ProductKitID == "":
		return fmt.Errorf("%w: missing productKitId", ErrInvalidItem)
	case it.SKU == "":
		return fmt.Errorf("%w: missing sku", ErrInvalidItem)
	case it.Name == "":
		return fmt.Errorf("%w: missing name", ErrInvalidItem)
	case !it.UnitPrice.IsPositive():
		return fmt.Errorf("%w: price must be positive", ErrInvalidItem)
	case it.Quantity < 1:
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidItem)
	}
	return nil
}

// Add merges the item into the cart. An already-present kit gets its quantity
// summed and its name/price refreshed to the incoming snapshot.
func (c *Cart) Add(it Item) error {
	if err := validateItem(it); err != nil {
		return err
	}
	for i := range c.Items {
		if c.Items[i].ProductKitID == it.ProductKitID {
			c.Items[i].Quantity += it.Quantity
			c.Items[i].SKU = it.SKU
			c.Items[i].Name = it.Name
			c.Items[i].UnitPrice = it.UnitPrice
			c.recompute()
			return nil
		}
	}
	c.Items = append(c.Items, it)
	c.recompute()
	return nil
}

// Remove drops the kit from the cart. Removing an absent kit is a no-op.
func (c *Cart) Remove(productKitID string) {
	for i := range c.Items {
		if c.Items[i].ProductKitID == productKitID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}
	c.recompute()
}

// UpdateQuantity replaces the quantity; qty <= 0 removes the item. An unknown
// kit id leaves the cart untouched.
func (c *Cart) UpdateQuantity(productKitID string, qty int) {
	if qty <= 0 {
		c.Remove(productKitID)
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductKitID == productKitID {
			c.Items[i].Quantity = qty
			break
		}
	}
	c.recompute()
}

func (c *Cart) recompute() {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	c.TotalAmount = total
}
