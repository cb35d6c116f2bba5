package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefTypeProduct is the reference type for items pointing at the catalog.
const RefTypeProduct = "product"

// ProductRef points an item at an arbitrary sellable entity. Type names the
// entity kind ("product" for the built-in catalog), ID its row.
type ProductRef struct {
	Type string    `json:"refType"`
	ID   uuid.UUID `json:"refId"`
}

// Cart belongs to a user or, while UserID is nil, to an anonymous session.
type Cart struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"userId,omitempty"`
	CheckedOut bool       `json:"checkedOut"`
	CreatedAt  time.Time  `json:"createdAt"`
	Items      []Item     `json:"items,omitempty"`
}

// IsEmpty reports whether the cart holds no items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalPrice sums the item totals.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.TotalPrice())
	}
	return total
}

// Item is a quantity of some referenced entity at a unit price frozen when
// it entered the cart.
type Item struct {
	ID        uuid.UUID       `json:"id"`
	CartID    uuid.UUID       `json:"cartId"`
	Product   ProductRef      `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	CreatedAt time.Time       `json:"createdAt"`
}

// TotalPrice is quantity times unit price.
func (i Item) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i Item) String() string {
	return fmt.Sprintf("%d units of %s %s", i.Quantity, i.Product.Type, i.Product.ID)
}
