package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storecart/internal/domain"
)

type cartView struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId,omitempty"`
	CheckedOut bool       `json:"checkedOut"`
	IsEmpty    bool       `json:"isEmpty"`
	TotalPrice string     `json:"totalPrice"`
	CreatedAt  time.Time  `json:"createdAt"`
	Items      []itemView `json:"items"`
}

type itemView struct {
	ID         string    `json:"id"`
	RefType    string    `json:"refType"`
	RefID      string    `json:"refId"`
	Quantity   int       `json:"quantity"`
	UnitPrice  string    `json:"unitPrice"`
	TotalPrice string    `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toCartView(cart domain.Cart) cartView {
	items := make([]itemView, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, itemView{
			ID:         it.ID.String(),
			RefType:    it.Product.Type,
			RefID:      it.Product.ID.String(),
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice.StringFixed(2),
			TotalPrice: it.TotalPrice().StringFixed(2),
			CreatedAt:  it.CreatedAt,
		})
	}

	out := cartView{
		ID:         cart.ID.String(),
		CheckedOut: cart.CheckedOut,
		IsEmpty:    cart.IsEmpty(),
		TotalPrice: cart.TotalPrice().StringFixed(2),
		CreatedAt:  cart.CreatedAt,
		Items:      items,
	}
	if cart.UserID != nil {
		out.UserID = cart.UserID.String()
	}
	return out
}

type productView struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:          p.ID.String(),
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		CreatedAt:   p.CreatedAt,
	}
}

// respondError maps domain sentinels onto status codes; anything else is a
// server error.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, domain.ErrCheckedOut):
		c.JSON(http.StatusConflict, gin.H{"message": "cart already checked out"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"message": "already exists"})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}
