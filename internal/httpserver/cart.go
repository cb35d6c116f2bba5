package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storecart/internal/domain"
	cartsvc "storecart/internal/service/cart"
)

func getCartHandler(sessions cartSessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := sessions.Current(c.Writer, c.Request)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartView(*cart))
	}
}

func addItemHandler(sessions cartSessions, carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cartsvc.AddItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		cart, err := sessions.Current(c.Writer, c.Request)
		if err != nil {
			respondError(c, err)
			return
		}

		updated, err := carts.AddItem(c.Request.Context(), cart.ID, in)
		if err != nil {
			if isSentinel(err) {
				respondError(c, err)
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, toCartView(*updated))
	}
}

func updateItemHandler(sessions cartSessions, carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, err := uuid.Parse(c.Param("itemID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item id"})
			return
		}

		var in struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		cart, err := sessions.Current(c.Writer, c.Request)
		if err != nil {
			respondError(c, err)
			return
		}

		updated, err := carts.UpdateItemQuantity(c.Request.Context(), cart.ID, itemID, in.Quantity)
		if err != nil {
			if isSentinel(err) {
				respondError(c, err)
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, toCartView(*updated))
	}
}

func removeItemHandler(sessions cartSessions, carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, err := uuid.Parse(c.Param("itemID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item id"})
			return
		}

		cart, err := sessions.Current(c.Writer, c.Request)
		if err != nil {
			respondError(c, err)
			return
		}

		updated, err := carts.RemoveItem(c.Request.Context(), cart.ID, itemID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartView(*updated))
	}
}

func clearCartHandler(sessions cartSessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := sessions.Clear(c.Writer, c.Request)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartView(*cart))
	}
}

func checkoutHandler(sessions cartSessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := sessions.Checkout(c.Writer, c.Request)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartView(*cart))
	}
}

func isSentinel(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrCheckedOut) ||
		errors.Is(err, domain.ErrAlreadyExists) ||
		errors.Is(err, domain.ErrInvalidInput)
}
