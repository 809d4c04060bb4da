package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/middleware"
	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/model"
	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/service"

	"github.com/gin-gonic/gin"
)

// CartHandler はカート操作のHTTPハンドラー
type CartHandler struct {
	orderService service.OrderService
}

// NewCartHandler は新しいカートハンドラーを作成
func NewCartHandler(orderService service.OrderService) *CartHandler {
	return &CartHandler{orderService: orderService}
}

// cartMutation is one OrderService operation keyed by user and product.
type cartMutation func(ctx context.Context, userID, productID string) (*model.OrderDetail, error)

// GetCart returns the caller's active order, or an empty object when
// they have no cart yet.
func (h *CartHandler) GetCart(c *gin.Context) {
	user, exists := middleware.GetUserFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	cart, err := h.orderService.GetCart(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cart"})
		return
	}

	if cart == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// AddProduct adds one unit of a product to the cart.
func (h *CartHandler) AddProduct(c *gin.Context) {
	h.mutateItem(c, h.orderService.AddProduct)
}

// IncreaseQuantity adds one unit to an existing cart line.
func (h *CartHandler) IncreaseQuantity(c *gin.Context) {
	h.mutateItem(c, h.orderService.IncreaseQuantity)
}

// DecreaseQuantity removes one unit from an existing cart line.
func (h *CartHandler) DecreaseQuantity(c *gin.Context) {
	h.mutateItem(c, h.orderService.DecreaseQuantity)
}

// RemoveProduct deletes a cart line entirely.
func (h *CartHandler) RemoveProduct(c *gin.Context) {
	h.mutateItem(c, h.orderService.RemoveProduct)
}

// ReplaceCart merges a client-held cart into the active order.
func (h *CartHandler) ReplaceCart(c *gin.Context) {
	user, exists := middleware.GetUserFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req model.ReplaceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.orderService.ReplaceCart(c.Request.Context(), user.ID, req.Cart)
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// Checkout marks the active order fulfilled.
func (h *CartHandler) Checkout(c *gin.Context) {
	h.closeOrder(c, h.orderService.Checkout)
}

// CancelOrder marks the active order cancelled.
func (h *CartHandler) CancelOrder(c *gin.Context) {
	h.closeOrder(c, h.orderService.CancelOrder)
}

// mutateItem binds the product id and runs one cart line mutation.
func (h *CartHandler) mutateItem(c *gin.Context, op cartMutation) {
	user, exists := middleware.GetUserFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req model.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := op(c.Request.Context(), user.ID, req.ProductID)
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// closeOrder runs a checkout or cancel transition on the active order.
func (h *CartHandler) closeOrder(c *gin.Context, op func(ctx context.Context, userID string) (*model.OrderDetail, error)) {
	user, exists := middleware.GetUserFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	cart, err := op(c.Request.Context(), user.ID)
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// writeCartError maps cart domain errors onto responses.
func (h *CartHandler) writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveOrder):
		c.JSON(http.StatusNotFound, gin.H{"error": "No active order"})
	case errors.Is(err, service.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
	}
}
