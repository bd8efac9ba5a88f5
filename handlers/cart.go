package handlers

import (
	"errors"
	"net/http"

	"pharmabook/models"
	"pharmabook/services/cart"
	"pharmabook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CartHandler exposes the transient cart. Guests get a cart keyed by their
// session id; signing in does not merge it, the treatments step re-adds
// selections under the user id.
type CartHandler struct {
	Cart cart.CartService
}

// GetCartHandler handles GET /api/cart.
func (h *CartHandler) GetCartHandler(c *gin.Context) {
	logger := utils.GetLogger()

	crt, err := h.Cart.Get(c.Request.Context(), cartOwner(c))
	if err != nil {
		logger.Error("Failed to fetch cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch cart"})
		return
	}
	c.JSON(http.StatusOK, cartView(crt))
}

// AddCartItemHandler handles POST /api/cart/items.
func (h *CartHandler) AddCartItemHandler(c *gin.Context) {
	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	crt, err := h.Cart.AddItem(c.Request.Context(), cartOwner(c), item)
	if err != nil {
		h.renderError(c, err, "failed to add item")
		return
	}
	c.JSON(http.StatusOK, cartView(crt))
}

// UpdateCartItemHandler handles PUT /api/cart/items/:key.
func (h *CartHandler) UpdateCartItemHandler(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	crt, err := h.Cart.UpdateQuantity(c.Request.Context(), cartOwner(c), c.Param("key"), req.Quantity)
	if err != nil {
		h.renderError(c, err, "failed to update item")
		return
	}
	c.JSON(http.StatusOK, cartView(crt))
}

// RemoveCartItemHandler handles DELETE /api/cart/items/:key.
func (h *CartHandler) RemoveCartItemHandler(c *gin.Context) {
	crt, err := h.Cart.RemoveItem(c.Request.Context(), cartOwner(c), c.Param("key"))
	if err != nil {
		h.renderError(c, err, "failed to remove item")
		return
	}
	c.JSON(http.StatusOK, cartView(crt))
}

// ClearCartHandler handles DELETE /api/cart.
func (h *CartHandler) ClearCartHandler(c *gin.Context) {
	if err := h.Cart.Clear(c.Request.Context(), cartOwner(c)); err != nil {
		h.renderError(c, err, "failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

func (h *CartHandler) renderError(c *gin.Context, err error, fallback string) {
	var cartErr *cart.CartError
	if errors.As(err, &cartErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": cartErr.Message})
		return
	}
	utils.GetLogger().Error(fallback, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

// cartView decorates the cart with display totals.
func cartView(crt *models.Cart) gin.H {
	return gin.H{
		"cart":          crt,
		"subtotal":      crt.Subtotal(),
		"subtotalMajor": utils.MinorToMajor(crt.Subtotal()),
	}
}
