// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		config:      cfg,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := h.currentUserID(c)
	sessionID := h.getOrCreateSessionID(c)

	cartResponse, err := h.cartService.GetCart(userID, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartResponse,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID := h.currentUserID(c)
	sessionID := h.getOrCreateSessionID(c)

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartResponse, err := h.cartService.AddToCart(userID, sessionID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartResponse,
	})
}

// UpdateCartItem handles PUT /cart/items
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID := h.currentUserID(c)
	sessionID := h.getOrCreateSessionID(c)

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartResponse, err := h.cartService.UpdateItemQuantity(userID, sessionID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    cartResponse,
	})
}

// SelectVariant handles PUT /cart/items/variant
func (h *CartHandler) SelectVariant(c *gin.Context) {
	userID := h.currentUserID(c)
	sessionID := h.getOrCreateSessionID(c)

	var req cart.SelectVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartResponse, err := h.cartService.SelectVariant(userID, sessionID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item variant updated successfully",
		"data":    cartResponse,
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID := h.currentUserID(c)
	sessionID := h.getOrCreateSessionID(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	// Size/color pick the exact line; a product can be in the cart in
	// several variants.
	size := c.Query("size")
	color := c.Query("color")

	cartResponse, err := h.cartService.RemoveItem(userID, sessionID, uint(productID), size, color)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    cartResponse,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID := h.currentUserID(c)
	sessionID := h.getOrCreateSessionID(c)

	if err := h.cartService.ClearCart(userID, sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	userID := h.currentUserID(c)
	sessionID := h.getOrCreateSessionID(c)

	count, err := h.cartService.GetCartCount(userID, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get cart count",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": count,
		},
	})
}

// MergeGuestCart handles POST /cart/merge. Login triggers the merge
// server-side already; this endpoint lets clients that keep their session
// cookie across a token refresh re-request it, and the merge guard makes
// the repeat call a no-op.
func (h *CartHandler) MergeGuestCart(c *gin.Context) {
	uid, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	sessionID := h.getOrCreateSessionID(c)

	if err := h.cartService.MergeGuestCartToUser(uid, sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to merge cart",
		})
		return
	}

	cartResponse, err := h.cartService.GetCart(&uid, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve merged cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Guest cart merged successfully",
		"data":    cartResponse,
	})
}

// currentUserID returns the authenticated user id, or nil for guests
func (h *CartHandler) currentUserID(c *gin.Context) *uint {
	uid, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		return nil
	}
	return &uid
}

// getOrCreateSessionID gets session ID from cookie or creates a new one
func (h *CartHandler) getOrCreateSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie("session_id")
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()
		c.SetCookie("session_id", sessionID, int(h.config.Cart.SessionTTL.Seconds()), "/", "", false, true)
	}

	return sessionID
}
