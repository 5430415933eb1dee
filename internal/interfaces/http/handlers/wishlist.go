// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlistService *wishlist.Service
	config          *config.Config
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistService *wishlist.Service, cfg *config.Config) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		config:          cfg,
	}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	response, err := h.wishlistService.GetWishlist(userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve wishlist",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist retrieved successfully",
		"data":    response,
	})
}

// ToggleWishlistItem handles POST /wishlist/toggle/:product_id
func (h *WishlistHandler) ToggleWishlistItem(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	result, err := h.wishlistService.Toggle(userID, uint(productID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	message := "Item added to wishlist"
	if !result.Added {
		message = "Item removed from wishlist"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    result,
	})
}

// GetWishlistCount handles GET /wishlist/count
func (h *WishlistHandler) GetWishlistCount(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	count, err := h.wishlistService.Count(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get wishlist count",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist count retrieved successfully",
		"data": gin.H{
			"count": count,
		},
	})
}

// CheckWishlistItem handles GET /wishlist/contains/:product_id
func (h *WishlistHandler) CheckWishlistItem(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	contains, err := h.wishlistService.Contains(userID, uint(productID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check wishlist",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist checked successfully",
		"data": gin.H{
			"in_wishlist": contains,
		},
	})
}

// ClearWishlist handles DELETE /wishlist
func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	if err := h.wishlistService.Clear(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear wishlist",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist cleared successfully",
	})
}
