// internal/interfaces/http/handlers/ootd.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/ootd"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// OOTDHandler handles outfit feed endpoints
type OOTDHandler struct {
	ootdService *ootd.Service
	config      *config.Config
}

// NewOOTDHandler creates a new OOTD handler
func NewOOTDHandler(ootdService *ootd.Service, cfg *config.Config) *OOTDHandler {
	return &OOTDHandler{
		ootdService: ootdService,
		config:      cfg,
	}
}

// GetFeed handles GET /ootd
func (h *OOTDHandler) GetFeed(c *gin.Context) {
	var req ootd.FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.ootdService.GetFeed(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve feed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Feed retrieved successfully",
		"data":    response,
	})
}

// GetPost handles GET /ootd/:id
func (h *OOTDHandler) GetPost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid post ID",
		})
		return
	}

	post, err := h.ootdService.GetPost(uint(postID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post retrieved successfully",
		"data":    post,
	})
}

// CreatePost handles POST /ootd
func (h *OOTDHandler) CreatePost(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req ootd.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	post, err := h.ootdService.CreatePost(userID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"data":    post,
	})
}

// DeletePost handles DELETE /ootd/:id
func (h *OOTDHandler) DeletePost(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid post ID",
		})
		return
	}

	if err := h.ootdService.DeletePost(userID, uint(postID)); err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post deleted successfully",
	})
}

// ToggleLike handles POST /ootd/:id/like
func (h *OOTDHandler) ToggleLike(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid post ID",
		})
		return
	}

	result, err := h.ootdService.ToggleLike(userID, uint(postID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	message := "Post liked"
	if !result.Liked {
		message = "Post unliked"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    result,
	})
}
