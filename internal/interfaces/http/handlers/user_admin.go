// internal/interfaces/http/handlers/user_admin.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// UserAdminHandler handles admin user management endpoints
type UserAdminHandler struct {
	adminService *user.AdminService
	config       *config.Config
}

// NewUserAdminHandler creates a new user admin handler
func NewUserAdminHandler(adminService *user.AdminService, cfg *config.Config) *UserAdminHandler {
	return &UserAdminHandler{
		adminService: adminService,
		config:       cfg,
	}
}

// GetUsers handles GET /admin/users
func (h *UserAdminHandler) GetUsers(c *gin.Context) {
	var req user.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.adminService.ListUsers(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Users retrieved successfully",
		"data":    response,
	})
}

// DeleteCustomerAccount handles DELETE /admin/users/:id. The service
// re-verifies the caller's role from the database, so the handler only maps
// its structured error kinds to status codes.
func (h *UserAdminHandler) DeleteCustomerAccount(c *gin.Context) {
	callerID, _ := middleware.GetUserIDFromContext(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID",
		})
		return
	}

	result, err := h.adminService.DeleteCustomerAccount(callerID, uint(targetID))
	if err != nil {
		var accErr *user.AccountError
		status := http.StatusInternalServerError
		if errors.As(err, &accErr) {
			switch accErr.Kind {
			case user.ErrKindUnauthenticated:
				status = http.StatusUnauthorized
			case user.ErrKindPermissionDenied:
				status = http.StatusForbidden
			case user.ErrKindInvalidArgument:
				status = http.StatusBadRequest
			}
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account deleted successfully",
		"data":    result,
	})
}
