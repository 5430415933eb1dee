// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
)

// InventoryHandler handles inventory endpoints
type InventoryHandler struct {
	inventoryService *inventory.Service
	pdfService       *pdf.Service
	config           *config.Config
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *inventory.Service, pdfService *pdf.Service, cfg *config.Config) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		pdfService:       pdfService,
		config:           cfg,
	}
}

// ProcessStockTransaction handles POST /admin/inventory/transactions
func (h *InventoryHandler) ProcessStockTransaction(c *gin.Context) {
	var req inventory.StockTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	adminID, _ := middleware.GetUserIDFromContext(c)
	adminEmail, _ := middleware.GetUserEmailFromContext(c)
	actor := inventory.Actor{ID: adminID, Email: adminEmail}

	entry, err := h.inventoryService.ProcessStockTransaction(&req, actor)
	if err != nil {
		var insufficient *inventory.InsufficientStockError
		switch {
		case errors.As(err, &insufficient):
			// Surfaced verbatim so the operator sees the current quantity
			c.JSON(http.StatusConflict, gin.H{
				"error": insufficient.Error(),
			})
		case errors.Is(err, inventory.ErrStockConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Stock transaction processed successfully",
		"data":    entry,
	})
}

// GetLedger handles GET /admin/inventory/ledger
func (h *InventoryHandler) GetLedger(c *gin.Context) {
	var req inventory.LedgerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.inventoryService.GetLedger(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve ledger",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ledger retrieved successfully",
		"data":    response,
	})
}

// GetProductLedger handles GET /admin/inventory/ledger/:product_id
func (h *InventoryHandler) GetProductLedger(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	entries, err := h.inventoryService.GetProductLedger(uint(productID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve product ledger",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product ledger retrieved successfully",
		"data":    entries,
	})
}

// SyncStockTotals handles POST /admin/inventory/sync
func (h *InventoryHandler) SyncStockTotals(c *gin.Context) {
	updated, err := h.inventoryService.SyncStockTotals()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Stock sync failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock totals synced successfully",
		"data": gin.H{
			"updated": updated,
		},
	})
}

// DownloadLedgerReport handles GET /admin/inventory/ledger/report
func (h *InventoryHandler) DownloadLedgerReport(c *gin.Context) {
	var req inventory.LedgerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}
	// The export carries the full filtered history, not one page.
	req.Page = 1
	req.Limit = 100

	var entries []inventory.InventoryLog
	for {
		page, err := h.inventoryService.GetLedger(&req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve ledger",
			})
			return
		}
		entries = append(entries, page.Entries...)
		if req.Page >= page.TotalPages {
			break
		}
		req.Page++
	}

	buf, err := h.pdfService.GenerateLedgerReport("Inventory Ledger", entries)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate report",
		})
		return
	}

	filename := fmt.Sprintf("inventory-ledger-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
