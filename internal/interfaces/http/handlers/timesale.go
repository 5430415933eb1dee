// internal/interfaces/http/handlers/timesale.go
package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/timesale"
)

// TimeSaleHandler handles time sale endpoints
type TimeSaleHandler struct {
	timesaleService *timesale.Service
	config          *config.Config
}

// NewTimeSaleHandler creates a new time sale handler
func NewTimeSaleHandler(timesaleService *timesale.Service, cfg *config.Config) *TimeSaleHandler {
	return &TimeSaleHandler{
		timesaleService: timesaleService,
		config:          cfg,
	}
}

// GetCountdown handles GET /timesale/countdown
func (h *TimeSaleHandler) GetCountdown(c *gin.Context) {
	response, err := h.timesaleService.GetCountdown(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to evaluate countdown",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Countdown retrieved successfully",
		"data":    response,
	})
}

// StreamCountdown handles GET /timesale/countdown/stream. It re-evaluates
// the active sale's countdown once per second and pushes each tick as a
// server-sent event until the sale expires or the client disconnects.
func (h *TimeSaleHandler) StreamCountdown(c *gin.Context) {
	sale, err := h.timesaleService.GetActiveTimeSale()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve active time sale",
		})
		return
	}
	if sale == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No active time sale",
		})
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case now := <-ticker.C:
			cd := sale.Evaluate(now)
			c.SSEvent("countdown", cd)
			if (cd == timesale.Countdown{}) {
				return false
			}
			return true
		}
	})
}

// ADMIN ENDPOINTS

// SaveTimeSale handles POST /admin/timesales and PUT /admin/timesales/:id
func (h *TimeSaleHandler) SaveTimeSale(c *gin.Context) {
	var id uint
	if raw := c.Param("id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid time sale ID",
			})
			return
		}
		id = uint(parsed)
	}

	var req timesale.SaveTimeSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	sale, err := h.timesaleService.SaveTimeSale(id, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"message": "Time sale saved successfully",
		"data":    sale,
	})
}

// ListTimeSales handles GET /admin/timesales
func (h *TimeSaleHandler) ListTimeSales(c *gin.Context) {
	sales, err := h.timesaleService.ListTimeSales()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve time sales",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Time sales retrieved successfully",
		"data":    sales,
	})
}

// GetTimeSale handles GET /admin/timesales/:id
func (h *TimeSaleHandler) GetTimeSale(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid time sale ID",
		})
		return
	}

	sale, err := h.timesaleService.GetTimeSale(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Time sale retrieved successfully",
		"data":    sale,
	})
}

// DeleteTimeSale handles DELETE /admin/timesales/:id
func (h *TimeSaleHandler) DeleteTimeSale(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid time sale ID",
		})
		return
	}

	if err := h.timesaleService.DeleteTimeSale(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Time sale deleted successfully",
	})
}
