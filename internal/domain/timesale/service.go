// internal/domain/timesale/service.go
package timesale

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles time sale business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new time sale service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// SaveTimeSaleRequest carries the full sale configuration. Saving always
// overwrites the whole row; there are no partial updates.
type SaveTimeSaleRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	DiscountPercent int    `json:"discount_percent" binding:"min=0,max=100"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	ProductIDs      []uint `json:"product_ids"`
	StartDate       string `json:"start_date" binding:"required"`
	EndDate         string `json:"end_date" binding:"required"`
	IsActive        bool   `json:"is_active"`
}

// CountdownResponse pairs a sale with its evaluated countdown
type CountdownResponse struct {
	Sale      *TimeSale `json:"sale"`
	Countdown Countdown `json:"countdown"`
	Active    bool      `json:"active"`
}

// SaveTimeSale creates or wholesale-overwrites a sale configuration
func (s *Service) SaveTimeSale(id uint, req *SaveTimeSaleRequest) (*TimeSale, error) {
	if _, err := parseDate(req.StartDate); err != nil {
		return nil, fmt.Errorf("start_date must be YYYY-MM-DD")
	}
	if _, err := parseDate(req.EndDate); err != nil {
		return nil, fmt.Errorf("end_date must be YYYY-MM-DD")
	}

	sale := &TimeSale{
		ID:              id,
		Title:           req.Title,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		BackgroundColor: req.BackgroundColor,
		TextColor:       req.TextColor,
		ProductIDs:      req.ProductIDs,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsActive:        req.IsActive,
	}

	if id != 0 {
		var existing TimeSale
		if err := s.db.First(&existing, id).Error; err != nil {
			return nil, fmt.Errorf("time sale not found")
		}
		sale.CreatedAt = existing.CreatedAt
		// The legacy countdown field survives overwrites untouched; only
		// old rows carry it and nothing writes it anymore.
		sale.LegacyCountdownEnd = existing.LegacyCountdownEnd
	}

	if err := s.db.Save(sale).Error; err != nil {
		return nil, fmt.Errorf("failed to save time sale: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"time_sale_id": sale.ID,
		"end_date":     sale.EndDate,
		"active":       sale.IsActive,
	}).Info("Time sale saved")

	return sale, nil
}

// GetActiveTimeSale returns the most recently updated active sale, or nil
// when no sale is running
func (s *Service) GetActiveTimeSale() (*TimeSale, error) {
	var sale TimeSale
	err := s.db.Where("is_active = ?", true).Order("updated_at DESC").First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve active time sale: %w", err)
	}
	return &sale, nil
}

// GetCountdown evaluates the active sale's countdown at the given instant
func (s *Service) GetCountdown(now time.Time) (*CountdownResponse, error) {
	sale, err := s.GetActiveTimeSale()
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return &CountdownResponse{Active: false}, nil
	}

	cd := sale.Evaluate(now)
	return &CountdownResponse{
		Sale:      sale,
		Countdown: cd,
		Active:    cd != Countdown{},
	}, nil
}

// ListTimeSales retrieves all sale configurations for the admin console
func (s *Service) ListTimeSales() ([]TimeSale, error) {
	var sales []TimeSale
	if err := s.db.Order("updated_at DESC").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve time sales: %w", err)
	}
	return sales, nil
}

// GetTimeSale retrieves one sale configuration
func (s *Service) GetTimeSale(id uint) (*TimeSale, error) {
	var sale TimeSale
	if err := s.db.First(&sale, id).Error; err != nil {
		return nil, fmt.Errorf("time sale not found")
	}
	return &sale, nil
}

// DeleteTimeSale removes a sale configuration
func (s *Service) DeleteTimeSale(id uint) error {
	result := s.db.Delete(&TimeSale{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete time sale: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("time sale not found")
	}
	return nil
}
