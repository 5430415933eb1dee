package wishlist

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service handles wishlist business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// WishlistItemResponse represents a wishlist item with product details
type WishlistItemResponse struct {
	ID          uint             `json:"id"`
	ProductID   uint             `json:"product_id"`
	Product     *product.Product `json:"product,omitempty"`
	IsAvailable bool             `json:"is_available"`
	AddedAt     time.Time        `json:"added_at"`
}

// WishlistResponse represents a wishlist with items and pagination
type WishlistResponse struct {
	Items      []WishlistItemResponse `json:"items"`
	Pagination Pagination             `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ToggleResult reports what a toggle did
type ToggleResult struct {
	ProductID uint `json:"product_id"`
	Added     bool `json:"added"` // false means the item was removed
	Count     int  `json:"count"` // wishlist size after the toggle
}

// Toggle adds the product to the user's wishlist when absent and removes it
// when present
func (s *Service) Toggle(userID, productID uint) (*ToggleResult, error) {
	var existing WishlistItem
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error

	switch {
	case err == nil:
		if err := s.db.Delete(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to remove wishlist item: %w", err)
		}
		count, err := s.Count(userID)
		if err != nil {
			return nil, err
		}
		return &ToggleResult{ProductID: productID, Added: false, Count: count}, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		var prod product.Product
		if err := s.db.Where("id = ? AND is_active = ?", productID, true).First(&prod).Error; err != nil {
			return nil, fmt.Errorf("product not found")
		}

		item := &WishlistItem{UserID: userID, ProductID: productID}
		if err := s.db.Create(item).Error; err != nil {
			return nil, fmt.Errorf("failed to add wishlist item: %w", err)
		}
		count, err := s.Count(userID)
		if err != nil {
			return nil, err
		}
		return &ToggleResult{ProductID: productID, Added: true, Count: count}, nil

	default:
		return nil, fmt.Errorf("failed to check wishlist: %w", err)
	}
}

// GetWishlist retrieves a user's wishlist with product details, newest first
func (s *Service) GetWishlist(userID uint, page, limit int) (*WishlistResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&WishlistItem{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count wishlist items: %w", err)
	}

	var items []WishlistItem
	offset := (page - 1) * limit
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist items: %w", err)
	}

	responses := make([]WishlistItemResponse, len(items))
	for i, item := range items {
		responses[i] = WishlistItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			AddedAt:   item.CreatedAt,
		}
		var prod product.Product
		if err := s.db.Where("id = ?", item.ProductID).First(&prod).Error; err == nil {
			responses[i].Product = &prod
			responses[i].IsAvailable = prod.IsActive && prod.IsInStock()
		}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &WishlistResponse{
		Items: responses,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      int(total),
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// Count returns the number of items in the user's wishlist
func (s *Service) Count(userID uint) (int, error) {
	var total int64
	if err := s.db.Model(&WishlistItem{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count wishlist items: %w", err)
	}
	return int(total), nil
}

// Contains reports whether the product is in the user's wishlist
func (s *Service) Contains(userID, productID uint) (bool, error) {
	var total int64
	if err := s.db.Model(&WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&total).Error; err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}
	return total > 0, nil
}

// Clear removes every item from the user's wishlist
func (s *Service) Clear(userID uint) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&WishlistItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	return nil
}
