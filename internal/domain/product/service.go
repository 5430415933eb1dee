// internal/domain/product/service.go
package product

import (
	"fmt"
	"strings"

	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	Category   string `form:"category"`
	Search     string `form:"search"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
	MinPrice   int64  `form:"min_price"`
	MaxPrice   int64  `form:"max_price"`
	IsFeatured *bool  `form:"is_featured"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	SKU          string `json:"sku" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Price        int64  `json:"price" binding:"required"`
	ComparePrice int64  `json:"compare_price"`
	Category     string `json:"category"`
	ImageURL     string `json:"image_url"`
	IsActive     bool   `json:"is_active"`
	IsFeatured   bool   `json:"is_featured"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Price        *int64  `json:"price"`
	ComparePrice *int64  `json:"compare_price"`
	Category     *string `json:"category"`
	ImageURL     *string `json:"image_url"`
	IsActive     *bool   `json:"is_active"`
	IsFeatured   *bool   `json:"is_featured"`
}

// ProductListResponse represents a paginated product listing
type ProductListResponse struct {
	Products   []Product `json:"products"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	Total      int64     `json:"total"`
	TotalPages int       `json:"total_pages"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductListResponse, error) {
	query := s.db.Model(&Product{}).Where("is_active = ?", true)

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Search != "" {
		like := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if req.MinPrice > 0 {
		query = query.Where("price >= ?", req.MinPrice)
	}
	if req.MaxPrice > 0 {
		query = query.Where("price <= ?", req.MaxPrice)
	}
	if req.IsFeatured != nil {
		query = query.Where("is_featured = ?", *req.IsFeatured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var products []Product
	offset := (req.Page - 1) * req.Limit
	order := s.buildOrderClause(req.SortBy, req.SortOrder)
	if err := query.Order(order).Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &ProductListResponse{
		Products:   products,
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// GetProduct retrieves a single active product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var prod Product
	if err := s.db.Where("id = ? AND is_active = ?", id, true).First(&prod).Error; err != nil {
		return nil, fmt.Errorf("product not found")
	}
	return &prod, nil
}

// GetProductBySlug retrieves a single active product by slug
func (s *Service) GetProductBySlug(slug string) (*Product, error) {
	var prod Product
	if err := s.db.Where("slug = ? AND is_active = ?", slug, true).First(&prod).Error; err != nil {
		return nil, fmt.Errorf("product not found")
	}
	return &prod, nil
}

// ADMIN OPERATIONS

// AdminGetProduct retrieves a product regardless of active state
func (s *Service) AdminGetProduct(id uint) (*Product, error) {
	var prod Product
	if err := s.db.Where("id = ?", id).First(&prod).Error; err != nil {
		return nil, fmt.Errorf("product not found")
	}
	return &prod, nil
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(req *ProductCreateRequest) (*Product, error) {
	var existing Product
	if err := s.db.Where("sku = ?", req.SKU).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("product with SKU '%s' already exists", req.SKU)
	}

	prod := &Product{
		SKU:             req.SKU,
		Name:            req.Name,
		Slug:            generateSlug(req.Name),
		Description:     req.Description,
		Price:           req.Price,
		ComparePrice:    req.ComparePrice,
		Category:        req.Category,
		ImageURL:        req.ImageURL,
		IsActive:        req.IsActive,
		IsFeatured:      req.IsFeatured,
		SizeColorStocks: SizeColorStockTable{},
	}

	if err := s.db.Create(prod).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return prod, nil
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(id uint, req *ProductUpdateRequest) (*Product, error) {
	var prod Product
	if err := s.db.Where("id = ?", id).First(&prod).Error; err != nil {
		return nil, fmt.Errorf("product not found")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = generateSlug(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.ComparePrice != nil {
		updates["compare_price"] = *req.ComparePrice
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}

	if len(updates) > 0 {
		if err := s.db.Model(&prod).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return &prod, nil
}

// DeleteProduct soft-deletes a product
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product not found")
	}
	return nil
}

// Private helpers

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at": true,
		"price":      true,
		"name":       true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}

func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")

	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}
