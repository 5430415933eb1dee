// internal/domain/inventory/service.go
package inventory

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service handles inventory business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new inventory service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// LedgerListRequest represents ledger query parameters
type LedgerListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	ProductID uint   `form:"product_id"`
	Type      string `form:"type"`
}

// LedgerListResponse represents a paginated ledger listing
type LedgerListResponse struct {
	Entries    []InventoryLog `json:"entries"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// STOCK TRANSACTIONS

// ProcessStockTransaction validates and applies one stock-in or stock-out
// request, then appends the matching ledger entry.
//
// The stock table write is conditional on the version the table was read at;
// a concurrent change makes it fail with ErrStockConflict instead of
// clobbering. The table update and the ledger append are two separate
// writes: if the append fails after the table already changed, the stock
// change stands and the ledger has a gap, which is reported to the caller
// and logged rather than rolled back.
func (s *Service) ProcessStockTransaction(req *StockTransactionRequest, actor Actor) (*InventoryLog, error) {
	if err := validateTransaction(req); err != nil {
		return nil, err
	}

	var prod product.Product
	if err := s.db.Where("id = ?", req.ProductID).First(&prod).Error; err != nil {
		return nil, fmt.Errorf("product not found")
	}

	var (
		newTable      product.SizeColorStockTable
		before, after int
		err           error
	)
	switch req.MovementType {
	case MovementTypeStockIn:
		newTable, before, after = applyStockIn(prod.SizeColorStocks, req.Size, req.Color, req.Quantity)
	case MovementTypeStockOut:
		newTable, before, after, err = applyStockOut(prod.SizeColorStocks, req.Size, req.Color, req.Quantity)
		if err != nil {
			return nil, err
		}
	}

	if err := s.compareAndSwapTable(prod.ID, prod.StockVersion, newTable); err != nil {
		return nil, err
	}

	entry := &InventoryLog{
		ProductID:      prod.ID,
		ProductName:    prod.Name,
		MovementType:   req.MovementType,
		Size:           req.Size,
		Color:          req.Color,
		Quantity:       req.Quantity,
		BeforeQuantity: before,
		AfterQuantity:  after,
		Reason:         req.Reason,
		AdminID:        actor.ID,
		AdminEmail:     actor.Email,
		OrderRef:       req.OrderRef,
	}
	if err := s.db.Create(entry).Error; err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"product_id": prod.ID,
			"type":       req.MovementType,
		}).Error("Stock table updated but ledger append failed")
		return nil, fmt.Errorf("stock updated but ledger append failed: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": prod.ID,
		"type":       req.MovementType,
		"size":       req.Size,
		"color":      req.Color,
		"before":     before,
		"after":      after,
		"admin":      actor.Email,
	}).Info("Stock transaction applied")

	return entry, nil
}

// GetLedger retrieves ledger entries, newest first
func (s *Service) GetLedger(req *LedgerListRequest) (*LedgerListResponse, error) {
	query := s.db.Model(&InventoryLog{})

	if req.ProductID != 0 {
		query = query.Where("product_id = ?", req.ProductID)
	}
	if req.Type != "" {
		query = query.Where("movement_type = ?", req.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var entries []InventoryLog
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(req.Limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve ledger entries: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &LedgerListResponse{
		Entries:    entries,
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// GetProductLedger retrieves the full ledger history for one product
func (s *Service) GetProductLedger(productID uint) ([]InventoryLog, error) {
	var entries []InventoryLog
	if err := s.db.Where("product_id = ?", productID).Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve product ledger: %w", err)
	}
	return entries, nil
}

// SyncStockTotals recomputes every product's flat quantity counter from its
// size/color table. Running it twice with no transactions in between is a
// no-op the second time.
func (s *Service) SyncStockTotals() (int, error) {
	var products []product.Product
	if err := s.db.Find(&products).Error; err != nil {
		return 0, fmt.Errorf("failed to load products: %w", err)
	}

	updated := 0
	for i := range products {
		total := products[i].SizeColorStocks.TotalQuantity()
		if total == products[i].Quantity {
			continue
		}
		if err := s.db.Model(&product.Product{}).Where("id = ?", products[i].ID).
			Update("quantity", total).Error; err != nil {
			return updated, fmt.Errorf("failed to sync stock total for product %d: %w", products[i].ID, err)
		}
		updated++
	}

	s.logger.WithField("updated", updated).Info("Stock totals synced")
	return updated, nil
}

// Internal helpers

func validateTransaction(req *StockTransactionRequest) error {
	if !req.MovementType.IsValid() {
		return fmt.Errorf("unknown movement type '%s'", req.MovementType)
	}
	if req.Size == "" || req.Color == "" {
		return fmt.Errorf("size and color are required")
	}
	if req.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if req.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	return nil
}

// compareAndSwapTable writes the new stock table only if the row still
// carries the version it was read at
func (s *Service) compareAndSwapTable(productID uint, version int64, table product.SizeColorStockTable) error {
	result := s.db.Model(&product.Product{}).
		Where("id = ? AND stock_version = ?", productID, version).
		Updates(map[string]interface{}{
			"size_color_stocks": table,
			"stock_version":     version + 1,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update stock table: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}
