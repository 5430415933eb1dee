// internal/domain/inventory/entity.go
package inventory

import (
	"fmt"
	"time"
)

// MovementType represents the type of inventory movement. The literal values
// are kept in Korean to stay compatible with the ledger rows written by the
// admin tooling.
type MovementType string

const (
	MovementTypeStockIn  MovementType = "입고" // inbound stock
	MovementTypeStockOut MovementType = "출고" // outbound stock
)

// IsValid reports whether the movement type is one of the known values
func (m MovementType) IsValid() bool {
	return m == MovementTypeStockIn || m == MovementTypeStockOut
}

// InventoryLog is one immutable ledger entry. Rows are only ever inserted,
// as a side effect of a stock transaction; they are never updated or
// deleted. The ledger is audit history, not the source of current stock.
type InventoryLog struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	ProductID      uint         `gorm:"not null;index" json:"product_id"`
	ProductName    string       `gorm:"size:255" json:"product_name"`
	MovementType   MovementType `gorm:"not null;size:10" json:"movement_type"`
	Size           string       `gorm:"not null;size:50" json:"size"`
	Color          string       `gorm:"not null;size:50" json:"color"`
	Quantity       int          `gorm:"not null" json:"quantity"` // Movement delta, always positive
	BeforeQuantity int          `gorm:"not null" json:"before_quantity"`
	AfterQuantity  int          `gorm:"not null" json:"after_quantity"`
	Reason         string       `gorm:"type:text" json:"reason"`
	AdminID        uint         `gorm:"index" json:"admin_id"`
	AdminEmail     string       `gorm:"size:255" json:"admin_email"`
	OrderRef       string       `gorm:"size:100" json:"order_ref,omitempty"` // Optional external order reference for outbound movements
	CreatedAt      time.Time    `json:"created_at"`
}

// TableName overrides the table name
func (InventoryLog) TableName() string {
	return "inventory_logs"
}

// Actor identifies the admin performing a stock transaction
type Actor struct {
	ID    uint
	Email string
}

// StockTransactionRequest represents one stock-in or stock-out request
type StockTransactionRequest struct {
	ProductID    uint         `json:"product_id" binding:"required"`
	MovementType MovementType `json:"movement_type" binding:"required"`
	Size         string       `json:"size" binding:"required"`
	Color        string       `json:"color" binding:"required"`
	Quantity     int          `json:"quantity" binding:"required,min=1"`
	Reason       string       `json:"reason" binding:"required"`
	OrderRef     string       `json:"order_ref"`
}

// InsufficientStockError is returned when a stock-out asks for more than the
// (size, color) pair currently holds. Current carries the quantity at the
// time of the check so the caller can surface it.
type InsufficientStockError struct {
	Size    string
	Color   string
	Current int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s/%s: %d available", e.Size, e.Color, e.Current)
}

// ErrStockConflict is returned when the product's stock table changed
// between read and write. The transaction is not retried; the caller
// re-submits against the fresh state.
var ErrStockConflict = fmt.Errorf("stock table was modified concurrently, please retry")
