// internal/domain/product/entity.go
package product

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Product represents the product entity
type Product struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	SKU          string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name         string         `gorm:"not null;size:255" json:"name"`
	Slug         string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	Price        int64          `gorm:"not null" json:"price"` // Price in the smallest currency unit
	ComparePrice int64          `json:"compare_price"`         // Original price for discounts
	Category     string         `gorm:"size:100;index" json:"category"`
	ImageURL     string         `gorm:"size:500" json:"image_url"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	IsFeatured   bool           `gorm:"default:false" json:"is_featured"`

	// Per-variant stock. SizeColorStocks is the authoritative size/color
	// table, overwritten wholesale on every stock transaction. Quantity is
	// the flat total counter, recomputed by the bulk sync operation.
	// StockVersion guards the table against concurrent read-modify-write.
	SizeColorStocks SizeColorStockTable `gorm:"type:jsonb" json:"size_color_stocks"`
	Quantity        int                 `gorm:"default:0" json:"quantity"`
	StockVersion    int64               `gorm:"default:0" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SizeColorStock is one entry of a product's size/color stock table
type SizeColorStock struct {
	Size     string `json:"size"`
	Color    string `json:"color"`
	Quantity int    `json:"quantity"`
}

// SizeColorStockTable is the per-product list of available quantity per
// (size, color) combination. At most one entry exists per pair; entries
// that reach quantity zero are pruned rather than kept at zero.
type SizeColorStockTable []SizeColorStock

// Value implements driver.Valuer so the table is stored as a single JSON column
func (t SizeColorStockTable) Value() (driver.Value, error) {
	if t == nil {
		t = SizeColorStockTable{}
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner
func (t *SizeColorStockTable) Scan(value interface{}) error {
	if value == nil {
		*t = SizeColorStockTable{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported stock table column type %T", value)
	}
}

// Find returns the index of the entry for the given (size, color) pair, or -1
func (t SizeColorStockTable) Find(size, color string) int {
	for i := range t {
		if t[i].Size == size && t[i].Color == color {
			return i
		}
	}
	return -1
}

// QuantityOf returns the current quantity for the given pair (0 if absent)
func (t SizeColorStockTable) QuantityOf(size, color string) int {
	if i := t.Find(size, color); i >= 0 {
		return t[i].Quantity
	}
	return 0
}

// TotalQuantity returns the sum of all entries in the table
func (t SizeColorStockTable) TotalQuantity() int {
	total := 0
	for i := range t {
		total += t[i].Quantity
	}
	return total
}

// Clone returns an independent copy of the table
func (t SizeColorStockTable) Clone() SizeColorStockTable {
	out := make(SizeColorStockTable, len(t))
	copy(out, t)
	return out
}

// TableName overrides
func (Product) TableName() string { return "products" }

// Business methods for Product

func (p *Product) IsInStock() bool {
	return p.SizeColorStocks.TotalQuantity() > 0
}

func (p *Product) GetDiscountPercentage() int {
	if p.ComparePrice > 0 && p.Price < p.ComparePrice {
		return int(((p.ComparePrice - p.Price) * 100) / p.ComparePrice)
	}
	return 0
}
