// internal/domain/timesale/entity.go
package timesale

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TimeSale represents a time-limited sale configuration. Admin saves
// overwrite the row wholesale; the storefront reads it to drive the
// homepage countdown.
type TimeSale struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	Title           string        `gorm:"not null;size:255" json:"title"`
	Description     string        `gorm:"type:text" json:"description"`
	DiscountPercent int           `gorm:"default:0" json:"discount_percent"`
	BackgroundColor string        `gorm:"size:20" json:"background_color"`
	TextColor       string        `gorm:"size:20" json:"text_color"`
	ProductIDs      ProductIDList `gorm:"type:jsonb" json:"product_ids"`

	// StartDate and EndDate are calendar dates in YYYY-MM-DD form. The sale
	// is over at the start of EndDate, not the end of it.
	StartDate string `gorm:"size:10" json:"start_date"`
	EndDate   string `gorm:"size:10" json:"end_date"`

	// LegacyCountdownEnd carries the old countdown end-time field verbatim.
	// Rows written by earlier versions stored it in several encodings; see
	// NormalizeCountdownEnd. Kept for backward compatibility indefinitely.
	LegacyCountdownEnd string `gorm:"type:text" json:"countdown_end_time,omitempty"`

	IsActive  bool      `gorm:"default:false" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (TimeSale) TableName() string {
	return "time_sales"
}

// ProductIDList is stored as a single JSON column
type ProductIDList []uint

// Value implements driver.Valuer
func (l ProductIDList) Value() (driver.Value, error) {
	if l == nil {
		l = ProductIDList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *ProductIDList) Scan(value interface{}) error {
	if value == nil {
		*l = ProductIDList{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported product id list column type %T", value)
	}
}
