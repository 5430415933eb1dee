// internal/domain/cart/entity.go
package cart

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Item represents a single cart line. Lines are distinguished by product,
// size and color; the same product in two sizes is two lines.
type Item struct {
	ProductID uint      `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"` // Price at time of adding
	ImageURL  string    `json:"image_url"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	AddedAt   time.Time `json:"added_at"`
}

// ItemList is stored as a single JSON column on the persisted cart row
type ItemList []Item

// Value implements driver.Valuer
func (l ItemList) Value() (driver.Value, error) {
	if l == nil {
		l = ItemList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *ItemList) Scan(value interface{}) error {
	if value == nil {
		*l = ItemList{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported cart items column type %T", value)
	}
}

// TotalQuantity returns the sum of all line quantities
func (l ItemList) TotalQuantity() int {
	total := 0
	for i := range l {
		total += l[i].Quantity
	}
	return total
}

// SubTotal returns the price sum across all lines
func (l ItemList) SubTotal() int64 {
	var total int64
	for i := range l {
		total += l[i].Price * int64(l[i].Quantity)
	}
	return total
}

// Clone returns an independent copy of the list
func (l ItemList) Clone() ItemList {
	out := make(ItemList, len(l))
	copy(out, l)
	return out
}

// UserCart is the persisted mirror of an authenticated user's cart. The
// whole item list is overwritten on every flush; Seq increases with each
// accepted write so a stale flush can be detected and skipped.
type UserCart struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	Items     ItemList  `gorm:"type:jsonb" json:"items"`
	Seq       int64     `gorm:"default:0" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (UserCart) TableName() string {
	return "user_carts"
}

// SessionCart represents a guest cart stored in Redis
type SessionCart struct {
	SessionID string    `json:"session_id"`
	Items     ItemList  `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartTotals represents calculated cart totals
type CartTotals struct {
	ItemCount     int   `json:"item_count"`     // Number of distinct lines
	TotalQuantity int   `json:"total_quantity"` // Sum of all quantities
	SubTotal      int64 `json:"sub_total"`
}
