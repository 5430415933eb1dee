package wishlist

import (
	"time"
)

// WishlistItem represents one product in a user's wishlist. The wishlist is
// a set: at most one row per (user, product) pair, enforced by the unique
// index. Toggling an existing pair removes the row outright, so there is no
// soft-delete column.
type WishlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (WishlistItem) TableName() string {
	return "wishlist_items"
}
