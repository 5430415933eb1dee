// internal/domain/ootd/entity.go
package ootd

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Post represents one OOTD ("outfit of the day") feed entry. The image is an
// already-hosted URL; this service never touches file storage.
type Post struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	ImageURL   string         `gorm:"not null;size:500" json:"image_url"`
	Caption    string         `gorm:"type:text" json:"caption"`
	ProductIDs ProductIDList  `gorm:"type:jsonb" json:"product_ids"`
	LikeCount  int            `gorm:"default:0" json:"like_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Post) TableName() string {
	return "ootd_posts"
}

// PostLike records one user liking one post. At most one row per
// (post, user) pair.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_ootd_like_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ootd_like_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (PostLike) TableName() string {
	return "ootd_post_likes"
}

// ProductIDList is the tagged-products column, stored as JSON
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
