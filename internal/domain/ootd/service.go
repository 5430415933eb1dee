// internal/domain/ootd/service.go
package ootd

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles OOTD feed business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new OOTD service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// CreatePostRequest represents post creation data
type CreatePostRequest struct {
	ImageURL   string `json:"image_url" binding:"required,url"`
	Caption    string `json:"caption"`
	ProductIDs []uint `json:"product_ids"`
}

// FeedRequest represents feed query parameters
type FeedRequest struct {
	Page   int  `form:"page,default=1"`
	Limit  int  `form:"limit,default=20"`
	UserID uint `form:"user_id"`
}

// FeedResponse represents a paginated feed page
type FeedResponse struct {
	Posts      []Post `json:"posts"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"total_pages"`
}

// LikeResult reports the outcome of a like toggle
type LikeResult struct {
	PostID    uint `json:"post_id"`
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// CreatePost publishes a new feed post
func (s *Service) CreatePost(userID uint, req *CreatePostRequest) (*Post, error) {
	post := &Post{
		UserID:     userID,
		ImageURL:   req.ImageURL,
		Caption:    req.Caption,
		ProductIDs: req.ProductIDs,
	}

	if err := s.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"post_id": post.ID,
		"user_id": userID,
	}).Info("OOTD post created")

	return post, nil
}

// GetFeed retrieves feed posts, newest first, optionally filtered by author
func (s *Service) GetFeed(req *FeedRequest) (*FeedResponse, error) {
	query := s.db.Model(&Post{})
	if req.UserID != 0 {
		query = query.Where("user_id = ?", req.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var posts []Post
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(req.Limit).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve posts: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &FeedResponse{
		Posts:      posts,
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// GetPost retrieves one post
func (s *Service) GetPost(id uint) (*Post, error) {
	var post Post
	if err := s.db.First(&post, id).Error; err != nil {
		return nil, fmt.Errorf("post not found")
	}
	return &post, nil
}

// DeletePost removes a post. Only the author may delete it.
func (s *Service) DeletePost(userID, postID uint) error {
	var post Post
	if err := s.db.First(&post, postID).Error; err != nil {
		return fmt.Errorf("post not found")
	}
	if post.UserID != userID {
		return fmt.Errorf("not the author of this post")
	}

	if err := s.db.Delete(&post).Error; err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// ToggleLike likes the post when the user has not liked it yet, and unlikes
// it otherwise. The post's like counter tracks the rows.
func (s *Service) ToggleLike(userID, postID uint) (*LikeResult, error) {
	var post Post
	if err := s.db.First(&post, postID).Error; err != nil {
		return nil, fmt.Errorf("post not found")
	}

	var existing PostLike
	err := s.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error

	var liked bool
	switch {
	case err == nil:
		if err := s.db.Delete(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to remove like: %w", err)
		}
		liked = false

	case errors.Is(err, gorm.ErrRecordNotFound):
		like := &PostLike{PostID: postID, UserID: userID}
		if err := s.db.Create(like).Error; err != nil {
			return nil, fmt.Errorf("failed to add like: %w", err)
		}
		liked = true

	default:
		return nil, fmt.Errorf("failed to check like: %w", err)
	}

	var count int64
	if err := s.db.Model(&PostLike{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	if err := s.db.Model(&Post{}).Where("id = ?", postID).Update("like_count", count).Error; err != nil {
		return nil, fmt.Errorf("failed to update like count: %w", err)
	}

	return &LikeResult{PostID: postID, Liked: liked, LikeCount: int(count)}, nil
}
