// internal/domain/user/account.go
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// ErrorKind classifies account-management failures so transport layers can
// map them to status codes without parsing messages
type ErrorKind string

const (
	ErrKindUnauthenticated  ErrorKind = "unauthenticated"
	ErrKindPermissionDenied ErrorKind = "permission-denied"
	ErrKindInvalidArgument  ErrorKind = "invalid-argument"
	ErrKindInternal         ErrorKind = "internal"
)

// AccountError is a structured account-management error
type AccountError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AccountError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AccountError) Unwrap() error {
	return e.Err
}

func newAccountError(kind ErrorKind, message string, err error) *AccountError {
	return &AccountError{Kind: kind, Message: message, Err: err}
}

// DeleteAccountResult is the response of a successful account deletion
type DeleteAccountResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AdminService handles privileged account management
type AdminService struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	logger      *logrus.Logger
	userService *Service
}

// NewAdminService creates a new admin account service
func NewAdminService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *AdminService {
	return &AdminService{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		logger:      logger,
		userService: NewService(db, cfg, logger),
	}
}

// UserListRequest represents the admin user listing query
type UserListRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
}

// UserListResponse represents a page of users
type UserListResponse struct {
	Users      []User `json:"users"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// ListUsers returns a page of user accounts for the admin panel
func (s *AdminService) ListUsers(req *UserListRequest) (*UserListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&User{})
	if req.Search != "" {
		term := "%" + req.Search + "%"
		query = query.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", term, term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []User
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	for i := range users {
		users[i].Password = ""
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &UserListResponse{
		Users:      users,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// DeleteCustomerAccount removes a customer's credential state and profile
// row. The caller's admin role is re-verified against the stored user record
// rather than trusted from token claims; the configured super-admin email
// passes the check regardless of its stored role.
//
// Credential state that is already absent is not an error: the operation is
// safe to re-run after a partial failure. Every failure carries one of the
// structured kinds so the handler can map it to a status unchanged.
func (s *AdminService) DeleteCustomerAccount(callerID uint, targetID uint) (*DeleteAccountResult, error) {
	if callerID == 0 {
		return nil, newAccountError(ErrKindUnauthenticated, "authentication required", nil)
	}
	if targetID == 0 {
		return nil, newAccountError(ErrKindInvalidArgument, "target user id is required", nil)
	}

	var caller User
	if err := s.db.Where("id = ?", callerID).First(&caller).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newAccountError(ErrKindUnauthenticated, "caller account not found", nil)
		}
		return nil, newAccountError(ErrKindInternal, "failed to verify caller", err)
	}
	if !s.userService.EffectiveIsAdmin(&caller) {
		return nil, newAccountError(ErrKindPermissionDenied, "admin role required", nil)
	}

	if err := s.deleteCredentialState(targetID); err != nil {
		return nil, newAccountError(ErrKindInternal, "failed to delete credential state", err)
	}

	// Hard delete: the profile row is gone, not soft-deleted. A row that is
	// already absent counts as deleted.
	if err := s.db.Unscoped().Delete(&User{}, targetID).Error; err != nil {
		return nil, newAccountError(ErrKindInternal, "failed to delete user record", err)
	}

	s.logger.WithFields(logrus.Fields{
		"admin_id":  callerID,
		"target_id": targetID,
	}).Info("Customer account deleted")

	return &DeleteAccountResult{
		Success: true,
		Message: fmt.Sprintf("account %d deleted", targetID),
	}, nil
}

// deleteCredentialState drops everything session-related the user has in
// Redis. Missing keys are fine; the user may never have logged in.
func (s *AdminService) deleteCredentialState(userID uint) error {
	ctx := context.Background()

	keys := []string{
		fmt.Sprintf("auth:refresh:%d", userID),
		fmt.Sprintf("cart:user:%d", userID),
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
