// internal/domain/user/service.go
package user

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	logger          *logrus.Logger
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		logger:          logger,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Phone           string `json:"phone"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates a new user account
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match")
	}

	var existingUser User
	result := s.db.Where("email = ?", req.Email).First(&existingUser)
	if result.Error == nil {
		return nil, fmt.Errorf("user with this email already exists")
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  true,
		IsAdmin:   false,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")

	return s.issueTokens(&user)
}

// Login authenticates a user
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var user User
	result := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := s.passwordManager.VerifyPassword(req.Password, user.Password); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	s.db.Save(&user)

	return s.issueTokens(&user)
}

// RefreshToken generates new tokens using refresh token
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	var user User
	result := s.db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found or inactive")
	}

	newAccessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, s.EffectiveIsAdmin(&user))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	var newRefreshToken string
	if s.config.JWT.RefreshTokenRotation {
		newRefreshToken, err = s.jwtManager.GenerateRefreshToken(user.ID, user.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to generate refresh token: %w", err)
		}
	} else {
		newRefreshToken = refreshToken
	}

	user.Password = ""

	return &AuthResponse{
		User:         &user,
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// EffectiveIsAdmin reports whether the user holds the admin role. The
// configured super-admin email is always treated as admin regardless of what
// the stored record says.
func (s *Service) EffectiveIsAdmin(u *User) bool {
	if s.config.Security.SuperAdminEmail != "" && u.Email == s.config.Security.SuperAdminEmail {
		return true
	}
	return u.IsAdmin
}

// GetProfile gets user profile by ID
func (s *Service) GetProfile(userID uint) (*User, error) {
	var user User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found")
	}

	user.Password = ""
	return &user, nil
}

// UpdateProfile updates user profile
func (s *Service) UpdateProfile(userID uint, updates map[string]interface{}) (*User, error) {
	var user User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found")
	}

	// Remove sensitive fields from updates
	delete(updates, "password")
	delete(updates, "is_admin")
	delete(updates, "is_active")
	delete(updates, "email_verified")

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	user.Password = ""
	return &user, nil
}

// ChangePassword changes user password after verifying current password
func (s *Service) ChangePassword(userID uint, currentPassword, newPassword string) error {
	var user User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		return fmt.Errorf("user not found")
	}

	if err := s.passwordManager.VerifyPassword(currentPassword, user.Password); err != nil {
		return fmt.Errorf("current password is incorrect")
	}

	hashedPassword, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.db.Model(&user).Update("password", hashedPassword).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves user by email
func (s *Service) GetUserByEmail(email string) (*User, error) {
	var user User
	result := s.db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found")
	}

	user.Password = ""
	return &user, nil
}

// issueTokens builds an AuthResponse for the user
func (s *Service) issueTokens(user *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, s.EffectiveIsAdmin(user))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	user.Password = ""

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}
