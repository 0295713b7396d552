// internal/domain/user/service.go
package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/furniture-backend/internal/config"
	"github.com/your-org/furniture-backend/internal/pkg/apperrors"
	"github.com/your-org/furniture-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles account business logic
type Service struct {
	db       *gorm.DB
	config   *config.Config
	jwt      *auth.JWTManager
	password *auth.PasswordManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:       db,
		config:   cfg,
		jwt:      auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry, cfg.App.Name),
		password: auth.NewPasswordManager(cfg.Security.BcryptCost),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// AuthResponse couples the account with its token pair
type AuthResponse struct {
	User   *User           `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// Register creates a new customer account and signs it in.
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}

	hash, err := s.password.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         RoleCustomer,
		IsActive:     true,
	}
	if err := s.db.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("an account with this email already exists", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.jwt.GenerateTokenPair(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: &u, Tokens: tokens}, nil
}

// Login authenticates credentials and issues a token pair.
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var u User
	if err := s.db.Where("email = ?", req.Email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Forbidden("invalid email or password")
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !u.IsActive {
		return nil, apperrors.Forbidden("account is deactivated")
	}
	if err := s.password.VerifyPassword(u.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Forbidden("invalid email or password")
	}

	now := time.Now()
	s.db.Model(&u).Update("last_login_at", now)
	u.LastLoginAt = &now

	tokens, err := s.jwt.GenerateTokenPair(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: &u, Tokens: tokens}, nil
}

// RefreshTokens exchanges a valid refresh token for a fresh pair.
func (s *Service) RefreshTokens(refreshToken string) (*auth.TokenPair, error) {
	tokens, err := s.jwt.RefreshAccessToken(refreshToken)
	if err != nil {
		return nil, apperrors.Forbidden("invalid refresh token")
	}
	return tokens, nil
}

// ValidateAccessToken verifies a bearer token for the HTTP middleware.
func (s *Service) ValidateAccessToken(token string) (*auth.Claims, error) {
	claims, err := s.jwt.ValidateToken(token, auth.TokenTypeAccess)
	if err != nil {
		return nil, apperrors.Forbidden("invalid or expired token")
	}
	return claims, nil
}

// GetUser retrieves a user by id.
func (s *Service) GetUser(id uint) (*User, error) {
	var u User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

// UpdateProfile updates mutable profile fields.
func (s *Service) UpdateProfile(id uint, req *UpdateProfileRequest) (*User, error) {
	u, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) > 0 {
		if err := s.db.Model(u).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return s.GetUser(id)
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(id uint, req *ChangePasswordRequest) error {
	u, err := s.GetUser(id)
	if err != nil {
		return err
	}

	if err := s.password.VerifyPassword(u.PasswordHash, req.CurrentPassword); err != nil {
		return apperrors.Forbidden("current password is incorrect")
	}
	if err := auth.ValidatePasswordStrength(req.NewPassword); err != nil {
		return apperrors.BadRequest(err.Error())
	}

	hash, err := s.password.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.db.Model(u).Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
