// internal/domain/user/service.go
package user

import (
	"fmt"
	"time"

	"github.com/your-org/foodorder-backend/internal/config"
	"github.com/your-org/foodorder-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Name            string `json:"name" binding:"required"`
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
	// Validate password confirmation
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match")
	}

	// Check if user already exists
	var existingUser User
	result := s.db.Where("email = ?", req.Email).First(&existingUser)
	if result.Error == nil {
		return nil, fmt.Errorf("user with this email already exists")
	}

	// Hash password
	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Create new user
	u := User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		IsActive: true,
		IsAdmin:  false,
	}

	if err := s.db.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(&u)
}

// Login authenticates a user
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	// Find user by email
	var u User
	result := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&u)
	if result.Error != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	// Verify password
	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	return s.issueTokens(&u)
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}

	var u User
	result := s.db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&u)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found or inactive")
	}

	return s.issueTokens(&u)
}

// GetProfile retrieves a user by id
func (s *Service) GetProfile(userID uint) (*User, error) {
	var u User
	if err := s.db.Where("id = ?", userID).First(&u).Error; err != nil {
		return nil, fmt.Errorf("user not found")
	}
	u.Password = ""
	return &u, nil
}

// issueTokens generates a token pair and records the login
func (s *Service) issueTokens(u *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Update last login
	now := time.Now().UTC()
	u.LastLoginAt = &now
	s.db.Save(u)

	// Clear password from response
	u.Password = ""

	return &AuthResponse{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}
