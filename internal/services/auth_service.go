// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/fragrance-catalog/internal/database"
	"github.com/javajoker/fragrance-catalog/internal/models"
	"github.com/javajoker/fragrance-catalog/internal/utils"
)

type AuthService struct {
	store  *database.Handle
	tokens *utils.TokenManager
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string             `json:"token"`
	TokenType string             `json:"token_type"`
	ExpiresIn int                `json:"expires_in"` // in seconds
	User      models.UserSummary `json:"user"`
}

func NewAuthService(store *database.Handle, tokens *utils.TokenManager) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
	}
}

func (s *AuthService) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	db, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	username := strings.TrimSpace(req.Username)

	// Check if user already exists
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	user := &models.User{
		Username: username,
		Email:    strings.TrimSpace(req.Email),
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := db.Create(user).Error; err != nil {
		// Lost a race with a concurrent signup.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logrus.WithField("user_id", user.ID).Info("User signed up")
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	db, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	var user models.User
	result := db.Where("username = ?", strings.TrimSpace(req.Username)).Limit(1).Find(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidCredentials
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(&user)
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.UserSummary, error) {
	db, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	var user models.User
	result := db.Limit(1).Find(&user, userID)
	if result.Error != nil {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	summary := user.Summary()
	return &summary, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(s.tokens.TTL().Seconds()),
		User:      user.Summary(),
	}, nil
}
