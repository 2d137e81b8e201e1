package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sublingo/sublingo/internal/config"
	"github.com/sublingo/sublingo/internal/logging"
	"github.com/sublingo/sublingo/internal/middleware"
	"github.com/sublingo/sublingo/pkg/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired reset token")
)

// UserStore is the persistence the service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
	CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error
	GetResetToken(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error)
	MarkResetTokenUsed(ctx context.Context, tokenID string) error
}

// Mailer delivers password reset mail. Failures are logged, not surfaced,
// so the forgot-password endpoint never discloses whether a mailbox exists.
type Mailer interface {
	SendPasswordReset(email, resetURL string) error
}

// Service implements the account operations.
type Service struct {
	store  UserStore
	mailer Mailer
	logger *logging.Logger
	cfg    config.AuthConfig
}

// NewService creates an auth service.
func NewService(store UserStore, mailer Mailer, logger *logging.Logger, cfg config.AuthConfig) *Service {
	return &Service{
		store:  store,
		mailer: mailer,
		logger: logger,
		cfg:    cfg,
	}
}

// Register creates a new active account.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if existing, _ := s.store.GetUserByEmail(ctx, email); existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithField("email", email).Info("User registered")
	return user, nil
}

// Login verifies credentials and returns a signed JWT.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil || user == nil || !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}

	if !CheckPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, s.cfg.TokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}

// ChangePassword replaces the password of an authenticated user after
// verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return ErrInvalidCredentials
	}

	if !CheckPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.store.UpdateUserPassword(ctx, user.ID, hash)
}

// ForgotPassword issues a single-use reset token and mails a reset link.
// It returns nil for unknown addresses so callers cannot probe for
// registered accounts.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil || user == nil {
		return nil
	}

	token := newResetToken()
	record := &models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: HashToken(token),
		ExpiresAt: time.Now().Add(s.cfg.ResetTokenTTL),
	}
	if err := s.store.CreateResetToken(ctx, record); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.FrontendURL, token)
	if err := s.mailer.SendPasswordReset(user.Email, resetURL); err != nil {
		s.logger.WithError(err).WithField("email", email).Error("Failed to send reset mail")
	}

	return nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	record, err := s.store.GetResetToken(ctx, HashToken(token))
	if err != nil || record == nil {
		return ErrInvalidToken
	}

	if record.Used || time.Now().After(record.ExpiresAt) {
		return ErrInvalidToken
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.store.UpdateUserPassword(ctx, record.UserID, hash); err != nil {
		return err
	}

	return s.store.MarkResetTokenUsed(ctx, record.ID)
}

// newResetToken returns an unguessable opaque token.
func newResetToken() string {
	return strings.ReplaceAll(uuid.New().String()+uuid.New().String(), "-", "")
}
