// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/pkg/auth"
)

// RecoveryMessage is returned for every recovery request that is not rejected,
// so callers cannot probe which emails are registered.
const RecoveryMessage = "If the email exists, you'll receive a recovery link"

// Mailer delivers account emails
type Mailer interface {
	SendPasswordReset(to, userName, token string) error
	SendWelcome(to, userName string) error
}

// Service handles self-service account operations
type Service struct {
	repo      Repository
	passwords *auth.PasswordManager
	tokens    *auth.JWTManager
	mailer    Mailer
	logger    logrus.FieldLogger
}

// NewService creates a new user service
func NewService(repo Repository, passwords *auth.PasswordManager, tokens *auth.JWTManager, mailer Mailer, logger logrus.FieldLogger) *Service {
	return &Service{
		repo:      repo,
		passwords: passwords,
		tokens:    tokens,
		mailer:    mailer,
		logger:    logger,
	}
}

// Authenticate checks credentials against active users and returns the identity to log in
func (s *Service) Authenticate(ctx context.Context, email, password string) (*session.Identity, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !u.Active {
		return nil, ErrInvalidCredentials
	}

	if err := s.passwords.VerifyPassword(password, u.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("User authenticated")

	return &session.Identity{
		UserID:  u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Surname: u.Surname,
		Role:    u.Role,
		Token:   token,
	}, nil
}

// Register creates an active user account
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Surname = strings.TrimSpace(req.Surname)
	req.Email = NormalizeEmail(req.Email)

	if err := validateAccount(req, req.Email, req.Password, auth.MinPasswordLength); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: hash,
		Role:     session.RoleUser,
		Active:   true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcome(u.Email, u.Name); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Warn("Failed to send welcome email")
	}

	s.logger.WithField("user_id", u.ID).Info("User registered")
	return u, nil
}

// RecoverPassword emails a recovery link to email if it belongs to an active user
func (s *Service) RecoverPassword(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)
	if !IsValidEmail(email) {
		return "", &ValidationError{Message: "Invalid email format"}
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		s.logger.Debug("Password recovery requested for unknown email")
		return RecoveryMessage, nil
	}
	if err != nil {
		return "", err
	}

	if !u.Active {
		return "", ErrUserInactive
	}

	token, err := s.tokens.GenerateRecoveryToken(u.ID, u.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue recovery token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(u.Email, u.Name, token); err != nil {
		return "", fmt.Errorf("failed to send recovery email: %w", err)
	}

	s.logger.WithField("user_id", u.ID).Info("Password recovery email sent")
	return RecoveryMessage, nil
}

// UpdatePassword sets a new password using a recovery token
func (s *Service) UpdatePassword(ctx context.Context, token, newPassword string) error {
	if err := auth.ValidatePassword(newPassword, auth.MinPasswordLength); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	claims, err := s.tokens.ValidateRecoveryToken(token)
	if err != nil {
		return ErrInvalidToken
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}

	// the token is bound to the email it was issued for
	if NormalizeEmail(claims.Email) != u.Email {
		return ErrInvalidToken
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return err
	}
	u.Password = hash

	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	s.logger.WithField("user_id", u.ID).Info("Password updated")
	return nil
}
