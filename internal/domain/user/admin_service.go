package user

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/pkg/auth"
)

// AdminService manages accounts from the admin panel
type AdminService struct {
	repo          Repository
	passwords     *auth.PasswordManager
	resetPassword string
	logger        logrus.FieldLogger
}

// NewAdminService creates a new admin service; resetPassword is what ResetPassword sets
func NewAdminService(repo Repository, passwords *auth.PasswordManager, resetPassword string, logger logrus.FieldLogger) *AdminService {
	return &AdminService{
		repo:          repo,
		passwords:     passwords,
		resetPassword: resetPassword,
		logger:        logger,
	}
}

// List returns every user
func (s *AdminService) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// UpdateStatus activates or deactivates a user
func (s *AdminService) UpdateStatus(ctx context.Context, id uint, active bool) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Active = active
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": id, "active": active}).Info("User status updated")
	return u, nil
}

// ResetPassword sets the user's password to the configured default
func (s *AdminService) ResetPassword(ctx context.Context, id uint) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hash, err := s.passwords.Hash(s.resetPassword)
	if err != nil {
		return err
	}
	u.Password = hash

	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	s.logger.WithField("user_id", id).Info("User password reset")
	return nil
}

// Create adds an active account; the role defaults to user
func (s *AdminService) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Surname = strings.TrimSpace(req.Surname)
	req.Email = NormalizeEmail(req.Email)

	if err := validateAccount(req, req.Email, req.Password, auth.MinAdminPasswordLength); err != nil {
		return nil, err
	}

	role := session.Role(req.Role)
	switch role {
	case "":
		role = session.RoleUser
	case session.RoleUser, session.RoleAdmin:
	default:
		return nil, &ValidationError{Message: "Invalid role"}
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
		Role:     role,
		Active:   true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": u.ID, "role": role}).Info("User created")
	return u, nil
}

// Delete removes a user
func (s *AdminService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("user_id", id).Info("User deleted")
	return nil
}
