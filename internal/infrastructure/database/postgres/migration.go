// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/domain/user"
	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/pkg/auth"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger logrus.FieldLogger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	models := []interface{}{
		&user.User{},
		&storage.KVEntry{},
	}

	for _, model := range models {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, active)",
		"CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)",
		"CREATE INDEX IF NOT EXISTS idx_kv_entries_updated_at ON kv_entries(updated_at DESC)",
	}

	failed := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("Failed to create index")
			failed++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"created": len(indexes) - failed,
		"failed":  failed,
	}).Info("Database indexes ensured")
	return nil
}

// SeedAccount is a user created on first start
type SeedAccount struct {
	Name     string
	Surname  string
	Email    string
	Password string
	Role     session.Role
}

// DevelopmentAccounts are seeded when the app runs in development
var DevelopmentAccounts = []SeedAccount{
	{Name: "Admin", Surname: "User", Email: "admin@example.com", Password: "admin123", Role: session.RoleAdmin},
	{Name: "Test", Surname: "User", Email: "test1@example.com", Password: "test123", Role: session.RoleUser},
}

// SeedInitialData creates accounts that do not exist yet
func (m *Migration) SeedInitialData(passwords *auth.PasswordManager, accounts []SeedAccount) error {
	repo := user.NewGormRepository(m.db)
	ctx := context.Background()

	for _, account := range accounts {
		_, err := repo.FindByEmail(ctx, account.Email)
		if err == nil {
			m.logger.WithField("email", account.Email).Debug("Seed user already exists")
			continue
		}
		if !errors.Is(err, user.ErrUserNotFound) {
			return err
		}

		hash, err := passwords.Hash(account.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		u := &user.User{
			Name:     account.Name,
			Surname:  account.Surname,
			Email:    account.Email,
			Password: hash,
			Role:     account.Role,
			Active:   true,
		}
		if err := repo.Create(ctx, u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", account.Email, err)
		}

		m.logger.WithFields(logrus.Fields{"email": account.Email, "role": account.Role}).Info("Seeded user")
	}

	return nil
}
