// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"github.com/your-org/storefront/internal/domain/session"
	"gorm.io/gorm"
)

// User represents a storefront account
type User struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"size:100;not null" json:"name"`
	Surname   string       `gorm:"size:100;not null" json:"surname"`
	Email     string       `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password  string       `gorm:"not null;size:255" json:"-"` // bcrypt hash, never returned
	Role      session.Role `gorm:"size:20;not null;default:'user'" json:"role"`
	Active    bool         `gorm:"default:true" json:"active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeSave keeps emails normalised in the database
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// GetFullName returns the user's full name
func (u *User) GetFullName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == session.RoleAdmin
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
