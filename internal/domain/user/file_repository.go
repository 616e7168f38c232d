package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/your-org/storefront/internal/domain/session"
)

// fileRecord is the on-disk shape of a user; unlike User it keeps the hash
type fileRecord struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	Surname   string       `json:"surname"`
	Email     string       `json:"email"`
	Password  string       `json:"password"`
	Role      session.Role `json:"role"`
	Active    bool         `json:"active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// FileRepository keeps users in a JSON array on disk. Every operation reads
// the file, so edits made by hand are picked up without a restart.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileRepository creates a repository over path; a missing file is an empty directory
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) load() ([]fileRecord, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []fileRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var records []fileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}
	return records, nil
}

func (r *FileRepository) save(records []fileRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create users directory: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	return os.Rename(tmp, r.path)
}

// List returns every user
func (r *FileRepository) List(_ context.Context) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	users := make([]User, len(records))
	for i, rec := range records {
		users[i] = rec.toUser()
	}
	return users, nil
}

// FindByID returns the user with id
func (r *FileRepository) FindByID(_ context.Context, id uint) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			u := rec.toUser()
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// FindByEmail returns the user with email, compared case-insensitively
func (r *FileRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	for _, rec := range records {
		if NormalizeEmail(rec.Email) == email {
			u := rec.toUser()
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// Create appends u with the next free id
func (r *FileRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	u.Email = NormalizeEmail(u.Email)
	var maxID uint
	for _, rec := range records {
		if NormalizeEmail(rec.Email) == u.Email {
			return ErrEmailTaken
		}
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}

	now := time.Now().UTC()
	u.ID = maxID + 1
	u.CreatedAt = now
	u.UpdatedAt = now

	return r.save(append(records, fromUser(u)))
}

// Update replaces the stored user with the same id
func (r *FileRepository) Update(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].ID == u.ID {
			u.Email = NormalizeEmail(u.Email)
			u.CreatedAt = records[i].CreatedAt
			u.UpdatedAt = time.Now().UTC()
			records[i] = fromUser(u)
			return r.save(records)
		}
	}
	return ErrUserNotFound
}

// Delete removes the user with id
func (r *FileRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].ID == id {
			return r.save(append(records[:i], records[i+1:]...))
		}
	}
	return ErrUserNotFound
}

func (rec fileRecord) toUser() User {
	return User{
		ID:        rec.ID,
		Name:      rec.Name,
		Surname:   rec.Surname,
		Email:     rec.Email,
		Password:  rec.Password,
		Role:      rec.Role,
		Active:    rec.Active,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func fromUser(u *User) fileRecord {
	return fileRecord{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		Email:     u.Email,
		Password:  u.Password,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
