package user

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepositoryMissingFileIsEmpty(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "users.json"))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = repo.FindByEmail(context.Background(), "a@b.co")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFileRepositoryReadsHandEditedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"id": 7, "name": "Ana", "surname": "Lopez", "email": "Ana@Shop.com", "password": "hash", "role": "admin", "active": true}
]`), 0o600))

	repo := NewFileRepository(path)
	u, err := repo.FindByEmail(context.Background(), "ana@shop.com")
	require.NoError(t, err)
	assert.Equal(t, uint(7), u.ID)
	assert.Equal(t, "hash", u.Password)
	assert.True(t, u.IsAdmin())

	created := &User{Name: "Bo", Surname: "Diaz", Email: "bo@shop.com", Password: "h"}
	require.NoError(t, repo.Create(context.Background(), created))
	assert.Equal(t, uint(8), created.ID)

	assert.ErrorIs(t, repo.Update(context.Background(), &User{ID: 99}), ErrUserNotFound)
}

func TestFileRepositoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileRepository(path).List(context.Background())
	assert.Error(t, err)
}
