package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/session"
)

func TestAdminServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "admin@shop.com", "secret", session.RoleAdmin, true)

	u, err := f.admin.Create(ctx, CreateUserRequest{Name: "Bo", Surname: "Diaz", Email: "bo@shop.com", Password: "abcd"})
	require.NoError(t, err)
	assert.Equal(t, uint(2), u.ID)
	assert.Equal(t, session.RoleUser, u.Role)

	users, err := f.admin.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	updated, err := f.admin.UpdateStatus(ctx, u.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Active)
	_, err = f.svc.Authenticate(ctx, "bo@shop.com", "abcd")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.admin.UpdateStatus(ctx, u.ID, true)
	require.NoError(t, err)
	require.NoError(t, f.admin.ResetPassword(ctx, u.ID))
	_, err = f.svc.Authenticate(ctx, "bo@shop.com", "1234")
	assert.NoError(t, err)

	require.NoError(t, f.admin.Delete(ctx, u.ID))
	assert.ErrorIs(t, f.admin.Delete(ctx, u.ID), ErrUserNotFound)

	// ids keep growing from the highest one present
	next, err := f.admin.Create(ctx, CreateUserRequest{Name: "Cy", Surname: "Eve", Email: "cy@shop.com", Password: "abcd", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, uint(2), next.ID)
	assert.Equal(t, session.RoleAdmin, next.Role)
}

func TestAdminServiceValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.admin.Create(ctx, CreateUserRequest{Name: "A", Surname: "B", Email: "a@b.co", Password: "abc"})
	assert.True(t, IsValidationError(err))

	_, err = f.admin.Create(ctx, CreateUserRequest{Name: "A", Surname: "B", Email: "a@b.co", Password: "abcd", Role: "root"})
	assert.True(t, IsValidationError(err))

	_, err = f.admin.UpdateStatus(ctx, 99, true)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, f.admin.ResetPassword(ctx, 99), ErrUserNotFound)
}
