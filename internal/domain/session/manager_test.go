package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/pkg/logger"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type browser struct {
	durable   *storage.MemoryBackend
	ephemeral *storage.MemoryBackend
	provider  *storage.Provider
}

func newBrowser() *browser {
	b := &browser{
		durable:   storage.NewMemoryBackend(),
		ephemeral: storage.NewMemoryBackend(),
	}
	b.provider = storage.NewProvider(b.durable, b.ephemeral, logger.Discard())
	return b
}

func (b *browser) store() *storage.Store {
	return b.provider.Open("device", "tab")
}

func (b *browser) reload() *Manager {
	return NewManager(context.Background(), b.store(), logger.Discard())
}

var alice = Identity{UserID: 1, Email: "alice@example.com", Name: "Alice", Role: RoleAdmin}

func TestLoginRememberedSurvivesReload(t *testing.T) {
	ctx := context.Background()
	b := newBrowser()

	m := b.reload()
	m.Login(ctx, alice, true)

	_, ok := b.store().Read(ctx, storage.Ephemeral, StorageKey)
	assert.False(t, ok)
	_, ok = b.store().Read(ctx, storage.Durable, StorageKey)
	assert.True(t, ok)

	// a new tab: ephemeral storage starts empty
	b.ephemeral.Clear()
	restored := b.reload()
	identity, ok := restored.CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, alice.Email, identity.Email)
	assert.True(t, identity.Remember)
	assert.True(t, restored.IsAdmin())
}

func TestLoginNotRememberedIsSessionScoped(t *testing.T) {
	ctx := context.Background()
	b := newBrowser()

	b.reload().Login(ctx, alice, false)

	_, ok := b.store().Read(ctx, storage.Durable, StorageKey)
	assert.False(t, ok)

	// reload within the same session
	restored := b.reload()
	identity, ok := restored.CurrentIdentity()
	require.True(t, ok)
	assert.False(t, identity.Remember)

	// the browser is closed: only durable storage remains
	b.ephemeral.Clear()
	assert.False(t, b.reload().IsAuthenticated())
}

func TestLoginSwitchesScope(t *testing.T) {
	ctx := context.Background()
	b := newBrowser()
	m := b.reload()

	m.Login(ctx, alice, true)
	m.Login(ctx, alice, false)

	_, inDurable := b.store().Read(ctx, storage.Durable, StorageKey)
	_, inEphemeral := b.store().Read(ctx, storage.Ephemeral, StorageKey)
	assert.False(t, inDurable)
	assert.True(t, inEphemeral)
}

func TestLogoutClearsBothScopes(t *testing.T) {
	ctx := context.Background()
	b := newBrowser()
	m := b.reload()
	m.Login(ctx, alice, true)

	// plant a stray ephemeral copy as well
	require.NoError(t, b.store().Write(ctx, storage.Ephemeral, StorageKey, `{"id":9,"email":"x@example.com","role":"user"}`))

	m.Logout(ctx)
	assert.False(t, m.IsAuthenticated())
	assert.False(t, m.Allows(Authenticated))

	restored := b.reload()
	_, ok := restored.CurrentIdentity()
	assert.False(t, ok)
	assert.Equal(t, 0, b.durable.Len())
	assert.Equal(t, 0, b.ephemeral.Len())
}

func TestDurableTakesPrecedence(t *testing.T) {
	ctx := context.Background()
	b := newBrowser()
	s := b.store()
	require.NoError(t, s.Write(ctx, storage.Durable, StorageKey, `{"id":1,"email":"durable@example.com","role":"user"}`))
	require.NoError(t, s.Write(ctx, storage.Ephemeral, StorageKey, `{"id":2,"email":"ephemeral@example.com","role":"admin"}`))

	identity, ok := b.reload().CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, "durable@example.com", identity.Email)
}

func TestCorruptValueIsRemoved(t *testing.T) {
	ctx := context.Background()
	b := newBrowser()
	s := b.store()
	require.NoError(t, s.Write(ctx, storage.Durable, StorageKey, `{"id":`))
	require.NoError(t, s.Write(ctx, storage.Ephemeral, StorageKey, `{"id":3,"email":"tab@example.com","role":"user"}`))

	m := b.reload()
	identity, ok := m.CurrentIdentity()
	require.True(t, ok, "ephemeral value should be used when durable is corrupt")
	assert.Equal(t, "tab@example.com", identity.Email)

	_, ok = s.Read(ctx, storage.Durable, StorageKey)
	assert.False(t, ok)
}

func TestIdentityWithoutUserIsDiscarded(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"null", `null`},
		{"empty object", `{}`},
		{"missing id", `{"email":"ghost@example.com","role":"user"}`},
		{"missing email", `{"id":4,"role":"user"}`},
		{"unknown role", `{"id":4,"email":"root@example.com","role":"root"}`},
		{"no role", `{"id":4,"email":"norole@example.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			b := newBrowser()
			s := b.store()
			require.NoError(t, s.Write(ctx, storage.Durable, StorageKey, tt.stored))

			m := b.reload()
			assert.False(t, m.IsAuthenticated())
			assert.False(t, m.Allows(Authenticated))
			_, ok := s.Read(ctx, storage.Durable, StorageKey)
			assert.False(t, ok, "invalid identity should be removed")
		})
	}

	t.Run("falls through to the ephemeral scope", func(t *testing.T) {
		ctx := context.Background()
		b := newBrowser()
		s := b.store()
		require.NoError(t, s.Write(ctx, storage.Durable, StorageKey, `{}`))
		require.NoError(t, s.Write(ctx, storage.Ephemeral, StorageKey, `{"id":3,"email":"tab@example.com","role":"admin"}`))

		m := b.reload()
		identity, ok := m.CurrentIdentity()
		require.True(t, ok)
		assert.Equal(t, "tab@example.com", identity.Email)
		assert.True(t, m.IsAdmin())
	})
}

func TestConcurrentLoginAndRead(t *testing.T) {
	ctx := context.Background()
	m := newBrowser().reload()

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(2)
		go func(id uint) {
			defer wg.Done()
			m.Login(ctx, Identity{UserID: id, Email: fmt.Sprintf("user%d@example.com", id), Role: RoleUser}, id%2 == 0)
		}(uint(i))
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if identity, ok := m.CurrentIdentity(); ok {
					assert.NotZero(t, identity.UserID)
					assert.Equal(t, RoleUser, identity.Role)
				}
				m.Allows(Admin)
			}
		}()
	}
	wg.Wait()

	identity, ok := m.CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf("user%d@example.com", identity.UserID), identity.Email)
}

func TestAllows(t *testing.T) {
	ctx := context.Background()
	m := newBrowser().reload()

	assert.False(t, m.Allows(Authenticated))
	assert.False(t, m.Allows(Admin))

	m.Login(ctx, Identity{UserID: 2, Email: "bob@example.com"}, false)
	assert.True(t, m.Allows(Authenticated))
	assert.False(t, m.Allows(Admin))

	identity, _ := m.CurrentIdentity()
	assert.Equal(t, RoleUser, identity.Role)

	m.Login(ctx, alice, false)
	assert.True(t, m.Allows(Admin))

	m.Logout(ctx)
	assert.False(t, m.Allows(Admin))
}
