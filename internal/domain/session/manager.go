package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/infrastructure/storage"
)

// StorageKey is the key the identity is stored under, in exactly one scope
const StorageKey = "auth"

// Manager owns the current identity of one browser session. A remembered
// identity is kept in durable storage, any other in ephemeral storage.
type Manager struct {
	mu       sync.RWMutex
	identity *Identity
	store    storage.KV
	logger   logrus.FieldLogger
}

// NewManager restores the identity from storage before returning, so callers
// never observe a transient logged-out state. Durable storage is consulted
// first and wins when both scopes hold a value.
func NewManager(ctx context.Context, store storage.KV, logger logrus.FieldLogger) *Manager {
	m := &Manager{
		store:  store,
		logger: logger.WithField("component", "session"),
	}

	for _, scope := range []storage.Scope{storage.Durable, storage.Ephemeral} {
		var saved Identity
		if !store.ReadJSON(ctx, scope, StorageKey, &saved) {
			continue
		}
		if !saved.Valid() {
			m.logger.WithField("scope", scope.String()).Warn("discarding stored identity without a user")
			if err := store.Remove(ctx, scope, StorageKey); err != nil {
				m.logger.WithError(err).WithField("scope", scope.String()).Warn("failed to clear stored identity")
			}
			continue
		}
		m.identity = &saved
		break
	}

	return m
}

// Login makes identity current. With remember set it is written to durable
// storage and cleared from ephemeral storage; otherwise the reverse.
func (m *Manager) Login(ctx context.Context, identity Identity, remember bool) {
	identity.Remember = remember
	if identity.Role == "" {
		identity.Role = RoleUser
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.identity = &identity

	target, other := storage.Ephemeral, storage.Durable
	if remember {
		target, other = storage.Durable, storage.Ephemeral
	}

	data, err := json.Marshal(identity)
	if err != nil {
		m.logger.WithError(err).Error("failed to encode identity")
		return
	}

	if err := m.store.Write(ctx, target, StorageKey, string(data)); err != nil {
		m.logger.WithError(err).Warn("failed to persist identity, keeping in-memory session")
	}
	if err := m.store.Remove(ctx, other, StorageKey); err != nil {
		m.logger.WithError(err).Warn("failed to clear identity from other scope")
	}

	m.logger.WithFields(logrus.Fields{
		"user_id":  identity.UserID,
		"role":     identity.Role,
		"remember": remember,
	}).Info("session started")
}

// Logout clears the identity from memory and from both scopes
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.identity = nil
	for _, scope := range []storage.Scope{storage.Durable, storage.Ephemeral} {
		if err := m.store.Remove(ctx, scope, StorageKey); err != nil {
			m.logger.WithError(err).WithField("scope", scope.String()).Warn("failed to clear stored identity")
		}
	}
}

// CurrentIdentity returns a copy of the current identity
func (m *Manager) CurrentIdentity() (Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.identity == nil {
		return Identity{}, false
	}
	return *m.identity, true
}

// IsAuthenticated reports whether an identity is current
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.CurrentIdentity()
	return ok
}

// IsAdmin reports whether the current identity is an admin
func (m *Manager) IsAdmin() bool {
	identity, ok := m.CurrentIdentity()
	return ok && identity.IsAdmin()
}

// Allows evaluates req against the current state. It is meant to be called on
// every protected access; the result is never cached.
func (m *Manager) Allows(req Requirement) bool {
	switch req {
	case Admin:
		return m.IsAdmin()
	default:
		return m.IsAuthenticated()
	}
}
