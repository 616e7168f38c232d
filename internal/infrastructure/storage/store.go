// Package storage implements the persistent key-value store shared by the cart
// and auth session managers. Values live in one of two scopes: durable, which
// outlives the browser session, and ephemeral, which lasts for a single tab.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Scope selects which backend a key is stored in
type Scope int

const (
	// Durable survives restarts, like localStorage
	Durable Scope = iota
	// Ephemeral survives only the current session, like sessionStorage
	Ephemeral
)

func (s Scope) String() string {
	switch s {
	case Durable:
		return "durable"
	case Ephemeral:
		return "ephemeral"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// ErrNotFound is returned by backends when a key has no value
var ErrNotFound = errors.New("storage: key not found")

// Backend is the raw string store behind a scope
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// KV is the scoped view handed to the state managers
type KV interface {
	Read(ctx context.Context, scope Scope, key string) (string, bool)
	ReadJSON(ctx context.Context, scope Scope, key string, dest interface{}) bool
	Write(ctx context.Context, scope Scope, key, value string) error
	Remove(ctx context.Context, scope Scope, key string) error
}

// Provider owns one backend per scope and hands out namespaced stores
type Provider struct {
	durable   Backend
	ephemeral Backend
	logger    logrus.FieldLogger
}

// NewProvider creates a provider over the given backends
func NewProvider(durable, ephemeral Backend, logger logrus.FieldLogger) *Provider {
	return &Provider{
		durable:   durable,
		ephemeral: ephemeral,
		logger:    logger,
	}
}

// NewMemoryProvider creates a provider with in-memory backends for both scopes
func NewMemoryProvider(logger logrus.FieldLogger) *Provider {
	return NewProvider(NewMemoryBackend(), NewMemoryBackend(), logger)
}

// Open returns the store for one browser: deviceID namespaces the durable
// scope and sessionID the ephemeral one.
func (p *Provider) Open(deviceID, sessionID string) *Store {
	return &Store{
		durable:         p.durable,
		ephemeral:       p.ephemeral,
		durablePrefix:   "device:" + deviceID + ":",
		ephemeralPrefix: "session:" + sessionID + ":",
		logger: p.logger.WithFields(logrus.Fields{
			"device_id":  deviceID,
			"session_id": sessionID,
		}),
	}
}

// Store is a namespaced KV for a single device/session pair
type Store struct {
	durable         Backend
	ephemeral       Backend
	durablePrefix   string
	ephemeralPrefix string
	logger          logrus.FieldLogger
}

var _ KV = (*Store)(nil)

func (s *Store) resolve(scope Scope, key string) (Backend, string) {
	if scope == Ephemeral {
		return s.ephemeral, s.ephemeralPrefix + key
	}
	return s.durable, s.durablePrefix + key
}

// Read returns the stored value. Backend failures are logged and reported as absent.
func (s *Store) Read(ctx context.Context, scope Scope, key string) (string, bool) {
	backend, fullKey := s.resolve(scope, key)

	value, err := backend.Get(ctx, fullKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"scope": scope.String(),
				"key":   key,
			}).Warn("storage read failed, treating value as absent")
		}
		return "", false
	}

	return value, true
}

// ReadJSON decodes the stored value into dest. A value that does not parse is
// removed from its scope and reported as absent.
func (s *Store) ReadJSON(ctx context.Context, scope Scope, key string, dest interface{}) bool {
	raw, ok := s.Read(ctx, scope, key)
	if !ok {
		return false
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"scope": scope.String(),
			"key":   key,
		}).Warn("discarding corrupt stored value")

		if err := s.Remove(ctx, scope, key); err != nil {
			s.logger.WithError(err).Warn("failed to remove corrupt stored value")
		}
		return false
	}

	return true
}

// Write stores value under key in the given scope
func (s *Store) Write(ctx context.Context, scope Scope, key, value string) error {
	backend, fullKey := s.resolve(scope, key)
	if err := backend.Set(ctx, fullKey, value); err != nil {
		return fmt.Errorf("write %s %q: %w", scope, key, err)
	}
	return nil
}

// Remove deletes key from the given scope; removing a missing key is not an error
func (s *Store) Remove(ctx context.Context, scope Scope, key string) error {
	backend, fullKey := s.resolve(scope, key)
	if err := backend.Delete(ctx, fullKey); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("remove %s %q: %w", scope, key, err)
	}
	return nil
}
