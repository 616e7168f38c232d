package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/infrastructure/storage"
)

const (
	DeviceCookie  = "device_id"
	SessionCookie = "session_id"

	browserKey = "browser"
)

// CookieOptions controls the identity cookies
type CookieOptions struct {
	DeviceTTL time.Duration
	Secure    bool
}

// Browser is the per-request view of one browser's persisted state. The
// store and managers are built on first use, so requests that never touch the
// cart or the login do not hit storage.
type Browser struct {
	c        *gin.Context
	provider *storage.Provider
	cookies  CookieOptions
	logger   logrus.FieldLogger

	store *storage.Store
	cart  *cart.Manager
	auth  *session.Manager
}

// Session attaches a Browser to every request
func Session(provider *storage.Provider, cookies CookieOptions, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(browserKey, &Browser{
			c:        c,
			provider: provider,
			cookies:  cookies,
			logger:   logger,
		})
		c.Next()
	}
}

// GetBrowser returns the Browser attached by Session, or nil
func GetBrowser(c *gin.Context) *Browser {
	value, exists := c.Get(browserKey)
	if !exists {
		return nil
	}
	b, _ := value.(*Browser)
	return b
}

// Store opens the namespaced store, issuing identity cookies when missing
func (b *Browser) Store() *storage.Store {
	if b.store == nil {
		deviceID := b.ensureCookie(DeviceCookie, int(b.cookies.DeviceTTL/time.Second))
		sessionID := b.ensureCookie(SessionCookie, 0)
		b.store = b.provider.Open(deviceID, sessionID)
	}
	return b.store
}

// Cart returns the cart restored from storage
func (b *Browser) Cart() *cart.Manager {
	if b.cart == nil {
		b.cart = cart.NewManager(b.c.Request.Context(), b.Store(), b.entry())
	}
	return b.cart
}

// Auth returns the login session restored from storage
func (b *Browser) Auth() *session.Manager {
	if b.auth == nil {
		b.auth = session.NewManager(b.c.Request.Context(), b.Store(), b.entry())
	}
	return b.auth
}

func (b *Browser) entry() logrus.FieldLogger {
	return b.logger.WithField(RequestIDKey, b.c.GetString(RequestIDKey))
}

// ensureCookie returns the id in cookie name, minting a new one if it is
// missing or malformed. maxAge 0 makes a browser session cookie.
func (b *Browser) ensureCookie(name string, maxAge int) string {
	if value, err := b.c.Cookie(name); err == nil {
		if _, err := uuid.Parse(value); err == nil {
			return value
		}
	}

	id := uuid.New().String()
	b.c.SetSameSite(http.SameSiteLaxMode)
	b.c.SetCookie(name, id, maxAge, "/", "", b.cookies.Secure, true)
	return id
}
