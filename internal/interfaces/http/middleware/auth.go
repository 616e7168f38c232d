// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/pkg/auth"
)

const tokenIdentityKey = "token_identity"

// TokenValidator checks bearer access tokens
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*auth.Claims, error)
}

// BearerToken resolves an Authorization header into an identity for API
// clients that do not carry the session cookies. Invalid tokens are ignored.
func BearerToken(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := tokens.ValidateAccessToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		c.Set(tokenIdentityKey, session.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   session.Role(claims.Role),
			Token:  tokenString,
		})
		c.Next()
	}
}

// CurrentIdentity returns the logged in identity from the session, falling
// back to a bearer token
func CurrentIdentity(c *gin.Context) (session.Identity, bool) {
	if b := GetBrowser(c); b != nil {
		if identity, ok := b.Auth().CurrentIdentity(); ok {
			return identity, true
		}
	}

	if value, exists := c.Get(tokenIdentityKey); exists {
		if identity, ok := value.(session.Identity); ok {
			return identity, true
		}
	}
	return session.Identity{}, false
}

// Allows evaluates req against the current request's identity
func Allows(c *gin.Context, req session.Requirement) bool {
	if b := GetBrowser(c); b != nil && b.Auth().Allows(req) {
		return true
	}

	value, exists := c.Get(tokenIdentityKey)
	if !exists {
		return false
	}
	identity := value.(session.Identity)
	switch req {
	case session.Authenticated:
		return true
	case session.Admin:
		return identity.IsAdmin()
	default:
		return false
	}
}

// Require guards a route. Browser navigations are redirected to loginPath;
// API calls get 401 or 403.
func Require(req session.Requirement, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Allows(c, req) {
			c.Next()
			return
		}
		Deny(c, loginPath)
	}
}

// RequireAuthenticated allows any logged in identity
func RequireAuthenticated(loginPath string) gin.HandlerFunc {
	return Require(session.Authenticated, loginPath)
}

// RequireAdmin allows identities with the admin role
func RequireAdmin(loginPath string) gin.HandlerFunc {
	return Require(session.Admin, loginPath)
}

// Deny aborts a request that failed the gate
func Deny(c *gin.Context, loginPath string) {
	if IsBrowserNavigation(c.Request) {
		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
		return
	}

	if _, ok := CurrentIdentity(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"error": "Admin access required",
	})
}

// IsBrowserNavigation reports whether r is a page load rather than an API call
func IsBrowserNavigation(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	if mode := r.Header.Get("Sec-Fetch-Mode"); mode != "" {
		return mode == "navigate"
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
