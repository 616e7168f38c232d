package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
)

// SPAHandler serves the built single page application
type SPAHandler struct {
	staticDir   string
	loginPath   string
	publicPages map[string]bool
	logger      logrus.FieldLogger
}

// NewSPAHandler serves files from staticDir. Pages below loginPath need an
// admin session, except the login page itself and publicPages.
func NewSPAHandler(staticDir, loginPath string, publicPages []string, logger logrus.FieldLogger) *SPAHandler {
	public := map[string]bool{loginPath: true}
	for _, p := range publicPages {
		public[p] = true
	}

	return &SPAHandler{
		staticDir:   staticDir,
		loginPath:   loginPath,
		publicPages: public,
		logger:      logger,
	}
}

// Serve returns a static file when one exists and index.html otherwise
func (h *SPAHandler) Serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	urlPath := path.Clean("/" + c.Request.URL.Path)
	if strings.HasPrefix(urlPath, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	if urlPath != "/" {
		file := filepath.Join(h.staticDir, filepath.FromSlash(urlPath))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
	}

	if h.isProtected(urlPath) && !middleware.Allows(c, session.Admin) {
		c.Redirect(http.StatusFound, h.loginPath)
		return
	}

	// read on every request so a rebuilt bundle is served without a restart
	index, err := os.ReadFile(filepath.Join(h.staticDir, "index.html"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to read index.html")
		c.String(http.StatusInternalServerError, "Error loading application")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", index)
}

func (h *SPAHandler) isProtected(urlPath string) bool {
	if h.publicPages[urlPath] {
		return false
	}
	return urlPath == h.loginPath || strings.HasPrefix(urlPath, h.loginPath+"/")
}
