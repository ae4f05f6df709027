// internal/middleware/session_gate.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/config"
)

// gateSkipPrefixes are never gated: the catalog rewrite, static assets, the
// JSON API (which answers 401 itself) and the health check.
var gateSkipPrefixes = []string{"/api", "/static", "/favicon.ico", "/v1", "/health"}

// GateDecision returns where a page request must be redirected, or "" to let
// it through. Only the presence of the session cookie is considered.
func GateDecision(path string, hasCookie bool, cfg config.SessionConfig) string {
	public := false
	for _, p := range cfg.PublicPaths {
		if path == p {
			public = true
			break
		}
	}

	switch {
	case hasCookie && public:
		return homePath(cfg)
	case !hasCookie && !public:
		return loginPath(cfg)
	}
	return ""
}

func gateApplies(path string) bool {
	for _, prefix := range gateSkipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// SessionGate redirects page navigations between the login page and the
// dashboard depending on whether the session cookie is present.
func SessionGate(cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !gateApplies(path) {
			c.Next()
			return
		}

		cookie, err := c.Cookie(cfg.CookieName)
		hasCookie := err == nil && cookie != ""

		if target := GateDecision(path, hasCookie, cfg); target != "" {
			logrus.WithFields(logrus.Fields{
				"path":   path,
				"target": target,
			}).Debug("Session gate redirect")
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

func loginPath(cfg config.SessionConfig) string {
	if cfg.LoginPath == "" {
		return "/login"
	}
	return cfg.LoginPath
}

func homePath(cfg config.SessionConfig) string {
	if cfg.HomePath == "" {
		return "/"
	}
	return cfg.HomePath
}
