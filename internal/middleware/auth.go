// internal/middleware/auth.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/commodity-admin/internal/services"
	"github.com/javajoker/commodity-admin/internal/utils"
)

const (
	ContextAdminEmail    = "admin_email"
	ContextSessionCookie = "session_cookie"
	ContextUpstreamToken = "upstream_token"
	ContextWorkspace     = "workspace"
)

// AuthRequired admits JSON API requests carrying the session cookie and binds
// the admin's workspace to the context. Only presence is checked; the catalog
// rejects a stale session on the next call.
func AuthRequired(store *services.WorkspaceStore, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(cookieName)
		if err != nil || cookie == "" {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		upstream, email := services.ResolveSession(cookie)
		ws := store.Acquire(cookie, upstream, email)

		c.Set(ContextAdminEmail, email)
		c.Set(ContextSessionCookie, cookie)
		c.Set(ContextUpstreamToken, upstream)
		c.Set(ContextWorkspace, ws)
		c.Next()
	}
}

// OptionalSession resolves the session when a cookie is present but never
// rejects the request. Page handlers use it to show the admin's email.
func OptionalSession(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
			upstream, email := services.ResolveSession(cookie)
			c.Set(ContextAdminEmail, email)
			c.Set(ContextSessionCookie, cookie)
			c.Set(ContextUpstreamToken, upstream)
		}
		c.Next()
	}
}

// WorkspaceFromContext returns the workspace bound by AuthRequired.
func WorkspaceFromContext(c *gin.Context) *services.Workspace {
	if v, ok := c.Get(ContextWorkspace); ok {
		if ws, ok := v.(*services.Workspace); ok {
			return ws
		}
	}
	return nil
}

func SessionCookieFromContext(c *gin.Context) string {
	return c.GetString(ContextSessionCookie)
}

func UpstreamTokenFromContext(c *gin.Context) string {
	return c.GetString(ContextUpstreamToken)
}
