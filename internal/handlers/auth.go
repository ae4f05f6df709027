// internal/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/commodity-admin/internal/config"
	"github.com/javajoker/commodity-admin/internal/i18n"
	"github.com/javajoker/commodity-admin/internal/middleware"
	"github.com/javajoker/commodity-admin/internal/services"
	"github.com/javajoker/commodity-admin/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         config.SessionConfig
}

func NewAuthHandler(authService *services.AuthService, cfg config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// POST /v1/auth/login
// Accepts JSON, or a form post from the login page (answered with a redirect).
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	formPost := c.ContentType() == "application/x-www-form-urlencoded"

	var req services.LoginRequest
	if formPost {
		if err := c.ShouldBind(&req); err != nil {
			h.redirectToLogin(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"))
			return
		}
	} else if !bindAndValidate(c, &req) {
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if formPost {
			h.redirectToLogin(c, translatedLoginError(c, err))
			return
		}
		if validationErrors := utils.GetValidationErrors(err); len(validationErrors) > 0 {
			utils.ValidationErrorResponse(c, validationErrors)
			return
		}
		respondError(c, err, nil)
		return
	}

	h.setSessionCookie(c, authResponse.Cookie, authResponse.ExpiresIn)

	if formPost {
		c.Redirect(http.StatusFound, homePath(h.cfg))
		return
	}
	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"email":      authResponse.Email,
		"expires_in": authResponse.ExpiresIn,
		"redirect":   homePath(h.cfg),
	})
}

// POST /v1/auth/logout
// The dashboard's sign-out form gets a redirect instead of JSON.
func (h *AuthHandler) Logout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	err := h.authService.Logout(c.Request.Context(), middleware.SessionCookieFromContext(c), middleware.UpstreamTokenFromContext(c))
	// The local session ends whatever the catalog answered.
	h.setSessionCookie(c, "", -1)

	if c.ContentType() == "application/x-www-form-urlencoded" {
		c.Redirect(http.StatusFound, loginPathOf(h.cfg))
		return
	}
	if err != nil {
		respondError(c, err, nil)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyAuthLogoutSuccess),
		"redirect": loginPathOf(h.cfg),
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, value, maxAge, "/", "", h.cfg.Secure, true)
}

func (h *AuthHandler) redirectToLogin(c *gin.Context, message string) {
	c.Redirect(http.StatusFound, loginPathOf(h.cfg)+"?error="+url.QueryEscape(message))
}

func translatedLoginError(c *gin.Context, err error) string {
	lang := utils.GetLangFromContext(c)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return i18n.T(lang, i18n.KeyAuthInvalidCredentials)
	}
	return i18n.T(lang, i18n.KeyGenericError)
}

func homePath(cfg config.SessionConfig) string {
	if cfg.HomePath == "" {
		return "/"
	}
	return cfg.HomePath
}

func loginPathOf(cfg config.SessionConfig) string {
	if cfg.LoginPath == "" {
		return "/login"
	}
	return cfg.LoginPath
}
