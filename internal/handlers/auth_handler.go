package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/manor5/electraSIR/internal/config"
	apierrors "github.com/manor5/electraSIR/internal/errors"
	"github.com/manor5/electraSIR/internal/middleware"
	"github.com/manor5/electraSIR/internal/services"
)

// AuthHandler handles sign-in and sign-out.
type AuthHandler struct {
	service services.AuthService
	cookie  config.SessionConfig
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(service services.AuthService, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookie:  cookie,
	}
}

// LoginRequest is the body of the login endpoint.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=200"`
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, value, maxAge, "/", "", h.cookie.Secure, true)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "Invalid login request")
		return
	}

	session, principal, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		serviceError(c, err, "Failed to sign in")
		return
	}

	h.setCookie(c, session.ID.String(), int(time.Until(session.ExpiresAt).Seconds()))
	ok(c, principal)
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(h.cookie.CookieName); err == nil && sessionID != "" {
		if err := h.service.Logout(c.Request.Context(), sessionID); err != nil {
			apierrors.InternalServerError(c, "Failed to sign out", err)
			return
		}
	}

	h.setCookie(c, "", -1)
	ok(c, gin.H{"loggedOut": true})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		apierrors.Unauthorized(c, "Login required")
		return
	}
	ok(c, principal)
}
