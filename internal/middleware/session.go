package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/services"
)

// PrincipalKey is the context key for the authenticated caller.
const PrincipalKey = "principal"

// SessionResolver turns a session cookie value into the caller it belongs to.
// Unknown or expired sessions are reported as services.ErrSessionInvalid.
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (*models.Principal, error)
}

// Session resolves the session cookie, when present, into a Principal stored
// in the context. Requests without a valid session continue anonymously and
// RequireRole decides whether that is acceptable. When the session store
// cannot be read the request is answered with 503.
func Session(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			c.Next()
			return
		}

		principal, err := resolver.ResolveSession(c.Request.Context(), sessionID)
		if errors.Is(err, services.ErrSessionInvalid) {
			if log := GetLogger(c); log != nil {
				log.Debug("Session not resolved", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
			}
			c.Next()
			return
		}
		if err != nil {
			if log := GetLogger(c); log != nil {
				log.Warn("Session lookup failed", map[string]interface{}{
					"error": err.Error(),
					"path":  c.Request.URL.Path,
				})
			}
			writeError(c, http.StatusServiceUnavailable, "DATABASE_CONNECTION_ERROR", "Session store is not reachable")
			return
		}

		c.Set(PrincipalKey, principal)
		if log := GetLogger(c); log != nil {
			c.Set(LoggerKey, log.WithUser(principal.Username, string(principal.Role)))
		}

		c.Next()
	}
}

// RequireRole aborts with 401 when no session is attached and with 403 when
// the caller's role is below required.
func RequireRole(required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Login required")
			return
		}
		if !principal.Role.Allows(required) {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "The "+string(required)+" role is required")
			return
		}
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated caller from the Gin context.
// Returns nil if the request is anonymous.
func GetPrincipal(c *gin.Context) *models.Principal {
	if v, exists := c.Get(PrincipalKey); exists {
		if p, ok := v.(*models.Principal); ok {
			return p
		}
	}
	return nil
}

// abortWithError logs a denied request and writes the error envelope.
func abortWithError(c *gin.Context, status int, code, message string) {
	if log := GetLogger(c); log != nil {
		log.Warn("Access denied", map[string]interface{}{
			"status": status,
			"path":   c.Request.URL.Path,
		})
	}
	writeError(c, status, code, message)
}

// writeError aborts with the standard error envelope. The errors package
// depends on this one, so the envelope is built inline here.
func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":       code,
			"message":    message,
			"request_id": GetRequestID(c),
		},
	})
}
