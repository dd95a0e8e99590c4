package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/manor5/electraSIR/internal/logger"
)

// Recovery turns a panic in the handler chain into a 500 envelope. The
// panic is logged with its stack through the request logger, falling back
// to log when the Logger middleware has not run.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			requestLogger := GetLogger(c)
			if requestLogger == nil {
				requestLogger = log.WithRequestID(GetRequestID(c))
			}

			fields := map[string]interface{}{
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
				"stack":  string(debug.Stack()),
			}
			if principal := GetPrincipal(c); principal != nil {
				fields["user"] = principal.Username
			}
			requestLogger.Error("Panic recovered", fmt.Errorf("panic: %v", recovered), fields)

			writeError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
		}()

		c.Next()
	}
}
