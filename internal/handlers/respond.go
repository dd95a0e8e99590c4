package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/manor5/electraSIR/internal/console"
	apierrors "github.com/manor5/electraSIR/internal/errors"
	"github.com/manor5/electraSIR/internal/middleware"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/services"
)

// SuccessResponse is the envelope of every successful JSON response.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{
		Success: true,
		Data:    data,
	})
}

func ok(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, data)
}

// bindError reports a binding failure, with field details when the
// validator produced them.
func bindError(c *gin.Context, err error, message string) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		apierrors.ValidationError(c, validationErrors)
		return
	}
	apierrors.BadRequest(c, message, nil)
}

// pathID parses a positive integer path parameter, answering 400 when it
// is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		apierrors.BadRequest(c, "Invalid "+name, map[string]interface{}{
			name: c.Param(name),
		})
		return 0, false
	}
	return id, true
}

// callerRole is the role of the session attached to the request, or the
// empty role for anonymous callers.
func callerRole(c *gin.Context) models.Role {
	if p := middleware.GetPrincipal(c); p != nil {
		return p.Role
	}
	return ""
}

// badRequestErrors are service and console errors caused by the caller's
// input. Their text is returned as is.
var badRequestErrors = []error{
	services.ErrInvalidBoothList,
	services.ErrInvalidInput,
	services.ErrCrossGroupMove,
	console.ErrBlockedKeyword,
	console.ErrEmptyStatement,
	console.ErrTableRequired,
	console.ErrUnknownKind,
	console.ErrInvalidIdentifier,
	console.ErrNoValues,
	console.ErrWhereRequired,
	console.ErrFilePathRequired,
	console.ErrNoDataRows,
}

// serviceError maps a service error onto the error envelope. Unrecognized
// errors become a 500 carrying message.
func serviceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrRecordNotFound):
		apierrors.NotFound(c, "Record not found")
		return
	case errors.Is(err, services.ErrSavedQueryNotFound):
		apierrors.NotFound(c, "Saved query not found")
		return
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, "Invalid username or password")
		return
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
	}

	var execErr *services.ExecutionError
	if errors.As(err, &execErr) {
		apierrors.BadRequest(c, execErr.Error(), map[string]interface{}{
			"source": "database",
		})
		return
	}

	apierrors.InternalServerError(c, message, err)
}
