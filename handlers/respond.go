package handlers

import (
	"errors"
	"net/http"

	"velora/services/fault"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps the service fault taxonomy onto HTTP statuses. Untyped
// errors are logged and surfaced as 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	var status int
	switch fault.CodeOf(err) {
	case fault.NotFound:
		status = http.StatusNotFound
	case fault.Forbidden:
		status = http.StatusForbidden
	case fault.Conflict:
		status = http.StatusConflict
	case fault.InvalidState, fault.Validation:
		status = http.StatusBadRequest
	default:
		zap.L().Error("unhandled service error",
			zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	msg := err.Error()
	var fe *fault.Error
	if errors.As(err, &fe) {
		msg = fe.Message
	}
	c.JSON(status, gin.H{"error": msg, "code": string(fault.CodeOf(err))})
}
