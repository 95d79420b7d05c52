package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body. Business errors carry their message;
// anything else is logged and replaced by failMsg.
func respondError(c *gin.Context, logger *slog.Logger, err error, failMsg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(failMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": failMsg})
		return
	}
	logger.Warn(failMsg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}
