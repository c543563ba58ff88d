package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apaltseff-maker/igla-app-sub000/src/apperrors"
)

// respondError maps the error taxonomy onto HTTP statuses: not-found (and
// cross-tenant, reported identically) to 404, conservation conflicts to 409,
// everything else user-facing to 400 and store failures to 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrNotFound.Error()})
	case apperrors.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// parseDate accepts RFC3339 or plain dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseDateOrNow is for optional timestamps that default to the current time.
func parseDateOrNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return parseDate(s)
}
