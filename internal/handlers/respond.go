package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cor_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errListSystems   = "failed to load systems"
	errLoadSystem    = "failed to load system"
	errLoadEvents    = "failed to load events"
	errLoadTimeline  = "failed to build timeline"
	errLoadReference = "failed to load reference data"
	errIngest        = "failed to store message"
	errInvalidBody   = "invalid body: "

	errStartInvalid = "invalid 'startDate'; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"
	errEndInvalid   = "invalid 'endDate'; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"
	errRefInvalid   = "invalid 'referenceTime'; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"
	errRangeInvalid = "'startDate' must be <= 'endDate'"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// serviceError maps service sentinel errors to client responses and logs
// everything else as a server failure.
func (h *Handler) serviceError(c *gin.Context, err error, userMsg, logKey string, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrSystemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidMessage),
		errors.Is(err, service.ErrInvalidTimeRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTopology):
		h.logAndJSONError(c, http.StatusUnprocessableEntity, err.Error(), logKey, err, kv...)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, userMsg, logKey, err, kv...)
	}
}

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}

// parseDateRange reads startDate/endDate. A date-only endDate covers the
// whole day. On failure it has already written the 400 response.
func parseDateRange(c *gin.Context) (from, to time.Time, ok bool) {
	var err error
	if qs := c.Query("startDate"); qs != "" {
		if from, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errStartInvalid})
			return time.Time{}, time.Time{}, false
		}
	}
	if qs := c.Query("endDate"); qs != "" {
		if to, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errEndInvalid})
			return time.Time{}, time.Time{}, false
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errRangeInvalid})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
