package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/middleware"
	"spendtrack/internal/pagination"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondWithError writes a consistent JSON error response.
func respondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}

// bindError wraps a binding failure as INVALID_INPUT.
func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// respondPage slices items by the page and page_size query parameters and
// writes the page with status 200.
func respondPage[T any](c *gin.Context, items []T) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	c.JSON(http.StatusOK, pagination.Slice(items, page))
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

// parseFlexibleTime accepts RFC 3339 timestamps, zone-less timestamps (read
// as UTC) and plain dates. It reports whether the input was a plain date.
func parseFlexibleTime(s string) (time.Time, bool, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), layout == time.DateOnly, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
}

// parseDateRange reads the required from and to query parameters. A plain
// date in to covers the whole day.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	rawFrom, rawTo := c.Query("from"), c.Query("to")
	if rawFrom == "" || rawTo == "" {
		return time.Time{}, time.Time{}, apperrors.InvalidArgument("from/to", "are required")
	}

	from, _, err := parseFlexibleTime(rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidArgument("from", err.Error())
	}
	to, dateOnly, err := parseFlexibleTime(rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidArgument("to", err.Error())
	}
	if dateOnly {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}
