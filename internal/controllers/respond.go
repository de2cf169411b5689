package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/confreview/backend/internal/logger"
	"github.com/confreview/backend/internal/mailer"
	"github.com/confreview/backend/internal/services"
	"github.com/confreview/backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError maps service errors onto HTTP statuses. Unclassified errors
// are logged and reported as 500 without leaking their text.
func respondError(c *gin.Context, component string, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidFileType):
		status = http.StatusBadRequest
		message = "Invalid file type"
	case errors.Is(err, storage.ErrFileTooLarge):
		status = http.StatusBadRequest
		message = "File too large"
	}

	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}
	if status == http.StatusInternalServerError {
		logger.WithError(err, component).WithField("path", c.Request.URL.Path).Error("Request failed")
	}

	c.JSON(status, gin.H{"ok": false, "message": message})
}

// bindingMessage picks the client message for a failed bind. messages is keyed
// by "Field.tag" of the first failing rule; anything else gets fallback.
func bindingMessage(err error, fallback string, messages map[string]string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fallback
	}
	for _, fe := range verrs {
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			return msg
		}
	}
	return fallback
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": message})
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// optionalID parses an optional numeric query or form value. Empty means nil.
func optionalID(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, errors.New("invalid id")
	}
	v := uint(id)
	return &v, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// parseDate accepts RFC 3339, datetime-local and plain date input.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func xlsx(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(filename, `"`, "")+`"`)
	c.Data(http.StatusOK, mailer.XLSXContentType, data)
}
