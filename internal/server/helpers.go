// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"artboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Field length caps enforced at the HTTP boundary. The store persists whatever
// it receives; trimming and truncation happen exactly once, here.
const (
	maxNameLen  = 30
	maxTitleLen = 60
	maxDescLen  = 300
	maxTextLen  = 300
)

// normalizeField trims surrounding whitespace, then truncates to at most max
// runes.
func normalizeField(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}

// statusForError maps a store error onto the HTTP status of the response.
func statusForError(err error) int {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeValidation:
			return fiber.StatusBadRequest
		case models.CodeNotFound:
			return fiber.StatusNotFound
		case models.CodeStorage:
			return fiber.StatusServiceUnavailable
		}
	}
	return fiber.StatusInternalServerError
}

// detectMimeType returns the media type declared by the upload, falling back
// to content sniffing when the header is absent, malformed, or generic.
func detectMimeType(header string, content []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		if mediaType, _, err := mime.ParseMediaType(header); err == nil {
			return mediaType
		}
	}
	return http.DetectContentType(content)
}
