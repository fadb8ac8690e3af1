// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"artboard/internal/models"
	"artboard/internal/store"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments. Name and text are
// trimmed and truncated here; the store stamps the creation time.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID := c.Params("id")

	var req struct {
		Name string `json:"name"`
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.store.AddComment(ctx, postID, store.AddCommentInput{
		Name: normalizeField(req.Name, maxNameLen),
		Text: normalizeField(req.Text, maxTextLen),
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	s.publishFeedEvent(EventCommentCreated, map[string]interface{}{
		"post_id":    postID,
		"comment_id": comment.ID,
		"name":       comment.Name,
		"created_at": comment.CreatedAt,
	})

	return c.Status(fiber.StatusCreated).JSON(comment)
}
