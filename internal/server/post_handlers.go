// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"io"
	"time"

	"artboard/internal/models"
	"artboard/internal/store"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()

	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(posts)
}

// CreatePost handles POST /api/posts. The request is a multipart form with
// text fields name, title, desc and a file field image. Text fields are
// trimmed and truncated here; the creation timestamp is stamped from the wall
// clock.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	file, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An image file is required"))
	}
	if s.config.MaxImageBytes > 0 && file.Size > int64(s.config.MaxImageBytes) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image exceeds the maximum allowed size"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}

	post, err := s.store.CreatePost(ctx, store.CreatePostInput{
		Name:      normalizeField(c.FormValue("name"), maxNameLen),
		Title:     normalizeField(c.FormValue("title"), maxTitleLen),
		Desc:      normalizeField(c.FormValue("desc"), maxDescLen),
		Image:     content,
		MimeType:  detectMimeType(file.Header.Get("Content-Type"), content),
		CreatedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	s.publishFeedEvent(EventPostCreated, map[string]interface{}{
		"post_id":    post.ID,
		"name":       post.Name,
		"title":      post.Title,
		"created_at": post.CreatedAt,
	})

	return c.Status(fiber.StatusCreated).JSON(post)
}

// AdjustLike handles POST /api/posts/:id/like with a JSON body carrying the
// direction token ("like" or "unlike").
func (s *Server) AdjustLike(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID := c.Params("id")

	var req struct {
		Direction string `json:"direction"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	count, err := s.store.AdjustLike(ctx, postID, req.Direction)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	s.publishFeedEvent(EventPostLiked, map[string]interface{}{
		"post_id":    postID,
		"like_count": count,
	})

	return c.JSON(fiber.Map{
		"id":        postID,
		"likeCount": count,
	})
}
