// Package store owns all post, comment, and like state. It exposes one
// operation contract with two interchangeable backends: a flat JSON document
// rewritten wholesale per mutation, and a relational store with
// engine-enforced referential integrity. Both guarantee per-operation
// atomicity and read-your-writes consistency.
package store

import (
	"context"

	"artboard/internal/models"
)

// Like direction tokens accepted by AdjustLike.
const (
	DirectionLike   = "like"
	DirectionUnlike = "unlike"
)

// Backend names, used for configuration and metrics labels.
const (
	BackendDocument   = "document"
	BackendRelational = "relational"
)

// Store is the persistence contract the HTTP layer talks to. All mutations
// are durable before the call returns. Inputs arrive pre-trimmed and
// pre-truncated by the caller; the store only rejects empty required fields.
type Store interface {
	// ListPosts returns every post newest-first, each with its full comment
	// collection oldest-first. Pure read.
	ListPosts(ctx context.Context) ([]*models.Post, error)

	// CreatePost durably persists a new post with a zero like count and no
	// comments, and returns the rendered post.
	CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error)

	// AdjustLike atomically increments or decrements a post's like counter
	// and returns the resulting count. The counter floors at zero; an unlike
	// at zero is a no-op. Concurrent adjustments on one post serialize so no
	// update is lost.
	AdjustLike(ctx context.Context, postID, direction string) (int, error)

	// AddComment durably appends a comment to an existing post, ordered after
	// all previously stored comments of that post, and returns it.
	AddComment(ctx context.Context, postID string, in AddCommentInput) (*models.Comment, error)

	// Ping reports whether the backend is reachable. Used by readiness probes.
	Ping(ctx context.Context) error

	// Close releases the backend's persistent handle. The store is unusable
	// afterwards.
	Close() error
}

// CreatePostInput carries everything needed to persist a new post. CreatedAt
// is milliseconds since epoch, supplied by the caller's clock.
type CreatePostInput struct {
	Name      string
	Title     string
	Desc      string
	Image     []byte
	MimeType  string
	CreatedAt int64
}

// Validate rejects inputs that must not reach storage. Length caps are the
// caller's responsibility.
func (in CreatePostInput) Validate() error {
	if in.Name == "" {
		return models.NewValidationError("Name is required")
	}
	if in.Title == "" {
		return models.NewValidationError("Title is required")
	}
	if len(in.Image) == 0 {
		return models.NewValidationError("Image is required")
	}
	return nil
}

// AddCommentInput carries the author name and text of a new comment. The
// store stamps the creation time itself.
type AddCommentInput struct {
	Name string
	Text string
}

// Validate rejects comments with empty required fields.
func (in AddCommentInput) Validate() error {
	if in.Name == "" {
		return models.NewValidationError("Name is required")
	}
	if in.Text == "" {
		return models.NewValidationError("Text is required")
	}
	return nil
}

// validateDirection rejects anything but the two accepted like tokens.
func validateDirection(direction string) error {
	if direction != DirectionLike && direction != DirectionUnlike {
		return models.NewValidationError("Direction must be \"like\" or \"unlike\"")
	}
	return nil
}

// dataURI renders the wire-facing image representation from the persisted
// MIME type and Base64 payload. Images are never stored pre-rendered.
func dataURI(mimeType, b64 string) string {
	return "data:" + mimeType + ";base64," + b64
}
