package store

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"artboard/internal/models"
	"artboard/internal/observability"
)

// Instrumented decorates a Store with per-operation Prometheus counters,
// latency observations, and trace spans, labeled by backend. It changes no
// behavior.
type Instrumented struct {
	inner   Store
	backend string
}

var _ Store = (*Instrumented)(nil)

// Instrument wraps inner so every operation is observed under the given
// backend label.
func Instrument(inner Store, backend string) *Instrumented {
	return &Instrumented{inner: inner, backend: backend}
}

func (s *Instrumented) ListPosts(ctx context.Context) ([]*models.Post, error) {
	span, ctx := s.startSpan(ctx, "store.list_posts")
	defer span.End()

	start := time.Now()
	posts, err := s.inner.ListPosts(ctx)
	observability.ObserveStoreOp("list_posts", s.backend, err, time.Since(start))
	span.SetError(err)
	return posts, err
}

func (s *Instrumented) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	span, ctx := s.startSpan(ctx, "store.create_post")
	defer span.End()

	start := time.Now()
	post, err := s.inner.CreatePost(ctx, in)
	observability.ObserveStoreOp("create_post", s.backend, err, time.Since(start))
	span.SetError(err)
	return post, err
}

func (s *Instrumented) AdjustLike(ctx context.Context, postID, direction string) (int, error) {
	span, ctx := s.startSpan(ctx, "store.adjust_like")
	defer span.End()
	span.AddAttributes(attribute.String("direction", direction))

	start := time.Now()
	count, err := s.inner.AdjustLike(ctx, postID, direction)
	observability.ObserveStoreOp("adjust_like", s.backend, err, time.Since(start))
	span.SetError(err)
	return count, err
}

func (s *Instrumented) AddComment(ctx context.Context, postID string, in AddCommentInput) (*models.Comment, error) {
	span, ctx := s.startSpan(ctx, "store.add_comment")
	defer span.End()

	start := time.Now()
	comment, err := s.inner.AddComment(ctx, postID, in)
	observability.ObserveStoreOp("add_comment", s.backend, err, time.Since(start))
	span.SetError(err)
	return comment, err
}

// Ping passes through unobserved; probes are not store operations.
func (s *Instrumented) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

func (s *Instrumented) Close() error {
	return s.inner.Close()
}

func (s *Instrumented) startSpan(ctx context.Context, name string) (*observability.Span, context.Context) {
	span, ctx := observability.NewSpan(ctx, name)
	span.AddAttributes(attribute.String("backend", s.backend))
	return span, ctx
}
