// Package seed populates a board store with sample posts, likes, and
// comments. It is intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"artboard/internal/models"
	"artboard/internal/store"
)

// Defaults applied when an Options field is left at its zero value.
const (
	defaultPostCount   = 24
	defaultMaxLikes    = 12
	defaultMaxComments = 4
	defaultMaxAge      = 30 * 24 * time.Hour
)

// Options configuration for the seeder.
type Options struct {
	// Posts is the number of posts to create.
	Posts int
	// MaxLikes caps the like count applied to any single post.
	MaxLikes int
	// MaxComments caps the comments attached to any single post.
	MaxComments int
	// MaxAge bounds how far back post timestamps are spread.
	MaxAge time.Duration
}

func (o Options) withDefaults() Options {
	if o.Posts <= 0 {
		o.Posts = defaultPostCount
	}
	if o.MaxLikes <= 0 {
		o.MaxLikes = defaultMaxLikes
	}
	if o.MaxComments <= 0 {
		o.MaxComments = defaultMaxComments
	}
	if o.MaxAge <= 0 {
		o.MaxAge = defaultMaxAge
	}
	return o
}

// Run fills the store with generated posts and engagement. It goes through
// the same persistence contract the API uses, so it works against either
// backend and never bypasses the store's own validation.
func Run(ctx context.Context, st store.Store, opts Options) error {
	opts = opts.withDefaults()
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Printf("🌱 Seeding %d posts (max %d likes, %d comments each)...", opts.Posts, opts.MaxLikes, opts.MaxComments)

	posts, err := createPosts(ctx, st, r, opts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	likes, err := applyLikes(ctx, st, r, posts, opts)
	if err != nil {
		return fmt.Errorf("failed to apply likes: %w", err)
	}
	log.Printf("✓ %d likes applied", likes)

	comments, err := attachComments(ctx, st, r, posts, opts)
	if err != nil {
		return fmt.Errorf("failed to attach comments: %w", err)
	}
	log.Printf("✓ %d comments attached", comments)

	log.Println("🎉 Board seeding completed successfully!")
	return nil
}

func createPosts(ctx context.Context, st store.Store, r *rand.Rand, opts Options) ([]*models.Post, error) {
	timestamps := timestampSpread(r, opts.Posts, opts.MaxAge, time.Now())
	posts := make([]*models.Post, 0, opts.Posts)

	for i := 0; i < opts.Posts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		image, err := gradientPNG(r, 96, 96)
		if err != nil {
			return nil, fmt.Errorf("render image: %w", err)
		}

		post, err := st.CreatePost(ctx, store.CreatePostInput{
			Name:      randomArtistName(),
			Title:     randomTitle(r),
			Desc:      randomDesc(),
			Image:     image,
			MimeType:  "image/png",
			CreatedAt: timestamps[i],
		})
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)

		if (i+1)%100 == 0 {
			log.Printf("Created %d posts...", i+1)
		}
	}

	return posts, nil
}

func applyLikes(ctx context.Context, st store.Store, r *rand.Rand, posts []*models.Post, opts Options) (int, error) {
	total := 0
	for _, post := range posts {
		target := r.Intn(opts.MaxLikes + 1)
		for i := 0; i < target; i++ {
			if err := ctx.Err(); err != nil {
				return total, err
			}
			if _, err := st.AdjustLike(ctx, post.ID, store.DirectionLike); err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}

func attachComments(ctx context.Context, st store.Store, r *rand.Rand, posts []*models.Post, opts Options) (int, error) {
	total := 0
	for _, post := range posts {
		count := r.Intn(opts.MaxComments + 1)
		for i := 0; i < count; i++ {
			if err := ctx.Err(); err != nil {
				return total, err
			}
			_, err := st.AddComment(ctx, post.ID, store.AddCommentInput{
				Name: randomArtistName(),
				Text: randomComment(r),
			})
			if err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
