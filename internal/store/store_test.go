package store

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artboard/internal/models"
)

// testImage is a minimal payload; the store treats image bytes as opaque.
var testImage = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// stepClock hands out strictly increasing timestamps one millisecond apart,
// so comment ordering is deterministic in tests.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock(startMillis int64) *stepClock {
	return &stepClock{t: time.UnixMilli(startMillis)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func newPostInput(name, title string, createdAt int64) CreatePostInput {
	return CreatePostInput{
		Name:      name,
		Title:     title,
		Image:     testImage,
		MimeType:  "image/png",
		CreatedAt: createdAt,
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

type backendCase struct {
	name string
	open func(t *testing.T) Store
}

func allBackends() []backendCase {
	return []backendCase{
		{"Document", func(t *testing.T) Store { return newTestDocumentStore(t) }},
		{"Relational", func(t *testing.T) Store { return newTestRelationalStore(t) }},
	}
}

func TestStore_PostLifecycle(t *testing.T) {
	for _, backend := range allBackends() {
		t.Run(backend.name, func(t *testing.T) {
			s := backend.open(t)
			ctx := context.Background()

			post, err := s.CreatePost(ctx, CreatePostInput{
				Name:      "Ana",
				Title:     "My Art",
				Desc:      "",
				Image:     testImage,
				MimeType:  "image/png",
				CreatedAt: 1000,
			})
			require.NoError(t, err)
			require.NotNil(t, post)
			assert.NotEmpty(t, post.ID)
			assert.Equal(t, "Ana", post.Name)
			assert.Equal(t, "My Art", post.Title)
			assert.Equal(t, "", post.Desc)
			assert.Equal(t, 0, post.LikeCount)
			assert.Equal(t, int64(1000), post.CreatedAt)
			assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(testImage), post.ImageSrc)
			require.NotNil(t, post.Comments)
			assert.Empty(t, post.Comments)

			posts, err := s.ListPosts(ctx)
			require.NoError(t, err)
			require.Len(t, posts, 1)
			assert.Equal(t, post.ID, posts[0].ID)

			count, err := s.AdjustLike(ctx, post.ID, DirectionLike)
			require.NoError(t, err)
			assert.Equal(t, 1, count)

			count, err = s.AdjustLike(ctx, post.ID, DirectionUnlike)
			require.NoError(t, err)
			assert.Equal(t, 0, count)

			// Unliking at zero stays at zero.
			count, err = s.AdjustLike(ctx, post.ID, DirectionUnlike)
			require.NoError(t, err)
			assert.Equal(t, 0, count)

			comment, err := s.AddComment(ctx, post.ID, AddCommentInput{Name: "Bo", Text: "Nice!"})
			require.NoError(t, err)
			assert.NotEmpty(t, comment.ID)
			assert.Equal(t, post.ID, comment.PostID)
			assert.Equal(t, "Bo", comment.Name)
			assert.Equal(t, "Nice!", comment.Text)

			posts, err = s.ListPosts(ctx)
			require.NoError(t, err)
			require.Len(t, posts, 1)
			require.Len(t, posts[0].Comments, 1)
			assert.Equal(t, comment.ID, posts[0].Comments[0].ID)

			// A rejected submission leaves the board untouched.
			_, err = s.CreatePost(ctx, newPostInput("Ana", "", 2000))
			assertCode(t, err, models.CodeValidation)

			posts, err = s.ListPosts(ctx)
			require.NoError(t, err)
			assert.Len(t, posts, 1)
		})
	}
}

func TestStore_UnknownPost(t *testing.T) {
	for _, backend := range allBackends() {
		t.Run(backend.name, func(t *testing.T) {
			s := backend.open(t)
			ctx := context.Background()

			_, err := s.AdjustLike(ctx, "ghost", DirectionLike)
			assertCode(t, err, models.CodeNotFound)

			_, err = s.AddComment(ctx, "ghost", AddCommentInput{Name: "Bo", Text: "hello"})
			assertCode(t, err, models.CodeNotFound)
		})
	}
}

func TestStore_InvalidDirection(t *testing.T) {
	for _, backend := range allBackends() {
		t.Run(backend.name, func(t *testing.T) {
			s := backend.open(t)
			ctx := context.Background()

			post, err := s.CreatePost(ctx, newPostInput("Ana", "My Art", 1000))
			require.NoError(t, err)

			_, err = s.AdjustLike(ctx, post.ID, "boost")
			assertCode(t, err, models.CodeValidation)

			// The bad token never reached the counter.
			posts, err := s.ListPosts(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, posts[0].LikeCount)
		})
	}
}

func TestStore_ConcurrentLikes(t *testing.T) {
	const likes = 25

	for _, backend := range allBackends() {
		t.Run(backend.name, func(t *testing.T) {
			s := backend.open(t)
			ctx := context.Background()

			post, err := s.CreatePost(ctx, newPostInput("Ana", "Busy", 1000))
			require.NoError(t, err)

			var wg sync.WaitGroup
			for i := 0; i < likes; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := s.AdjustLike(ctx, post.ID, DirectionLike)
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			posts, err := s.ListPosts(ctx)
			require.NoError(t, err)
			assert.Equal(t, likes, posts[0].LikeCount)
		})
	}
}

func TestStore_ConcurrentLikesAndUnlikes(t *testing.T) {
	const (
		likes   = 10
		unlikes = 10
	)

	for _, backend := range allBackends() {
		t.Run(backend.name, func(t *testing.T) {
			s := backend.open(t)
			ctx := context.Background()

			post, err := s.CreatePost(ctx, newPostInput("Ana", "Busy", 1000))
			require.NoError(t, err)

			// Pre-charge the counter so no concurrent unlike can hit the
			// floor, which keeps the final count deterministic.
			for i := 0; i < unlikes; i++ {
				_, err := s.AdjustLike(ctx, post.ID, DirectionLike)
				require.NoError(t, err)
			}

			var wg sync.WaitGroup
			run := func(direction string, n int) {
				for i := 0; i < n; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						_, err := s.AdjustLike(ctx, post.ID, direction)
						assert.NoError(t, err)
					}()
				}
			}
			run(DirectionLike, likes)
			run(DirectionUnlike, unlikes)
			wg.Wait()

			posts, err := s.ListPosts(ctx)
			require.NoError(t, err)
			assert.Equal(t, likes, posts[0].LikeCount)
		})
	}
}

func TestStore_ConcurrentUnlikesAtFloor(t *testing.T) {
	for _, backend := range allBackends() {
		t.Run(backend.name, func(t *testing.T) {
			s := backend.open(t)
			ctx := context.Background()

			post, err := s.CreatePost(ctx, newPostInput("Ana", "Quiet", 1000))
			require.NoError(t, err)

			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					count, err := s.AdjustLike(ctx, post.ID, DirectionUnlike)
					assert.NoError(t, err)
					assert.Equal(t, 0, count)
				}()
			}
			wg.Wait()

			posts, err := s.ListPosts(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, posts[0].LikeCount)
		})
	}
}

// runFeedScript drives one store through a fixed mix of submissions, likes,
// and comments, including a created-at tie between the last two posts.
func runFeedScript(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	first, err := s.CreatePost(ctx, CreatePostInput{
		Name: "Ana", Title: "Sunrise", Desc: "oil on canvas",
		Image: testImage, MimeType: "image/png", CreatedAt: 3000,
	})
	require.NoError(t, err)
	second, err := s.CreatePost(ctx, CreatePostInput{
		Name: "Bo", Title: "Harbor", Desc: "",
		Image: []byte{0xff, 0xd8, 0xff}, MimeType: "image/jpeg", CreatedAt: 1000,
	})
	require.NoError(t, err)
	third, err := s.CreatePost(ctx, CreatePostInput{
		Name: "Cleo", Title: "Dunes", Desc: "charcoal",
		Image: testImage, MimeType: "image/png", CreatedAt: 2000,
	})
	require.NoError(t, err)
	_, err = s.CreatePost(ctx, CreatePostInput{
		Name: "Dee", Title: "Dunes II", Desc: "charcoal",
		Image: testImage, MimeType: "image/png", CreatedAt: 2000,
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = s.AdjustLike(ctx, first.ID, DirectionLike)
		require.NoError(t, err)
	}
	_, err = s.AdjustLike(ctx, second.ID, DirectionLike)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = s.AdjustLike(ctx, second.ID, DirectionUnlike)
		require.NoError(t, err)
	}

	_, err = s.AddComment(ctx, first.ID, AddCommentInput{Name: "Bo", Text: "Lovely light"})
	require.NoError(t, err)
	_, err = s.AddComment(ctx, first.ID, AddCommentInput{Name: "Cleo", Text: "Agreed"})
	require.NoError(t, err)
	_, err = s.AddComment(ctx, third.ID, AddCommentInput{Name: "Ana", Text: "Strong lines"})
	require.NoError(t, err)
}

// normalized strips the randomly generated identifiers so feeds from
// different backends can be compared field by field.
func normalized(posts []*models.Post) []*models.Post {
	out := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		cp := *p
		cp.ID = ""
		comments := make([]models.Comment, len(p.Comments))
		copy(comments, p.Comments)
		for i := range comments {
			comments[i].ID = ""
			comments[i].PostID = ""
		}
		cp.Comments = comments
		out = append(out, &cp)
	}
	return out
}

func TestStore_BackendsRenderIdentically(t *testing.T) {
	ctx := context.Background()

	doc := newTestDocumentStore(t)
	doc.now = newStepClock(5000).Now
	rel := newTestRelationalStore(t)
	rel.now = newStepClock(5000).Now

	runFeedScript(t, doc)
	runFeedScript(t, rel)

	docPosts, err := doc.ListPosts(ctx)
	require.NoError(t, err)
	relPosts, err := rel.ListPosts(ctx)
	require.NoError(t, err)

	require.Len(t, docPosts, 4)
	assert.Equal(t, normalized(docPosts), normalized(relPosts))

	// Spot-check the shared expectations directly: newest first, the tie
	// resolved to the later submission, the floor respected, comments oldest
	// first.
	assert.Equal(t, []string{"Sunrise", "Dunes II", "Dunes", "Harbor"}, []string{
		docPosts[0].Title, docPosts[1].Title, docPosts[2].Title, docPosts[3].Title,
	})
	assert.Equal(t, 2, docPosts[0].LikeCount)
	assert.Equal(t, 0, docPosts[3].LikeCount)
	require.Len(t, docPosts[0].Comments, 2)
	assert.Equal(t, "Lovely light", docPosts[0].Comments[0].Text)
	assert.Equal(t, "Agreed", docPosts[0].Comments[1].Text)
}
