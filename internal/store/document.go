package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"artboard/internal/models"
)

// document is the persisted shape of the flat-file backend: one JSON object
// holding every post in insertion order. Images are kept as Base64 text so
// the file stays valid UTF-8 and diffs cleanly.
type document struct {
	Posts []documentPost `json:"posts"`
}

type documentPost struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Title     string            `json:"title"`
	Desc      string            `json:"desc"`
	MimeType  string            `json:"mimeType"`
	Image     string            `json:"image"`
	LikeCount int               `json:"likeCount"`
	CreatedAt int64             `json:"createdAt"`
	Comments  []documentComment `json:"comments"`
}

type documentComment struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// DocumentStore keeps the whole board in one JSON file. Every mutation
// rewrites the file atomically (temp file + rename) under a single writer
// lock, so a crash mid-write leaves the previous generation intact. Reads
// serve from the in-memory copy and never touch the disk.
type DocumentStore struct {
	path string
	mu   sync.RWMutex
	doc  *document
	now  func() time.Time
}

var _ Store = (*DocumentStore)(nil)

// OpenDocumentStore loads the document at path, or starts an empty one when
// the file does not exist yet. A file that exists but cannot be read or
// parsed is an error, never silently treated as empty.
func OpenDocumentStore(path string) (*DocumentStore, error) {
	doc := &document{Posts: []documentPost{}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run, nothing persisted yet.
	case err != nil:
		return nil, models.NewStorageError("failed to read feed document", err)
	default:
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, models.NewStorageError("failed to parse feed document", err)
		}
	}

	return &DocumentStore{
		path: path,
		doc:  doc,
		now:  time.Now,
	}, nil
}

func (s *DocumentStore) ListPosts(ctx context.Context) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Walk insertion order backwards so that posts sharing a timestamp come
	// out newest-inserted first, then stable-sort newest timestamp first.
	posts := make([]*models.Post, 0, len(s.doc.Posts))
	for i := len(s.doc.Posts) - 1; i >= 0; i-- {
		posts = append(posts, renderPost(&s.doc.Posts[i]))
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
	return posts, nil
}

func (s *DocumentStore) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := documentPost{
		ID:        NewID(),
		Name:      in.Name,
		Title:     in.Title,
		Desc:      in.Desc,
		MimeType:  in.MimeType,
		Image:     base64.StdEncoding.EncodeToString(in.Image),
		LikeCount: 0,
		CreatedAt: in.CreatedAt,
		Comments:  []documentComment{},
	}

	next := s.doc.clone()
	next.Posts = append(next.Posts, record)
	if err := s.persist(next); err != nil {
		return nil, err
	}
	s.doc = next

	return renderPost(&record), nil
}

func (s *DocumentStore) AdjustLike(ctx context.Context, postID, direction string) (int, error) {
	if err := validateDirection(direction); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	post := next.findPost(postID)
	if post == nil {
		return 0, models.NewNotFoundError("post", postID)
	}

	switch direction {
	case DirectionLike:
		post.LikeCount++
	case DirectionUnlike:
		if post.LikeCount == 0 {
			// Already at the floor, nothing to persist.
			return 0, nil
		}
		post.LikeCount--
	}

	if err := s.persist(next); err != nil {
		return 0, err
	}
	s.doc = next

	return post.LikeCount, nil
}

func (s *DocumentStore) AddComment(ctx context.Context, postID string, in AddCommentInput) (*models.Comment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	post := next.findPost(postID)
	if post == nil {
		return nil, models.NewNotFoundError("post", postID)
	}

	record := documentComment{
		ID:        NewID(),
		Name:      in.Name,
		Text:      in.Text,
		CreatedAt: s.now().UnixMilli(),
	}
	post.Comments = append(post.Comments, record)

	if err := s.persist(next); err != nil {
		return nil, err
	}
	s.doc = next

	return renderComment(postID, &record), nil
}

// Ping verifies the dataset location is still reachable. A missing file is
// healthy (empty dataset); an unreadable one is not.
func (s *DocumentStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return models.NewStorageError("feed document is not reachable", err)
	}
	return nil
}

// Close is a no-op: the store holds no open handle between operations.
func (s *DocumentStore) Close() error {
	return nil
}

// persist writes the document to a temp file in the target directory and
// renames it over the current one, so readers of the path never observe a
// partial write. The in-memory document is only swapped by the caller after
// persist succeeds.
func (s *DocumentStore) persist(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return models.NewStorageError("failed to encode feed document", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return models.NewStorageError("failed to stage feed document", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return models.NewStorageError("failed to write feed document", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return models.NewStorageError("failed to flush feed document", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return models.NewStorageError("failed to close feed document", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return models.NewStorageError("failed to replace feed document", err)
	}
	return nil
}

// clone deep-copies the document so a mutation can be staged and persisted
// without touching the generation concurrent readers still see.
func (d *document) clone() *document {
	next := &document{Posts: make([]documentPost, len(d.Posts))}
	copy(next.Posts, d.Posts)
	for i := range next.Posts {
		comments := make([]documentComment, len(next.Posts[i].Comments))
		copy(comments, next.Posts[i].Comments)
		next.Posts[i].Comments = comments
	}
	return next
}

func (d *document) findPost(id string) *documentPost {
	for i := range d.Posts {
		if d.Posts[i].ID == id {
			return &d.Posts[i]
		}
	}
	return nil
}

func renderPost(record *documentPost) *models.Post {
	comments := make([]models.Comment, 0, len(record.Comments))
	for i := range record.Comments {
		comments = append(comments, *renderComment(record.ID, &record.Comments[i]))
	}
	return &models.Post{
		ID:        record.ID,
		Name:      record.Name,
		Title:     record.Title,
		Desc:      record.Desc,
		ImageSrc:  dataURI(record.MimeType, record.Image),
		LikeCount: record.LikeCount,
		CreatedAt: record.CreatedAt,
		Comments:  comments,
	}
}

func renderComment(postID string, record *documentComment) *models.Comment {
	return &models.Comment{
		ID:        record.ID,
		PostID:    postID,
		Name:      record.Name,
		Text:      record.Text,
		CreatedAt: record.CreatedAt,
	}
}

// Path returns the file the store persists to, mainly for logging.
func (s *DocumentStore) Path() string {
	return s.path
}
