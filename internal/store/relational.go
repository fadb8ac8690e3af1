package store

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"artboard/internal/models"
)

// PostRecord is the posts table row. Text columns are deliberately untyped
// length-wise: field caps are applied at the edge, never re-enforced here.
// Seq breaks created_at ties so ordering stays deterministic.
type PostRecord struct {
	Seq       int64           `gorm:"primaryKey;autoIncrement"`
	ID        string          `gorm:"uniqueIndex;type:text;not null"`
	Name      string          `gorm:"type:text;not null"`
	Title     string          `gorm:"type:text;not null"`
	Desc      string          `gorm:"type:text"`
	MimeType  string          `gorm:"type:text;not null"`
	Image     string          `gorm:"type:text;not null"`
	LikeCount int             `gorm:"not null;default:0"`
	CreatedAt int64           `gorm:"not null;index;autoCreateTime:false"`
	Comments  []CommentRecord `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

func (PostRecord) TableName() string { return "posts" }

// CommentRecord is the comments table row. PostID references posts.id with a
// cascading delete, so removing a post removes its comments in the engine.
type CommentRecord struct {
	Seq       int64  `gorm:"primaryKey;autoIncrement"`
	ID        string `gorm:"uniqueIndex;type:text;not null"`
	PostID    string `gorm:"index;type:text;not null"`
	Name      string `gorm:"type:text;not null"`
	Text      string `gorm:"type:text;not null"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false"`
}

func (CommentRecord) TableName() string { return "comments" }

// RelationalStore persists posts and comments in two tables and leans on the
// engine for atomic counter updates and referential integrity. It works
// against both Postgres and SQLite through the same GORM handle.
type RelationalStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Store = (*RelationalStore)(nil)

// NewRelationalStore wraps an already-connected, already-migrated database
// handle.
func NewRelationalStore(db *gorm.DB) *RelationalStore {
	return &RelationalStore{db: db, now: time.Now}
}

func (s *RelationalStore) ListPosts(ctx context.Context) ([]*models.Post, error) {
	var records []PostRecord
	err := s.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, seq ASC")
		}).
		Order("created_at DESC, seq DESC").
		Find(&records).Error
	if err != nil {
		return nil, models.NewStorageError("failed to list posts", err)
	}

	posts := make([]*models.Post, 0, len(records))
	for i := range records {
		posts = append(posts, renderPostRecord(&records[i]))
	}
	return posts, nil
}

func (s *RelationalStore) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	record := PostRecord{
		ID:        NewID(),
		Name:      in.Name,
		Title:     in.Title,
		Desc:      in.Desc,
		MimeType:  in.MimeType,
		Image:     base64.StdEncoding.EncodeToString(in.Image),
		LikeCount: 0,
		CreatedAt: in.CreatedAt,
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, models.NewStorageError("failed to create post", err)
	}

	return renderPostRecord(&record), nil
}

func (s *RelationalStore) AdjustLike(ctx context.Context, postID, direction string) (int, error) {
	if err := validateDirection(direction); err != nil {
		return 0, err
	}

	var count int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&PostRecord{}).Where("id = ?", postID)
		var result *gorm.DB
		if direction == DirectionLike {
			result = query.UpdateColumn("like_count", gorm.Expr("like_count + 1"))
		} else {
			// The guard keeps the decrement and the floor check in one
			// statement, so concurrent unlikes can never drive the counter
			// negative.
			result = query.Where("like_count > 0").
				UpdateColumn("like_count", gorm.Expr("like_count - 1"))
		}
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 && direction == DirectionLike {
			return gorm.ErrRecordNotFound
		}

		// Zero rows on an unlike is either a missing post or a counter
		// already at the floor. The read-back settles which, and yields the
		// fresh count either way.
		var record PostRecord
		if err := tx.Select("like_count").Take(&record, "id = ?", postID).Error; err != nil {
			return err
		}
		count = record.LikeCount
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.NewNotFoundError("post", postID)
		}
		return 0, models.NewStorageError("failed to adjust like count", err)
	}
	return count, nil
}

func (s *RelationalStore) AddComment(ctx context.Context, postID string, in AddCommentInput) (*models.Comment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	record := CommentRecord{
		ID:        NewID(),
		PostID:    postID,
		Name:      in.Name,
		Text:      in.Text,
		CreatedAt: s.now().UnixMilli(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&PostRecord{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		// The existence check can race with a delete; the constraint is the
		// authority.
		if errors.Is(err, gorm.ErrRecordNotFound) || isForeignKeyViolation(err) {
			return nil, models.NewNotFoundError("post", postID)
		}
		return nil, models.NewStorageError("failed to add comment", err)
	}

	return renderCommentRecord(&record), nil
}

// Ping checks the underlying connection, for readiness probes.
func (s *RelationalStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return models.NewStorageError("database handle unavailable", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return models.NewStorageError("database ping failed", err)
	}
	return nil
}

func (s *RelationalStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// isForeignKeyViolation recognizes a rejected comment insert on both engines:
// SQLSTATE 23503 on Postgres, the stock constraint message on SQLite.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func renderPostRecord(record *PostRecord) *models.Post {
	comments := make([]models.Comment, 0, len(record.Comments))
	for i := range record.Comments {
		comments = append(comments, *renderCommentRecord(&record.Comments[i]))
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

func renderCommentRecord(record *CommentRecord) *models.Comment {
	return &models.Comment{
		ID:        record.ID,
		PostID:    record.PostID,
		Name:      record.Name,
		Text:      record.Text,
		CreatedAt: record.CreatedAt,
	}
}
