package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"artboard/internal/models"
)

// newTestRelationalStore opens an in-memory SQLite database with foreign key
// enforcement on. One connection max, so the memory database survives the
// whole test.
func newTestRelationalStore(t *testing.T) *RelationalStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&PostRecord{}, &CommentRecord{}))

	s := NewRelationalStore(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func setupMockStore(t *testing.T) (*RelationalStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewRelationalStore(gormDB), mock
}

func TestRelationalStore_DeletingPostRemovesComments(t *testing.T) {
	s := newTestRelationalStore(t)
	ctx := context.Background()

	post, err := s.CreatePost(ctx, newPostInput("Ana", "Sunrise", 1000))
	require.NoError(t, err)
	keeper, err := s.CreatePost(ctx, newPostInput("Bo", "Harbor", 2000))
	require.NoError(t, err)

	_, err = s.AddComment(ctx, post.ID, AddCommentInput{Name: "Bo", Text: "Nice!"})
	require.NoError(t, err)
	_, err = s.AddComment(ctx, post.ID, AddCommentInput{Name: "Cleo", Text: "Agreed"})
	require.NoError(t, err)
	_, err = s.AddComment(ctx, keeper.ID, AddCommentInput{Name: "Ana", Text: "Thanks"})
	require.NoError(t, err)

	require.NoError(t, s.db.Where("id = ?", post.ID).Delete(&PostRecord{}).Error)

	// The engine cascades: only the surviving post's comment remains.
	var remaining []CommentRecord
	require.NoError(t, s.db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, keeper.ID, remaining[0].PostID)
}

func TestRelationalStore_ListPosts_QueryError(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts"`)).
		WillReturnError(errors.New("connection refused"))

	posts, err := s.ListPosts(context.Background())
	assert.Nil(t, posts)
	assertCode(t, err, models.CodeStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelationalStore_CreatePost_InsertError(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	post, err := s.CreatePost(context.Background(), newPostInput("Ana", "Sunrise", 1000))
	assert.Nil(t, post)
	assertCode(t, err, models.CodeStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelationalStore_AdjustLike_MissingPost(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET`)).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	count, err := s.AdjustLike(context.Background(), "ghost", DirectionLike)
	assert.Equal(t, 0, count)
	assertCode(t, err, models.CodeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelationalStore_AdjustLike_UnlikeAtFloorReadsBack(t *testing.T) {
	s, mock := setupMockStore(t)

	// The guarded decrement touches no row at the floor; the read-back
	// confirms the post exists and reports the unchanged count.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "like_count" FROM "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(0))
	mock.ExpectCommit()

	count, err := s.AdjustLike(context.Background(), "p1", DirectionUnlike)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelationalStore_AdjustLike_UnlikeMissingPost(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "like_count" FROM "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}))
	mock.ExpectRollback()

	count, err := s.AdjustLike(context.Background(), "ghost", DirectionUnlike)
	assert.Equal(t, 0, count)
	assertCode(t, err, models.CodeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelationalStore_AdjustLike_UpdateError(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := s.AdjustLike(context.Background(), "p1", DirectionLike)
	assertCode(t, err, models.CodeStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelationalStore_AddComment_MissingPost(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts"`)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	comment, err := s.AddComment(context.Background(), "ghost", AddCommentInput{Name: "Bo", Text: "hi"})
	assert.Nil(t, comment)
	assertCode(t, err, models.CodeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelationalStore_AddComment_InsertError(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := s.AddComment(context.Background(), "p1", AddCommentInput{Name: "Bo", Text: "hi"})
	assertCode(t, err, models.CodeStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isForeignKeyViolation(errors.New("syntax error")))
	assert.False(t, isForeignKeyViolation(nil))
}
