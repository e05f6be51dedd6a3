package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/dbx"
	"github.com/dmitrijs2005/gophsession/internal/server/migrations"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))
	return db
}

func newRepoWithMock(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), mock
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	created, err := repo.Create(ctx, &models.User{ID: "id-1", UserName: "alice", PasswordHash: []byte("h")})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	byLogin, err := repo.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "id-1", byLogin.ID)
	assert.Equal(t, []byte("h"), byLogin.PasswordHash)

	byID, err := repo.GetUserByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.UserName)
}

func TestCreate_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	_, err := repo.Create(ctx, &models.User{ID: "a", UserName: "alice", PasswordHash: []byte("h")})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{ID: "b", UserName: "alice", PasswordHash: []byte("h")})
	require.ErrorIs(t, err, common.ErrUsernameTaken)
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	_, err := repo.GetUserByLogin(ctx, "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetUserByID(ctx, "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = repo.Create(ctx, &models.User{ID: "2", UserName: "bob", PasswordHash: []byte("h"), CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.User{ID: "1", UserName: "alice", PasswordHash: []byte("h"), CreatedAt: base})
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.User{{ID: "1", UserName: "alice"}, {ID: "2", UserName: "bob"}}, all)
}

func TestCreate_InsideRolledBackTx(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := NewSQLiteRepository(tx).Create(ctx, &models.User{ID: "a", UserName: "alice", PasswordHash: []byte("h")})
		require.NoError(t, err)
		return errors.New("abort")
	})
	require.Error(t, err)

	_, err = NewSQLiteRepository(db).GetUserByLogin(ctx, "alice")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDBErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(`INSERT INTO users`).WillReturnError(errors.New("db down"))

		_, err := repo.Create(ctx, &models.User{ID: "a", UserName: "alice"})
		require.ErrorContains(t, err, "db error: db down")
		require.NotErrorIs(t, err, common.ErrUsernameTaken)
	})

	t.Run("get", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`SELECT id, username, password_hash, created_at FROM users`).
			WithArgs("alice").
			WillReturnError(errors.New("db down"))

		_, err := repo.GetUserByLogin(ctx, "alice")
		require.ErrorContains(t, err, "db error: db down")
	})

	t.Run("list scan", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`SELECT id, username FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("1"))

		_, err := repo.List(ctx)
		require.ErrorContains(t, err, "db error")
	})

	t.Run("list rows error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`SELECT id, username FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
				AddRow("1", "a").
				RowError(0, errors.New("broken row")))

		_, err := repo.List(ctx)
		require.ErrorContains(t, err, "broken row")
	})
}
