package notes

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-notes-api/internal/types"
)

func setupNotesRepoTest(t *testing.T) (*PostgresNotesRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresNotesRepo(mock, logger), mock
}

func noteRows() *pgxmock.Rows {
	return pgxmock.NewRows(noteColumns)
}

func TestPostgresNotesRepo_ListNotesByOwner(t *testing.T) {
	ctx := context.Background()
	listQuery := regexp.QuoteMeta(`SELECT id, user_id, content, created_at, updated_at FROM notes WHERE user_id = $1 ORDER BY created_at, id`)
	ownerID := uuid.New()

	t.Run("returns notes in order", func(t *testing.T) {
		repo, mock := setupNotesRepoTest(t)
		first, second := uuid.New(), uuid.New()
		t1 := time.Now().UTC().Add(-time.Hour)
		t2 := time.Now().UTC()

		mock.ExpectQuery(listQuery).
			WithArgs(ownerID.String()).
			WillReturnRows(noteRows().
				AddRow(first, ownerID, "one", t1, t1).
				AddRow(second, ownerID, "two", t2, t2))

		notes, err := repo.ListNotesByOwner(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, first, notes[0].ID)
		assert.Equal(t, "one", notes[0].Content)
		assert.Equal(t, second, notes[1].ID)
		assert.Equal(t, ownerID, notes[1].OwnerID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		repo, mock := setupNotesRepoTest(t)
		mock.ExpectQuery(listQuery).WithArgs(ownerID.String()).WillReturnRows(noteRows())

		notes, err := repo.ListNotesByOwner(ctx, ownerID)
		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := setupNotesRepoTest(t)
		dbErr := errors.New("connection reset")
		mock.ExpectQuery(listQuery).WithArgs(ownerID.String()).WillReturnError(dbErr)

		notes, err := repo.ListNotesByOwner(ctx, ownerID)
		assert.Nil(t, notes)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestPostgresNotesRepo_CreateNote(t *testing.T) {
	ctx := context.Background()
	insertQuery := regexp.QuoteMeta(`INSERT INTO notes (user_id, content) VALUES ($1, $2) RETURNING id, user_id, content, created_at, updated_at`)
	ownerID := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo, mock := setupNotesRepoTest(t)
		noteID := uuid.New()
		now := time.Now().UTC()
		mock.ExpectQuery(insertQuery).
			WithArgs(ownerID, "hello").
			WillReturnRows(noteRows().AddRow(noteID, ownerID, "hello", now, now))

		note, err := repo.CreateNote(ctx, ownerID, "hello")
		require.NoError(t, err)
		assert.Equal(t, &types.Note{ID: noteID, OwnerID: ownerID, Content: "hello", CreatedAt: now, UpdatedAt: now}, note)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := setupNotesRepoTest(t)
		mock.ExpectQuery(insertQuery).WithArgs(ownerID, "hello").WillReturnError(errors.New("boom"))

		note, err := repo.CreateNote(ctx, ownerID, "hello")
		assert.Nil(t, note)
		assert.Error(t, err)
	})
}

func TestPostgresNotesRepo_GetNote(t *testing.T) {
	ctx := context.Background()
	getQuery := regexp.QuoteMeta(`SELECT id, user_id, content, created_at, updated_at FROM notes WHERE id = $1`)
	noteID := uuid.New()

	t.Run("found", func(t *testing.T) {
		repo, mock := setupNotesRepoTest(t)
		ownerID := uuid.New()
		now := time.Now().UTC()
		mock.ExpectQuery(getQuery).WithArgs(noteID).
			WillReturnRows(noteRows().AddRow(noteID, ownerID, "c", now, now))

		note, err := repo.GetNote(ctx, noteID)
		require.NoError(t, err)
		assert.Equal(t, ownerID, note.OwnerID)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setupNotesRepoTest(t)
		mock.ExpectQuery(getQuery).WithArgs(noteID).WillReturnError(pgx.ErrNoRows)

		note, err := repo.GetNote(ctx, noteID)
		assert.Nil(t, note)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("db error is not not-found", func(t *testing.T) {
		repo, mock := setupNotesRepoTest(t)
		mock.ExpectQuery(getQuery).WithArgs(noteID).WillReturnError(errors.New("boom"))

		_, err := repo.GetNote(ctx, noteID)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresNotesRepo_UpdateNoteContent(t *testing.T) {
	ctx := context.Background()
	updateQuery := regexp.QuoteMeta(`UPDATE notes SET content = $1, updated_at = NOW() WHERE id = $2 RETURNING id, user_id, content, created_at, updated_at`)
	noteID := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo, mock := setupNotesRepoTest(t)
		ownerID := uuid.New()
		created := time.Now().UTC().Add(-time.Hour)
		updated := time.Now().UTC()
		mock.ExpectQuery(updateQuery).
			WithArgs("new", noteID.String()).
			WillReturnRows(noteRows().AddRow(noteID, ownerID, "new", created, updated))

		note, err := repo.UpdateNoteContent(ctx, noteID, "new")
		require.NoError(t, err)
		assert.Equal(t, "new", note.Content)
		assert.Equal(t, updated, note.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setupNotesRepoTest(t)
		mock.ExpectQuery(updateQuery).WithArgs("new", noteID.String()).WillReturnError(pgx.ErrNoRows)

		_, err := repo.UpdateNoteContent(ctx, noteID, "new")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresNotesRepo_DeleteNote(t *testing.T) {
	ctx := context.Background()
	deleteQuery := regexp.QuoteMeta(`DELETE FROM notes WHERE id = $1`)
	noteID := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		repo, mock := setupNotesRepoTest(t)
		mock.ExpectExec(deleteQuery).WithArgs(noteID).WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.DeleteNote(ctx, noteID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing deleted", func(t *testing.T) {
		repo, mock := setupNotesRepoTest(t)
		mock.ExpectExec(deleteQuery).WithArgs(noteID).WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.DeleteNote(ctx, noteID), types.ErrNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := setupNotesRepoTest(t)
		mock.ExpectExec(deleteQuery).WithArgs(noteID).WillReturnError(errors.New("boom"))

		err := repo.DeleteNote(ctx, noteID)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrNotFound)
	})
}
