package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-notes-api/app/db"
	"github.com/FACorreiaa/go-notes-api/app/observability/metrics"
	"github.com/FACorreiaa/go-notes-api/internal/types"
)

var _ Repository = (*PostgresNotesRepo)(nil)

var noteColumns = []string{"id", "user_id", "content", "created_at", "updated_at"}

const returningNote = "RETURNING id, user_id, content, created_at, updated_at"

type Repository interface {
	// ListNotesByOwner returns the owner's notes oldest first. Never nil.
	ListNotesByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Note, error)
	CreateNote(ctx context.Context, ownerID uuid.UUID, content string) (*types.Note, error)
	// GetNote returns types.ErrNotFound for unknown ids.
	GetNote(ctx context.Context, noteID uuid.UUID) (*types.Note, error)
	// UpdateNoteContent returns types.ErrNotFound for unknown ids.
	UpdateNoteContent(ctx context.Context, noteID uuid.UUID, content string) (*types.Note, error)
	// DeleteNote returns types.ErrNotFound when nothing was deleted.
	DeleteNote(ctx context.Context, noteID uuid.UUID) error
}

type PostgresNotesRepo struct {
	logger *slog.Logger
	db     database.DB
	psql   squirrel.StatementBuilderType
}

func NewPostgresNotesRepo(db database.DB, logger *slog.Logger) *PostgresNotesRepo {
	return &PostgresNotesRepo{
		logger: logger,
		db:     db,
		psql:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func startSpan(ctx context.Context, name, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", "notes"),
	}, attrs...)
	return otel.Tracer("NotesRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func scanNote(row pgx.Row) (*types.Note, error) {
	var n types.Note
	if err := row.Scan(&n.ID, &n.OwnerID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *PostgresNotesRepo) ListNotesByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Note, error) {
	ctx, span := startSpan(ctx, "ListNotesByOwner", "SELECT", attribute.String("db.user.id", ownerID.String()))
	defer span.End()
	l := r.logger.With(slog.String("method", "ListNotesByOwner"), slog.String("userID", ownerID.String()))

	query, args, err := r.psql.
		Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"user_id": ownerID.String()}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Build query failed")
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	start := time.Now()
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		metrics.RecordDBQuery(ctx, "notes", "SELECT", start, err)
		l.ErrorContext(ctx, "Failed to query notes", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]types.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			metrics.RecordDBQuery(ctx, "notes", "SELECT", start, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Scan failed")
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	if err = rows.Err(); err != nil {
		metrics.RecordDBQuery(ctx, "notes", "SELECT", start, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rows iteration failed")
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	metrics.RecordDBQuery(ctx, "notes", "SELECT", start, nil)

	span.SetAttributes(attribute.Int("notes.count", len(notes)))
	span.SetStatus(codes.Ok, "Notes listed")
	return notes, nil
}

func (r *PostgresNotesRepo) CreateNote(ctx context.Context, ownerID uuid.UUID, content string) (*types.Note, error) {
	ctx, span := startSpan(ctx, "CreateNote", "INSERT", attribute.String("db.user.id", ownerID.String()))
	defer span.End()

	query := `INSERT INTO notes (user_id, content) VALUES ($1, $2) ` + returningNote

	start := time.Now()
	note, err := scanNote(r.db.QueryRow(ctx, query, ownerID, content))
	metrics.RecordDBQuery(ctx, "notes", "INSERT", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert note", slog.Any("error", err), slog.String("userID", ownerID.String()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating note: %w", err)
	}

	span.SetAttributes(attribute.String("db.note.id", note.ID.String()))
	span.SetStatus(codes.Ok, "Note created")
	return note, nil
}

func (r *PostgresNotesRepo) GetNote(ctx context.Context, noteID uuid.UUID) (*types.Note, error) {
	ctx, span := startSpan(ctx, "GetNote", "SELECT", attribute.String("db.note.id", noteID.String()))
	defer span.End()

	query := `SELECT id, user_id, content, created_at, updated_at FROM notes WHERE id = $1`

	start := time.Now()
	note, err := scanNote(r.db.QueryRow(ctx, query, noteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.RecordDBQuery(ctx, "notes", "SELECT", start, nil)
			span.SetStatus(codes.Error, "Note not found")
			return nil, fmt.Errorf("note %s not found: %w", noteID, types.ErrNotFound)
		}
		metrics.RecordDBQuery(ctx, "notes", "SELECT", start, err)
		r.logger.ErrorContext(ctx, "Failed to query note", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching note: %w", err)
	}
	metrics.RecordDBQuery(ctx, "notes", "SELECT", start, nil)

	span.SetStatus(codes.Ok, "Note fetched")
	return note, nil
}

func (r *PostgresNotesRepo) UpdateNoteContent(ctx context.Context, noteID uuid.UUID, content string) (*types.Note, error) {
	ctx, span := startSpan(ctx, "UpdateNoteContent", "UPDATE", attribute.String("db.note.id", noteID.String()))
	defer span.End()

	query, args, err := r.psql.
		Update("notes").
		Set("content", content).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": noteID.String()}).
		Suffix(returningNote).
		ToSql()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Build query failed")
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	start := time.Now()
	note, err := scanNote(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.RecordDBQuery(ctx, "notes", "UPDATE", start, nil)
			span.SetStatus(codes.Error, "Note not found")
			return nil, fmt.Errorf("note %s not found: %w", noteID, types.ErrNotFound)
		}
		metrics.RecordDBQuery(ctx, "notes", "UPDATE", start, err)
		r.logger.ErrorContext(ctx, "Failed to update note", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, fmt.Errorf("database error updating note: %w", err)
	}
	metrics.RecordDBQuery(ctx, "notes", "UPDATE", start, nil)

	span.SetStatus(codes.Ok, "Note updated")
	return note, nil
}

func (r *PostgresNotesRepo) DeleteNote(ctx context.Context, noteID uuid.UUID) error {
	ctx, span := startSpan(ctx, "DeleteNote", "DELETE", attribute.String("db.note.id", noteID.String()))
	defer span.End()

	start := time.Now()
	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, noteID)
	metrics.RecordDBQuery(ctx, "notes", "DELETE", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete note", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Note not found")
		return fmt.Errorf("note %s not found: %w", noteID, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Note deleted")
	return nil
}
