package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-notes-api/app/observability/metrics"
	"github.com/FACorreiaa/go-notes-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes the note operations of an authenticated user.
// Lookups answer types.ErrNotFound before ownership is checked, so a foreign
// note is reported as forbidden only once it is known to exist.
type Service interface {
	ListNotes(ctx context.Context, userID uuid.UUID) ([]types.Note, error)
	// CreateNote returns types.ErrMissingContent when content is nil.
	CreateNote(ctx context.Context, userID uuid.UUID, content *string) (*types.Note, error)
	// UpdateNote checks existence, then ownership, then content. A forbidden
	// update leaves the note untouched.
	UpdateNote(ctx context.Context, userID, noteID uuid.UUID, content *string) (*types.Note, error)
	DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewNotesService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func countOperation(ctx context.Context, op string, err error) {
	metrics.Get().NoteOperationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", metrics.Outcome(err)),
	))
}

func (s *ServiceImpl) ListNotes(ctx context.Context, userID uuid.UUID) (notes []types.Note, err error) {
	ctx, span := otel.Tracer("NotesService").Start(ctx, "ListNotes", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()
	defer func() { countOperation(ctx, "list", err) }()

	notes, err = s.repo.ListNotesByOwner(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		return nil, fmt.Errorf("error listing notes: %w", err)
	}

	span.SetStatus(codes.Ok, "Notes listed")
	return notes, nil
}

func (s *ServiceImpl) CreateNote(ctx context.Context, userID uuid.UUID, content *string) (note *types.Note, err error) {
	ctx, span := otel.Tracer("NotesService").Start(ctx, "CreateNote", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()
	defer func() { countOperation(ctx, "create", err) }()

	if content == nil {
		span.SetStatus(codes.Error, "Missing content")
		err = types.ErrMissingContent
		return nil, err
	}

	note, err = s.repo.CreateNote(ctx, userID, *content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		return nil, fmt.Errorf("error creating note: %w", err)
	}

	s.logger.DebugContext(ctx, "Note created",
		slog.String("userID", userID.String()),
		slog.String("noteID", note.ID.String()))
	span.SetStatus(codes.Ok, "Note created")
	return note, nil
}

// ownedNote loads a note and checks it belongs to userID.
func (s *ServiceImpl) ownedNote(ctx context.Context, userID, noteID uuid.UUID) (*types.Note, error) {
	note, err := s.repo.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.OwnerID != userID {
		s.logger.WarnContext(ctx, "Note owned by another user",
			slog.String("userID", userID.String()),
			slog.String("noteID", noteID.String()))
		return nil, fmt.Errorf("note %s: %w", noteID, types.ErrForbidden)
	}
	return note, nil
}

func (s *ServiceImpl) UpdateNote(ctx context.Context, userID, noteID uuid.UUID, content *string) (note *types.Note, err error) {
	ctx, span := otel.Tracer("NotesService").Start(ctx, "UpdateNote", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("note.id", noteID.String()),
	))
	defer span.End()
	defer func() { countOperation(ctx, "update", err) }()

	if _, err = s.ownedNote(ctx, userID, noteID); err != nil {
		span.SetStatus(codes.Error, "Note not accessible")
		return nil, err
	}

	if content == nil {
		span.SetStatus(codes.Error, "Missing content")
		err = types.ErrMissingContent
		return nil, err
	}

	note, err = s.repo.UpdateNoteContent(ctx, noteID, *content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		if errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating note: %w", err)
	}

	span.SetStatus(codes.Ok, "Note updated")
	return note, nil
}

func (s *ServiceImpl) DeleteNote(ctx context.Context, userID, noteID uuid.UUID) (err error) {
	ctx, span := otel.Tracer("NotesService").Start(ctx, "DeleteNote", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("note.id", noteID.String()),
	))
	defer span.End()
	defer func() { countOperation(ctx, "delete", err) }()

	if _, err = s.ownedNote(ctx, userID, noteID); err != nil {
		span.SetStatus(codes.Error, "Note not accessible")
		return err
	}

	if err = s.repo.DeleteNote(ctx, noteID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Delete failed")
		return err
	}

	span.SetStatus(codes.Ok, "Note deleted")
	return nil
}
