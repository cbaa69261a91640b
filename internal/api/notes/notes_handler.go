package notes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/FACorreiaa/go-notes-api/app/middleware"
	"github.com/FACorreiaa/go-notes-api/internal/api"
	"github.com/FACorreiaa/go-notes-api/internal/types"
)

// msgNotConnected mirrors the authentication middleware's rejection.
const msgNotConnected = "Utilisateur non connecté"

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	ListNotes(w http.ResponseWriter, r *http.Request)
	CreateNote(w http.ResponseWriter, r *http.Request)
	UpdateNote(w http.ResponseWriter, r *http.Request)
	DeleteNote(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	notesService Service
	logger       *slog.Logger
}

func NewNotesHandlerImpl(notesService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		notesService: notesService,
		logger:       logger,
	}
}

func (h *HandlerImpl) userID(w http.ResponseWriter, r *http.Request, span trace.Span) (uuid.UUID, bool) {
	userID, ok := appMiddleware.GetUserIDFromContext(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "User ID not found in context")
		span.SetStatus(codes.Error, "Unauthorized")
		api.ErrorResponse(w, r, http.StatusUnauthorized, msgNotConnected)
	}
	return userID, ok
}

// noteID parses the {id} path parameter. Malformed ids answer 404 like unknown ones.
func (h *HandlerImpl) noteID(w http.ResponseWriter, r *http.Request, span trace.Span) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.DebugContext(r.Context(), "Malformed note id", slog.String("id", raw))
		span.SetStatus(codes.Error, "Malformed note id")
		api.ErrorResponse(w, r, http.StatusNotFound, MsgNoteNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// ListNotes godoc
// @Summary      List notes
// @Description  Returns every note owned by the caller, oldest first.
// @Tags         Notes
// @Produce      json
// @Param        x-access-token header string true "Access token"
// @Success      200 {object} NotesResponse
// @Failure      401 {object} api.Response
// @Router       /notes [get]
func (h *HandlerImpl) ListNotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("NotesHandler").Start(r.Context(), "ListNotes")
	defer span.End()
	r = r.WithContext(ctx)

	userID, ok := h.userID(w, r, span)
	if !ok {
		return
	}

	notes, err := h.notesService.ListNotes(ctx, userID)
	if err != nil {
		span.RecordError(err)
		h.writeNoteError(w, r, span, err)
		return
	}
	if notes == nil {
		notes = []types.Note{}
	}

	span.SetStatus(codes.Ok, "Notes listed")
	api.WriteJSONResponse(w, r, http.StatusOK, NotesResponse{Notes: notes})
}

// CreateNote godoc
// @Summary      Create a note
// @Description  Stores a note owned by the caller.
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Param        x-access-token header string true "Access token"
// @Param        note body ContentInput true "Note content"
// @Success      200 {object} NoteResponse
// @Failure      401 {object} api.Response
// @Failure      500 {string} string "Internal server error."
// @Router       /notes [put]
func (h *HandlerImpl) CreateNote(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("NotesHandler").Start(r.Context(), "CreateNote")
	defer span.End()
	r = r.WithContext(ctx)

	userID, ok := h.userID(w, r, span)
	if !ok {
		return
	}

	body, err := api.DecodeJSONObject(w, r)
	if err != nil {
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	note, err := h.notesService.CreateNote(ctx, userID, ContentField(body))
	if err != nil {
		h.writeNoteError(w, r, span, err)
		return
	}

	span.SetStatus(codes.Ok, "Note created")
	api.WriteJSONResponse(w, r, http.StatusOK, NoteResponse{Note: note})
}

// UpdateNote godoc
// @Summary      Update a note
// @Description  Replaces the content of a note owned by the caller.
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Param        x-access-token header string true "Access token"
// @Param        id path string true "Note ID"
// @Param        note body ContentInput true "New content"
// @Success      200 {object} NoteResponse
// @Failure      401 {object} api.Response
// @Failure      403 {object} api.Response
// @Failure      404 {object} api.Response
// @Failure      500 {string} string "Internal server error."
// @Router       /notes/{id} [patch]
func (h *HandlerImpl) UpdateNote(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("NotesHandler").Start(r.Context(), "UpdateNote")
	defer span.End()
	r = r.WithContext(ctx)

	userID, ok := h.userID(w, r, span)
	if !ok {
		return
	}
	noteID, ok := h.noteID(w, r, span)
	if !ok {
		return
	}

	body, err := api.DecodeJSONObject(w, r)
	if err != nil {
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	note, err := h.notesService.UpdateNote(ctx, userID, noteID, ContentField(body))
	if err != nil {
		h.writeNoteError(w, r, span, err)
		return
	}

	span.SetStatus(codes.Ok, "Note updated")
	api.WriteJSONResponse(w, r, http.StatusOK, NoteResponse{Note: note})
}

// DeleteNote godoc
// @Summary      Delete a note
// @Tags         Notes
// @Produce      json
// @Param        x-access-token header string true "Access token"
// @Param        id path string true "Note ID"
// @Success      200 {object} api.Response
// @Failure      401 {object} api.Response
// @Failure      403 {object} api.Response
// @Failure      404 {object} api.Response
// @Router       /notes/{id} [delete]
func (h *HandlerImpl) DeleteNote(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("NotesHandler").Start(r.Context(), "DeleteNote")
	defer span.End()
	r = r.WithContext(ctx)

	userID, ok := h.userID(w, r, span)
	if !ok {
		return
	}
	noteID, ok := h.noteID(w, r, span)
	if !ok {
		return
	}

	if err := h.notesService.DeleteNote(ctx, userID, noteID); err != nil {
		h.writeNoteError(w, r, span, err)
		return
	}

	span.SetStatus(codes.Ok, "Note deleted")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{})
}

func (h *HandlerImpl) writeNoteError(w http.ResponseWriter, r *http.Request, span trace.Span, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, types.ErrNotFound):
		span.SetStatus(codes.Error, "Note not found")
		api.ErrorResponse(w, r, http.StatusNotFound, MsgNoteNotFound)
	case errors.Is(err, types.ErrForbidden):
		span.SetStatus(codes.Error, "Forbidden")
		api.ErrorResponse(w, r, http.StatusForbidden, MsgNoteForbidden)
	case errors.Is(err, types.ErrMissingContent):
		h.logger.WarnContext(ctx, "Request without content")
		span.SetStatus(codes.Error, "Missing content")
		api.TextResponse(w, r, http.StatusInternalServerError, MsgInternal)
	default:
		h.logger.ErrorContext(ctx, "Note operation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Internal error")
		api.TextResponse(w, r, http.StatusInternalServerError, MsgInternal)
	}
}
