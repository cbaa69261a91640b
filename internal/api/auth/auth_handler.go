package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-notes-api/internal/api"
	"github.com/FACorreiaa/go-notes-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Signup(w http.ResponseWriter, r *http.Request)
	Signin(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Signup godoc
// @Summary      Sign up
// @Description  Creates an account and returns an access token for it.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body Credentials true "Username and password"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} api.Response "Invalid input or username taken"
// @Failure      500 {string} string "Raw error message"
// @Router       /signup [post]
func (h *HandlerImpl) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Signup")
	defer span.End()
	l := h.logger.With(slog.String("handler", "Signup"))

	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		span.SetStatus(codes.Error, "Bad request")
		return
	}

	token, err := h.authService.Signup(ctx, creds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Signup failed")
		h.writeAuthError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Signed up")
	api.WriteJSONResponse(w, r, http.StatusOK, TokenResponse{Token: token})
}

// Signin godoc
// @Summary      Sign in
// @Description  Exchanges valid credentials for an access token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body Credentials true "Username and password"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} api.Response "Invalid input"
// @Failure      403 {object} api.Response "Unknown identifier"
// @Router       /signin [post]
func (h *HandlerImpl) Signin(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Signin")
	defer span.End()
	l := h.logger.With(slog.String("handler", "Signin"))

	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		span.SetStatus(codes.Error, "Bad request")
		return
	}

	token, err := h.authService.Signin(ctx, creds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Signin failed")
		h.writeAuthError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Signed in")
	api.WriteJSONResponse(w, r, http.StatusOK, TokenResponse{Token: token})
}

func (h *HandlerImpl) decodeCredentials(w http.ResponseWriter, r *http.Request) (Credentials, bool) {
	body, err := api.DecodeJSONObject(w, r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return Credentials{}, false
	}
	return Credentials{
		Username: api.StringField(body, "username"),
		Password: api.StringField(body, "password"),
	}, true
}

func (h *HandlerImpl) writeAuthError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	ctx := r.Context()

	var vErr *types.ValidationError
	switch {
	case errors.As(err, &vErr):
		l.WarnContext(ctx, "Invalid credentials input", slog.String("field", vErr.Field))
		api.ErrorResponse(w, r, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, types.ErrConflict):
		l.WarnContext(ctx, "Username already taken")
		api.ErrorResponse(w, r, http.StatusBadRequest, MsgUsernameTaken)
	case errors.Is(err, types.ErrInvalidCredentials):
		l.WarnContext(ctx, "Signin rejected")
		api.ErrorResponse(w, r, http.StatusForbidden, MsgUnknownIdentifier)
	default:
		l.ErrorContext(ctx, "Authentication failed", slog.Any("error", err))
		api.TextResponse(w, r, http.StatusInternalServerError, err.Error())
	}
}
