package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	appMiddleware "github.com/FACorreiaa/go-notes-api/app/middleware"
	"github.com/FACorreiaa/go-notes-api/internal/api"
	"github.com/FACorreiaa/go-notes-api/internal/types"
)

// UserResolver turns an access token into the user it was issued for.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (*types.User, error)
}

// Authenticate rejects requests without a valid x-access-token header and stores
// the resolved user id in the request context.
func Authenticate(resolver UserResolver, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			token := appMiddleware.TokenFromRequest(r)
			if token == "" {
				l.WarnContext(ctx, "Missing access token")
				api.WriteJSONResponse(w, r, http.StatusUnauthorized, MsgMissingToken)
				return
			}

			user, err := resolver.ResolveUser(ctx, token)
			if err != nil {
				if errors.Is(err, types.ErrUnauthenticated) {
					l.WarnContext(ctx, "Token rejected", slog.Any("error", err))
					api.ErrorResponse(w, r, http.StatusUnauthorized, MsgNotConnected)
					return
				}
				l.ErrorContext(ctx, "Failed to resolve token user", slog.Any("error", err))
				api.TextResponse(w, r, http.StatusInternalServerError, err.Error())
				return
			}

			ctx = appMiddleware.WithUserID(ctx, user.ID)
			l.DebugContext(ctx, "Authentication successful", slog.String("userID", user.ID.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
