package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-notes-api/app/observability/metrics"
	"github.com/FACorreiaa/go-notes-api/internal/types"
)

// DefaultBcryptCost is the work factor used to hash passwords.
const DefaultBcryptCost = 12

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	// Signup validates the credentials, creates the user and returns a token for it.
	Signup(ctx context.Context, creds Credentials) (string, error)
	// Signin checks the credentials and returns a token for the matching user.
	// Unknown usernames and wrong passwords both yield types.ErrInvalidCredentials.
	Signin(ctx context.Context, creds Credentials) (string, error)
	// ResolveUser verifies the token and loads the user it was issued for.
	ResolveUser(ctx context.Context, token string) (*types.User, error)
}

type AuthServiceImpl struct {
	logger       *slog.Logger
	repo         UserRepository
	tokens       TokenManager
	cost         int
	hashPassword func(password []byte, cost int) ([]byte, error)
}

func NewAuthService(repo UserRepository, tokens TokenManager, bcryptCost int, logger *slog.Logger) *AuthServiceImpl {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &AuthServiceImpl{
		logger:       logger,
		repo:         repo,
		tokens:       tokens,
		cost:         bcryptCost,
		hashPassword: bcrypt.GenerateFromPassword,
	}
}

// ValidateCredentials applies the input rules in order; the first failure wins.
func ValidateCredentials(creds Credentials) error {
	if utf8.RuneCountInString(creds.Password) < MinPasswordLength {
		return &types.ValidationError{Field: "password", Message: MsgPasswordTooShort}
	}
	if n := utf8.RuneCountInString(creds.Username); n < MinUsernameLength || n > MaxUsernameLength {
		return &types.ValidationError{Field: "username", Message: MsgUsernameLength}
	}
	if !usernamePattern.MatchString(creds.Username) {
		return &types.ValidationError{Field: "username", Message: MsgUsernameCharset}
	}
	return nil
}

func (s *AuthServiceImpl) Signup(ctx context.Context, creds Credentials) (token string, err error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Signup")
	defer span.End()

	start := time.Now()
	defer func() {
		m := metrics.Get()
		attrs := metric.WithAttributes(attribute.String("outcome", metrics.Outcome(err)))
		m.SignupRequestsTotal.Add(ctx, 1, attrs)
		m.SignupDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	}()

	l := s.logger.With(slog.String("method", "Signup"), slog.String("username", creds.Username))

	if err = ValidateCredentials(creds); err != nil {
		l.DebugContext(ctx, "Signup input rejected", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid input")
		return "", err
	}

	_, err = s.repo.GetUserByUsername(ctx, creds.Username)
	switch {
	case err == nil:
		l.InfoContext(ctx, "Username already taken")
		span.SetStatus(codes.Error, "Username taken")
		err = fmt.Errorf("username %q already exists: %w", creds.Username, types.ErrConflict)
		return "", err
	case !errors.Is(err, types.ErrNotFound):
		l.ErrorContext(ctx, "Failed to look up username", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return "", fmt.Errorf("error checking username: %w", err)
	}

	hash, err := s.hashPassword([]byte(creds.Password), s.cost)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Hashing failed")
		return "", err
	}

	userID, err := s.repo.CreateUser(ctx, creds.Username, string(hash))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create user failed")
		return "", fmt.Errorf("error creating user: %w", err)
	}
	span.SetAttributes(attribute.String("user.id", userID.String()))

	token, err = s.tokens.Issue(userID.String())
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token issue failed")
		return "", err
	}

	l.InfoContext(ctx, "User signed up", slog.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "User signed up")
	return token, nil
}

func (s *AuthServiceImpl) Signin(ctx context.Context, creds Credentials) (token string, err error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Signin")
	defer span.End()

	defer func() {
		metrics.Get().SigninRequestsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("outcome", metrics.Outcome(err))))
	}()

	l := s.logger.With(slog.String("method", "Signin"), slog.String("username", creds.Username))

	if err = ValidateCredentials(creds); err != nil {
		l.DebugContext(ctx, "Signin input rejected", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid input")
		return "", err
	}

	user, err := s.repo.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.InfoContext(ctx, "Signin for unknown username")
			span.SetStatus(codes.Error, "Unknown username")
			err = types.ErrInvalidCredentials
			return "", err
		}
		l.ErrorContext(ctx, "Failed to look up username", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return "", fmt.Errorf("error fetching user: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		l.InfoContext(ctx, "Signin with wrong password")
		span.SetStatus(codes.Error, "Wrong password")
		err = types.ErrInvalidCredentials
		return "", err
	}

	token, err = s.tokens.Issue(user.ID.String())
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token issue failed")
		return "", err
	}

	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	span.SetStatus(codes.Ok, "User signed in")
	return token, nil
}

func (s *AuthServiceImpl) ResolveUser(ctx context.Context, token string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "ResolveUser")
	defer span.End()

	subject, err := s.tokens.Verify(token)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid token")
		return nil, err
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid subject")
		return nil, fmt.Errorf("token subject %q is not a user id: %w", subject, types.ErrUnauthenticated)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("token user %s no longer exists: %w", userID, types.ErrUnauthenticated)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "User lookup failed")
		return nil, fmt.Errorf("error resolving token user: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	span.SetStatus(codes.Ok, "User resolved")
	return user, nil
}
