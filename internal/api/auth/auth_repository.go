package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

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

var _ UserRepository = (*PostgresUserRepo)(nil)

type UserRepository interface {
	// GetUserByUsername returns types.ErrNotFound when no user has that username.
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
	// GetUserByID returns types.ErrNotFound when the user does not exist.
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	// CreateUser inserts a user and returns its generated id.
	// Returns types.ErrConflict when the username is already taken.
	CreateUser(ctx context.Context, username, hashedPassword string) (uuid.UUID, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	db     database.DB
}

func NewPostgresUserRepo(db database.DB, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresUserRepo) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetUserByUsername", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	query := `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`
	return r.getUser(ctx, span, query, username)
}

func (r *PostgresUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetUserByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	query := `SELECT id, username, password_hash, created_at FROM users WHERE id = $1`
	return r.getUser(ctx, span, query, userID)
}

func (r *PostgresUserRepo) getUser(ctx context.Context, span trace.Span, query string, arg any) (*types.User, error) {
	var user types.User
	start := time.Now()
	err := r.db.QueryRow(ctx, query, arg).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.RecordDBQuery(ctx, "users", "SELECT", start, nil)
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user not found: %w", types.ErrNotFound)
		}
		metrics.RecordDBQuery(ctx, "users", "SELECT", start, err)
		r.logger.ErrorContext(ctx, "Failed to query user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	metrics.RecordDBQuery(ctx, "users", "SELECT", start, nil)

	span.SetStatus(codes.Ok, "User fetched")
	return &user, nil
}

func (r *PostgresUserRepo) CreateUser(ctx context.Context, username, hashedPassword string) (uuid.UUID, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateUser"), slog.String("username", username))

	var userID uuid.UUID
	query := `INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id`

	start := time.Now()
	err := r.db.QueryRow(ctx, query, username, hashedPassword).Scan(&userID)
	metrics.RecordDBQuery(ctx, "users", "INSERT", start, err)
	if err != nil {
		span.RecordError(err)
		if database.IsUniqueViolation(err) {
			l.WarnContext(ctx, "Username already taken")
			span.SetStatus(codes.Error, "Username conflict")
			return uuid.Nil, fmt.Errorf("username %q already exists: %w", username, types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.SetStatus(codes.Error, "DB INSERT failed")
		return uuid.Nil, fmt.Errorf("database error creating user: %w", err)
	}

	l.DebugContext(ctx, "User created", slog.String("userID", userID.String()))
	span.SetAttributes(attribute.String("db.user.id", userID.String()))
	span.SetStatus(codes.Ok, "User created")
	return userID, nil
}
