package container

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-notes-api/app/db"
	"github.com/FACorreiaa/go-notes-api/config"
	"github.com/FACorreiaa/go-notes-api/internal/api/auth"
	"github.com/FACorreiaa/go-notes-api/internal/api/notes"
	"github.com/FACorreiaa/go-notes-api/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *slog.Logger
	Pool         *pgxpool.Pool
	AuthHandler  *auth.HandlerImpl
	NotesHandler *notes.HandlerImpl
	Authenticate func(http.Handler) http.Handler
}

// NewContainer opens the connection pool and wires repositories, services and handlers.
func NewContainer(ctx context.Context, cfg *config.Config, connectionURL string, logger *slog.Logger) (*Container, error) {
	pool, err := database.Init(ctx, connectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	c := New(cfg, pool, logger)
	c.Pool = pool
	return c, nil
}

// New wires the application on top of an existing store handle.
func New(cfg *config.Config, db database.DB, logger *slog.Logger) *Container {
	userRepo := auth.NewPostgresUserRepo(db, logger)
	tokens := auth.NewJWTManager(cfg.JWT)
	authService := auth.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost, logger)
	authHandler := auth.NewAuthHandlerImpl(authService, logger)

	notesRepo := notes.NewPostgresNotesRepo(db, logger)
	notesService := notes.NewNotesService(notesRepo, logger)
	notesHandler := notes.NewNotesHandlerImpl(notesService, logger)

	return &Container{
		Config:       cfg,
		Logger:       logger,
		AuthHandler:  authHandler,
		NotesHandler: notesHandler,
		Authenticate: auth.Authenticate(authService, logger),
	}
}

// RouterConfig exposes the handlers to the router.
func (c *Container) RouterConfig() *router.Config {
	return &router.Config{
		AuthHandler:            c.AuthHandler,
		NotesHandler:           c.NotesHandler,
		AuthenticateMiddleware: c.Authenticate,
		AllowedOrigins:         c.Config.Server.AllowedOrigins,
	}
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
