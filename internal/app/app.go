package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/openroom/openroom-server/internal/auth"
	"github.com/openroom/openroom-server/internal/config"
	"github.com/openroom/openroom-server/internal/core"
	"github.com/openroom/openroom-server/internal/moderation"
	"github.com/openroom/openroom-server/internal/store"
	"github.com/openroom/openroom-server/internal/store/sqlite"
	transporthttp "github.com/openroom/openroom-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.BanStore
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init ban store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("ban store initialized")

	filter, err := moderation.New(cfg.BannedWords)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build word filter: %w", err)
	}

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.AdminTokenSecret),
		Issuer:   cfg.AdminTokenIssuer,
		Audience: cfg.AdminTokenAudience,
		TTL:      cfg.AdminTokenTTL,
	}

	authService, err := auth.NewService(cfg.AdminName, cfg.AdminPassword, jwtConfig)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("init admin auth: %w", err)
	}

	hub := core.NewHub(core.HubOptions{
		AdminName:   cfg.AdminName,
		BanDuration: cfg.BanDuration,
		Bans:        st,
		Filter:      filter,
		Gate:        authService,
		Logger:      logger,
	})

	server := transporthttp.NewServer(hub, authService, *cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the ban store and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close ban store")
		} else {
			a.log.Info().Msg("ban store closed")
		}
	}
}
