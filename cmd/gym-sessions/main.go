package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/gym-sessions/internal/config"
	"github.com/deppfellow/gym-sessions/internal/database"
	"github.com/deppfellow/gym-sessions/internal/handler"
	"github.com/deppfellow/gym-sessions/internal/logger"
	"github.com/deppfellow/gym-sessions/internal/middleware"
	"github.com/deppfellow/gym-sessions/internal/repository"
	"github.com/deppfellow/gym-sessions/internal/router"
	"github.com/deppfellow/gym-sessions/internal/server"
	"github.com/deppfellow/gym-sessions/internal/service"
	"github.com/pkg/errors"
)

const DefaultContextTimeout = 30

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if !cfg.Database.SkipMigrations {
		if err := database.Migrate(context.Background(), &log, cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}

	if cfg.Auth.BootstrapAdminEmail != "" {
		if _, err := services.Auth.EnsureAdmin(context.Background(), cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure admin account")
		}
	}

	handlers := handler.NewHandlers(srv, services, repos)
	middlewares := middleware.NewMiddlewares(srv, services.Auth)
	r := router.NewRouter(srv, handlers, middlewares)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
