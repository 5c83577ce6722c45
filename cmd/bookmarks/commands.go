package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppfellow/bookmarks/internal/config"
	"github.com/deppfellow/bookmarks/internal/database"
	"github.com/deppfellow/bookmarks/internal/handler"
	loggerPkg "github.com/deppfellow/bookmarks/internal/logger"
	"github.com/deppfellow/bookmarks/internal/repository"
	"github.com/deppfellow/bookmarks/internal/router"
	"github.com/deppfellow/bookmarks/internal/server"
	"github.com/deppfellow/bookmarks/internal/service"
)

// DefaultContextTimeout bounds migrations and graceful shutdown.
const DefaultContextTimeout = 30 * time.Second

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookmarks",
		Short:         "Bookmarks REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand(), newMigrateCommand())
	return root
}

func newServeCommand() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(skipMigrations)
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply schema migrations on startup")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate()
		},
	}
}

// bootstrap loads config and builds the logger pair every command needs.
func bootstrap() (*config.Config, *loggerPkg.LoggerService, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return nil, nil, zerolog.Nop(), err
	}

	loggerService := loggerPkg.NewLoggerService(cfg.Observability)
	log := loggerPkg.NewLoggerWithService(cfg.Observability, loggerService)

	return cfg, loggerService, log, nil
}

func runMigrate() error {
	cfg, loggerService, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	db, err := database.New(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to open database")
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout)
	defer cancel()

	if err := database.Migrate(ctx, &log, cfg, db); err != nil {
		log.Error().Err(err).Msg("failed to migrate database")
		return err
	}

	return nil
}

func runServe(skipMigrations bool) error {
	cfg, loggerService, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	if !skipMigrations {
		migrateCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout)
		err := database.Migrate(migrateCtx, &log, cfg, srv.DB)
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("failed to migrate database")
			_ = srv.Shutdown(context.Background())
			return err
		}
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Error().Err(err).Msg("could not create services")
		_ = srv.Shutdown(context.Background())
		return err
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers, services)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	case err := <-errCh:
		log.Error().Err(err).Msg("server stopped unexpectedly")
		_ = srv.Shutdown(context.Background())
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
