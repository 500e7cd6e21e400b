// Command authapi runs the token issuer.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/staffboard/todo-system/internal/api"
	"github.com/staffboard/todo-system/internal/core/service"
	mongostore "github.com/staffboard/todo-system/internal/infrastructure/db/mongo"
	"github.com/staffboard/todo-system/internal/infrastructure/http/handlers"
	"github.com/staffboard/todo-system/internal/infrastructure/seed"
	"github.com/staffboard/todo-system/internal/pkg/config"
	"github.com/staffboard/todo-system/internal/pkg/token"
	"github.com/staffboard/todo-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAuthAPI(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Service: "auth-api"})
		boot.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty(),
		Service: "auth-api",
	})

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "auth-api",
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	users := mongostore.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure user indexes")
	}

	signer := token.NewSigner([]byte(cfg.JWTSecret), cfg.TokenTTL)
	authService := service.NewAuthService(users, signer, log)

	if cfg.SeedUsersFile != "" {
		if err := seed.Users(ctx, cfg.SeedUsersFile, users, authService, log); err != nil {
			log.Fatal().Err(err).Msg("seed users")
		}
	}

	e := api.NewAuthRouter(api.AuthDeps{
		Auth:      authService,
		JWTSecret: []byte(cfg.JWTSecret),
		Checks:    map[string]handlers.Check{"mongo": mongostore.Pinger(db)},
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("auth api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
