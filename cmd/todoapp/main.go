// Command todoapp runs the task management application.
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
	"github.com/staffboard/todo-system/internal/infrastructure/authclient"
	"github.com/staffboard/todo-system/internal/infrastructure/db/postgres"
	rediscache "github.com/staffboard/todo-system/internal/infrastructure/db/redis"
	"github.com/staffboard/todo-system/internal/infrastructure/http/handlers"
	"github.com/staffboard/todo-system/internal/infrastructure/seed"
	"github.com/staffboard/todo-system/internal/pkg/config"
	"github.com/staffboard/todo-system/internal/pkg/session"
	"github.com/staffboard/todo-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadToDoApp(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Service: "todo-app"})
		boot.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty(),
		Service: "todo-app",
	})

	db, err := postgres.Connect(ctx, postgres.Config{
		DSN:          cfg.Postgres.DSN,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrate schema")
	}

	rdb, err := rediscache.Connect(ctx, rediscache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	employeeRepo := postgres.NewEmployeeRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	if cfg.SeedAppFile != "" {
		if err := seed.App(ctx, cfg.SeedAppFile, employeeRepo, taskRepo, log); err != nil {
			log.Fatal().Err(err).Msg("seed application data")
		}
	}

	issuer := authclient.New(cfg.AuthURL, &http.Client{Timeout: cfg.AuthTimeout})
	notifications := service.NewNotificationService(notificationRepo, log)
	employees := service.NewEmployeeService(employeeRepo, rediscache.NewEmployeeCache(rdb, cfg.EmployeeCache), log)

	e := api.NewAppRouter(api.AppDeps{
		Login: service.NewLoginService(issuer, []byte(cfg.JWTSecret), log),
		Sessions: session.NewManager(session.Config{
			Key:        []byte(cfg.Session.Secret),
			CookieName: cfg.Session.CookieName,
			Window:     cfg.Session.Window,
			Secure:     cfg.Session.Secure,
		}),
		Employees:     employees,
		Tasks:         service.NewTaskService(taskRepo, commentRepo, employeeRepo, notifications, log),
		Notifications: notifications,
		Dashboard:     service.NewDashboardService(taskRepo, employeeRepo),
		Checks: map[string]handlers.Check{
			"postgres": postgres.Pinger(db),
			"redis":    rediscache.Pinger(rdb),
		},
		Log: log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("auth_api", cfg.AuthURL).Msg("todo app listening")
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
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
