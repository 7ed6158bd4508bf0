package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"task-tracker-api/internal/config"
	"task-tracker-api/internal/database"
	"task-tracker-api/internal/logger"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/routes"
	"task-tracker-api/internal/store"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.WithError(err).Fatal("failed to load config")
	}
	log := logger.Init("task-tracker-api", cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg.DB)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	log.WithField("driver", cfg.DB.Driver).Info("database connected and migrated")

	ginRoutes := routes.SetupRoutes(routes.Options{
		Store:            store.NewGormTaskStore(db),
		Hub:              realtime.GetHub(),
		Logger:           log,
		AuthRequired:     cfg.AuthRequired,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: ginRoutes,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server starting")
		log.Info("API endpoints:")
		for _, r := range ginRoutes.Routes() {
			log.Infof("  %-6s %s", r.Method, r.Path)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			// The pool is closed only after in-flight requests have drained.
			"http-server": func(ctx context.Context) error {
				log.Info("shutting down http server")
				if err := srv.Shutdown(ctx); err != nil {
					return err
				}
				return database.Close(db)
			},
		},
	)

	exitCode := <-wait
	log.WithField("exit_code", exitCode).Info("server stopped")
	os.Exit(exitCode)
}
