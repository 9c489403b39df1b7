package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/academy-service/internal/config"
	"github.com/Dan9191/academy-service/internal/db"
	"github.com/Dan9191/academy-service/internal/handler"
	"github.com/Dan9191/academy-service/internal/repository"
	"github.com/Dan9191/academy-service/internal/repository/inmem"
	"github.com/Dan9191/academy-service/internal/scheduler"
	"github.com/Dan9191/academy-service/internal/service"
	"github.com/Dan9191/academy-service/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	var store service.Store
	if cfg.DBConn == "memory" {
		logger.Warn("Using in-memory store, data will not survive a restart")
		store = inmem.NewStore()
	} else {
		conn, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer conn.Close()
		if err := conn.PingContext(ctx); err != nil {
			logger.Fatalf("Failed to ping database: %v", err)
		}
		if err := db.ApplyMigrations(ctx, conn, cfg.MigrationsDir, logger); err != nil {
			logger.Fatalf("Failed to apply migrations: %v", err)
		}
		store = repository.NewRepository(conn)
	}

	// Initialize layers
	svc := service.NewService(store, logger, cfg)
	h := handler.NewHandler(svc, logger)
	sender := email.NewSender(cfg, logger)

	jobs, err := scheduler.New(cfg, svc, sender, logger)
	if err != nil {
		logger.Fatalf("Failed to create scheduler: %v", err)
	}
	jobs.Start(ctx)
	defer jobs.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, cfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Server shutdown failed: %v", err)
		}
	}()

	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}
