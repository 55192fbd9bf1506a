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

	"github.com/Dan9191/finances-service/internal/config"
	"github.com/Dan9191/finances-service/internal/handler"
	"github.com/Dan9191/finances-service/internal/repository"
	"github.com/Dan9191/finances-service/internal/scheduler"
	"github.com/Dan9191/finances-service/internal/service"
	"github.com/Dan9191/finances-service/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
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

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warnf("Unknown timezone %q, falling back to UTC: %v", cfg.Timezone, err)
		loc = time.UTC
	}

	// Money is served as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, logger, service.Options{
		Locale:      cfg.Locale,
		Location:    loc,
		TrendMonths: cfg.TrendMonths,
		Rules: &service.AlertRules{
			OverdueCriticalThreshold: cfg.OverdueCriticalThreshold,
		},
	})
	h := handler.NewHandler(svc, repo, logger)

	// Digest e-mails
	if cfg.DigestConfigured() {
		job := scheduler.NewDigestJob(repo, svc, email.NewSender(cfg, logger), logger)
		c, err := job.Schedule(cfg.DigestCron, loc)
		if err != nil {
			logger.Fatalf("Failed to schedule digest: %v", err)
		}
		c.Start()
		defer c.Stop()
		logger.Infof("Finance digest scheduled: %s (%s)", cfg.DigestCron, loc)
	} else {
		logger.Info("Finance digest disabled")
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, cfg.JWTSecret, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
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
