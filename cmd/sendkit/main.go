package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/lib/pq"

	"github.com/sendkit/sendkit/pkg/accounts"
	"github.com/sendkit/sendkit/pkg/api"
	"github.com/sendkit/sendkit/pkg/auth"
	"github.com/sendkit/sendkit/pkg/config"
	"github.com/sendkit/sendkit/pkg/integrations"
	"github.com/sendkit/sendkit/pkg/metering"
	"github.com/sendkit/sendkit/pkg/observability"
	"github.com/sendkit/sendkit/pkg/vault"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, os.Stdout)

	v, err := vault.New(cfg.Vault.SecretKey)
	if err != nil {
		log.Fatalf("Failed to initialize vault: %v", err)
	}

	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	verifier, err := auth.NewOIDCVerifier(context.Background(), cfg.Auth.OIDCIssuerURL)
	if err != nil {
		log.Fatalf("Failed to initialize OIDC verifier: %v", err)
	}

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	health := observability.NewHealthChecker(db, redisClient)

	dispatcher := api.NewQueueDispatcher(api.NewLogDispatcher(logger), 4, 64, logger)

	server := api.NewServer(api.Deps{
		Verifier:     verifier,
		Accounts:     accounts.NewPostgresStore(db),
		Integrations: integrations.NewPostgresStore(db, v),
		Counter:      metering.NewCounter(redisClient, "sends"),
		Dispatcher:   dispatcher,
		Logger:       logger,
		Metrics:      metrics,
	})

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      metrics.InstrumentHandler("api", server),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	opsMux := http.NewServeMux()
	opsMux.HandleFunc("/healthz", health.Liveness)
	opsMux.HandleFunc("/readyz", health.Readiness)
	opsMux.Handle("/metrics", metrics.Handler())
	opsServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.OpsPort,
		Handler: opsMux,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.WithField("addr", apiServer.Addr).Info("starting API server")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	go func() {
		logger.WithField("addr", opsServer.Addr).Info("starting ops server")
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("API server shutdown failed")
	}
	if err := opsServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("ops server shutdown failed")
	}
	if err := dispatcher.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("dispatcher shutdown incomplete")
	}
	logger.Info("shutdown complete")
}
