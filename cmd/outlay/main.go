package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"outlay/internal/amqp"
	"outlay/internal/backend"
	"outlay/internal/config"
	apphttp "outlay/internal/http"
	applog "outlay/internal/log"
	"outlay/internal/service"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentApp)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid store configuration", "error", err)
		os.Exit(1)
	}

	store, err := backend.NewFactory(logger.Logger).CreateStore(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}

	// AMQP is optional: without it expenses are stored but never mirrored.
	var events service.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		events = client
		logger.Info("Event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Event publishing disabled - no AMQP_URL provided")
	}

	svc := service.New(store.Store, events, cfg.StoreTimeout)
	srv := apphttp.NewServer(":"+cfg.Port, svc)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if store.Cleanup != nil {
			if err := store.Cleanup(shutdownCtx); err != nil {
				logger.Error("Store cleanup error", "error", err)
			}
		}
		cancel()
	}()

	logger.Info("Starting outlay server", "port", cfg.Port, "backend", cfg.StoreBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
