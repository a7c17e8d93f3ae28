package main

import (
	"cloudinary-assets/internal/adapters/eventbroker"
	"cloudinary-assets/internal/adapters/eventbroker/nats"
	"cloudinary-assets/internal/adapters/handlers/http/chi"
	v1asset "cloudinary-assets/internal/adapters/handlers/http/chi/v1/asset"
	"cloudinary-assets/internal/adapters/metrics/prometheus"
	"cloudinary-assets/internal/adapters/repository/postgres"
	"cloudinary-assets/internal/adapters/storage/cloudinary"
	"cloudinary-assets/internal/config"
	"cloudinary-assets/internal/core/port"
	"cloudinary-assets/internal/core/service/asset"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {
			logger.Error("failed to close database", "error", err)
			os.Exit(1)
		}
	}(db)
	logger.Info("db connection established")

	//metrics
	observer, err := prometheus.NewObserver("", nil)
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	//storage
	cloudinaryAdapter, err := cloudinary.NewAdapter(cfg.Cloudinary, logger, cloudinary.WithObserver(observer))
	if err != nil {
		logger.Error("failed to init cloudinary", "error", err)
		os.Exit(1)
	}

	//events
	var publisher port.EventPublisher = eventbroker.NopPublisher{}
	if cfg.NATS.Enabled() {
		natsPublisher, err := nats.NewNATSPublisher(ctx, cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to create NATS publisher", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := natsPublisher.Close(); err != nil {
				logger.Error("failed to close NATS publisher", "error", err)
			}
		}()
		publisher = natsPublisher
		logger.Info("NATS publisher initialized", "stream", cfg.NATS.StreamName)
	} else {
		logger.Info("NATS disabled, asset events are not published")
	}

	//repositories
	unitOfWork := postgres.NewUnitOfWork(db)

	assetService, err := asset.NewAssetService(unitOfWork, cloudinaryAdapter, publisher, cfg.Cloudinary, cfg.Upload, logger)
	if err != nil {
		logger.Error("failed to init asset service", "error", err)
		os.Exit(1)
	}

	//http
	assetHandler := v1asset.NewAssetHandlerV1(assetService, logger)

	router := chi.NewRouter(logger, assetHandler, prometheus.Handler(nil), cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}
