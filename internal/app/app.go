// Package app assembles and runs a service: configuration, logging, storage
// selection, routing and graceful shutdown. The user and rating services share
// everything but their router.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patric-chuzhbe/hotelratings/internal/config"
	"github.com/patric-chuzhbe/hotelratings/internal/db/jsondb"
	"github.com/patric-chuzhbe/hotelratings/internal/db/memorystorage"
	"github.com/patric-chuzhbe/hotelratings/internal/db/mongodb"
	"github.com/patric-chuzhbe/hotelratings/internal/db/postgresdb"
	"github.com/patric-chuzhbe/hotelratings/internal/db/storage"
	"github.com/patric-chuzhbe/hotelratings/internal/logger"
	"github.com/patric-chuzhbe/hotelratings/internal/models"
	"github.com/patric-chuzhbe/hotelratings/internal/ratingservice"
	"github.com/patric-chuzhbe/hotelratings/internal/remote"
	"github.com/patric-chuzhbe/hotelratings/internal/router"
	"github.com/patric-chuzhbe/hotelratings/internal/userservice"
)

const (
	UserServiceName   = "userservice"
	RatingServiceName = "ratingservice"

	DefaultUserServiceAddr   = ":8081"
	DefaultRatingServiceAddr = ":8083"

	shutdownTimeout = 10 * time.Second
)

// App holds the configuration, the store and the HTTP handler of one service.
type App struct {
	name        string
	cfg         *config.Config
	db          storage.Storage
	httpHandler http.Handler
}

// NewUserService builds the user service: its store plus the HTTP clients of
// the rating and hotel services.
func NewUserService(opts ...config.InitOption) (*App, error) {
	app, err := newApp(UserServiceName, DefaultUserServiceAddr, opts...)
	if err != nil {
		return nil, err
	}

	remoteOptions := []remote.Option{
		remote.WithTimeout(app.cfg.RemoteCallTimeout),
		remote.WithCircuitBreaker(app.cfg.CircuitBreaker),
	}
	users := userservice.New(
		app.db,
		remote.NewRatingClient(app.cfg.RatingServiceURL, remoteOptions...),
		remote.NewHotelClient(app.cfg.HotelServiceURL, remoteOptions...),
		userservice.WithEnrichmentMode(app.cfg.EnrichmentMode),
		userservice.WithWorkers(app.cfg.EnrichmentWorkers),
	)
	app.httpHandler = router.NewUserRouter(users)

	logger.Log.Infow("user service configured",
		"ratingServiceURL", app.cfg.RatingServiceURL,
		"hotelServiceURL", app.cfg.HotelServiceURL,
		"enrichmentMode", app.cfg.EnrichmentMode,
		"circuitBreaker", app.cfg.CircuitBreaker,
	)

	return app, nil
}

func NewRatingService(opts ...config.InitOption) (*App, error) {
	app, err := newApp(RatingServiceName, DefaultRatingServiceAddr, opts...)
	if err != nil {
		return nil, err
	}

	app.httpHandler = router.NewRatingRouter(ratingservice.New(app.db))

	return app, nil
}

func newApp(name, defaultAddr string, opts ...config.InitOption) (*App, error) {
	var err error
	app := &App{name: name}

	opts = append([]config.InitOption{config.WithDefaultRunAddr(defaultAddr)}, opts...)
	app.cfg, err = config.New(opts...)
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel, name)
	if err != nil {
		return nil, err
	}

	app.db, err = getStorageByType(app.cfg)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Handler exposes the routes, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.httpHandler
}

// Run serves HTTP until SIGINT or SIGTERM, then drains in-flight requests
// and closes the store.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.serve(ctx)
}

func (a *App) serve(ctx context.Context) error {
	logger.Log.Infoln("server running", "service", a.name, "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Closing storage and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.db.Close()

	case err := <-serverErrCh:
		if closeErr := a.db.Close(); closeErr != nil {
			logger.Log.Errorw("storage close error", "error", closeErr)
		}
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.MongoURI != "" {
		return models.StorageTypeMongo
	}

	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.DBFileName != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (storage.Storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypeMongo:
		logger.Log.Infow("using MongoDB storage", "database", cfg.MongoDatabase)
		return mongodb.New(
			context.Background(),
			cfg.MongoURI,
			cfg.MongoDatabase,
			cfg.DBConnectionTimeout,
		)

	case models.StorageTypePostgresql:
		logger.Log.Infoln("using PostgreSQL storage")
		var options []postgresdb.InitOption
		if cfg.MigrationsDir != "" {
			options = append(options, postgresdb.WithMigrationsDir(cfg.MigrationsDir))
		}
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			options...,
		)

	case models.StorageTypeFile:
		logger.Log.Infow("using JSON file storage", "file", cfg.DBFileName)
		return jsondb.New(cfg.DBFileName)
	}

	logger.Log.Infoln("using in-memory storage")
	return memorystorage.New()
}
