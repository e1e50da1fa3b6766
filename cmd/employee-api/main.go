package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/adfharrison1/employee-api/pkg/config"
	"github.com/adfharrison1/employee-api/pkg/domain"
	"github.com/adfharrison1/employee-api/pkg/logger"
	"github.com/adfharrison1/employee-api/pkg/mongostore"
	"github.com/adfharrison1/employee-api/pkg/server"
	"github.com/adfharrison1/employee-api/pkg/storage"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(os.Args[0], os.Args[1:], os.LookupEnv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log, logCloser, err := logger.Init(logger.Options{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		FilePath: cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("Server exited with error")
		logCloser.Close()
		os.Exit(1)
	}
	log.Info().Msg("Server exited")
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	srv := server.NewServer(cfg.Addr(), store, cfg.Backend, log)

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Msgf("API endpoints available at http://localhost:%s", cfg.Port)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
	case <-ctx.Done():
		log.Info().Msg("Shutting down server...")
	}

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if closeErr := srv.Close(shutdownCtx); closeErr != nil {
		return errors.Join(err, closeErr)
	}
	return err
}

// openStore connects the configured backend
func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (domain.EmployeeStore, error) {
	switch cfg.Backend {
	case config.BackendMongo:
		log.Info().Str("database", cfg.MongoDatabase).Str("collection", cfg.MongoCollection).Msg("Connecting to MongoDB")
		store, err := mongostore.Connect(ctx, mongostore.Options{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDatabase,
			Collection:     cfg.MongoCollection,
			ConnectTimeout: cfg.ConnectTimeout,
			Logger:         log,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		return store, nil

	default:
		storageOptions := []storage.StorageOption{
			storage.WithDataFile(cfg.DataFile),
			storage.WithLogger(log),
		}
		if cfg.BackgroundSave > 0 {
			storageOptions = append(storageOptions, storage.WithBackgroundSave(cfg.BackgroundSave))
			log.Info().Msgf("Background save enabled: every %v", cfg.BackgroundSave)
		} else {
			storageOptions = append(storageOptions, storage.WithTransactionSave(true))
		}

		engine := storage.NewStorageEngine(storageOptions...)
		if cfg.DataFile != "" {
			log.Info().Str("file", cfg.DataFile).Msg("Loading data")
			if err := engine.LoadFromFile(cfg.DataFile); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", cfg.DataFile, err)
			}
		} else {
			log.Warn().Msg("No data file configured - employees are kept in memory only")
		}
		engine.StartBackgroundWorkers()

		return storage.NewEmployeeRepository(engine, storage.DefaultCollection), nil
	}
}
