package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"cor_dashboard/internal/config"
	"cor_dashboard/internal/handlers"
	"cor_dashboard/internal/logger"
	"cor_dashboard/internal/repository"
	"cor_dashboard/internal/repository/db"
	"cor_dashboard/internal/server"
	"cor_dashboard/internal/service"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

func main() {
	// load configs/config.yml
	cfg, err := config.Load("configs", ".")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level)

	// open DB
	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer closeDB(sqlDB, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	if err := selectEventStore(ctx, cfg.Events, repos); err != nil {
		log.Fatalw("failed to init event store", "err", err, "store", cfg.Events.Store)
	}
	log.Infow("event store ready", "store", cfg.Events.Store)

	services := service.NewService(repos, log, cfg.Simulator.RandomSeed)
	apiHandler := handlers.NewHandler(services, log)

	if cfg.Simulator.Seed {
		if err := services.Simulator.Seed(ctx); err != nil {
			log.Fatalw("failed to seed demo fleet", "err", err)
		}
	}
	if cfg.Simulator.Enabled {
		go services.Simulator.Run(ctx, cfg.Simulator.Tick)
	}

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Server, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, cfg.Server, log)
}

// selectEventStore swaps the SQLite event repository for DynamoDB when configured.
func selectEventStore(ctx context.Context, cfg config.EventsConfig, repos *repository.Repository) error {
	if cfg.Store != config.StoreDynamoDB {
		return nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	repos.EventRepo = repository.NewEventDynamo(dynamodb.NewFromConfig(awsCfg), cfg.Table)
	return nil
}

func closeDB(sqlDB *sql.DB, log *logger.Logger) {
	if err := sqlDB.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, cfg config.ServerConfig, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", cfg.Port)
		err := srv.Run(cfg.Port, handler.InitRoutes(), server.Options{
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		})
		if err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, cfg config.ServerConfig, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the simulator
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
