package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carvalue-service/internal/adapters/primary/http/handlers"
	"carvalue-service/internal/adapters/primary/http/middleware"
	"carvalue-service/internal/adapters/secondary/artifact"
	"carvalue-service/internal/adapters/secondary/catalog"
	"carvalue-service/internal/adapters/secondary/postgres"
	"carvalue-service/internal/adapters/secondary/rawpages"
	"carvalue-service/internal/config"
	"carvalue-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Create database pool
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	// Secondary adapters
	listingRepo := postgres.NewListingRepository(pool)
	modelStore := artifact.NewStore()
	pageSource := rawpages.NewSource(cfg.Dataset.RawDir)
	catalogSource := catalog.NewSource(cfg.Dataset.CatalogPath)

	// Core services
	registrySvc := services.NewModelRegistryService(modelStore, cfg.Model.Dir, cfg.Model.Name)
	info, err := registrySvc.Reload()
	if err != nil {
		log.Fatalf("model not found: %v", err)
	}
	log.WithFields(log.Fields{"version": info.Version, "path": info.Path}).Info("model loaded")

	predictSvc, err := services.NewPredictionService(registrySvc, cfg.Model.CacheSize)
	if err != nil {
		log.Fatalf("create prediction service: %v", err)
	}
	scheduleSvc := services.NewScheduleService(predictSvc, listingRepo)
	insightSvc := services.NewInsightService(listingRepo)
	datasetSvc := services.NewDatasetService(pageSource, catalogSource, listingRepo)

	// Model directory watcher (optional)
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	if cfg.Model.Watch {
		watcher := artifact.NewWatcher(cfg.Model.Dir, func() {
			if _, err := registrySvc.Reload(); err != nil {
				log.WithError(err).Warn("model reload after change failed")
			}
		})
		go func() {
			if err := watcher.Run(watchCtx); err != nil && watchCtx.Err() == nil {
				log.WithError(err).Warn("model watcher stopped")
			}
		}()
	}

	// Primary adapter (HTTP)
	h := handlers.New(predictSvc, scheduleSvc, insightSvc, datasetSvc, registrySvc)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1/carvalue")
	h.RegisterRoutes(api)

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")
	cancelWatch()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
