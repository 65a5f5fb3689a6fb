package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/adwatch/adscan/internal/application"
	appscans "github.com/adwatch/adscan/internal/application/scans"
	"github.com/adwatch/adscan/internal/config"
	domfail "github.com/adwatch/adscan/internal/domain/scanfailures"
	domain "github.com/adwatch/adscan/internal/domain/scans"
	openaiClient "github.com/adwatch/adscan/internal/infra/ai/openai"
	"github.com/adwatch/adscan/internal/infra/ai/prompt"
	mysqlp "github.com/adwatch/adscan/internal/infra/db/mysql"
	postgresp "github.com/adwatch/adscan/internal/infra/db/postgres"
	"github.com/adwatch/adscan/internal/infra/httpserver"
	minioStore "github.com/adwatch/adscan/internal/infra/storage"
	"github.com/adwatch/adscan/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// connect database, either driver implements the same ports
	var (
		db       *sql.DB
		repo     domain.Repository
		failures domfail.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repo = postgresp.NewScanRepository(db)
		failures = postgresp.NewFailureRepository(db)
	case "mysql", "":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repo = mysqlp.NewScanRepository(db)
		failures = mysqlp.NewFailureRepository(db)
	default:
		log.Fatalf("unknown database driver: %q", cfg.Database.Driver)
	}
	defer db.Close()

	// optional image archive
	var images domain.ImageStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		images = store
	}

	// init service
	svc := &appscans.Service{
		Repo:       repo,
		Classifier: openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model),
		Prompts:    prompt.NewBuilder(),
		Failures:   failures,
		Images:     images,
		Clock:      application.SystemClock{},
		Logger:     logger,
	}

	// init router
	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(svc, logger, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // classifier calls can take a while
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
}
