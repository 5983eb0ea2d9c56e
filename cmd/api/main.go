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

	appclassify "github.com/bryanwahyu/drive-sentinel/internal/application/classify"
	appscan "github.com/bryanwahyu/drive-sentinel/internal/application/scan"
	"github.com/bryanwahyu/drive-sentinel/internal/config"
	domainscan "github.com/bryanwahyu/drive-sentinel/internal/domain/scan"
	openaiClient "github.com/bryanwahyu/drive-sentinel/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/drive-sentinel/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/drive-sentinel/internal/infra/db/postgres"
	"github.com/bryanwahyu/drive-sentinel/internal/infra/extract"
	"github.com/bryanwahyu/drive-sentinel/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/drive-sentinel/internal/infra/storage"
	"github.com/bryanwahyu/drive-sentinel/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// init file store (S3-compatible drive)
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

	// optional failure audit DB
	var (
		db       *sql.DB
		failures domainscan.FailureLog
	)
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		failures = mysqlp.NewFailureRepository(db)
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		failures = postgresp.NewFailureRepository(db)
	case "":
		// audit log disabled
	default:
		log.Fatalf("unknown database driver: %q", cfg.Database.Driver)
	}
	if db != nil {
		defer db.Close()
	}

	// classifier: rule engine + optional rate-limited secondary analyzer
	classifier := &appclassify.Service{
		Limiter: appclassify.NewTokenBucket(cfg.Scanner.AnalyzerRatePerHour),
	}
	if cfg.OpenAI.APIKey != "" {
		classifier.Analyzer = openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}

	// scan cache, one per process lifetime
	cache := appscan.NewCache(cfg.Scanner.CacheTTL.Std())

	// init scan service
	svc := &appscan.Service{
		Store:      store,
		Extractor:  extract.New(store, cfg.Scanner.MaxFileSize),
		Classifier: classifier,
		Cache:      cache,
		Snapshots:  store,
		Failures:   failures,
		Clock:      appscan.SystemClock{},
		Opts: appscan.Options{
			BatchSize:             cfg.Scanner.BatchSize,
			BatchTimeout:          cfg.Scanner.BatchTimeout.Std(),
			ExtractionTimeout:     cfg.Scanner.ExtractionTimeout.Std(),
			ClassificationTimeout: cfg.Scanner.ClassificationTimeout.Std(),
		},
	}

	// init router
	mux := chi.NewRouter()
	if len(cfg.Server.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Server.APIKeys))
	}
	mux.Use(middleware.RateLimitMiddleware(cfg.Server.RateLimitCapacity, cfg.Server.RateLimitPerSec))

	checkers := map[string]middleware.HealthChecker{
		"filestore": &middleware.FileStoreHealthChecker{Store: store},
	}
	if db != nil {
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}
	mux.Get("/healthz", middleware.HealthHandler(checkers))
	mux.Mount("/", httpserver.NewRouter(svc, cache))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // scans run synchronously
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
