package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoCodeAlone/datagateway/auth"
	"github.com/GoCodeAlone/datagateway/config"
	"github.com/GoCodeAlone/datagateway/download"
	"github.com/GoCodeAlone/datagateway/health"
	"github.com/GoCodeAlone/datagateway/index"
	"github.com/GoCodeAlone/datagateway/metrics"
	"github.com/GoCodeAlone/datagateway/middleware"
	"github.com/GoCodeAlone/datagateway/storage"
)

var (
	configFile = flag.String("config", "", "Path to configuration YAML file")
	addr       = flag.String("addr", "", "HTTP listen address (overrides config)")
)

func main() {
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	var cfg *config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.LoadFromFile(*configFile)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	} else {
		cfg = config.Load()
		logger.Info("No config file specified, using defaults")
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metadata index client.
	solr, err := index.NewClient(index.ClientConfig{
		BaseURL: cfg.Solr.BaseURL,
		Core:    cfg.Solr.Core,
		Timeout: cfg.Solr.Timeout.Std(),
	})
	if err != nil {
		log.Fatalf("Failed to create solr client: %v", err)
	}
	resolver := index.NewResolver(solr, logger)

	// Object storage presigner, optional.
	var issuer download.URLIssuer
	if cfg.S3.Bucket != "" || cfg.S3.Endpoint != "" {
		s3Client, err := storage.NewS3Client(ctx, storage.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 client: %v", err)
		}
		issuer = storage.NewPresigner(s3Client, cfg.S3.Bucket, cfg.S3.URLTTL.Std(), logger)
	} else {
		logger.Warn("No object storage configured; s3-backed records will fail")
	}

	// Access-control predicate source.
	var predicates auth.PredicateSource
	if cfg.Auth.Secret != "" {
		predicates, err = auth.NewJWTSource(cfg.Auth.Secret, cfg.Auth.PredicateClaim, cfg.Auth.AnonymousPredicate)
		if err != nil {
			log.Fatalf("Failed to create predicate source: %v", err)
		}
	} else {
		predicates = auth.Static{Value: cfg.Auth.AnonymousPredicate}
		logger.Warn("No JWT secret configured; applying the anonymous predicate to all requests",
			"predicate", cfg.Auth.AnonymousPredicate)
	}

	local := storage.NewLocal(cfg.Local.AllowedRoots, logger)
	collector := metrics.NewCollector("datagateway")

	checker := health.NewChecker()
	checker.RegisterCheck("index", func(ctx context.Context) health.CheckResult {
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		defer pingCancel()
		if err := solr.Ping(pingCtx); err != nil {
			return health.Unhealthy(err.Error())
		}
		return health.Healthy()
	})

	mux := http.NewServeMux()
	download.NewHandler(resolver, issuer, local, predicates, logger, collector).RegisterRoutes(mux)
	checker.RegisterRoutes(mux)
	mux.Handle("/metrics", collector.Handler())

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: middleware.NewRequestLogger(logger).Process(mux),
	}

	go func() {
		logger.Info("Starting server", "addr", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()
	checker.SetStarted(true)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down")
	checker.SetStarted(false)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	logger.Info("Shutdown complete")
}
