package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jeremyjsx/stories/internal/config"
	"github.com/jeremyjsx/stories/internal/db/postgres"
	"github.com/jeremyjsx/stories/internal/events"
	"github.com/jeremyjsx/stories/internal/handlers"
	"github.com/jeremyjsx/stories/internal/middleware"
	"github.com/jeremyjsx/stories/internal/posts"
	"github.com/jeremyjsx/stories/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.S3Bucket == "" {
		logger.Error("S3_BUCKET is required")
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := postgres.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.MigrateUp(ctx, db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	store := storage.NewS3Storage(s3Client, cfg.S3Bucket)

	var pub events.Publisher = events.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		rmq, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer rmq.Close()
		pub = rmq
	}

	repo := postgres.NewPostRepository(db)
	svc := posts.NewService(repo, store, pub, cfg.S3Bucket, cfg.AWSRegion, cfg.S3PublicURL, logger)
	h := handlers.NewPostsHandler(svc, logger)

	mux := handlers.NewRouter(h, handlers.Health(&handlers.HealthDeps{
		DB:          db,
		Storage:     store,
		RabbitMQURL: cfg.RabbitMQURL,
	}))

	handler := middleware.RequestID(
		middleware.Logging(logger)(
			middleware.CORS(cfg.AllowedOrigins)(
				middleware.APIKey(cfg.APIKey)(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("stories: server started", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
