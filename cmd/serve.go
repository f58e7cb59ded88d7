package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"songvault/internal/app"
	"songvault/internal/config"
	"songvault/internal/repositories"
	"songvault/internal/services"
	"songvault/internal/storage"
	"songvault/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("Configuration loaded", zap.Stringer("config", cfg))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	stores, err := repositories.Open(ctx, cfg.DatabaseURI, log)
	if err != nil {
		return err
	}
	defer stores.Close(context.Background())
	if err := stores.Migrate(ctx); err != nil {
		return err
	}

	files, err := openObjectStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	deps := app.Dependencies{
		Users: stores.Users,
		Songs: stores.Songs,
		Files: files,
	}

	// --- Optional integrations ---
	if cfg.Rabbit.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.Rabbit.URL, Queue: cfg.Rabbit.Queue}, log)
		if err != nil {
			return err
		}
		defer mq.Close()
		deps.Publisher = mq
	}

	if cfg.Redis.URL != "" && cfg.Joke.CacheTTL > 0 {
		cache, err := services.NewRedisJokeCache(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn("Joke cache disabled", zap.Error(err))
		} else {
			defer cache.Close()
			deps.JokeCache = cache
		}
	}

	application, err := app.New(cfg, deps, log)
	if err != nil {
		return err
	}

	// --- Start HTTP Server ---
	listenErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", cfg.Addr()))
		listenErr <- application.Listen(cfg.Addr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	if err := application.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("Error during Fiber shutdown", zap.Error(err))
	}
	log.Info("Server gracefully stopped")
	return nil
}

func openObjectStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.ObjectStore, error) {
	if !cfg.Minio.Enabled() {
		log.Info("Storing resources on disk", zap.String("dir", cfg.ResourcesDir))
		return storage.NewDiskStore(cfg.ResourcesDir), nil
	}

	store, err := storage.NewMinioStore(ctx, storage.MinioConfig{
		Endpoint:  cfg.Minio.Endpoint,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		Bucket:    cfg.Minio.Bucket,
		UseSSL:    cfg.Minio.UseSSL,
	}, log)
	if err != nil {
		return nil, err
	}
	log.Info("Storing resources in MinIO", zap.String("endpoint", cfg.Minio.Endpoint), zap.String("bucket", cfg.Minio.Bucket))
	return store, nil
}
