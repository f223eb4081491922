package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/scidiscoveries/internal/bootstrap"
	"anoa.com/scidiscoveries/internal/config"
	"anoa.com/scidiscoveries/internal/server"
	"anoa.com/scidiscoveries/pkg/database"
	"anoa.com/scidiscoveries/pkg/logger"
	"anoa.com/scidiscoveries/pkg/storage"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load config")
	}
	logger.Init(cfg.AppEnv, cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("database connection failed")
	}
	if err := bootstrap.Migrate(db); err != nil {
		logger.Log.WithError(err).Fatal("migration failed")
	}

	redisClient := connectRedis(cfg)
	imageStorage := connectStorage(cfg)

	srv, services := server.NewServer(cfg, db, redisClient, imageStorage)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := bootstrap.SeedScientificFields(seedCtx, services.Field); err != nil {
		cancelSeed()
		logger.Log.WithError(err).Fatal("failed to seed scientific fields")
	}
	cancelSeed()

	go func() {
		logger.Log.WithField("port", cfg.Port).Info("http server listening")
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("server exited with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Log.Info("server exited")
}

// connectRedis returns nil when Redis is not configured or unreachable; rate limiting is then off.
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisURL == "" {
		logger.Log.Warn("REDIS_URL not set, rate limiting disabled")
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Log.WithError(err).Warn("invalid REDIS_URL, rate limiting disabled")
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.WithError(err).Warn("redis unreachable, rate limiting disabled")
		_ = client.Close()
		return nil
	}

	logger.Log.Info("connected to redis")
	return client
}

func connectStorage(cfg *config.Config) storage.ImageStorage {
	if !cfg.CloudinaryEnabled() {
		logger.Log.Warn("CLOUDINARY_URL not set, avatar uploads disabled")
		return nil
	}

	imageStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryCloudName, cfg.CloudinaryUploadFolder)
	if err != nil {
		logger.Log.WithError(err).Warn("cloudinary unavailable, avatar uploads disabled")
		return nil
	}
	return imageStorage
}
