package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/config"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/database"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/router"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/pkg/cloudinary"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/pkg/storage"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db)

	cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		log.Fatalf("cloudinary: %v", err)
	}

	// Documents bucket is optional; without it document uploads answer 503.
	var docs storage.DocumentStore
	if cfg.Minio.AccessKey != "" {
		docs, err = storage.NewDocumentStore(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
		if err != nil {
			log.Printf("[storage] document store disabled: %v", err)
			docs = nil
		}
	} else {
		log.Printf("[storage] document store disabled: set MINIO_ACCESS_KEY to enable")
	}

	// Redis is optional too; the badge falls back to counting per request.
	var rdb *redis.Client
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("[redis] badge cache disabled: %v", err)
	} else {
		rdb = client
	}
	pingCancel()

	engine, mergeSvc := router.Setup(cfg, db, cloud, docs, rdb)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go mergeSvc.Run(sweepCtx, cfg.Chat.MergeInterval)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
