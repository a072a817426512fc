package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ravenholt/encounter-engine/internal/config"
	"github.com/ravenholt/encounter-engine/internal/logger"
	"github.com/ravenholt/encounter-engine/internal/services"
	"github.com/ravenholt/encounter-engine/internal/services/queue"
	"github.com/ravenholt/encounter-engine/internal/storage"
	"github.com/ravenholt/encounter-engine/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Encounter Engine Worker",
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL)

	// Initialize queue service
	queueClient, err := queue.NewClient(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing queue client", "error", err)
		}
	}()

	fragmentQueue := queue.NewFragmentQueue(queueClient, log)
	log.Info("Queue service initialized successfully")

	// Initialize storage service
	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage service initialized successfully")

	// Optional continuation callbacks to the narrator service
	notifier := services.NewContinuationNotifier(cfg.NarratorURL, log)
	if notifier.Enabled() {
		log.Info("Continuation notifier enabled", "narrator_url", cfg.NarratorURL)
	}

	processor := worker.NewFragmentProcessor(store, fragmentQueue, notifier, log)
	log.Info("Fragment processor initialized successfully")

	// Create and start worker with processor
	w := worker.New(fragmentQueue, processor, queueClient.GetRedisClient(), log, os.Getenv("WORKER_ID"))

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start worker in goroutine
	go func() {
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("Worker started, waiting for fragments...")

	// Wait for shutdown signal
	<-quit
	log.Info("Worker shutdown signal received")

	// Stop worker
	w.Stop()

	// Give worker time to finish current request
	time.Sleep(2 * time.Second)

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Worker exited")
}
