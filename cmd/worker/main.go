package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"storefront-api/internal/config"
	"storefront-api/internal/customer"
	"storefront-api/internal/db"
	"storefront-api/internal/logger"
	"storefront-api/internal/tasks"
)

const dequeueWait = 5 * time.Second

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	queue, err := tasks.NewRedisQueue(cfg.RedisAddr, cfg.TaskQueue)
	if err != nil {
		log.Fatal("failed to connect to task broker", zap.Error(err))
	}
	defer queue.Close()

	customerRepo := customer.NewRepository(database)

	registry := tasks.NewRegistry()
	registry.Register(tasks.JobExportActiveCustomers, tasks.ExportActiveCustomers(customerRepo))
	registry.Register(tasks.JobGreeting, tasks.Greeting())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("worker started", zap.String("queue", cfg.TaskQueue))
	run(ctx, log, queue, registry)
	log.Info("worker stopped")
}

func run(ctx context.Context, log *zap.Logger, queue tasks.Queue, registry *tasks.Registry) {
	for {
		job, err := queue.Dequeue(ctx, dequeueWait)
		if err != nil {
			if errors.Is(err, tasks.ErrQueueEmpty) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.Error("dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		// A failed job is logged and dropped; Dispatch records the outcome.
		_ = registry.Dispatch(ctx, job)
	}
}
