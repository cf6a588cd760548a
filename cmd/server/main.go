package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"storefront-api/internal/config"
	"storefront-api/internal/customer"
	"storefront-api/internal/db"
	"storefront-api/internal/httpapi"
	"storefront-api/internal/logger"
	"storefront-api/internal/order"
	"storefront-api/internal/product"
	"storefront-api/internal/tasks"
	"storefront-api/internal/user"
	"storefront-api/internal/validation"
)

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
	customerSvc := customer.NewService(customerRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	v := validation.New()

	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:      httpapi.NewAuthHandler(userSvc, v),
		Customers: httpapi.NewCustomerHandler(customerSvc, v),
		Products:  httpapi.NewProductHandler(productSvc, v),
		Orders:    httpapi.NewOrderHandler(orderSvc, v),
		Tasks:     httpapi.NewTasksHandler(queue),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
