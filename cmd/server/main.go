package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aqsit-be/internal/config"
	"aqsit-be/internal/db"
	"aqsit-be/internal/httpx"
	"aqsit-be/internal/logger"
	"aqsit-be/internal/mailer"
	"aqsit-be/internal/moodboard"
	"aqsit-be/internal/notification"
	"aqsit-be/internal/order"
	"aqsit-be/internal/orderref"
	"aqsit-be/internal/outbox"
	"aqsit-be/internal/pricing"
	"aqsit-be/internal/product"
	"aqsit-be/internal/project"
	"aqsit-be/internal/sample"
	"aqsit-be/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	conn := db.InitDB(cfg)
	defer conn.Close()

	renderer, err := mailer.NewRenderer()
	if err != nil {
		log.Fatal("failed to load mail templates", zap.Error(err))
	}
	gateway := mailer.NewRelayGateway(cfg.MailRelayURL, cfg.MailRelayKey, cfg.MailFrom)

	userRepo := user.NewRepository(conn)
	userSvc := user.NewService(userRepo)

	notifRepo := notification.NewRepository(conn)
	notifSvc := notification.NewService(notifRepo, userSvc)

	refRepo := orderref.NewRepository(conn)
	projectRepo := project.NewRepository(conn)
	productRepo := product.NewRepository(conn)
	moodboardRepo := moodboard.NewRepository(conn)

	orderRepo := order.NewRepository(conn)
	orderSvc := order.NewService(orderRepo, userSvc, projectRepo, cfg.AdminEmail)

	sampleRepo := sample.NewRepository(conn)
	sampleSvc := sample.NewService(sampleRepo, userSvc, moodboardRepo, productRepo, cfg.AdminEmail)

	pricingRepo := pricing.NewRepository(conn)
	pricingSvc := pricing.NewService(pricingRepo, productRepo)

	outboxRepo := outbox.NewRepository(conn)
	worker := outbox.NewWorker(outboxRepo, renderer, gateway)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go worker.Run(workerCtx)

	router := httpx.NewRouter(httpx.Handlers{
		Users:         httpx.NewUserHandler(userSvc, notifSvc),
		Basket:        httpx.NewBasketHandler(refRepo),
		Projects:      httpx.NewProjectHandler(projectRepo),
		Orders:        httpx.NewOrderHandler(orderSvc),
		Samples:       httpx.NewSampleHandler(sampleSvc),
		Pricing:       httpx.NewPricingHandler(pricingSvc, notifSvc),
		Notifications: httpx.NewNotificationHandler(notifSvc),
	})

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Info("server listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
