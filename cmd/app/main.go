package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/zvrva/reservio/config"
	"github.com/zvrva/reservio/internal/bootstrap"
	"github.com/zvrva/reservio/internal/cache"
	"github.com/zvrva/reservio/internal/kafka"
	"github.com/zvrva/reservio/internal/notify"
	"github.com/zvrva/reservio/internal/payment"
	"github.com/zvrva/reservio/internal/repository"
	"github.com/zvrva/reservio/internal/service/booking"
	"github.com/zvrva/reservio/internal/service/catalog"
	"github.com/zvrva/reservio/internal/service/reservations"
	"github.com/zvrva/reservio/internal/service/users"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userRepo, err := repository.NewUserRepository(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Fatal("open user store", zap.Error(err))
	}
	serviceRepo, err := repository.NewServiceRepository(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Fatal("open service store", zap.Error(err))
	}
	reservationRepo, err := repository.NewReservationRepository(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Fatal("open reservation store", zap.Error(err))
	}
	paymentRepo, err := repository.NewPaymentRepository(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Fatal("open payment store", zap.Error(err))
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	dispatcher := notify.NewDispatcher(logger)
	dispatcher.Attach(notify.NewEmailHandler(logger))
	dispatcher.Attach(notify.NewSMSHandler(logger))
	dispatcher.Attach(notify.NewInAppHandler(logger))
	dispatcher.Attach(notify.NewKafkaHandler(producer, cfg.Kafka.NotificationsTopic))

	strategies := payment.NewRegistry(logger)
	processor := payment.NewProcessor(paymentRepo)

	userService := users.NewUserService(userRepo, logger)
	catalogService := catalog.NewCatalogService(serviceRepo, redisCache, logger)
	reservationService := reservations.NewReservationService(reservationRepo, serviceRepo, dispatcher, logger)
	bookingService := booking.NewBookingService(
		reservationService,
		processor,
		paymentRepo,
		strategies,
		dispatcher,
		redisCache,
		logger,
		booking.WithLockTTL(time.Duration(cfg.Booking.LockTTLSeconds)*time.Second),
	)

	if err := bootstrap.Run(ctx, cfg, userService, catalogService, reservationService, bookingService); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
