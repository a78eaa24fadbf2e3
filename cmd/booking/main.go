package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/pvaldes/travelbooking/api"
	"github.com/pvaldes/travelbooking/config"
	"github.com/pvaldes/travelbooking/internal/bootstrap"
	"github.com/pvaldes/travelbooking/internal/client"
	"github.com/pvaldes/travelbooking/internal/kafka"
	"github.com/pvaldes/travelbooking/internal/registry"
	"github.com/pvaldes/travelbooking/internal/repository"
	"github.com/pvaldes/travelbooking/internal/service/booking"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, err := bootstrap.WaitForMongo(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("connect mongo: %v", err)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	reg, err := registry.NewConsulRegistry(cfg.Consul.Address)
	if err != nil {
		log.Fatalf("consul: %v", err)
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(mongoClient.Database(cfg.Mongo.Database))
	catalogClient := client.NewCatalog(reg, cfg.Catalog.ServiceName)
	bookingService := booking.NewBookingService(bookingRepo, catalogClient, producer, cfg.Kafka.BookingEventsTopic)

	verifier := client.NewIdentity(reg, cfg.Auth.IdentityServiceName)
	auth := api.NewAuthMiddleware(verifier)

	router := gin.Default()
	api.NewBookingHandler(bookingService, auth).Register(router.Group("/"))
	api.NewHealthHandler(cfg.Service.Name, func(ctx context.Context) error {
		return mongoClient.Ping(ctx, nil)
	}).Register(router)

	deregister, err := bootstrap.RegisterService(ctx, reg, cfg.Service)
	if err != nil {
		log.Fatalf("register service: %v", err)
	}
	defer deregister()

	if err := bootstrap.Run(ctx, cfg.HTTP.Address, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
