package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pvaldes/travelbooking/api"
	"github.com/pvaldes/travelbooking/config"
	"github.com/pvaldes/travelbooking/internal/bootstrap"
	"github.com/pvaldes/travelbooking/internal/cache"
	"github.com/pvaldes/travelbooking/internal/client"
	"github.com/pvaldes/travelbooking/internal/registry"
	"github.com/pvaldes/travelbooking/internal/repository"
	"github.com/pvaldes/travelbooking/internal/service/catalog"
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

	pool, err := bootstrap.WaitForPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	reg, err := registry.NewConsulRegistry(cfg.Consul.Address)
	if err != nil {
		log.Fatalf("consul: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second)
	packageRepo := repository.NewPackageRepository(pool)
	catalogService := catalog.NewCatalogService(packageRepo, redisCache)

	verifier := client.NewIdentity(reg, cfg.Auth.IdentityServiceName)
	auth := api.NewAuthMiddleware(verifier)

	router := gin.Default()
	api.NewPackageHandler(catalogService, auth).Register(router.Group("/"))
	api.NewHealthHandler(cfg.Service.Name, pool.Ping).Register(router)

	deregister, err := bootstrap.RegisterService(ctx, reg, cfg.Service)
	if err != nil {
		log.Fatalf("register service: %v", err)
	}
	defer deregister()

	if err := bootstrap.Run(ctx, cfg.HTTP.Address, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
