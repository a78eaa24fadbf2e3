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
	"github.com/pvaldes/travelbooking/internal/registry"
	"github.com/pvaldes/travelbooking/internal/repository"
	"github.com/pvaldes/travelbooking/internal/service/identity"
	"github.com/pvaldes/travelbooking/internal/token"
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

	authority, err := token.NewAuthority(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("token authority: %v", err)
	}

	userRepo := repository.NewUserRepository(pool)
	identityService := identity.NewIdentityService(userRepo, authority)

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}
	if err := identityService.EnsureAdmin(ctx, adminEmail, adminPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	router := gin.Default()
	api.NewIdentityHandler(identityService).Register(router)
	api.NewHealthHandler(cfg.Service.Name, pool.Ping).Register(router)

	reg, err := registry.NewConsulRegistry(cfg.Consul.Address)
	if err != nil {
		log.Fatalf("consul: %v", err)
	}
	deregister, err := bootstrap.RegisterService(ctx, reg, cfg.Service)
	if err != nil {
		log.Fatalf("register service: %v", err)
	}
	defer deregister()

	if err := bootstrap.Run(ctx, cfg.HTTP.Address, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
