package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pvaldes/travelbooking/config"
	"github.com/pvaldes/travelbooking/internal/registry"
)

// RegisterService puts this process into the service directory and returns
// the matching deregistration hook for shutdown. The record points Consul at
// the service's own /health endpoint; instances failing it long enough get
// pruned server-side.
func RegisterService(ctx context.Context, reg registry.Registry, cfg config.ServiceConfig) (func(), error) {
	rec := registry.ServiceRecord{
		ID:             cfg.ID,
		Name:           cfg.Name,
		Address:        cfg.Host,
		Port:           cfg.Port,
		Tags:           cfg.Tags,
		HealthCheckURL: fmt.Sprintf("http://%s:%d/health", cfg.Host, cfg.Port),

		CheckInterval:   time.Duration(cfg.CheckIntervalSeconds) * time.Second,
		CheckTimeout:    time.Duration(cfg.CheckTimeoutSeconds) * time.Second,
		DeregisterAfter: time.Duration(cfg.DeregisterAfterSeconds) * time.Second,
	}

	if err := reg.Register(ctx, rec); err != nil {
		return nil, err
	}
	slog.Info("service registered", "name", cfg.Name, "id", cfg.ID)

	return func() {
		if err := reg.Deregister(cfg.ID); err != nil {
			slog.Warn("deregister failed", "id", cfg.ID, "error", err)
			return
		}
		slog.Info("service deregistered", "id", cfg.ID)
	}, nil
}
