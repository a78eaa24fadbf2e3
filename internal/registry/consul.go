package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/consul/api"
)

const (
	defaultCheckInterval   = 10 * time.Second
	defaultCheckTimeout    = 5 * time.Second
	defaultDeregisterAfter = 30 * time.Second
	registerAttempts       = 5
	registerRetryInterval  = 2 * time.Second
)

// ConsulRegistry implements Registry on the Consul agent API. Liveness is
// driven by an HTTP health check polled by Consul itself: an instance with
// no passing check for the record's deregister grace is pruned from the
// directory.
type ConsulRegistry struct {
	client *api.Client
}

func NewConsulRegistry(address string) (*ConsulRegistry, error) {
	cfg := api.DefaultConfig()
	if address != "" {
		cfg.Address = address
	}
	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}
	return &ConsulRegistry{client: client}, nil
}

func (r *ConsulRegistry) Register(ctx context.Context, rec ServiceRecord) error {
	reg := &api.AgentServiceRegistration{
		ID:      rec.ID,
		Name:    rec.Name,
		Address: rec.Address,
		Port:    rec.Port,
		Tags:    rec.Tags,
		Check:   healthCheck(rec),
	}

	err := retry(ctx, registerAttempts, registerRetryInterval, func() error {
		return r.client.Agent().ServiceRegister(reg)
	})
	if err != nil {
		return fmt.Errorf("register %s: %w", rec.Name, err)
	}
	return nil
}

func (r *ConsulRegistry) Deregister(serviceID string) error {
	err := r.client.Agent().ServiceDeregister(serviceID)
	if isNotRegistered(err) {
		return nil
	}
	return err
}

func (r *ConsulRegistry) Discover(ctx context.Context, name string) (string, error) {
	opts := (&api.QueryOptions{}).WithContext(ctx)
	entries, _, err := r.client.Health().Service(name, "", true, opts)
	if err != nil {
		return "", fmt.Errorf("discover %s: %w", name, err)
	}
	if len(entries) == 0 {
		return "", ErrNotFound
	}

	svc := entries[0].Service
	addr := svc.Address
	if addr == "" {
		addr = entries[0].Node.Address
	}
	return fmt.Sprintf("http://%s:%d", addr, svc.Port), nil
}

func healthCheck(rec ServiceRecord) *api.AgentServiceCheck {
	interval := rec.CheckInterval
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	timeout := rec.CheckTimeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	deregisterAfter := rec.DeregisterAfter
	if deregisterAfter <= 0 {
		deregisterAfter = defaultDeregisterAfter
	}

	return &api.AgentServiceCheck{
		HTTP:                           rec.HealthCheckURL,
		Interval:                       interval.String(),
		Timeout:                        timeout.String(),
		DeregisterCriticalServiceAfter: deregisterAfter.String(),
	}
}

// isNotRegistered reports whether the agent answered 404: the service was
// never registered, or a previous deregistration already removed it.
func isNotRegistered(err error) bool {
	var statusErr api.StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}

var _ Registry = (*ConsulRegistry)(nil)
