// Package registry is the directory of live service instances. Each process
// registers itself at startup and discovers peers by logical name at call
// time. A NotFound on discovery is a normal outcome every caller must branch
// on, not a fault.
package registry

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no passing instance of a service exists.
var ErrNotFound = errors.New("service not found")

// ServiceRecord describes one registered instance. Each process keeps only
// its own record, for deregistration; the registry owns the rest.
type ServiceRecord struct {
	ID             string
	Name           string
	Address        string
	Port           int
	Tags           []string
	HealthCheckURL string

	// Health check cadence. Zero values fall back to the implementation's
	// defaults.
	CheckInterval   time.Duration
	CheckTimeout    time.Duration
	DeregisterAfter time.Duration
}

type Registry interface {
	// Register adds this instance to the directory. Transient failures are
	// retried internally; the caller sees success or final failure.
	Register(ctx context.Context, rec ServiceRecord) error

	// Deregister removes an instance. Idempotent: safe to call twice and
	// safe to call with an ID that was never registered.
	Deregister(serviceID string) error

	// Discover returns the base URL of a passing instance, or ErrNotFound.
	// A registered-but-unhealthy instance is never returned.
	Discover(ctx context.Context, name string) (string, error)
}

// retry runs fn up to attempts times, sleeping delay between failures.
// The final failure returns immediately, without a trailing sleep. Used by
// registrations, where the registry may not be reachable yet while the
// stack comes up.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
