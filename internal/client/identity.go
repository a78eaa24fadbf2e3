package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pvaldes/travelbooking/internal/apperr"
	"github.com/pvaldes/travelbooking/internal/domain"
	"github.com/pvaldes/travelbooking/internal/registry"
)

// Identity verifies bearer tokens against the identity service. Only the
// identity service holds the signing secret; every other service trusts its
// /me endpoint. Any ambiguous outcome is a rejection: this client fails
// closed, never open.
type Identity struct {
	registry    registry.Registry
	serviceName string
	http        *http.Client
}

func NewIdentity(reg registry.Registry, serviceName string) *Identity {
	return &Identity{
		registry:    reg,
		serviceName: serviceName,
		http:        &http.Client{Timeout: callTimeout},
	}
}

func (c *Identity) VerifyToken(ctx context.Context, token string) (*domain.Claims, error) {
	base, err := c.registry.Discover(ctx, c.serviceName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.serviceName, apperr.ErrDependencyUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.serviceName, apperr.ErrDependencyUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.ErrUnauthenticated
	}

	var claims domain.Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, apperr.ErrUnauthenticated
	}
	return &claims, nil
}
