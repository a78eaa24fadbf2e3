// Package client holds the HTTP clients for peer services. Peers are located
// through the registry at call time and every call carries a fixed timeout:
// an unreachable peer fails the call, it never hangs it.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pvaldes/travelbooking/internal/apperr"
	"github.com/pvaldes/travelbooking/internal/domain"
	"github.com/pvaldes/travelbooking/internal/registry"
)

const callTimeout = 5 * time.Second

// Catalog locates and queries the catalog service.
type Catalog struct {
	registry    registry.Registry
	serviceName string
	http        *http.Client
}

func NewCatalog(reg registry.Registry, serviceName string) *Catalog {
	return &Catalog{
		registry:    reg,
		serviceName: serviceName,
		http:        &http.Client{Timeout: callTimeout},
	}
}

// GetPackage fetches a package by id from a passing catalog instance.
// Discovery or transport failure is ErrDependencyUnavailable; a non-200
// answer means the package does not resolve.
func (c *Catalog) GetPackage(ctx context.Context, id string) (*domain.Package, error) {
	base, err := c.registry.Discover(ctx, c.serviceName)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", c.serviceName, apperr.ErrDependencyUnavailable)
		}
		return nil, fmt.Errorf("%s: %w: %v", c.serviceName, apperr.ErrDependencyUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/packages/"+id, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", c.serviceName, apperr.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("package %s: %w", id, apperr.ErrNotFound)
	}

	var pkg domain.Package
	if err := json.NewDecoder(resp.Body).Decode(&pkg); err != nil {
		return nil, fmt.Errorf("decode package %s: %w", id, err)
	}
	return &pkg, nil
}
