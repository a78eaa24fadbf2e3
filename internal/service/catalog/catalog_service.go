package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pvaldes/travelbooking/internal/apperr"
	"github.com/pvaldes/travelbooking/internal/domain"
	"github.com/pvaldes/travelbooking/internal/repository"
)

type CatalogUseCase interface {
	CreatePackage(ctx context.Context, input CreatePackageInput) (*domain.Package, error)
	ListPackages(ctx context.Context) ([]domain.Package, error)
	ListAvailablePackages(ctx context.Context) ([]domain.Package, error)
	GetPackage(ctx context.Context, id string) (*domain.Package, error)
	UpdatePackage(ctx context.Context, id string, update domain.PackageUpdate) (*domain.Package, error)
	DeletePackage(ctx context.Context, id string) error
}

// Cache holds the active listing between catalog mutations.
type Cache interface {
	GetPackages(ctx context.Context) ([]domain.Package, error)
	SetPackages(ctx context.Context, packages []domain.Package) error
	InvalidatePackages(ctx context.Context) error
}

type CreatePackageInput struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	DurationDays    int       `json:"duration_days"`
	MaxParticipants int       `json:"max_participants"`
	Location        string    `json:"location"`
	Includes        []string  `json:"includes"`
	AvailableFrom   time.Time `json:"available_from"`
	AvailableTo     time.Time `json:"available_to"`
	CostPrice       float64   `json:"cost_price"`
}

type CatalogService struct {
	packages repository.PackageRepository
	cache    Cache
}

func NewCatalogService(packages repository.PackageRepository, cache Cache) *CatalogService {
	return &CatalogService{packages: packages, cache: cache}
}

func (s *CatalogService) CreatePackage(ctx context.Context, input CreatePackageInput) (*domain.Package, error) {
	if err := validatePackageInput(input); err != nil {
		return nil, err
	}

	pkg := &domain.Package{
		ID:              uuid.NewString(),
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		DurationDays:    input.DurationDays,
		MaxParticipants: input.MaxParticipants,
		Location:        input.Location,
		Includes:        input.Includes,
		AvailableFrom:   input.AvailableFrom,
		AvailableTo:     input.AvailableTo,
		CostPrice:       input.CostPrice,
		IsActive:        true,
	}
	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return pkg, nil
}

func (s *CatalogService) ListPackages(ctx context.Context) ([]domain.Package, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetPackages(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	packages, err := s.packages.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetPackages(ctx, packages)
	}
	return packages, nil
}

func (s *CatalogService) ListAvailablePackages(ctx context.Context) ([]domain.Package, error) {
	return s.packages.ListAvailable(ctx, time.Now().UTC())
}

func (s *CatalogService) GetPackage(ctx context.Context, id string) (*domain.Package, error) {
	return s.packages.GetByID(ctx, id)
}

// UpdatePackage applies a partial update: only fields supplied in the
// request overwrite the stored ones.
func (s *CatalogService) UpdatePackage(ctx context.Context, id string, update domain.PackageUpdate) (*domain.Package, error) {
	pkg, err := s.packages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		pkg.Name = *update.Name
	}
	if update.Description != nil {
		pkg.Description = *update.Description
	}
	if update.Price != nil {
		if *update.Price <= 0 {
			return nil, fmt.Errorf("price must be a positive number: %w", apperr.ErrInvalidRequest)
		}
		pkg.Price = *update.Price
	}
	if update.DurationDays != nil {
		if *update.DurationDays <= 0 {
			return nil, fmt.Errorf("duration_days must be a positive integer: %w", apperr.ErrInvalidRequest)
		}
		pkg.DurationDays = *update.DurationDays
	}
	if update.MaxParticipants != nil {
		if *update.MaxParticipants <= 0 {
			return nil, fmt.Errorf("max_participants must be a positive integer: %w", apperr.ErrInvalidRequest)
		}
		pkg.MaxParticipants = *update.MaxParticipants
	}
	if update.Location != nil {
		pkg.Location = *update.Location
	}
	if update.Includes != nil {
		pkg.Includes = *update.Includes
	}
	if update.AvailableFrom != nil {
		pkg.AvailableFrom = *update.AvailableFrom
	}
	if update.AvailableTo != nil {
		pkg.AvailableTo = *update.AvailableTo
	}
	if update.CostPrice != nil {
		pkg.CostPrice = *update.CostPrice
	}

	if err := s.packages.Update(ctx, pkg); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return pkg, nil
}

// DeletePackage is a soft delete: the row stays for booking history, it just
// stops appearing in listings and lookups.
func (s *CatalogService) DeletePackage(ctx context.Context, id string) error {
	if err := s.packages.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidatePackages(ctx)
	}
}

func validatePackageInput(input CreatePackageInput) error {
	switch {
	case input.Name == "" || input.Description == "" || input.Location == "":
		return fmt.Errorf("name, description and location are required: %w", apperr.ErrInvalidRequest)
	case input.Price <= 0:
		return fmt.Errorf("price must be a positive number: %w", apperr.ErrInvalidRequest)
	case input.DurationDays <= 0:
		return fmt.Errorf("duration_days must be a positive integer: %w", apperr.ErrInvalidRequest)
	case input.MaxParticipants <= 0:
		return fmt.Errorf("max_participants must be a positive integer: %w", apperr.ErrInvalidRequest)
	}
	return nil
}

var _ CatalogUseCase = (*CatalogService)(nil)
