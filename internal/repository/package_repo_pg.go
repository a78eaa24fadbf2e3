package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pvaldes/travelbooking/internal/apperr"
	"github.com/pvaldes/travelbooking/internal/domain"
)

type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.Package) error
	GetByID(ctx context.Context, id string) (*domain.Package, error)
	ListActive(ctx context.Context) ([]domain.Package, error)
	ListAvailable(ctx context.Context, at time.Time) ([]domain.Package, error)
	Update(ctx context.Context, pkg *domain.Package) error
	SoftDelete(ctx context.Context, id string) error
}

type PGPackageRepository struct {
	db *pgxpool.Pool
}

func NewPackageRepository(db *pgxpool.Pool) PackageRepository {
	return &PGPackageRepository{db: db}
}

const packageColumns = `id, name, description, price, duration_days, max_participants,
	location, includes, available_from, available_to, is_active, cost_price, created_at, updated_at`

func (r *PGPackageRepository) Create(ctx context.Context, pkg *domain.Package) error {
	pkg.IsActive = true
	return r.db.QueryRow(ctx, `INSERT INTO packages (id, name, description, price, duration_days, max_participants,
			location, includes, available_from, available_to, cost_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`,
		pkg.ID, pkg.Name, pkg.Description, pkg.Price, pkg.DurationDays, pkg.MaxParticipants,
		pkg.Location, pkg.Includes, pkg.AvailableFrom, pkg.AvailableTo, pkg.CostPrice).
		Scan(&pkg.CreatedAt, &pkg.UpdatedAt)
}

// GetByID only resolves active packages: soft-deleted ones are invisible
// everywhere except report degradation, which never reaches this query.
func (r *PGPackageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	row := r.db.QueryRow(ctx, `SELECT `+packageColumns+` FROM packages WHERE id=$1 AND is_active=TRUE`, id)
	return scanPackage(row)
}

func (r *PGPackageRepository) ListActive(ctx context.Context) ([]domain.Package, error) {
	rows, err := r.db.Query(ctx, `SELECT `+packageColumns+` FROM packages WHERE is_active=TRUE ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPackages(rows)
}

func (r *PGPackageRepository) ListAvailable(ctx context.Context, at time.Time) ([]domain.Package, error) {
	rows, err := r.db.Query(ctx, `SELECT `+packageColumns+` FROM packages
		WHERE is_active=TRUE AND available_from <= $1 AND available_to >= $1
		ORDER BY created_at DESC`, at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPackages(rows)
}

func (r *PGPackageRepository) Update(ctx context.Context, pkg *domain.Package) error {
	err := r.db.QueryRow(ctx, `UPDATE packages SET name=$1, description=$2, price=$3, duration_days=$4,
			max_participants=$5, location=$6, includes=$7, available_from=$8, available_to=$9,
			cost_price=$10, updated_at=now()
		WHERE id=$11 AND is_active=TRUE
		RETURNING updated_at`,
		pkg.Name, pkg.Description, pkg.Price, pkg.DurationDays, pkg.MaxParticipants,
		pkg.Location, pkg.Includes, pkg.AvailableFrom, pkg.AvailableTo, pkg.CostPrice, pkg.ID).
		Scan(&pkg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	return err
}

func (r *PGPackageRepository) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE packages SET is_active=FALSE, updated_at=now() WHERE id=$1 AND is_active=TRUE`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func scanPackage(row pgx.Row) (*domain.Package, error) {
	var p domain.Package
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.DurationDays, &p.MaxParticipants,
		&p.Location, &p.Includes, &p.AvailableFrom, &p.AvailableTo, &p.IsActive, &p.CostPrice,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func collectPackages(rows pgx.Rows) ([]domain.Package, error) {
	var packages []domain.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, *p)
	}
	return packages, rows.Err()
}

var _ PackageRepository = (*PGPackageRepository)(nil)
