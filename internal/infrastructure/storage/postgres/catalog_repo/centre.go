package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"centrebooks/internal/core/id"
	"centrebooks/internal/domain/catalogs/centre"
	"centrebooks/internal/infrastructure/storage/postgres"
)

const centreTable = "centres"

// CentreRepo implements centre.Repository.
type CentreRepo struct {
	*BaseCatalogRepo[*centre.Centre]
}

var _ centre.Repository = (*CentreRepo)(nil)

// NewCentreRepo creates a new centre repository.
func NewCentreRepo(txm *postgres.TxManager) *CentreRepo {
	return &CentreRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm, centreTable, "centre",
			map[string]postgres.UniqueConstraint{
				"centres_name_key": {Entity: "centre", Field: "name"},
			},
			func() *centre.Centre { return &centre.Centre{} },
		),
	}
}

func (r *CentreRepo) Create(ctx context.Context, c *centre.Centre) error {
	return r.BaseCatalogRepo.Create(ctx, c, c.Name)
}

// GetByName matches the exact name.
func (r *CentreRepo) GetByName(ctx context.Context, name string) (*centre.Centre, error) {
	return r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"name": name}), name)
}

// List returns centres ordered by name.
func (r *CentreRepo) List(ctx context.Context, filter centre.ListFilter) ([]*centre.Centre, error) {
	return r.ListByIDs(ctx, filter.IDs)
}

// GetByID retrieves a centre by ID.
func (r *CentreRepo) GetByID(ctx context.Context, centreID id.ID) (*centre.Centre, error) {
	return r.BaseCatalogRepo.GetByID(ctx, centreID)
}
