package catalog_repo

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"

	"centrebooks/internal/core/id"
	"centrebooks/internal/domain/catalogs/item"
	"centrebooks/internal/infrastructure/storage/postgres"
)

const itemTable = "items"

// ItemRepo implements item.Repository.
type ItemRepo struct {
	*BaseCatalogRepo[*item.Item]
}

var _ item.Repository = (*ItemRepo)(nil)

// NewItemRepo creates a new item repository.
func NewItemRepo(txm *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm, itemTable, "item",
			map[string]postgres.UniqueConstraint{
				"items_code_key": {Entity: "item", Field: "code"},
			},
			func() *item.Item { return &item.Item{} },
		),
	}
}

func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	return r.BaseCatalogRepo.Create(ctx, it, it.Code)
}

// GetByID retrieves an item by ID.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	return r.BaseCatalogRepo.GetByID(ctx, itemID)
}

// GetByCode matches the exact code.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*item.Item, error) {
	return r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"code": code}), code)
}

// List returns items ordered by name.
func (r *ItemRepo) List(ctx context.Context, filter item.ListFilter) ([]*item.Item, error) {
	return r.ListByIDs(ctx, filter.IDs)
}

func (r *ItemRepo) FindByNameFold(ctx context.Context, name string) (*item.Item, error) {
	return r.FindOne(ctx, r.nameFoldQuery(name), name)
}

func (r *ItemRepo) FindByCodeContains(ctx context.Context, fragment string) (*item.Item, error) {
	return r.FindOne(ctx, r.codeContainsQuery(fragment), fragment)
}

func (r *ItemRepo) nameFoldQuery(name string) squirrel.SelectBuilder {
	return r.baseSelect().
		Where(squirrel.Expr("lower(name) = lower(?)", name)).
		OrderBy("name ASC", "id ASC")
}

func (r *ItemRepo) codeContainsQuery(fragment string) squirrel.SelectBuilder {
	return r.baseSelect().
		Where(squirrel.ILike{"code": "%" + escapeLike(fragment) + "%"}).
		OrderBy("name ASC", "id ASC")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes fragment match literally inside a LIKE pattern.
func escapeLike(fragment string) string {
	return likeEscaper.Replace(fragment)
}
