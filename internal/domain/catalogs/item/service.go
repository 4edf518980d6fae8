package item

import (
	"context"
	"strings"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/id"
	"centrebooks/internal/core/security"
	"centrebooks/internal/core/tx"
	"centrebooks/pkg/logger"
)

// Service exposes the item catalog. Items are visible to every authenticated principal.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new Item service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// List returns all items ordered by name.
func (s *Service) List(ctx context.Context, p security.Principal) ([]*Item, error) {
	if _, err := p.CentreScope(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ListFilter{})
}

// GetByID returns one item.
func (s *Service) GetByID(ctx context.Context, p security.Principal, itemID id.ID) (*Item, error) {
	if _, err := p.CentreScope(); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, itemID)
}

// Create registers a new item. Only unrestricted principals may do so.
func (s *Service) Create(ctx context.Context, p security.Principal, it *Item) error {
	if err := p.RequireUnrestricted(); err != nil {
		return err
	}
	if err := it.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByCode(ctx, it.Code)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		if existing != nil {
			return apperror.NewDuplicate("item", "code", it.Code)
		}
		return s.repo.Create(ctx, it)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "item created", "item_id", it.ID, "code", it.Code)
	return nil
}

// ResolvePinned looks ref up by name first, then by code fragment.
func ResolvePinned(ctx context.Context, repo Repository, ref PinnedRef) (*Item, error) {
	if name := strings.TrimSpace(ref.Name); name != "" {
		it, err := repo.FindByNameFold(ctx, name)
		if err == nil {
			return it, nil
		}
		if !apperror.IsNotFound(err) {
			return nil, err
		}
	}

	if frag := strings.TrimSpace(ref.CodeFragment); frag != "" {
		it, err := repo.FindByCodeContains(ctx, frag)
		if err == nil {
			return it, nil
		}
		if !apperror.IsNotFound(err) {
			return nil, err
		}
	}

	return nil, nil
}
