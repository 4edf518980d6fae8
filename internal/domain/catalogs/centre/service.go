package centre

import (
	"context"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/id"
	"centrebooks/internal/core/security"
	"centrebooks/internal/core/tx"
	"centrebooks/pkg/logger"
)

// Service exposes the centre catalog with centre visibility applied.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new Centre service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// List returns the centres visible to p, ordered by name.
func (s *Service) List(ctx context.Context, p security.Principal) ([]*Centre, error) {
	scope, err := p.CentreScope()
	if err != nil {
		return nil, err
	}

	filter := ListFilter{}
	if scope != nil {
		filter.IDs = []id.ID{*scope}
	}
	return s.repo.List(ctx, filter)
}

// GetByID returns one centre if p may see it.
func (s *Service) GetByID(ctx context.Context, p security.Principal, centreID id.ID) (*Centre, error) {
	if err := p.RequireCentre(centreID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, centreID)
}

// Create registers a new centre. Only unrestricted principals may do so.
func (s *Service) Create(ctx context.Context, p security.Principal, c *Centre) error {
	if err := p.RequireUnrestricted(); err != nil {
		return err
	}
	if err := c.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByName(ctx, c.Name)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		if existing != nil {
			return apperror.NewDuplicate("centre", "name", c.Name)
		}
		return s.repo.Create(ctx, c)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "centre created", "centre_id", c.ID, "name", c.Name)
	return nil
}
