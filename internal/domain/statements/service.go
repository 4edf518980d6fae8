package statements

import (
	"context"
	"fmt"
	"time"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/entity"
	"centrebooks/internal/core/id"
	"centrebooks/internal/core/period"
	"centrebooks/internal/core/security"
	"centrebooks/internal/core/tx"
	"centrebooks/internal/domain"
	"centrebooks/internal/domain/catalogs/centre"
	"centrebooks/internal/domain/catalogs/item"
	"centrebooks/pkg/logger"
)

// Service files, corrects and removes statements. Every save runs valuation
// and the write in one transaction.
type Service struct {
	repo      Repository
	centres   centre.Repository
	items     item.Repository
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Statement]
}

// NewService creates a new Statement service.
func NewService(repo Repository, centres centre.Repository, items item.Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		centres:   centres,
		items:     items,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Statement](),
	}
}

// Hooks exposes the lifecycle hooks for registration at wiring time.
func (s *Service) Hooks() *domain.HookRegistry[*Statement] {
	return s.hooks
}

// Create files a new statement. Centre-bound principals always file for their own centre.
func (s *Service) Create(ctx context.Context, p security.Principal, in Input) (*Statement, error) {
	in, err := s.authorizeInput(p, in)
	if err != nil {
		return nil, err
	}

	stmt := &Statement{BaseEntity: entity.NewBaseEntity()}
	ctx = security.WithPrincipal(ctx, p)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.value(ctx, stmt, in, nil); err != nil {
			return err
		}
		if err := s.hooks.Run(ctx, domain.BeforeCreate, stmt); err != nil {
			return err
		}
		return s.repo.Create(ctx, stmt)
	})
	if err != nil {
		return nil, err
	}

	s.runAfter(ctx, domain.AfterCreate, stmt)
	logger.Info(ctx, "statement created",
		"statement_id", stmt.ID,
		"centre_id", stmt.CentreID,
		"item_id", stmt.ItemID,
		"sales_amount", stmt.SalesAmount.StringFixed(2),
	)
	return stmt, nil
}

// Update replaces the inputs of an existing statement and revalues it.
func (s *Service) Update(ctx context.Context, p security.Principal, statementID id.ID, in Input) (*Statement, error) {
	var stmt *Statement
	ctx = security.WithPrincipal(ctx, p)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, statementID)
		if err != nil {
			return err
		}
		if err := p.RequireCentre(existing.CentreID); err != nil {
			return err
		}

		in, err = s.authorizeInput(p, in)
		if err != nil {
			return err
		}

		excludeID := existing.ID
		if err := s.value(ctx, existing, in, &excludeID); err != nil {
			return err
		}
		existing.Touch()

		if err := s.hooks.Run(ctx, domain.BeforeUpdate, existing); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, existing); err != nil {
			return err
		}
		stmt = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.runAfter(ctx, domain.AfterUpdate, stmt)
	logger.Info(ctx, "statement updated", "statement_id", stmt.ID)
	return stmt, nil
}

// Delete removes a statement the principal may access.
func (s *Service) Delete(ctx context.Context, p security.Principal, statementID id.ID) error {
	var deleted *Statement
	ctx = security.WithPrincipal(ctx, p)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, statementID)
		if err != nil {
			return err
		}
		if err := p.RequireCentre(existing.CentreID); err != nil {
			return err
		}
		if err := s.hooks.Run(ctx, domain.BeforeDelete, existing); err != nil {
			return err
		}
		deleted = existing
		return s.repo.Delete(ctx, statementID)
	})
	if err != nil {
		return err
	}

	s.runAfter(ctx, domain.AfterDelete, deleted)
	logger.Info(ctx, "statement deleted", "statement_id", statementID)
	return nil
}

// GetByID returns a statement the principal may access.
func (s *Service) GetByID(ctx context.Context, p security.Principal, statementID id.ID) (*Statement, error) {
	stmt, err := s.repo.GetByID(ctx, statementID)
	if err != nil {
		return nil, err
	}
	if err := p.RequireCentre(stmt.CentreID); err != nil {
		return nil, err
	}
	return stmt, nil
}

// List returns the statements visible to the principal, newest period first.
func (s *Service) List(ctx context.Context, p security.Principal, filter ListFilter) (domain.ListResult[*Statement], error) {
	scope, err := p.CentreScope()
	if err != nil {
		return domain.ListResult[*Statement]{}, err
	}
	if scope != nil {
		filter.CentreID = scope
	}
	filter.Page = filter.Page.Normalize()

	return s.repo.List(ctx, filter)
}

// authorizeInput pins the centre of centre-bound principals and validates the input.
func (s *Service) authorizeInput(p security.Principal, in Input) (Input, error) {
	scope, err := p.CentreScope()
	if err != nil {
		return in, err
	}
	if scope != nil {
		in.CentreID = *scope
	}
	if err := in.Validate(); err != nil {
		return in, err
	}
	return in, p.RequireCentre(in.CentreID)
}

// value checks references and the period, then writes valued fields onto stmt.
func (s *Service) value(ctx context.Context, stmt *Statement, in Input, excludeID *id.ID) error {
	if _, err := s.centres.GetByID(ctx, in.CentreID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewFieldValidation("centreId", "centre does not exist").
				WithDetail("centre_id", in.CentreID.String())
		}
		return fmt.Errorf("load centre: %w", err)
	}

	it, err := s.items.GetByID(ctx, in.ItemID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewFieldValidation("itemId", "item does not exist").
				WithDetail("item_id", in.ItemID.String())
		}
		return fmt.Errorf("load item: %w", err)
	}

	if err := s.checkPeriod(ctx, in, excludeID); err != nil {
		return err
	}

	stmt.apply(in, ComputeDerived(in.valuation(&it.DefaultUnitPrice)))
	return nil
}

// checkPeriod refuses a range that collides with another statement of the same centre and item.
func (s *Service) checkPeriod(ctx context.Context, in Input, excludeID *id.ID) error {
	start, end := period.Truncate(in.DateStart), period.Truncate(in.DateEnd)

	other, err := s.repo.FindOverlapping(ctx, in.CentreID, in.ItemID, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("check overlapping statements: %w", err)
	}
	if other == nil {
		return nil
	}
	if other.DateStart.Equal(start) && other.DateEnd.Equal(end) {
		return apperror.NewDuplicate(EntityType, "period", start.Format(time.DateOnly)+".."+end.Format(time.DateOnly))
	}
	return apperror.NewPeriodOverlap(other.ID.String()).
		WithDetail("existing_date_start", other.DateStart.Format(time.DateOnly)).
		WithDetail("existing_date_end", other.DateEnd.Format(time.DateOnly))
}

func (s *Service) runAfter(ctx context.Context, event domain.HookEvent, stmt *Statement) {
	if err := s.hooks.Run(ctx, event, stmt); err != nil {
		logger.Warn(ctx, "statement hook failed", "event", event, "statement_id", stmt.ID, "error", err)
	}
}
