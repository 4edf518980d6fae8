package app

import (
	"context"
	"fmt"

	"centrebooks/internal/config"
	appctx "centrebooks/internal/core/context"
	"centrebooks/internal/domain/audit"
	"centrebooks/internal/domain/auth"
	"centrebooks/internal/domain/catalogs/centre"
	"centrebooks/internal/domain/catalogs/item"
	"centrebooks/internal/domain/reports"
	"centrebooks/internal/domain/statements"
)

// Services holds the domain services shared by the HTTP layer and the tools.
type Services struct {
	JWT        *auth.JWTService
	Auth       *auth.Service
	Centres    *centre.Service
	Items      *item.Service
	Statements *statements.Service
	Reports    *reports.Service
	Trail      *audit.Trail
}

// NewServices wires every service over s. Statement writes are recorded in
// the audit trail inside their transaction.
func NewServices(s *Storage, cfg *config.Config) *Services {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		AccessTokenTTL: cfg.JWT.AccessTTL,
	})

	authCfg := auth.DefaultServiceConfig()
	authCfg.RefreshTokenExpiry = cfg.JWT.RefreshTTL
	if cfg.Auth.MaxLoginAttempts > 0 {
		authCfg.MaxLoginAttempts = cfg.Auth.MaxLoginAttempts
	}
	if cfg.Auth.LockDuration > 0 {
		authCfg.LockDuration = cfg.Auth.LockDuration
	}

	trail := audit.NewTrail(s.Audit)
	statementService := statements.NewService(s.Statements, s.Centres, s.Items, s.TxManager)
	audit.Attach(trail, statements.EntityType, statementService.Hooks())

	return &Services{
		JWT:        jwtService,
		Auth:       auth.NewService(s.Users, s.Tokens, s.TxManager, jwtService, authCfg),
		Centres:    centre.NewService(s.Centres, s.TxManager),
		Items:      item.NewService(s.Items, s.TxManager),
		Statements: statementService,
		Reports:    reports.NewService(s.Reports, s.Centres, s.Items),
		Trail:      trail,
	}
}

// BootstrapAdmin creates the configured administrator when the bootstrap
// password is set and the account does not exist yet.
func (s *Services) BootstrapAdmin(ctx context.Context, cfg config.BootstrapConfig) error {
	if cfg.AdminPassword == "" {
		return nil
	}
	user, created, err := s.Auth.EnsureUser(ctx, cfg.AdminUsername, cfg.AdminPassword, appctx.RoleAdmin, nil)
	if err != nil {
		return fmt.Errorf("bootstrap admin %q: %w", cfg.AdminUsername, err)
	}
	if !created && user.Role != appctx.RoleAdmin {
		return fmt.Errorf("bootstrap admin %q: account exists with role %s", cfg.AdminUsername, user.Role)
	}
	return nil
}
