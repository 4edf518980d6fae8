// Package app assembles storage drivers and domain services for the binaries.
package app

import (
	"context"
	"fmt"

	"centrebooks/internal/config"
	"centrebooks/internal/core/tx"
	"centrebooks/internal/domain/audit"
	"centrebooks/internal/domain/auth"
	"centrebooks/internal/domain/catalogs/centre"
	"centrebooks/internal/domain/catalogs/item"
	"centrebooks/internal/domain/reports"
	"centrebooks/internal/domain/statements"
	"centrebooks/internal/infrastructure/storage/memory"
	"centrebooks/internal/infrastructure/storage/postgres"
	"centrebooks/internal/infrastructure/storage/postgres/auth_repo"
	"centrebooks/internal/infrastructure/storage/postgres/catalog_repo"
	"centrebooks/internal/infrastructure/storage/postgres/report_repo"
	"centrebooks/internal/infrastructure/storage/postgres/statement_repo"
	"centrebooks/migrations"
	"centrebooks/pkg/logger"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Storage bundles the repositories of one driver.
type Storage struct {
	Driver     string
	Centres    centre.Repository
	Items      item.Repository
	Statements statements.Repository
	Reports    reports.Repository
	Users      auth.UserRepository
	Tokens     auth.TokenRepository
	Audit      audit.Repository
	TxManager  tx.Manager
	DB         Pinger

	// Pool is nil for the memory driver.
	Pool *postgres.Pool
	// TokenCleaner is nil for the memory driver.
	TokenCleaner *auth_repo.TokenRepo
}

// Close releases the driver's resources.
func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// MemoryStorage wires a fresh in-process store.
func MemoryStorage() *Storage {
	store := memory.NewStore()
	return &Storage{
		Driver:     config.DriverMemory,
		Centres:    store.Centres(),
		Items:      store.Items(),
		Statements: store.Statements(),
		Reports:    store.Reports(),
		Users:      store.Users(),
		Tokens:     store.Tokens(),
		Audit:      store.Audit(),
		TxManager:  store.TxManager(),
		DB:         store,
	}
}

// PostgresStorage connects the pool, optionally applies migrations and wires
// the PostgreSQL repositories.
func PostgresStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg.Database.AutoMigrate {
		if err := Migrate(ctx, cfg.Database.URL); err != nil {
			return nil, err
		}
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}
	if cfg.Database.MinConns > 0 {
		poolCfg.MinConns = cfg.Database.MinConns
	}
	if cfg.Database.StatementTimeout > 0 {
		poolCfg.StatementTimeout = cfg.Database.StatementTimeout
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	txm := postgres.NewTxManager(pool)
	auditRepo, err := postgres.NewAuditRepo(txm, cfg.Audit.CompressThreshold)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("audit repository: %w", err)
	}
	tokens := auth_repo.NewTokenRepo(txm)

	return &Storage{
		Driver:       config.DriverPostgres,
		Centres:      catalog_repo.NewCentreRepo(txm),
		Items:        catalog_repo.NewItemRepo(txm),
		Statements:   statement_repo.NewStatementRepo(txm),
		Reports:      report_repo.NewReportRepo(txm),
		Users:        auth_repo.NewUserRepo(txm),
		Tokens:       tokens,
		Audit:        auditRepo,
		TxManager:    txm,
		DB:           pool,
		Pool:         pool,
		TokenCleaner: tokens,
	}, nil
}

// OpenStorage picks the driver named in cfg.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		logger.Warn(ctx, "using in-memory storage, data is lost on restart")
		return MemoryStorage(), nil
	case config.DriverPostgres:
		return PostgresStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Migrate applies every pending up migration.
func Migrate(ctx context.Context, dsn string) error {
	m, err := postgres.NewMigrator(migrations.FS, dsn)
	if err != nil {
		return fmt.Errorf("open migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
