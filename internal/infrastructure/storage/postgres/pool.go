// Package postgres provides the PostgreSQL storage driver: the connection
// pool, the transaction manager and helpers shared by the repositories.
package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"centrebooks/pkg/logger"
)

const applicationName = "centrebooks"

// PoolConfig sizes the connection pool. Zero durations keep pgx defaults.
type PoolConfig struct {
	DSN               string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	// StatementTimeout bounds every query server-side; report aggregation
	// is the longest running statement.
	StatementTimeout time.Duration
}

// DefaultPoolConfig returns defaults for a single small deployment.
func DefaultPoolConfig(dsn string) PoolConfig {
	return PoolConfig{
		DSN:               dsn,
		MaxConns:          10,
		MinConns:          2,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
		StatementTimeout:  30 * time.Second,
	}
}

// Pool is the shared pgx pool.
type Pool struct {
	*pgxpool.Pool
}

// Close closes all connections.
func (p *Pool) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

func (cfg PoolConfig) pgx() (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.HealthCheckPeriod > 0 {
		pc.HealthCheckPeriod = cfg.HealthCheckPeriod
	}

	params := pc.ConnConfig.RuntimeParams
	if _, set := params["application_name"]; !set {
		params["application_name"] = applicationName
	}
	if cfg.StatementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}
	return pc, nil
}

// NewPool connects and pings the database.
func NewPool(ctx context.Context, cfg PoolConfig) (*Pool, error) {
	pc, err := cfg.pgx()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info(ctx, "database connected",
		"host", pc.ConnConfig.Host,
		"database", pc.ConnConfig.Database,
		"max_conns", pc.MaxConns,
		"min_conns", pc.MinConns,
	)
	return &Pool{Pool: pool}, nil
}

// PoolStats is a snapshot of pool usage, exported as metrics.
type PoolStats struct {
	TotalConns      int32
	AcquiredConns   int32
	IdleConns       int32
	MaxConns        int32
	AcquireCount    int64
	AcquireDuration time.Duration
	// EmptyAcquireCount counts acquires that had to wait for a connection.
	EmptyAcquireCount int64
}

// Stats returns the current pool statistics.
func (p *Pool) Stats() PoolStats {
	s := p.Pool.Stat()
	return PoolStats{
		TotalConns:        s.TotalConns(),
		AcquiredConns:     s.AcquiredConns(),
		IdleConns:         s.IdleConns(),
		MaxConns:          s.MaxConns(),
		AcquireCount:      s.AcquireCount(),
		AcquireDuration:   s.AcquireDuration(),
		EmptyAcquireCount: s.EmptyAcquireCount(),
	}
}

// LogStats logs pool usage; a saturated pool is logged as a warning.
func (p *Pool) LogStats(ctx context.Context) {
	s := p.Stats()
	fields := []any{
		"total", s.TotalConns,
		"acquired", s.AcquiredConns,
		"idle", s.IdleConns,
		"max", s.MaxConns,
		"waited_acquires", s.EmptyAcquireCount,
	}
	if s.MaxConns > 0 && s.AcquiredConns >= s.MaxConns {
		logger.Warn(ctx, "database pool saturated", fields...)
		return
	}
	logger.Debug(ctx, "database pool stats", fields...)
}
