package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"centrebooks/internal/infrastructure/storage/postgres"
)

// PoolStatser is implemented by *postgres.Pool.
type PoolStatser interface {
	Stats() postgres.PoolStats
}

// RegisterPool exposes pool usage as gauges read at scrape time.
func (m *Metrics) RegisterPool(pool PoolStatser) {
	gauge := func(name, help string, read func(postgres.PoolStats) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: metricPrefix + name, Help: help},
			func() float64 { return read(pool.Stats()) },
		)
	}

	m.registry.MustRegister(
		gauge("db_pool_total_conns", "Open connections in the pool",
			func(s postgres.PoolStats) float64 { return float64(s.TotalConns) }),
		gauge("db_pool_acquired_conns", "Connections currently checked out",
			func(s postgres.PoolStats) float64 { return float64(s.AcquiredConns) }),
		gauge("db_pool_idle_conns", "Idle connections in the pool",
			func(s postgres.PoolStats) float64 { return float64(s.IdleConns) }),
		gauge("db_pool_max_conns", "Configured pool size",
			func(s postgres.PoolStats) float64 { return float64(s.MaxConns) }),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{Name: metricPrefix + "db_pool_acquire_total", Help: "Connections acquired from the pool"},
			func() float64 { return float64(pool.Stats().AcquireCount) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{Name: metricPrefix + "db_pool_waited_acquire_total", Help: "Acquires that waited for a free connection"},
			func() float64 { return float64(pool.Stats().EmptyAcquireCount) },
		),
	)
}
