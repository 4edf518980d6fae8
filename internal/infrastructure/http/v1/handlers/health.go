package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

// Pinger checks a backing store. *postgres.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the unauthenticated probes.
type HealthHandler struct {
	db      Pinger
	driver  string
	version string
	started time.Time
}

// NewHealthHandler creates the handler. db may be nil.
func NewHealthHandler(db Pinger, driver, version string) *HealthHandler {
	return &HealthHandler{db: db, driver: driver, version: version, started: time.Now()}
}

// Live answers as long as the process serves HTTP.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready pings the store within readyTimeout; 503 tells the balancer to
// hold traffic.
func (h *HealthHandler) Ready(c *gin.Context) {
	check := gin.H{"driver": h.driver, "status": "up"}
	status := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		start := time.Now()
		err := h.db.Ping(ctx)
		check["latency_ms"] = time.Since(start).Milliseconds()
		if err != nil {
			status = http.StatusServiceUnavailable
			check["status"] = "down"
			check["error"] = err.Error()
		}
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "unavailable"
	}
	c.JSON(status, gin.H{"status": overall, "checks": gin.H{"storage": check}})
}

// Info reports build and runtime details.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":        "centrebooks",
		"version":    h.version,
		"storage":    h.driver,
		"go":         runtime.Version(),
		"uptime_sec": int64(time.Since(h.started).Seconds()),
	})
}
