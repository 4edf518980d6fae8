package memory

import (
	"context"
	"slices"

	"centrebooks/internal/core/id"
	"centrebooks/internal/domain/audit"
)

// AuditRepo implements audit.Repository as an append-only slice.
type AuditRepo struct{ s *Store }

func (r *AuditRepo) Append(ctx context.Context, e *audit.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry := *e
	entry.Changes = slices.Clone(e.Changes)
	r.s.auditLog = append(r.s.auditLog, entry)
	return nil
}

func (r *AuditRepo) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]audit.Entry, 0)
	for i := len(r.s.auditLog) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.s.auditLog[i]
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}
