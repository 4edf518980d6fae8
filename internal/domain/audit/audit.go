// Package audit records who changed which statement, and how it looked
// afterwards. Entries are written inside the save transaction, so a rolled
// back save leaves no entry behind.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"centrebooks/internal/core/id"
	"centrebooks/internal/core/security"
	"centrebooks/internal/domain"
)

// Action is the kind of change recorded.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entry is one recorded change. Changes holds the JSON snapshot of the
// record after the change (before it, for deletes).
type Entry struct {
	ID         id.ID           `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   id.ID           `json:"entityId"`
	Action     Action          `json:"action"`
	UserID     string          `json:"userId,omitempty"`
	Changes    json.RawMessage `json:"changes"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Repository stores audit entries.
type Repository interface {
	Append(ctx context.Context, e *Entry) error

	// History returns the entries of one record, newest first.
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

// Identified is implemented by every stored record.
type Identified interface {
	GetID() id.ID
}

// Trail writes and reads audit entries.
type Trail struct {
	repo Repository
	now  func() time.Time
}

// NewTrail creates a Trail over repo.
func NewTrail(repo Repository) *Trail {
	return &Trail{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Record appends an entry for record. The acting user is taken from the
// principal in ctx, when there is one.
func (t *Trail) Record(ctx context.Context, entityType string, action Action, record Identified) error {
	changes, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", entityType, err)
	}

	return t.repo.Append(ctx, &Entry{
		ID:         id.New(),
		EntityType: entityType,
		EntityID:   record.GetID(),
		Action:     action,
		UserID:     security.GetPrincipal(ctx).UserID(),
		Changes:    changes,
		CreatedAt:  t.now(),
	})
}

// History returns up to limit entries for one record, newest first.
func (t *Trail) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return t.repo.History(ctx, entityType, entityID, limit)
}

// Attach registers the trail on the in-transaction hooks of registry.
func Attach[T Identified](t *Trail, entityType string, registry *domain.HookRegistry[T]) {
	registry.OnBeforeCreate(func(ctx context.Context, record T) error {
		return t.Record(ctx, entityType, ActionCreate, record)
	})
	registry.OnBeforeUpdate(func(ctx context.Context, record T) error {
		return t.Record(ctx, entityType, ActionUpdate, record)
	})
	registry.OnBeforeDelete(func(ctx context.Context, record T) error {
		return t.Record(ctx, entityType, ActionDelete, record)
	})
}
