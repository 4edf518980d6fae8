package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centrebooks/internal/core/entity"
	"centrebooks/internal/core/security"
	"centrebooks/internal/domain"
	"centrebooks/internal/domain/audit"
	"centrebooks/internal/infrastructure/storage/memory"
)

type note struct {
	entity.BaseEntity
	Text string `json:"text"`
}

func TestTrail_RecordAndHistory(t *testing.T) {
	store := memory.NewStore()
	trail := audit.NewTrail(store.Audit())
	ctx := security.WithPrincipal(context.Background(), security.Unrestricted("admin-1"))

	n := &note{BaseEntity: entity.NewBaseEntity(), Text: "first"}
	require.NoError(t, trail.Record(ctx, "note", audit.ActionCreate, n))
	n.Text = "second"
	require.NoError(t, trail.Record(ctx, "note", audit.ActionUpdate, n))

	history, err := trail.History(ctx, "note", n.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, audit.ActionUpdate, history[0].Action, "newest first")
	assert.Equal(t, "admin-1", history[0].UserID)

	var snap note
	require.NoError(t, json.Unmarshal(history[0].Changes, &snap))
	assert.Equal(t, "second", snap.Text)
}

func TestAttach_RecordsInsideTransaction(t *testing.T) {
	store := memory.NewStore()
	trail := audit.NewTrail(store.Audit())
	txm := store.TxManager()
	ctx := context.Background()

	hooks := domain.NewHookRegistry[*note]()
	audit.Attach(trail, "note", hooks)

	n := &note{BaseEntity: entity.NewBaseEntity(), Text: "kept"}
	require.NoError(t, txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return hooks.Run(ctx, domain.BeforeCreate, n)
	}))

	rolledBack := &note{BaseEntity: entity.NewBaseEntity(), Text: "lost"}
	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := hooks.Run(ctx, domain.BeforeDelete, rolledBack); err != nil {
			return err
		}
		return errors.New("write failed")
	})
	require.Error(t, err)

	kept, err := trail.History(ctx, "note", n.ID, 10)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, audit.ActionCreate, kept[0].Action)
	assert.Empty(t, kept[0].UserID, "anonymous context records no user")

	lost, err := trail.History(ctx, "note", rolledBack.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, lost)
}
