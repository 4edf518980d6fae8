// Package memory provides an in-process store implementing every repository
// contract. It backs tests and STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"centrebooks/internal/core/id"
	"centrebooks/internal/domain/audit"
	"centrebooks/internal/domain/auth"
	"centrebooks/internal/domain/catalogs/centre"
	"centrebooks/internal/domain/catalogs/item"
	"centrebooks/internal/domain/reports"
	"centrebooks/internal/domain/statements"
)

// Store holds all rows in maps guarded by one lock. Values are stored by
// copy so callers can never mutate stored state through a returned pointer.
type Store struct {
	mu         sync.RWMutex
	centres    map[id.ID]centre.Centre
	items      map[id.ID]item.Item
	statements map[id.ID]statements.Statement
	users      map[id.ID]auth.User
	tokens     map[id.ID]auth.RefreshToken
	auditLog   []audit.Entry

	// txMu serializes transactions.
	txMu sync.Mutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		centres:    make(map[id.ID]centre.Centre),
		items:      make(map[id.ID]item.Item),
		statements: make(map[id.ID]statements.Statement),
		users:      make(map[id.ID]auth.User),
		tokens:     make(map[id.ID]auth.RefreshToken),
	}
}

// Centres returns the centre repository view.
func (s *Store) Centres() *CentreRepo { return &CentreRepo{s: s} }

// Items returns the item repository view.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Statements returns the statement repository view.
func (s *Store) Statements() *StatementRepo { return &StatementRepo{s: s} }

// Reports returns the report repository view.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{s: s} }

// Users returns the user repository view.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Tokens returns the refresh token repository view.
func (s *Store) Tokens() *TokenRepo { return &TokenRepo{s: s} }

// Audit returns the audit log view.
func (s *Store) Audit() *AuditRepo { return &AuditRepo{s: s} }

// TxManager returns a transaction manager that rolls the store back when fn fails.
func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

// Ping reports the store as always reachable.
func (s *Store) Ping(ctx context.Context) error { return nil }

type snapshot struct {
	centres    map[id.ID]centre.Centre
	items      map[id.ID]item.Item
	statements map[id.ID]statements.Statement
	users      map[id.ID]auth.User
	tokens     map[id.ID]auth.RefreshToken
	auditLog   []audit.Entry
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		centres:    maps.Clone(s.centres),
		items:      maps.Clone(s.items),
		statements: maps.Clone(s.statements),
		users:      maps.Clone(s.users),
		tokens:     maps.Clone(s.tokens),
		auditLog:   slices.Clone(s.auditLog),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.centres = snap.centres
	s.items = snap.items
	s.statements = snap.statements
	s.users = snap.users
	s.tokens = snap.tokens
	s.auditLog = snap.auditLog
}

// TxManager implements tx.Manager over a Store.
type TxManager struct {
	s *Store
}

type txKey struct{}

// RunInTransaction executes fn atomically. Nested calls join the outer transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	snap := m.s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

// Interface compliance.
var (
	_ centre.Repository     = (*CentreRepo)(nil)
	_ item.Repository       = (*ItemRepo)(nil)
	_ statements.Repository = (*StatementRepo)(nil)
	_ reports.Repository    = (*ReportRepo)(nil)
	_ auth.UserRepository   = (*UserRepo)(nil)
	_ auth.TokenRepository  = (*TokenRepo)(nil)
	_ audit.Repository      = (*AuditRepo)(nil)
)
