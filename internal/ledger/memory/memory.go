package memory

import (
	"context"
	"sync"

	"finzen/internal/core"
	"finzen/internal/ledger"
)

// Store is an in-memory backing for the ledger, used as the default
// backend and by tests. It implements ProfileRepository, TipCache and
// ThemeStore.
type Store struct {
	mu      sync.Mutex
	profile *core.Profile
	tip     *ledger.Tip
	theme   string
}

func New() *Store {
	return &Store{}
}

func (s *Store) LoadProfile(_ context.Context) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return core.Profile{}, ledger.ErrNotFound
	}
	return copyProfile(*s.profile), nil
}

func (s *Store) SaveProfile(_ context.Context, p core.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := copyProfile(p)
	s.profile = &cp
	return nil
}

func (s *Store) DeleteProfile(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = nil
	return nil
}

func (s *Store) LoadTip(_ context.Context) (ledger.Tip, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tip == nil {
		return ledger.Tip{}, false, nil
	}
	return *s.tip, true, nil
}

func (s *Store) SaveTip(_ context.Context, tip ledger.Tip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tip = &tip
	return nil
}

func (s *Store) DeleteTip(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tip = nil
	return nil
}

func (s *Store) LoadTheme(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme, nil
}

func (s *Store) SaveTheme(_ context.Context, theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return nil
}

// copyProfile clones the transaction slice so callers can't mutate the
// stored document behind the repository's back.
func copyProfile(p core.Profile) core.Profile {
	txs := make([]core.Transaction, len(p.Transactions))
	copy(txs, p.Transactions)
	p.Transactions = txs
	return p
}
