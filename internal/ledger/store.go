package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finzen/internal/core"
)

// Store is the single source of truth for the profile document. All reads
// and writes go through it so the renderer and the coach relay always see
// a consistent snapshot.
type Store struct {
	repo      ProfileRepository
	tips      TipCache
	publisher SyncPublisher

	mu     sync.Mutex // guards lastID
	lastID int64
	now    func() time.Time
}

// NewStore creates a ledger store over the given repository. tips and
// publisher may be nil; Reset then skips the tip cache and AddTransaction
// skips event publishing.
func NewStore(repo ProfileRepository, tips TipCache, publisher SyncPublisher) *Store {
	return &Store{
		repo:      repo,
		tips:      tips,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateProfile onboards the user, overwriting any prior profile. The
// starting balance equals the monthly income.
func (s *Store) CreateProfile(ctx context.Context, name string, monthlyIncomeCents int64, goal core.Goal) (core.Profile, error) {
	p := core.Profile{
		Name:          name,
		MonthlyIncome: core.Money{Cents: monthlyIncomeCents},
		Goal:          goal,
		Balance:       core.Money{Cents: monthlyIncomeCents},
		Transactions:  []core.Transaction{},
		JoinedDate:    s.now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return core.Profile{}, err
	}
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return core.Profile{}, fmt.Errorf("save profile: %w", err)
	}

	slog.InfoContext(ctx, "Profile created",
		"name", p.Name,
		"monthly_income_cents", p.MonthlyIncome.Cents,
		"goal", string(p.Goal))

	return p, nil
}

// AddTransaction validates, prepends the transaction, adjusts the balance
// incrementally and persists the whole profile in one write. No partial
// update is ever visible to readers.
func (s *Store) AddTransaction(ctx context.Context, desc string, amountCents int64, typ core.TransactionType, category string, isGig bool) (core.Transaction, error) {
	p, err := s.repo.LoadProfile(ctx)
	if err != nil {
		return core.Transaction{}, err
	}

	if typ == core.Expense {
		// Gig tagging only applies to income.
		isGig = false
	}
	t := core.Transaction{
		ID:          s.nextID(),
		Description: desc,
		Amount:      core.Money{Cents: amountCents},
		Type:        typ,
		Category:    category,
		IsGig:       isGig,
		Date:        s.now().UTC(),
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	p.Transactions = append([]core.Transaction{t}, p.Transactions...)
	p.Balance.Cents += t.Signed()

	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return core.Transaction{}, fmt.Errorf("save profile: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"id", t.ID,
		"type", string(t.Type),
		"amount_cents", t.Amount.Cents,
		"category", t.Category,
		"balance_cents", p.Balance.Cents)

	// Publish async sync event (non-blocking for the caller's contract).
	if s.publisher != nil {
		if err := s.publisher.PublishTransactionSync(ctx, t.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish transaction sync event",
				"id", t.ID, "error", err)
			// Don't fail the request - the transaction is saved locally
		}
	}

	return t, nil
}

// UpdateGoal replaces only the goal field and persists the full profile.
func (s *Store) UpdateGoal(ctx context.Context, goal core.Goal) (core.Profile, error) {
	if err := goal.Validate(); err != nil {
		return core.Profile{}, err
	}
	p, err := s.repo.LoadProfile(ctx)
	if err != nil {
		return core.Profile{}, err
	}
	p.Goal = goal
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return core.Profile{}, fmt.Errorf("save profile: %w", err)
	}

	slog.InfoContext(ctx, "Goal updated", "goal", string(goal))
	return p, nil
}

// Load returns the current profile, or ErrNotFound before onboarding.
func (s *Store) Load(ctx context.Context) (core.Profile, error) {
	return s.repo.LoadProfile(ctx)
}

// Reset deletes the profile and the cached tip. The theme preference
// survives a reset.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.repo.DeleteProfile(ctx); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if s.tips != nil {
		if err := s.tips.DeleteTip(ctx); err != nil {
			return fmt.Errorf("delete tip cache: %w", err)
		}
	}
	slog.InfoContext(ctx, "Profile reset")
	return nil
}

// nextID derives a millisecond-timestamp id, bumped when two transactions
// land inside the same millisecond so ids stay strictly increasing.
func (s *Store) nextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
