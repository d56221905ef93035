package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"finzen/internal/core"
)

// fakeRepo is a minimal in-package ProfileRepository so the store tests
// don't depend on the memory backend.
type fakeRepo struct {
	profile *core.Profile
	saves   int
}

func (f *fakeRepo) LoadProfile(_ context.Context) (core.Profile, error) {
	if f.profile == nil {
		return core.Profile{}, ErrNotFound
	}
	cp := *f.profile
	cp.Transactions = append([]core.Transaction(nil), f.profile.Transactions...)
	return cp, nil
}

func (f *fakeRepo) SaveProfile(_ context.Context, p core.Profile) error {
	f.saves++
	cp := p
	cp.Transactions = append([]core.Transaction(nil), p.Transactions...)
	f.profile = &cp
	return nil
}

func (f *fakeRepo) DeleteProfile(_ context.Context) error {
	f.profile = nil
	return nil
}

type fakeTips struct{ deleted bool }

func (f *fakeTips) LoadTip(_ context.Context) (Tip, bool, error) { return Tip{}, false, nil }
func (f *fakeTips) SaveTip(_ context.Context, _ Tip) error       { return nil }
func (f *fakeTips) DeleteTip(_ context.Context) error            { f.deleted = true; return nil }

type recordingPublisher struct{ ids []int64 }

func (p *recordingPublisher) PublishTransactionSync(_ context.Context, id int64) error {
	p.ids = append(p.ids, id)
	return nil
}

func newTestStore() (*Store, *fakeRepo, *fakeTips) {
	repo := &fakeRepo{}
	tips := &fakeTips{}
	return NewStore(repo, tips, nil), repo, tips
}

func TestCreateProfile(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	p, err := s.CreateProfile(ctx, "Ana", 200000, core.GoalSave)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Balance.Cents != 200000 {
		t.Fatalf("balance = %d, want 200000", p.Balance.Cents)
	}
	if len(p.Transactions) != 0 {
		t.Fatalf("expected empty transactions, got %d", len(p.Transactions))
	}
	if p.JoinedDate.IsZero() {
		t.Fatalf("joined date not set")
	}
}

func TestCreateProfileValidation(t *testing.T) {
	ctx := context.Background()
	s, repo, _ := newTestStore()

	cases := []struct {
		name   string
		income int64
		goal   core.Goal
	}{
		{"", 1000, core.GoalSave},
		{"  ", 1000, core.GoalSave},
		{"Ana", -1, core.GoalSave},
		{"Ana", 1000, core.Goal("yacht")},
	}
	for i, tc := range cases {
		if _, err := s.CreateProfile(ctx, tc.name, tc.income, tc.goal); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
	if repo.saves != 0 {
		t.Fatalf("rejected onboarding must not write, saves=%d", repo.saves)
	}
}

func TestCreateProfileOverwrites(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	if _, err := s.CreateProfile(ctx, "Ana", 200000, core.GoalSave); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.AddTransaction(ctx, "coffee", 350, core.Expense, "Food", false); err != nil {
		t.Fatalf("add: %v", err)
	}
	p, err := s.CreateProfile(ctx, "Ben", 100000, core.GoalInvest)
	if err != nil {
		t.Fatalf("re-create: %v", err)
	}
	if p.Name != "Ben" || len(p.Transactions) != 0 || p.Balance.Cents != 100000 {
		t.Fatalf("onboarding must overwrite, got %+v", p)
	}
}

func TestAddTransactionBalanceInvariant(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	if _, err := s.CreateProfile(ctx, "Ana", 200000, core.GoalSave); err != nil {
		t.Fatalf("create: %v", err)
	}

	ops := []struct {
		typ   core.TransactionType
		cents int64
		gig   bool
	}{
		{core.Expense, 5000, false},
		{core.Income, 30000, true},
		{core.Expense, 1234, false},
		{core.Income, 99, false},
	}
	want := int64(200000)
	for i, op := range ops {
		if _, err := s.AddTransaction(ctx, "t", op.cents, op.typ, "Food", op.gig); err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
		if op.typ == core.Income {
			want += op.cents
		} else {
			want -= op.cents
		}
		p, _ := s.Load(ctx)
		if p.Balance.Cents != want {
			t.Fatalf("op %d: balance = %d, want %d", i, p.Balance.Cents, want)
		}
	}
}

func TestAddTransactionPrependsAndKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	if _, err := s.CreateProfile(ctx, "Ana", 200000, core.GoalSave); err != nil {
		t.Fatalf("create: %v", err)
	}
	first, _ := s.AddTransaction(ctx, "first", 100, core.Expense, "Food", false)
	second, _ := s.AddTransaction(ctx, "second", 200, core.Expense, "Food", false)

	p, _ := s.Load(ctx)
	if len(p.Transactions) != 2 {
		t.Fatalf("len = %d, want 2", len(p.Transactions))
	}
	if p.Transactions[0].ID != second.ID || p.Transactions[1].ID != first.ID {
		t.Fatalf("newest-first order violated: %v", p.Transactions)
	}
	if second.ID <= first.ID {
		t.Fatalf("ids must be strictly increasing: %d then %d", first.ID, second.ID)
	}
}

func TestAddTransactionValidation(t *testing.T) {
	ctx := context.Background()
	s, repo, _ := newTestStore()

	if _, err := s.CreateProfile(ctx, "Ana", 200000, core.GoalSave); err != nil {
		t.Fatalf("create: %v", err)
	}
	saves := repo.saves

	cases := []struct {
		desc  string
		cents int64
		typ   core.TransactionType
		cat   string
	}{
		{"", 100, core.Expense, "Food"},
		{"x", 0, core.Expense, "Food"},
		{"x", -5, core.Expense, "Food"},
		{"x", 100, "transfer", "Food"},
		{"x", 100, core.Income, ""},
	}
	for i, tc := range cases {
		if _, err := s.AddTransaction(ctx, tc.desc, tc.cents, tc.typ, tc.cat, false); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
	if repo.saves != saves {
		t.Fatalf("rejected transaction must not write")
	}
}

func TestAddTransactionGigIgnoredForExpense(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	if _, err := s.CreateProfile(ctx, "Ana", 200000, core.GoalSave); err != nil {
		t.Fatalf("create: %v", err)
	}
	tx, err := s.AddTransaction(ctx, "bus", 250, core.Expense, "Transport", true)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if tx.IsGig {
		t.Fatalf("IsGig must be forced false for expenses")
	}
}

func TestAddTransactionWithoutProfile(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()
	if _, err := s.AddTransaction(ctx, "x", 100, core.Expense, "Food", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateGoal(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	if _, err := s.CreateProfile(ctx, "Ana", 200000, core.GoalSave); err != nil {
		t.Fatalf("create: %v", err)
	}
	p, err := s.UpdateGoal(ctx, core.GoalDebtPayoff)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Goal != core.GoalDebtPayoff {
		t.Fatalf("goal = %q", p.Goal)
	}
	if p.Name != "Ana" || p.Balance.Cents != 200000 {
		t.Fatalf("goal update must not touch other fields: %+v", p)
	}
	if _, err := s.UpdateGoal(ctx, core.Goal("lottery")); err == nil {
		t.Fatalf("expected error for unknown goal")
	}
}

func TestResetClearsProfileAndTip(t *testing.T) {
	ctx := context.Background()
	s, _, tips := newTestStore()

	if _, err := s.CreateProfile(ctx, "Ana", 200000, core.GoalSave); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after reset, got %v", err)
	}
	if !tips.deleted {
		t.Fatalf("reset must clear the tip cache")
	}
}

func TestAddTransactionPublishesSyncEvent(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	pub := &recordingPublisher{}
	s := NewStore(repo, nil, pub)

	if _, err := s.CreateProfile(ctx, "Ana", 200000, core.GoalSave); err != nil {
		t.Fatalf("create: %v", err)
	}
	tx, err := s.AddTransaction(ctx, "coffee", 350, core.Expense, "Food", false)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(pub.ids) != 1 || pub.ids[0] != tx.ID {
		t.Fatalf("published ids = %v, want [%d]", pub.ids, tx.ID)
	}
}

func TestNextIDMonotonicInSameMillisecond(t *testing.T) {
	s, _, _ := newTestStore()
	frozen := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return frozen }

	a := s.nextID()
	b := s.nextID()
	if b <= a {
		t.Fatalf("ids not strictly increasing: %d then %d", a, b)
	}
}
