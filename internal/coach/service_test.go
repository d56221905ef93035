package coach

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"finzen/internal/core"
	"finzen/internal/ledger"
)

type fakeAdvisor struct {
	mu      sync.Mutex
	calls   int
	reply   string
	err     error
	prompts []string
}

func (f *fakeAdvisor) Advise(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type memTips struct {
	mu  sync.Mutex
	tip *ledger.Tip
}

func (m *memTips) LoadTip(_ context.Context) (ledger.Tip, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tip == nil {
		return ledger.Tip{}, false, nil
	}
	return *m.tip, true, nil
}

func (m *memTips) SaveTip(_ context.Context, tip ledger.Tip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tip = &tip
	return nil
}

func (m *memTips) DeleteTip(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tip = nil
	return nil
}

func testProfile() core.Profile {
	return core.Profile{
		Name:          "Ana",
		MonthlyIncome: core.Money{Cents: 200000},
		Goal:          core.GoalSave,
		Balance:       core.Money{Cents: 200000},
		Transactions: []core.Transaction{
			{ID: 1, Description: "lunch", Amount: core.Money{Cents: 5000}, Type: core.Expense, Category: "Food", Date: time.Now()},
		},
	}
}

func TestChatSuccess(t *testing.T) {
	adv := &fakeAdvisor{reply: "Nice work, Ana!"}
	s := NewService(adv, &memTips{})

	reply, err := s.Chat(context.Background(), "How am I doing?", testProfile())
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "Nice work, Ana!" {
		t.Fatalf("reply = %q", reply)
	}
	if len(adv.prompts) != 1 || !strings.Contains(adv.prompts[0], "How am I doing?") {
		t.Fatalf("prompt not relayed: %v", adv.prompts)
	}
}

func TestChatFailureReturnsFallback(t *testing.T) {
	adv := &fakeAdvisor{err: errors.New("upstream down")}
	s := NewService(adv, &memTips{})

	reply, err := s.Chat(context.Background(), "hi", testProfile())
	if !errors.Is(err, ErrRelay) {
		t.Fatalf("expected ErrRelay, got %v", err)
	}
	if reply != FallbackReply {
		t.Fatalf("reply = %q, want fallback", reply)
	}
}

func TestDailyTipCachesPerDay(t *testing.T) {
	adv := &fakeAdvisor{reply: "Cut back on takeout."}
	tips := &memTips{}
	s := NewService(adv, tips)
	day := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return day }

	first, err := s.DailyTip(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("first tip: %v", err)
	}
	if first.Text != "Cut back on takeout." || first.Date != "2026-08-28" {
		t.Fatalf("first tip = %+v", first)
	}

	adv.reply = "DIFFERENT"
	second, err := s.DailyTip(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("second tip: %v", err)
	}
	if second.Text != first.Text {
		t.Fatalf("same-day tip must be cached byte-for-byte: %q vs %q", second.Text, first.Text)
	}
	if adv.calls != 1 {
		t.Fatalf("second same-day call must not hit the network, calls=%d", adv.calls)
	}
}

func TestDailyTipRefreshesNextDay(t *testing.T) {
	adv := &fakeAdvisor{reply: "Day one tip."}
	tips := &memTips{}
	s := NewService(adv, tips)
	day := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return day }

	if _, err := s.DailyTip(context.Background(), testProfile()); err != nil {
		t.Fatalf("day one: %v", err)
	}

	adv.reply = "Day two tip."
	s.now = func() time.Time { return day.AddDate(0, 0, 1) }
	tip, err := s.DailyTip(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("day two: %v", err)
	}
	if tip.Text != "Day two tip." || tip.Date != "2026-08-29" {
		t.Fatalf("day two tip = %+v", tip)
	}
	if adv.calls != 2 {
		t.Fatalf("calls = %d, want 2", adv.calls)
	}
}

func TestDailyTipFailure(t *testing.T) {
	adv := &fakeAdvisor{err: errors.New("boom")}
	tips := &memTips{}
	s := NewService(adv, tips)

	if _, err := s.DailyTip(context.Background(), testProfile()); !errors.Is(err, ErrRelay) {
		t.Fatalf("expected ErrRelay, got %v", err)
	}
	if _, ok, _ := tips.LoadTip(context.Background()); ok {
		t.Fatalf("failed tip must not be cached")
	}
}
