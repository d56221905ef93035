package coach

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"finzen/internal/core"
	"finzen/internal/ledger"
)

// Service fronts the generative model for chat replies and the once-daily
// proactive tip. It only reads profile snapshots handed to it; it never
// mutates the ledger, even on failure.
type Service struct {
	advisor Advisor
	tips    ledger.TipCache
	group   singleflight.Group
	now     func() time.Time
}

func NewService(advisor Advisor, tips ledger.TipCache) *Service {
	return &Service{
		advisor: advisor,
		tips:    tips,
		now:     time.Now,
	}
}

// Chat relays the user's message with the current profile snapshot. On any
// relay failure the fallback reply is returned alongside the error so
// callers always have something to show.
func (s *Service) Chat(ctx context.Context, message string, p core.Profile) (string, error) {
	reply, err := s.advisor.Advise(ctx, BuildPrompt(p, message))
	if err != nil {
		slog.ErrorContext(ctx, "Chat relay failed", "error", err)
		return FallbackReply, fmt.Errorf("%w: %v", ErrRelay, err)
	}
	return reply, nil
}

// DailyTip returns the proactive tip for today, hitting the model at most
// once per calendar day. Repeat calls on the same day return the cached
// text byte-for-byte. Concurrent first calls collapse into one upstream
// request.
func (s *Service) DailyTip(ctx context.Context, p core.Profile) (ledger.Tip, error) {
	today := s.today()

	cached, ok, err := s.tips.LoadTip(ctx)
	if err != nil {
		return ledger.Tip{}, fmt.Errorf("load tip cache: %w", err)
	}
	if ok && cached.Date == today {
		slog.DebugContext(ctx, "Daily tip served from cache", "date", today)
		return cached, nil
	}

	v, err, _ := s.group.Do(today, func() (any, error) {
		// Re-check under the flight: a racing call may have stored it.
		cached, ok, err := s.tips.LoadTip(ctx)
		if err == nil && ok && cached.Date == today {
			return cached, nil
		}

		reply, err := s.advisor.Advise(ctx, BuildTipPrompt(p))
		if err != nil {
			return ledger.Tip{}, fmt.Errorf("%w: %v", ErrRelay, err)
		}
		tip := ledger.Tip{Date: today, Text: reply}
		if err := s.tips.SaveTip(ctx, tip); err != nil {
			return ledger.Tip{}, fmt.Errorf("save tip cache: %w", err)
		}
		slog.InfoContext(ctx, "Daily tip generated", "date", today)
		return tip, nil
	})
	if err != nil {
		return ledger.Tip{}, err
	}
	return v.(ledger.Tip), nil
}

func (s *Service) today() string {
	return s.now().Format("2006-01-02")
}
