package ledger

import (
	"context"
	"errors"

	"finzen/internal/core"
)

// ErrNotFound is returned when no profile has been created yet. Callers
// branch to onboarding; it is distinct from a profile with no transactions.
var ErrNotFound = errors.New("profile not found")

// Tip is the once-per-day coach nudge, cached as a single (date, text)
// pair. Date is the calendar day the tip was generated for.
type Tip struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// Ports for outbound adapters.
type (
	// ProfileRepository persists the whole profile document. Every Save
	// is a single atomic write: a Load issued immediately afterwards must
	// observe it.
	ProfileRepository interface {
		LoadProfile(ctx context.Context) (core.Profile, error)
		SaveProfile(ctx context.Context, p core.Profile) error
		DeleteProfile(ctx context.Context) error
	}

	// TipCache persists the daily tip marker separately from the profile.
	TipCache interface {
		LoadTip(ctx context.Context) (Tip, bool, error)
		SaveTip(ctx context.Context, tip Tip) error
		DeleteTip(ctx context.Context) error
	}

	// ThemeStore persists the UI theme preference. It survives a profile
	// reset.
	ThemeStore interface {
		LoadTheme(ctx context.Context) (string, error)
		SaveTheme(ctx context.Context, theme string) error
	}

	// SyncPublisher emits a transaction-created event for the export
	// pipeline. Publishing is best effort and never fails a mutation.
	SyncPublisher interface {
		PublishTransactionSync(ctx context.Context, id int64) error
	}
)
