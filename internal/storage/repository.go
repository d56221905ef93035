// Package storage persists the profile document and its sidecar markers in
// SQLite. Each document lives under the same key the browser client used
// in local storage, written whole in a single upsert so a load issued
// right after a save always observes it.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finzen/internal/core"
	"finzen/internal/ledger"

	_ "modernc.org/sqlite"
)

const (
	profileKey = "finzen_user_v2"
	themeKey   = "finzen_theme"
	tipKey     = "finzen_tip"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// storedProfile is the JSON document shape, kept field-compatible with the
// document the browser client wrote. Amounts are integer cents.
type storedProfile struct {
	Name          string              `json:"name"`
	MonthlyIncome int64               `json:"monthlyIncome"`
	Goal          string              `json:"goal"`
	Balance       int64               `json:"balance"`
	Transactions  []storedTransaction `json:"transactions"`
	JoinedDate    time.Time           `json:"joinedDate"`
}

type storedTransaction struct {
	ID       int64     `json:"id"`
	Desc     string    `json:"desc"`
	Amount   int64     `json:"amount"`
	Type     string    `json:"type"`
	Category string    `json:"category"`
	IsGig    bool      `json:"isGig"`
	Date     time.Time `json:"date"`
}

// LoadProfile implements ledger.ProfileRepository.
func (r *SQLiteRepository) LoadProfile(ctx context.Context) (core.Profile, error) {
	raw, err := r.get(ctx, profileKey)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("load profile: %w", err)
	}

	var doc storedProfile
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return core.Profile{}, fmt.Errorf("decode profile document: %w", err)
	}
	return fromStored(doc), nil
}

// SaveProfile implements ledger.ProfileRepository. The whole document is
// written in one upsert.
func (r *SQLiteRepository) SaveProfile(ctx context.Context, p core.Profile) error {
	body, err := json.Marshal(toStored(p))
	if err != nil {
		return fmt.Errorf("encode profile document: %w", err)
	}
	if err := r.put(ctx, profileKey, string(body)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	slog.DebugContext(ctx, "Profile saved",
		"transactions", len(p.Transactions),
		"balance_cents", p.Balance.Cents)
	return nil
}

// DeleteProfile implements ledger.ProfileRepository.
func (r *SQLiteRepository) DeleteProfile(ctx context.Context) error {
	if err := r.del(ctx, profileKey); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// LoadTip implements ledger.TipCache.
func (r *SQLiteRepository) LoadTip(ctx context.Context) (ledger.Tip, bool, error) {
	raw, err := r.get(ctx, tipKey)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Tip{}, false, nil
	}
	if err != nil {
		return ledger.Tip{}, false, fmt.Errorf("load tip: %w", err)
	}
	var tip ledger.Tip
	if err := json.Unmarshal([]byte(raw), &tip); err != nil {
		return ledger.Tip{}, false, fmt.Errorf("decode tip: %w", err)
	}
	return tip, true, nil
}

// SaveTip implements ledger.TipCache.
func (r *SQLiteRepository) SaveTip(ctx context.Context, tip ledger.Tip) error {
	body, err := json.Marshal(tip)
	if err != nil {
		return fmt.Errorf("encode tip: %w", err)
	}
	if err := r.put(ctx, tipKey, string(body)); err != nil {
		return fmt.Errorf("save tip: %w", err)
	}
	return nil
}

// DeleteTip implements ledger.TipCache.
func (r *SQLiteRepository) DeleteTip(ctx context.Context) error {
	if err := r.del(ctx, tipKey); err != nil {
		return fmt.Errorf("delete tip: %w", err)
	}
	return nil
}

// LoadTheme implements ledger.ThemeStore. An unset theme is returned as an
// empty string, not an error.
func (r *SQLiteRepository) LoadTheme(ctx context.Context) (string, error) {
	raw, err := r.get(ctx, themeKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load theme: %w", err)
	}
	return raw, nil
}

// SaveTheme implements ledger.ThemeStore.
func (r *SQLiteRepository) SaveTheme(ctx context.Context, theme string) error {
	if err := r.put(ctx, themeKey, theme); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// GetTransaction returns a single transaction from the profile document.
// Used by the export worker to resolve sync events.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	p, err := r.LoadProfile(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, t := range p.Transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, ledger.ErrNotFound)
}

func (r *SQLiteRepository) get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM documents WHERE key = ?`, key).Scan(&value)
	return value, err
}

func (r *SQLiteRepository) put(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (key, value, updated_at) VALUES (?, ?, datetime('now'))
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	return err
}

func (r *SQLiteRepository) del(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key)
	return err
}

func toStored(p core.Profile) storedProfile {
	doc := storedProfile{
		Name:          p.Name,
		MonthlyIncome: p.MonthlyIncome.Cents,
		Goal:          string(p.Goal),
		Balance:       p.Balance.Cents,
		Transactions:  make([]storedTransaction, len(p.Transactions)),
		JoinedDate:    p.JoinedDate,
	}
	for i, t := range p.Transactions {
		doc.Transactions[i] = storedTransaction{
			ID:       t.ID,
			Desc:     t.Description,
			Amount:   t.Amount.Cents,
			Type:     string(t.Type),
			Category: t.Category,
			IsGig:    t.IsGig,
			Date:     t.Date,
		}
	}
	return doc
}

func fromStored(doc storedProfile) core.Profile {
	p := core.Profile{
		Name:          doc.Name,
		MonthlyIncome: core.Money{Cents: doc.MonthlyIncome},
		Goal:          core.Goal(doc.Goal),
		Balance:       core.Money{Cents: doc.Balance},
		Transactions:  make([]core.Transaction, len(doc.Transactions)),
		JoinedDate:    doc.JoinedDate,
	}
	for i, t := range doc.Transactions {
		p.Transactions[i] = core.Transaction{
			ID:          t.ID,
			Description: t.Desc,
			Amount:      core.Money{Cents: t.Amount},
			Type:        core.TransactionType(t.Type),
			Category:    t.Category,
			IsGig:       t.IsGig,
			Date:        t.Date,
		}
	}
	return p
}
