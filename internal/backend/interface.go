package backend

import (
	"context"

	"finzen/internal/ledger"
)

// Backend bundles the persistence ports a finzen process needs.
type Backend interface {
	ledger.ProfileRepository
	ledger.TipCache
	ledger.ThemeStore
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the backend instance, the optional sync publisher, and an
// optional cleanup function.
type Result struct {
	Backend   Backend
	Publisher ledger.SyncPublisher
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// AMQP (optional, sqlite backend only)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// Type represents the type of backend
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
