package export

import (
	"context"

	"finzen/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionAppender appends a transaction to an external ledger copy,
	// returning a reference to the written row.
	TransactionAppender interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}
)
