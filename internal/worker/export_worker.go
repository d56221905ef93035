package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finzen/internal/amqp"
	"finzen/internal/core"
	"finzen/internal/export"
	"finzen/internal/ledger"
)

// TransactionSource looks up a stored transaction by ID.
type TransactionSource interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
}

// ExportWorker copies newly recorded transactions to an external sheet.
type ExportWorker struct {
	source   TransactionSource
	appender export.TransactionAppender
}

func NewExportWorker(source TransactionSource, appender export.TransactionAppender) *ExportWorker {
	return &ExportWorker{
		source:   source,
		appender: appender,
	}
}

// HandleSyncMessage processes a single transaction sync message from AMQP.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	t, err := w.source.GetTransaction(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			// Transaction disappeared between publish and consume, most
			// likely because the profile was reset. Nothing to export.
			slog.WarnContext(ctx, "Transaction no longer exists, skipping export", "id", msg.ID)
			return nil
		}
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	ref, err := w.appender.Append(ctx, t)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	slog.InfoContext(ctx, "Successfully exported transaction",
		"id", msg.ID,
		"sheets_ref", ref,
		"description", t.Description,
		"amount_cents", t.Amount.Cents)

	return nil
}
