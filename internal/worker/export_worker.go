package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/airatk/budget-api/internal/amqp"
	"github.com/airatk/budget-api/internal/core"
	"github.com/airatk/budget-api/internal/export/sheets"
)

// TransactionSource provides the records the worker needs to build an export
// row. *storage.Repository satisfies it.
type TransactionSource interface {
	GetTransaction(ctx context.Context, userID, transactionID int64) (*core.Transaction, error)
	GetAccount(ctx context.Context, userID, accountID int64) (*core.Account, error)
	GetCategory(ctx context.Context, userID, categoryID int64) (*core.Category, error)
}

// ExportWorker consumes transaction events and appends the full records to a
// spreadsheet. The export is an append-only ledger: deletions are logged but
// never remove rows.
type ExportWorker struct {
	source   TransactionSource
	appender sheets.Appender
}

func NewExportWorker(source TransactionSource, appender sheets.Appender) *ExportWorker {
	return &ExportWorker{source: source, appender: appender}
}

// HandleTransactionEvent processes a single transaction event message.
func (w *ExportWorker) HandleTransactionEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	if msg.Action == amqp.ActionDeleted {
		slog.InfoContext(ctx, "Transaction deleted, keeping exported rows",
			"transaction_id", msg.TransactionID)
		return nil
	}

	transaction, err := w.source.GetTransaction(ctx, msg.UserID, msg.TransactionID)
	if errors.Is(err, core.ErrRecordNotFound) {
		// Deleted between publish and consume; nothing left to export.
		slog.WarnContext(ctx, "Transaction no longer exists, skipping export",
			"transaction_id", msg.TransactionID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}

	row, err := w.buildRow(ctx, msg.UserID, transaction)
	if err != nil {
		return err
	}

	ref, err := w.appender.AppendRow(ctx, row)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"transaction_id", transaction.ID,
		"action", msg.Action,
		"sheets_ref", ref,
		"amount_cents", transaction.Amount.Cents)
	return nil
}

func (w *ExportWorker) buildRow(ctx context.Context, userID int64, transaction *core.Transaction) (sheets.Row, error) {
	account, err := w.source.GetAccount(ctx, userID, transaction.AccountID)
	if err != nil {
		return sheets.Row{}, fmt.Errorf("get account: %w", err)
	}

	categoryName := ""
	if transaction.CategoryID != 0 {
		category, err := w.source.GetCategory(ctx, userID, transaction.CategoryID)
		if err != nil && !errors.Is(err, core.ErrRecordNotFound) {
			return sheets.Row{}, fmt.Errorf("get category: %w", err)
		}
		if category != nil {
			categoryName = category.Name
		}
	}

	return sheets.Row{
		Date:     transaction.DueDate.String(),
		Time:     transaction.DueTime,
		Type:     string(transaction.Type),
		Account:  account.Name,
		Category: categoryName,
		Amount:   transaction.Amount,
		Note:     transaction.Note,
	}, nil
}
