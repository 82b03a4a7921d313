package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/airatk/budget-api/internal/amqp"
	"github.com/airatk/budget-api/internal/core"
	"github.com/airatk/budget-api/internal/storage"
)

// TransactionService orchestrates transaction writes across SQLite and AMQP.
type TransactionService struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
}

func NewTransactionService(storage *storage.Repository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateTransaction validates ownership of the referenced account and
// category, saves the transaction, and publishes a created event.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID int64, transaction *core.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, userID, transaction); err != nil {
		return err
	}

	if err := s.storage.CreateTransaction(ctx, transaction); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}

	s.publishEvent(ctx, transaction.ID, userID, amqp.ActionCreated)
	return nil
}

// UpdateTransaction replaces an owned transaction and publishes an updated event.
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID int64, transaction *core.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}
	// Existence and ownership of the record itself.
	if _, err := s.storage.GetTransaction(ctx, userID, transaction.ID); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, userID, transaction); err != nil {
		return err
	}

	if err := s.storage.UpdateTransaction(ctx, transaction); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.publishEvent(ctx, transaction.ID, userID, amqp.ActionUpdated)
	return nil
}

// DeleteTransaction removes an owned transaction and publishes a deleted event.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, transactionID int64) error {
	if _, err := s.storage.GetTransaction(ctx, userID, transactionID); err != nil {
		return err
	}

	if err := s.storage.DeleteTransaction(ctx, transactionID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publishEvent(ctx, transactionID, userID, amqp.ActionDeleted)
	return nil
}

// GetTransaction fetches one owned transaction.
func (s *TransactionService) GetTransaction(ctx context.Context, userID, transactionID int64) (*core.Transaction, error) {
	return s.storage.GetTransaction(ctx, userID, transactionID)
}

// ListTransactions returns the user's transactions for one calendar month.
func (s *TransactionService) ListTransactions(ctx context.Context, userID int64, period core.Period) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx, userID, period)
}

// checkReferences verifies the account (and category, when set) belong to the
// requesting user.
func (s *TransactionService) checkReferences(ctx context.Context, userID int64, transaction *core.Transaction) error {
	if _, err := s.storage.GetAccount(ctx, userID, transaction.AccountID); err != nil {
		return fmt.Errorf("account %d: %w", transaction.AccountID, err)
	}
	if transaction.CategoryID != 0 {
		if _, err := s.storage.GetCategory(ctx, userID, transaction.CategoryID); err != nil {
			return fmt.Errorf("category %d: %w", transaction.CategoryID, err)
		}
	}
	return nil
}

func (s *TransactionService) publishEvent(ctx context.Context, transactionID, userID int64, action string) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping event", "action", action)
		return
	}
	// Events are best-effort; the local write already succeeded.
	if err := s.amqpClient.PublishTransactionEvent(ctx, transactionID, userID, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"transaction_id", transactionID,
			"action", action,
			"error", err)
	}
}
