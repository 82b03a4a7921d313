package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/airatk/budget-api/internal/core"
	"github.com/airatk/budget-api/internal/storage"
)

func newTransactionService(t *testing.T) (*TransactionService, *storage.Repository) {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewTransactionService(repo, nil), repo
}

func createUserWithAccount(t *testing.T, repo *storage.Repository, username string) (*core.User, *core.Account) {
	t.Helper()
	ctx := context.Background()
	user := &core.User{Username: username, PasswordHash: "hash"}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	account := &core.Account{UserID: user.ID, Name: "Checking", Currency: "USD"}
	if err := repo.CreateAccount(ctx, account); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return user, account
}

func TestCreateTransaction(t *testing.T) {
	service, repo := newTransactionService(t)
	user, account := createUserWithAccount(t, repo, "alice")
	ctx := context.Background()

	transaction := &core.Transaction{
		AccountID: account.ID,
		Type:      core.TransactionOutcome,
		DueDate:   core.NewDate(2023, 6, 5),
		DueTime:   "10:00:00",
		Amount:    core.Money{Cents: 1250},
		Note:      "groceries",
	}
	if err := service.CreateTransaction(ctx, user.ID, transaction); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if transaction.ID == 0 {
		t.Fatal("expected transaction ID to be assigned")
	}

	got, err := service.GetTransaction(ctx, user.ID, transaction.ID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if got.Amount.Cents != 1250 || got.Note != "groceries" {
		t.Fatalf("got %+v", got)
	}
}

func TestCreateTransactionRejectsForeignAccount(t *testing.T) {
	service, repo := newTransactionService(t)
	alice, _ := createUserWithAccount(t, repo, "alice")
	_, bobAccount := createUserWithAccount(t, repo, "bob")
	ctx := context.Background()

	transaction := &core.Transaction{
		AccountID: bobAccount.ID,
		Type:      core.TransactionOutcome,
		DueDate:   core.NewDate(2023, 6, 5),
		Amount:    core.Money{Cents: 100},
	}
	err := service.CreateTransaction(ctx, alice.ID, transaction)
	if !errors.Is(err, core.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for foreign account, got %v", err)
	}
}

func TestCreateTransactionRejectsInvalidInput(t *testing.T) {
	service, repo := newTransactionService(t)
	user, account := createUserWithAccount(t, repo, "alice")
	ctx := context.Background()

	cases := []struct {
		name        string
		transaction core.Transaction
		want        error
	}{
		{
			name: "zero amount",
			transaction: core.Transaction{AccountID: account.ID, Type: core.TransactionOutcome,
				DueDate: core.NewDate(2023, 6, 5)},
			want: core.ErrInvalidAmount,
		},
		{
			name: "unknown type",
			transaction: core.Transaction{AccountID: account.ID, Type: core.TransactionType("loan"),
				DueDate: core.NewDate(2023, 6, 5), Amount: core.Money{Cents: 100}},
			want: core.ErrInvalidType,
		},
		{
			name: "missing date",
			transaction: core.Transaction{AccountID: account.ID, Type: core.TransactionOutcome,
				Amount: core.Money{Cents: 100}},
			want: core.ErrInvalidDate,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transaction := tc.transaction
			if err := service.CreateTransaction(ctx, user.ID, &transaction); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestUpdateTransaction(t *testing.T) {
	service, repo := newTransactionService(t)
	user, account := createUserWithAccount(t, repo, "alice")
	ctx := context.Background()

	transaction := &core.Transaction{
		AccountID: account.ID,
		Type:      core.TransactionOutcome,
		DueDate:   core.NewDate(2023, 6, 5),
		Amount:    core.Money{Cents: 100},
	}
	if err := service.CreateTransaction(ctx, user.ID, transaction); err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	transaction.Amount = core.Money{Cents: 250}
	transaction.Note = "updated"
	if err := service.UpdateTransaction(ctx, user.ID, transaction); err != nil {
		t.Fatalf("update transaction: %v", err)
	}

	got, err := service.GetTransaction(ctx, user.ID, transaction.ID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if got.Amount.Cents != 250 || got.Note != "updated" {
		t.Fatalf("got %+v", got)
	}
}

func TestUpdateTransactionNotOwned(t *testing.T) {
	service, repo := newTransactionService(t)
	alice, _ := createUserWithAccount(t, repo, "alice")
	bob, bobAccount := createUserWithAccount(t, repo, "bob")
	ctx := context.Background()

	transaction := &core.Transaction{
		AccountID: bobAccount.ID,
		Type:      core.TransactionOutcome,
		DueDate:   core.NewDate(2023, 6, 5),
		Amount:    core.Money{Cents: 100},
	}
	if err := service.CreateTransaction(ctx, bob.ID, transaction); err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	transaction.Amount = core.Money{Cents: 999}
	if err := service.UpdateTransaction(ctx, alice.ID, transaction); !errors.Is(err, core.ErrRecordNotOwned) {
		t.Fatalf("expected ErrRecordNotOwned, got %v", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	service, repo := newTransactionService(t)
	user, account := createUserWithAccount(t, repo, "alice")
	ctx := context.Background()

	transaction := &core.Transaction{
		AccountID: account.ID,
		Type:      core.TransactionIncome,
		DueDate:   core.NewDate(2023, 6, 5),
		Amount:    core.Money{Cents: 100},
	}
	if err := service.CreateTransaction(ctx, user.ID, transaction); err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if err := service.DeleteTransaction(ctx, user.ID, transaction.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	if _, err := service.GetTransaction(ctx, user.ID, transaction.ID); !errors.Is(err, core.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound after delete, got %v", err)
	}
}

func TestListTransactionsByPeriod(t *testing.T) {
	service, repo := newTransactionService(t)
	user, account := createUserWithAccount(t, repo, "alice")
	ctx := context.Background()

	for _, date := range []core.Date{
		core.NewDate(2023, 6, 1),
		core.NewDate(2023, 6, 20),
		core.NewDate(2023, 7, 1),
	} {
		transaction := &core.Transaction{
			AccountID: account.ID,
			Type:      core.TransactionOutcome,
			DueDate:   date,
			Amount:    core.Money{Cents: 100},
		}
		if err := service.CreateTransaction(ctx, user.ID, transaction); err != nil {
			t.Fatalf("create transaction: %v", err)
		}
	}

	june, err := service.ListTransactions(ctx, user.ID, core.Period{Year: 2023, Month: 6})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(june) != 2 {
		t.Fatalf("got %d transactions for June, want 2", len(june))
	}
}
