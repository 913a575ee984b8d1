// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"xpense-wallet/internal/domain"
	"xpense-wallet/internal/repository"
	"xpense-wallet/internal/util"
)

// LedgerService defines the balance-mutation ledger. Every returned state is a
// copy owned by the caller.
type LedgerService interface {
	Credit(ctx context.Context, amount decimal.Decimal) (*domain.LedgerState, *domain.Transaction, error)
	Debit(ctx context.Context, input ExpenseInput) (*domain.LedgerState, *domain.Transaction, error)
	Delete(ctx context.Context, id string) (*domain.LedgerState, error)
	Snapshot(ctx context.Context) (*domain.LedgerState, error)
	Clear(ctx context.Context) (*domain.LedgerState, error)
	Summary(ctx context.Context) (*domain.Summary, error)
}

// ExpenseInput carries the fields of a new expense. Category and Date are optional.
type ExpenseInput struct {
	Title    string
	Amount   decimal.Decimal
	Category string
	Date     *time.Time
}

// IDGenerator returns a new unique transaction id.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Option customizes a ledgerService.
type Option func(*ledgerService)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *ledgerService) { s.newID = gen }
}

// WithClock replaces time.Now. The clock's location decides what "today" means.
func WithClock(clock Clock) Option {
	return func(s *ledgerService) { s.now = clock }
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	// mu serializes load → validate → save so operations never interleave.
	mu     sync.Mutex
	store  repository.StateStore
	logger *slog.Logger
	newID  IDGenerator
	now    Clock
}

// NewLedgerService creates a new instance of LedgerService over store.
func NewLedgerService(store repository.StateStore, logger *slog.Logger, opts ...Option) LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ledgerService{
		store:  store,
		logger: logger,
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Credit adds funds to the wallet.
func (s *ledgerService) Credit(ctx context.Context, amount decimal.Decimal) (*domain.LedgerState, *domain.Transaction, error) {
	if !domain.ValidAmount(amount) {
		return nil, nil, util.ErrInvalidAmount
	}

	var created domain.Transaction
	state, err := s.mutate(ctx, "credit", func(state *domain.LedgerState) error {
		if state.Balance.Add(amount).GreaterThanOrEqual(domain.BalanceCeiling) {
			return util.ErrInvalidAmount
		}
		created = domain.NewCredit(s.newID(), amount, s.now())
		state.Prepend(created)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Wallet credited", "transaction_id", created.ID, "amount", amount.String(), "balance", state.Balance.String())
	return state, &created, nil
}

// Debit records an expense against the current balance.
func (s *ledgerService) Debit(ctx context.Context, input ExpenseInput) (*domain.LedgerState, *domain.Transaction, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || !domain.ValidAmount(input.Amount) {
		return nil, nil, util.ErrInvalidExpense
	}

	var created domain.Transaction
	state, err := s.mutate(ctx, "debit", func(state *domain.LedgerState) error {
		if input.Amount.GreaterThan(state.Balance) {
			return util.ErrInsufficientBalance
		}
		date := s.now()
		if input.Date != nil {
			date = *input.Date
		}
		created = domain.NewExpense(s.newID(), title, input.Amount, strings.TrimSpace(input.Category), date)
		state.Prepend(created)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Expense recorded", "transaction_id", created.ID, "amount", input.Amount.String(), "balance", state.Balance.String())
	return state, &created, nil
}

// Delete removes a transaction and reverses its effect on the balance.
func (s *ledgerService) Delete(ctx context.Context, id string) (*domain.LedgerState, error) {
	var removed domain.Transaction
	state, err := s.mutate(ctx, "delete", func(state *domain.LedgerState) error {
		i := state.Find(id)
		if i < 0 {
			return util.ErrNotFound
		}
		// Reversing a credit must not overdraw the wallet
		if state.Transactions[i].Type == domain.TransactionTypeCredit && state.Transactions[i].Amount.GreaterThan(state.Balance) {
			return util.ErrInsufficientBalance
		}
		removed = state.RemoveAt(i)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction deleted", "transaction_id", removed.ID, "type", removed.Type, "balance", state.Balance.String())
	return state, nil
}

// Snapshot returns a copy of the persisted state.
func (s *ledgerService) Snapshot(ctx context.Context) (*domain.LedgerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx, "snapshot")
	if err != nil {
		return nil, err
	}
	return state.Clone(), nil
}

// Clear resets the ledger to the empty state. Callers are responsible for
// asking the user first.
func (s *ledgerService) Clear(ctx context.Context) (*domain.LedgerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := domain.NewLedgerState()
	if err := s.save(ctx, "clear", state); err != nil {
		return nil, err
	}

	s.logger.Warn("Ledger cleared")
	return state.Clone(), nil
}

// Summary returns balance, today's spend and transaction count.
func (s *ledgerService) Summary(ctx context.Context) (*domain.Summary, error) {
	state, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return state.Summarize(s.now()), nil
}

// mutate runs apply against a fresh copy of the persisted state and saves the
// result. Nothing is saved when apply fails.
func (s *ledgerService) mutate(ctx context.Context, op string, apply func(*domain.LedgerState) error) (*domain.LedgerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx, op)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := apply(next); err != nil {
		return nil, err
	}

	if err := s.save(ctx, op, next); err != nil {
		return nil, err
	}
	return next.Clone(), nil
}

func (s *ledgerService) load(ctx context.Context, op string) (*domain.LedgerState, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load ledger state", "op", op, "error", err)
		return nil, fmt.Errorf("%s: failed to load ledger state: %w: %w", op, util.ErrPersistence, err)
	}
	return state, nil
}

func (s *ledgerService) save(ctx context.Context, op string, state *domain.LedgerState) error {
	if err := s.store.Save(ctx, state); err != nil {
		s.logger.Error("Failed to save ledger state", "op", op, "error", err)
		return fmt.Errorf("%s: failed to save ledger state: %w: %w", op, util.ErrPersistence, err)
	}
	return nil
}
