// internal/repository/postgres/state_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"xpense-wallet/internal/domain"
	"xpense-wallet/internal/repository"
	"xpense-wallet/pkg/db"
)

// walletRowID is the key of the single wallet row.
const walletRowID = 1

const schema = `
CREATE TABLE IF NOT EXISTS ledger_wallet (
    id      INTEGER PRIMARY KEY,
    balance NUMERIC(20, 4) NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS ledger_transactions (
    id       TEXT PRIMARY KEY,
    seq      BIGINT NOT NULL,
    title    TEXT NOT NULL,
    amount   NUMERIC(20, 4) NOT NULL CHECK (amount > 0),
    category TEXT NOT NULL,
    type     TEXT NOT NULL CHECK (type IN ('credit', 'expense')),
    date     TIMESTAMPTZ NOT NULL
);`

// transactionRow mirrors ledger_transactions; seq orders rows newest first.
type transactionRow struct {
	ID       string          `db:"id"`
	Seq      int64           `db:"seq"`
	Title    string          `db:"title"`
	Amount   decimal.Decimal `db:"amount"`
	Category string          `db:"category"`
	Type     string          `db:"type"`
	Date     time.Time       `db:"date"`
}

// StateStore implements repository.StateStore for PostgreSQL.
type StateStore struct {
	dbBeginner db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor repository.DBExecutor // For reads outside a transaction (e.g., *sqlx.DB)
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewStateStore creates a StateStore on the given connection.
func NewStateStore(conn *sqlx.DB) *StateStore {
	return NewStateStoreWithTx(conn, conn, db.BeginTx, db.CommitTx, db.RollbackTx)
}

// NewStateStoreWithTx creates a StateStore with injected transaction handling.
func NewStateStoreWithTx(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) *StateStore {
	return &StateStore{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

// EnsureSchema creates the ledger tables if they do not exist.
func (s *StateStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.dbExecutor.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create ledger schema: %w", err)
	}
	return nil
}

// Load reads the wallet row and all transactions. A missing wallet row yields
// the empty state. Rows that do not add up to the stored balance are rejected.
func (s *StateStore) Load(ctx context.Context) (*domain.LedgerState, error) {
	state := domain.NewLedgerState()

	err := s.dbExecutor.GetContext(ctx, &state.Balance, `SELECT balance FROM ledger_wallet WHERE id = $1`, walletRowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return state, nil
		}
		return nil, fmt.Errorf("failed to get wallet balance: %w", err)
	}

	rows := []transactionRow{}
	query := `SELECT id, seq, title, amount, category, type, date
              FROM ledger_transactions
              ORDER BY seq DESC`
	if err := s.dbExecutor.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	for _, row := range rows {
		state.Transactions = append(state.Transactions, domain.Transaction{
			ID:       row.ID,
			Title:    row.Title,
			Amount:   row.Amount,
			Category: row.Category,
			Type:     domain.TransactionType(row.Type),
			Date:     row.Date,
		})
	}

	if err := state.Verify(); err != nil {
		return nil, fmt.Errorf("stored ledger is inconsistent: %w", err)
	}
	return state, nil
}

// Save replaces the stored aggregate inside one database transaction.
func (s *StateStore) Save(ctx context.Context, state *domain.LedgerState) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("save: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("save: transaction controller does not implement DBExecutor")
	}

	upsert := `INSERT INTO ledger_wallet (id, balance) VALUES ($1, $2)
               ON CONFLICT (id) DO UPDATE SET balance = EXCLUDED.balance`
	if _, err := txExecutor.ExecContext(ctx, upsert, walletRowID, state.Balance); err != nil {
		return fmt.Errorf("save: failed to update wallet balance: %w", err)
	}

	if _, err := txExecutor.ExecContext(ctx, `DELETE FROM ledger_transactions`); err != nil {
		return fmt.Errorf("save: failed to clear transactions: %w", err)
	}

	insert := `INSERT INTO ledger_transactions (id, seq, title, amount, category, type, date)
               VALUES ($1, $2, $3, $4, $5, $6, $7)`
	n := len(state.Transactions)
	for i, tx := range state.Transactions {
		// Head of the list gets the highest seq
		seq := int64(n - i)
		if _, err := txExecutor.ExecContext(ctx, insert, tx.ID, seq, tx.Title, tx.Amount, tx.Category, string(tx.Type), tx.Date.UTC()); err != nil {
			return fmt.Errorf("save: failed to insert transaction %s: %w", tx.ID, err)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("save: failed to commit transaction: %w", err)
	}
	return nil
}

// Compile-time check: ensure StateStore implements repository.StateStore.
var _ repository.StateStore = (*StateStore)(nil)
