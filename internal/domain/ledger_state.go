// internal/domain/ledger_state.go
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerState is the persisted aggregate: a balance and the transactions that
// produced it, newest first.
type LedgerState struct {
	Balance      decimal.Decimal `json:"balance"`
	Transactions []Transaction   `json:"transactions"`
}

// Summary is the dashboard view of a ledger.
type Summary struct {
	Balance          decimal.Decimal `json:"balance"`
	TodaySpent       decimal.Decimal `json:"todaySpent"`
	TransactionCount int             `json:"transactionCount"`
}

// NewLedgerState returns the empty initial state.
func NewLedgerState() *LedgerState {
	return &LedgerState{
		Balance:      decimal.Zero,
		Transactions: []Transaction{},
	}
}

// Clone returns a deep copy of the state.
func (s *LedgerState) Clone() *LedgerState {
	out := &LedgerState{
		Balance:      s.Balance,
		Transactions: make([]Transaction, len(s.Transactions)),
	}
	copy(out.Transactions, s.Transactions)
	return out
}

// Wallet returns the balance view of the state.
func (s *LedgerState) Wallet() Wallet {
	return Wallet{Balance: s.Balance}
}

// Find returns the index of the transaction with the given id, or -1.
func (s *LedgerState) Find(id string) int {
	for i, tx := range s.Transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

// Prepend adds tx at the head of the list and applies its effect to the balance.
func (s *LedgerState) Prepend(tx Transaction) {
	s.Transactions = append([]Transaction{tx}, s.Transactions...)
	s.Balance = s.Balance.Add(tx.Effect())
}

// RemoveAt drops the transaction at index i and reverses its effect on the
// balance. Relative order of the remaining transactions is kept.
func (s *LedgerState) RemoveAt(i int) Transaction {
	tx := s.Transactions[i]
	rest := make([]Transaction, 0, len(s.Transactions)-1)
	rest = append(rest, s.Transactions[:i]...)
	rest = append(rest, s.Transactions[i+1:]...)
	s.Transactions = rest
	s.Balance = s.Balance.Sub(tx.Effect())
	return tx
}

// TodaySpend sums expenses dated on the same calendar day as now, in now's location.
func (s *LedgerState) TodaySpend(now time.Time) decimal.Decimal {
	y, m, d := now.Date()
	total := decimal.Zero
	for _, tx := range s.Transactions {
		if tx.Type != TransactionTypeExpense {
			continue
		}
		ty, tm, td := tx.Date.In(now.Location()).Date()
		if ty == y && tm == m && td == d {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// Summarize builds the dashboard view for the given moment.
func (s *LedgerState) Summarize(now time.Time) *Summary {
	return &Summary{
		Balance:          s.Balance,
		TodaySpent:       s.TodaySpend(now),
		TransactionCount: len(s.Transactions),
	}
}

// Verify checks that the balance is non-negative and equals the net effect of
// the transactions, and that every transaction is well formed with a unique id.
func (s *LedgerState) Verify() error {
	if s.Balance.IsNegative() {
		return fmt.Errorf("negative balance %s", s.Balance)
	}
	seen := make(map[string]struct{}, len(s.Transactions))
	net := decimal.Zero
	for i, tx := range s.Transactions {
		if tx.ID == "" {
			return fmt.Errorf("transaction %d has no id", i)
		}
		if _, dup := seen[tx.ID]; dup {
			return fmt.Errorf("duplicate transaction id %q", tx.ID)
		}
		seen[tx.ID] = struct{}{}
		if !tx.Type.Valid() {
			return fmt.Errorf("transaction %q has unknown type %q", tx.ID, tx.Type)
		}
		if !tx.Amount.IsPositive() {
			return fmt.Errorf("transaction %q has non-positive amount %s", tx.ID, tx.Amount)
		}
		net = net.Add(tx.Effect())
	}
	if !net.Equal(s.Balance) {
		return fmt.Errorf("balance %s does not match transaction total %s", s.Balance, net)
	}
	return nil
}
