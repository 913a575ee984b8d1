// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

func init() {
	// Amounts are stored and served as JSON numbers, matching the ledger file format.
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType defines the direction of a ledger transaction.
type TransactionType string

const (
	TransactionTypeCredit  TransactionType = "credit"
	TransactionTypeExpense TransactionType = "expense"
)

// Labels applied when the caller does not provide one.
const (
	CreditTitle            = "Added Funds"
	CreditCategory         = "Wallet"
	DefaultExpenseCategory = "General"
)

// Amount bounds. They match the NUMERIC(20, 4) columns of the postgres store,
// so every store holds the same values.
const (
	MaxAmountScale         = 4
	MaxAmountIntegerDigits = 16
)

// BalanceCeiling is the first balance the wallet column cannot hold.
var BalanceCeiling = decimal.New(1, MaxAmountIntegerDigits)

// ValidAmount reports whether amount is positive and fits the amount bounds:
// at most MaxAmountIntegerDigits before the point and MaxAmountScale after it.
// Trailing fractional zeros are allowed, so 1.50000 is valid.
func ValidAmount(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	exp := int64(amount.Exponent())
	digits := int64(amount.NumDigits())
	if digits+exp > MaxAmountIntegerDigits {
		return false
	}
	if exp >= -MaxAmountScale {
		return true
	}
	// The coefficient needs at least -exp-MaxAmountScale trailing zeros. Checking
	// the digit count first keeps exponents like 1e-2000000000 from being rescaled.
	if digits <= -exp-MaxAmountScale {
		return false
	}
	return amount.Equal(amount.Truncate(MaxAmountScale))
}

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeExpense
}

// Transaction represents a single balance mutation recorded in the ledger.
type Transaction struct {
	ID       string          `db:"id" json:"id"`
	Title    string          `db:"title" json:"title"`
	Amount   decimal.Decimal `db:"amount" json:"amount"`     // Always positive; Type gives the direction
	Category string          `db:"category" json:"category"` // Display label
	Type     TransactionType `db:"type" json:"type"`
	Date     time.Time       `db:"date" json:"date"`
}

// NewCredit creates a top-up transaction.
func NewCredit(id string, amount decimal.Decimal, now time.Time) Transaction {
	return Transaction{
		ID:       id,
		Title:    CreditTitle,
		Amount:   amount,
		Category: CreditCategory,
		Type:     TransactionTypeCredit,
		Date:     now,
	}
}

// NewExpense creates an expense transaction. An empty category falls back to
// DefaultExpenseCategory.
func NewExpense(id, title string, amount decimal.Decimal, category string, date time.Time) Transaction {
	if category == "" {
		category = DefaultExpenseCategory
	}
	return Transaction{
		ID:       id,
		Title:    title,
		Amount:   amount,
		Category: category,
		Type:     TransactionTypeExpense,
		Date:     date,
	}
}

// Effect returns the signed change this transaction applied to the balance.
func (t Transaction) Effect() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
