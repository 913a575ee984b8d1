// internal/domain/wallet.go
package domain

import "github.com/shopspring/decimal"

// Wallet is the balance view served alongside the expense list.
type Wallet struct {
	Balance decimal.Decimal `json:"balance"`
}
