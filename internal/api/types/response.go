// internal/api/types/response.go
package types

import "xpense-wallet/internal/domain"

// DataResponse is the full ledger view: the balance nested under "wallet" and
// every transaction, newest first, under "expenses".
type DataResponse struct {
	Wallet   domain.Wallet        `json:"wallet"`
	Expenses []domain.Transaction `json:"expenses"`
}

// NewDataResponse builds a DataResponse from a ledger snapshot.
func NewDataResponse(state *domain.LedgerState) DataResponse {
	expenses := state.Transactions
	if expenses == nil {
		expenses = []domain.Transaction{}
	}
	return DataResponse{Wallet: state.Wallet(), Expenses: expenses}
}

// ExpenseResponse is returned after recording an expense.
type ExpenseResponse struct {
	Expense domain.Transaction `json:"expense"`
	Wallet  domain.Wallet      `json:"wallet"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
