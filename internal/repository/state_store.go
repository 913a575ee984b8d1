// internal/repository/state_store.go
package repository

import (
	"context"

	"xpense-wallet/internal/domain"
)

// StateStore persists the ledger aggregate as a whole.
// A store that has never been written must load the empty state.
type StateStore interface {
	// Load returns the latest persisted state.
	Load(ctx context.Context) (*domain.LedgerState, error)
	// Save replaces the persisted state. On error the previous state must remain intact.
	Save(ctx context.Context, state *domain.LedgerState) error
}
