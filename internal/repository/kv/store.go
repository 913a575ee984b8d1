// internal/repository/kv/store.go
package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"xpense-wallet/internal/domain"
	"xpense-wallet/internal/repository"
)

// DefaultKey is the key the ledger document is stored under.
const DefaultKey = "xpense_data"

// KeyValue is a string key-value storage such as a browser's localStorage.
type KeyValue interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
}

// Store implements repository.StateStore as one JSON document in a KeyValue.
type Store struct {
	kv  KeyValue
	key string
}

// NewStore creates a Store that keeps the ledger under key. An empty key uses DefaultKey.
func NewStore(kv KeyValue, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: kv, key: key}
}

// storedID accepts both string and numeric ids; older documents used
// millisecond timestamps as numbers.
type storedID string

func (id *storedID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = storedID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("transaction id must be a string or number: %w", err)
	}
	*id = storedID(n.String())
	return nil
}

type storedTransaction struct {
	domain.Transaction
	ID storedID `json:"id"`
}

type storedState struct {
	Balance      decimal.Decimal     `json:"balance"`
	Transactions []storedTransaction `json:"transactions"`
}

// Load decodes the stored document. A missing key yields the empty state.
func (s *Store) Load(ctx context.Context) (*domain.LedgerState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, ok, err := s.kv.GetItem(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", s.key, err)
	}
	if !ok {
		return domain.NewLedgerState(), nil
	}

	var doc storedState
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode key %q: %w", s.key, err)
	}

	state := &domain.LedgerState{
		Balance:      doc.Balance,
		Transactions: make([]domain.Transaction, len(doc.Transactions)),
	}
	for i, st := range doc.Transactions {
		tx := st.Transaction
		tx.ID = string(st.ID)
		state.Transactions[i] = tx
	}
	if err := state.Verify(); err != nil {
		return nil, fmt.Errorf("ledger under key %q is inconsistent: %w", s.key, err)
	}
	return state, nil
}

// Save encodes the state and writes it under the store's key.
func (s *Store) Save(ctx context.Context, state *domain.LedgerState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := domain.LedgerState{
		Balance:      state.Balance,
		Transactions: state.Transactions,
	}
	if doc.Transactions == nil {
		doc.Transactions = []domain.Transaction{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode ledger state: %w", err)
	}
	if err := s.kv.SetItem(s.key, string(raw)); err != nil {
		return fmt.Errorf("failed to write key %q: %w", s.key, err)
	}
	return nil
}

// Compile-time check: ensure Store implements StateStore.
var _ repository.StateStore = (*Store)(nil)
