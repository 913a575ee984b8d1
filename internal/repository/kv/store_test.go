// internal/repository/kv/store_test.go
package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xpense-wallet/internal/domain"
)

// failingKeyValue returns err from every call.
type failingKeyValue struct {
	err error
}

func (f failingKeyValue) GetItem(string) (string, bool, error) { return "", false, f.err }
func (f failingKeyValue) SetItem(string, string) error         { return f.err }

func TestLoadMissingKey(t *testing.T) {
	store := NewStore(NewMemoryKeyValue(), "")

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, state.Balance.IsZero())
	assert.Empty(t, state.Transactions)
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryKeyValue()
	store := NewStore(mem, "")

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	state := domain.NewLedgerState()
	state.Prepend(domain.NewCredit("c1", decimal.NewFromInt(500), now))
	state.Prepend(domain.NewExpense("e1", "Lunch", decimal.NewFromInt(150), "Food", now))
	require.NoError(t, store.Save(ctx, state))

	raw, ok, err := mem.GetItem(DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{
		"balance": 350,
		"transactions": [
			{"id":"e1","title":"Lunch","amount":150,"category":"Food","type":"expense","date":"2024-03-10T12:00:00Z"},
			{"id":"c1","title":"Added Funds","amount":500,"category":"Wallet","type":"credit","date":"2024-03-10T12:00:00Z"}
		]
	}`, raw)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(350).Equal(loaded.Balance))
	require.Len(t, loaded.Transactions, 2)
	assert.Equal(t, "e1", loaded.Transactions[0].ID)
	assert.True(t, now.Equal(loaded.Transactions[1].Date))
}

func TestLoadNumericIDs(t *testing.T) {
	mem := NewMemoryKeyValue()
	require.NoError(t, mem.SetItem(DefaultKey, `{"balance":450,"transactions":[
		{"id":1710072000123,"title":"Coffee","amount":50,"category":"Food","type":"expense","date":"2024-03-10T12:00:00.123Z"},
		{"id":1710072000001,"title":"Added Funds","amount":500,"category":"Wallet","type":"credit","date":"2024-03-10T12:00:00.001Z"}
	]}`))

	state, err := NewStore(mem, "").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Transactions, 2)
	assert.Equal(t, "1710072000123", state.Transactions[0].ID)
	assert.Equal(t, "1710072000001", state.Transactions[1].ID)
}

func TestLoadRejectsInconsistentState(t *testing.T) {
	mem := NewMemoryKeyValue()
	require.NoError(t, mem.SetItem("custom", `{"balance":10,"transactions":[]}`))

	_, err := NewStore(mem, "custom").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inconsistent")
}

func TestKeyValueErrors(t *testing.T) {
	ctx := context.Background()
	kvErr := errors.New("quota exceeded")
	store := NewStore(failingKeyValue{err: kvErr}, "")

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, kvErr)
	assert.ErrorIs(t, store.Save(ctx, domain.NewLedgerState()), kvErr)
}
