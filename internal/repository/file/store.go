// internal/repository/file/store.go
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"xpense-wallet/internal/domain"
	"xpense-wallet/internal/repository"
)

// FileModeData is the permission used for the ledger file (rw-r--r--).
const FileModeData fs.FileMode = 0644

// document is the on-disk layout: the balance nested under "wallet" and the
// transaction list named "expenses".
type document struct {
	Wallet   domain.Wallet        `json:"wallet"`
	Expenses []domain.Transaction `json:"expenses"`
}

// Store implements repository.StateStore on a single JSON file.
type Store struct {
	path string
}

// NewStore creates a Store backed by the file at path. The file is created on
// the first Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the ledger file. A missing file yields the empty state.
func (s *Store) Load(ctx context.Context) (*domain.LedgerState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewLedgerState(), nil
		}
		return nil, fmt.Errorf("failed to read ledger file %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode ledger file %s: %w", s.path, err)
	}

	state := &domain.LedgerState{
		Balance:      doc.Wallet.Balance,
		Transactions: doc.Expenses,
	}
	if state.Transactions == nil {
		state.Transactions = []domain.Transaction{}
	}
	for i := range state.Transactions {
		// Entries written without a type are expenses.
		if state.Transactions[i].Type == "" {
			state.Transactions[i].Type = domain.TransactionTypeExpense
		}
	}
	if err := state.Verify(); err != nil {
		return nil, fmt.Errorf("ledger file %s is inconsistent: %w", s.path, err)
	}
	return state, nil
}

// Save writes the state to a temporary file next to the target and renames it
// into place, so a failed write leaves the previous file untouched.
func (s *Store) Save(ctx context.Context, state *domain.LedgerState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := document{
		Wallet:   domain.Wallet{Balance: state.Balance},
		Expenses: state.Transactions,
	}
	if doc.Expenses == nil {
		doc.Expenses = []domain.Transaction{}
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create ledger directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // No-op once renamed

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close ledger file: %w", err)
	}
	if err := os.Chmod(tmpName, FileModeData); err != nil {
		return fmt.Errorf("failed to set ledger file mode: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace ledger file %s: %w", s.path, err)
	}
	return nil
}

// Compile-time check: ensure Store implements StateStore.
var _ repository.StateStore = (*Store)(nil)
