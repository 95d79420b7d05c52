package repositories

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts
type AccountReader interface {
	// FindAccountByID returns apperrors.ErrNotFound when the account does not exist.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs returns the accounts that exist, keyed by ID. Unknown IDs are simply absent.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns every account ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// FindFirstActiveAccount returns the active account with the lowest code.
	FindFirstActiveAccount(ctx context.Context) (*domain.Account, error)

	// HasPostedLines reports whether any journal line references the account.
	HasPostedLines(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for the chart of accounts
type AccountWriter interface {
	// SaveAccount inserts an account; a taken code yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount overwrites the mutable columns of an account.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
