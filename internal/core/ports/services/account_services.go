package services

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for accounts
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for accounts
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	// UpdateAccount also handles parent reassignment, which is only allowed for
	// inactive accounts or accounts without posted lines.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
