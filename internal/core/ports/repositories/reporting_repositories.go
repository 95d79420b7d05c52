package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// LedgerReader is the single source of posted amounts for every derived view.
type LedgerReader interface {
	// AccountLedger returns the opening balance (lines dated before rng.After) and
	// the lines inside rng, both read from one consistent snapshot.
	AccountLedger(ctx context.Context, accountID string, rng domain.DateRange) (domain.AccountLedgerSnapshot, error)

	// SumByAccount aggregates debit and credit per account for lines inside rng.
	// Only accounts with at least one line are returned.
	SumByAccount(ctx context.Context, rng domain.DateRange) ([]domain.AccountSums, error)
}

// PartyDirectory resolves customer and vendor names.
type PartyDirectory interface {
	FindPartiesByIDs(ctx context.Context, partyIDs []string) (map[string]domain.Party, error)
}

// OpenDocumentSource lists invoices or bills that may still be unsettled.
type OpenDocumentSource interface {
	ListOpenDocuments(ctx context.Context, direction domain.AgingDirection) ([]domain.OpenDocument, error)
}

// PaymentAccountBalanceSource reports bank and cash register balances held outside the ledger.
type PaymentAccountBalanceSource interface {
	ListPaymentAccountBalances(ctx context.Context) ([]domain.PaymentAccountBalance, error)
}

// CashFeed provides daily cash movements for the cash-flow series.
type CashFeed interface {
	// DailyInflows sums paid invoice amounts per payment day in [after, before].
	DailyInflows(ctx context.Context, after, before time.Time) ([]domain.DailyAmount, error)

	// DailyOutflows sums expense amounts per expense day in [after, before].
	DailyOutflows(ctx context.Context, after, before time.Time) ([]domain.DailyAmount, error)
}

// ReportingSourcesFacade bundles the operational collaborators read by reports.
type ReportingSourcesFacade interface {
	PartyDirectory
	OpenDocumentSource
	PaymentAccountBalanceSource
	CashFeed
}
