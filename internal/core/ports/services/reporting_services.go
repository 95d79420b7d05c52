package services

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// LedgerService builds per-account running-balance ledgers
type LedgerService interface {
	// GetLedger falls back to the first active account when accountID is empty.
	// An unknown account yields a zeroed ledger with a nil Account, not an error.
	GetLedger(ctx context.Context, accountID string, rng domain.DateRange) (*domain.Ledger, error)
}

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// GetTrialBalance aggregates debits and credits per account for the range.
	GetTrialBalance(ctx context.Context, rng domain.DateRange) (*domain.TrialBalance, error)

	// GetChartTree returns the chart of accounts with rolled-up totals, optionally filtered.
	GetChartTree(ctx context.Context, rng domain.DateRange, search string) (*domain.ChartTree, error)

	// GetBalanceSheet derives the position as of a date (today when nil).
	GetBalanceSheet(ctx context.Context, asOf *time.Time) (*domain.BalanceSheet, error)

	// GetCashFlow builds the daily cash series; the default range is the trailing 30 days.
	GetCashFlow(ctx context.Context, after, before *time.Time) (*domain.CashFlow, error)
}

// AgingService ages open receivables or payables
type AgingService interface {
	GetAgingSummary(ctx context.Context, asOf *time.Time, direction domain.AgingDirection) (*domain.AgingSummary, error)
	GetAgingDetails(ctx context.Context, asOf *time.Time, direction domain.AgingDirection) (*domain.AgingDetails, error)
}
