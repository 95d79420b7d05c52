package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/repositories/memory"
	"github.com/stretchr/testify/require"
)

// countingCache computes reports directly and counts invalidations.
type countingCache struct {
	bumps int
}

func (c *countingCache) Fetch(ctx context.Context, dest any, loader func(context.Context) (any, error), _ ...string) (bool, error) {
	v, err := loader(ctx)
	if err != nil {
		return false, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	return false, json.Unmarshal(raw, dest)
}

func (c *countingCache) Bump(context.Context) error {
	c.bumps++
	return nil
}

var _ portsrepo.ReportCache = (*countingCache)(nil)

const (
	cashID       = "acc-cash"
	receivableID = "acc-ar"
	inventoryID  = "acc-inv"
	payableID    = "acc-ap"
	equityID     = "acc-eq"
	revenueID    = "acc-rev"
	expenseID    = "acc-exp"
	testUser     = "user-1"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newLedgerStore returns a memory store holding a small chart of accounts.
func newLedgerStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	accounts := []domain.Account{
		{AccountID: cashID, Code: "1000", Name: "Cash", AccountType: domain.Asset, Category: domain.CategoryCashBank, IsActive: true},
		{AccountID: receivableID, Code: "1100", Name: "Receivables", AccountType: domain.Asset, Category: domain.CategoryReceivable, IsActive: true},
		{AccountID: inventoryID, Code: "1200", Name: "Inventory", AccountType: domain.Asset, Category: domain.CategoryInventory, IsActive: true},
		{AccountID: payableID, Code: "2000", Name: "Payables", AccountType: domain.Liability, Category: domain.CategoryPayable, IsActive: true},
		{AccountID: equityID, Code: "3000", Name: "Owner capital", AccountType: domain.Equity, IsActive: true},
		{AccountID: revenueID, Code: "4000", Name: "Sales", AccountType: domain.Income, IsActive: true},
		{AccountID: expenseID, Code: "5000", Name: "Rent", AccountType: domain.Expense, IsActive: true},
	}
	for _, a := range accounts {
		require.NoError(t, store.SaveAccount(context.Background(), a))
	}
	return store
}

func line(accountID string, debit, credit any) dto.PostJournalLineRequest {
	return dto.PostJournalLineRequest{
		AccountID: accountID,
		Debit:     dto.NewRawAmount(debit),
		Credit:    dto.NewRawAmount(credit),
	}
}

func entryRequest(date time.Time, lines ...dto.PostJournalLineRequest) dto.PostJournalEntryRequest {
	return dto.PostJournalEntryRequest{
		Date:  dto.NewCalendarDate(date),
		Lines: lines,
	}
}

// findNode returns the node for accountID anywhere in the forest.
func findNode(roots []*domain.ChartNode, accountID string) *domain.ChartNode {
	for _, r := range roots {
		if r.Account.AccountID == accountID {
			return r
		}
		if n := findNode(r.Children, accountID); n != nil {
			return n
		}
	}
	return nil
}
