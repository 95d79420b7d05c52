package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountMappingHandlesNullColumns(t *testing.T) {
	root := domain.Account{AccountID: "a1", Code: "1000", Name: "Assets", AccountType: domain.Asset, IsActive: true}

	m := ToModelAccount(root)
	assert.Nil(t, m.ParentAccountID)
	assert.Nil(t, m.Category)
	assert.Nil(t, m.Description)
	assert.Equal(t, root, ToDomainAccount(m))

	child := domain.Account{AccountID: "a2", Code: "1100", ParentAccountID: "a1", Category: domain.CategoryCashBank, AccountType: domain.Asset}
	m = ToModelAccount(child)
	require.NotNil(t, m.ParentAccountID)
	assert.Equal(t, "a1", *m.ParentAccountID)
	assert.Equal(t, "CASH_BANK", *m.Category)
}

func TestJournalEntryResponse(t *testing.T) {
	entry := domain.JournalEntry{
		EntryID:     "e1",
		EntryNumber: "JNL250114/123",
		EntryDate:   time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
		Status:      domain.Posted,
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(100),
		Lines: []domain.JournalLine{
			{LineID: "l1", AccountID: "cash", Debit: decimal.NewFromInt(100), Seq: 1},
			{LineID: "l2", AccountID: "sales", Credit: decimal.NewFromInt(100), Seq: 2},
		},
	}

	resp := ToJournalEntryResponse(&entry)

	assert.Equal(t, "2025-01-14", resp.EntryDate.Format("2006-01-02"))
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "sales", resp.Lines[1].AccountID)

	back := ToDomainJournalEntry(ToModelJournalEntry(entry), nil)
	assert.Equal(t, entry.EntryNumber, back.EntryNumber)
	assert.Empty(t, back.Lines)
}
