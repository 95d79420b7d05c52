package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID           string          `db:"entry_id"`
	EntryNumber       string          `db:"entry_number"`
	EntryDate         time.Time       `db:"entry_date"`
	Reference         *string         `db:"reference"`   // Nullable
	Description       *string         `db:"description"` // Nullable
	Status            string          `db:"status"`
	TotalDebit        decimal.Decimal `db:"total_debit"`
	TotalCredit       decimal.Decimal `db:"total_credit"`
	ReversalOfEntryID *string         `db:"reversal_of_entry_id"`
	ReversedByEntryID *string         `db:"reversed_by_entry_id"`
	AuditFields
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	Description *string         `db:"description"` // Nullable
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Seq         int64           `db:"seq"`
}
