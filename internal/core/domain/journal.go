package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// JournalEntry is a dated, balanced set of debit/credit lines.
// Amounts are immutable once posted; TotalDebit and TotalCredit are a write-time copy of the line sums.
type JournalEntry struct {
	EntryID           string          `json:"entryID"`
	EntryNumber       string          `json:"entryNumber"` // JNLyymmdd/NNN
	EntryDate         time.Time       `json:"entryDate"`
	Reference         string          `json:"reference,omitempty"`
	Description       string          `json:"description,omitempty"`
	Status            JournalStatus   `json:"status"`
	TotalDebit        decimal.Decimal `json:"totalDebit"`
	TotalCredit       decimal.Decimal `json:"totalCredit"`
	ReversalOfEntryID string          `json:"reversalOfEntryID,omitempty"`
	ReversedByEntryID string          `json:"reversedByEntryID,omitempty"`
	Lines             []JournalLine   `json:"lines"`
	AuditFields
}

// JournalLine is one side of a journal entry against a single account.
// Exactly one of Debit and Credit is positive.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Seq         int64           `json:"seq"` // Store-assigned insertion order
}
