package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostedLine is a journal line joined with the header fields of its entry.
type PostedLine struct {
	JournalLine
	EntryNumber    string    `json:"entryNumber"`
	EntryDate      time.Time `json:"entryDate"`
	EntryReference string    `json:"entryReference,omitempty"`
}

// AccountLedgerSnapshot is what the store returns for one account and range,
// read from a single consistent snapshot.
type AccountLedgerSnapshot struct {
	OpeningBalance decimal.Decimal
	Lines          []PostedLine // ordered by entry date, then seq
}

// LedgerRow is one line of an account ledger with the balance after applying it.
type LedgerRow struct {
	EntryID     string          `json:"entryID"`
	EntryNumber string          `json:"entryNumber"`
	EntryDate   time.Time       `json:"entryDate"`
	Reference   string          `json:"reference,omitempty"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
	Seq         int64           `json:"seq"`
}

// Ledger is the per-account running-balance view. Account is nil when the
// requested account does not exist, in which case every amount is zero.
type Ledger struct {
	Account        *Account        `json:"account"`
	Range          DateRange       `json:"range"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Rows           []LedgerRow     `json:"rows"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}
