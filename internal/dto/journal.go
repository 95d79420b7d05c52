package dto

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostJournalLineRequest is one submitted line. Debit and Credit are kept raw.
type PostJournalLineRequest struct {
	AccountID   string    `json:"accountId"`
	Description string    `json:"description"`
	Debit       RawAmount `json:"debit"`
	Credit      RawAmount `json:"credit"`
}

// PostJournalEntryRequest defines the data needed to post a journal entry.
type PostJournalEntryRequest struct {
	Date        CalendarDate             `json:"date"`
	Reference   string                   `json:"reference" binding:"max=100"`
	Description string                   `json:"description" binding:"max=500"`
	Lines       []PostJournalLineRequest `json:"lines"`
}

// UpdateJournalEntryRequest edits the free-text fields of a posted entry.
type UpdateJournalEntryRequest struct {
	Reference   *string `json:"reference" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// ReverseJournalEntryRequest optionally dates the reversal; today is used otherwise.
type ReverseJournalEntryRequest struct {
	Date        CalendarDate `json:"date"`
	Description string       `json:"description" binding:"max=500"`
}

// ListJournalEntriesParams defines query parameters for listing entries.
type ListJournalEntriesParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Seq         int64           `json:"seq"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID           string                `json:"entryID"`
	EntryNumber       string                `json:"entryNumber"`
	EntryDate         CalendarDate          `json:"entryDate"`
	Reference         string                `json:"reference,omitempty"`
	Description       string                `json:"description,omitempty"`
	Status            domain.JournalStatus  `json:"status"`
	TotalDebit        decimal.Decimal       `json:"totalDebit"`
	TotalCredit       decimal.Decimal       `json:"totalCredit"`
	ReversalOfEntryID string                `json:"reversalOfEntryID,omitempty"`
	ReversedByEntryID string                `json:"reversedByEntryID,omitempty"`
	Lines             []JournalLineResponse `json:"lines"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
	LastUpdatedAt     time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy     string                `json:"lastUpdatedBy"`
}

// ListJournalEntriesResponse wraps a page of entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}
