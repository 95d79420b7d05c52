package services

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalEntry retrieves a specific entry with its lines.
	GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a paginated list of entries, newest first.
	ListJournalEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// PostJournalEntry validates, numbers and persists a new entry.
	PostJournalEntry(ctx context.Context, req dto.PostJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// UpdateJournalEntryText edits reference and description. Amounts never change.
	UpdateJournalEntryText(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// ReverseJournalEntry posts the mirror image of an entry and marks the original reversed.
	ReverseJournalEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, userID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
