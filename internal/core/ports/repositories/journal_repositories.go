package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalEntryByID retrieves an entry together with its lines in seq order.
	FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntries returns entries newest first using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListJournalEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournalEntry persists the header and all lines atomically and returns the
	// stored entry with line sequence numbers assigned. A taken entry number yields
	// apperrors.ErrConflict. When the entry reverses another one, the original is
	// marked REVERSED in the same transaction; if it was already reversed the call
	// fails with apperrors.ErrDuplicate.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error)

	// UpdateJournalEntryText changes reference and/or description only. Nil leaves a field unchanged.
	UpdateJournalEntryText(ctx context.Context, entryID string, reference, description *string, updatedBy string, updatedAt time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
