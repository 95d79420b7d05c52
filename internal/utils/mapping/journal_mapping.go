package mapping

import (
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		EntryNumber:       d.EntryNumber,
		EntryDate:         d.EntryDate,
		Reference:         nullable(d.Reference),
		Description:       nullable(d.Description),
		Status:            string(d.Status),
		TotalDebit:        d.TotalDebit,
		TotalCredit:       d.TotalCredit,
		ReversalOfEntryID: nullable(d.ReversalOfEntryID),
		ReversedByEntryID: nullable(d.ReversedByEntryID),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry and its lines to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	entry := domain.JournalEntry{
		EntryID:           m.EntryID,
		EntryNumber:       m.EntryNumber,
		EntryDate:         domain.CalendarDay(m.EntryDate),
		Reference:         deref(m.Reference),
		Description:       deref(m.Description),
		Status:            domain.JournalStatus(m.Status),
		TotalDebit:        m.TotalDebit,
		TotalCredit:       m.TotalCredit,
		ReversalOfEntryID: deref(m.ReversalOfEntryID),
		ReversedByEntryID: deref(m.ReversedByEntryID),
		Lines:             make([]domain.JournalLine, len(lines)),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
	for i, l := range lines {
		entry.Lines[i] = ToDomainJournalLine(l)
	}
	return entry
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		Description: nullable(d.Description),
		Debit:       d.Debit,
		Credit:      d.Credit,
		Seq:         d.Seq,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Description: deref(m.Description),
		Debit:       m.Debit,
		Credit:      m.Credit,
		Seq:         m.Seq,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) dto.JournalEntryResponse {
	lines := make([]dto.JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = dto.JournalLineResponse{
			LineID:      l.LineID,
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Seq:         l.Seq,
		}
	}
	return dto.JournalEntryResponse{
		EntryID:           e.EntryID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         dto.NewCalendarDate(e.EntryDate),
		Reference:         e.Reference,
		Description:       e.Description,
		Status:            e.Status,
		TotalDebit:        e.TotalDebit,
		TotalCredit:       e.TotalCredit,
		ReversalOfEntryID: e.ReversalOfEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		Lines:             lines,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		LastUpdatedAt:     e.LastUpdatedAt,
		LastUpdatedBy:     e.LastUpdatedBy,
	}
}

// ToJournalEntryResponses converts a slice of entries.
func ToJournalEntryResponses(entries []domain.JournalEntry) []dto.JournalEntryResponse {
	out := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToJournalEntryResponse(&entries[i])
	}
	return out
}
