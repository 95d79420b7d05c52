package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/utils/accounting"
	"github.com/SscSPs/backoffice_ledger/internal/utils/mapping"
	"github.com/google/uuid"
)

const (
	defaultEntryNumberAttempts = 5
	defaultListLimit           = 20
	reversalReferencePrefix    = "REV:"
)

// journalService validates and posts journal entries.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	prefix      string
	maxAttempts int
	suffix      accounting.SuffixSource
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithEntryNumberPrefix sets the prefix of generated entry numbers.
func WithEntryNumberPrefix(prefix string) JournalServiceOption {
	return func(s *journalService) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithEntryNumberAttempts bounds how often a colliding entry number is regenerated.
func WithEntryNumberAttempts(n int) JournalServiceOption {
	return func(s *journalService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithSuffixSource replaces the random entry number suffix generator.
func WithSuffixSource(src accounting.SuffixSource) JournalServiceOption {
	return func(s *journalService) {
		if src != nil {
			s.suffix = src
		}
	}
}

// WithJournalBase applies shared service options (clock, cache).
func WithJournalBase(opts ...ServiceOption) JournalServiceOption {
	return func(s *journalService) {
		s.apply(opts)
	}
}

// NewJournalService creates a new journal service with the provided options
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		prefix:      accounting.DefaultEntryNumberPrefix,
		maxAttempts: defaultEntryNumberAttempts,
		suffix:      accounting.RandomSuffix,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// PostJournalEntry validates the submitted lines, numbers the entry and persists it atomically.
func (s *journalService) PostJournalEntry(ctx context.Context, req dto.PostJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	lines, err := normalizeLines(req.Lines)
	if err != nil {
		return nil, err
	}
	if creatorUserID == "" {
		return nil, apperrors.NewValidationError("no creator available")
	}
	if req.Date.IsZero() {
		return nil, apperrors.NewValidationError("entry date is required")
	}

	entry := domain.JournalEntry{
		EntryDate:   domain.CalendarDay(req.Date.Time),
		Reference:   strings.TrimSpace(req.Reference),
		Description: strings.TrimSpace(req.Description),
		Lines:       lines,
	}
	return s.post(ctx, entry, creatorUserID)
}

// normalizeLines coerces amounts, drops empty lines and checks the balance.
func normalizeLines(in []dto.PostJournalLineRequest) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, 0, len(in))
	for _, l := range in {
		accountID := strings.TrimSpace(l.AccountID)
		debit := accounting.CoerceAmount(l.Debit.Value())
		credit := accounting.CoerceAmount(l.Credit.Value())
		if accountID == "" || (debit.IsZero() && credit.IsZero()) {
			continue
		}
		lines = append(lines, domain.JournalLine{
			AccountID:   accountID,
			Description: strings.TrimSpace(l.Description),
			Debit:       debit,
			Credit:      credit,
		})
	}
	if len(lines) == 0 {
		return nil, apperrors.NewValidationError("no balanced lines")
	}
	for _, l := range lines {
		if l.Debit.IsPositive() && l.Credit.IsPositive() {
			return nil, apperrors.NewValidationError("line has both debit and credit")
		}
	}
	debit, credit := accounting.SumLines(lines)
	if !accounting.IsBalanced(debit, credit) {
		return nil, apperrors.NewValidationError("unbalanced entry")
	}
	return lines, nil
}

// post checks the referenced accounts and stores the entry, regenerating the
// entry number on collisions.
func (s *journalService) post(ctx context.Context, entry domain.JournalEntry, creatorUserID string) (*domain.JournalEntry, error) {
	if err := s.checkAccounts(ctx, entry.Lines, entry.ReversalOfEntryID == ""); err != nil {
		return nil, err
	}

	now := s.Now()
	entry.Status = domain.Posted
	entry.TotalDebit, entry.TotalCredit = accounting.SumLines(entry.Lines)
	entry.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}
	for i := range entry.Lines {
		entry.Lines[i].LineID = uuid.NewString()
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		entry.EntryID = uuid.NewString()
		entry.EntryNumber = accounting.FormatEntryNumber(s.prefix, now, s.suffix())
		for i := range entry.Lines {
			entry.Lines[i].EntryID = entry.EntryID
		}

		saved, err := s.journalRepo.SaveJournalEntry(ctx, entry)
		if err == nil {
			s.invalidateReports(ctx)
			s.LogInfo(ctx, "Journal entry posted",
				slog.String("entry_id", saved.EntryID),
				slog.String("entry_number", saved.EntryNumber),
				slog.String("total", saved.TotalDebit.StringFixed(2)),
				slog.Int("line_count", len(saved.Lines)))
			return saved, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			if errors.Is(err, apperrors.ErrDuplicate) && entry.ReversalOfEntryID != "" {
				return nil, apperrors.NewValidationError("entry already reversed")
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_number", entry.EntryNumber))
			}
			return nil, fmt.Errorf("failed to save journal entry: %w", err)
		}
		lastErr = err
		s.LogDebug(ctx, "Entry number collision, retrying",
			slog.String("entry_number", entry.EntryNumber),
			slog.Int("attempt", attempt))
	}
	s.LogWarn(ctx, "Entry number attempts exhausted", slog.Int("attempts", s.maxAttempts))
	return nil, fmt.Errorf("could not allocate an entry number after %d attempts: %w", s.maxAttempts, lastErr)
}

// checkAccounts requires every referenced account to exist and, unless the
// entry is a reversal, to be active.
func (s *journalService) checkAccounts(ctx context.Context, lines []domain.JournalLine, requireActive bool) error {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for journal entry")
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok {
			return apperrors.NewNotFoundError("account " + id)
		}
		if requireActive && !acc.IsActive {
			return apperrors.NewValidationError(fmt.Sprintf("account inactive: %s", acc.Code))
		}
	}
	return nil
}

func (s *journalService) GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListJournalEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}

	entries, next, err := s.journalRepo.ListJournalEntries(ctx, limit, token)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list journal entries")
		}
		return nil, err
	}
	return &dto.ListJournalEntriesResponse{
		Entries:   mapping.ToJournalEntryResponses(entries),
		NextToken: next,
	}, nil
}

func (s *journalService) UpdateJournalEntryText(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("no creator available")
	}
	if req.Reference == nil && req.Description == nil {
		return nil, apperrors.NewValidationError("nothing to update")
	}
	if _, err := s.GetJournalEntry(ctx, entryID); err != nil {
		return nil, err
	}

	var reference, description *string
	if req.Reference != nil {
		v := strings.TrimSpace(*req.Reference)
		reference = &v
	}
	if req.Description != nil {
		v := strings.TrimSpace(*req.Description)
		description = &v
	}
	if err := s.journalRepo.UpdateJournalEntryText(ctx, entryID, reference, description, userID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to update journal entry", slog.String("entry_id", entryID))
		return nil, err
	}

	s.invalidateReports(ctx)
	s.LogInfo(ctx, "Journal entry text updated", slog.String("entry_id", entryID))
	return s.GetJournalEntry(ctx, entryID)
}

// ReverseJournalEntry posts an entry with debits and credits swapped.
func (s *journalService) ReverseJournalEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("no creator available")
	}
	original, err := s.GetJournalEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status == domain.Reversed {
		return nil, apperrors.NewValidationError("entry already reversed")
	}
	if original.ReversalOfEntryID != "" {
		return nil, apperrors.NewValidationError("a reversal entry cannot be reversed")
	}

	date := s.Today()
	if !req.Date.IsZero() {
		date = domain.CalendarDay(req.Date.Time)
	}
	if date.Before(original.EntryDate) {
		return nil, apperrors.NewValidationError("reversal cannot be dated before the original entry")
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Reversal of " + original.EntryNumber
	}

	lines := make([]domain.JournalLine, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = domain.JournalLine{
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Credit,
			Credit:      l.Debit,
		}
	}

	reversal := domain.JournalEntry{
		EntryDate:         date,
		Reference:         reversalReferencePrefix + original.EntryNumber,
		Description:       description,
		ReversalOfEntryID: original.EntryID,
		Lines:             lines,
	}
	saved, err := s.post(ctx, reversal, userID)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", original.EntryID),
		slog.String("reversal_entry_id", saved.EntryID),
		slog.String("reversal_date", date.Format(time.DateOnly)))
	return saved, nil
}
