// Package memory provides an in-process implementation of every ledger
// repository port. It backs tests and STORE_DRIVER=memory development runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerReader            = (*Store)(nil)
	_ portsrepo.ReportingSourcesFacade  = (*Store)(nil)
)

// Store keeps accounts, journal entries and the operational feeds in maps
// guarded by a single RWMutex. Entry writes are all-or-nothing.
type Store struct {
	mu sync.RWMutex

	accounts      map[string]domain.Account
	accountCodes  map[string]string
	entries       map[string]domain.JournalEntry
	entryNumbers  map[string]string
	lines         []domain.JournalLine // append-only, in seq order
	seq           int64
	parties       map[string]domain.Party
	documents     map[domain.AgingDirection][]domain.OpenDocument
	paymentAccts  []domain.PaymentAccountBalance
	paidInvoices  []domain.DailyAmount
	expenses      []domain.DailyAmount
	failNextSaves int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		accountCodes: make(map[string]string),
		entries:      make(map[string]domain.JournalEntry),
		entryNumbers: make(map[string]string),
		parties:      make(map[string]domain.Party),
		documents:    make(map[domain.AgingDirection][]domain.OpenDocument),
	}
}

// --- accounts ---

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return &acc, nil
}

func (s *Store) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := s.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (s *Store) ListAccounts(_ context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedAccountsLocked(), nil
}

func (s *Store) FindFirstActiveAccount(_ context.Context) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.sortedAccountsLocked() {
		if acc.IsActive {
			return &acc, nil
		}
	}
	return nil, apperrors.NewNotFoundError("active account")
}

func (s *Store) HasPostedLines(_ context.Context, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lines {
		if l.AccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accountCodes[account.Code]; taken {
		return fmt.Errorf("account code %s: %w", account.Code, apperrors.ErrDuplicate)
	}
	if _, taken := s.accounts[account.AccountID]; taken {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
	}
	s.accounts[account.AccountID] = account
	s.accountCodes[account.Code] = account.AccountID
	return nil
}

func (s *Store) UpdateAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.accounts[account.AccountID]
	if !ok {
		return apperrors.NewNotFoundError("account " + account.AccountID)
	}
	if prev.Code != account.Code {
		if _, taken := s.accountCodes[account.Code]; taken {
			return fmt.Errorf("account code %s: %w", account.Code, apperrors.ErrDuplicate)
		}
		delete(s.accountCodes, prev.Code)
		s.accountCodes[account.Code] = account.AccountID
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) sortedAccountsLocked() []domain.Account {
	out := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out
}

// --- journal ---

// FailNextSaves makes the next n SaveJournalEntry calls fail with a store error.
func (s *Store) FailNextSaves(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextSaves = n
}

func (s *Store) SaveJournalEntry(_ context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failNextSaves > 0 {
		s.failNextSaves--
		return nil, apperrors.NewAppError(500, "failed to insert journal entry", fmt.Errorf("memory store: injected failure"))
	}
	if _, taken := s.entryNumbers[entry.EntryNumber]; taken {
		return nil, apperrors.NewConflictError("entry number " + entry.EntryNumber)
	}
	if _, taken := s.entries[entry.EntryID]; taken {
		return nil, fmt.Errorf("journal entry %s: %w", entry.EntryID, apperrors.ErrDuplicate)
	}
	for _, l := range entry.Lines {
		if _, ok := s.accounts[l.AccountID]; !ok {
			return nil, apperrors.NewNotFoundError("account " + l.AccountID)
		}
	}
	var original domain.JournalEntry
	if entry.ReversalOfEntryID != "" {
		var ok bool
		original, ok = s.entries[entry.ReversalOfEntryID]
		if !ok {
			return nil, apperrors.NewNotFoundError("journal entry " + entry.ReversalOfEntryID)
		}
		if original.Status == domain.Reversed {
			return nil, fmt.Errorf("journal entry %s already reversed: %w", original.EntryID, apperrors.ErrDuplicate)
		}
	}

	// All checks passed; nothing below can fail.
	stored := entry
	stored.Lines = make([]domain.JournalLine, len(entry.Lines))
	for i, l := range entry.Lines {
		s.seq++
		l.EntryID = entry.EntryID
		l.Seq = s.seq
		if l.LineID == "" {
			l.LineID = uuid.NewString()
		}
		stored.Lines[i] = l
		s.lines = append(s.lines, l)
	}
	s.entries[stored.EntryID] = stored
	s.entryNumbers[stored.EntryNumber] = stored.EntryID

	if entry.ReversalOfEntryID != "" {
		original.Status = domain.Reversed
		original.ReversedByEntryID = stored.EntryID
		original.LastUpdatedAt = stored.CreatedAt
		original.LastUpdatedBy = stored.CreatedBy
		s.entries[original.EntryID] = original
	}

	out := stored
	out.Lines = append([]domain.JournalLine(nil), stored.Lines...)
	return &out, nil
}

func (s *Store) FindJournalEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[entryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("journal entry " + entryID)
	}
	e.Lines = append([]domain.JournalLine(nil), e.Lines...)
	return &e, nil
}

func (s *Store) ListJournalEntries(_ context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError(err.Error())
		}
		cursor = &c
	}

	all := make([]domain.JournalEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if cursor == nil || cursor.After(e.EntryDate, e.CreatedAt, e.EntryID) {
			all = append(all, e)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.After(b.EntryDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.EntryID > b.EntryID
	})

	var next *string
	if limit > 0 && len(all) > limit {
		all = all[:limit]
		last := all[len(all)-1]
		token := pagination.EncodeToken(pagination.Cursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
		next = &token
	}
	for i := range all {
		all[i].Lines = append([]domain.JournalLine(nil), all[i].Lines...)
	}
	return all, next, nil
}

func (s *Store) UpdateJournalEntryText(_ context.Context, entryID string, reference, description *string, updatedBy string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[entryID]
	if !ok {
		return apperrors.NewNotFoundError("journal entry " + entryID)
	}
	if reference != nil {
		e.Reference = *reference
	}
	if description != nil {
		e.Description = *description
	}
	e.LastUpdatedBy = updatedBy
	e.LastUpdatedAt = updatedAt
	s.entries[entryID] = e
	return nil
}

// --- ledger ---

func (s *Store) AccountLedger(_ context.Context, accountID string, rng domain.DateRange) (domain.AccountLedgerSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.AccountLedgerSnapshot{OpeningBalance: decimal.Zero, Lines: []domain.PostedLine{}}
	for _, l := range s.lines {
		if l.AccountID != accountID {
			continue
		}
		e := s.entries[l.EntryID]
		day := domain.CalendarDay(e.EntryDate)
		if rng.After != nil && day.Before(domain.CalendarDay(*rng.After)) {
			snap.OpeningBalance = snap.OpeningBalance.Add(l.Debit).Sub(l.Credit)
			continue
		}
		if !rng.Contains(day) {
			continue
		}
		snap.Lines = append(snap.Lines, domain.PostedLine{
			JournalLine:    l,
			EntryNumber:    e.EntryNumber,
			EntryDate:      day,
			EntryReference: e.Reference,
		})
	}
	sort.SliceStable(snap.Lines, func(i, j int) bool {
		if !snap.Lines[i].EntryDate.Equal(snap.Lines[j].EntryDate) {
			return snap.Lines[i].EntryDate.Before(snap.Lines[j].EntryDate)
		}
		return snap.Lines[i].Seq < snap.Lines[j].Seq
	})
	return snap, nil
}

func (s *Store) SumByAccount(_ context.Context, rng domain.DateRange) ([]domain.AccountSums, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[string]domain.AccountSums)
	for _, l := range s.lines {
		if !rng.Contains(s.entries[l.EntryID].EntryDate) {
			continue
		}
		cur, ok := sums[l.AccountID]
		if !ok {
			cur = domain.AccountSums{AccountID: l.AccountID, Debit: decimal.Zero, Credit: decimal.Zero}
		}
		cur.Debit = cur.Debit.Add(l.Debit)
		cur.Credit = cur.Credit.Add(l.Credit)
		sums[l.AccountID] = cur
	}
	out := make([]domain.AccountSums, 0, len(sums))
	for _, v := range sums {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}
