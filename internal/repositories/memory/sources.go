package memory

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// AddParty registers a customer or vendor.
func (s *Store) AddParty(p domain.Party) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties[p.PartyID] = p
}

// AddOpenDocument registers an invoice (receivable) or bill (payable).
func (s *Store) AddOpenDocument(direction domain.AgingDirection, doc domain.OpenDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[direction] = append(s.documents[direction], doc)
}

// AddPaymentAccountBalance registers a bank or cash register balance.
func (s *Store) AddPaymentAccountBalance(b domain.PaymentAccountBalance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentAccts = append(s.paymentAccts, b)
}

// AddPaidInvoice records an invoice payment received on a day.
func (s *Store) AddPaidInvoice(a domain.DailyAmount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paidInvoices = append(s.paidInvoices, a)
}

// AddExpense records an expense paid on a day.
func (s *Store) AddExpense(a domain.DailyAmount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, a)
}

func (s *Store) FindPartiesByIDs(_ context.Context, partyIDs []string) (map[string]domain.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Party, len(partyIDs))
	for _, id := range partyIDs {
		if p, ok := s.parties[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *Store) ListOpenDocuments(_ context.Context, direction domain.AgingDirection) ([]domain.OpenDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.OpenDocument(nil), s.documents[direction]...), nil
}

func (s *Store) ListPaymentAccountBalances(_ context.Context) ([]domain.PaymentAccountBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.PaymentAccountBalance(nil), s.paymentAccts...), nil
}

func (s *Store) DailyInflows(_ context.Context, after, before time.Time) ([]domain.DailyAmount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return withinDays(s.paidInvoices, after, before), nil
}

func (s *Store) DailyOutflows(_ context.Context, after, before time.Time) ([]domain.DailyAmount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return withinDays(s.expenses, after, before), nil
}

func withinDays(amounts []domain.DailyAmount, after, before time.Time) []domain.DailyAmount {
	rng := domain.DateRange{After: &after, Before: &before}
	out := make([]domain.DailyAmount, 0, len(amounts))
	for _, a := range amounts {
		if rng.Contains(a.Date) {
			out = append(out, domain.DailyAmount{Date: domain.CalendarDay(a.Date), Amount: a.Amount})
		}
	}
	return out
}
