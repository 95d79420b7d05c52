package accounting

import (
	"sort"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SortPostedLines orders lines by entry date, then by store sequence.
func SortPostedLines(lines []domain.PostedLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		di, dj := domain.CalendarDay(lines[i].EntryDate), domain.CalendarDay(lines[j].EntryDate)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return lines[i].Seq < lines[j].Seq
	})
}

// BuildLedger folds the snapshot into running-balance rows starting from the opening balance.
// Balances follow debit minus credit regardless of account type.
func BuildLedger(account *domain.Account, rng domain.DateRange, snap domain.AccountLedgerSnapshot) domain.Ledger {
	lines := append([]domain.PostedLine(nil), snap.Lines...)
	SortPostedLines(lines)

	ledger := domain.Ledger{
		Account:        account,
		Range:          rng,
		OpeningBalance: snap.OpeningBalance,
		Rows:           make([]domain.LedgerRow, 0, len(lines)),
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}

	running := snap.OpeningBalance
	for _, l := range lines {
		running = running.Add(l.Debit).Sub(l.Credit)
		ledger.TotalDebit = ledger.TotalDebit.Add(l.Debit)
		ledger.TotalCredit = ledger.TotalCredit.Add(l.Credit)

		ledger.Rows = append(ledger.Rows, domain.LedgerRow{
			EntryID:     l.EntryID,
			EntryNumber: l.EntryNumber,
			EntryDate:   l.EntryDate,
			Reference:   l.EntryReference,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Balance:     running,
			Seq:         l.Seq,
		})
	}
	ledger.ClosingBalance = running
	return ledger
}

// EmptyLedger is the zeroed result returned for an unknown account.
func EmptyLedger(rng domain.DateRange) domain.Ledger {
	return domain.Ledger{
		Range:          rng,
		OpeningBalance: decimal.Zero,
		Rows:           []domain.LedgerRow{},
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
		ClosingBalance: decimal.Zero,
	}
}
