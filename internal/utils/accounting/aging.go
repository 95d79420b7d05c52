package accounting

import (
	"sort"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DaysPastDue is the whole number of calendar days between dueDate and asOf.
// It is negative when the document is not yet due.
func DaysPastDue(asOf, dueDate time.Time) int {
	diff := domain.CalendarDay(asOf).Sub(domain.CalendarDay(dueDate))
	return int(diff.Hours() / 24)
}

// BucketFor maps days past due onto its aging bucket.
func BucketFor(days int) domain.AgingBucket {
	switch {
	case days <= 0:
		return domain.BucketCurrent
	case days <= 30:
		return domain.Bucket1To30
	case days <= 60:
		return domain.Bucket31To60
	case days <= 90:
		return domain.Bucket61To90
	default:
		return domain.BucketOver90
	}
}

// Outstanding is amount minus applied, never below zero.
func Outstanding(amount, applied decimal.Decimal) decimal.Decimal {
	out := amount.Sub(applied)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// AgeDocuments places every open document with a due date into its bucket.
// Documents without a due date, issued after asOf, or with nothing outstanding
// are skipped. A zero issue date counts as already issued.
// Items are ordered by days past due descending, then document number.
func AgeDocuments(asOf time.Time, docs []domain.OpenDocument, parties map[string]domain.Party) []domain.AgingItem {
	items := make([]domain.AgingItem, 0, len(docs))
	for _, doc := range docs {
		if doc.DueDate == nil {
			continue
		}
		if !doc.IssueDate.IsZero() && domain.CalendarDay(doc.IssueDate).After(domain.CalendarDay(asOf)) {
			continue
		}
		outstanding := Outstanding(doc.Amount, doc.Applied)
		if !outstanding.IsPositive() {
			continue
		}
		days := DaysPastDue(asOf, *doc.DueDate)
		items = append(items, domain.AgingItem{
			DocumentID:     doc.DocumentID,
			DocumentNumber: doc.DocumentNumber,
			PartyID:        doc.PartyID,
			PartyName:      parties[doc.PartyID].Name,
			IssueDate:      issueDay(doc.IssueDate),
			DueDate:        domain.CalendarDay(*doc.DueDate),
			DaysPastDue:    days,
			Bucket:         BucketFor(days),
			Amount:         doc.Amount,
			Applied:        doc.Applied,
			Outstanding:    outstanding,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DaysPastDue != items[j].DaysPastDue {
			return items[i].DaysPastDue > items[j].DaysPastDue
		}
		return items[i].DocumentNumber < items[j].DocumentNumber
	})
	return items
}

func issueDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return domain.CalendarDay(t)
}

// SummarizeAging totals outstanding amounts per bucket. Every bucket key is present.
func SummarizeAging(items []domain.AgingItem) (map[domain.AgingBucket]decimal.Decimal, decimal.Decimal) {
	buckets := make(map[domain.AgingBucket]decimal.Decimal, len(domain.AgingBuckets))
	for _, b := range domain.AgingBuckets {
		buckets[b] = decimal.Zero
	}
	total := decimal.Zero
	for _, it := range items {
		buckets[it.Bucket] = buckets[it.Bucket].Add(it.Outstanding)
		total = total.Add(it.Outstanding)
	}
	return buckets, total
}
