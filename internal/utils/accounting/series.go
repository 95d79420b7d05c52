package accounting

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultCashFlowDays is the length of the trailing window used when no range is given.
const DefaultCashFlowDays = 30

// ResolveCashFlowRange fills missing bounds: before defaults to today and
// after to the DefaultCashFlowDays-long window ending on before.
func ResolveCashFlowRange(now time.Time, after, before *time.Time) (time.Time, time.Time) {
	end := domain.CalendarDay(now)
	if before != nil {
		end = domain.CalendarDay(*before)
	}
	start := end.AddDate(0, 0, -(DefaultCashFlowDays - 1))
	if after != nil {
		start = domain.CalendarDay(*after)
	}
	return start, end
}

// BuildCashFlowSeries emits one point per calendar day in [start, end], filling
// days without activity with zeros, and accumulates the net.
func BuildCashFlowSeries(start, end time.Time, inflows, outflows []domain.DailyAmount) []domain.CashFlowDay {
	start, end = domain.CalendarDay(start), domain.CalendarDay(end)
	if end.Before(start) {
		return []domain.CashFlowDay{}
	}
	in := indexByDay(inflows)
	out := indexByDay(outflows)

	days := make([]domain.CashFlowDay, 0, int(end.Sub(start).Hours()/24)+1)
	cumulative := decimal.Zero
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		inflow := orZero(in[key])
		outflow := orZero(out[key])
		net := inflow.Sub(outflow)
		cumulative = cumulative.Add(net)
		days = append(days, domain.CashFlowDay{
			Date:       d,
			Inflow:     inflow,
			Outflow:    outflow,
			Net:        net,
			Cumulative: cumulative,
		})
	}
	return days
}

func indexByDay(amounts []domain.DailyAmount) map[string]decimal.Decimal {
	idx := make(map[string]decimal.Decimal, len(amounts))
	for _, a := range amounts {
		key := domain.CalendarDay(a.Date).Format(time.DateOnly)
		idx[key] = orZero(idx[key]).Add(a.Amount)
	}
	return idx
}
