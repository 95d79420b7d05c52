package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// CalendarDay truncates t to midnight UTC of the same calendar date.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive calendar-date window. A nil bound is open.
type DateRange struct {
	After  *time.Time `json:"after,omitempty"`
	Before *time.Time `json:"before,omitempty"`
}

// Contains reports whether the calendar day of d lies inside the range.
func (r DateRange) Contains(d time.Time) bool {
	day := CalendarDay(d)
	if r.After != nil && day.Before(CalendarDay(*r.After)) {
		return false
	}
	if r.Before != nil && day.After(CalendarDay(*r.Before)) {
		return false
	}
	return true
}

// IntegrityWarning flags a derived view whose internal consistency check failed.
// It travels with the result rather than failing the read.
type IntegrityWarning struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	WarningTrialBalanceMismatch = "TRIAL_BALANCE_MISMATCH"
	WarningChartCycle           = "CHART_CYCLE"
	WarningCashReconciliation   = "CASH_RECONCILIATION"
	WarningBalanceSheetMismatch = "BALANCE_SHEET_MISMATCH"
)
