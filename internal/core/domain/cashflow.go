package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyAmount is an amount booked on a calendar day.
type DailyAmount struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// CashFlowDay is one point of the daily cash series.
type CashFlowDay struct {
	Date       time.Time       `json:"date"`
	Inflow     decimal.Decimal `json:"inflow"`
	Outflow    decimal.Decimal `json:"outflow"`
	Net        decimal.Decimal `json:"net"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// CashFlow is the daily inflow/outflow series for a range plus the current cash position.
type CashFlow struct {
	After        time.Time       `json:"after"`
	Before       time.Time       `json:"before"`
	Days         []CashFlowDay   `json:"days"`
	TotalInflow  decimal.Decimal `json:"totalInflow"`
	TotalOutflow decimal.Decimal `json:"totalOutflow"`
	NetChange    decimal.Decimal `json:"netChange"`
	CashOnHand   decimal.Decimal `json:"cashOnHand"`
	Stale        bool            `json:"stale,omitempty"`
}
