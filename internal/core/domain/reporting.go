package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSums is the per-account aggregate every report derives from.
type AccountSums struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// Net returns debit minus credit.
func (s AccountSums) Net() decimal.Decimal {
	return s.Debit.Sub(s.Credit)
}

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists per-account sums for a range with grand totals.
type TrialBalance struct {
	Range       DateRange          `json:"range"`
	Rows        []TrialBalanceRow  `json:"rows"`
	TotalDebit  decimal.Decimal    `json:"totalDebit"`
	TotalCredit decimal.Decimal    `json:"totalCredit"`
	Balanced    bool               `json:"balanced"`
	Warnings    []IntegrityWarning `json:"warnings,omitempty"`
	Stale       bool               `json:"stale,omitempty"`
}

// ChartNode is an account in the chart tree with its own and rolled-up sums.
type ChartNode struct {
	Account     Account         `json:"account"`
	OwnDebit    decimal.Decimal `json:"ownDebit"`
	OwnCredit   decimal.Decimal `json:"ownCredit"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"` // TotalDebit - TotalCredit
	Children    []*ChartNode    `json:"children"`
}

// ChartTree is the chart-of-accounts forest ordered by account code.
type ChartTree struct {
	Range    DateRange          `json:"range"`
	Search   string             `json:"search,omitempty"`
	Roots    []*ChartNode       `json:"roots"`
	Warnings []IntegrityWarning `json:"warnings,omitempty"`
	Stale    bool               `json:"stale,omitempty"`
}

// BalanceSheetAssets groups asset balances by reporting category.
type BalanceSheetAssets struct {
	CashBank           decimal.Decimal `json:"cashBank"`
	AccountsReceivable decimal.Decimal `json:"accountsReceivable"`
	Inventory          decimal.Decimal `json:"inventory"`
	Other              decimal.Decimal `json:"other"`
	Total              decimal.Decimal `json:"total"`
}

// BalanceSheetLiabilities groups liability balances by reporting category.
type BalanceSheetLiabilities struct {
	AccountsPayable decimal.Decimal `json:"accountsPayable"`
	Other           decimal.Decimal `json:"other"`
	Total           decimal.Decimal `json:"total"`
}

// BalanceSheetEquity splits equity into booked equity and unclosed earnings.
type BalanceSheetEquity struct {
	Contributed     decimal.Decimal `json:"contributed"`
	CurrentEarnings decimal.Decimal `json:"currentEarnings"`
	Total           decimal.Decimal `json:"total"`
}

// BalanceSheet is the point-in-time position derived from the ledger.
type BalanceSheet struct {
	AsOf        time.Time               `json:"asOf"`
	Assets      BalanceSheetAssets      `json:"assets"`
	Liabilities BalanceSheetLiabilities `json:"liabilities"`
	Equity      BalanceSheetEquity      `json:"equity"`
	Balanced    bool                    `json:"balanced"`
	Warnings    []IntegrityWarning      `json:"warnings,omitempty"`
	Stale       bool                    `json:"stale,omitempty"`
}

// PaymentAccountBalance is a bank or cash register balance reported by the payments side.
type PaymentAccountBalance struct {
	PaymentAccountID string          `json:"paymentAccountID"`
	Name             string          `json:"name"`
	Balance          decimal.Decimal `json:"balance"`
}
