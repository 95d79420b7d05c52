package dto

// RangeQuery carries the optional after/before calendar bounds of a report.
type RangeQuery struct {
	After  string `form:"after"`
	Before string `form:"before"`
}

// LedgerQuery selects an account ledger. An empty AccountID means the first active account.
type LedgerQuery struct {
	AccountID string `form:"accountId"`
	RangeQuery
}

// ChartTreeQuery adds a free-text filter to the range.
type ChartTreeQuery struct {
	Search string `form:"search" binding:"max=100"`
	RangeQuery
}

// AsOfQuery is used by point-in-time reports.
type AsOfQuery struct {
	AsOf string `form:"asOf"`
}

// AgingQuery selects the aging direction and the evaluation date.
type AgingQuery struct {
	Direction string `form:"direction" binding:"omitempty,agingdirection"`
	AsOfQuery
}
