package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// AccountCategory classifies an account for the summary reports.
type AccountCategory string

const (
	CategoryNone       AccountCategory = ""
	CategoryCashBank   AccountCategory = "CASH_BANK"
	CategoryReceivable AccountCategory = "RECEIVABLE"
	CategoryInventory  AccountCategory = "INVENTORY"
	CategoryPayable    AccountCategory = "PAYABLE"
)

// Valid reports whether c is a known category (the empty category included).
func (c AccountCategory) Valid() bool {
	switch c {
	case CategoryNone, CategoryCashBank, CategoryReceivable, CategoryInventory, CategoryPayable:
		return true
	}
	return false
}

// Account represents a node in the chart of accounts.
// Accounts are never deleted; IsActive=false retires them.
type Account struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"` // Unique, sort key for listings
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	Category        AccountCategory `json:"category,omitempty"`
	ParentAccountID string          `json:"parentAccountID,omitempty"` // Empty for roots
	Description     string          `json:"description,omitempty"`
	IsActive        bool            `json:"isActive"`
	AuditFields
}
