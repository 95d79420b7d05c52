package dto

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string                 `json:"code" binding:"required,accountcode"`
	Name            string                 `json:"name" binding:"required,max=255"`
	AccountType     domain.AccountType     `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	Category        domain.AccountCategory `json:"category" binding:"omitempty,oneof=CASH_BANK RECEIVABLE INVENTORY PAYABLE"`
	ParentAccountID *string                `json:"parentAccountID"` // Optional, use pointer for nullability
	Description     string                 `json:"description"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// An empty ParentAccountID moves the account to the root.
type UpdateAccountRequest struct {
	Name            *string                 `json:"name" binding:"omitempty,max=255"`
	Description     *string                 `json:"description"`
	Category        *domain.AccountCategory `json:"category" binding:"omitempty,oneof=CASH_BANK RECEIVABLE INVENTORY PAYABLE"`
	ParentAccountID *string                 `json:"parentAccountID"`
	IsActive        *bool                   `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string                 `json:"accountID"`
	Code            string                 `json:"code"`
	Name            string                 `json:"name"`
	AccountType     domain.AccountType     `json:"accountType"`
	Category        domain.AccountCategory `json:"category,omitempty"`
	ParentAccountID string                 `json:"parentAccountID"` // Note: Empty string if null in DB
	Description     string                 `json:"description"`
	IsActive        bool                   `json:"isActive"`
	CreatedAt       time.Time              `json:"createdAt"`
	CreatedBy       string                 `json:"createdBy"`
	LastUpdatedAt   time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy   string                 `json:"lastUpdatedBy"`
}

// ListAccountsResponse wraps the chart of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
