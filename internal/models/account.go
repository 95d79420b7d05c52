package models

// Account is a row of the accounts table.
type Account struct {
	AccountID       string  `db:"account_id"`
	Code            string  `db:"code"`
	Name            string  `db:"name"`
	AccountType     string  `db:"account_type"`
	Category        *string `db:"category"`          // Nullable
	ParentAccountID *string `db:"parent_account_id"` // Nullable
	Description     *string `db:"description"`       // Nullable
	IsActive        bool    `db:"is_active"`
	AuditFields
}
