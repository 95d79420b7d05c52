package accounting

import (
	"fmt"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount returns the balance of a debit/credit pair on the account's natural side.
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to LIABILITY/EQUITY/INCOME -> Positive (+)
func CalculateSignedAmount(accountType domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Income:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// SumLines totals the debit and credit sides of the given lines.
func SumLines(lines []domain.JournalLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// IsBalanced compares two totals at cent precision.
func IsBalanced(debit, credit decimal.Decimal) bool {
	return debit.Round(2).Equal(credit.Round(2))
}
