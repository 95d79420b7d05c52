package accounting

import (
	"testing"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findNode returns the node for accountID anywhere in the forest.
func findNode(roots []*domain.ChartNode, accountID string) *domain.ChartNode {
	for _, r := range roots {
		if r.Account.AccountID == accountID {
			return r
		}
		if n := findNode(r.Children, accountID); n != nil {
			return n
		}
	}
	return nil
}

func chartFixture() ([]domain.Account, map[string]domain.AccountSums) {
	accounts := []domain.Account{
		{AccountID: "petty", Code: "1111", Name: "Petty Cash", ParentAccountID: "cash"},
		{AccountID: "assets", Code: "1000", Name: "Assets"},
		{AccountID: "cash", Code: "1110", Name: "Cash", ParentAccountID: "current"},
		{AccountID: "current", Code: "1100", Name: "Current Assets", ParentAccountID: "assets"},
		{AccountID: "bank", Code: "1120", Name: "Bank", ParentAccountID: "current"},
		{AccountID: "orphan", Code: "1900", Name: "Suspense", ParentAccountID: "gone"},
	}
	sums := map[string]domain.AccountSums{
		"petty":  {AccountID: "petty", Debit: decimal.NewFromInt(10), Credit: decimal.NewFromInt(2)},
		"cash":   {AccountID: "cash", Debit: decimal.NewFromInt(100)},
		"bank":   {AccountID: "bank", Credit: decimal.NewFromInt(30)},
		"orphan": {AccountID: "orphan", Debit: decimal.NewFromInt(5)},
	}
	return accounts, sums
}

func TestBuildChartTreeRollsUpThreeLevels(t *testing.T) {
	accounts, sums := chartFixture()

	roots, warnings := BuildChartTree(accounts, sums)

	assert.Empty(t, warnings)
	require.Len(t, roots, 2)
	assert.Equal(t, "1000", roots[0].Account.Code)
	assert.Equal(t, "1900", roots[1].Account.Code, "orphan becomes a root")

	assets := roots[0]
	assert.Equal(t, "110", assets.TotalDebit.String())
	assert.Equal(t, "32", assets.TotalCredit.String())
	assert.Equal(t, "78", assets.Balance.String())
	assert.True(t, assets.OwnDebit.IsZero())

	current := assets.Children[0]
	require.Len(t, current.Children, 2)
	assert.Equal(t, "1110", current.Children[0].Account.Code)
	assert.Equal(t, "1120", current.Children[1].Account.Code)

	cash := findNode(roots, "cash")
	require.NotNil(t, cash)
	assert.Equal(t, "110", cash.TotalDebit.String())
	assert.Equal(t, "2", cash.TotalCredit.String())

	for _, id := range []string{"assets", "current", "cash", "bank", "petty"} {
		n := findNode(roots, id)
		d, c := n.OwnDebit, n.OwnCredit
		for _, ch := range n.Children {
			d = d.Add(ch.TotalDebit)
			c = c.Add(ch.TotalCredit)
		}
		assert.True(t, d.Equal(n.TotalDebit), id)
		assert.True(t, c.Equal(n.TotalCredit), id)
	}
}

func TestBuildChartTreeBreaksCycles(t *testing.T) {
	accounts := []domain.Account{
		{AccountID: "a", Code: "1", ParentAccountID: "b"},
		{AccountID: "b", Code: "2", ParentAccountID: "a"},
		{AccountID: "c", Code: "3", ParentAccountID: "a"},
	}

	roots, warnings := BuildChartTree(accounts, nil)

	assert.Len(t, warnings, 2)
	assert.Equal(t, domain.WarningChartCycle, warnings[0].Kind)
	require.Len(t, roots, 2)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "c", roots[0].Children[0].Account.AccountID)
}

func TestFilterChartTreeKeepsAncestorsAndTotals(t *testing.T) {
	accounts, sums := chartFixture()
	roots, _ := BuildChartTree(accounts, sums)

	filtered := FilterChartTree(roots, "PETTY")

	require.Len(t, filtered, 1)
	assets := filtered[0]
	assert.Equal(t, "assets", assets.Account.AccountID)
	assert.Equal(t, "110", assets.TotalDebit.String(), "totals are not recomputed")
	require.Len(t, assets.Children, 1)
	current := assets.Children[0]
	require.Len(t, current.Children, 1)
	assert.Equal(t, "cash", current.Children[0].Account.AccountID)
	require.Len(t, current.Children[0].Children, 1)

	assert.Len(t, roots[0].Children[0].Children, 2, "input tree untouched")
}

func TestFilterChartTreeMatchesCodeAndBlank(t *testing.T) {
	accounts, sums := chartFixture()
	roots, _ := BuildChartTree(accounts, sums)

	assert.Equal(t, roots, FilterChartTree(roots, "  "))
	byCode := FilterChartTree(roots, "1900")
	require.Len(t, byCode, 1)
	assert.Equal(t, "orphan", byCode[0].Account.AccountID)
	assert.Empty(t, FilterChartTree(roots, "nothing-matches"))
}
