package accounting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BuildChartTree assembles the account forest and rolls sums up to every ancestor.
// Accounts whose parent is missing become roots. So does any account whose parent
// chain loops back to itself; each such account yields a warning.
func BuildChartTree(accounts []domain.Account, sums map[string]domain.AccountSums) ([]*domain.ChartNode, []domain.IntegrityWarning) {
	sorted := append([]domain.Account(nil), accounts...)
	sortAccounts(sorted)

	nodes := make(map[string]*domain.ChartNode, len(sorted))
	for _, acc := range sorted {
		s := sums[acc.AccountID]
		nodes[acc.AccountID] = &domain.ChartNode{
			Account:   acc,
			OwnDebit:  orZero(s.Debit),
			OwnCredit: orZero(s.Credit),
			Children:  []*domain.ChartNode{},
		}
	}

	parents := make(map[string]string, len(sorted))
	for _, acc := range sorted {
		parents[acc.AccountID] = acc.ParentAccountID
	}

	var warnings []domain.IntegrityWarning
	roots := make([]*domain.ChartNode, 0)
	for _, acc := range sorted {
		node := nodes[acc.AccountID]
		parent, ok := nodes[acc.ParentAccountID]
		switch {
		case acc.ParentAccountID == "" || !ok:
			roots = append(roots, node)
		case inCycle(acc.AccountID, parents):
			warnings = append(warnings, domain.IntegrityWarning{
				Kind:    domain.WarningChartCycle,
				Message: fmt.Sprintf("account %s (%s) is part of a parent cycle and was placed at the root", acc.Code, acc.AccountID),
			})
			roots = append(roots, node)
		default:
			parent.Children = append(parent.Children, node)
		}
	}

	for _, r := range roots {
		rollup(r)
	}
	return roots, warnings
}

// rollup computes totals in post-order.
func rollup(n *domain.ChartNode) (decimal.Decimal, decimal.Decimal) {
	debit, credit := n.OwnDebit, n.OwnCredit
	for _, c := range n.Children {
		d, cr := rollup(c)
		debit = debit.Add(d)
		credit = credit.Add(cr)
	}
	n.TotalDebit = debit
	n.TotalCredit = credit
	n.Balance = debit.Sub(credit)
	return debit, credit
}

// inCycle reports whether following parents from id leads back to id.
func inCycle(id string, parents map[string]string) bool {
	seen := map[string]bool{}
	cur := parents[id]
	for cur != "" {
		if cur == id {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
		cur = parents[cur]
	}
	return false
}

// FilterChartTree keeps nodes whose code or name contains search (case-insensitive)
// and every ancestor of such a node. Totals are carried over unchanged.
// The input is not modified.
func FilterChartTree(roots []*domain.ChartNode, search string) []*domain.ChartNode {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return roots
	}
	out := make([]*domain.ChartNode, 0)
	for _, r := range roots {
		if kept := filterNode(r, needle); kept != nil {
			out = append(out, kept)
		}
	}
	return out
}

func filterNode(n *domain.ChartNode, needle string) *domain.ChartNode {
	children := make([]*domain.ChartNode, 0)
	for _, c := range n.Children {
		if kept := filterNode(c, needle); kept != nil {
			children = append(children, kept)
		}
	}
	matches := strings.Contains(strings.ToLower(n.Account.Code), needle) ||
		strings.Contains(strings.ToLower(n.Account.Name), needle)
	if !matches && len(children) == 0 {
		return nil
	}
	cp := *n
	cp.Children = children
	return &cp
}

func sortAccounts(accounts []domain.Account) {
	sort.SliceStable(accounts, func(i, j int) bool {
		if accounts[i].Code != accounts[j].Code {
			return accounts[i].Code < accounts[j].Code
		}
		return accounts[i].AccountID < accounts[j].AccountID
	})
}

func orZero(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return d
}
