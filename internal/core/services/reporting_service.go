package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
	payments    portsrepo.PaymentAccountBalanceSource
	cashFeed    portsrepo.CashFeed
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(
	accountRepo portsrepo.AccountReader,
	ledgerRepo portsrepo.LedgerReader,
	payments portsrepo.PaymentAccountBalanceSource,
	cashFeed portsrepo.CashFeed,
	opts ...ServiceOption,
) portssvc.ReportingService {
	svc := &reportingService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		payments:    payments,
		cashFeed:    cashFeed,
	}
	svc.apply(opts)
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func dateKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return domain.CalendarDay(*t).Format(time.DateOnly)
}

// GetTrialBalance aggregates posted lines per account for the range.
func (s *reportingService) GetTrialBalance(ctx context.Context, rng domain.DateRange) (*domain.TrialBalance, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	tb, stale, err := loadReport(ctx, &s.BaseService, func(ctx context.Context) (domain.TrialBalance, error) {
		return s.buildTrialBalance(ctx, rng)
	}, "trial-balance", dateKey(rng.After), dateKey(rng.Before))
	if err != nil {
		s.LogError(ctx, err, "Failed to build trial balance")
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}
	tb.Stale = stale
	if !tb.Balanced {
		s.LogWarn(ctx, "Trial balance does not balance",
			slog.String("total_debit", tb.TotalDebit.StringFixed(2)),
			slog.String("total_credit", tb.TotalCredit.StringFixed(2)))
	}
	return &tb, nil
}

func (s *reportingService) buildTrialBalance(ctx context.Context, rng domain.DateRange) (domain.TrialBalance, error) {
	sums, err := s.ledgerRepo.SumByAccount(ctx, rng)
	if err != nil {
		return domain.TrialBalance{}, err
	}
	ids := make([]string, len(sums))
	for i, sm := range sums {
		ids[i] = sm.AccountID
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return domain.TrialBalance{}, err
	}

	tb := domain.TrialBalance{
		Range:       rng,
		Rows:        make([]domain.TrialBalanceRow, 0, len(sums)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, sm := range sums {
		acc := accounts[sm.AccountID]
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:   sm.AccountID,
			Code:        acc.Code,
			AccountName: acc.Name,
			AccountType: acc.AccountType,
			Debit:       sm.Debit,
			Credit:      sm.Credit,
		})
		tb.TotalDebit = tb.TotalDebit.Add(sm.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(sm.Credit)
	}
	sort.SliceStable(tb.Rows, func(i, j int) bool {
		if tb.Rows[i].Code != tb.Rows[j].Code {
			return tb.Rows[i].Code < tb.Rows[j].Code
		}
		return tb.Rows[i].AccountID < tb.Rows[j].AccountID
	})

	tb.Balanced = accounting.IsBalanced(tb.TotalDebit, tb.TotalCredit)
	if !tb.Balanced {
		tb.Warnings = append(tb.Warnings, domain.IntegrityWarning{
			Kind: domain.WarningTrialBalanceMismatch,
			Message: fmt.Sprintf("total debit %s differs from total credit %s",
				tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2)),
		})
	}
	return tb, nil
}

// GetChartTree returns the account hierarchy with rolled-up totals. The search
// filter is applied to the cached tree and never changes totals.
func (s *reportingService) GetChartTree(ctx context.Context, rng domain.DateRange, search string) (*domain.ChartTree, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	tree, stale, err := loadReport(ctx, &s.BaseService, func(ctx context.Context) (domain.ChartTree, error) {
		return s.buildChartTree(ctx, rng)
	}, "chart-tree", dateKey(rng.After), dateKey(rng.Before))
	if err != nil {
		s.LogError(ctx, err, "Failed to build chart tree")
		return nil, fmt.Errorf("failed to build chart tree: %w", err)
	}
	for _, w := range tree.Warnings {
		s.LogWarn(ctx, "Chart of accounts integrity warning", slog.String("kind", w.Kind), slog.String("message", w.Message))
	}
	tree.Stale = stale
	tree.Search = search
	tree.Roots = accounting.FilterChartTree(tree.Roots, search)
	return &tree, nil
}

func (s *reportingService) buildChartTree(ctx context.Context, rng domain.DateRange) (domain.ChartTree, error) {
	var (
		accounts []domain.Account
		sums     []domain.AccountSums
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accountRepo.ListAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sums, err = s.ledgerRepo.SumByAccount(gctx, rng)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.ChartTree{}, err
	}

	roots, warnings := accounting.BuildChartTree(accounts, indexSums(sums))
	return domain.ChartTree{Range: rng, Roots: roots, Warnings: warnings}, nil
}

// GetBalanceSheet derives the position from the same per-account sums as the trial balance.
func (s *reportingService) GetBalanceSheet(ctx context.Context, asOf *time.Time) (*domain.BalanceSheet, error) {
	day := s.Today()
	if asOf != nil {
		day = domain.CalendarDay(*asOf)
	}
	bs, stale, err := loadReport(ctx, &s.BaseService, func(ctx context.Context) (domain.BalanceSheet, error) {
		return s.buildBalanceSheet(ctx, day)
	}, "balance-sheet", day.Format(time.DateOnly))
	if err != nil {
		s.LogError(ctx, err, "Failed to build balance sheet")
		return nil, fmt.Errorf("failed to build balance sheet: %w", err)
	}
	bs.Stale = stale
	for _, w := range bs.Warnings {
		s.LogWarn(ctx, "Balance sheet integrity warning", slog.String("kind", w.Kind), slog.String("message", w.Message))
	}
	return &bs, nil
}

func (s *reportingService) buildBalanceSheet(ctx context.Context, asOf time.Time) (domain.BalanceSheet, error) {
	var (
		accounts []domain.Account
		sums     []domain.AccountSums
		payments []domain.PaymentAccountBalance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accountRepo.ListAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sums, err = s.ledgerRepo.SumByAccount(gctx, domain.DateRange{Before: &asOf})
		return err
	})
	if s.payments != nil {
		g.Go(func() error {
			var err error
			payments, err = s.payments.ListPaymentAccountBalances(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return domain.BalanceSheet{}, err
	}

	bs := balanceSheetFromSums(asOf, accounts, indexSums(sums))

	if len(payments) > 0 {
		reported := decimal.Zero
		for _, p := range payments {
			reported = reported.Add(p.Balance)
		}
		if !accounting.IsBalanced(reported, bs.Assets.CashBank) {
			bs.Warnings = append(bs.Warnings, domain.IntegrityWarning{
				Kind: domain.WarningCashReconciliation,
				Message: fmt.Sprintf("payment accounts report %s but the ledger holds %s in cash and bank",
					reported.StringFixed(2), bs.Assets.CashBank.StringFixed(2)),
			})
		}
	}
	return bs, nil
}

// balanceSheetFromSums classifies natural-side balances by account type and category.
func balanceSheetFromSums(asOf time.Time, accounts []domain.Account, sums map[string]domain.AccountSums) domain.BalanceSheet {
	bs := domain.BalanceSheet{
		AsOf: asOf,
		Assets: domain.BalanceSheetAssets{
			CashBank: decimal.Zero, AccountsReceivable: decimal.Zero, Inventory: decimal.Zero, Other: decimal.Zero, Total: decimal.Zero,
		},
		Liabilities: domain.BalanceSheetLiabilities{AccountsPayable: decimal.Zero, Other: decimal.Zero, Total: decimal.Zero},
		Equity:      domain.BalanceSheetEquity{Contributed: decimal.Zero, CurrentEarnings: decimal.Zero, Total: decimal.Zero},
	}

	for _, acc := range accounts {
		sm, ok := sums[acc.AccountID]
		if !ok {
			continue
		}
		bal, err := accounting.CalculateSignedAmount(acc.AccountType, sm.Debit, sm.Credit)
		if err != nil {
			continue
		}
		switch acc.AccountType {
		case domain.Asset:
			switch acc.Category {
			case domain.CategoryCashBank:
				bs.Assets.CashBank = bs.Assets.CashBank.Add(bal)
			case domain.CategoryReceivable:
				bs.Assets.AccountsReceivable = bs.Assets.AccountsReceivable.Add(bal)
			case domain.CategoryInventory:
				bs.Assets.Inventory = bs.Assets.Inventory.Add(bal)
			default:
				bs.Assets.Other = bs.Assets.Other.Add(bal)
			}
			bs.Assets.Total = bs.Assets.Total.Add(bal)
		case domain.Liability:
			if acc.Category == domain.CategoryPayable {
				bs.Liabilities.AccountsPayable = bs.Liabilities.AccountsPayable.Add(bal)
			} else {
				bs.Liabilities.Other = bs.Liabilities.Other.Add(bal)
			}
			bs.Liabilities.Total = bs.Liabilities.Total.Add(bal)
		case domain.Equity:
			bs.Equity.Contributed = bs.Equity.Contributed.Add(bal)
		case domain.Income:
			bs.Equity.CurrentEarnings = bs.Equity.CurrentEarnings.Add(bal)
		case domain.Expense:
			bs.Equity.CurrentEarnings = bs.Equity.CurrentEarnings.Sub(bal)
		}
	}
	bs.Equity.Total = bs.Equity.Contributed.Add(bs.Equity.CurrentEarnings)

	bs.Balanced = accounting.IsBalanced(bs.Assets.Total, bs.Liabilities.Total.Add(bs.Equity.Total))
	if !bs.Balanced {
		bs.Warnings = append(bs.Warnings, domain.IntegrityWarning{
			Kind: domain.WarningBalanceSheetMismatch,
			Message: fmt.Sprintf("assets %s differ from liabilities plus equity %s",
				bs.Assets.Total.StringFixed(2), bs.Liabilities.Total.Add(bs.Equity.Total).StringFixed(2)),
		})
	}
	return bs
}

// GetCashFlow builds the zero-filled daily cash series and the cash on hand at the end of the range.
func (s *reportingService) GetCashFlow(ctx context.Context, after, before *time.Time) (*domain.CashFlow, error) {
	start, end := accounting.ResolveCashFlowRange(s.Now(), after, before)
	if end.Before(start) {
		return nil, apperrors.NewValidationError("after must not be later than before")
	}
	cf, stale, err := loadReport(ctx, &s.BaseService, func(ctx context.Context) (domain.CashFlow, error) {
		return s.buildCashFlow(ctx, start, end)
	}, "cash-flow", start.Format(time.DateOnly), end.Format(time.DateOnly))
	if err != nil {
		s.LogError(ctx, err, "Failed to build cash flow")
		return nil, fmt.Errorf("failed to build cash flow: %w", err)
	}
	cf.Stale = stale
	return &cf, nil
}

func (s *reportingService) buildCashFlow(ctx context.Context, start, end time.Time) (domain.CashFlow, error) {
	var (
		inflows, outflows []domain.DailyAmount
		accounts          []domain.Account
		sums              []domain.AccountSums
	)
	g, gctx := errgroup.WithContext(ctx)
	if s.cashFeed != nil {
		g.Go(func() error {
			var err error
			inflows, err = s.cashFeed.DailyInflows(gctx, start, end)
			return err
		})
		g.Go(func() error {
			var err error
			outflows, err = s.cashFeed.DailyOutflows(gctx, start, end)
			return err
		})
	}
	g.Go(func() error {
		var err error
		accounts, err = s.accountRepo.ListAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sums, err = s.ledgerRepo.SumByAccount(gctx, domain.DateRange{Before: &end})
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.CashFlow{}, err
	}

	cf := domain.CashFlow{
		After:        start,
		Before:       end,
		Days:         accounting.BuildCashFlowSeries(start, end, inflows, outflows),
		TotalInflow:  decimal.Zero,
		TotalOutflow: decimal.Zero,
		CashOnHand:   decimal.Zero,
	}
	for _, d := range cf.Days {
		cf.TotalInflow = cf.TotalInflow.Add(d.Inflow)
		cf.TotalOutflow = cf.TotalOutflow.Add(d.Outflow)
	}
	cf.NetChange = cf.TotalInflow.Sub(cf.TotalOutflow)

	idx := indexSums(sums)
	for _, acc := range accounts {
		if acc.AccountType != domain.Asset || acc.Category != domain.CategoryCashBank {
			continue
		}
		if sm, ok := idx[acc.AccountID]; ok {
			cf.CashOnHand = cf.CashOnHand.Add(sm.Net())
		}
	}
	return cf, nil
}

func indexSums(sums []domain.AccountSums) map[string]domain.AccountSums {
	idx := make(map[string]domain.AccountSums, len(sums))
	for _, sm := range sums {
		idx[sm.AccountID] = sm
	}
	return idx
}
