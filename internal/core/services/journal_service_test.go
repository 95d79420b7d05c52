package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/core/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type JournalServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	cache   *countingCache
	service portssvc.JournalSvcFacade
	now     time.Time
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newLedgerStore(suite.T())
	suite.cache = &countingCache{}
	suite.now = time.Date(2025, 1, 14, 15, 4, 5, 0, time.UTC)
	suite.service = services.NewJournalService(suite.store, suite.store,
		services.WithJournalBase(services.WithClock(fixedClock(suite.now)), services.WithReportCache(suite.cache)))
}

func (suite *JournalServiceTestSuite) entryCount() int {
	entries, _, err := suite.store.ListJournalEntries(suite.ctx, 0, nil)
	suite.Require().NoError(err)
	return len(entries)
}

func (suite *JournalServiceTestSuite) TestPostBalancedEntry() {
	req := entryRequest(day(2025, 1, 14),
		line(cashID, "100.00", nil),
		line(revenueID, nil, 100),
	)
	req.Reference = " INV-1 "

	entry, err := suite.service.PostJournalEntry(suite.ctx, req, testUser)

	suite.Require().NoError(err)
	suite.Regexp(regexp.MustCompile(`^JNL250114/\d{3}$`), entry.EntryNumber)
	suite.Equal(domain.Posted, entry.Status)
	suite.Equal("INV-1", entry.Reference)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(100)))
	suite.True(entry.TotalCredit.Equal(decimal.NewFromInt(100)))
	suite.Len(entry.Lines, 2)
	suite.Less(entry.Lines[0].Seq, entry.Lines[1].Seq)
	suite.Equal(testUser, entry.CreatedBy)
	suite.Equal(1, suite.cache.bumps)
}

func (suite *JournalServiceTestSuite) TestPostRejectsUnbalancedEntry() {
	req := entryRequest(day(2025, 1, 14),
		line(cashID, "100.00", nil),
		line(revenueID, nil, "99.99"),
	)

	_, err := suite.service.PostJournalEntry(suite.ctx, req, testUser)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "unbalanced entry")
	suite.Equal(0, suite.entryCount())
	suite.Equal(0, suite.cache.bumps)
}

func (suite *JournalServiceTestSuite) TestPostRejectsWhenNoLinesSurviveFiltering() {
	req := entryRequest(day(2025, 1, 14),
		line(cashID, nil, nil),
		line("", 50, nil),
		line(revenueID, "abc", -10),
	)

	_, err := suite.service.PostJournalEntry(suite.ctx, req, testUser)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "no balanced lines")
	suite.Equal(0, suite.entryCount())
}

func (suite *JournalServiceTestSuite) TestPostRejectsLineWithBothSides() {
	req := entryRequest(day(2025, 1, 14),
		line(cashID, 10, 10),
		line(revenueID, nil, nil),
	)

	_, err := suite.service.PostJournalEntry(suite.ctx, req, testUser)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestPostRequiresCreator() {
	req := entryRequest(day(2025, 1, 14), line(cashID, 10, nil), line(revenueID, nil, 10))

	_, err := suite.service.PostJournalEntry(suite.ctx, req, "")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "no creator available")
}

func (suite *JournalServiceTestSuite) TestPostRejectsUnknownAccount() {
	req := entryRequest(day(2025, 1, 14), line("acc-missing", 10, nil), line(revenueID, nil, 10))

	_, err := suite.service.PostJournalEntry(suite.ctx, req, testUser)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal(0, suite.entryCount())
}

func (suite *JournalServiceTestSuite) TestPostRejectsInactiveAccount() {
	acc, err := suite.store.FindAccountByID(suite.ctx, revenueID)
	suite.Require().NoError(err)
	acc.IsActive = false
	suite.Require().NoError(suite.store.UpdateAccount(suite.ctx, *acc))

	req := entryRequest(day(2025, 1, 14), line(cashID, 10, nil), line(revenueID, nil, 10))
	_, err = suite.service.PostJournalEntry(suite.ctx, req, testUser)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "account inactive: 4000")
}

func (suite *JournalServiceTestSuite) TestPostStoreFailureLeavesNothingBehind() {
	suite.store.FailNextSaves(1)
	req := entryRequest(day(2025, 1, 14), line(cashID, 10, nil), line(revenueID, nil, 10))

	_, err := suite.service.PostJournalEntry(suite.ctx, req, testUser)

	suite.ErrorIs(err, apperrors.ErrInternal)
	suite.Equal(0, suite.entryCount())
	sums, err := suite.store.SumByAccount(suite.ctx, domain.DateRange{})
	suite.Require().NoError(err)
	suite.Empty(sums)
}

func (suite *JournalServiceTestSuite) TestGetJournalEntryNotFound() {
	_, err := suite.service.GetJournalEntry(suite.ctx, "nope")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestUpdateJournalEntryText() {
	entry, err := suite.service.PostJournalEntry(suite.ctx,
		entryRequest(day(2025, 1, 14), line(cashID, 10, nil), line(revenueID, nil, 10)), testUser)
	suite.Require().NoError(err)

	desc := "corrected memo"
	updated, err := suite.service.UpdateJournalEntryText(suite.ctx, entry.EntryID, dto.UpdateJournalEntryRequest{Description: &desc}, "user-2")

	suite.Require().NoError(err)
	suite.Equal("corrected memo", updated.Description)
	suite.Equal("user-2", updated.LastUpdatedBy)
	suite.True(updated.TotalDebit.Equal(entry.TotalDebit))

	_, err = suite.service.UpdateJournalEntryText(suite.ctx, entry.EntryID, dto.UpdateJournalEntryRequest{}, "user-2")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestReverseNetsToZero() {
	entry, err := suite.service.PostJournalEntry(suite.ctx,
		entryRequest(day(2025, 1, 10), line(cashID, "250.50", nil), line(revenueID, nil, "250.50")), testUser)
	suite.Require().NoError(err)

	reversal, err := suite.service.ReverseJournalEntry(suite.ctx, entry.EntryID, dto.ReverseJournalEntryRequest{}, testUser)
	suite.Require().NoError(err)

	suite.Equal(entry.EntryID, reversal.ReversalOfEntryID)
	suite.Equal("REV:"+entry.EntryNumber, reversal.Reference)
	suite.Equal("Reversal of "+entry.EntryNumber, reversal.Description)
	suite.True(reversal.EntryDate.Equal(day(2025, 1, 14)))

	original, err := suite.service.GetJournalEntry(suite.ctx, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Reversed, original.Status)
	suite.Equal(reversal.EntryID, original.ReversedByEntryID)

	sums, err := suite.store.SumByAccount(suite.ctx, domain.DateRange{})
	suite.Require().NoError(err)
	suite.Len(sums, 2)
	for _, s := range sums {
		suite.True(s.Net().IsZero(), "account %s should net to zero", s.AccountID)
	}

	_, err = suite.service.ReverseJournalEntry(suite.ctx, entry.EntryID, dto.ReverseJournalEntryRequest{}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.ReverseJournalEntry(suite.ctx, reversal.EntryID, dto.ReverseJournalEntryRequest{}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestReverseRejectsEarlierDate() {
	entry, err := suite.service.PostJournalEntry(suite.ctx,
		entryRequest(day(2025, 1, 10), line(cashID, 5, nil), line(revenueID, nil, 5)), testUser)
	suite.Require().NoError(err)

	_, err = suite.service.ReverseJournalEntry(suite.ctx, entry.EntryID,
		dto.ReverseJournalEntryRequest{Date: dto.NewCalendarDate(day(2025, 1, 9))}, testUser)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestReverseAllowedOnInactiveAccount() {
	entry, err := suite.service.PostJournalEntry(suite.ctx,
		entryRequest(day(2025, 1, 10), line(cashID, 5, nil), line(revenueID, nil, 5)), testUser)
	suite.Require().NoError(err)

	acc, err := suite.store.FindAccountByID(suite.ctx, revenueID)
	suite.Require().NoError(err)
	acc.IsActive = false
	suite.Require().NoError(suite.store.UpdateAccount(suite.ctx, *acc))

	_, err = suite.service.ReverseJournalEntry(suite.ctx, entry.EntryID, dto.ReverseJournalEntryRequest{}, testUser)
	suite.NoError(err)
}

func (suite *JournalServiceTestSuite) TestListJournalEntriesPaginates() {
	for d := 1; d <= 5; d++ {
		_, err := suite.service.PostJournalEntry(suite.ctx,
			entryRequest(day(2025, 1, d), line(cashID, d, nil), line(revenueID, nil, d)), testUser)
		suite.Require().NoError(err)
	}

	page1, err := suite.service.ListJournalEntries(suite.ctx, dto.ListJournalEntriesParams{Limit: 3})
	suite.Require().NoError(err)
	suite.Len(page1.Entries, 3)
	suite.Require().NotNil(page1.NextToken)
	suite.Equal("2025-01-05", page1.Entries[0].EntryDate.Format(dto.DateLayout))

	page2, err := suite.service.ListJournalEntries(suite.ctx, dto.ListJournalEntriesParams{Limit: 3, NextToken: *page1.NextToken})
	suite.Require().NoError(err)
	suite.Len(page2.Entries, 2)
	suite.Nil(page2.NextToken)
	suite.Equal("2025-01-01", page2.Entries[1].EntryDate.Format(dto.DateLayout))

	_, err = suite.service.ListJournalEntries(suite.ctx, dto.ListJournalEntriesParams{Limit: 3, NextToken: "garbage"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// randomAmount renders cents as a string, a float or a JSON number.
func randomAmount(r *rand.Rand, cents int64) any {
	text := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	switch r.IntN(3) {
	case 0:
		return text
	case 1:
		return float64(cents) / 100
	default:
		return json.Number(text)
	}
}

// randomLines builds a line set whose credits match its debits unless skew is positive.
func randomLines(r *rand.Rand, accounts []string, skew int64) []dto.PostJournalLineRequest {
	pick := func() string { return accounts[r.IntN(len(accounts))] }

	var lines []dto.PostJournalLineRequest
	var total int64
	debits := 1 + r.IntN(3)
	for i := 0; i < debits; i++ {
		cents := 1 + r.Int64N(100000)
		total += cents
		lines = append(lines, line(pick(), randomAmount(r, cents), nil))
	}

	credits := 1 + r.IntN(3)
	remaining := total + skew
	for i := 0; i < credits; i++ {
		cents := remaining
		if i < credits-1 {
			cents = r.Int64N(remaining + 1)
		}
		remaining -= cents
		lines = append(lines, line(pick(), nil, randomAmount(r, cents)))
	}
	if r.IntN(4) == 0 {
		lines = append(lines, line(pick(), nil, nil))
	}
	r.Shuffle(len(lines), func(i, j int) { lines[i], lines[j] = lines[j], lines[i] })
	return lines
}

func (suite *JournalServiceTestSuite) TestRandomLineSetsKeepTheBalanceInvariant() {
	next := 99
	svc := services.NewJournalService(suite.store, suite.store,
		services.WithJournalBase(services.WithClock(fixedClock(suite.now))),
		services.WithSuffixSource(func() int { next++; return next }))
	r := rand.New(rand.NewPCG(20250114, 7))
	accounts := []string{cashID, receivableID, inventoryID, payableID, equityID, revenueID, expenseID}

	accepted := 0
	for i := 0; i < 120; i++ {
		var skew int64
		if i%3 == 0 {
			skew = 1 + r.Int64N(500)
		}
		before := suite.entryCount()

		entry, err := svc.PostJournalEntry(suite.ctx, entryRequest(day(2025, 1, 1+r.IntN(14)), randomLines(r, accounts, skew)...), testUser)

		if skew > 0 {
			suite.Require().ErrorIs(err, apperrors.ErrValidation, "iteration %d", i)
			suite.Equal(before, suite.entryCount(), "iteration %d", i)
			continue
		}
		suite.Require().NoError(err, "iteration %d", i)
		accepted++

		stored, err := suite.store.FindJournalEntryByID(suite.ctx, entry.EntryID)
		suite.Require().NoError(err)
		debit, credit := decimal.Zero, decimal.Zero
		for _, l := range stored.Lines {
			suite.False(l.Debit.IsPositive() && l.Credit.IsPositive())
			debit = debit.Add(l.Debit)
			credit = credit.Add(l.Credit)
		}
		suite.True(debit.Equal(credit), "iteration %d: debit %s credit %s", i, debit, credit)
		suite.True(debit.Equal(stored.TotalDebit))
		suite.Equal(before+1, suite.entryCount())
	}
	suite.Equal(80, accepted)

	sums, err := suite.store.SumByAccount(suite.ctx, domain.DateRange{})
	suite.Require().NoError(err)
	debit, credit := decimal.Zero, decimal.Zero
	for _, sm := range sums {
		debit = debit.Add(sm.Debit)
		credit = credit.Add(sm.Credit)
	}
	suite.True(debit.Equal(credit))
}

func (suite *JournalServiceTestSuite) TestAmountsAreRoundedPerLineBeforeSumming() {
	req := entryRequest(day(2025, 1, 14),
		line(cashID, "0.005", nil),
		line(cashID, "0.005", nil),
		line(revenueID, nil, "0.01"),
	)

	_, err := suite.service.PostJournalEntry(suite.ctx, req, testUser)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "unbalanced entry")

	req = entryRequest(day(2025, 1, 14),
		line(cashID, "10", nil),
		line(expenseID, "0.004", nil),
		line(revenueID, nil, "10"),
	)

	entry, err := suite.service.PostJournalEntry(suite.ctx, req, testUser)

	suite.Require().NoError(err)
	suite.Len(entry.Lines, 2)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(10)))
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func TestPostRetriesOnEntryNumberCollision(t *testing.T) {
	ctx := context.Background()
	store := newLedgerStore(t)
	suffixes := []int{123, 123, 456}
	next := func() int {
		s := suffixes[0]
		suffixes = suffixes[1:]
		return s
	}
	svc := services.NewJournalService(store, store,
		services.WithSuffixSource(next),
		services.WithJournalBase(services.WithClock(fixedClock(time.Date(2025, 1, 14, 8, 0, 0, 0, time.UTC)))))

	req := entryRequest(day(2025, 1, 14), line(cashID, 1, nil), line(revenueID, nil, 1))
	first, err := svc.PostJournalEntry(ctx, req, testUser)
	require.NoError(t, err)
	second, err := svc.PostJournalEntry(ctx, req, testUser)
	require.NoError(t, err)

	assert.Equal(t, "JNL250114/123", first.EntryNumber)
	assert.Equal(t, "JNL250114/456", second.EntryNumber)
	assert.Empty(t, suffixes)
}

func TestPostGivesUpAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	store := newLedgerStore(t)
	calls := 0
	svc := services.NewJournalService(store, store,
		services.WithSuffixSource(func() int { calls++; return 777 }),
		services.WithEntryNumberAttempts(3),
		services.WithEntryNumberPrefix("GL"))

	req := entryRequest(day(2025, 1, 14), line(cashID, 1, nil), line(revenueID, nil, 1))
	first, err := svc.PostJournalEntry(ctx, req, testUser)
	require.NoError(t, err)
	assert.Regexp(t, `^GL\d{6}/777$`, first.EntryNumber)

	_, err = svc.PostJournalEntry(ctx, req, testUser)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 4, calls)
}
