package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/utils/accounting"
)

type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
}

// NewLedgerService creates the per-account ledger calculator.
func NewLedgerService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader, opts ...ServiceOption) portssvc.LedgerService {
	svc := &ledgerService{accountRepo: accountRepo, ledgerRepo: ledgerRepo}
	svc.apply(opts)
	return svc
}

var _ portssvc.LedgerService = (*ledgerService)(nil)

func (s *ledgerService) GetLedger(ctx context.Context, accountID string, rng domain.DateRange) (*domain.Ledger, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}

	var (
		account *domain.Account
		err     error
	)
	if accountID == "" {
		account, err = s.accountRepo.FindFirstActiveAccount(ctx)
	} else {
		account, err = s.accountRepo.FindAccountByID(ctx, accountID)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "Ledger requested for unknown account", slog.String("account_id", accountID))
			empty := accounting.EmptyLedger(rng)
			return &empty, nil
		}
		s.LogError(ctx, err, "Failed to resolve ledger account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to resolve ledger account: %w", err)
	}

	snap, err := s.ledgerRepo.AccountLedger(ctx, account.AccountID, rng)
	if err != nil {
		s.LogError(ctx, err, "Failed to read account ledger", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("failed to read account ledger: %w", err)
	}

	ledger := accounting.BuildLedger(account, rng, snap)
	s.LogDebug(ctx, "Ledger built",
		slog.String("account_id", account.AccountID),
		slog.Int("row_count", len(ledger.Rows)))
	return &ledger, nil
}

// validateRange rejects ranges whose lower bound is after the upper bound.
func validateRange(rng domain.DateRange) error {
	if rng.After != nil && rng.Before != nil && domain.CalendarDay(*rng.After).After(domain.CalendarDay(*rng.Before)) {
		return apperrors.NewValidationError("after must not be later than before")
	}
	return nil
}
