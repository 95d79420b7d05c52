package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/google/uuid"
)

type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates the account registry service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, opts ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: repo}
	svc.apply(opts)
	return svc
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("no creator available")
	}
	if !req.AccountType.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown account type %q", req.AccountType))
	}
	if !req.Category.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown account category %q", req.Category))
	}

	now := s.Now()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		AccountType: req.AccountType,
		Category:    req.Category,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if account.Code == "" || account.Name == "" {
		return nil, apperrors.NewValidationError("account code and name are required")
	}

	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		if _, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("parent account does not exist")
			}
			return nil, fmt.Errorf("failed to load parent account: %w", err)
		}
		account.ParentAccountID = *req.ParentAccountID
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account in repository", slog.String("account_code", account.Code))
		}
		return nil, err
	}

	s.invalidateReports(ctx)
	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("account_code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		// ErrNotFound is an expected outcome
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID in repository", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts returns the whole chart of accounts ordered by code.
func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts from repository")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("no creator available")
	}
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("account name cannot be empty")
		}
		account.Name = name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown account category %q", *req.Category))
		}
		account.Category = *req.Category
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	if req.ParentAccountID != nil && *req.ParentAccountID != account.ParentAccountID {
		if err := s.checkParentReassignment(ctx, account, *req.ParentAccountID); err != nil {
			return nil, err
		}
		account.ParentAccountID = *req.ParentAccountID
	}

	account.LastUpdatedAt = s.Now()
	account.LastUpdatedBy = userID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account in repository", slog.String("account_id", accountID))
		return nil, err
	}

	s.invalidateReports(ctx)
	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

// checkParentReassignment enforces that the parent graph stays acyclic and that
// only retired or unused accounts move.
func (s *accountService) checkParentReassignment(ctx context.Context, account *domain.Account, newParentID string) error {
	if account.IsActive {
		used, err := s.accountRepo.HasPostedLines(ctx, account.AccountID)
		if err != nil {
			return fmt.Errorf("failed to check account usage: %w", err)
		}
		if used {
			return apperrors.NewValidationError("parent can only change while the account is inactive or has no posted lines")
		}
	}
	if newParentID == "" {
		return nil
	}
	if newParentID == account.AccountID {
		return apperrors.NewValidationError("account cannot be its own parent")
	}

	seen := map[string]bool{}
	cur := newParentID
	for cur != "" {
		if cur == account.AccountID {
			return apperrors.NewValidationError("parent assignment would create a cycle")
		}
		if seen[cur] {
			break
		}
		seen[cur] = true
		parent, err := s.accountRepo.FindAccountByID(ctx, cur)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewValidationError("parent account does not exist")
			}
			return fmt.Errorf("failed to load parent account: %w", err)
		}
		cur = parent.ParentAccountID
	}
	return nil
}

// DeactivateAccount marks an account as inactive. Accounts are never deleted.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	if userID == "" {
		return apperrors.NewValidationError("no creator available")
	}
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return apperrors.NewValidationError("account already inactive")
	}

	account.IsActive = false
	account.LastUpdatedAt = s.Now()
	account.LastUpdatedBy = userID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account in repository", slog.String("account_id", accountID))
		return err
	}

	s.invalidateReports(ctx)
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}
