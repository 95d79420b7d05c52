package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/core/services"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

// --- Implement mock methods for AccountRepositoryFacade ---

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindFirstActiveAccount(ctx context.Context) (*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) HasPostedLines(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
	now      time.Time
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.now = time.Date(2025, 1, 14, 9, 30, 0, 0, time.UTC)
	suite.service = services.NewAccountService(suite.mockRepo, services.WithClock(func() time.Time { return suite.now }))
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        " 1000 ",
		Name:        "Cash",
		AccountType: domain.Asset,
		Category:    domain.CategoryCashBank,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Code == "1000" && acc.Name == "Cash" && acc.IsActive &&
			acc.AccountType == domain.Asset && acc.CreatedBy == "user-1" && acc.CreatedAt.Equal(suite.now)
	})).Return(nil).Once()

	acc, err := suite.service.CreateAccount(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.NotEmpty(acc.AccountID)
	suite.Equal("1000", acc.Code)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}
	dupErr := fmt.Errorf("account code 1000: %w", apperrors.ErrDuplicate)

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(dupErr).Once()

	acc, err := suite.service.CreateAccount(ctx, req, "user-1")

	suite.Nil(acc)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownParent() {
	ctx := context.Background()
	parent := "missing"
	req := dto.CreateAccountRequest{Code: "1010", Name: "Petty cash", AccountType: domain.Asset, ParentAccountID: &parent}

	suite.mockRepo.On("FindAccountByID", ctx, parent).Return(nil, apperrors.NewNotFoundError("account")).Once()

	_, err := suite.service.CreateAccount(ctx, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	_, err := suite.service.CreateAccount(context.Background(), dto.CreateAccountRequest{Code: "9", Name: "x", AccountType: "CASH"}, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NoCreator() {
	_, err := suite.service.CreateAccount(context.Background(), dto.CreateAccountRequest{Code: "9", Name: "x", AccountType: domain.Asset}, "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "nope").Return(nil, apperrors.NewNotFoundError("account")).Once()

	acc, err := suite.service.GetAccountByID(ctx, "nope")

	suite.Nil(acc)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccounts_EmptyIsNotNil() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccounts", ctx).Return(nil, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx)

	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_ParentChangeBlockedWhileInUse() {
	ctx := context.Background()
	acc := &domain.Account{AccountID: "a1", Code: "1000", Name: "Cash", AccountType: domain.Asset, IsActive: true}
	newParent := "p1"

	suite.mockRepo.On("FindAccountByID", ctx, "a1").Return(acc, nil).Once()
	suite.mockRepo.On("HasPostedLines", ctx, "a1").Return(true, nil).Once()

	_, err := suite.service.UpdateAccount(ctx, "a1", dto.UpdateAccountRequest{ParentAccountID: &newParent}, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_ParentChangeAllowedWhenInactive() {
	ctx := context.Background()
	acc := &domain.Account{AccountID: "a1", Code: "1000", Name: "Cash", AccountType: domain.Asset, IsActive: false}
	parent := &domain.Account{AccountID: "p1", Code: "1", Name: "Assets", AccountType: domain.Asset, IsActive: true}
	newParent := "p1"

	suite.mockRepo.On("FindAccountByID", ctx, "a1").Return(acc, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, "p1").Return(parent, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.ParentAccountID == "p1" && a.LastUpdatedBy == "user-2"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, "a1", dto.UpdateAccountRequest{ParentAccountID: &newParent}, "user-2")

	suite.Require().NoError(err)
	suite.Equal("p1", updated.ParentAccountID)
	suite.mockRepo.AssertNotCalled(suite.T(), "HasPostedLines", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RejectsCycle() {
	ctx := context.Background()
	root := &domain.Account{AccountID: "root", Code: "1", Name: "Assets", AccountType: domain.Asset}
	child := &domain.Account{AccountID: "child", Code: "10", Name: "Current", AccountType: domain.Asset, ParentAccountID: "root"}
	newParent := "child"

	suite.mockRepo.On("FindAccountByID", ctx, "root").Return(root, nil)
	suite.mockRepo.On("FindAccountByID", ctx, "child").Return(child, nil)

	_, err := suite.service.UpdateAccount(ctx, "root", dto.UpdateAccountRequest{ParentAccountID: &newParent}, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "cycle")
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RejectsSelfParent() {
	ctx := context.Background()
	acc := &domain.Account{AccountID: "a1", Code: "1000", Name: "Cash", AccountType: domain.Asset}
	self := "a1"

	suite.mockRepo.On("FindAccountByID", ctx, "a1").Return(acc, nil).Once()

	_, err := suite.service.UpdateAccount(ctx, "a1", dto.UpdateAccountRequest{ParentAccountID: &self}, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount() {
	ctx := context.Background()
	acc := &domain.Account{AccountID: "a1", Code: "1000", Name: "Cash", AccountType: domain.Asset, IsActive: true}

	suite.mockRepo.On("FindAccountByID", ctx, "a1").Return(acc, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool { return !a.IsActive })).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, "a1", "user-1")

	suite.NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_AlreadyInactive() {
	ctx := context.Background()
	acc := &domain.Account{AccountID: "a1", Code: "1000", Name: "Cash", AccountType: domain.Asset, IsActive: false}

	suite.mockRepo.On("FindAccountByID", ctx, "a1").Return(acc, nil).Once()

	err := suite.service.DeactivateAccount(ctx, "a1", "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Run Test Suite ---

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func TestAccountServiceBumpsReportCache(t *testing.T) {
	repo := new(MockAccountRepository)
	cache := &countingCache{}
	svc := services.NewAccountService(repo, services.WithReportCache(cache))
	ctx := context.Background()

	repo.On("SaveAccount", ctx, mock.Anything).Return(nil).Once()

	_, err := svc.CreateAccount(ctx, dto.CreateAccountRequest{Code: "4000", Name: "Sales", AccountType: domain.Income}, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, 1, cache.bumps)
}
