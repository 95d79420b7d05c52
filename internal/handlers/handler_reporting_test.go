package handlers_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/handlers"
	"github.com/SscSPs/backoffice_ledger/internal/middleware"
	"github.com/SscSPs/backoffice_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetTrialBalance(ctx context.Context, rng domain.DateRange) (*domain.TrialBalance, error) {
	args := m.Called(ctx, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockReportingService) GetChartTree(ctx context.Context, rng domain.DateRange, search string) (*domain.ChartTree, error) {
	args := m.Called(ctx, rng, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartTree), args.Error(1)
}

func (m *MockReportingService) GetBalanceSheet(ctx context.Context, asOf *time.Time) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}

func (m *MockReportingService) GetCashFlow(ctx context.Context, after, before *time.Time) (*domain.CashFlow, error) {
	args := m.Called(ctx, after, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlow), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.ReportingService = (*MockReportingService)(nil)

func newMockedRouter(t *testing.T, reporting portssvc.ReportingService) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, handlers.RegisterValidators())

	secret := "mock-secret"
	cfg := &config.Config{JWTSecret: secret, IsProduction: true}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewJSONHandler(io.Discard, nil))))
	handlers.RegisterRoutes(r, cfg, &portssvc.ServiceContainer{Reporting: reporting})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return r, token
}

func TestTrialBalanceStoreFailureIsMasked(t *testing.T) {
	svc := new(MockReportingService)
	svc.On("GetTrialBalance", mock.Anything, mock.AnythingOfType("domain.DateRange")).
		Return(nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query account sums", errors.New("connection reset by peer"))).
		Once()
	r, token := newMockedRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/trial-balance?after=2025-01-01", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to generate trial balance report")
	assert.NotContains(t, w.Body.String(), "connection reset")
	svc.AssertExpectations(t)
}

func TestBalanceSheetPassesAsOf(t *testing.T) {
	svc := new(MockReportingService)
	svc.On("GetBalanceSheet", mock.Anything, mock.MatchedBy(func(asOf *time.Time) bool {
		return asOf != nil && asOf.Equal(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	})).Return(&domain.BalanceSheet{Balanced: true}, nil).Once()
	r, token := newMockedRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/balance-sheet?asOf=2025-03-31", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balanced":true`)
	svc.AssertExpectations(t)
}
