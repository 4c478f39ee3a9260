package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/remitwise-ledger/internal/api_gateway/middleware"
	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/remitwise-ledger/internal/domain/split"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSplitService struct {
	mock.Mock
}

func (m *MockSplitService) Initialize(ctx context.Context, acting, owner shared.Principal, spending, savings, bills, insurance uint32) (*split.Config, error) {
	args := m.Called(ctx, acting, owner, spending, savings, bills, insurance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*split.Config), args.Error(1)
}

func (m *MockSplitService) Update(ctx context.Context, acting shared.Principal, spending, savings, bills, insurance uint32) (*split.Config, error) {
	args := m.Called(ctx, acting, spending, savings, bills, insurance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*split.Config), args.Error(1)
}

func (m *MockSplitService) Get(ctx context.Context) (*split.Config, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*split.Config), args.Error(1)
}

func (m *MockSplitService) Calculate(ctx context.Context, totalAmount int64) (split.Shares, error) {
	args := m.Called(ctx, totalAmount)
	return args.Get(0).(split.Shares), args.Error(1)
}

func TestSplitHandler_Initialize(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockSplitService)
		handler := NewSplitHandler(logger, mockService)

		expected := &split.Config{
			Owner:            "GALICE",
			SpendingPercent:  50,
			SavingsPercent:   30,
			BillsPercent:     15,
			InsurancePercent: 5,
			Initialized:      true,
			UpdatedAt:        1700000000,
		}
		mockService.On("Initialize", mock.Anything, shared.Principal("GALICE"), shared.Principal("GALICE"), uint32(50), uint32(30), uint32(15), uint32(5)).Return(expected, nil)

		router := setupTestRouter()
		router.POST("/split", handler.Initialize)

		jsonBody, _ := json.Marshal(SplitConfigRequest{
			Owner:            "GALICE",
			SpendingPercent:  50,
			SavingsPercent:   30,
			BillsPercent:     15,
			InsurancePercent: 5,
		})
		req, _ := http.NewRequest(http.MethodPost, "/split", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.ActingPrincipalHeader, "GALICE")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var got SplitConfigResponse
		decodeData(t, rr.Body.Bytes(), &got)
		assert.Equal(t, "GALICE", got.Owner)
		assert.Equal(t, uint32(50), got.SpendingPercent)
		mockService.AssertExpectations(t)
	})

	t.Run("MissingOwner", func(t *testing.T) {
		mockService := new(MockSplitService)
		handler := NewSplitHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/split", handler.Initialize)

		jsonBody, _ := json.Marshal(SplitConfigRequest{SpendingPercent: 50, SavingsPercent: 30, BillsPercent: 15, InsurancePercent: 5})
		req, _ := http.NewRequest(http.MethodPost, "/split", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("AlreadyInitialized", func(t *testing.T) {
		mockService := new(MockSplitService)
		handler := NewSplitHandler(logger, mockService)

		mockService.On("Initialize", mock.Anything, shared.Principal("GALICE"), shared.Principal("GALICE"), uint32(50), uint32(30), uint32(15), uint32(5)).
			Return(nil, split.ErrAlreadyInitialized)

		router := setupTestRouter()
		router.POST("/split", handler.Initialize)

		jsonBody, _ := json.Marshal(SplitConfigRequest{
			Owner:            "GALICE",
			SpendingPercent:  50,
			SavingsPercent:   30,
			BillsPercent:     15,
			InsurancePercent: 5,
		})
		req, _ := http.NewRequest(http.MethodPost, "/split", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.ActingPrincipalHeader, "GALICE")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestSplitHandler_Update(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("BadPercentages", func(t *testing.T) {
		mockService := new(MockSplitService)
		handler := NewSplitHandler(logger, mockService)

		mockService.On("Update", mock.Anything, shared.Principal("GALICE"), uint32(50), uint32(30), uint32(15), uint32(10)).
			Return(nil, split.ErrInvalidPercentages)

		router := setupTestRouter()
		router.PUT("/split", handler.Update)

		jsonBody, _ := json.Marshal(SplitConfigRequest{SpendingPercent: 50, SavingsPercent: 30, BillsPercent: 15, InsurancePercent: 10})
		req, _ := http.NewRequest(http.MethodPut, "/split", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.ActingPrincipalHeader, "GALICE")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ForeignCaller", func(t *testing.T) {
		mockService := new(MockSplitService)
		handler := NewSplitHandler(logger, mockService)

		mockService.On("Update", mock.Anything, shared.Principal("GMALLORY"), uint32(25), uint32(25), uint32(25), uint32(25)).
			Return(nil, shared.ErrUnauthorized)

		router := setupTestRouter()
		router.PUT("/split", handler.Update)

		jsonBody, _ := json.Marshal(SplitConfigRequest{SpendingPercent: 25, SavingsPercent: 25, BillsPercent: 25, InsurancePercent: 25})
		req, _ := http.NewRequest(http.MethodPut, "/split", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.ActingPrincipalHeader, "GMALLORY")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestSplitHandler_Get(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("NotInitialized", func(t *testing.T) {
		mockService := new(MockSplitService)
		handler := NewSplitHandler(logger, mockService)

		mockService.On("Get", mock.Anything).Return(nil, split.ErrNotInitialized)

		router := setupTestRouter()
		router.GET("/split", handler.Get)

		req, _ := http.NewRequest(http.MethodGet, "/split", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestSplitHandler_Calculate(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockSplitService)
		handler := NewSplitHandler(logger, mockService)

		shares := split.Shares{Spending: 500, Savings: 300, Bills: 150, Insurance: 50}
		mockService.On("Calculate", mock.Anything, int64(1000)).Return(shares, nil)

		router := setupTestRouter()
		router.POST("/split/calculate", handler.Calculate)

		jsonBody, _ := json.Marshal(CalculateSplitRequest{TotalAmount: 1000})
		req, _ := http.NewRequest(http.MethodPost, "/split/calculate", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got CalculateSplitResponse
		decodeData(t, rr.Body.Bytes(), &got)
		require.Len(t, got.Allocations, 4)
		assert.Equal(t, split.CategorySpending, got.Allocations[0].Category)
		assert.Equal(t, int64(500), got.Allocations[0].Amount)
		assert.Equal(t, split.CategoryInsurance, got.Allocations[3].Category)
		assert.Equal(t, int64(50), got.Allocations[3].Amount)
		assert.Equal(t, int64(1000), got.Total)
		mockService.AssertExpectations(t)
	})

	t.Run("ZeroAmountRejectedByBinding", func(t *testing.T) {
		mockService := new(MockSplitService)
		handler := NewSplitHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/split/calculate", handler.Calculate)

		req, _ := http.NewRequest(http.MethodPost, "/split/calculate", bytes.NewBufferString(`{"total_amount":0}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("OversizedAmount", func(t *testing.T) {
		mockService := new(MockSplitService)
		mockService.On("Calculate", mock.Anything, int64(400_000_000_000_000_000)).
			Return(split.Shares{}, split.ErrAmountTooLarge)
		handler := NewSplitHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/split/calculate", handler.Calculate)

		req, _ := http.NewRequest(http.MethodPost, "/split/calculate", bytes.NewBufferString(`{"total_amount":400000000000000000}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})
}
