package service_test

import (
	"context"
	"sync/atomic"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
)

// --- Mocks ---

type mockTransactionsClient struct {
	transactions []domain.Transaction
	err          error
	calls        atomic.Int32
}

func (m *mockTransactionsClient) GetTransactions(_ context.Context, _ string) ([]domain.Transaction, error) {
	m.calls.Add(1)
	return m.transactions, m.err
}

type mockBalanceClient struct {
	balance *domain.AccountBalance
	err     error
}

func (m *mockBalanceClient) GetBalance(_ context.Context, _ string) (*domain.AccountBalance, error) {
	return m.balance, m.err
}

func floatPtr(v float64) *float64 { return &v }
