// Package port defines the interfaces (ports) for external dependencies.
// The service layer depends on these, never on the HTTP clients or cache
// implementations directly.
package port

import (
	"context"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
)

// TransactionsFetcher retrieves a customer's transaction history.
type TransactionsFetcher interface {
	GetTransactions(ctx context.Context, customerID string) ([]domain.Transaction, error)
}

// BalanceFetcher retrieves a customer's current balance.
type BalanceFetcher interface {
	GetBalance(ctx context.Context, customerID string) (*domain.AccountBalance, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
