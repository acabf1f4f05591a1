package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
	"github.com/boddenberg/cashflow-forecast-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
)

// TransactionsClient fetches a customer's transaction history from the
// ingestion collaborator.
type TransactionsClient struct {
	base
}

// NewTransactionsClient creates a new TransactionsClient.
func NewTransactionsClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *TransactionsClient {
	return &TransactionsClient{base{
		service:    "transactions",
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}}
}

// GetTransactions fetches customer transactions with retry, circuit breaker, and tracing.
func (c *TransactionsClient) GetTransactions(ctx context.Context, customerID string) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "TransactionsClient.GetTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	var transactions []domain.Transaction
	endpoint := fmt.Sprintf("%s/v1/customers/%s/transactions", c.baseURL, url.PathEscape(customerID))
	if err := c.getJSON(ctx, endpoint, "transactions", customerID, &transactions); err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("transactions.count", len(transactions)))
	return transactions, nil
}
