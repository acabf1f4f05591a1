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

// AccountsClient fetches the current balance that seeds a projection.
type AccountsClient struct {
	base
}

// NewAccountsClient creates a new AccountsClient.
func NewAccountsClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *AccountsClient {
	return &AccountsClient{base{
		service:    "accounts",
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}}
}

// GetBalance fetches the customer's current balance.
func (c *AccountsClient) GetBalance(ctx context.Context, customerID string) (*domain.AccountBalance, error) {
	ctx, span := tracer.Start(ctx, "AccountsClient.GetBalance")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	var balance domain.AccountBalance
	endpoint := fmt.Sprintf("%s/v1/customers/%s/balance", c.baseURL, url.PathEscape(customerID))
	if err := c.getJSON(ctx, endpoint, "balance", customerID, &balance); err != nil {
		recordError(span, err)
		return nil, err
	}

	if balance.CustomerID == "" {
		balance.CustomerID = customerID
	}
	return &balance, nil
}
