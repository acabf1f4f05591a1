// Package client holds HTTP adapters for the collaborators that supply
// transactions and balances. Every call goes through a circuit breaker and
// retry with backoff, and is traced.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
	"github.com/boddenberg/cashflow-forecast-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("client")

// base carries what every collaborator client needs.
type base struct {
	service    string
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// getJSON issues GET url and decodes a 200 response into out.
// 404 becomes domain.ErrNotFound without retrying.
func (b *base) getJSON(ctx context.Context, url, resource, id string, out any) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, b.cfg, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return resilience.Permanent(err)
			}
			req.Header.Set("Accept", "application/json")
			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

			resp, err := b.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusNotFound:
				return resilience.Permanent(&domain.ErrNotFound{Resource: resource, ID: id})
			case resp.StatusCode >= 400 && resp.StatusCode < 500:
				return resilience.Permanent(fmt.Errorf("%s API returned status %d", b.service, resp.StatusCode))
			case resp.StatusCode != http.StatusOK:
				return fmt.Errorf("%s API returned status %d", b.service, resp.StatusCode)
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return resilience.Permanent(fmt.Errorf("decode %s response: %w", resource, err))
			}
			return nil
		})
	})
	return b.translate(err)
}

func (b *base) translate(err error) error {
	if err == nil {
		return nil
	}
	var notFound *domain.ErrNotFound
	switch {
	case errors.As(err, &notFound):
		return notFound
	case resilience.IsCircuitOpen(err):
		return &domain.ErrCircuitOpen{Service: b.service}
	case errors.Is(err, context.DeadlineExceeded):
		return &domain.ErrTimeout{Operation: b.service}
	default:
		return &domain.ErrExternalService{Service: b.service, Err: err}
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
