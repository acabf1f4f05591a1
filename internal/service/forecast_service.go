package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
	"github.com/boddenberg/cashflow-forecast-go/internal/forecast"
	"github.com/boddenberg/cashflow-forecast-go/internal/infra/observability"
	"github.com/boddenberg/cashflow-forecast-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service")

// MaxProjectionDays caps the horizon a caller may request.
const MaxProjectionDays = 90

// ForecastService validates requests, gathers inputs and runs the engine.
type ForecastService struct {
	engine       *forecast.Engine
	transactions port.TransactionsFetcher
	balances     port.BalanceFetcher
	cache        port.Cache[[]domain.Transaction]
	metrics      *observability.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewForecastService creates the forecast service. cache may be nil.
func NewForecastService(
	engine *forecast.Engine,
	transactions port.TransactionsFetcher,
	balances port.BalanceFetcher,
	cache port.Cache[[]domain.Transaction],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ForecastService {
	return &ForecastService{
		engine:       engine,
		transactions: transactions,
		balances:     balances,
		cache:        cache,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// CustomerForecastOptions tune a forecast for a stored customer.
type CustomerForecastOptions struct {
	ReferenceDate   domain.Date
	ProjectionDays  int
	SafetyThreshold *float64
}

// Project forecasts over caller-supplied transactions.
func (s *ForecastService) Project(ctx context.Context, req *domain.ProjectionRequest) (*domain.ProjectionResponse, error) {
	ctx, span := tracer.Start(ctx, "ForecastService.Project")
	defer span.End()

	if req == nil {
		return nil, &domain.ErrValidation{Field: "body", Message: "request body is required"}
	}
	if req.CurrentBalance == nil {
		return nil, &domain.ErrValidation{Field: "currentBalance", Message: "is required"}
	}
	if err := validateHorizon(req.ProjectionDays, req.SafetyThreshold); err != nil {
		return nil, err
	}
	if err := validateTransactions(req.Transactions, true); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("transactions.count", len(req.Transactions)))

	return s.run(ctx, req.Transactions, forecast.ProjectOptions{
		CurrentBalance:  *req.CurrentBalance,
		ReferenceDate:   s.referenceDate(req.ReferenceDate),
		ProjectionDays:  req.ProjectionDays,
		SafetyThreshold: req.SafetyThreshold,
	}), nil
}

// ProjectCustomer fetches the customer's transactions and balance
// concurrently, then forecasts.
func (s *ForecastService) ProjectCustomer(ctx context.Context, customerID string, opts CustomerForecastOptions) (*domain.ProjectionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "ForecastService.ProjectCustomer")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	if customerID == "" {
		return nil, &domain.ErrValidation{Field: "customerId", Message: "is required"}
	}
	if err := validateHorizon(opts.ProjectionDays, opts.SafetyThreshold); err != nil {
		return nil, err
	}

	var (
		transactions []domain.Transaction
		balance      *domain.AccountBalance
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := s.fetchTransactions(gCtx, customerID)
		if err != nil {
			return err
		}
		transactions = t
		return nil
	})

	g.Go(func() error {
		b, err := s.balances.GetBalance(gCtx, customerID)
		if err != nil {
			s.logger.Error("failed to fetch balance",
				zap.String("customer_id", customerID),
				zap.Error(err),
			)
			s.metrics.IncrExternalError("accounts")
			return fmt.Errorf("balance fetch: %w", err)
		}
		balance = b
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := validateTransactions(transactions, true); err != nil {
		s.logger.Warn("collaborator returned malformed transactions",
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
		return nil, &domain.ErrExternalService{Service: "transactions", Err: err}
	}

	return s.run(ctx, transactions, forecast.ProjectOptions{
		CurrentBalance:  balance.Balance,
		ReferenceDate:   s.referenceDate(opts.ReferenceDate),
		ProjectionDays:  opts.ProjectionDays,
		SafetyThreshold: opts.SafetyThreshold,
	}), nil
}

func (s *ForecastService) fetchTransactions(ctx context.Context, customerID string) ([]domain.Transaction, error) {
	cacheKey := "transactions:" + customerID
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			s.metrics.IncrCacheHit("transactions")
			return cached, nil
		}
		s.metrics.IncrCacheMiss("transactions")
	}

	t, err := s.transactions.GetTransactions(ctx, customerID)
	if err != nil {
		s.logger.Error("failed to fetch transactions",
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
		s.metrics.IncrExternalError("transactions")
		return nil, fmt.Errorf("transactions fetch: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, t)
	}
	return t, nil
}

func (s *ForecastService) run(ctx context.Context, txns []domain.Transaction, opts forecast.ProjectOptions) *domain.ProjectionResponse {
	_, span := tracer.Start(ctx, "Engine.Project")
	defer span.End()

	start := time.Now()
	projection := s.engine.Project(txns, opts)
	s.metrics.RecordRequestDuration("projection", time.Since(start))
	s.metrics.RecordProjection(&projection)

	projection.ID = uuid.NewString()
	span.SetAttributes(
		attribute.String("projection.id", projection.ID),
		attribute.String("projection.confidence", string(projection.Confidence)),
		attribute.Int("projection.days_until_low", projection.DaysUntilLow),
	)

	resp := &domain.ProjectionResponse{Projection: &projection}
	if alert := LowBalanceAlert(&projection); alert != nil {
		resp.Alert = alert
		s.logger.Info("low balance projected",
			zap.String("projection_id", projection.ID),
			zap.Int("days_until_low", alert.DaysUntilLow),
			zap.Float64("projected_balance", alert.ProjectedBalance),
		)
	}
	return resp
}

func (s *ForecastService) referenceDate(d domain.Date) domain.Date {
	if d.IsZero() {
		return domain.DateOf(s.now())
	}
	return d
}

// LowBalanceAlert turns a projection into an alert, or nil when the balance
// stays above the threshold for the whole horizon.
func LowBalanceAlert(p *domain.CashFlowProjection) *domain.LowBalanceAlert {
	if !p.RunsLow() || p.DaysUntilLow > len(p.ProjectionByDay) || p.DaysUntilLow < 1 {
		return nil
	}
	day := p.ProjectionByDay[p.DaysUntilLow-1]

	when := "tomorrow"
	if p.DaysUntilLow > 1 {
		when = fmt.Sprintf("in %d days", p.DaysUntilLow)
	}

	return &domain.LowBalanceAlert{
		DaysUntilLow:     p.DaysUntilLow,
		Date:             day.Date,
		ProjectedBalance: day.Balance,
		Threshold:        p.SafetyThreshold,
		Message: fmt.Sprintf("Balance is projected to fall below %.0f %s (%s), reaching %.0f.",
			p.SafetyThreshold, when, day.Date, day.Balance),
	}
}

func validateHorizon(days int, threshold *float64) error {
	if days < 0 || days > MaxProjectionDays {
		return &domain.ErrValidation{
			Field:   "projectionDays",
			Message: fmt.Sprintf("must be between 1 and %d", MaxProjectionDays),
		}
	}
	if threshold != nil && *threshold < 0 {
		return &domain.ErrValidation{Field: "safetyThreshold", Message: "must not be negative"}
	}
	return nil
}

// validateTransactions rejects undated entries and a type that contradicts
// the amount's sign. Dates matter only when forecasting.
func validateTransactions(txns []domain.Transaction, requireDates bool) error {
	for i, tx := range txns {
		field := fmt.Sprintf("transactions[%d]", i)
		if requireDates && tx.Date.IsZero() {
			return &domain.ErrValidation{Field: field + ".date", Message: "is required"}
		}
		switch tx.Type {
		case "":
		case domain.TypeIncome, domain.TypeExpense:
			if tx.Amount != 0 && tx.Type != tx.SignType() {
				return &domain.ErrValidation{
					Field:   field + ".type",
					Message: fmt.Sprintf("%q contradicts amount %.2f", tx.Type, tx.Amount),
				}
			}
		default:
			return &domain.ErrValidation{Field: field + ".type", Message: "must be income or expense"}
		}
	}
	return nil
}
