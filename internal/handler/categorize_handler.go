package handler

import (
	"net/http"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
	"github.com/boddenberg/cashflow-forecast-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type transactionsRequest struct {
	Transactions []domain.Transaction `json:"transactions"`
}

type categorizeResponse struct {
	Results []domain.CategorizationResult `json:"results"`
}

// POST /v1/categorize
func categorizeHandler(svc *service.CategorizationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/categorize")
		defer span.End()

		var req transactionsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		span.SetAttributes(attribute.Int("transactions.count", len(req.Transactions)))

		results, err := svc.Categorize(ctx, req.Transactions)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, categorizeResponse{Results: results})
	}
}

// POST /v1/insights
func insightsHandler(svc *service.CategorizationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/insights")
		defer span.End()

		var req transactionsRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		insights, err := svc.Insights(ctx, req.Transactions)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, insights)
	}
}
