package handler

import (
	"net/http"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
	"github.com/boddenberg/cashflow-forecast-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// POST /v1/forecast
func projectHandler(svc *service.ForecastService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/forecast")
		defer span.End()

		var req domain.ProjectionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		span.SetAttributes(attribute.Int("transactions.count", len(req.Transactions)))

		resp, err := svc.Project(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// GET /v1/customers/{customerId}/forecast?days=&threshold=&referenceDate=
func customerForecastHandler(svc *service.ForecastService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/customers/{customerId}/forecast")
		defer span.End()

		customerID := chi.URLParam(r, "customerId")
		span.SetAttributes(attribute.String("customer.id", customerID))

		days, err := queryInt(r, "days")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		threshold, err := queryFloat(r, "threshold")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		refDate, err := queryDate(r, "referenceDate")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		resp, err := svc.ProjectCustomer(ctx, customerID, service.CustomerForecastOptions{
			ReferenceDate:   refDate,
			ProjectionDays:  days,
			SafetyThreshold: threshold,
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
