package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LastChecked string `json:"lastChecked"`
}

// ForecastMetrics is returned by GET /v1/metrics/forecast.
type ForecastMetrics struct {
	Projections       int64            `json:"projections"`
	ProjectionsByTier map[string]int64 `json:"projectionsByTier"`
	LowBalanceAlerts  int64            `json:"lowBalanceAlerts"`
	LowBalanceRate    float64          `json:"lowBalanceRate"`
	Categorizations   int64            `json:"categorizations"`
	UncategorizedRate float64          `json:"uncategorizedRate"`
	AnomaliesHigh     int64            `json:"anomaliesHigh"`
	AnomaliesMedium   int64            `json:"anomaliesMedium"`
	CacheHitRate      float64          `json:"cacheHitRate"`
	Period            string           `json:"period"`
}
