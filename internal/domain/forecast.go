package domain

// ============================================================
// Cash-flow forecasting
// ============================================================

// DailyFlow aggregates every transaction that falls on one calendar day.
type DailyFlow struct {
	Date     Date    `json:"date"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"` // absolute value of outflows
	NetFlow  float64 `json:"netFlow"`
}

// Trend is the direction of the recent net-flow series.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// ConfidenceTier is a coarse reliability label for a projection.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceLow    ConfidenceTier = "low"
)

// Cadence names the interval band a recurring expense fell into.
type Cadence string

const (
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceMonthly  Cadence = "monthly"
)

// RecurringExpense is a bill inferred from repeated expenses sharing a
// description and category.
type RecurringExpense struct {
	Description   string  `json:"description"`
	Category      string  `json:"category,omitempty"`
	AverageAmount float64 `json:"amount"`
	FrequencyDays int     `json:"frequencyDays"`
	Cadence       Cadence `json:"cadence"`
	NextDueDate   Date    `json:"nextDueDate"`
	Occurrences   int     `json:"occurrences"`
}

// IncomePrediction is the inferred next income event.
type IncomePrediction struct {
	NextDate        Date    `json:"nextDate"`
	Confidence      float64 `json:"confidence"`
	AverageAmount   float64 `json:"averageAmount"`
	AverageInterval float64 `json:"averageInterval"`
	SampleSize      int     `json:"sampleSize"`
}

// WeeklyPattern describes day-of-week spending seasonality. Index 0 is Sunday.
type WeeklyPattern struct {
	Detected        bool       `json:"detected"`
	Variance        float64    `json:"variance"`
	AverageExpenses [7]float64 `json:"averageExpenses"`
}

// UpcomingIncome is the income summary surfaced to the user.
type UpcomingIncome struct {
	Amount     float64 `json:"amount"`
	Date       Date    `json:"date"`
	Confidence float64 `json:"confidence"`
}

// ProjectedDay is one step of the balance forecast. Currency values are whole units.
type ProjectedDay struct {
	Day      int     `json:"day"`
	Date     Date    `json:"date"`
	Balance  float64 `json:"balance"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// NotWithinHorizon is the DaysUntilLow value when the balance never drops
// below the safety threshold inside the projection horizon.
const NotWithinHorizon = -1

// CashFlowProjection is the forecast produced for a batch of transactions.
type CashFlowProjection struct {
	ID                string             `json:"id,omitempty"`
	ReferenceDate     Date               `json:"referenceDate"`
	CurrentBalance    float64            `json:"currentBalance"`
	SafetyThreshold   float64            `json:"safetyThreshold"`
	ProjectedBalance  float64            `json:"projectedBalance"`
	DaysUntilLow      int                `json:"daysUntilLow"`
	ProjectionByDay   []ProjectedDay     `json:"projectionByDay"`
	AverageIncome     float64            `json:"averageIncome"`
	AverageExpenses   float64            `json:"averageExpenses"`
	NetDailyFlow      float64            `json:"netDailyFlow"`
	Confidence        ConfidenceTier     `json:"confidence"`
	Trend             Trend              `json:"trend"`
	RecurringExpenses []RecurringExpense `json:"recurringExpenses"`
	UpcomingIncome    *UpcomingIncome    `json:"upcomingIncome,omitempty"`
	WeeklyPattern     WeeklyPattern      `json:"weeklyPattern"`
}

// RunsLow reports whether the balance falls below the threshold within the horizon.
func (p *CashFlowProjection) RunsLow() bool {
	return p.DaysUntilLow != NotWithinHorizon
}

// LowBalanceAlert is raised when a projection dips below the safety threshold.
type LowBalanceAlert struct {
	DaysUntilLow     int     `json:"daysUntilLow"`
	Date             Date    `json:"date"`
	ProjectedBalance float64 `json:"projectedBalance"`
	Threshold        float64 `json:"threshold"`
	Message          string  `json:"message"`
}

// ProjectionRequest is the input of a forecast over caller-supplied transactions.
// CurrentBalance is required; zero-valued optional fields fall back to defaults.
type ProjectionRequest struct {
	Transactions    []Transaction `json:"transactions"`
	CurrentBalance  *float64      `json:"currentBalance"`
	ReferenceDate   Date          `json:"referenceDate,omitempty"`
	ProjectionDays  int           `json:"projectionDays,omitempty"`
	SafetyThreshold *float64      `json:"safetyThreshold,omitempty"`
}

// ProjectionResponse wraps a projection with its optional low-balance alert.
type ProjectionResponse struct {
	Projection *CashFlowProjection `json:"projection"`
	Alert      *LowBalanceAlert    `json:"alert,omitempty"`
}
