package forecast

import "github.com/boddenberg/cashflow-forecast-go/internal/domain"

// Engine composes the estimators into a balance forecast.
type Engine struct {
	params Params
}

// NewEngine creates an engine. Invalid params are rejected.
func NewEngine(params Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	p := params
	p.RecurrenceBands = append([]Band(nil), params.RecurrenceBands...)
	return &Engine{params: p}, nil
}

// Params returns a copy of the engine configuration.
func (e *Engine) Params() Params {
	p := e.params
	p.RecurrenceBands = append([]Band(nil), e.params.RecurrenceBands...)
	return p
}

// ProjectOptions are the per-call inputs of Project. Zero ProjectionDays
// and a nil SafetyThreshold use the engine defaults.
type ProjectOptions struct {
	CurrentBalance  float64
	ReferenceDate   domain.Date
	ProjectionDays  int
	SafetyThreshold *float64
}

// Project forecasts the balance for each of the next ProjectionDays days
// after ReferenceDate.
func (e *Engine) Project(txns []domain.Transaction, opts ProjectOptions) domain.CashFlowProjection {
	days := opts.ProjectionDays
	if days <= 0 {
		days = e.params.ProjectionDays
	}
	threshold := e.params.SafetyThreshold
	if opts.SafetyThreshold != nil {
		threshold = *opts.SafetyThreshold
	}

	flows := AggregateDaily(txns)
	recent := lastN(flows, e.params.RecentWindowDays)
	recentNet := netFlows(recent)

	avgIncome, avgExpenses := averageFlows(recent)
	netDaily := e.netDailyFlow(recentNet, avgIncome, avgExpenses)

	trend := e.ClassifyTrend(recentNet)
	pattern := e.DetectWeeklyPattern(flows)
	recurring := e.DetectRecurring(txns)
	income := e.PredictIncome(txns, opts.ReferenceDate)

	dueByDate := make(map[domain.Date]float64)
	for _, r := range recurring {
		dueByDate[r.NextDueDate] += r.AverageAmount
	}

	byDay := make([]domain.ProjectedDay, 0, days)
	running := opts.CurrentBalance
	daysUntilLow := domain.NotWithinHorizon
	for d := 1; d <= days; d++ {
		date := opts.ReferenceDate.AddDays(d)
		dailyIncome := avgIncome
		dailyExpenses := avgExpenses

		if pattern.Detected {
			if seasonal, ok := weekdayExpense(recent, date.Weekday()); ok {
				dailyExpenses = seasonal
			}
		}
		dailyExpenses += dueByDate[date]
		if income.NextDate.Equal(date) {
			dailyIncome += income.AverageAmount
		}

		running += dailyIncome - dailyExpenses + e.trendAdjustment(trend, d)
		byDay = append(byDay, domain.ProjectedDay{
			Day:      d,
			Date:     date,
			Balance:  roundMoney(running),
			Income:   roundMoney(dailyIncome),
			Expenses: roundMoney(dailyExpenses),
		})
		if daysUntilLow == domain.NotWithinHorizon && running < threshold {
			daysUntilLow = d
		}
	}

	projection := domain.CashFlowProjection{
		ReferenceDate:     opts.ReferenceDate,
		CurrentBalance:    opts.CurrentBalance,
		SafetyThreshold:   threshold,
		ProjectedBalance:  roundMoney(running),
		DaysUntilLow:      daysUntilLow,
		ProjectionByDay:   byDay,
		AverageIncome:     roundMoney(avgIncome),
		AverageExpenses:   roundMoney(avgExpenses),
		NetDailyFlow:      roundMoney(netDaily),
		Confidence:        e.confidenceTier(recentNet),
		Trend:             trend,
		RecurringExpenses: topRecurring(recurring, e.params.MaxRecurringReported),
		WeeklyPattern:     pattern,
	}
	if income.Confidence > e.params.UpcomingIncomeMinConfidence {
		projection.UpcomingIncome = &domain.UpcomingIncome{
			Amount:     roundMoney(income.AverageAmount),
			Date:       income.NextDate,
			Confidence: income.Confidence,
		}
	}
	return projection
}

// averageFlows returns mean daily income and expenses over flows.
func averageFlows(flows []domain.DailyFlow) (income, expenses float64) {
	if len(flows) == 0 {
		return 0, 0
	}
	for _, f := range flows {
		income += f.Income
		expenses += f.Expenses
	}
	n := float64(len(flows))
	return income / n, expenses / n
}

// netDailyFlow is the latest EMA of the recent net flows.
func (e *Engine) netDailyFlow(recentNet []float64, avgIncome, avgExpenses float64) float64 {
	ema := EMA(recentNet, e.params.EMAAlpha)
	if len(ema) == 0 {
		return emptyHistoryNetFlow(avgIncome, avgExpenses)
	}
	return ema[len(ema)-1]
}

// emptyHistoryNetFlow is the net flow used when there is no EMA to read.
func emptyHistoryNetFlow(avgIncome, avgExpenses float64) float64 {
	return avgIncome - avgExpenses
}

// confidenceTier grades the recent window by size and net-flow variance.
func (e *Engine) confidenceTier(recentNet []float64) domain.ConfidenceTier {
	n := len(recentNet)
	variance := populationVariance(recentNet)
	switch {
	case n >= e.params.HighConfidence.MinDataPoints && variance < e.params.HighConfidence.MaxVariance:
		return domain.ConfidenceHigh
	case n >= e.params.MediumConfidence.MinDataPoints && variance < e.params.MediumConfidence.MaxVariance:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

func topRecurring(rules []domain.RecurringExpense, limit int) []domain.RecurringExpense {
	if limit > 0 && len(rules) > limit {
		rules = rules[:limit]
	}
	return append([]domain.RecurringExpense{}, rules...)
}
