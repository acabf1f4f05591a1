// Package forecast implements the cash-flow projection engine: daily
// aggregation, trend and seasonality estimation, recurring-bill detection,
// income-cycle prediction and the day-by-day balance forecast.
//
// Every function is pure. An Engine holds only immutable Params and is safe
// for concurrent use.
package forecast

import (
	"fmt"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"
)

// Band is an inclusive range of days between recurring payments.
type Band struct {
	Min     int
	Max     int
	Cadence domain.Cadence
}

// NewBand builds a band and names its cadence from the band midpoint.
func NewBand(from, to int) Band {
	b := Band{Min: from, Max: to}
	switch mid := (from + to) / 2; {
	case mid <= 10:
		b.Cadence = domain.CadenceWeekly
	case mid <= 20:
		b.Cadence = domain.CadenceBiweekly
	default:
		b.Cadence = domain.CadenceMonthly
	}
	return b
}

// Contains reports whether days falls inside the band.
func (b Band) Contains(days int) bool {
	return days >= b.Min && days <= b.Max
}

// Tier is the minimum sample size and maximum net-flow variance for a
// confidence tier.
type Tier struct {
	MinDataPoints int
	MaxVariance   float64
}

// Params holds every tunable of the engine. The defaults are tuned for
// rupee-denominated amounts; currencies with different magnitudes need
// different thresholds.
type Params struct {
	// Projection
	ProjectionDays   int
	SafetyThreshold  float64
	RecentWindowDays int

	// Trend
	EMAAlpha            float64
	TrendMinPoints      int
	TrendSlopeThreshold float64 // currency units per day
	TrendNudgePerDay    float64

	// Seasonality
	SeasonalityMinDays           int
	SeasonalityVarianceThreshold float64 // currency units squared

	// Recurrence
	RecurrenceBands              []Band
	RecurrenceVarianceMultiplier float64
	MaxRecurringReported         int

	// Income cycle
	DefaultIncomeCycleDays       int
	InsufficientIncomeConfidence float64
	IncomeVarianceScale          float64
	IncomeConfidenceFloor        float64
	IncomeConfidenceCeiling      float64
	UpcomingIncomeMinConfidence  float64

	// Confidence tiers
	HighConfidence   Tier
	MediumConfidence Tier
}

// DefaultParams returns the engine defaults.
func DefaultParams() Params {
	return Params{
		ProjectionDays:   7,
		SafetyThreshold:  5000,
		RecentWindowDays: 21,

		EMAAlpha:            0.3,
		TrendMinPoints:      5,
		TrendSlopeThreshold: 50,
		TrendNudgePerDay:    10,

		SeasonalityMinDays:           28,
		SeasonalityVarianceThreshold: 1000,

		RecurrenceBands:              DefaultBands(),
		RecurrenceVarianceMultiplier: 5,
		MaxRecurringReported:         5,

		DefaultIncomeCycleDays:       7,
		InsufficientIncomeConfidence: 0.3,
		IncomeVarianceScale:          10000,
		IncomeConfidenceFloor:        0.5,
		IncomeConfidenceCeiling:      0.95,
		UpcomingIncomeMinConfidence:  0.5,

		HighConfidence:   Tier{MinDataPoints: 21, MaxVariance: 1000},
		MediumConfidence: Tier{MinDataPoints: 14, MaxVariance: 3000},
	}
}

// DefaultBands returns the weekly, bi-weekly and monthly recurrence bands.
func DefaultBands() []Band {
	return []Band{
		{Min: 5, Max: 9, Cadence: domain.CadenceWeekly},
		{Min: 12, Max: 16, Cadence: domain.CadenceBiweekly},
		{Min: 25, Max: 35, Cadence: domain.CadenceMonthly},
	}
}

// Validate rejects parameter sets the engine cannot run with.
func (p Params) Validate() error {
	switch {
	case p.ProjectionDays <= 0:
		return fmt.Errorf("projection days must be positive, got %d", p.ProjectionDays)
	case p.RecentWindowDays <= 0:
		return fmt.Errorf("recent window must be positive, got %d", p.RecentWindowDays)
	case p.EMAAlpha <= 0 || p.EMAAlpha > 1:
		return fmt.Errorf("ema alpha must be in (0, 1], got %v", p.EMAAlpha)
	case p.TrendMinPoints < 2:
		return fmt.Errorf("trend needs at least 2 points, got %d", p.TrendMinPoints)
	case p.IncomeConfidenceFloor > p.IncomeConfidenceCeiling:
		return fmt.Errorf("income confidence floor %v above ceiling %v", p.IncomeConfidenceFloor, p.IncomeConfidenceCeiling)
	case p.IncomeVarianceScale <= 0:
		return fmt.Errorf("income variance scale must be positive, got %v", p.IncomeVarianceScale)
	case p.DefaultIncomeCycleDays <= 0:
		return fmt.Errorf("default income cycle must be positive, got %d", p.DefaultIncomeCycleDays)
	}
	for _, b := range p.RecurrenceBands {
		if b.Min <= 0 || b.Min > b.Max {
			return fmt.Errorf("invalid recurrence band %d-%d", b.Min, b.Max)
		}
	}
	return nil
}
