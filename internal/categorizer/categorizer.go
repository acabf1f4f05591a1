// Package categorizer assigns spending categories to transactions by
// weighted keyword scoring, and flags spend that is unusually large for its
// category.
package categorizer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"

	"github.com/shopspring/decimal"
)

// Options tunes the scoring and anomaly thresholds.
type Options struct {
	IncomeCategory           string
	IncomeAmountThreshold    float64
	IncomeHighConfidence     float64
	IncomeBaseConfidence     float64
	NoMatchConfidence        float64
	MaxConfidence            float64
	MaxAlternativeConfidence float64
	MaxAlternatives          int
	MediumAnomalyMultiplier  float64
	HighAnomalyMultiplier    float64
}

// DefaultOptions returns the default thresholds.
func DefaultOptions() Options {
	return Options{
		IncomeCategory:           domain.CategoryIncome,
		IncomeAmountThreshold:    1000,
		IncomeHighConfidence:     0.9,
		IncomeBaseConfidence:     0.7,
		NoMatchConfidence:        0.3,
		MaxConfidence:            0.95,
		MaxAlternativeConfidence: 0.9,
		MaxAlternatives:          3,
		MediumAnomalyMultiplier:  2,
		HighAnomalyMultiplier:    3,
	}
}

// Categorizer scores transactions against a RuleSet. It is immutable and
// safe for concurrent use.
type Categorizer struct {
	rules *RuleSet
	opts  Options
}

// New creates a categorizer. A nil rule set uses DefaultRuleSet.
func New(rules *RuleSet, opts Options) (*Categorizer, error) {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	if opts.MediumAnomalyMultiplier <= 0 || opts.HighAnomalyMultiplier < opts.MediumAnomalyMultiplier {
		return nil, fmt.Errorf("anomaly multipliers must satisfy 0 < medium <= high, got %v and %v",
			opts.MediumAnomalyMultiplier, opts.HighAnomalyMultiplier)
	}
	if opts.MaxAlternatives < 0 {
		return nil, fmt.Errorf("max alternatives must not be negative, got %d", opts.MaxAlternatives)
	}
	if opts.IncomeCategory == "" {
		opts.IncomeCategory = domain.CategoryIncome
	}
	return &Categorizer{rules: rules, opts: opts}, nil
}

type candidate struct {
	category string
	score    float64
	matched  []string
}

// Categorize assigns a category, confidence and runner-up alternatives.
func (c *Categorizer) Categorize(tx domain.Transaction) domain.CategorizationResult {
	search := strings.ToLower(tx.Description) + " " + strings.ToLower(tx.MerchantName)
	result := domain.CategorizationResult{
		Transaction: tx,
		Type:        tx.SignType(),
	}

	if tx.Amount > 0 {
		return c.categorizeIncome(result, search)
	}

	var candidates []candidate
	var total float64
	for _, rule := range c.rules.rules {
		matched := matchKeywords(search, rule.Keywords)
		if len(matched) == 0 {
			continue
		}
		score := float64(len(matched)) * rule.Weight
		candidates = append(candidates, candidate{category: rule.Category, score: score, matched: matched})
		total += score
	}

	if len(candidates) == 0 || total <= 0 {
		result.Category = domain.CategoryOthers
		result.Confidence = c.opts.NoMatchConfidence
		result.Reason = "no match"
		return result
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})

	winner := candidates[0]
	result.Category = winner.category
	result.Confidence = round2(min(c.opts.MaxConfidence, winner.score/total))
	result.MatchedKeywords = winner.matched
	result.Reason = "matched " + quoteAll(winner.matched)

	for _, alt := range candidates[1:] {
		if len(result.AlternativeCategories) == c.opts.MaxAlternatives {
			break
		}
		result.AlternativeCategories = append(result.AlternativeCategories, domain.AlternativeCategory{
			Category:   alt.category,
			Confidence: round2(min(c.opts.MaxAlternativeConfidence, alt.score/total)),
		})
	}
	return result
}

func (c *Categorizer) categorizeIncome(result domain.CategorizationResult, search string) domain.CategorizationResult {
	result.Category = c.opts.IncomeCategory
	matched := matchKeywords(search, c.rules.Keywords(c.opts.IncomeCategory))

	switch {
	case len(matched) > 0:
		result.Confidence = c.opts.IncomeHighConfidence
		result.MatchedKeywords = matched
		result.Reason = "income: matched " + quoteAll(matched)
	case result.Amount > c.opts.IncomeAmountThreshold:
		result.Confidence = c.opts.IncomeHighConfidence
		result.Reason = fmt.Sprintf("income: amount above %s", decimal.NewFromFloat(c.opts.IncomeAmountThreshold).String())
	default:
		result.Confidence = c.opts.IncomeBaseConfidence
		result.Reason = "income: positive amount"
	}
	return result
}

// CategorizeAll categorizes every transaction, preserving order.
func (c *Categorizer) CategorizeAll(txns []domain.Transaction) []domain.CategorizationResult {
	out := make([]domain.CategorizationResult, len(txns))
	for i, tx := range txns {
		out[i] = c.Categorize(tx)
	}
	return out
}

func matchKeywords(search string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(search, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func quoteAll(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = fmt.Sprintf("%q", w)
	}
	return strings.Join(quoted, ", ")
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
