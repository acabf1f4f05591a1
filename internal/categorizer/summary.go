package categorizer

import (
	"cmp"
	"math"
	"slices"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"

	"github.com/shopspring/decimal"
)

// SpendByCategory totals absolute expense per category. Uncategorized
// expenses count towards Others.
func SpendByCategory(txns []domain.Transaction) map[string]float64 {
	totals := make(map[string]float64)
	for _, tx := range txns {
		if !tx.IsExpense() {
			continue
		}
		totals[categoryOf(tx)] += math.Abs(tx.Amount)
	}
	return totals
}

// CategoryBreakdown returns each category's share of total expense, largest
// first. Percentages are rounded to whole numbers.
func CategoryBreakdown(txns []domain.Transaction) []domain.CategoryShare {
	counts := make(map[string]int)
	for _, tx := range txns {
		if tx.IsExpense() {
			counts[categoryOf(tx)]++
		}
	}

	totals := SpendByCategory(txns)
	var grand float64
	for _, v := range totals {
		grand += v
	}

	shares := make([]domain.CategoryShare, 0, len(totals))
	for category, amount := range totals {
		pct := 0
		if grand > 0 {
			pct = int(decimal.NewFromFloat(amount / grand * 100).Round(0).IntPart())
		}
		shares = append(shares, domain.CategoryShare{
			Category:         category,
			Amount:           round2(amount),
			Percentage:       pct,
			TransactionCount: counts[category],
		})
	}
	slices.SortFunc(shares, func(a, b domain.CategoryShare) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return shares
}

// TopCategory returns the category with the largest spend.
func TopCategory(txns []domain.Transaction) (domain.CategoryShare, bool) {
	shares := CategoryBreakdown(txns)
	if len(shares) == 0 {
		return domain.CategoryShare{}, false
	}
	return shares[0], true
}

// Summarize categorizes txns and derives anomalies and the spend breakdown
// from the assigned categories.
func (c *Categorizer) Summarize(txns []domain.Transaction) domain.Insights {
	results := c.CategorizeAll(txns)
	categorized := make([]domain.Transaction, len(results))
	for i, r := range results {
		categorized[i] = r.Categorized()
	}

	insights := domain.Insights{
		Results:   results,
		Anomalies: c.DetectAnomalies(categorized),
		Breakdown: CategoryBreakdown(categorized),
	}
	for _, s := range insights.Breakdown {
		insights.TotalSpent += s.Amount
	}
	insights.TotalSpent = round2(insights.TotalSpent)
	if top, ok := TopCategory(categorized); ok {
		insights.TopCategory = &top
	}
	return insights
}

func categoryOf(tx domain.Transaction) string {
	if tx.Category == "" {
		return domain.CategoryOthers
	}
	return tx.Category
}
