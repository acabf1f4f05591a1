package domain

// ============================================================
// Categorization
// ============================================================

// Well-known category names.
const (
	CategoryIncome = "Income"
	CategoryOthers = "Others"
)

// CategoryRule is one weighted keyword set. Keywords match as lowercase substrings.
type CategoryRule struct {
	Category string   `json:"category" yaml:"category"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Weight   float64  `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// AlternativeCategory is a runner-up candidate for a categorization.
type AlternativeCategory struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// CategorizationResult is a transaction with its assigned category. The
// embedded transaction keeps the caller's original fields; Category shadows
// the original category in JSON.
type CategorizationResult struct {
	Transaction
	Category              string                `json:"category"`
	Type                  string                `json:"type"`
	Confidence            float64               `json:"confidence"`
	AlternativeCategories []AlternativeCategory `json:"alternativeCategories,omitempty"`
	Reason                string                `json:"reason,omitempty"`
	MatchedKeywords       []string              `json:"matchedKeywords,omitempty"`
}

// Categorized returns the transaction with the assigned category applied.
func (r CategorizationResult) Categorized() Transaction {
	tx := r.Transaction
	tx.Category = r.Category
	tx.Type = r.Type
	return tx
}

// Severity of a spending anomaly.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// Rank orders severities; higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	}
	return 0
}

// Anomaly is an expense that is unusually large for its category.
type Anomaly struct {
	Transaction     Transaction `json:"transaction"`
	Severity        Severity    `json:"severity"`
	CategoryAverage float64     `json:"categoryAverage"`
	Ratio           float64     `json:"ratio"`
}

// CategoryShare is one category's slice of total expenses.
type CategoryShare struct {
	Category         string  `json:"category"`
	Amount           float64 `json:"amount"`
	Percentage       int     `json:"percentage"`
	TransactionCount int     `json:"transactionCount"`
}

// Insights bundles categorization output for a batch of transactions.
type Insights struct {
	Results     []CategorizationResult `json:"results"`
	Anomalies   []Anomaly              `json:"anomalies"`
	Breakdown   []CategoryShare        `json:"breakdown"`
	TopCategory *CategoryShare         `json:"topCategory,omitempty"`
	TotalSpent  float64                `json:"totalSpent"`
}
