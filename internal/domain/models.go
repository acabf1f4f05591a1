// Package domain defines the entities shared by the forecasting engine, the
// categorizer and the HTTP adapter. These types carry no behaviour beyond
// small helpers and are safe to copy.
package domain

// ============================================================
// Transactions
// ============================================================

// Transaction types. The sign of Amount is authoritative; Type is advisory.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is a single income or expense event supplied by the ingestion
// collaborator. Amount is in major currency units: positive = income,
// negative = expense.
type Transaction struct {
	ID           string  `json:"id,omitempty"`
	Amount       float64 `json:"amount"`
	Date         Date    `json:"date"`
	Type         string  `json:"type,omitempty"` // income, expense
	Category     string  `json:"category,omitempty"`
	Description  string  `json:"description,omitempty"`
	MerchantName string  `json:"merchantName,omitempty"`
}

// IsIncome reports whether the transaction adds to the balance.
func (t Transaction) IsIncome() bool { return t.Amount > 0 }

// IsExpense reports whether the transaction takes from the balance.
func (t Transaction) IsExpense() bool { return t.Amount < 0 }

// SignType derives the transaction type from the sign of the amount.
func (t Transaction) SignType() string {
	if t.Amount > 0 {
		return TypeIncome
	}
	return TypeExpense
}

// ============================================================
// Accounts
// ============================================================

// AccountBalance is the current balance reported by the account collaborator.
type AccountBalance struct {
	CustomerID string  `json:"customerId"`
	Balance    float64 `json:"balance"`
	Currency   string  `json:"currency,omitempty"`
}
