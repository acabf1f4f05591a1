package categorizer

import (
	"fmt"
	"os"
	"strings"

	"github.com/boddenberg/cashflow-forecast-go/internal/domain"

	"gopkg.in/yaml.v3"
)

const (
	defaultWeight = 1.0
	incomeWeight  = 1.5
)

// RuleSet is an ordered, immutable list of category rules. Order breaks
// ties between equally scored categories.
type RuleSet struct {
	rules []domain.CategoryRule
}

// NewRuleSet normalizes and copies rules: keywords are lowercased and
// trimmed, a zero weight becomes 1.0.
func NewRuleSet(rules []domain.CategoryRule) (*RuleSet, error) {
	out := make([]domain.CategoryRule, 0, len(rules))
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		name := strings.TrimSpace(r.Category)
		if name == "" {
			return nil, fmt.Errorf("rule %d: category is required", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("rule %d: duplicate category %q", i, name)
		}
		seen[name] = true
		if r.Weight < 0 {
			return nil, fmt.Errorf("rule %q: negative weight %v", name, r.Weight)
		}

		weight := r.Weight
		if weight == 0 {
			weight = defaultWeight
		}
		keywords := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		out = append(out, domain.CategoryRule{Category: name, Keywords: keywords, Weight: weight})
	}
	return &RuleSet{rules: out}, nil
}

// Rules returns a copy of the rules.
func (rs *RuleSet) Rules() []domain.CategoryRule {
	out := make([]domain.CategoryRule, len(rs.rules))
	for i, r := range rs.rules {
		r.Keywords = append([]string(nil), r.Keywords...)
		out[i] = r
	}
	return out
}

// Keywords returns the keywords of category, or nil.
func (rs *RuleSet) Keywords(category string) []string {
	for _, r := range rs.rules {
		if r.Category == category {
			return append([]string(nil), r.Keywords...)
		}
	}
	return nil
}

type ruleFile struct {
	Rules []domain.CategoryRule `yaml:"rules"`
}

// LoadRuleSet reads rules from a YAML file of the form:
//
//	rules:
//	  - category: Food & Dining
//	    keywords: [swiggy, zomato]
//	  - category: Income
//	    weight: 1.5
//	    keywords: [salary]
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRuleSet(data)
}

// ParseRuleSet parses the YAML rule format accepted by LoadRuleSet.
func ParseRuleSet(data []byte) (*RuleSet, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("parse rules: no rules defined")
	}
	return NewRuleSet(f.Rules)
}

// DefaultRuleSet returns the built-in rules, tuned for Indian merchants.
func DefaultRuleSet() *RuleSet {
	rs, err := NewRuleSet(defaultRules)
	if err != nil {
		panic("categorizer: invalid default rules: " + err.Error())
	}
	return rs
}

var defaultRules = []domain.CategoryRule{
	{
		Category: "Food & Dining",
		Keywords: []string{
			"swiggy", "zomato", "restaurant", "cafe", "coffee", "food", "pizza",
			"domino", "mcdonald", "kfc", "starbucks", "burger", "dhaba", "biryani",
		},
	},
	{
		Category: "Groceries",
		Keywords: []string{
			"bigbasket", "blinkit", "zepto", "instamart", "dmart", "grocery",
			"supermarket", "kirana", "vegetables", "reliance fresh",
		},
	},
	{
		Category: "Transportation",
		Keywords: []string{
			"uber", "ola", "rapido", "metro", "petrol", "fuel", "diesel", "irctc",
			"railway", "bus", "taxi", "auto", "parking", "fastag", "toll",
		},
	},
	{
		Category: "Shopping",
		Keywords: []string{
			"amazon", "flipkart", "myntra", "ajio", "meesho", "nykaa", "mall",
			"store", "shopping", "decathlon",
		},
	},
	{
		Category: "Bills & Utilities",
		Keywords: []string{
			"electricity", "water bill", "gas", "broadband", "wifi", "airtel", "jio",
			"vodafone", "recharge", "bill", "dth", "postpaid", "bescom",
		},
	},
	{
		Category: "Entertainment",
		Keywords: []string{
			"netflix", "prime video", "hotstar", "spotify", "bookmyshow", "movie",
			"pvr", "inox", "youtube", "gaming", "concert",
		},
	},
	{
		Category: "Health",
		Keywords: []string{
			"pharmacy", "apollo", "medplus", "hospital", "clinic", "doctor", "1mg",
			"pharmeasy", "medical", "diagnostic", "gym",
		},
	},
	{
		Category: "Education",
		Keywords: []string{
			"udemy", "coursera", "course", "school", "college", "tuition", "books",
			"exam", "byju",
		},
	},
	{
		Category: "Rent & Housing",
		Keywords: []string{
			"rent", "maintenance", "housing", "landlord", "society", "plumber", "electrician",
		},
	},
	{
		Category: "Investments",
		Keywords: []string{
			"zerodha", "groww", "upstox", "mutual fund", "sip", "stocks", "ppf", "nps",
		},
	},
	{
		Category: domain.CategoryIncome,
		Weight:   incomeWeight,
		Keywords: []string{
			"salary", "freelance", "payment received", "refund", "cashback",
			"credited", "upwork", "fiverr", "invoice", "payout", "interest", "dividend",
		},
	},
}
