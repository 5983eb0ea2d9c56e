package classify

// Category enum (internal taxonomy)
type Category string

const (
	CategoryPII          Category = "pii"
	CategoryFinancial    Category = "financial"
	CategoryLegal        Category = "legal"
	CategoryConfidential Category = "confidential"
)

// Categories in enumeration order. Confidence ties are broken by this order.
var Categories = []Category{CategoryPII, CategoryFinancial, CategoryLegal, CategoryConfidential}

// primaryLabels maps internal categories to the presentation-facing labels.
var primaryLabels = map[Category]string{
	CategoryPII:          "HR Documents",
	CategoryFinancial:    "Financial Documents",
	CategoryLegal:        "Legal Documents",
	CategoryConfidential: "Technical Documents",
}

// PrimaryLabel returns the presentation label for a category.
func (c Category) PrimaryLabel() string {
	if l, ok := primaryLabels[c]; ok {
		return l
	}
	return "Other Documents"
}

// Confidence constants per signal type. The mime-type fallback (0.6) sits
// below the acceptance threshold (0.7) on purpose: fallback alone never
// marks a file sensitive.
const (
	KeywordConfidence  = 0.8
	FallbackConfidence = 0.6
)

// Result is the verdict for one file.
type Result struct {
	Confidence    float64   `json:"confidence_score"`
	Primary       *Category `json:"primary_category"`
	MatchedTopics []string  `json:"matched_topics"`
	Explanation   string    `json:"explanation"`
	Deferred      bool      `json:"deferred"`
}

// Sensitive reports whether the result clears the acceptance threshold.
func (r Result) Sensitive(threshold float64) bool {
	return r.Primary != nil && r.Confidence > threshold
}
