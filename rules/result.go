package rules

import "encoding/json"

// Category names one independent rule set.
type Category string

// Built-in categories, in report order.
const (
	Structural   Category = "structural"
	Architecture Category = "architecture"
	Flow         Category = "flow"
	Integration  Category = "integration"
	Semantic     Category = "semantic"
	Performance  Category = "performance"
)

// Categories lists the built-in categories in report order.
var Categories = []Category{Structural, Architecture, Flow, Integration, Semantic, Performance}

// Score penalties.
const (
	ErrorPenalty   = 10
	WarningPenalty = 2
)

// Result is the outcome of evaluating one category. Score and verdict are
// derived from the error and warning counts; they cannot be set directly.
type Result struct {
	Category  Category
	Title     string
	Threshold int
	Errors    []string
	Warnings  []string
}

// Score returns max(0, 100 - 10·errors - 2·warnings).
func Score(errors, warnings int) int {
	s := 100 - ErrorPenalty*errors - WarningPenalty*warnings
	if s < 0 {
		return 0
	}
	return s
}

// Score returns the category score.
func (r Result) Score() int {
	return Score(len(r.Errors), len(r.Warnings))
}

// Passed is CategoryVerdict(r).
func (r Result) Passed() bool {
	return CategoryVerdict(r)
}

// CategoryVerdict is the verdict of an isolated category run: no errors and a
// score at or above the category threshold.
func CategoryVerdict(r Result) bool {
	return len(r.Errors) == 0 && r.Score() >= r.Threshold
}

type resultJSON struct {
	Category  Category `json:"category"`
	Title     string   `json:"title"`
	Score     int      `json:"score"`
	Threshold int      `json:"threshold"`
	Passed    bool     `json:"passed"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
}

// MarshalJSON includes the derived score and verdict.
func (r Result) MarshalJSON() ([]byte, error) {
	errs, warns := r.Errors, r.Warnings
	if errs == nil {
		errs = []string{}
	}
	if warns == nil {
		warns = []string{}
	}
	return json.Marshal(resultJSON{
		Category:  r.Category,
		Title:     r.Title,
		Score:     r.Score(),
		Threshold: r.Threshold,
		Passed:    r.Passed(),
		Errors:    errs,
		Warnings:  warns,
	})
}
