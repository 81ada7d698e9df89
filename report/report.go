// Package report aggregates category results into a scored, tiered report.
package report

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/semcheck/alignment"
	"github.com/c360studio/semcheck/corpus"
	"github.com/c360studio/semcheck/rules"
)

// PassScore is the overall score a comprehensive run must reach.
const PassScore = 85

// Tier is a quality band for the overall score.
type Tier string

// Tiers, best first.
const (
	TierExcellent        Tier = "Excellent"
	TierGood             Tier = "Good"
	TierAcceptable       Tier = "Acceptable"
	TierNeedsImprovement Tier = "Needs Improvement"
	TierCritical         Tier = "Critical Issues"
)

// TierFor maps an overall score to its tier.
func TierFor(score int) Tier {
	switch {
	case score >= 95:
		return TierExcellent
	case score >= 85:
		return TierGood
	case score >= 75:
		return TierAcceptable
	case score >= 60:
		return TierNeedsImprovement
	default:
		return TierCritical
	}
}

// Report is the outcome of one comprehensive run.
type Report struct {
	RunID           string                     `json:"runId"`
	Timestamp       time.Time                  `json:"timestamp"`
	Duration        time.Duration              `json:"-"`
	DurationMS      int64                      `json:"durationMs"`
	SchemaRoot      string                     `json:"schemaRoot"`
	Results         []rules.Result             `json:"categories"`
	Weights         map[rules.Category]float64 `json:"weights"`
	OverallScore    int                        `json:"overallScore"`
	Tier            Tier                       `json:"tier"`
	Passed          bool                       `json:"passed"`
	Recommendations []string                   `json:"recommendations"`
	Corpus          corpus.Stats               `json:"corpus"`
	Sync            *alignment.Summary         `json:"sync,omitempty"`

	// Category is set for an isolated single-category run.
	Category rules.Category `json:"category,omitempty"`
}

// Aggregate combines category results into a report. The overall score is
// the weighted sum of category scores, rounded. When only some categories
// ran, their weights are renormalized to sum to 1.
func Aggregate(results []rules.Result, weights map[rules.Category]float64) *Report {
	r := &Report{
		RunID:     uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Results:   results,
		Weights:   weights,
	}
	r.OverallScore = OverallScore(results, weights)
	r.Tier = TierFor(r.OverallScore)
	r.Passed = PipelineVerdict(r)
	r.Recommendations = []string{}
	return r
}

// AggregateCategory builds the report of an isolated run of one category.
// Its verdict is rules.CategoryVerdict, not PipelineVerdict.
func AggregateCategory(res rules.Result, weight float64) *Report {
	r := Aggregate([]rules.Result{res}, map[rules.Category]float64{res.Category: weight})
	r.Category = res.Category
	r.OverallScore = res.Score()
	r.Tier = TierFor(r.OverallScore)
	r.Passed = rules.CategoryVerdict(res)
	return r
}

// OverallScore returns round(Σ score·weight) over the given results.
func OverallScore(results []rules.Result, weights map[rules.Category]float64) int {
	var sum, total float64
	for _, res := range results {
		w := weights[res.Category]
		sum += float64(res.Score()) * w
		total += w
	}
	if total == 0 {
		return 0
	}
	if math.Abs(total-1) > 1e-9 {
		sum /= total
	}
	return int(math.Round(sum))
}

// PipelineVerdict is the comprehensive run's verdict: the overall score
// reaches PassScore. Category verdicts do not take part.
func PipelineVerdict(r *Report) bool {
	return r.OverallScore >= PassScore
}

// Recommend returns one recommendation for every result whose score is below
// its profile's RecommendBelow, in result order.
func Recommend(results []rules.Result, profiles rules.Profiles) []string {
	out := []string{}
	for _, res := range results {
		p, err := profiles.Lookup(res.Category)
		if err != nil || p.Recommendation == "" {
			continue
		}
		if res.Score() < p.RecommendBelow {
			out = append(out, p.Recommendation)
		}
	}
	return out
}

// Finish stamps the run duration.
func (r *Report) Finish(start time.Time) {
	r.Duration = time.Since(start)
	r.DurationMS = r.Duration.Milliseconds()
}
