package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semcheck/alignment"
	"github.com/c360studio/semcheck/corpus"
	"github.com/c360studio/semcheck/rules"
)

// result builds a result with the given counts of errors and warnings.
func result(category rules.Category, threshold, errors, warnings int) rules.Result {
	r := rules.Result{Category: category, Title: string(category), Threshold: threshold}
	for i := 0; i < errors; i++ {
		r.Errors = append(r.Errors, "e")
	}
	for i := 0; i < warnings; i++ {
		r.Warnings = append(r.Warnings, "w")
	}
	return r
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score int
		want  Tier
	}{
		{100, TierExcellent},
		{95, TierExcellent},
		{94, TierGood},
		{85, TierGood},
		{84, TierAcceptable},
		{75, TierAcceptable},
		{74, TierNeedsImprovement},
		{60, TierNeedsImprovement},
		{59, TierCritical},
		{0, TierCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.score), "score %d", tt.score)
	}
}

func TestAggregate_WeightedOverall(t *testing.T) {
	profiles := rules.DefaultProfiles()
	results := []rules.Result{
		result(rules.Structural, 0, 1, 0),   // 90
		result(rules.Architecture, 95, 0, 2), // 96
		result(rules.Flow, 93, 0, 5),         // 90
		result(rules.Integration, 96, 0, 0),  // 100
		result(rules.Semantic, 0, 0, 2),      // 96
		result(rules.Performance, 92, 0, 1),  // 98
	}

	r := Aggregate(results, profiles.Weights())
	// 18 + 19.2 + 18 + 25 + 9.6 + 4.9 = 94.7
	assert.Equal(t, 95, r.OverallScore)
	assert.Equal(t, TierExcellent, r.Tier)
	assert.True(t, r.Passed)

	_, err := uuid.Parse(r.RunID)
	assert.NoError(t, err)
	assert.False(t, r.Timestamp.IsZero())
}

func TestPipelineVerdict_IgnoresCategoryVerdicts(t *testing.T) {
	profiles := rules.DefaultProfiles()
	var results []rules.Result
	for _, p := range profiles {
		results = append(results, result(p.Category, p.Threshold, 1, 0))
	}

	r := Aggregate(results, profiles.Weights())
	assert.Equal(t, 90, r.OverallScore)
	assert.True(t, PipelineVerdict(r), "every category fails on its own, the run still passes")
	for _, res := range results {
		assert.False(t, rules.CategoryVerdict(res))
	}

	results[3] = result(rules.Integration, 96, 5, 0)
	r = Aggregate(results, profiles.Weights())
	assert.Equal(t, 80, r.OverallScore)
	assert.False(t, PipelineVerdict(r))
	assert.Equal(t, TierAcceptable, r.Tier)
}

func TestOverallScore_Subset(t *testing.T) {
	weights := rules.DefaultProfiles().Weights()
	results := []rules.Result{
		result(rules.Integration, 96, 0, 0), // 100 at .25
		result(rules.Performance, 92, 5, 0), // 50 at .05
	}
	// (25 + 2.5) / 0.30
	assert.Equal(t, 92, OverallScore(results, weights))
	assert.Equal(t, 0, OverallScore(nil, weights))
}

func TestRecommend(t *testing.T) {
	profiles := rules.DefaultProfiles()
	results := []rules.Result{
		result(rules.Structural, 0, 0, 4),   // 92, recommend below 90
		result(rules.Architecture, 95, 0, 3), // 94, recommend below 95
		result(rules.Semantic, 0, 0, 2),      // 96, recommend below 97
		result(rules.Performance, 92, 0, 5),  // 90, recommend below 90
	}

	assert.Equal(t, []string{
		"Enhance DMAG architecture pattern implementation",
		"Enhance semantic web compatibility and RDF readiness",
	}, Recommend(results, profiles))

	assert.Empty(t, Recommend([]rules.Result{result("unknown", 0, 10, 0)}, profiles))
}

func sampleReport() *Report {
	profiles := rules.DefaultProfiles()
	results := []rules.Result{
		{Category: rules.Structural, Title: "JSON-LD Syntax and Structure", Errors: []string{"a.jsonld: Missing meta section", "b.jsonld: Missing meta section"}},
		{Category: rules.Integration, Title: "JJNHM Integration", Threshold: 96, Warnings: []string{"HBS: Missing integration with MMD layer"}},
	}
	r := Aggregate(results, profiles.Weights())
	r.Recommendations = Recommend(results, profiles)
	r.SchemaRoot = "/schemas"
	r.Corpus = corpus.Stats{Files: 2, TotalBytes: 3072, AverageBytes: 1536}
	r.Sync = alignment.NewSummary("/schemas", nil, alignment.NewSet("a", "b"), alignment.NewSet("b"))
	r.Finish(time.Now().Add(-1500 * time.Millisecond))
	return r
}

func TestWriteText(t *testing.T) {
	r := sampleReport()

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	out := buf.String()

	assert.Contains(t, out, "JSON-LD Syntax and Structure")
	assert.Contains(t, out, "ERROR   a.jsonld: Missing meta section")
	assert.Contains(t, out, "WARNING HBS: Missing integration with MMD layer")
	assert.Contains(t, out, "Overall Score: 90%")
	assert.Contains(t, out, "Quality Level: Good")
	assert.Contains(t, out, "Files: 2, 3.0KB total, 1.5KB average")
	assert.Contains(t, out, "Global Alignment: 50%")
	assert.Contains(t, out, "Systemic Alignment: 100%")
	assert.Contains(t, out, "- Improve JSON-LD syntax and structure compliance")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "RESULT: PASS (overall 90% >= 85%)", lines[len(lines)-1])
}

func TestVerdictLine_Fail(t *testing.T) {
	r := Aggregate([]rules.Result{result(rules.Flow, 93, 3, 0)}, map[rules.Category]float64{rules.Flow: 1})
	assert.Equal(t, "RESULT: FAIL (overall 70% < 85%)", r.VerdictLine())
	assert.Equal(t, TierNeedsImprovement, r.Tier)
}

func TestAggregateCategory(t *testing.T) {
	r := AggregateCategory(result(rules.Structural, 0, 1, 0), 0.20)
	assert.Equal(t, 90, r.OverallScore)
	assert.False(t, r.Passed, "one error fails the category verdict")
	assert.Equal(t, rules.Structural, r.Category)
	assert.Equal(t, "RESULT: FAIL (structural 90%, threshold 0%, 1 errors)", r.VerdictLine())

	r = AggregateCategory(result(rules.Flow, 93, 0, 3), 0.20)
	assert.Equal(t, 94, r.OverallScore)
	assert.True(t, r.Passed)
	assert.Equal(t, "RESULT: PASS (flow 94%, threshold 93%, 0 errors)", r.VerdictLine())

	r = AggregateCategory(result(rules.Flow, 93, 0, 4), 0.20)
	assert.False(t, r.Passed, "92 is below the flow threshold")
	assert.Equal(t, TierGood, r.Tier)
}

func TestJSON(t *testing.T) {
	r := sampleReport()
	data, err := r.JSON()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, r.RunID, got["runId"])
	assert.Equal(t, float64(90), got["overallScore"])
	assert.Equal(t, "Good", got["tier"])
	assert.Equal(t, true, got["passed"])
	assert.GreaterOrEqual(t, got["durationMs"], float64(1500))

	categories := got["categories"].([]any)
	require.Len(t, categories, 2)
	first := categories[0].(map[string]any)
	assert.Equal(t, float64(80), first["score"])
	assert.Equal(t, false, first["passed"])

	sync := got["sync"].(map[string]any)
	assert.Equal(t, ">98%", sync["alignment"].(map[string]any)["targetGlobal"])
}

func TestMarkdownAndWrite(t *testing.T) {
	r := sampleReport()

	md := r.Markdown()
	assert.True(t, strings.HasPrefix(md, "# Validation Report\n"))
	assert.Contains(t, md, "| JSON-LD Syntax and Structure | 80% | 0% | 2 | 0 | FAIL |")
	assert.Contains(t, md, "| JJNHM Integration | 98% | 96% | 0 | 1 | PASS |")
	assert.Contains(t, md, "- **Error:** a.jsonld: Missing meta section")
	assert.Contains(t, md, "**RESULT: PASS (overall 90% >= 85%)**")

	dir := filepath.Join(t.TempDir(), "reports")
	require.NoError(t, r.Write(dir))
	for _, name := range []string{ReportJSON, ReportMarkdown} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
