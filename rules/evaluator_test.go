package rules

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semcheck/corpus"
	"github.com/c360studio/semcheck/document"
)

func loadCorpus(t *testing.T, files map[string]string) *corpus.Corpus {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	c, err := corpus.Load(root, corpus.Options{})
	require.NoError(t, err)
	return c
}

func profile(t *testing.T, category Category) Profile {
	t.Helper()
	p, err := DefaultProfiles().Lookup(category)
	require.NoError(t, err)
	return p
}

func evaluate(t *testing.T, category Category, files map[string]string, opts ...Option) Result {
	t.Helper()
	return NewEvaluator(profile(t, category), opts...).Evaluate(loadCorpus(t, files))
}

const fullMeta = `"meta": {"@id": "ex:meta", "@type": "ex:Meta", "title": "t", "description": "d", "versionInfo": "1", "license": "MIT", "creator": "me"}`

func TestStructural_MissingMeta(t *testing.T) {
	r := evaluate(t, Structural, map[string]string{
		"a.jsonld": `{"@context": {"schema": "https://schema.org/"}, "@id": "https://example.org/a"}`,
	})
	assert.Equal(t, []string{"a.jsonld: Missing meta section"}, r.Errors)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, 90, r.Score())
	assert.False(t, r.Passed())
}

func TestStructural_CleanFilePasses(t *testing.T) {
	r := evaluate(t, Structural, map[string]string{
		"a.jsonld": `{"@context": {"@version": 1.1}, "@id": "https://example.org/a", ` + fullMeta + `, "@graph": [{"@id": "ex:x", "@type": "ex:T"}]}`,
	})
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
	assert.True(t, r.Passed())
}

func TestStructural_StringContext(t *testing.T) {
	r := evaluate(t, Structural, map[string]string{
		"remote.jsonld": `{"@context": "https://schema.org/", "@id": "https://example.org/r", ` + fullMeta + `}`,
		"local.jsonld":  `{"@context": "context.jsonld", "@id": "https://example.org/l", ` + fullMeta + `}`,
	})
	assert.Equal(t, []string{"local.jsonld: Invalid @context type"}, r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestStructural_Checks(t *testing.T) {
	r := evaluate(t, Structural, map[string]string{
		"bad.jsonld":   `{"@context": `,
		"empty.jsonld": `{"@context": [], "@id": "https://example.org/e", ` + fullMeta + `}`,
		"misc.jsonld": `{"@context": ["relative.jsonld", {"@version": 1.0}], "@id": "no iri here", "meta": {"title": "t"}, ` +
			`"@graph": {"@id": "ex:x"}}`,
		"types.jsonld": `{"@context": {"@version": 2}, "@id": "urn:t", ` + fullMeta + `, "@graph": [{"@id": "ex:a", "@type": "Module"}, {"@type": ["ex:A", "B"]}]}`,
	})

	assert.Contains(t, r.Errors, "bad.jsonld: JSON parsing error - unexpected EOF")
	assert.Contains(t, r.Errors, "empty.jsonld: Empty @context array")
	assert.Contains(t, r.Errors, "misc.jsonld: Missing meta field 'description'")
	assert.Contains(t, r.Errors, "misc.jsonld: Missing meta @id")
	assert.Contains(t, r.Errors, "misc.jsonld: Missing meta @type")
	assert.Contains(t, r.Errors, "misc.jsonld: @graph must be an array")
	assert.Contains(t, r.Errors, "misc.jsonld: Invalid IRI in @id")
	assert.Contains(t, r.Warnings, "misc.jsonld: Context URL should use HTTP(S) protocol")
	assert.Contains(t, r.Warnings, "types.jsonld: Recommended @version is 1.1")

	var typeWarnings int
	for _, w := range r.Warnings {
		if w == "types.jsonld: Non-IRI @type may affect SPARQL queries" {
			typeWarnings++
		}
	}
	assert.Equal(t, 2, typeWarnings)
}

func TestStructural_DuplicateIDs(t *testing.T) {
	p := profile(t, Structural)
	doc := `{"@context": {}, "@id": "urn:d", ` + fullMeta + `, "@graph": [{"@id": "ex:a"}, {"@id": "ex:b"}, {"@id": "ex:a"}]}`
	c := loadCorpus(t, map[string]string{"d.jsonld": doc})

	r := NewEvaluator(p).Evaluate(c)
	assert.Empty(t, r.Warnings, "duplicates are not reported unless enabled")

	p.WarnDuplicateIDs = true
	r = NewEvaluator(p).Evaluate(c)
	assert.Equal(t, []string{"d.jsonld: Duplicate @id ex:a (2 occurrences)"}, r.Warnings)
}

const principles = `{"@id": "dmag:Principles", "text": "modularencapsulation interfacesegregation dependencyinversion singleresponsibility openclosed-principle"}`

const kpiTargets = `"jjnhm": {"kpi-targets": {"module-cohesion": 0.9, "adapter-efficiency": 0.95, "service-creation-time": 100,
	"actor-concurrency-efficiency": 0.9, "resilience-recovery-time": 5, "coordination-latency": 50}}`

func TestArchitecture_PatternCatalog(t *testing.T) {
	r := evaluate(t, Architecture, map[string]string{
		"dmag.jsonld": `{"@context": {"dmag": "https://example.org/dmag#"}, ` + kpiTargets + `, "@graph": [
			{"@id": "dmag:ModulePattern", "@type": "dmag:Pattern"},
			{"@id": "dmag:AdapterPattern", "@type": "dmag:Pattern"},
			{"@id": "dmag:ServiceFactory", "@type": "dmag:Pattern"},
			{"@id": "dmag:ActorInstance", "@type": "dmag:Pattern"},
			` + principles + `
		]}`,
	})

	assert.Empty(t, r.Errors)
	assert.Equal(t, []string{
		"dmag.jsonld: Missing ResiliencePrimitive definition",
		"dmag.jsonld: Missing CoordinationPattern definition",
	}, r.Warnings)
	assert.Equal(t, 96, r.Score())
	assert.True(t, r.Passed())
}

func TestArchitecture_TargetFailures(t *testing.T) {
	r := evaluate(t, Architecture, map[string]string{"other.jsonld": `{}`})
	assert.Equal(t, []string{"Missing dmag.jsonld schema file"}, r.Errors)

	r = evaluate(t, Architecture, map[string]string{"dmag.jsonld": `{"@graph": [`})
	require.NotEmpty(t, r.Errors)
	assert.True(t, strings.HasPrefix(r.Errors[0], "dmag.jsonld: JSON parsing error - "))

	r = evaluate(t, Architecture, map[string]string{"dmag.jsonld": `{"meta": {}}`})
	assert.Equal(t, []string{"dmag.jsonld: Missing @context", "dmag.jsonld: Missing @graph"}, r.Errors)
	assert.Contains(t, r.Warnings, "DMAG governance metrics not found")
}

func TestArchitecture_KPIs(t *testing.T) {
	graph := `{"@id": "dmag:ModulePattern"}, {"@id": "dmag:AdapterPattern"}, {"@id": "dmag:ServiceFactory"},
		{"@id": "dmag:ActorInstance"}, {"@id": "dmag:ResiliencePrimitive"}, {"@id": "dmag:CoordinationPattern"}, ` + principles

	t.Run("targets object", func(t *testing.T) {
		r := evaluate(t, Architecture, map[string]string{
			"dmag.jsonld": `{"@context": {"dmag": "https://example.org/dmag#"}, "jjnhm": {"kpi-targets": {"module-cohesion": 0.9, "coordination-latency": 0}}, "@graph": [` + graph + `]}`,
		})
		assert.Equal(t, []string{
			"Missing DMAG KPI target: adapter-efficiency",
			"Missing DMAG KPI target: service-creation-time",
			"Missing DMAG KPI target: actor-concurrency-efficiency",
			"Missing DMAG KPI target: resilience-recovery-time",
			"Missing DMAG KPI target: coordination-latency",
		}, r.Warnings)
	})

	t.Run("governance entry", func(t *testing.T) {
		r := evaluate(t, Architecture, map[string]string{
			"dmag.jsonld": `{"@context": {"dmag": "https://example.org/dmag#"}, "@graph": [` + graph + `, {"@id": "dmag:GovernanceMetrics", "dmag:metrics": [
				{"dmag:name": "Module Cohesion"}, {"dmag:name": "Adapter Efficiency"}, {"dmag:name": "Service Creation Time"},
				{"dmag:name": "Actor Concurrency Efficiency"}, {"dmag:name": "Resilience Recovery Time"}]}]}`,
		})
		assert.Equal(t, []string{"Missing DMAG KPI metric: coordination-latency"}, r.Warnings)
	})

	t.Run("no container", func(t *testing.T) {
		r := evaluate(t, Architecture, map[string]string{
			"dmag.jsonld": `{"@context": {"dmag": "https://example.org/dmag#"}, "@graph": [` + graph + `]}`,
		})
		assert.Equal(t, []string{"DMAG governance metrics not found"}, r.Warnings)
	})
}

func TestArchitecture_EntryRulesAcrossCorpus(t *testing.T) {
	r := evaluate(t, Architecture, map[string]string{
		"dmag.jsonld": `{"@context": {"dmag": "https://example.org/dmag#"}, ` + kpiTargets + `, "@graph": [
			{"@id": "dmag:ModulePattern"}, {"@id": "dmag:AdapterPattern"}, {"@id": "dmag:ServiceFactory"},
			{"@id": "dmag:ActorInstance"}, {"@id": "dmag:ResiliencePrimitive"}, {"@id": "dmag:CoordinationPattern"}, ` + principles + `]}`,
		"parts/mod.jsonld": `{"@graph": [
			{"@id": "ex:m", "@type": "dmag:Module", "responsibilities": ["x"], "cohesion": "0.85"},
			{"@id": "ex:s", "@type": ["dmag:Service"], "factoryMethod": "new", "instanceManagement": "pool", "creationTime": "120ms"},
			{"@id": "ex:a", "@type": "dmag:Adapter", "sourceInterface": "a", "targetInterface": "b", "transformationLogic": "c", "efficiency": 0.99}
		]}`,
	})
	assert.Empty(t, r.Errors)
	assert.Equal(t, []string{
		"parts/mod.jsonld: Module missing interfaces definition",
		"parts/mod.jsonld: Module missing dependencies definition",
		"parts/mod.jsonld: Module cohesion below 90% threshold",
		"parts/mod.jsonld: Service creation time exceeds 100ms threshold",
	}, r.Warnings)
}

func TestArchitecture_LayerFileChecksAndPrinciples(t *testing.T) {
	r := evaluate(t, Architecture, map[string]string{
		"dmag.jsonld": `{"@context": {"dmag": "https://example.org/dmag#"}, ` + kpiTargets + `, "@graph": [
			{"@id": "dmag:ModulePattern"}, {"@id": "dmag:AdapterPattern"}, {"@id": "dmag:ServiceFactory"},
			{"@id": "dmag:ActorInstance"}, {"@id": "dmag:ResiliencePrimitive"}, {"@id": "dmag:CoordinationPattern"}]}`,
		"hbs.jsonld": `{"@graph": [{"@id": "hbs:x", "interfaces": ["i"]}]}`,
	})
	assert.Equal(t, []string{
		"hbs.jsonld: Missing modular design principles",
		"hbs.jsonld: Missing dependency management",
		"DMAG governance principles coverage: 0.0% (target: ≥80%)",
	}, r.Warnings)
}

func TestFlow(t *testing.T) {
	patterns := `{"@id": "flow:DataFlowPattern"}, {"@id": "flow:ControlFlowPattern"}, {"@id": "flow:StateFlowPattern"},
		{"@id": "flow:ErrorFlowPattern"}, {"@id": "flow:EventFlowPattern"}, {"@id": "flow:ResourceFlowPattern"},
		{"@id": "flow:TokenFlowPattern"}, {"@id": "flow:StreamingPattern"}, {"@id": "flow:PipelinePattern"}`

	r := evaluate(t, Flow, map[string]string{
		"flow.jsonld": `{"@context": {"flow": "https://example.org/flow#"}, "@graph": [` + patterns + `,
			{"@id": "flow:FlowGovernanceMetrics", "flow:metrics": []},
			{"@id": "flow:DataFlowAgent", "@type": "flow:Worker", "note": "dataprocessing and controllogic"},
			{"@id": "flow:x", "@type": "flow:ControlFlow", "conditions": ["c"], "branches": ["b"], "latency": 250}
		]}`,
	})

	assert.Empty(t, r.Errors)
	assert.Contains(t, r.Warnings, "flow.jsonld: Missing OrchestrationPattern definition")
	assert.Contains(t, r.Warnings, "flow.jsonld: Missing orchestration agent definitions")
	assert.Contains(t, r.Warnings, "Missing FLOW KPI metric: data-flow-efficiency")
	assert.Contains(t, r.Warnings, "flow.jsonld: ControlFlow latency exceeds 200ms threshold")
	assert.Contains(t, r.Warnings, "FLOW taxonomy coverage: 20.0% (target: ≥80%)")
	assert.Contains(t, r.Warnings, "Orchestration agent coverage: 11.1% (target: ≥70%)")
	assert.Contains(t, r.Warnings, "KPI targets coverage: 0.0% (target: ≥80%)")
	assert.False(t, r.Passed())
}

func TestFlow_KPITargetCoverage(t *testing.T) {
	var kpiCoverage []Coverage
	for _, cov := range profile(t, Flow).Coverage {
		if cov.Name == "KPI targets" {
			kpiCoverage = append(kpiCoverage, cov)
		}
	}
	require.Len(t, kpiCoverage, 1)
	p := Profile{Category: Flow, Coverage: kpiCoverage}

	files := map[string]string{}
	for i, kpi := range FlowKPIs[:8] {
		files[string(rune('a'+i))+".jsonld"] = `{"@graph": [{"@id": "ex:k", "target": "` + strings.Replace(kpi, "-", "", 1) + `"}]}`
	}
	r := NewEvaluator(p).Evaluate(loadCorpus(t, files))
	assert.Empty(t, r.Warnings, "8 of 10 targets is exactly the threshold")

	delete(files, "h.jsonld")
	r = NewEvaluator(p).Evaluate(loadCorpus(t, files))
	assert.Equal(t, []string{"KPI targets coverage: 70.0% (target: ≥80%)"}, r.Warnings)
	assert.Empty(t, r.Errors)
}

func TestFlow_TaxonomyCountsDistinctTermsAcrossFiles(t *testing.T) {
	p := Profile{
		Category: Flow,
		Coverage: []Coverage{{Name: "FLOW taxonomy", Terms: FlowTaxonomy, Match: MatchText, Min: 80}},
	}
	files := map[string]string{}
	for i, term := range FlowTaxonomy[:8] {
		files[filepath.Join("t", string(rune('a'+i))+".jsonld")] = `{"@graph": [{"@id": "ex:x", "label": "` + strings.ToUpper(strings.Replace(term, "-", "", 1)) + `"}]}`
	}
	r := NewEvaluator(p).Evaluate(loadCorpus(t, files))
	assert.Empty(t, r.Warnings, "8 of 10 terms is exactly the target")

	delete(files, filepath.Join("t", "a.jsonld"))
	r = NewEvaluator(p).Evaluate(loadCorpus(t, files))
	assert.Equal(t, []string{"FLOW taxonomy coverage: 70.0% (target: ≥80%)"}, r.Warnings)
}

func layerDoc(body string) string {
	return `{"@context": {"schema": "https://schema.org/"}, "meta": {"title": "x"}, ` + body + `}`
}

func fullLayers() map[string]string {
	return map[string]string{
		"jsonld.jsonld": layerDoc(`"links": "JDBL NQDS", "level": "C0-Foundation C1-MVP-Production", "@graph": []`),
		"jdbl.jsonld":   layerDoc(`"links": "NQDS HBS", "@graph": [{"directive": "d", "activeVerbs": ["run"]}]`),
		"nqds.jsonld":   layerDoc(`"links": "HBS MMD", "@graph": [{"payload": "p", "subject": "s"}]`),
		"hbs.jsonld":    layerDoc(`"links": "mmd", "@graph": [{"template": "t", "rendering": "r"}]`),
		"mmd.jsonld":    layerDoc(`"@graph": [{"mermaid": "m", "flowchart": "f"}]`),
	}
}

func TestIntegration_AllLayersClean(t *testing.T) {
	r := evaluate(t, Integration, fullLayers())
	assert.Empty(t, r.Errors)
	assert.Equal(t, []string{"JSONLD: Missing ontology definitions (@graph, classes, or properties)"}, r.Warnings,
		"an empty @graph is falsy for the ontology check")
}

func TestIntegration_MissingLayerIsTwoErrors(t *testing.T) {
	files := fullLayers()
	delete(files, "mmd.jsonld")

	r := evaluate(t, Integration, files)
	assert.Equal(t, []string{
		"Missing MMD layer schema: mmd.jsonld",
		"Incomplete JJNHM layer coverage: 80% (required: 100%)",
	}, r.Errors)
	assert.False(t, r.Passed())
}

func TestIntegration_LayerChecks(t *testing.T) {
	files := fullLayers()
	files["jsonld.jsonld"] = `{"@context": {"ex": "http://example.org/"}, "classes": ["c"]}`
	files["jdbl.jsonld"] = layerDoc(`"@graph": [{"orchestration": "o"}]`)

	r := evaluate(t, Integration, files)
	assert.Equal(t, []string{"JSONLD: Missing meta section"}, r.Errors)
	assert.Equal(t, []string{
		"JSONLD: Missing semantic web vocabulary references",
		"JDBL: Missing active verb definitions",
		"JSONLD: Missing integration with JDBL layer",
		"JSONLD: Missing integration with NQDS layer",
		"JDBL: Missing integration with NQDS layer",
		"JDBL: Missing integration with HBS layer",
		"JJNHM complexity levels coverage: 0.0% (target: ≥66%)",
	}, r.Warnings)
}

func TestIntegration_GovernanceIntegration(t *testing.T) {
	tests := []struct {
		name   string
		jjnhm  string
		errors []string
	}{
		{
			name:   "missing block",
			jjnhm:  `{"@context": {}}`,
			errors: []string{"jjnhm.jsonld: Missing governance integration"},
		},
		{
			name:   "empty block",
			jjnhm:  `{"governanceIntegration": {}}`,
			errors: []string{"jjnhm.jsonld: Missing governance integration"},
		},
		{
			name:   "flow missing",
			jjnhm:  `{"governanceIntegration": {"dmag": {"enabled": true}, "flow": ""}}`,
			errors: []string{"jjnhm.jsonld: Missing FLOW integration"},
		},
		{
			name:  "dmag and flow missing",
			jjnhm: `{"governanceIntegration": {"enhancedValidation": true}}`,
			errors: []string{
				"jjnhm.jsonld: Missing DMAG integration",
				"jjnhm.jsonld: Missing FLOW integration",
			},
		},
		{
			name:  "complete",
			jjnhm: `{"governanceIntegration": {"dmag": "dmag.jsonld", "flow": "flow.jsonld"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := fullLayers()
			files["jjnhm.jsonld"] = tt.jjnhm

			r := evaluate(t, Integration, files)
			assert.Equal(t, tt.errors, r.Errors)
		})
	}
}

type fakeProber struct {
	expand, triples map[string]error
}

func (p fakeProber) Expand(doc *document.Document) error    { return p.expand[doc.Path] }
func (p fakeProber) ToTriples(doc *document.Document) error { return p.triples[doc.Path] }

func TestSemantic(t *testing.T) {
	files := map[string]string{
		"a.jsonld": `{"@context": {"schema": "https://schema.org/"}, "@id": "https://example.org/a"}`,
		"b.jsonld": `{"@context": {"schema": "https://schema.org/", "ex": "http://example.org/"}, "@graph": [{"@id": "not an iri"}, {"@id": "plain"}, {"@id": "ex:fine"}]}`,
		"c.jsonld": `{"@id": "urn:c"}`,
		"d.jsonld": `not json`,
	}
	prober := fakeProber{
		expand:  map[string]error{"c.jsonld": errors.New("missing @context")},
		triples: map[string]error{"b.jsonld": errors.New("invalid IRI")},
	}

	r := evaluate(t, Semantic, files, WithProber(prober))
	assert.Equal(t, []string{
		"b.jsonld: RDF conversion failed - invalid IRI",
		"c.jsonld: JSON-LD expansion failed - missing @context",
	}, r.Errors)
	assert.Equal(t, []string{
		"b.jsonld: Invalid IRI in @id: not an iri",
		"b.jsonld: Invalid IRI in @id: plain",
		"c.jsonld: Missing semantic web vocabulary references",
	}, r.Warnings)
	assert.Equal(t, 74, r.Score())
	assert.False(t, r.Passed())
}

func TestSemantic_NoProberSkipsProbes(t *testing.T) {
	r := evaluate(t, Semantic, map[string]string{
		"a.jsonld": `{"@context": {"schema": "https://schema.org/"}, "@id": "https://example.org/a"}`,
	})
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestPerformance_Sizes(t *testing.T) {
	big := `{"pad":"` + strings.Repeat("a", 150*1024-10) + `"}`
	medium := "{\n" + strings.Repeat(" ", 20*1024) + `"pad": "` + strings.Repeat("b", 20*1024) + "\"\n}"

	r := evaluate(t, Performance, map[string]string{"big.jsonld": big, "medium.jsonld": medium})
	assert.Empty(t, r.Errors)
	assert.Equal(t, []string{
		"big.jsonld: Large file size (150KB)",
		"big.jsonld: Low compression ratio 100.0%",
		"Average file size 95.0KB exceeds target (50KB)",
	}, r.Warnings)
}

func TestPerformance_SmallCorpus(t *testing.T) {
	pretty := "{\n        \"a\": 1,\n        \"b\": 2\n}\n"
	r := evaluate(t, Performance, map[string]string{"p.jsonld": pretty, "bad.jsonld": "{"})
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
	assert.True(t, r.Passed())
}

// padded indents a compact document so it clears the compression check.
func padded(doc string) string {
	return "{" + strings.Repeat(" ", len(doc)) + doc[1:]
}

func TestPerformance_TokenDensityTargets(t *testing.T) {
	r := evaluate(t, Performance, map[string]string{
		"jjnhm.jsonld": padded(`{"jjnhm": {"kpiTargets": {"latency": 200}}}`),
		"flow.jsonld":  padded(`{"jjnhm": {"kpiTargets": {"tokenDensity": 6.5}}}`),
		"other.jsonld": padded(`{"@graph": []}`),
	})
	assert.Empty(t, r.Errors)
	assert.Equal(t, []string{"jjnhm.jsonld: Consider adding token density targets"}, r.Warnings)

	r = evaluate(t, Performance, map[string]string{
		"jjnhm.jsonld": padded(`{"@context": {}}`),
		"flow.jsonld":  padded(`{"@graph": []}`),
	})
	assert.Equal(t, []string{
		"jjnhm.jsonld: Consider adding token density targets",
		"flow.jsonld: Consider adding token density targets",
	}, r.Warnings)
	assert.Equal(t, 96, r.Score())
}

func TestEvaluate_ConcurrentMatchesSequential(t *testing.T) {
	files := fullLayers()
	files["dmag.jsonld"] = `{"@context": {}, "@graph": [{"@id": "dmag:ModulePattern", "@type": "dmag:Module"}]}`
	files["flow.jsonld"] = `{"@graph": [{"@id": "flow:x"}]}`
	c := loadCorpus(t, files)

	var evaluators []*Evaluator
	for _, p := range DefaultProfiles() {
		evaluators = append(evaluators, NewEvaluator(p, WithProber(fakeProber{})))
	}

	sequential := make([]Result, len(evaluators))
	for i, e := range evaluators {
		sequential[i] = e.Evaluate(c)
	}

	concurrent := make([]Result, len(evaluators))
	var wg sync.WaitGroup
	for i, e := range evaluators {
		wg.Add(1)
		go func(i int, e *Evaluator) {
			defer wg.Done()
			concurrent[i] = e.Evaluate(c)
		}(i, e)
	}
	wg.Wait()

	assert.Equal(t, sequential, concurrent)
}
