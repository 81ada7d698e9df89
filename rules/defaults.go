package rules

import "github.com/c360studio/semcheck/vocabulary"

// Built-in layer and governance catalogs.
var (
	ArchitecturePatterns = []string{
		"ModulePattern",
		"AdapterPattern",
		"ServiceFactory",
		"ActorInstance",
		"ResiliencePrimitive",
		"CoordinationPattern",
	}

	ArchitectureKPIs = []string{
		"module-cohesion",
		"adapter-efficiency",
		"service-creation-time",
		"actor-concurrency-efficiency",
		"resilience-recovery-time",
		"coordination-latency",
	}

	GovernancePrinciples = []string{
		"modular-encapsulation",
		"interface-segregation",
		"dependency-inversion",
		"single-responsibility",
		"open-closed-principle",
	}

	FlowPatterns = []string{
		"DataFlowPattern",
		"ControlFlowPattern",
		"StateFlowPattern",
		"ErrorFlowPattern",
		"EventFlowPattern",
		"ResourceFlowPattern",
		"TokenFlowPattern",
		"StreamingPattern",
		"PipelinePattern",
		"OrchestrationPattern",
	}

	FlowKPIs = []string{
		"data-flow-efficiency",
		"control-flow-latency",
		"state-transition-reliability",
		"error-recovery-success-rate",
		"event-processing-throughput",
		"resource-utilization-efficiency",
		"token-density",
		"streaming-throughput",
		"pipeline-efficiency",
		"orchestration-success-rate",
	}

	FlowTaxonomy = []string{
		"data-processing",
		"control-logic",
		"state-management",
		"error-handling",
		"event-coordination",
		"resource-allocation",
		"semantic-optimization",
		"streaming-processing",
		"pipeline-orchestration",
		"workflow-coordination",
	}

	OrchestrationAgents = []string{
		"DataFlowAgent",
		"ControlFlowAgent",
		"StateFlowAgent",
		"EventFlowAgent",
		"ResourceFlowAgent",
		"TokenFlowAgent",
		"StreamingAgent",
		"PipelineAgent",
		"OrchestrationAgent",
	}

	ComplexityLevels = []string{"C0-Foundation", "C1-MVP-Production", "C2-Enterprise-Scale"}
)

// JJNHMFile is the corpus manifest that declares governance integration.
const JJNHMFile = "jjnhm.jsonld"

// LayerFiles returns the file names of the built-in layers, in order.
func LayerFiles() []string {
	var out []string
	for _, l := range defaultLayers() {
		out = append(out, l.File)
	}
	return out
}

func defaultLayers() []Layer {
	return []Layer{
		{
			Name: "JSONLD",
			File: "jsonld.jsonld",
			Requires: []Requirement{
				{Scope: ScopeDocument, AnyOf: []string{"@graph", "classes", "properties"}, Message: "Missing ontology definitions (@graph, classes, or properties)"},
				{Scope: ScopeContext, AnyOf: []string{"schema.org", "w3.org", "dublin"}, Message: "Missing semantic web vocabulary references"},
			},
		},
		{
			Name: "JDBL",
			File: "jdbl.jsonld",
			Requires: []Requirement{
				{AnyOf: []string{"directive", "active-verbs", "orchestration"}, Message: "Missing directive orchestration structures"},
				{AnyOf: []string{"active-verbs", "activeVerbs"}, Message: "Missing active verb definitions"},
			},
		},
		{
			Name: "NQDS",
			File: "nqds.jsonld",
			Requires: []Requirement{
				{AnyOf: []string{"semanticGraph", "knowledgeGraph", "payload"}, Message: "Missing semantic payload structures"},
				{AnyOf: []string{"subject", "predicate", "object", "graph"}, Message: "Missing N-Quads compatible structures"},
			},
		},
		{
			Name: "HBS",
			File: "hbs.jsonld",
			Requires: []Requirement{
				{AnyOf: []string{"template", "handlebars", "mustache"}, Message: "Missing template definitions"},
				{AnyOf: []string{"rendering", "generation", "output"}, Message: "Missing rendering capability definitions"},
			},
		},
		{
			Name: "MMD",
			File: "mmd.jsonld",
			Requires: []Requirement{
				{AnyOf: []string{"mermaid", "diagram", "visualization"}, Message: "Missing visualization definitions"},
				{AnyOf: []string{"flowchart", "sequence", "graph", "gantt"}, Message: "Missing diagram type definitions"},
			},
		},
	}
}

// DefaultProfiles returns the six built-in category profiles. Weights sum to 1.
func DefaultProfiles() Profiles {
	layerFiles := LayerFiles()

	return Profiles{
		{
			Category:       Structural,
			Title:          "JSON-LD Syntax and Structure",
			Label:          "JSON-LD",
			Threshold:      0,
			Weight:         0.20,
			RecommendBelow: 90,
			Recommendation: "Improve JSON-LD syntax and structure compliance",
			RequiredFields: []string{"@context", "@id", "meta"},
			MetaFields:     []string{"title", "description", "versionInfo", "license", "creator"},
			ContextChecks:  true,
		},
		{
			Category:       Architecture,
			Title:          "DMAG Architecture",
			Label:          "DMAG",
			Threshold:      95,
			Weight:         0.20,
			RecommendBelow: 95,
			Recommendation: "Enhance DMAG architecture pattern implementation",
			Target:         "dmag.jsonld",
			RequiredFields: []string{"@context", "@graph"},
			Patterns:       ArchitecturePatterns,
			KPIs: &KPISpec{
				Names:           ArchitectureKPIs,
				Path:            []string{"jjnhm", "kpi-targets"},
				GovernanceEntry: "dmag:GovernanceMetrics",
				MetricsField:    "dmag:metrics",
				NameField:       "dmag:name",
				NotFound:        "DMAG governance metrics not found",
			},
			EntryRules: []EntryRule{
				{
					Type:     "Module",
					Required: []string{"responsibilities", "interfaces", "dependencies"},
					Metrics:  []MetricRule{{Field: "cohesion", Limit: 0.9, Message: "Module cohesion below 90% threshold"}},
				},
				{
					Type:     "Adapter",
					Required: []string{"sourceInterface", "targetInterface", "transformationLogic"},
					Metrics:  []MetricRule{{Field: "efficiency", Limit: 0.95, Message: "Adapter efficiency below 95% threshold"}},
				},
				{
					Type:     "Service",
					Required: []string{"factoryMethod", "instanceManagement"},
					Metrics:  []MetricRule{{Field: "creationTime", Limit: 100, Upper: true, Message: "Service creation time exceeds 100ms threshold"}},
				},
			},
			FileChecks: []FileCheck{{
				Files: layerFiles,
				Requires: []Requirement{
					{AnyOf: []string{"modularDesign", "modularity"}, Message: "Missing modular design principles"},
					{AnyOf: []string{"interfaces", "interface"}, Message: "Missing interface definitions"},
					{AnyOf: []string{"dependencies", "dependencyManagement"}, Message: "Missing dependency management"},
				},
			}},
			Coverage: []Coverage{
				{Name: "DMAG governance principles", Terms: GovernancePrinciples, Match: MatchText, Min: 80},
			},
		},
		{
			Category:       Flow,
			Title:          "FLOW Governance",
			Label:          "FLOW",
			Threshold:      93,
			Weight:         0.20,
			RecommendBelow: 93,
			Recommendation: "Strengthen FLOW governance pattern coverage",
			Target:         "flow.jsonld",
			RequiredFields: []string{"@context", "@graph"},
			Patterns:       FlowPatterns,
			AgentType:      "Agent",
			KPIs: &KPISpec{
				Names:           FlowKPIs,
				Path:            []string{"jjnhm", "kpi-targets"},
				GovernanceEntry: "flow:FlowGovernanceMetrics",
				MetricsField:    "flow:metrics",
				NameField:       "flow:name",
				NotFound:        "FLOW KPI targets not found",
			},
			EntryRules: []EntryRule{
				{
					Type:     "DataFlow",
					Required: []string{"source", "target", "transformation"},
					Metrics:  []MetricRule{{Field: "efficiency", Limit: 92, Message: "DataFlow efficiency below 92% threshold"}},
				},
				{
					Type:     "ControlFlow",
					Required: []string{"conditions", "branches"},
					Metrics:  []MetricRule{{Field: "latency", Limit: 200, Upper: true, Message: "ControlFlow latency exceeds 200ms threshold"}},
				},
				{
					Type:     "StateFlow",
					Required: []string{"states", "transitions"},
					Metrics:  []MetricRule{{Field: "reliability", Limit: 99.5, Message: "StateFlow reliability below 99.5% threshold"}},
				},
				{
					Type:     "EventFlow",
					Required: []string{"publishers", "subscribers"},
					Metrics:  []MetricRule{{Field: "throughput", Limit: 1000, Message: "EventFlow throughput below 1000 events/sec threshold"}},
				},
				{
					Type:     "TokenFlow",
					Required: []string{"tokenization", "semanticDensity"},
					Metrics:  []MetricRule{{Field: "density", Limit: 6.5, Message: "TokenFlow density below 6.5 concepts/token threshold"}},
				},
			},
			Coverage: []Coverage{
				{Name: "FLOW taxonomy", Terms: FlowTaxonomy, Match: MatchText, Min: 80},
				{Name: "KPI targets", Terms: FlowKPIs, Match: MatchText, Min: 80},
				{Name: "Orchestration agent", Terms: OrchestrationAgents, Match: MatchID, Min: 70},
			},
		},
		{
			Category:       Integration,
			Title:          "JJNHM Integration",
			Label:          "JJNHM",
			Threshold:      96,
			Weight:         0.25,
			RecommendBelow: 96,
			Recommendation: "Improve JJNHM layer integration and compliance",
			RequiredFields: []string{"@context", "meta"},
			Layers:         defaultLayers(),
			Links: []Link{
				{From: "JSONLD", To: []string{"JDBL", "NQDS"}},
				{From: "JDBL", To: []string{"NQDS", "HBS"}},
				{From: "NQDS", To: []string{"HBS", "MMD"}},
				{From: "HBS", To: []string{"MMD"}},
				{From: "MMD"},
			},
			FileChecks: []FileCheck{
				{
					Files: []string{JJNHMFile},
					Requires: []Requirement{
						{Scope: ScopePath, AnyOf: []string{"governanceIntegration"}, Error: true, Message: "Missing governance integration"},
					},
				},
				{
					Files: []string{JJNHMFile},
					When:  []string{"governanceIntegration"},
					Requires: []Requirement{
						{Scope: ScopePath, Path: []string{"governanceIntegration"}, AnyOf: []string{"dmag"}, Error: true, Message: "Missing DMAG integration"},
						{Scope: ScopePath, Path: []string{"governanceIntegration"}, AnyOf: []string{"flow"}, Error: true, Message: "Missing FLOW integration"},
					},
				},
			},
			Coverage: []Coverage{
				{Name: "JJNHM complexity levels", Terms: ComplexityLevels, Match: MatchDocument, Min: 66},
			},
		},
		{
			Category:       Semantic,
			Title:          "Semantic Web Compatibility",
			Label:          "Semantic Web",
			Threshold:      0,
			Weight:         0.10,
			RecommendBelow: 97,
			Recommendation: "Enhance semantic web compatibility and RDF readiness",
			Probes:         true,
			Vocabularies:   vocabulary.Markers,
			CheckIRIs:      true,
		},
		{
			Category:       Performance,
			Title:          "Performance Optimization",
			Label:          "Performance",
			Threshold:      92,
			Weight:         0.05,
			RecommendBelow: 90,
			Recommendation: "Optimize schema performance and file sizes",
			SizeLimits: &SizeLimits{
				MaxFileBytes:    100 * 1024,
				MaxAverageBytes: 50 * 1024,
				MaxCompactRatio: 0.8,
			},
			FileChecks: []FileCheck{{
				Files: []string{JJNHMFile, "flow.jsonld"},
				Requires: []Requirement{
					{Scope: ScopePath, Path: []string{"jjnhm", "kpiTargets"}, AnyOf: []string{"tokenDensity"}, Message: "Consider adding token density targets"},
				},
			}},
		},
	}
}
