package rules

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned when a category has no profile.
var ErrUnknownCategory = errors.New("unknown rule category")

// Profile configures one category. Every non-empty field enables one check,
// so the six built-in categories differ only in data.
type Profile struct {
	Category Category
	Title    string
	// Label is the short name used in coverage and KPI messages.
	Label string

	Threshold      int
	Weight         float64
	RecommendBelow int
	Recommendation string

	// RequiredFields are top-level fields that must be present. They apply to
	// every file, to Target when set, or to every layer file when Layers is set.
	RequiredFields []string
	// MetaFields must be present in the meta block of every file.
	MetaFields []string
	// ContextChecks enables @context, @graph, @version and identifier syntax checks.
	ContextChecks    bool
	WarnDuplicateIDs bool

	// Target is the designated file, relative to the corpus root.
	Target string
	// Patterns must each occur as a substring of some Target entry identifier.
	Patterns []string
	KPIs     *KPISpec
	// AgentType requires at least one Target entry whose type contains it.
	AgentType string

	EntryRules []EntryRule
	FileChecks []FileCheck
	Coverage   []Coverage
	Layers     []Layer
	Links      []Link
	Probes     bool
	// Vocabularies are markers one of which the @context must mention.
	Vocabularies []string
	CheckIRIs    bool
	SizeLimits   *SizeLimits
}

// KPISpec lists named numeric targets looked up either in a top-level object
// (Path) or in the metrics list of a governance entry.
type KPISpec struct {
	Names           []string
	Path            []string
	GovernanceEntry string
	MetricsField    string
	NameField       string
	// NotFound is reported when neither container exists.
	NotFound string
}

// EntryRule checks graph entries whose type contains Type.
type EntryRule struct {
	Type     string
	Required []string
	Metrics  []MetricRule
}

// MetricRule warns when a numeric property is below Limit, or above it when
// Upper is set. Absent or non-numeric values are ignored.
type MetricRule struct {
	Field   string
	Limit   float64
	Upper   bool
	Message string
}

// Scope selects what a Requirement inspects.
type Scope string

const (
	// ScopeEntries passes when any @graph entry has one of the properties.
	// Documents without @graph are not checked.
	ScopeEntries Scope = "entries"
	// ScopeDocument passes when the document has one of the top-level fields.
	ScopeDocument Scope = "document"
	// ScopeContext passes when the serialized @context contains one of the
	// substrings. Documents without @context are not checked.
	ScopeContext Scope = "context"
	// ScopePath passes when the object at Path has one of the fields set to
	// a truthy value. A missing path fails. An empty Path is the document.
	ScopePath Scope = "path"
)

// Requirement is a presence check. A failed check reports Message as a
// warning, or as an error when Error is set.
type Requirement struct {
	Scope   Scope
	Path    []string
	AnyOf   []string
	Message string
	Error   bool
}

// FileCheck applies requirements to named files that are present. When set,
// When limits the check to files with a truthy value at that path.
type FileCheck struct {
	Files    []string
	When     []string
	Requires []Requirement
}

// MatchMode selects how coverage terms are matched.
type MatchMode string

const (
	// MatchText searches each entry's lowercase serialization for the term
	// with its first hyphen removed.
	MatchText MatchMode = "text"
	// MatchID searches entry identifiers for the term.
	MatchID MatchMode = "id"
	// MatchDocument searches each whole document's serialization for the term.
	MatchDocument MatchMode = "document"
)

// Coverage is the share of Terms found anywhere in the corpus. It warns when
// the share is below Min percent.
type Coverage struct {
	Name  string
	Terms []string
	Match MatchMode
	Min   float64
}

// Layer is one required layer file.
type Layer struct {
	Name     string
	File     string
	Requires []Requirement
}

// Link requires layer From to mention each layer in To.
type Link struct {
	From string
	To   []string
}

// SizeLimits bounds file sizes. Zero values disable a limit.
type SizeLimits struct {
	MaxFileBytes    int64
	MaxAverageBytes int64
	MaxCompactRatio float64
}

// Profiles is an ordered set of category profiles.
type Profiles []Profile

// Lookup returns the profile for category.
func (ps Profiles) Lookup(category Category) (Profile, error) {
	for _, p := range ps {
		if p.Category == category {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
}

// Weights returns the category weights.
func (ps Profiles) Weights() map[Category]float64 {
	out := make(map[Category]float64, len(ps))
	for _, p := range ps {
		out[p.Category] = p.Weight
	}
	return out
}

// ParseCategory validates a category name against the built-in set.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCategory, s)
}
