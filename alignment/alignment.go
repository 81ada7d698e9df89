// Package alignment collects identifier sets from documents and measures how
// far two corpora agree on them.
package alignment

import (
	"math"
	"sort"

	"github.com/c360studio/semcheck/corpus"
	"github.com/c360studio/semcheck/document"
)

// Set is a set of identifiers. Duplicates collapse.
type Set map[string]struct{}

// NewSet returns a set holding ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id.
func (s Set) Add(id string) { s[id] = struct{}{} }

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of identifiers.
func (s Set) Len() int { return len(s) }

// Merge adds every member of o.
func (s Set) Merge(o Set) {
	for id := range o {
		s[id] = struct{}{}
	}
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Collect returns every identifier found in a mapping anywhere in v.
// Traversal continues below a mapping whether or not it carries one.
func Collect(v any) Set {
	s := make(Set)
	collect(v, s)
	return s
}

func collect(v any, s Set) {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			collect(item, s)
		}
	case map[string]any:
		if id, ok := document.IdentifierOf(t); ok {
			s.Add(id)
		}
		for _, val := range t {
			collect(val, s)
		}
	}
}

// CollectCorpus returns the union of identifiers over every parsed file.
func CollectCorpus(c *corpus.Corpus) Set {
	s := make(Set)
	for _, f := range c.Parsed() {
		collect(f.Doc.Root, s)
	}
	return s
}

// Comparison is the overlap between two identifier sets.
type Comparison struct {
	Union        Set
	Intersection Set

	// GlobalAlignment is |A∩B| / |A∪B| as a percentage.
	GlobalAlignment float64

	// SystemicAlignment is |A∩B| / |B|: how much of B exists in A.
	SystemicAlignment float64
}

// Compare measures the overlap of a and b. The result is asymmetric in
// SystemicAlignment; b is the corpus whose coverage is measured.
func Compare(a, b Set) Comparison {
	union := make(Set, len(a)+len(b))
	union.Merge(a)
	union.Merge(b)

	inter := make(Set)
	for id := range a {
		if b.Has(id) {
			inter.Add(id)
		}
	}

	return Comparison{
		Union:             union,
		Intersection:      inter,
		GlobalAlignment:   Percent(len(inter), len(union)),
		SystemicAlignment: Percent(len(inter), len(b)),
	}
}

// Percent returns 100·n/d rounded to two decimals, or 100 when d is zero.
func Percent(n, d int) float64 {
	if d == 0 {
		return 100
	}
	return math.Round(float64(n)/float64(d)*10000) / 100
}
