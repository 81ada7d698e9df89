package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "@context": {"schema": "https://schema.org/"},
  "@id": "https://example.org/dmag",
  "meta": {"title": "DMAG", "version": 3.0},
  "@graph": [
    {"@id": "dmag:ModulePattern", "@type": "dmag:Pattern"},
    {"@id": "dmag:Agent", "@type": ["dmag:Agent", "prov:Agent"]},
    "stray"
  ]
}`

func TestParse(t *testing.T) {
	doc, err := Parse("dmag.jsonld", []byte(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "https://example.org/dmag", doc.ID())
	assert.True(t, doc.Has(FieldContext))
	assert.False(t, doc.Has("missing"))

	meta, ok := doc.Meta()
	require.True(t, ok)
	assert.Equal(t, "DMAG", meta["title"])
	assert.Equal(t, json.Number("3.0"), meta["version"])

	g, ok := doc.Graph()
	require.True(t, ok)
	assert.Len(t, g, 3)
	assert.Len(t, doc.Entries(), 2)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("bad.jsonld", []byte(`{"@context": `))
	assert.Error(t, err)

	_, err = Parse("array.jsonld", []byte(`[1, 2]`))
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = Parse("trailing.jsonld", []byte(`{} {}`))
	assert.Error(t, err)
}

func TestTypeTags(t *testing.T) {
	assert.Equal(t, []string{"a"}, TypeTags(map[string]any{"@type": "a"}))
	assert.Equal(t, []string{"a", "b"}, TypeTags(map[string]any{"@type": []any{"a", 3, "b"}}))
	assert.Nil(t, TypeTags(map[string]any{"@type": 7}))
	assert.Nil(t, TypeTags(map[string]any{}))

	assert.True(t, HasTypeContaining(map[string]any{"@type": []any{"flow:OrchestrationAgent"}}, "Agent"))
	assert.False(t, HasTypeContaining(map[string]any{"@type": "flow:Pattern"}, "Agent"))
}

func TestIdentifierOf(t *testing.T) {
	id, ok := IdentifierOf(map[string]any{"@id": "x:y"})
	assert.True(t, ok)
	assert.Equal(t, "x:y", id)

	_, ok = IdentifierOf(map[string]any{"@id": ""})
	assert.False(t, ok)

	_, ok = IdentifierOf(map[string]any{"@id": 12})
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	doc, err := Parse("x", []byte(`{"jjnhm": {"kpi-targets": {"module-cohesion": 0.9}}}`))
	require.NoError(t, err)

	v, ok := doc.Lookup("jjnhm", "kpi-targets")
	require.True(t, ok)
	assert.Contains(t, v, "module-cohesion")

	_, ok = doc.Lookup("jjnhm", "missing")
	assert.False(t, ok)
	_, ok = doc.Lookup("jjnhm", "kpi-targets", "module-cohesion", "deeper")
	assert.False(t, ok)
}

func TestFlatten(t *testing.T) {
	assert.Equal(t, `{"a":"<b>","n":1}`, Flatten(map[string]any{"n": json.Number("1"), "a": "<b>"}))
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy(false))
	assert.False(t, Truthy(json.Number("0")))
	assert.True(t, Truthy(json.Number("0.5")))
	assert.False(t, Truthy([]any{}))
	assert.False(t, Truthy(map[string]any{}))
	assert.True(t, Truthy([]any{nil}))
	assert.True(t, Truthy(map[string]any{"a": nil}))
	assert.True(t, Truthy("x"))
}
