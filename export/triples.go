package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/c360studio/semcheck/document"
	"github.com/c360studio/semcheck/vocabulary"
)

// IRI is an object that names a resource rather than a literal value.
type IRI string

// Literal is a typed or language-tagged literal.
type Literal struct {
	Value    string
	Datatype string
	Language string
}

// Triple is one RDF statement. Object is an IRI or a Literal.
type Triple struct {
	Subject   string
	Predicate string
	Object    any
}

// Node is one expanded graph entry.
type Node struct {
	Subject    string
	Types      []string
	Properties map[string][]any
}

// Expand checks that doc has the shape a JSON-LD processor needs and resolves
// every entry's identifier, types and property names. Values are left raw.
func Expand(doc *document.Document) ([]Node, error) {
	raw, ok := doc.Context()
	if !ok {
		return nil, fmt.Errorf("missing @context")
	}
	ctx, err := ParseContext(raw)
	if err != nil {
		return nil, err
	}

	entries, err := graphEntries(doc)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(entries))
	for i, e := range entries {
		n := Node{Properties: make(map[string][]any)}
		if id, ok := e[document.FieldID].(string); ok {
			n.Subject, _ = ctx.ExpandIRI(id, false)
		}
		if n.Subject == "" {
			n.Subject = fmt.Sprintf("_:b%d", i)
		}
		for _, tag := range document.TypeTags(e) {
			if iri, ok := ctx.ExpandIRI(tag, true); ok {
				n.Types = append(n.Types, iri)
			}
		}
		for key, val := range e {
			if strings.HasPrefix(key, "@") {
				continue
			}
			pred, ok := ctx.ExpandIRI(key, true)
			if !ok {
				continue
			}
			n.Properties[pred] = append(n.Properties[pred], val)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// graphEntries returns the @graph entries, or the document itself when it has
// no @graph.
func graphEntries(doc *document.Document) ([]map[string]any, error) {
	raw, present := doc.Root[document.FieldGraph]
	if !present {
		return []map[string]any{doc.Root}, nil
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("@graph must be an array, got %T", raw)
	}
	out := make([]map[string]any, 0, len(seq))
	for i, item := range seq {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("@graph entry %d is not an object", i)
		}
		out = append(out, m)
	}
	return out, nil
}

// converter carries state for one ToTriples call.
type converter struct {
	ctx     *Context
	triples []Triple
	blank   int
}

// ToTriples converts doc to RDF triples. Terms the context does not define
// are dropped, as a JSON-LD processor would. A document without a usable
// @context therefore yields only what absolute IRIs can express.
func ToTriples(doc *document.Document) ([]Triple, error) {
	ctx := &Context{Terms: make(map[string]string)}
	if raw, ok := doc.Context(); ok {
		if parsed, err := ParseContext(raw); err == nil {
			ctx = parsed
		}
	}

	c := &converter{ctx: ctx}
	var entries []map[string]any
	if g, ok := doc.Root[document.FieldGraph].([]any); ok {
		for _, item := range g {
			if m, ok := item.(map[string]any); ok {
				entries = append(entries, m)
			}
		}
	} else {
		entries = []map[string]any{doc.Root}
	}

	for _, e := range entries {
		if _, err := c.node(e); err != nil {
			return nil, err
		}
	}
	return c.triples, nil
}

func (c *converter) newBlank() string {
	label := fmt.Sprintf("_:b%d", c.blank)
	c.blank++
	return label
}

// node emits the triples of one mapping and returns its subject.
func (c *converter) node(m map[string]any) (string, error) {
	subject, err := c.subject(m)
	if err != nil {
		return "", err
	}

	if t, present := m[document.FieldType]; present {
		types, err := typeValues(t)
		if err != nil {
			return "", err
		}
		for _, tag := range types {
			iri, ok := c.ctx.ExpandIRI(tag, true)
			if !ok {
				continue
			}
			if err := checkIRI(iri); err != nil {
				return "", err
			}
			c.triples = append(c.triples, Triple{Subject: subject, Predicate: vocabulary.RDFType, Object: IRI(iri)})
		}
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.HasPrefix(key, "@") {
			continue
		}
		pred, ok := c.ctx.ExpandIRI(key, true)
		if !ok || strings.HasPrefix(pred, "_:") {
			continue
		}
		if err := checkIRI(pred); err != nil {
			return "", err
		}
		if err := c.values(subject, pred, m[key]); err != nil {
			return "", err
		}
	}
	return subject, nil
}

func (c *converter) subject(m map[string]any) (string, error) {
	raw, present := m[document.FieldID]
	if !present {
		return c.newBlank(), nil
	}
	id, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("@id must be a string, got %T", raw)
	}
	iri, ok := c.ctx.ExpandIRI(id, false)
	if !ok {
		return c.newBlank(), nil
	}
	if err := checkIRI(iri); err != nil {
		return "", err
	}
	return iri, nil
}

func (c *converter) values(subject, pred string, v any) error {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		for _, item := range t {
			if err := c.values(subject, pred, item); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		obj, err := c.object(t)
		if err != nil {
			return err
		}
		if obj != nil {
			c.triples = append(c.triples, Triple{Subject: subject, Predicate: pred, Object: obj})
		}
		return nil
	default:
		c.triples = append(c.triples, Triple{Subject: subject, Predicate: pred, Object: scalarLiteral(t)})
		return nil
	}
}

// object converts a mapping value to a value object, a reference or a
// nested node.
func (c *converter) object(m map[string]any) (any, error) {
	if val, ok := m["@value"]; ok {
		if val == nil {
			return nil, nil
		}
		lit := scalarLiteral(val)
		if dt, ok := m[document.FieldType].(string); ok {
			iri, _ := c.ctx.ExpandIRI(dt, true)
			if iri == "" {
				iri = dt
			}
			lit.Datatype = iri
		}
		if lang, ok := m["@language"].(string); ok {
			lit.Language = lang
			lit.Datatype = ""
		}
		return lit, nil
	}
	if list, ok := m["@list"]; ok {
		return nil, fmt.Errorf("@list values are not supported (%d items)", len(asSlice(list)))
	}
	subject, err := c.node(m)
	if err != nil {
		return nil, err
	}
	return IRI(subject), nil
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return []any{v}
}

func typeValues(v any) ([]string, error) {
	switch t := v.(type) {
	case string:
		return []string{t}, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("@type values must be strings, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("@type must be a string or array, got %T", v)
	}
}

func checkIRI(iri string) error {
	if strings.HasPrefix(iri, "_:") {
		return nil
	}
	if strings.IndexFunc(iri, unicode.IsSpace) >= 0 {
		return fmt.Errorf("invalid IRI %q: contains whitespace", iri)
	}
	return nil
}

func scalarLiteral(v any) Literal {
	switch t := v.(type) {
	case string:
		return Literal{Value: t}
	case bool:
		return Literal{Value: fmt.Sprintf("%t", t), Datatype: vocabulary.XSD + "boolean"}
	case json.Number:
		s := t.String()
		if strings.ContainsAny(s, ".eE") {
			return Literal{Value: s, Datatype: vocabulary.XSD + "double"}
		}
		return Literal{Value: s, Datatype: vocabulary.XSD + "integer"}
	case float64:
		return Literal{Value: fmt.Sprintf("%g", t), Datatype: vocabulary.XSD + "double"}
	default:
		return Literal{Value: fmt.Sprint(t)}
	}
}
