package export

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/c360studio/semcheck/vocabulary"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// Write serializes triples to w. prefixes are used by Turtle only and are
// merged over the standard vocabulary prefixes.
func Write(w io.Writer, format Format, triples []Triple, prefixes map[string]string) error {
	var out string
	switch format {
	case FormatNTriples:
		nt := NewNTriplesWriter()
		for _, t := range triples {
			nt.WriteTriple(t)
		}
		out = nt.String()
	case FormatTurtle:
		tw := NewTurtleWriter()
		for p, iri := range prefixes {
			tw.SetPrefix(p, iri)
		}
		tw.WriteGraph(triples)
		out = tw.String()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	_, err := io.WriteString(w, out)
	return err
}

// TurtleWriter writes RDF in Turtle format.
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewTurtleWriter creates a new Turtle writer with default prefixes.
func NewTurtleWriter() *TurtleWriter {
	return &TurtleWriter{
		prefixes: vocabulary.Prefixes(),
	}
}

// SetPrefix sets a namespace prefix.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	w.prefixes[prefix] = iri
}

// WritePrefixes writes prefix declarations.
func (w *TurtleWriter) WritePrefixes() {
	// Sort prefixes for consistent output
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		w.sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, w.prefixes[prefix]))
	}
	w.sb.WriteString("\n")
}

// WriteGraph writes prefixes followed by one block per subject, in the
// order subjects first appear.
func (w *TurtleWriter) WriteGraph(triples []Triple) {
	w.WritePrefixes()

	var order []string
	bySubject := make(map[string][]Triple)
	for _, t := range triples {
		if _, seen := bySubject[t.Subject]; !seen {
			order = append(order, t.Subject)
		}
		bySubject[t.Subject] = append(bySubject[t.Subject], t)
	}

	for i, s := range order {
		group := bySubject[s]
		w.sb.WriteString(w.term(s) + "\n")
		for j, t := range group {
			w.writePredicate(t, j == len(group)-1)
		}
		if i < len(order)-1 {
			w.WriteBlank()
		}
	}
}

func (w *TurtleWriter) writePredicate(t Triple, last bool) {
	terminator := " ;"
	if last {
		terminator = " ."
	}
	pred := w.term(t.Predicate)
	if t.Predicate == vocabulary.RDFType {
		pred = "a"
	}
	w.sb.WriteString(fmt.Sprintf("    %s %s%s\n", pred, w.object(t.Object), terminator))
}

// WriteBlank writes a blank line for readability.
func (w *TurtleWriter) WriteBlank() {
	w.sb.WriteString("\n")
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

var localName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// term renders an IRI as a prefixed name when a declared prefix covers it.
func (w *TurtleWriter) term(iri string) string {
	if strings.HasPrefix(iri, "_:") {
		return iri
	}
	best := ""
	for p, ns := range w.prefixes {
		if !strings.HasPrefix(iri, ns) || !localName.MatchString(iri[len(ns):]) {
			continue
		}
		if best == "" || len(ns) > len(w.prefixes[best]) || (len(ns) == len(w.prefixes[best]) && p < best) {
			best = p
		}
	}
	if best != "" {
		return best + ":" + iri[len(w.prefixes[best]):]
	}
	return "<" + iri + ">"
}

func (w *TurtleWriter) object(obj any) string {
	switch v := obj.(type) {
	case IRI:
		return w.term(string(v))
	case Literal:
		return formatLiteral(v, w.term)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(fmt.Sprint(v)))
	}
}

// NTriplesWriter writes RDF in N-Triples format.
type NTriplesWriter struct {
	sb strings.Builder
}

// NewNTriplesWriter creates a new N-Triples writer.
func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

// WriteTriple writes a single triple.
func (w *NTriplesWriter) WriteTriple(t Triple) {
	w.sb.WriteString(fmt.Sprintf("%s %s %s .\n", ntTerm(t.Subject), ntTerm(t.Predicate), formatObjectNTriples(t.Object)))
}

// String returns the accumulated N-Triples output.
func (w *NTriplesWriter) String() string {
	return w.sb.String()
}

func ntTerm(iri string) string {
	if strings.HasPrefix(iri, "_:") {
		return iri
	}
	return "<" + iri + ">"
}

// formatObjectNTriples formats an object value for N-Triples output.
func formatObjectNTriples(obj any) string {
	switch v := obj.(type) {
	case IRI:
		return ntTerm(string(v))
	case Literal:
		return formatLiteral(v, ntTerm)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(fmt.Sprint(v)))
	}
}

func formatLiteral(l Literal, iri func(string) string) string {
	s := fmt.Sprintf("\"%s\"", escapeString(l.Value))
	switch {
	case l.Language != "":
		return s + "@" + l.Language
	case l.Datatype != "":
		return s + "^^" + iri(l.Datatype)
	default:
		return s
	}
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
