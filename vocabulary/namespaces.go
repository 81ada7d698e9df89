package vocabulary

// Standard namespace IRIs.
const (
	RDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS    = "http://www.w3.org/2000/01/rdf-schema#"
	OWL     = "http://www.w3.org/2002/07/owl#"
	XSD     = "http://www.w3.org/2001/XMLSchema#"
	DCTerms = "http://purl.org/dc/terms/"
	SKOS    = "http://www.w3.org/2004/02/skos/core#"
	PROV    = "http://www.w3.org/ns/prov#"
	Schema  = "https://schema.org/"
)

// RDFType is the rdf:type predicate IRI.
const RDFType = RDF + "type"

// Markers are the substrings that identify a reference to an external
// vocabulary inside a serialized @context.
var Markers = []string{
	"schema.org",
	"w3.org",
	"dublin",
	"purl.org/dc",
}

// Prefixes returns the default prefix table used when expanding compact IRIs.
// The returned map is a fresh copy and may be modified by the caller.
func Prefixes() map[string]string {
	return map[string]string{
		"rdf":     RDF,
		"rdfs":    RDFS,
		"owl":     OWL,
		"xsd":     XSD,
		"dc":      DCTerms,
		"dcterms": DCTerms,
		"skos":    SKOS,
		"prov":    PROV,
		"schema":  Schema,
	}
}
