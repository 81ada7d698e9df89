// Package vocabulary holds the semantic-web namespaces semcheck knows about
// and the IRI shape heuristics used by the semantic readiness checks.
//
// Namespaces are used in two places:
//   - the semantic category warns when a document's @context does not mention
//     any known vocabulary (matched by substring, see Markers)
//   - the RDF export uses Prefixes to expand compact IRIs such as "dc:title"
//     when a document does not declare the prefix itself
//
// Nothing here dereferences IRIs. IsIRI is a shape check only.
package vocabulary
