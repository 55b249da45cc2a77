// Package document defines the semi-structured input tree that path queries
// are evaluated against, along with the compiled PathQuery resolver.
package document

// Document represents one arbitrary input tree of maps, ordered lists and
// scalars (string/number/bool/null). It is the root for all path queries and
// is discarded once record assembly for it completes.
type Document map[string]any

// Value returns the raw value stored under a top-level field name, along with
// whether the field is present at all. A present-but-nil value reports true.
func (d Document) Value(field string) (any, bool) {
	v, ok := d[field]
	return v, ok
}
