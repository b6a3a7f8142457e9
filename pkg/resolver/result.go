// © Ben Garrett https://github.com/bengarrett/remime
package resolver

// Result is the provenance of a combined media type resolution.
type Result uint8

const (
	// None means nothing matched and the type is the octet-stream fallback.
	None Result = 0
	// Extension means the file name extension matched.
	Extension Result = 1 << 0
	// Content means the leading bytes of the content matched.
	Content Result = 1 << 1
)

// Has reports whether all the flags of f are set.
func (r Result) Has(f Result) bool {
	return r&f == f
}

// String returns the two character flags, e for an extension match
// followed by c for a content match, or a dash for each miss.
func (r Result) String() string {
	b := []byte("--")
	if r.Has(Extension) {
		b[0] = 'e'
	}
	if r.Has(Content) {
		b[1] = 'c'
	}
	return string(b)
}
