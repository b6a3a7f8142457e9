// © Ben Garrett https://github.com/bengarrett/remime
package magic

// Policy is the match strategy used by a trie lookup.
type Policy uint

const (
	// Longest returns the deepest record found along the walk, falling back to the
	// nearest matched ancestor when the walk runs out of children or input bytes.
	Longest Policy = iota
	// Exact stops at the first missing child and only returns a record
	// if the node reached at that point is itself a terminal.
	Exact
)

func (p Policy) String() string {
	switch p {
	case Longest:
		return "longest"
	case Exact:
		return "exact"
	}
	return "unknown"
}

// node is a byte-keyed prefix tree.
// It is built once and then only read, so lookups need no locking.
type node struct {
	rec  *Record
	next map[byte]*node
}

func (n *node) insert(sig Signature, rec *Record) {
	cur := n
	for _, b := range sig {
		if cur.next == nil {
			cur.next = make(map[byte]*node)
		}
		child, ok := cur.next[b]
		if !ok {
			child = &node{}
			cur.next[b] = child
		}
		cur = child
	}
	cur.rec = rec
}

func (n *node) lookup(b []byte, p Policy) *Record {
	cur := n
	var found *Record
	for _, c := range b {
		child, ok := cur.next[c]
		if !ok {
			if p == Exact {
				return cur.rec
			}
			return found
		}
		cur = child
		if cur.rec != nil {
			found = cur.rec
		}
	}
	if p == Exact {
		return cur.rec
	}
	return found
}
