// © Ben Garrett https://github.com/bengarrett/remime

// Package magic matches the leading bytes of a file against known
// magic number signatures to resolve its media type.
package magic

import (
	"errors"
	"io"

	"github.com/bengarrett/remime/pkg/media"
)

// Record associates a media type with its signatures and file extensions.
type Record struct {
	Type       media.Type
	Signatures []Signature
	Extensions []string // Extensions replace the Type extensions when not empty.
}

// Exts returns the file extensions of the record.
func (r Record) Exts() []string {
	if len(r.Extensions) > 0 {
		return r.Extensions
	}
	return r.Type.Extensions()
}

// Resolver looks up media types using a signature trie and an extension table.
//
// A Resolver must be fully registered before it is used for lookups,
// registering records while other goroutines are resolving is unsupported.
type Resolver struct {
	root   node
	types  []media.Type
	seen   map[string]struct{}
	exts   map[string]media.Type
	max    int
	policy Policy
}

type config struct {
	policy  Policy
	builtin bool
}

// Option configures a new Resolver.
type Option func(*config)

// WithPolicy sets the trie match policy, the default is Longest.
func WithPolicy(p Policy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithoutBuiltins skips the built-in image and container signatures.
func WithoutBuiltins() Option {
	return func(c *config) {
		c.builtin = false
	}
}

// New returns a resolver that is loaded with the built-in signatures.
func New(opts ...Option) *Resolver {
	c := config{policy: Longest, builtin: true}
	for _, opt := range opts {
		opt(&c)
	}
	r := &Resolver{
		seen:   make(map[string]struct{}),
		exts:   make(map[string]media.Type),
		policy: c.policy,
	}
	if c.builtin {
		r.Register(Images()...)
		r.Register(Containers()...)
	}
	return r
}

// Register adds the records to the resolver.
// Extensions that were previously registered are replaced by the later record.
// A record without signatures is only used for extension lookups.
func (r *Resolver) Register(recs ...Record) {
	if r.seen == nil {
		r.seen = make(map[string]struct{})
		r.exts = make(map[string]media.Type)
	}
	for i := range recs {
		rec := recs[i]
		if _, ok := r.seen[rec.Type.Full()]; !ok {
			r.seen[rec.Type.Full()] = struct{}{}
			r.types = append(r.types, rec.Type)
		}
		for _, sig := range rec.Signatures {
			if len(sig) == 0 {
				continue
			}
			r.root.insert(sig, &rec)
			r.max = max(r.max, len(sig))
		}
		for _, ext := range rec.Exts() {
			r.exts[ext] = rec.Type
		}
	}
}

// MaxLen returns the length of the longest registered signature.
func (r *Resolver) MaxLen() int {
	return r.max
}

// Policy returns the trie match policy in use.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// Catalog returns the registered media types in the order they were added.
func (r *Resolver) Catalog() []media.Type {
	return append([]media.Type(nil), r.types...)
}

// Extension returns the media type of the file extension,
// which should be without a leading dot. The lookup is case-sensitive.
func (r *Resolver) Extension(ext string) (media.Type, bool) {
	t, ok := r.exts[ext]
	return t, ok
}

// Content returns the media type matching the leading bytes of b.
func (r *Resolver) Content(b []byte) (media.Type, bool) {
	rec := r.root.lookup(b, r.policy)
	if rec == nil {
		return media.Type{}, false
	}
	return rec.Type, true
}

// ReadContent reads MaxLen bytes from the current position of the reader
// and returns the media type matching them. It does not seek.
// When the reader holds fewer bytes the remainder of the probe is zero filled
// and those zeros take part in the match.
func (r *Resolver) ReadContent(rd io.Reader) (media.Type, bool, error) {
	if rd == nil || r.max == 0 {
		return media.Type{}, false, nil
	}
	probe := make([]byte, r.max)
	if _, err := io.ReadFull(rd, probe); err != nil &&
		!errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return media.Type{}, false, err
	}
	t, ok := r.Content(probe)
	return t, ok, nil
}
