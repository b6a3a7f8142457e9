// © Ben Garrett https://github.com/bengarrett/remime

// Package sniff is a deep content resolver that uses the matchers of the
// h2non/filetype library. Some of its matchers look past the leading bytes,
// so it is slower than the signature resolvers and is only used on request.
package sniff

import (
	"errors"
	"io"
	"slices"

	"github.com/bengarrett/remime/pkg/media"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

// Probe is the number of bytes read from a stream, it matches the
// length used by the filetype library.
const Probe = 8192

// Resolver matches content using the filetype library.
type Resolver struct {
	types []media.Type
	exts  map[string]media.Type
}

// New returns a resolver for the media types known to the filetype library.
func New() *Resolver {
	r := &Resolver{exts: make(map[string]media.Type)}
	mimes := map[string]string{}
	types.Types.Range(func(k, v any) bool {
		ext, ok := k.(string)
		if !ok {
			return true
		}
		if kind, ok := v.(types.Type); ok {
			mimes[ext] = kind.MIME.Value
		}
		return true
	})
	keys := make([]string, 0, len(mimes))
	for ext := range mimes {
		keys = append(keys, ext)
	}
	slices.Sort(keys)
	var order []string
	group := map[string][]string{}
	for _, ext := range keys {
		mime := mimes[ext]
		if mime == "" || ext == "" {
			continue
		}
		if _, ok := group[mime]; !ok {
			order = append(order, mime)
		}
		group[mime] = append(group[mime], ext)
	}
	for _, mime := range order {
		typ, err := media.New(mime, group[mime]...)
		if err != nil {
			continue
		}
		r.types = append(r.types, typ)
		for _, ext := range group[mime] {
			r.exts[ext] = typ
		}
	}
	return r
}

// Catalog returns the supported media types sorted by their first extension.
func (r *Resolver) Catalog() []media.Type {
	return append([]media.Type(nil), r.types...)
}

// Extension returns the media type of the file extension.
func (r *Resolver) Extension(ext string) (media.Type, bool) {
	t, ok := r.exts[ext]
	return t, ok
}

// Content returns the media type that the filetype matchers find in b.
func (r *Resolver) Content(b []byte) (media.Type, bool) {
	kind, err := filetype.Match(b)
	if err != nil || kind == filetype.Unknown || kind.MIME.Value == "" {
		return media.Type{}, false
	}
	if t, ok := r.exts[kind.Extension]; ok {
		return t, true
	}
	t, err := media.New(kind.MIME.Value, kind.Extension)
	if err != nil {
		return media.Type{}, false
	}
	return t, true
}

// ReadContent reads up to Probe bytes from the current position of the reader
// and returns the media type that the filetype matchers find in them.
func (r *Resolver) ReadContent(rd io.Reader) (media.Type, bool, error) {
	if rd == nil {
		return media.Type{}, false, nil
	}
	b := make([]byte, Probe)
	n, err := io.ReadFull(rd, b)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return media.Type{}, false, err
	}
	t, ok := r.Content(b[:n])
	return t, ok, nil
}
