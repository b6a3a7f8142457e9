// © Ben Garrett https://github.com/bengarrett/remime

// Package riff resolves the media type of RIFF containers, such as WAVE audio,
// AVI video and WebP images, using the form type of the first chunk.
package riff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bengarrett/remime/pkg/magic"
	"github.com/bengarrett/remime/pkg/magicdb"
	"github.com/bengarrett/remime/pkg/media"
)

// HeaderLen is the length in bytes of the RIFF header,
// a tag, the chunk size and the form type.
const HeaderLen = 12

// Tag is the "RIFF" tag read as a little-endian key.
const Tag uint32 = 0x46464952

var ErrInvalidSignatureLength = errors.New("riff record needs a four byte form type")

// Header is the leading chunk of a RIFF container.
type Header struct {
	Tag  uint32
	Size uint32 // Size is the chunk size and is not used for matching.
	Form uint32
}

// ParseHeader decodes the first HeaderLen bytes of b.
func ParseHeader(b []byte) (Header, bool) {
	if len(b) < HeaderLen {
		return Header{}, false
	}
	return Header{
		Tag:  binary.LittleEndian.Uint32(b[0:4]),
		Size: binary.LittleEndian.Uint32(b[4:8]),
		Form: binary.LittleEndian.Uint32(b[8:12]),
	}, true
}

// Resolver matches RIFF form types.
// Registration must be complete before the resolver is shared.
type Resolver struct {
	types []media.Type
	forms map[uint32]media.Type
	exts  map[string]media.Type
}

// New returns a resolver loaded with the embedded RIFF form database.
func New() (*Resolver, error) {
	r := &Resolver{}
	recs, err := magicdb.RIFF()
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if err := r.Register(rec); err != nil {
			return nil, fmt.Errorf("%s: %w", rec.Type, err)
		}
	}
	return r, nil
}

// Register adds the record to the resolver.
// Only the signatures that are exactly four bytes are used as form types,
// others are ignored. A record without any usable signature is rejected
// and nothing is registered.
func (r *Resolver) Register(rec magic.Record) error {
	var keys []uint32
	for _, sig := range rec.Signatures {
		if len(sig) != 4 {
			continue
		}
		keys = append(keys, binary.LittleEndian.Uint32(sig))
	}
	if len(keys) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSignatureLength, rec.Type)
	}
	if r.forms == nil {
		r.forms = make(map[uint32]media.Type)
		r.exts = make(map[string]media.Type)
	}
	r.types = append(r.types, rec.Type)
	for _, key := range keys {
		r.forms[key] = rec.Type
	}
	for _, ext := range rec.Exts() {
		r.exts[ext] = rec.Type
	}
	return nil
}

// Catalog returns the registered media types in the order they were added.
func (r *Resolver) Catalog() []media.Type {
	return append([]media.Type(nil), r.types...)
}

// Extension returns the media type of the case-sensitive file extension.
func (r *Resolver) Extension(ext string) (media.Type, bool) {
	t, ok := r.exts[ext]
	return t, ok
}

// Content returns the media type of the RIFF header at the start of b.
func (r *Resolver) Content(b []byte) (media.Type, bool) {
	h, ok := ParseHeader(b)
	if !ok || h.Tag != Tag {
		return media.Type{}, false
	}
	t, ok := r.forms[h.Form]
	return t, ok
}

// ReadContent reads the RIFF header from the current position of the reader.
// A reader with fewer than HeaderLen bytes is not a match.
func (r *Resolver) ReadContent(rd io.Reader) (media.Type, bool, error) {
	if rd == nil {
		return media.Type{}, false, nil
	}
	b := make([]byte, HeaderLen)
	n, err := io.ReadFull(rd, b)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return media.Type{}, false, err
	}
	t, ok := r.Content(b[:n])
	return t, ok, nil
}
