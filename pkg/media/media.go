// © Ben Garrett https://github.com/bengarrett/remime

// Package media describes IANA media types, such as image/png or
// application/vnd.ms-excel, along with their common file extensions.
package media

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrMalformed is returned when a media type string has no slash separator.
var ErrMalformed = errors.New("malformed media type string")

// Type is an immutable IANA media type.
// The zero value is an empty, unusable type.
type Type struct {
	full   string   // full is the complete type string, including any parameters.
	noPar  string   // noPar is full with the parameters removed.
	main   string   // main type, such as image.
	tree   string   // tree is the vendor tree, such as vnd.microsoft.
	sub    string   // sub type, such as png.
	suffix string   // suffix such as json in model/gltf+json.
	params string   // params such as charset=utf-8.
	exts   []string // exts are the file extensions without a leading dot.
}

// OctetStream is the application/octet-stream default for unknown media.
var OctetStream = MustNew("application/octet-stream", //nolint:gochecknoglobals
	"bin", "lha", "lzh", "exe", "class", "so", "dll", "img", "iso")

// New parses the full media type string and attaches the file extensions.
// The extensions should not include the leading dot.
func New(fullType string, exts ...string) (Type, error) {
	slash := strings.IndexByte(fullType, '/')
	if slash == -1 {
		return Type{}, fmt.Errorf("%w: %q", ErrMalformed, fullType)
	}
	t := Type{
		full:  fullType,
		noPar: fullType,
		main:  fullType[:slash],
	}
	rest := fullType[slash+1:]
	plus := strings.IndexByte(rest, '+')
	semi := strings.IndexByte(rest, ';')
	if semi != -1 && plus > semi {
		plus = -1 // a plus within the parameters is not a suffix
	}
	tree := rest
	switch {
	case plus != -1:
		tree = rest[:plus]
	case semi != -1:
		tree = rest[:semi]
	}
	if dot := strings.LastIndexByte(tree, '.'); dot != -1 {
		t.tree, t.sub = tree[:dot], tree[dot+1:]
	} else {
		t.sub = tree
	}
	if plus != -1 {
		if semi != -1 {
			t.suffix = rest[plus+1 : semi]
		} else {
			t.suffix = rest[plus+1:]
		}
	}
	if semi != -1 {
		t.params = rest[semi+1:]
		t.noPar = fullType[:slash+1+semi]
	}
	if len(exts) > 0 {
		t.exts = slices.Clone(exts)
	}
	return t, nil
}

// MustNew is like New but panics when the full type string is malformed.
// It is intended for the built-in tables.
func MustNew(fullType string, exts ...string) Type {
	t, err := New(fullType, exts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Full returns the full media type string, including any parameters.
func (t Type) Full() string { return t.full }

// NoParams returns the media type string excluding any parameters.
func (t Type) NoParams() string { return t.noPar }

// Main returns the top-level type, for example image.
func (t Type) Main() string { return t.main }

// Tree returns the vendor tree,
// for example vnd.microsoft in application/vnd.microsoft.portable-executable.
func (t Type) Tree() string { return t.tree }

// SubType returns the subtype, for example png in image/png.
func (t Type) SubType() string { return t.sub }

// Suffix returns the structured syntax suffix, for example json in model/gltf+json.
func (t Type) Suffix() string { return t.suffix }

// Parameters returns the parameters, for example charset=utf-8 in text/plain;charset=utf-8.
func (t Type) Parameters() string { return t.params }

// Extensions returns a copy of the common file extensions for the type.
func (t Type) Extensions() []string { return slices.Clone(t.exts) }

// HasExtension reports whether ext is one of the type's extensions.
func (t Type) HasExtension(ext string) bool { return slices.Contains(t.exts, ext) }

// IsZero reports whether t is the zero value.
func (t Type) IsZero() bool { return t.full == "" }

// Equal reports whether both types share the same full type string.
func (t Type) Equal(o Type) bool { return t.full == o.full }

// Same reports whether both types match while ignoring any parameters.
func (t Type) Same(o Type) bool { return t.noPar == o.noPar }

// String returns the media type excluding any parameters.
func (t Type) String() string { return t.noPar }
