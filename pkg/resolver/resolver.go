// © Ben Garrett https://github.com/bengarrett/remime

// Package resolver combines extension and content resolvers into a single
// registry that is ranked by priority.
//
// A Registry is built once, usually with Default, and is then safe for
// concurrent reads. Adding resolvers after lookups have started is unsupported.
package resolver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bengarrett/remime/pkg/magic"
	"github.com/bengarrett/remime/pkg/magicdb"
	"github.com/bengarrett/remime/pkg/media"
	"github.com/bengarrett/remime/pkg/platform"
	"github.com/bengarrett/remime/pkg/riff"
	"github.com/bengarrett/remime/pkg/sniff"
)

// Priorities of the default resolvers, a lower value takes precedence.
const (
	PriorityRIFF     = 1000
	PriorityMagic    = 1001
	PriorityPlatform = 1002
	PrioritySniff    = 1003
	PriorityDefault  = 9999
)

var (
	ErrInvalidPath = errors.New("path has no file name")
	ErrNotSeekable = errors.New("reader cannot seek")
)

// Cataloger lists the media types a resolver knows about.
type Cataloger interface {
	Catalog() []media.Type
}

// ExtensionResolver finds media types by file extension.
// The extension is lower case and without a leading dot.
type ExtensionResolver interface {
	Cataloger
	Extension(ext string) (media.Type, bool)
}

// ContentResolver finds media types by the leading bytes of the content.
type ContentResolver interface {
	Cataloger
	Content(b []byte) (media.Type, bool)
	ReadContent(r io.Reader) (media.Type, bool, error)
}

// Registration is a resolver and its priority.
type Registration struct {
	Priority int
	Resolver Cataloger
}

// Registry is an ordered collection of resolvers.
type Registry struct {
	regs    []Registration
	known   []media.Type
	cached  bool
	skipped []error
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Config are the settings of a default registry.
type Config struct {
	Platform  platform.Platform // Platform to select the extension table for, the zero value is the host.
	Databases []string          // Databases are extra signature files merged into the magic resolver.
	Deep      bool              // Deep adds the filetype content sniffer.
	Policy    magic.Policy      // Policy is the match policy of the magic resolver.
}

// Default returns a registry with the RIFF, magic and platform resolvers,
// plus the deep content sniffer when requested.
//
// A platform table that cannot be built does not stop the registry,
// its error is kept in Skipped. Malformed entries or patterns in the
// signature databases are also kept in Skipped.
func Default(cfg Config) (*Registry, error) {
	reg := New()
	rr, err := riff.New()
	if err != nil {
		return nil, fmt.Errorf("riff resolver: %w", err)
	}
	reg.Add(rr, PriorityRIFF)

	mr := magic.New(magic.WithPolicy(cfg.Policy))
	recs, err := magicdb.Builtin()
	if err != nil {
		return nil, fmt.Errorf("magic resolver: %w", err)
	}
	mr.Register(recs...)
	for _, name := range cfg.Databases {
		recs, err := magicdb.Load(name)
		if err != nil && !errors.Is(err, magicdb.ErrEntry) && !errors.Is(err, magicdb.ErrPattern) {
			return nil, err
		}
		if err != nil {
			reg.skipped = append(reg.skipped, err)
		}
		mr.Register(recs...)
	}
	reg.Add(mr, PriorityMagic)

	p := cfg.Platform
	if p.OS == "" {
		p = platform.Host()
	}
	tbl, err := platform.Select(p)
	if err != nil {
		reg.skipped = append(reg.skipped, err)
	} else {
		reg.Add(tbl, PriorityPlatform)
	}

	if cfg.Deep {
		reg.Add(sniff.New(), PrioritySniff)
	}
	return reg, nil
}

// Skipped returns the errors of the resolvers or records that Default left out.
func (reg *Registry) Skipped() []error {
	return append([]error(nil), reg.skipped...)
}

// Add registers the resolver at the priority.
// Resolvers of equal priority keep the order they were added.
func (reg *Registry) Add(r Cataloger, priority int) {
	if r == nil {
		return
	}
	i := len(reg.regs)
	for j, x := range reg.regs {
		if x.Priority > priority {
			i = j
			break
		}
	}
	reg.regs = append(reg.regs, Registration{})
	copy(reg.regs[i+1:], reg.regs[i:])
	reg.regs[i] = Registration{Priority: priority, Resolver: r}
	reg.known, reg.cached = nil, false
}

// Registrations returns the resolvers and their priorities in order of precedence.
func (reg *Registry) Registrations() []Registration {
	return append([]Registration(nil), reg.regs...)
}

// Resolvers returns the resolvers in order of precedence.
func (reg *Registry) Resolvers() []Cataloger {
	rs := make([]Cataloger, 0, len(reg.regs))
	for _, x := range reg.regs {
		rs = append(rs, x.Resolver)
	}
	return rs
}

// KnownTypes returns the catalogs of every resolver in order of precedence.
// Types that only differ by their parameters are listed once, using the first.
func (reg *Registry) KnownTypes() []media.Type {
	if !reg.cached {
		seen := make(map[string]struct{})
		known := []media.Type{}
		for _, x := range reg.regs {
			for _, t := range x.Resolver.Catalog() {
				if _, ok := seen[t.NoParams()]; ok {
					continue
				}
				seen[t.NoParams()] = struct{}{}
				known = append(known, t)
			}
		}
		reg.known, reg.cached = known, true
	}
	return append([]media.Type(nil), reg.known...)
}

// Base returns the file name component of the path, which is the text after
// the last slash. On Windows the backslash is also a separator.
func Base(path string) string {
	seps := "/"
	if filepath.Separator == '\\' {
		seps = `/\`
	}
	if i := strings.LastIndexAny(path, seps); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Candidates returns the lower case extensions of the file name in the order
// they are tried, the text after the last dot first and the text after the
// first dot last.
func Candidates(name string) []string {
	name = strings.ToLower(name)
	var exts []string
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			exts = append(exts, name[i+1:])
		}
	}
	return exts
}

// ResolveName returns the media type of the file name extensions of path.
// When nothing matches the octet-stream type is returned with false.
func (reg *Registry) ResolveName(path string) (media.Type, bool, error) {
	name := Base(path)
	if name == "" {
		return media.OctetStream, false, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	for _, ext := range Candidates(name) {
		for _, x := range reg.regs {
			r, ok := x.Resolver.(ExtensionResolver)
			if !ok {
				continue
			}
			if t, ok := r.Extension(ext); ok {
				return t, true, nil
			}
		}
	}
	return media.OctetStream, false, nil
}

// ResolveContent returns the media type of the leading bytes of b.
// When nothing matches the octet-stream type is returned with false.
func (reg *Registry) ResolveContent(b []byte) (media.Type, bool) {
	for _, x := range reg.regs {
		r, ok := x.Resolver.(ContentResolver)
		if !ok {
			continue
		}
		if t, ok := r.Content(b); ok {
			return t, true
		}
	}
	return media.OctetStream, false
}

// ResolveReader returns the media type of the content of the reader,
// which must also be an io.Seeker. Each content resolver reads from
// the position the reader was at when called.
func (reg *Registry) ResolveReader(rd io.Reader) (media.Type, bool, error) {
	seeker, ok := rd.(io.Seeker)
	if !ok {
		return media.OctetStream, false, ErrNotSeekable
	}
	start, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return media.OctetStream, false, fmt.Errorf("%w: %w", ErrNotSeekable, err)
	}
	for _, x := range reg.regs {
		r, ok := x.Resolver.(ContentResolver)
		if !ok {
			continue
		}
		if _, err := seeker.Seek(start, io.SeekStart); err != nil {
			return media.OctetStream, false, fmt.Errorf("%w: %w", ErrNotSeekable, err)
		}
		t, ok, err := r.ReadContent(rd)
		if err != nil {
			return media.OctetStream, false, err
		}
		if ok {
			return t, true, nil
		}
	}
	return media.OctetStream, false, nil
}

// ResolveCombined returns the media type of both the file name and the content.
//
// A content match takes precedence and is flagged as an Extension match too,
// when the file name resolves to the same type ignoring any parameters.
// Otherwise a file name match is used, and when neither matches the
// octet-stream type is returned with None.
func (reg *Registry) ResolveCombined(path string, b []byte) (media.Type, Result, error) {
	t, ok := reg.ResolveContent(b)
	return reg.combine(path, t, ok)
}

// ResolveCombinedReader is like ResolveCombined but reads the content
// from the seekable reader.
func (reg *Registry) ResolveCombinedReader(path string, rd io.Reader) (media.Type, Result, error) {
	t, ok, err := reg.ResolveReader(rd)
	if err != nil {
		return media.OctetStream, None, err
	}
	return reg.combine(path, t, ok)
}

func (reg *Registry) combine(path string, content media.Type, found bool) (media.Type, Result, error) {
	name, named, err := reg.ResolveName(path)
	if err != nil {
		return media.OctetStream, None, err
	}
	switch {
	case found && named && name.Same(content):
		return content, Extension | Content, nil
	case found:
		return content, Content, nil
	case named:
		return name, Extension, nil
	}
	return media.OctetStream, None, nil
}

// ResolveFile returns the media type of the named file.
// When open is false only the file name is used.
func (reg *Registry) ResolveFile(path string, open bool) (media.Type, Result, error) {
	if !open {
		t, ok, err := reg.ResolveName(path)
		if err != nil || !ok {
			return media.OctetStream, None, err
		}
		return t, Extension, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return media.OctetStream, None, err
	}
	defer f.Close()
	return reg.ResolveCombinedReader(path, f)
}
