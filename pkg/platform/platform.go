// © Ben Garrett https://github.com/bengarrett/remime

// Package platform reads the file extension to media type tables
// that are provided by the host operating system.
package platform

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bengarrett/remime/pkg/media"
)

var (
	ErrUnsupported = errors.New("platform table is unsupported on this operating system")
	ErrNoTable     = errors.New("platform has no readable media type table")
)

const (
	// MimeTypes is the system wide table on Unix-like systems.
	MimeTypes = "/etc/mime.types"
	// UserMimeTypes is the per-user table that is found in the home directory.
	UserMimeTypes = ".mime.types"
	// RegistryName is the name of the Windows table.
	RegistryName = `HKEY_CLASSES_ROOT`
)

// Platform describes the operating system to read the tables from.
type Platform struct {
	OS        string   // OS uses the runtime.GOOS values.
	MimeFiles []string // MimeFiles are read in order, later files override earlier ones.
	Home      string   // Home is the user home directory.
}

// Host returns the platform of the running system.
func Host() Platform {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return Platform{OS: runtime.GOOS, Home: home}
}

// Files returns the mime.types files to read on Unix-like systems.
// When MimeFiles is empty the system table is used, followed by the
// table in the home directory.
func (p Platform) Files() []string {
	if len(p.MimeFiles) > 0 {
		return p.MimeFiles
	}
	files := []string{MimeTypes}
	if p.Home != "" {
		files = append(files, filepath.Join(p.Home, UserMimeTypes))
	}
	return files
}

// Unix reports whether the platform is a Unix-like system that uses mime.types files.
func (p Platform) Unix() bool {
	switch p.OS {
	case "aix", "android", "darwin", "dragonfly", "freebsd", "illumos",
		"ios", "linux", "netbsd", "openbsd", "solaris":
		return true
	}
	return false
}

// Windows reports whether the platform is Windows.
func (p Platform) Windows() bool {
	return p.OS == "windows"
}

// Table is a read-only file extension table.
type Table struct {
	name  string
	types []media.Type
	exts  map[string]media.Type
}

// NewTable returns a table of the media types.
// An extension listed by more than one type belongs to the last.
func NewTable(name string, types ...media.Type) *Table {
	t := &Table{
		name:  name,
		types: types,
		exts:  make(map[string]media.Type),
	}
	for _, typ := range types {
		for _, ext := range typ.Extensions() {
			t.exts[ext] = typ
		}
	}
	return t
}

// Name returns the source of the table.
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of extensions in the table.
func (t *Table) Len() int {
	return len(t.exts)
}

// Catalog returns the media types in the order they were read.
func (t *Table) Catalog() []media.Type {
	return append([]media.Type(nil), t.types...)
}

// Extension returns the media type of the case-sensitive file extension.
func (t *Table) Extension(ext string) (media.Type, bool) {
	typ, ok := t.exts[ext]
	return typ, ok
}

// Parse reads a mime.types formatted table.
// Each line holds a media type followed by its extensions, separated by
// tabs or spaces. Blank lines and lines starting with # are ignored.
// Lines with a malformed media type are skipped and returned as joined errors.
func Parse(r io.Reader) ([]media.Type, error) {
	var types []media.Type
	var errs error
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		fields := strings.FieldsFunc(s, func(r rune) bool {
			return r == ' ' || r == '\t'
		})
		typ, err := media.New(fields[0], fields[1:]...)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		types = append(types, typ)
	}
	if err := scanner.Err(); err != nil {
		return types, err
	}
	return types, errs
}

// NewUnix reads the mime.types files of a Unix-like platform.
// Files that do not exist are skipped, but at least one must be read.
// Malformed lines do not stop the table from being built.
func NewUnix(p Platform) (*Table, error) {
	if !p.Unix() {
		return nil, fmt.Errorf("%w: %s is not unix-like", ErrUnsupported, p.OS)
	}
	var types []media.Type
	var names []string
	for _, name := range p.Files() {
		f, err := os.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		found, err := Parse(f)
		f.Close()
		if err != nil && !errors.Is(err, media.ErrMalformed) {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		types = append(types, found...)
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, strings.Join(p.Files(), ", "))
	}
	return NewTable(strings.Join(names, ", "), types...), nil
}

// Association links a file extension to a media type.
type Association struct {
	Ext  string // Ext is without the leading dot.
	Type string
}

// FromAssociations returns a table that groups the extensions by media type,
// in the order each type is first seen. Associations with a malformed type
// or an empty extension are ignored.
func FromAssociations(name string, assocs ...Association) *Table {
	order := []string{}
	group := map[string][]string{}
	for _, a := range assocs {
		if a.Ext == "" || a.Type == "" {
			continue
		}
		if _, ok := group[a.Type]; !ok {
			order = append(order, a.Type)
		}
		group[a.Type] = append(group[a.Type], a.Ext)
	}
	types := make([]media.Type, 0, len(order))
	for _, s := range order {
		typ, err := media.New(s, group[s]...)
		if err != nil {
			continue
		}
		types = append(types, typ)
	}
	return NewTable(name, types...)
}

// NewWindows reads the content types of the file extensions in the
// HKEY_CLASSES_ROOT registry hive.
func NewWindows(p Platform) (*Table, error) {
	if !p.Windows() {
		return nil, fmt.Errorf("%w: %s is not windows", ErrUnsupported, p.OS)
	}
	assocs, err := readRegistry()
	if err != nil {
		return nil, err
	}
	if len(assocs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, RegistryName)
	}
	return FromAssociations(RegistryName, assocs...), nil
}

// Select returns the one table that suits the platform.
func Select(p Platform) (*Table, error) {
	switch {
	case p.Windows():
		return NewWindows(p)
	case p.Unix():
		return NewUnix(p)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, p.OS)
}
