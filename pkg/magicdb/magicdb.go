// © Ben Garrett https://github.com/bengarrett/remime

// Package magicdb loads declarative signature databases.
// A database is a list of entries that each name a media type, its magic
// number patterns and its file extensions. Databases are written in JSON
// with comments and trailing commas, or in YAML.
package magicdb

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bengarrett/remime/pkg/magic"
	"github.com/bengarrett/remime/pkg/media"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

//go:embed db/*.jsonc
var db embed.FS

var (
	ErrEntry   = errors.New("database entry skipped")
	ErrPattern = errors.New("database pattern skipped")
	ErrFormat  = errors.New("database format is unknown")
)

// Format is the syntax of a database.
type Format uint

const (
	JSONC Format = iota // JSON with comments and trailing commas.
	YAML
)

func (f Format) String() string {
	switch f {
	case JSONC:
		return "jsonc"
	case YAML:
		return "yaml"
	}
	return "unknown"
}

// FormatOf returns the database format of the named file,
// which is YAML for the .yaml and .yml extensions and JSONC otherwise.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSONC
}

// Entry is a single database item.
type Entry struct {
	Type       string   `json:"type"       yaml:"type"`
	Magic      []string `json:"magic"      yaml:"magic"`
	Extensions []string `json:"extensions" yaml:"extensions"`
}

// Decode parses the database data.
func Decode(data []byte, f Format) ([]Entry, error) {
	var entries []Entry
	switch f {
	case JSONC:
		if err := json.Unmarshal(jsonc.ToJSON(data), &entries); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f, err)
		}
	case YAML:
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f, err)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrFormat, f)
	}
	return entries, nil
}

// Records converts the entries into magic records.
//
// An entry with a malformed media type is skipped, as is any pattern that
// cannot be parsed. The remaining records are always returned along with
// the joined problems.
func Records(entries []Entry) ([]magic.Record, error) {
	recs := make([]magic.Record, 0, len(entries))
	var errs error
	for i, e := range entries {
		typ, err := media.New(e.Type, e.Extensions...)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%w: %d %q: %w", ErrEntry, i, e.Type, err))
			continue
		}
		rec := magic.Record{Type: typ}
		for _, pattern := range e.Magic {
			sig, err := magic.Parse(pattern)
			if err != nil {
				errs = errors.Join(errs, fmt.Errorf("%w: %s %q: %w", ErrPattern, e.Type, pattern, err))
				continue
			}
			rec.Signatures = append(rec.Signatures, sig)
		}
		recs = append(recs, rec)
	}
	return recs, errs
}

// Load reads and converts the named database file.
func Load(name string) ([]magic.Record, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	entries, err := Decode(data, FormatOf(name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	recs, err := Records(entries)
	if err != nil {
		return recs, fmt.Errorf("%s: %w", name, err)
	}
	return recs, nil
}

func embedded(name string) ([]magic.Record, error) {
	data, err := db.ReadFile("db/" + name)
	if err != nil {
		return nil, err
	}
	entries, err := Decode(data, JSONC)
	if err != nil {
		return nil, err
	}
	return Records(entries)
}

// Builtin returns the records of the embedded magic number database.
func Builtin() ([]magic.Record, error) {
	return embedded("magic.jsonc")
}

// RIFF returns the records of the embedded RIFF form type database.
func RIFF() ([]magic.Record, error) {
	return embedded("riff.jsonc")
}
