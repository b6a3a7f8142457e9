// © Ben Garrett https://github.com/bengarrett/remime
package task

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bengarrett/remime/internal/cmd"
	"github.com/bengarrett/remime/internal/printer"
	"github.com/bengarrett/remime/pkg/cache"
	"github.com/bengarrett/remime/pkg/media"
	"github.com/bengarrett/remime/pkg/platform"
	"github.com/bengarrett/remime/pkg/resolver"
	"github.com/carlmjohnson/versioninfo"
	"github.com/karrick/godirwalk"
)

var (
	ErrNil      = errors.New("task needs a resolver registry")
	ErrNoOutput = errors.New("task needs an output writer")
)

// Exit codes of a run.
const (
	OK    = 0 // OK is a run without any issues.
	Major = 1 // Major is a run with a missing path or an error.
	Minor = 2 // Minor is a run that skipped a directory.
)

// StdinName is the path printed for the standard input.
const StdinName = "<stdin>"

// Task resolves the media types of files, directories and the standard input.
type Task struct {
	Registry  *resolver.Registry
	Cache     *cache.DB // Cache is optional and reuses the results of unchanged files.
	Bucket    string    // Bucket is the cache bucket of the registry settings.
	All       bool      // All includes hidden files and directories.
	Debug     bool      // Debug prints any cache problems.
	Recursive bool      // Recursive traverses directories.
	Verbose   bool      // Verbose prints absolute paths.
	Stdin     io.Reader
	Out       io.Writer

	cwd     string
	start   time.Time
	minor   bool
	major   bool
	files   int
	skipped int
	errs    int
	bytes   int64
	hits    int
}

// Run resolves each argument in order and returns the exit code.
// An argument is either a file, a directory or - for the standard input.
func (t *Task) Run(args ...string) (int, error) {
	if t == nil || t.Registry == nil {
		return Major, ErrNil
	}
	if t.Out == nil {
		return Major, ErrNoOutput
	}
	t.start = time.Now()
	t.cwd, _ = os.Getwd()
	for _, arg := range args {
		if arg == cmd.Stdin {
			t.stdin()
			continue
		}
		t.arg(arg)
	}
	return t.Code(), nil
}

// Code returns the exit code of the run.
func (t *Task) Code() int {
	switch {
	case t.major:
		return Major
	case t.minor:
		return Minor
	}
	return OK
}

// Summary returns the totals of the run.
func (t *Task) Summary() string {
	return printer.Summary(t.files, t.skipped, t.errs, t.bytes, time.Since(t.start))
}

// Hits returns the number of results that were read from the cache.
func (t *Task) Hits() int {
	return t.hits
}

func (t *Task) arg(name string) {
	st, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		printer.Notef(t.Out, "Path %s does not exist. Skipping...", name)
		t.major = true
		return
	}
	if err != nil {
		t.fail(name, err)
		return
	}
	if Hidden(name) && !t.All {
		t.skipped++
		return
	}
	if !st.IsDir() {
		t.file(name, st)
		return
	}
	if t.Recursive {
		t.walk(name)
		return
	}
	t.dir(name)
}

// dir resolves the files in the directory and skips any subdirectories.
func (t *Task) dir(root string) {
	ents, err := godirwalk.ReadDirents(root, nil)
	if err != nil {
		t.fail(root, err)
		return
	}
	sort.Sort(ents)
	for _, de := range ents {
		if Hidden(de.Name()) && !t.All {
			t.skipped++
			continue
		}
		path := filepath.Join(root, de.Name())
		if de.IsDir() {
			printer.Notef(t.Out, "Skipping directory %s, set -r to traverse.", t.path(path))
			t.minor = true
			continue
		}
		t.entry(path, de)
	}
}

// walk resolves the files in the directory tree.
func (t *Task) walk(root string) {
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path == root {
				return nil
			}
			if Hidden(de.Name()) && !t.All {
				t.skipped++
				if de.IsDir() {
					return godirwalk.SkipThis
				}
				return nil
			}
			if de.IsDir() {
				return nil
			}
			t.entry(path, de)
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			t.fail(path, err)
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		t.fail(root, err)
	}
}

// entry resolves the directory entry when it is a file.
// Symbolic links to directories are not followed and other
// special files, such as sockets and devices, are skipped.
func (t *Task) entry(path string, de *godirwalk.Dirent) {
	if !de.IsRegular() && !de.IsSymlink() {
		t.skipped++
		return
	}
	st, err := os.Stat(path)
	if err != nil {
		t.fail(path, err)
		return
	}
	if st.IsDir() {
		t.skipped++
		return
	}
	t.file(path, st)
}

func (t *Task) file(name string, st fs.FileInfo) {
	if typ, res, ok := t.cached(name, st); ok {
		t.result(res, t.path(name), typ)
		t.count(st)
		return
	}
	typ, res, err := t.Registry.ResolveFile(name, true)
	if err != nil {
		t.fail(name, err)
		return
	}
	t.result(res, t.path(name), typ)
	t.count(st)
	if t.Cache == nil {
		return
	}
	e := cache.Entry{Size: st.Size(), ModTime: st.ModTime(), Flags: uint8(res), Type: typ.Full()}
	if err := t.Cache.Put(t.Bucket, name, e); err != nil {
		printer.DPrint(t.Debug, fmt.Sprintf("cache put %s: %s", name, err))
	}
}

func (t *Task) cached(name string, st fs.FileInfo) (media.Type, resolver.Result, bool) {
	if t.Cache == nil {
		return media.Type{}, resolver.None, false
	}
	e, ok, err := t.Cache.Get(t.Bucket, name, st)
	if err != nil || !ok {
		return media.Type{}, resolver.None, false
	}
	typ, err := media.New(e.Type)
	if err != nil {
		return media.Type{}, resolver.None, false
	}
	t.hits++
	return typ, resolver.Result(e.Flags), true
}

// stdin resolves the content of the standard input,
// which is read into memory as it cannot seek.
func (t *Task) stdin() {
	if t.Stdin == nil {
		t.fail(StdinName, os.ErrInvalid)
		return
	}
	b, err := io.ReadAll(t.Stdin)
	if err != nil {
		t.fail(StdinName, err)
		return
	}
	res := resolver.None
	typ, ok := t.Registry.ResolveContent(b)
	if ok {
		res = resolver.Content
	} else {
		typ = media.OctetStream
	}
	t.files++
	t.bytes += int64(len(b))
	t.result(res, StdinName, typ)
}

func (t *Task) result(res resolver.Result, path string, typ media.Type) {
	fmt.Fprintln(t.Out, printer.Line(res.String(), path, typ.NoParams()))
}

func (t *Task) count(st fs.FileInfo) {
	t.files++
	t.bytes += st.Size()
}

func (t *Task) fail(name string, err error) {
	abs, errAbs := filepath.Abs(name)
	if errAbs != nil || name == StdinName {
		abs = name
	}
	printer.Notef(t.Out, "Error while processing %s: %s", abs, err)
	t.major = true
	t.errs++
}

// path returns the printable path of the named file,
// which is relative to the working directory unless verbose is set.
func (t *Task) path(name string) string {
	abs, err := filepath.Abs(name)
	if err != nil {
		return name
	}
	if t.Verbose || t.cwd == "" {
		return abs
	}
	rel, err := filepath.Rel(t.cwd, abs)
	if err != nil {
		return abs
	}
	return rel
}

// Hidden reports whether the base name of the path is a dot file.
// The current and parent directory names are not hidden.
func Hidden(path string) bool {
	name := filepath.Base(path)
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// List writes the known media types of the registry and their extensions.
func List(w io.Writer, reg *resolver.Registry) error {
	if reg == nil {
		return ErrNil
	}
	if w == nil {
		return ErrNoOutput
	}
	for _, typ := range reg.KnownTypes() {
		fmt.Fprintf(w, "%s\t%s\n", typ.NoParams(), strings.Join(typ.Extensions(), " "))
	}
	return nil
}

// Bucket returns the cache bucket name of the registry settings.
// Results are only shared between runs that use equal settings, the same
// build of the program and unmodified database and mime.types files.
func Bucket(cfg resolver.Config) string {
	parts := []string{cfg.Policy.String()}
	if cfg.Deep {
		parts = append(parts, "deep")
	}
	parts = append(parts, versioninfo.Revision)
	for _, name := range cfg.Databases {
		abs, err := filepath.Abs(name)
		if err != nil {
			abs = name
		}
		parts = append(parts, stamp(abs))
	}
	p := cfg.Platform
	if p.OS == "" {
		p = platform.Host()
	}
	if !p.Unix() {
		return strings.Join(parts, "|")
	}
	for _, name := range p.Files() {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		parts = append(parts, stamp(name))
	}
	return strings.Join(parts, "|")
}

// stamp returns the named file with its modification time.
func stamp(name string) string {
	st, err := os.Stat(name)
	if err != nil {
		return name
	}
	return fmt.Sprintf("%s@%d", name, st.ModTime().UnixNano())
}
