// © Ben Garrett https://github.com/bengarrett/remime

// Package cmd defines the command line flags.
package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/pflag"
)

var (
	ErrNilFlag    = errors.New("flags have not been defined")
	ErrWindowsDir = errors.New("cannot parse the directory path")
)

// Flag names.
const (
	All_       = "all"
	Cache_     = "cache"
	DB_        = "db"
	Debug_     = "debug"
	Deep_      = "deep"
	Exact_     = "exact"
	Help_      = "help"
	List_      = "list"
	Mono_      = "mono"
	Recursive_ = "recursive"
	Verbose_   = "verbose"
	Version_   = "version"

	// Stdin is the argument to read from standard input.
	Stdin = "-"
	// HelpDOS is the DOS style help argument.
	HelpDOS = "/?"
)

// Flags are the options for the command.
type Flags struct {
	All       *bool
	Cache     *bool
	DBs       *[]string
	Debug     *bool
	Deep      *bool
	Exact     *bool
	Help      *bool
	List      *bool
	Mono      *bool
	Recursive *bool
	Verbose   *bool
	Version   *bool
}

// Define the options on the flag set.
func (f *Flags) Define(fs *pflag.FlagSet) {
	if f == nil || fs == nil {
		return
	}
	f.Recursive = fs.BoolP(Recursive_, "r", false,
		"search files and directories recursively")
	f.All = fs.BoolP(All_, "a", false,
		"include hidden files and directories")
	f.Verbose = fs.BoolP(Verbose_, "v", false,
		"verbose mode to print the full paths of files")
	f.List = fs.Bool(List_, false,
		"list the known media types and their extensions, files are ignored")
	f.Deep = fs.Bool(Deep_, false,
		"deep inspection of content using the slower filetype matchers")
	f.Exact = fs.Bool(Exact_, false,
		"do not fall back to a shorter magic number signature")
	f.DBs = fs.StringArray(DB_, nil,
		"merge the signature `database` file, either JSONC or YAML")
	f.Cache = fs.Bool(Cache_, false,
		"save and reuse the results of unchanged files")
	f.Mono = fs.Bool(Mono_, false,
		"monochrome mode to remove all color output")
	f.Debug = fs.Bool(Debug_, false,
		"debug is a verbose mode to print all the activities and tasks")
	f.Version = fs.Bool(Version_, false,
		"version and information for this program")
	f.Help = fs.BoolP(Help_, "h", false,
		"show this help text")
}

// Defined reports whether every option has been defined.
func (f *Flags) Defined() bool {
	if f == nil {
		return false
	}
	for _, b := range []*bool{
		f.All, f.Cache, f.Debug, f.Deep, f.Exact, f.Help,
		f.List, f.Mono, f.Recursive, f.Verbose, f.Version,
	} {
		if b == nil {
			return false
		}
	}
	return f.DBs != nil
}

// Parse defines the flags and parses the arguments.
// The DOS help argument is treated as the help flag.
func Parse(name string, args ...string) (*Flags, []string, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(new(bytes.Buffer))
	f := &Flags{}
	f.Define(fs)
	if err := fs.Parse(args); err != nil {
		return f, nil, err
	}
	rest := []string{}
	for _, arg := range fs.Args() {
		if arg == HelpDOS {
			*f.Help = true
			continue
		}
		rest = append(rest, arg)
	}
	return f, rest, nil
}

// Lookup returns the named flag of a new flag set,
// it is used to print the help text.
func Lookup(name string) *pflag.Flag {
	fs := pflag.NewFlagSet("lookup", pflag.ContinueOnError)
	f := &Flags{}
	f.Define(fs)
	return fs.Lookup(name)
}

// WindowsChk checks the string for invalid, escaped quoted paths when using Windows cmd.exe.
func WindowsChk(s string) error {
	if s == "" {
		return nil
	}
	const dblQuote rune = 34
	r := []rune(s)
	l := len(r)
	first, last := r[0:1][0], r[l-1 : l][0]
	if first == dblQuote && last == dblQuote {
		return nil // okay as the string is fully quoted
	}
	if first != dblQuote && last != dblQuote {
		return nil // okay as the string is not quoted
	}
	// only the start or end of the string is quoted,
	// the shell treats the \" suffix of a quoted directory path as an escaped quote
	// so "C:\Example\" is parsed as C:\Example"
	w := new(bytes.Buffer)
	fmt.Fprint(w, "please remove the trailing backslash \\ character from any quoted directory paths")
	if usr, err := os.UserHomeDir(); err == nil {
		fmt.Fprint(w, "\n")
		fmt.Fprint(w, color.Success.Sprint("Good: "))
		fmt.Fprintf(w, "\"%s\" ", usr)
		fmt.Fprint(w, "\n")
		fmt.Fprint(w, color.Warn.Sprint("Bad: "))
		fmt.Fprintf(w, "\"%s\\\"", usr)
	}
	return fmt.Errorf("%w\n%s", ErrWindowsDir, w.String())
}

// Home returns the user home directory.
// If that fails it returns the current working directory.
func Home() string {
	h, err := os.UserHomeDir()
	if err != nil {
		h, _ = os.Getwd()
	}
	return h
}
