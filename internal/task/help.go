// © Ben Garrett https://github.com/bengarrett/remime
package task

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/bengarrett/remime/internal/cmd"
	"github.com/bengarrett/remime/pkg/resolver"
	"github.com/carlmjohnson/versioninfo"
	"github.com/gookit/color"
)

const (
	tabPadding  = 4
	description = "Remime determines the media type of files using their names and content."
	usage       = "remime [options] file/directory/-...\nremime --help for more help."
	winOS       = "windows"
)

// Usage returns the short usage text.
func Usage() string {
	return usage + "\n"
}

// Help returns the help, usage and examples.
func Help() string {
	b := bytes.Buffer{}
	w := tabwriter.NewWriter(&b, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(w, description)
	HelpArgs(w)
	HelpOpts(w)
	HelpExample(w)
	if err := w.Flush(); err != nil {
		return fmt.Sprintf("could not flush the help text: %s", err)
	}
	return b.String()
}

// HelpArgs writes the arguments help.
func HelpArgs(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.Primary.Sprint("Usage:"))
	fmt.Fprintln(w, "    remime [options] file/directory/-...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Arguments:")
	fmt.Fprintln(w, "    file\tinfer the media type of a file")
	fmt.Fprintf(w, "    directory\tinfer the files in a directory, subdirectories require -%s\n",
		cmd.Lookup(cmd.Recursive_).Shorthand)
	fmt.Fprintf(w, "    %s\tinfer the standard input\n", cmd.Stdin)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Results:")
	fmt.Fprintln(w, "    e-\tthe file extension matched")
	fmt.Fprintln(w, "    -c\tthe content matched")
	fmt.Fprintln(w, "    ec\tboth the extension and content matched the same type")
	fmt.Fprintln(w, "    --\tnothing matched and the type is application/octet-stream")
}

// HelpOpts writes the options help.
func HelpOpts(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.Primary.Sprint("Options:"))
	for _, name := range []string{
		cmd.Recursive_, cmd.All_, cmd.Verbose_,
		cmd.List_, cmd.Deep_, cmd.Exact_, cmd.DB_, cmd.Cache_,
		cmd.Mono_, cmd.Debug_, cmd.Version_, cmd.Help_,
	} {
		f := cmd.Lookup(name)
		if f == nil {
			continue
		}
		if f.Shorthand != "" {
			fmt.Fprintf(w, "    -%s, --%s\t%s\n", f.Shorthand, f.Name, f.Usage)
			continue
		}
		if name == cmd.DB_ {
			fmt.Fprintf(w, "        --%s <file>\t%s\n", f.Name, f.Usage)
			continue
		}
		fmt.Fprintf(w, "        --%s\t%s\n", f.Name, f.Usage)
	}
}

// HelpExample writes the examples.
func HelpExample(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Examples:")
	const a = "    # infer the files in the Downloads directory and all its subdirectories"
	fmt.Fprintln(w, color.Secondary.Sprint(a))
	dl := filepath.Join(cmd.Home(), "Downloads")
	if runtime.GOOS == winOS {
		fmt.Fprintln(w, color.Info.Sprintf("    remime -r \"%s\"", dl))
	} else {
		fmt.Fprintln(w, color.Info.Sprintf("    remime -r '%s'", dl))
	}
	const b = "    # infer the standard input"
	fmt.Fprintln(w, color.Secondary.Sprint(b))
	fmt.Fprintln(w, color.Info.Sprint("    cat image.bin | remime -"))
	const c = "    # list the known media types with the extra signatures in my.yaml"
	fmt.Fprintln(w, color.Secondary.Sprint(c))
	fmt.Fprintln(w, color.Info.Sprintf("    remime --%s my.yaml --%s", cmd.DB_, cmd.List_))
}

// Version returns the program information and version.
func Version() string {
	const copyright, year = "\u00A9", 2026
	exe, err := os.Executable()
	if err != nil {
		exe = err.Error()
	}
	w := new(bytes.Buffer)
	fmt.Fprintf(w, "remime %s\n", versioninfo.Short())
	fmt.Fprintf(w, "%s %d Ben Garrett\n", copyright, year)
	fmt.Fprintf(w, "%s\n\n", color.Primary.Sprint("https://github.com/bengarrett/remime"))
	commit := "unset"
	if !versioninfo.LastCommit.IsZero() {
		commit = versioninfo.LastCommit.UTC().Format("2006-01-02")
	}
	fmt.Fprintf(w, "  %s    %s (%s)\n", color.Secondary.Sprint("build:"), versioninfo.Revision, commit)
	fmt.Fprintf(w, "  %s %s/%s\n", color.Secondary.Sprint("platform:"), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "  %s       %s\n", color.Secondary.Sprint("go:"), strings.Replace(runtime.Version(), "go", "v", 1))
	fmt.Fprintf(w, "  %s     %s\n", color.Secondary.Sprint("path:"), exe)
	return w.String()
}

// Debug returns the flags and the resolvers of the registry.
func Debug(f *cmd.Flags, reg *resolver.Registry) (string, error) {
	if !f.Defined() {
		return "", cmd.ErrNilFlag
	}
	if reg == nil {
		return "", ErrNil
	}
	buf := new(bytes.Buffer)
	w := tabwriter.NewWriter(buf, 0, 0, 1, ' ', 0)
	fmt.Fprintln(w, "Remime arguments debug:")
	fmt.Fprintf(w, "--%s:\t%v\n", cmd.Recursive_, *f.Recursive)
	fmt.Fprintf(w, "--%s:\t%v\n", cmd.All_, *f.All)
	fmt.Fprintf(w, "--%s:\t%v\n", cmd.Verbose_, *f.Verbose)
	fmt.Fprintf(w, "--%s:\t%v\n", cmd.Deep_, *f.Deep)
	fmt.Fprintf(w, "--%s:\t%v\n", cmd.Exact_, *f.Exact)
	fmt.Fprintf(w, "--%s:\t%v\n", cmd.Cache_, *f.Cache)
	fmt.Fprintf(w, "--%s:\t%v\n", cmd.Mono_, *f.Mono)
	fmt.Fprintf(w, "--%s:\t%s\n", cmd.DB_, strings.Join(*f.DBs, ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Resolvers:")
	fmt.Fprintln(w, "Priority\tResolver\tTypes")
	for _, r := range reg.Registrations() {
		fmt.Fprintf(w, "%d\t%T\t%d\n", r.Priority, r.Resolver, len(r.Resolver.Catalog()))
	}
	fmt.Fprintf(w, "\t\t%d known\n", len(reg.KnownTypes()))
	for _, err := range reg.Skipped() {
		fmt.Fprintf(w, "Skipped:\t%s\n", err)
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
