// © Ben Garrett https://github.com/bengarrett/remime

// Package printer formats the command line output.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Comment is the prefix of lines that are not results.
const Comment = "# "

// DPrint prints the debug string to a newline.
func DPrint(debug bool, s string) {
	if !debug {
		return
	}
	fmt.Fprintf(os.Stdout, "∙%s\n", s)
}

// Line returns a result line, the flags, path and media type separated by tabs.
func Line(flags, path, typ string) string {
	return fmt.Sprintf("%s\t%s\t%s", flags, path, typ)
}

// Note returns a comment line.
func Note(format string, a ...any) string {
	return Comment + fmt.Sprintf(format, a...)
}

// Notef writes a colored comment line to w.
func Notef(w io.Writer, format string, a ...any) {
	if w == nil {
		return
	}
	fmt.Fprintln(w, color.Secondary.Sprint(Note(format, a...)))
}

// Stderr formats and prints the err to stderr.
func Stderr(err error) {
	if err == nil {
		return
	}
	s := strings.ToLower(err.Error())
	fmt.Fprint(os.Stderr, color.Warn.Sprintf("%s.", strings.TrimSpace(s)))
	fmt.Fprintln(os.Stderr)
}

// Summary returns the totals of a run.
func Summary(files, skipped, errs int, bytes int64, elapsed time.Duration) string {
	if files < 0 {
		return ""
	}
	p := message.NewPrinter(language.English)
	file := "files"
	if files == 1 {
		file = "file"
	}
	s := p.Sprintf("%v %s (%s) in %s", number.Decimal(files), file,
		humanize.Bytes(safesize(bytes)), elapsed.Round(time.Millisecond))
	if skipped > 0 {
		s += p.Sprintf(", %v skipped", number.Decimal(skipped))
	}
	if errs > 0 {
		s += p.Sprintf(", %v errors", number.Decimal(errs))
	}
	return Note("%s", s)
}

func safesize(i int64) uint64 {
	if i < 0 {
		return 0
	}
	return uint64(i)
}
