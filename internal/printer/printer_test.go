// © Ben Garrett https://github.com/bengarrett/remime
package printer_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/bengarrett/remime/internal/printer"
	"github.com/gookit/color"
	"github.com/nalgeon/be"
)

func TestLine(t *testing.T) {
	be.Equal(t, printer.Line("ec", "a.png", "image/png"), "ec\ta.png\timage/png")
	be.Equal(t, printer.Note("Path %s does not exist. Skipping...", "x"),
		"# Path x does not exist. Skipping...")
}

func TestNotef(t *testing.T) {
	color.Enable = false
	var b bytes.Buffer
	printer.Notef(&b, "Skipping directory %s, set -r to traverse.", "dir")
	be.Equal(t, b.String(), "# Skipping directory dir, set -r to traverse.\n")
	printer.Notef(nil, "nothing")
}

func TestSummary(t *testing.T) {
	be.Equal(t, printer.Summary(-1, 0, 0, 0, 0), "")
	be.Equal(t, printer.Summary(1, 0, 0, 1000, time.Second), "# 1 file (1.0 kB) in 1s")
	be.Equal(t, printer.Summary(12345, 2, 1, 2_500_000, 1500*time.Millisecond),
		"# 12,345 files (2.5 MB) in 1.5s, 2 skipped, 1 errors")
	be.Equal(t, printer.Summary(0, 0, 0, -5, 0), "# 0 files (0 B) in 0s")
}
