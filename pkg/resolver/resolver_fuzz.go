// © Ben Garrett https://github.com/bengarrett/remime

//go:build go1.18

package resolver

import (
	"path/filepath"
	"strings"
	"testing"
)

// FuzzCandidates fuzz tests the file name extension candidates.
func FuzzCandidates(f *testing.F) {
	testCases := []string{
		"archive.tar.gz",
		`C:\dir\file.PNG`,
		"README",
		".hidden",
		"trailing.",
		"..",
		"",
	}
	for _, tc := range testCases {
		f.Add(tc)
	}
	f.Fuzz(func(t *testing.T, path string) {
		name := Base(path)
		if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
			t.Fatalf("base %q of %q has a separator", name, path)
		}
		exts := Candidates(name)
		if len(exts) != strings.Count(name, ".") {
			t.Fatalf("%q has %d candidates", name, len(exts))
		}
		for i := 1; i < len(exts); i++ {
			if len(exts[i]) <= len(exts[i-1]) {
				t.Fatalf("candidate %q is not longer than %q", exts[i], exts[i-1])
			}
		}
	})
}
