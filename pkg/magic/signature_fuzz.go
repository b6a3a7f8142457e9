// © Ben Garrett https://github.com/bengarrett/remime

//go:build go1.18

package magic

import (
	"errors"
	"testing"
)

// FuzzParse fuzz tests the signature pattern parser.
func FuzzParse(f *testing.F) {
	testCases := []string{
		"89 'PNG' 0d0a 1a0a",
		"'RIFF'",
		`'\n\r\a\b\f\v\?\\\'\"'`,
		"ff d8 ff",
		"abc",
		"'unterminated",
		`'\`,
		"",
		"zz 00 ?? 'x'",
	}
	for _, tc := range testCases {
		f.Add(tc)
	}
	f.Fuzz(func(t *testing.T, pattern string) {
		sig, err := Parse(pattern)
		if err != nil {
			if !errors.Is(err, ErrEmptySignature) &&
				!errors.Is(err, ErrTruncatedHex) &&
				!errors.Is(err, ErrUnterminated) {
				t.Fatalf("unexpected error: %v", err)
			}
			return
		}
		if len(sig) == 0 {
			t.Fatal("a parsed signature should never be empty")
		}
		if !sig.Matches(sig) {
			t.Fatal("a signature should match itself")
		}
	})
}

// FuzzLookup fuzz tests the trie walk of both match policies.
func FuzzLookup(f *testing.F) {
	testCases := [][]byte{
		[]byte("GIF89a"),
		[]byte("\x89PNG\r\n\x1a\n"),
		{0xff, 0xd8, 0xff, 0xe0},
		{},
		{0x00},
	}
	for _, tc := range testCases {
		f.Add(tc)
	}
	longest := New()
	exact := New(WithPolicy(Exact))
	f.Fuzz(func(t *testing.T, b []byte) {
		le, lok := longest.Content(b)
		ee, eok := exact.Content(b)
		// an exact match is always a longest match
		if eok && (!lok || !le.Equal(ee)) {
			t.Fatalf("exact %q and longest %q disagree", ee, le)
		}
		if lok {
			found := false
			for _, rec := range append(Images(), Containers()...) {
				if !rec.Type.Equal(le) {
					continue
				}
				for _, sig := range rec.Signatures {
					if sig.Matches(b) {
						found = true
					}
				}
			}
			if !found {
				t.Fatalf("%q has no signature matching %x", le, b)
			}
		}
	})
}
