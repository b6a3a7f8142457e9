// © Ben Garrett https://github.com/bengarrett/remime
package magic

import (
	"bytes"
	"errors"
	"hash/fnv"
)

var (
	ErrEmptySignature = errors.New("signature pattern contains no bytes")
	ErrTruncatedHex   = errors.New("signature pattern has a hex digit without its pair")
	ErrUnterminated   = errors.New("signature pattern has an unterminated quoted string")
)

// Signature is a sequence of leading bytes that identify a file format.
type Signature []byte

// Matches reports whether every byte of the signature equals the byte of the
// haystack at the same offset. A haystack shorter than the signature never matches.
func (s Signature) Matches(haystack []byte) bool {
	if len(haystack) < len(s) {
		return false
	}
	return bytes.Equal(s, haystack[:len(s)])
}

// Equal reports whether both signatures hold the same bytes.
func (s Signature) Equal(o Signature) bool {
	return bytes.Equal(s, o)
}

// Hash returns the 32-bit FNV-1a hash of the signature bytes.
func (s Signature) Hash() uint32 {
	h := fnv.New32a()
	_, _ = h.Write(s)
	return h.Sum32()
}

// Parse compiles a textual pattern into a signature.
//
// Pairs of hex digits each add a byte, high nibble first.
// Text within single quotes adds its ASCII bytes and understands the
// escapes \n \r \a \b \f \v \? \\ \' \", an unknown escape adds a NUL byte.
// Whitespace between tokens is ignored, as is any other unrecognized character.
//
//	Parse("89 'PNG' 0d0a 1a0a")
func Parse(pattern string) (Signature, error) {
	var b []byte
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\'':
			s, n, err := quoted(pattern[i+1:])
			if err != nil {
				return nil, err
			}
			b = append(b, s...)
			i += n + 1
		case isHex(c):
			if i+1 >= len(pattern) || !isHex(pattern[i+1]) {
				return nil, ErrTruncatedHex
			}
			b = append(b, nibble(c)<<4|nibble(pattern[i+1]))
			i++
		default:
			// whitespace and unknown characters are skipped
		}
	}
	if len(b) == 0 {
		return nil, ErrEmptySignature
	}
	return Signature(b), nil
}

// MustParse is like Parse but panics if the pattern cannot be compiled.
func MustParse(pattern string) Signature {
	s, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return s
}

// quoted returns the bytes of the quoted literal at the start of s,
// which begins after the opening quote, and the index of the closing quote.
func quoted(s string) ([]byte, int, error) {
	var b []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\'':
			return b, i, nil
		case '\\':
			i++
			if i >= len(s) {
				return nil, 0, ErrUnterminated
			}
			b = append(b, escape(s[i]))
		default:
			b = append(b, c)
		}
	}
	return nil, 0, ErrUnterminated
}

func escape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 'a':
		return '\a'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 'v':
		return '\v'
	case '?', '\\', '\'', '"':
		return c
	}
	return 0
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func nibble(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
