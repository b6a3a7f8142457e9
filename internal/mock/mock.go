// © Ben Garrett https://github.com/bengarrett/remime

// Mock is a set of simulated files, tables and databases for unit testing.
package mock

import (
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/bengarrett/remime/pkg/cache"
	"github.com/bengarrett/remime/pkg/platform"
	"github.com/bengarrett/remime/pkg/resolver"
)

const (
	PrivateFile fs.FileMode = 0o600         // PrivateFile mode means only the owner has read/write access.
	PrivateDir  fs.FileMode = 0o700         // PrivateDir mode means only the owner has read/write/dir access.
	NoSuchFile              = "qwertryuiop" // NoSuchFile is a non-existent filename.
	dbName                  = "results.db"
)

// Names of the files in the Tree directory.
const (
	Image   = "image.png"         // Image holds PNG bytes.
	Photo   = "photo.png"         // Photo holds JPEG bytes with the wrong extension.
	Notes   = "notes.txt"         // Notes holds plain text.
	Unknown = "unknown.xyz"       // Unknown holds bytes that match nothing.
	Hidden  = ".hidden.gif"       // Hidden holds GIF bytes.
	Sub     = "sub"               // Sub is a subdirectory.
	Song    = "sub/song.wav"      // Song holds a RIFF WAVE header.
	Secret  = ".secret"           // Secret is a hidden subdirectory.
	Inner   = ".secret/inner.png" // Inner holds PNG bytes.
)

// MimeTypes is the content of the mock mime.types table.
const MimeTypes = `# mime.types for the unit tests
image/png					png
image/jpeg					jpeg jpg jpe
image/gif					gif
text/plain					txt text
audio/x-wav					wav
application/x-tar				tar
application/gzip				gz tgz
`

// PNG returns the leading bytes of a PNG image.
func PNG() []byte {
	return []byte{
		0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a,
		0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
	}
}

// JPEG returns the leading bytes of a JFIF image.
func JPEG() []byte {
	return []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}
}

// GIF returns the leading bytes of a GIF89a image.
func GIF() []byte {
	return []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
}

// WAVE returns a RIFF header of a WAVE audio file.
func WAVE() []byte {
	const size = 36
	b := []byte("RIFF")
	b = binary.LittleEndian.AppendUint32(b, size)
	b = append(b, "WAVEfmt "...)
	return b
}

// Text returns a line of plain text.
func Text() []byte {
	return []byte("the quick brown fox jumps over the lazy dog\n")
}

// Junk returns bytes that match no signature.
func Junk() []byte {
	return []byte("qwertyuiop qwertyuiop")
}

// File writes the bytes to a new file in a temporary directory and returns its path.
func File(t *testing.T, name string, b []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	write(t, path, b)
	return path
}

// Tree creates a temporary directory of files and returns its path.
// The directory holds files with and without matching extensions,
// a hidden file, a subdirectory and a hidden subdirectory.
func Tree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{Sub, Secret} {
		if err := os.MkdirAll(filepath.Join(root, dir), PrivateDir); err != nil {
			t.Fatalf("mock tree directory: %s", err)
		}
	}
	files := map[string][]byte{
		Image:   PNG(),
		Photo:   JPEG(),
		Notes:   Text(),
		Unknown: Junk(),
		Hidden:  GIF(),
		Song:    WAVE(),
		Inner:   PNG(),
	}
	for name, b := range files {
		write(t, filepath.Join(root, filepath.FromSlash(name)), b)
	}
	return root
}

// Table writes the mock mime.types table and returns its path.
func Table(t *testing.T) string {
	t.Helper()
	return File(t, "mime.types", []byte(MimeTypes))
}

// Platform returns a Linux platform that only reads the mock mime.types table.
func Platform(t *testing.T) platform.Platform {
	t.Helper()
	return platform.Platform{OS: "linux", MimeFiles: []string{Table(t)}}
}

// Registry returns the default registry using the mock platform.
func Registry(t *testing.T) *resolver.Registry {
	t.Helper()
	reg, err := resolver.Default(resolver.Config{Platform: Platform(t)})
	if err != nil {
		t.Fatalf("mock registry: %s", err)
	}
	return reg
}

// DB returns the path of a mock cache database that does not yet exist.
func DB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), dbName)
}

// Cache opens a new mock cache database that is closed when the test ends.
func Cache(t *testing.T) *cache.DB {
	t.Helper()
	db, err := cache.Open(DB(t))
	if err != nil {
		t.Fatalf("mock cache: %s", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func write(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.WriteFile(path, b, PrivateFile); err != nil {
		t.Fatalf("mock write %s: %s", path, err)
	}
}
