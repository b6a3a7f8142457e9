// © Ben Garrett https://github.com/bengarrett/remime

// Package cache stores media type results in a bbolt database.
// A result is keyed by the absolute path of the file and is only
// returned while the size and modification time of the file are unchanged.
package cache

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	bolt "go.etcd.io/bbolt"
	bberr "go.etcd.io/bbolt/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	PrivateFile fs.FileMode = 0o600 // PrivateFile mode means only the owner has read/write access.
	PrivateDir  fs.FileMode = 0o700 // PrivateDir mode means only the owner has read/write/dir access.

	// Timeout is the wait for a file lock on the database.
	Timeout = time.Second

	boltName = "results.db"
	subdir   = "remime"
	header   = 17 // size, modification time and flags
	tabWidth = 8
)

var (
	ErrNotOpen = bberr.ErrDatabaseNotOpen
	ErrCorrupt = errors.New("cache entry is corrupt")
	ErrNoPath  = errors.New("cache needs a file path")
)

// Entry is a stored result.
type Entry struct {
	Size    int64
	ModTime time.Time
	Flags   uint8  // Flags are the provenance flags of the result.
	Type    string // Type is the full media type.
}

// MarshalBinary encodes the entry.
func (e Entry) MarshalBinary() ([]byte, error) {
	b := make([]byte, header, header+len(e.Type))
	binary.BigEndian.PutUint64(b[0:8], uint64(e.Size))
	binary.BigEndian.PutUint64(b[8:16], uint64(e.ModTime.UnixNano()))
	b[16] = e.Flags
	return append(b, e.Type...), nil
}

// UnmarshalBinary decodes the entry.
func (e *Entry) UnmarshalBinary(b []byte) error {
	if len(b) < header {
		return fmt.Errorf("%w: %d bytes", ErrCorrupt, len(b))
	}
	e.Size = int64(binary.BigEndian.Uint64(b[0:8]))
	e.ModTime = time.Unix(0, int64(binary.BigEndian.Uint64(b[8:16])))
	e.Flags = b[16]
	e.Type = string(b[header:])
	return nil
}

// Fresh reports whether the entry still describes the file.
func (e Entry) Fresh(info fs.FileInfo) bool {
	if info == nil {
		return false
	}
	return e.Size == info.Size() && e.ModTime.Equal(info.ModTime())
}

// Location returns the default path of the database file,
// creating its directory when it does not exist.
func Location() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir, err = os.UserHomeDir()
		if err != nil {
			return "", err
		}
	}
	dir = filepath.Join(dir, subdir)
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		if errMk := os.MkdirAll(dir, PrivateDir); errMk != nil {
			return "", fmt.Errorf("cannot create cache directory: %w: %s", errMk, dir)
		}
	}
	return filepath.Join(dir, boltName), nil
}

// DB is an open result cache.
type DB struct {
	db   *bolt.DB
	path string
}

// Open opens or creates the cache database at path.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	db, err := bolt.Open(path, PrivateFile, &bolt.Options{Timeout: Timeout})
	if err != nil {
		return nil, fmt.Errorf("could not open the cache: %w: %s", err, path)
	}
	return &DB{db: db, path: path}, nil
}

// Path returns the location of the database file.
func (c *DB) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Close closes the database.
func (c *DB) Close() error {
	if c == nil || c.db == nil {
		return ErrNotOpen
	}
	return c.db.Close()
}

// Get returns the entry of the named file in the bucket.
// A missing bucket, a missing entry or a stale entry is not an error
// and returns false.
func (c *DB) Get(bucket, name string, info fs.FileInfo) (Entry, bool, error) {
	if c == nil || c.db == nil {
		return Entry{}, false, ErrNotOpen
	}
	key, err := filepath.Abs(name)
	if err != nil {
		return Entry{}, false, err
	}
	var e Entry
	found := false
	err = c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		v := b.Get([]byte(key))
		if v == nil {
			return nil
		}
		if err := e.UnmarshalBinary(v); err != nil {
			return fmt.Errorf("%w: %s", err, key)
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return Entry{}, false, err
	}
	if !e.Fresh(info) {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Put stores the entry of the named file in the bucket.
func (c *DB) Put(bucket, name string, e Entry) error {
	if c == nil || c.db == nil {
		return ErrNotOpen
	}
	key, err := filepath.Abs(name)
	if err != nil {
		return err
	}
	v, err := e.MarshalBinary()
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), v)
	})
}

// Count returns the number of entries in the bucket.
func (c *DB) Count(bucket string) (int, error) {
	if c == nil || c.db == nil {
		return 0, ErrNotOpen
	}
	n := 0
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return bberr.ErrBucketNotFound
		}
		n = b.Stats().KeyN
		return nil
	})
	return n, err
}

// Info returns a printout of the cache location, size and buckets.
func (c *DB) Info() (string, error) {
	if c == nil || c.db == nil {
		return "", ErrNotOpen
	}
	var buf bytes.Buffer
	w := new(tabwriter.Writer)
	w.Init(&buf, 0, tabWidth, 0, '\t', 0)
	fmt.Fprintf(w, "\tLocation:\t%s\n", c.path)
	stat, err := os.Stat(c.path)
	if err != nil {
		w.Flush()
		return buf.String(), err
	}
	fmt.Fprintf(w, "\tFile:\t%s\n", color.Primary.Sprint(humanize.Bytes(safesize(stat.Size()))))
	p := message.NewPrinter(language.English)
	err = c.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			fmt.Fprintf(w, "\tBucket:\t%s\t%s results\n", name,
				p.Sprint(number.Decimal(b.Stats().KeyN)))
			return nil
		})
	})
	w.Flush()
	return buf.String(), err
}

func safesize(i int64) uint64 {
	if i < 0 {
		return 0
	}
	return uint64(i)
}
