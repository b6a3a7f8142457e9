// © Ben Garrett https://github.com/bengarrett/remime
package magicdb_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bengarrett/remime/pkg/magic"
	"github.com/bengarrett/remime/pkg/magicdb"
	"github.com/nalgeon/be"
)

func TestFormatOf(t *testing.T) {
	be.Equal(t, magicdb.FormatOf("sigs.yaml"), magicdb.YAML)
	be.Equal(t, magicdb.FormatOf("SIGS.YML"), magicdb.YAML)
	be.Equal(t, magicdb.FormatOf("sigs.jsonc"), magicdb.JSONC)
	be.Equal(t, magicdb.FormatOf("sigs.json"), magicdb.JSONC)
	be.Equal(t, magicdb.FormatOf("sigs"), magicdb.JSONC)
	be.Equal(t, magicdb.JSONC.String(), "jsonc")
	be.Equal(t, magicdb.YAML.String(), "yaml")
	be.Equal(t, magicdb.Format(5).String(), "unknown")
}

func TestDecode(t *testing.T) {
	data := []byte(`[
		// comment
		{ "type": "image/png", "magic": [ "89 'PNG'" ], "extensions": [ "png", ], },
	]`)
	entries, err := magicdb.Decode(data, magicdb.JSONC)
	be.Err(t, err, nil)
	be.Equal(t, entries, []magicdb.Entry{
		{Type: "image/png", Magic: []string{"89 'PNG'"}, Extensions: []string{"png"}},
	})

	data = []byte("- type: image/png\n  magic: [\"89 'PNG'\"]\n  extensions: [png]\n")
	entries, err = magicdb.Decode(data, magicdb.YAML)
	be.Err(t, err, nil)
	be.Equal(t, entries, []magicdb.Entry{
		{Type: "image/png", Magic: []string{"89 'PNG'"}, Extensions: []string{"png"}},
	})

	_, err = magicdb.Decode(data, magicdb.Format(5))
	be.Err(t, err, magicdb.ErrFormat)
	_, err = magicdb.Decode([]byte("{"), magicdb.JSONC)
	be.Err(t, err)
	_, err = magicdb.Decode([]byte("- [\n"), magicdb.YAML)
	be.Err(t, err)
}

func TestRecords(t *testing.T) {
	recs, err := magicdb.Records(nil)
	be.Err(t, err, nil)
	be.Equal(t, len(recs), 0)

	recs, err = magicdb.Records([]magicdb.Entry{
		{Type: "image/png", Magic: []string{"89 'PNG'", "zz"}, Extensions: []string{"png"}},
		{Type: "nope"},
		{Type: "text/plain", Extensions: []string{"txt"}},
	})
	be.Err(t, err, magicdb.ErrEntry)
	be.Err(t, err, magicdb.ErrPattern)
	be.Equal(t, len(recs), 2)
	be.Equal(t, recs[0].Type.String(), "image/png")
	be.Equal(t, recs[0].Exts(), []string{"png"})
	be.Equal(t, len(recs[0].Signatures), 1)
	be.Equal(t, string(recs[0].Signatures[0]), "\x89PNG")
	be.Equal(t, recs[1].Type.String(), "text/plain")
	be.Equal(t, len(recs[1].Signatures), 0)
}

func TestLoad(t *testing.T) {
	recs, err := magicdb.Load(filepath.Join("testdata", "extra.yaml"))
	be.Err(t, err, nil)
	be.Equal(t, len(recs), 2)
	be.Equal(t, recs[0].Type.String(), "application/x-remime-test")
	be.Equal(t, len(recs[0].Signatures), 2)
	be.Equal(t, []byte(recs[0].Signatures[1]), []byte{0x52, 0x4d, 0x00, 0x01})
	be.Equal(t, recs[1].Exts(), []string{"xo"})

	recs, err = magicdb.Load(filepath.Join("testdata", "broken.jsonc"))
	be.Err(t, err, magicdb.ErrEntry)
	be.Err(t, err, magicdb.ErrPattern)
	be.Err(t, err, magic.ErrTruncatedHex)
	be.Err(t, err, magic.ErrUnterminated)
	be.Equal(t, len(recs), 2)
	be.Equal(t, recs[0].Type.String(), "application/x-half")
	be.Equal(t, len(recs[0].Signatures), 1)
	be.Equal(t, recs[1].Type.String(), "application/x-whole")

	_, err = magicdb.Load(filepath.Join("testdata", "invalid.jsonc"))
	be.Err(t, err)

	_, err = magicdb.Load(filepath.Join("testdata", "no-such-file.jsonc"))
	be.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBuiltin(t *testing.T) {
	recs, err := magicdb.Builtin()
	be.Err(t, err, nil)
	be.True(t, len(recs) > 30)
	r := magic.New(magic.WithoutBuiltins())
	r.Register(recs...)
	for _, rec := range recs {
		be.True(t, len(rec.Signatures) > 0)
		be.True(t, len(rec.Exts()) > 0)
		for _, sig := range rec.Signatures {
			typ, ok := r.Content(sig)
			be.True(t, ok)
			be.Equal(t, typ.Full(), rec.Type.Full())
		}
	}
	typ, ok := r.Content([]byte("%PDF-1.7\n"))
	be.True(t, ok)
	be.Equal(t, typ.String(), "application/pdf")
	typ, ok = r.Content([]byte("!<arch>\ndebian-binary"))
	be.True(t, ok)
	be.Equal(t, typ.String(), "application/vnd.debian.binary-package")
	typ, ok = r.Content([]byte("!<arch>\n/               "))
	be.True(t, ok)
	be.Equal(t, typ.String(), "application/x-archive")
}

func TestBuiltinMerge(t *testing.T) {
	recs, err := magicdb.Builtin()
	be.Err(t, err, nil)
	r := magic.New()
	r.Register(recs...)
	for _, rec := range append(magic.Images(), magic.Containers()...) {
		for _, sig := range rec.Signatures {
			typ, ok := r.Content(sig)
			be.True(t, ok)
			be.Equal(t, typ.Full(), rec.Type.Full())
		}
	}
}

func TestRIFF(t *testing.T) {
	recs, err := magicdb.RIFF()
	be.Err(t, err, nil)
	be.True(t, len(recs) >= 10)
	for _, rec := range recs {
		be.True(t, len(rec.Signatures) > 0)
		for _, sig := range rec.Signatures {
			be.Equal(t, len(sig), 4)
		}
	}
	be.Equal(t, recs[0].Type.String(), "audio/wav")
}
