// © Ben Garrett https://github.com/bengarrett/remime
package magic_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bengarrett/remime/pkg/magic"
	"github.com/bengarrett/remime/pkg/media"
	"github.com/nalgeon/be"
)

func gif(t *testing.T, opts ...magic.Option) *magic.Resolver {
	t.Helper()
	opts = append(opts, magic.WithoutBuiltins())
	r := magic.New(opts...)
	r.Register(
		magic.Record{Type: media.MustNew("image/gif", "gif"), Signatures: []magic.Signature{magic.Signature("GIF8")}},
		magic.Record{Type: media.MustNew("image/x-gif87a"), Signatures: []magic.Signature{magic.Signature("GIF87a")}},
	)
	return r
}

func TestPolicy(t *testing.T) {
	be.Equal(t, magic.Longest.String(), "longest")
	be.Equal(t, magic.Exact.String(), "exact")
	be.Equal(t, magic.Policy(9).String(), "unknown")
	be.Equal(t, magic.New().Policy(), magic.Longest)
	be.Equal(t, magic.New(magic.WithPolicy(magic.Exact)).Policy(), magic.Exact)
}

func TestLongest(t *testing.T) {
	r := gif(t)
	typ, ok := r.Content([]byte("GIF87a"))
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/x-gif87a")
	// the walk fails at 'b' and falls back to the GIF8 ancestor
	typ, ok = r.Content([]byte("GIF87b"))
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/gif")
	// the input runs out mid-walk
	typ, ok = r.Content([]byte("GIF87"))
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/gif")
	_, ok = r.Content([]byte("GIF"))
	be.True(t, !ok)
}

func TestExact(t *testing.T) {
	r := gif(t, magic.WithPolicy(magic.Exact))
	typ, ok := r.Content([]byte("GIF87a"))
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/x-gif87a")
	// no backtracking to the GIF8 ancestor
	_, ok = r.Content([]byte("GIF87b"))
	be.True(t, !ok)
	_, ok = r.Content([]byte("GIF87"))
	be.True(t, !ok)
	// the missing child is below a terminal node
	typ, ok = r.Content([]byte("GIF89a"))
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/gif")
	typ, ok = r.Content([]byte("GIF8"))
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/gif")
}

func TestBuiltins(t *testing.T) {
	for _, p := range []magic.Policy{magic.Longest, magic.Exact} {
		r := magic.New(magic.WithPolicy(p))
		recs := append(magic.Images(), magic.Containers()...)
		for _, rec := range recs {
			be.True(t, len(rec.Signatures) > 0)
			for _, sig := range rec.Signatures {
				typ, ok := r.Content(sig)
				be.True(t, ok)
				be.Equal(t, typ.Full(), rec.Type.Full())
				// trailing data after the signature
				typ, ok = r.Content(append(append([]byte{}, sig...), 0x01, 0x02, 0x03))
				be.True(t, ok)
				be.Equal(t, typ.Full(), rec.Type.Full())
			}
		}
	}
}

func TestJPEG(t *testing.T) {
	jpeg := magic.Images()[4]
	be.Equal(t, jpeg.Type.String(), "image/jpeg")
	be.Equal(t, len(jpeg.Signatures), 32)
	r := magic.New()
	for b := 0xe0; b <= 0xff; b++ {
		typ, ok := r.Content([]byte{0xff, 0xd8, 0xff, byte(b)})
		be.True(t, ok)
		be.Equal(t, typ.String(), "image/jpeg")
	}
	_, ok := r.Content([]byte{0xff, 0xd8, 0xff, 0xdf})
	be.True(t, !ok)
}

func TestShortBuffers(t *testing.T) {
	r := magic.New()
	shortest := r.MaxLen()
	for _, typ := range append(magic.Images(), magic.Containers()...) {
		for _, sig := range typ.Signatures {
			shortest = min(shortest, len(sig))
		}
	}
	be.Equal(t, shortest, 2)
	for _, rec := range append(magic.Images(), magic.Containers()...) {
		for _, sig := range rec.Signatures {
			_, ok := r.Content(sig[:shortest-1])
			be.True(t, !ok)
		}
	}
	_, ok := r.Content(nil)
	be.True(t, !ok)
}

func TestExtension(t *testing.T) {
	r := magic.New()
	typ, ok := r.Extension("png")
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/png")
	typ, ok = r.Extension("tif")
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/tiff")
	_, ok = r.Extension("PNG")
	be.True(t, !ok)
	_, ok = r.Extension(".png")
	be.True(t, !ok)

	// later records replace earlier extensions
	r.Register(magic.Record{Type: media.MustNew("image/apng"), Extensions: []string{"png"}})
	typ, ok = r.Extension("png")
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/apng")
	// but not the content match
	typ, ok = r.Content([]byte("\x89PNG\r\n\x1a\n"))
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/png")
}

func TestCatalog(t *testing.T) {
	r := magic.New(magic.WithoutBuiltins())
	be.Equal(t, len(r.Catalog()), 0)
	be.Equal(t, r.MaxLen(), 0)
	_, ok := r.Content([]byte("anything"))
	be.True(t, !ok)

	png := media.MustNew("image/png", "png")
	r.Register(
		magic.Record{Type: png, Signatures: []magic.Signature{{0x89, 'P', 'N', 'G'}}},
		magic.Record{Type: media.MustNew("text/plain", "txt")},
		magic.Record{Type: png, Signatures: []magic.Signature{{}}},
	)
	cat := r.Catalog()
	be.Equal(t, len(cat), 2)
	be.Equal(t, cat[0].String(), "image/png")
	be.Equal(t, cat[1].String(), "text/plain")
	be.Equal(t, r.MaxLen(), 4)
	cat[0] = media.OctetStream
	be.Equal(t, r.Catalog()[0].String(), "image/png")

	var zero magic.Resolver
	zero.Register(magic.Record{Type: png, Signatures: []magic.Signature{magic.Signature("P")}})
	typ, ok := zero.Content([]byte("PNG"))
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/png")
}

func TestRecordExts(t *testing.T) {
	rec := magic.Record{Type: media.MustNew("image/png", "png")}
	be.Equal(t, rec.Exts(), []string{"png"})
	rec.Extensions = []string{"apng"}
	be.Equal(t, rec.Exts(), []string{"apng"})
}

type failReader struct{}

var errRead = errors.New("read failure")

func (failReader) Read([]byte) (int, error) {
	return 0, errRead
}

func TestReadContent(t *testing.T) {
	r := magic.New()
	rd := strings.NewReader("GIF89a and the rest of the file")
	typ, ok, err := r.ReadContent(rd)
	be.Err(t, err, nil)
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/gif")
	// the read does not rewind
	be.Equal(t, rd.Len(), len("GIF89a and the rest of the file")-r.MaxLen())

	typ, ok, err = r.ReadContent(bytes.NewReader([]byte("BM")))
	be.Err(t, err, nil)
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/bmp")

	_, ok, err = r.ReadContent(bytes.NewReader(nil))
	be.Err(t, err, nil)
	be.True(t, !ok)

	_, ok, err = r.ReadContent(nil)
	be.Err(t, err, nil)
	be.True(t, !ok)

	_, ok, err = r.ReadContent(failReader{})
	be.Err(t, err, errRead)
	be.True(t, !ok)
}

func TestReadContentPadding(t *testing.T) {
	r := magic.New(magic.WithoutBuiltins())
	r.Register(magic.Record{
		Type:       media.MustNew("application/x-padded"),
		Signatures: []magic.Signature{{'A', 0x00, 0x00}, {'A', 'B', 'C', 'D'}},
	})
	// the zero filled remainder of the probe takes part in the match
	typ, ok, err := r.ReadContent(strings.NewReader("A"))
	be.Err(t, err, nil)
	be.True(t, ok)
	be.Equal(t, typ.String(), "application/x-padded")
	_, ok = r.Content([]byte("A"))
	be.True(t, !ok)
}
