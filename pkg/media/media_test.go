// © Ben Garrett https://github.com/bengarrett/remime
package media_test

import (
	"testing"

	"github.com/bengarrett/remime/pkg/media"
	"github.com/nalgeon/be"
)

func TestNew(t *testing.T) {
	_, err := media.New("")
	be.Err(t, err, media.ErrMalformed)
	_, err = media.New("png")
	be.Err(t, err, media.ErrMalformed)

	png, err := media.New("image/png", "png")
	be.Err(t, err, nil)
	be.Equal(t, png.String(), "image/png")
	be.Equal(t, png.Full(), "image/png")
	be.Equal(t, png.Main(), "image")
	be.Equal(t, png.SubType(), "png")
	be.Equal(t, png.Tree(), "")
	be.Equal(t, png.Suffix(), "")
	be.Equal(t, png.Parameters(), "")
	be.Equal(t, png.Extensions(), []string{"png"})
	be.True(t, png.HasExtension("png"))
	be.True(t, !png.HasExtension("PNG"))
}

func TestNewParameters(t *testing.T) {
	txt, err := media.New("text/plain;charset=utf-8")
	be.Err(t, err, nil)
	be.Equal(t, txt.Main(), "text")
	be.Equal(t, txt.SubType(), "plain")
	be.Equal(t, txt.Parameters(), "charset=utf-8")
	be.Equal(t, txt.NoParams(), "text/plain")
	be.Equal(t, txt.String(), "text/plain")
	be.Equal(t, txt.Full(), "text/plain;charset=utf-8")
	be.Equal(t, len(txt.Extensions()), 0)
}

func TestNewTreeSuffix(t *testing.T) {
	pe := media.MustNew("application/vnd.microsoft.portable-executable")
	be.Equal(t, pe.Tree(), "vnd.microsoft")
	be.Equal(t, pe.SubType(), "portable-executable")

	gltf := media.MustNew("model/gltf+json")
	be.Equal(t, gltf.SubType(), "gltf")
	be.Equal(t, gltf.Suffix(), "json")

	svg := media.MustNew("image/svg+xml;charset=utf-8")
	be.Equal(t, svg.SubType(), "svg")
	be.Equal(t, svg.Suffix(), "xml")
	be.Equal(t, svg.Parameters(), "charset=utf-8")
	be.Equal(t, svg.NoParams(), "image/svg+xml")

	odd := media.MustNew("text/plain;note=a+b")
	be.Equal(t, odd.SubType(), "plain")
	be.Equal(t, odd.Suffix(), "")
	be.Equal(t, odd.Parameters(), "note=a+b")
}

func TestEqual(t *testing.T) {
	a := media.MustNew("text/plain;charset=utf-8")
	b := media.MustNew("text/plain;charset=utf-8", "txt")
	c := media.MustNew("text/plain")
	be.True(t, a.Equal(b))
	be.True(t, !a.Equal(c))
	be.True(t, a.Same(c))
	be.True(t, !a.IsZero())
	be.True(t, media.Type{}.IsZero())
}

func TestImmutable(t *testing.T) {
	exts := []string{"jpg", "jpeg"}
	jpeg := media.MustNew("image/jpeg", exts...)
	exts[0] = "changed"
	got := jpeg.Extensions()
	be.Equal(t, got, []string{"jpg", "jpeg"})
	got[1] = "changed"
	be.Equal(t, jpeg.Extensions(), []string{"jpg", "jpeg"})
}

func TestOctetStream(t *testing.T) {
	be.Equal(t, media.OctetStream.String(), "application/octet-stream")
	be.Equal(t, media.OctetStream.Extensions(),
		[]string{"bin", "lha", "lzh", "exe", "class", "so", "dll", "img", "iso"})
}

func TestMustNew(t *testing.T) {
	defer func() {
		r := recover()
		be.True(t, r != nil)
	}()
	_ = media.MustNew("malformed")
}
