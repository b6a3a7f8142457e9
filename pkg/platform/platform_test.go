// © Ben Garrett https://github.com/bengarrett/remime
package platform_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bengarrett/remime/pkg/media"
	"github.com/bengarrett/remime/pkg/platform"
	"github.com/nalgeon/be"
)

const table = `# MIME type			Extensions
application/pdf					pdf
image/png		png
  image/jpeg    jpeg jpg jpe

text/plain	txt	text conf
broken-line	xyz
application/x-empty
`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0o600)
	be.Err(t, err, nil)
	return path
}

func TestHost(t *testing.T) {
	p := platform.Host()
	be.Equal(t, p.OS, runtime.GOOS)
	be.Equal(t, p.Windows(), runtime.GOOS == "windows")
}

func TestPlatform(t *testing.T) {
	p := platform.Platform{OS: "linux", Home: "/home/user"}
	be.True(t, p.Unix())
	be.True(t, !p.Windows())
	be.Equal(t, p.Files(), []string{platform.MimeTypes, filepath.Join("/home/user", ".mime.types")})
	p.Home = ""
	be.Equal(t, p.Files(), []string{"/etc/mime.types"})
	p.MimeFiles = []string{"a", "b"}
	be.Equal(t, p.Files(), []string{"a", "b"})
	be.True(t, platform.Platform{OS: "darwin"}.Unix())
	be.True(t, platform.Platform{OS: "windows"}.Windows())
	be.True(t, !platform.Platform{OS: "plan9"}.Unix())
	be.True(t, !platform.Platform{}.Unix())
}

func TestParse(t *testing.T) {
	types, err := platform.Parse(strings.NewReader(table))
	be.Err(t, err, media.ErrMalformed)
	be.True(t, strings.Contains(err.Error(), "line 7"))
	be.Equal(t, len(types), 5)
	be.Equal(t, types[0].String(), "application/pdf")
	be.Equal(t, types[0].Extensions(), []string{"pdf"})
	be.Equal(t, types[2].String(), "image/jpeg")
	be.Equal(t, types[2].Extensions(), []string{"jpeg", "jpg", "jpe"})
	be.Equal(t, types[3].Extensions(), []string{"txt", "text", "conf"})
	be.Equal(t, len(types[4].Extensions()), 0)

	types, err = platform.Parse(strings.NewReader(""))
	be.Err(t, err, nil)
	be.Equal(t, len(types), 0)
}

func TestNewTable(t *testing.T) {
	tbl := platform.NewTable("test",
		media.MustNew("text/plain", "txt", "asc"),
		media.MustNew("application/pgp-signature", "asc", "sig"),
	)
	be.Equal(t, tbl.Name(), "test")
	be.Equal(t, tbl.Len(), 3)
	be.Equal(t, len(tbl.Catalog()), 2)
	typ, ok := tbl.Extension("asc")
	be.True(t, ok)
	be.Equal(t, typ.String(), "application/pgp-signature")
	_, ok = tbl.Extension("TXT")
	be.True(t, !ok)
}

func TestNewUnix(t *testing.T) {
	_, err := platform.NewUnix(platform.Platform{OS: "windows"})
	be.Err(t, err, platform.ErrUnsupported)

	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.types")
	_, err = platform.NewUnix(platform.Platform{OS: "linux", MimeFiles: []string{missing}})
	be.Err(t, err, platform.ErrNoTable)

	system := write(t, dir, "mime.types", table)
	user := write(t, dir, "user.types", "image/x-portable-network-graphics png\n")
	tbl, err := platform.NewUnix(platform.Platform{
		OS:        "linux",
		MimeFiles: []string{system, missing, user},
	})
	be.Err(t, err, nil)
	be.Equal(t, tbl.Name(), system+", "+user)
	be.Equal(t, len(tbl.Catalog()), 6)
	// the user table overrides the system table
	typ, ok := tbl.Extension("png")
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/x-portable-network-graphics")
	typ, ok = tbl.Extension("jpg")
	be.True(t, ok)
	be.Equal(t, typ.String(), "image/jpeg")
	_, ok = tbl.Extension("xyz")
	be.True(t, !ok)
}

func TestNewUnixHome(t *testing.T) {
	home := t.TempDir()
	write(t, home, ".mime.types", "application/x-home-only  hom\n")
	tbl, err := platform.NewUnix(platform.Platform{OS: "freebsd", Home: home})
	be.Err(t, err, nil)
	typ, ok := tbl.Extension("hom")
	be.True(t, ok)
	be.Equal(t, typ.String(), "application/x-home-only")
}

func TestFromAssociations(t *testing.T) {
	tbl := platform.FromAssociations(platform.RegistryName,
		platform.Association{Ext: "htm", Type: "text/html"},
		platform.Association{Ext: "png", Type: "image/png"},
		platform.Association{Ext: "html", Type: "text/html"},
		platform.Association{Ext: "bad", Type: "nonsense"},
		platform.Association{Ext: "", Type: "text/plain"},
		platform.Association{Ext: "none", Type: ""},
	)
	be.Equal(t, tbl.Name(), "HKEY_CLASSES_ROOT")
	cat := tbl.Catalog()
	be.Equal(t, len(cat), 2)
	be.Equal(t, cat[0].String(), "text/html")
	be.Equal(t, cat[0].Extensions(), []string{"htm", "html"})
	be.Equal(t, cat[1].String(), "image/png")
	_, ok := tbl.Extension("bad")
	be.True(t, !ok)
	be.Equal(t, tbl.Len(), 3)
}

func TestNewWindows(t *testing.T) {
	_, err := platform.NewWindows(platform.Platform{OS: "linux"})
	be.Err(t, err, platform.ErrUnsupported)
	if runtime.GOOS != "windows" {
		_, err = platform.NewWindows(platform.Platform{OS: "windows"})
		be.Err(t, err, platform.ErrUnsupported)
	}
}

func TestSelect(t *testing.T) {
	_, err := platform.Select(platform.Platform{OS: "plan9"})
	be.Err(t, err, platform.ErrUnsupported)
	_, err = platform.Select(platform.Platform{})
	be.Err(t, err, platform.ErrUnsupported)

	dir := t.TempDir()
	path := write(t, dir, "mime.types", table)
	tbl, err := platform.Select(platform.Platform{OS: "darwin", MimeFiles: []string{path}})
	be.Err(t, err, nil)
	be.Equal(t, tbl.Name(), path)
}
