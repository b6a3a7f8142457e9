// © Ben Garrett https://github.com/bengarrett/remime
package magic

import "github.com/bengarrett/remime/pkg/media"

// JPEG files start with an SOI marker followed by any APPn or other marker,
// FF D8 FF E0 through FF D8 FF FF.
func jpegs() []Signature {
	const first, last = 0xe0, 0xff
	sigs := make([]Signature, 0, last-first+1)
	for b := first; b <= last; b++ {
		sigs = append(sigs, Signature{0xff, 0xd8, 0xff, byte(b)})
	}
	return sigs
}

// Images returns the built-in raster image records.
func Images() []Record {
	tiff := media.MustNew("image/tiff", "nif", "tif", "tiff")
	return []Record{
		{Type: media.MustNew("image/bmp", "bmp", "dib"), Signatures: []Signature{Signature("BM")}},
		{Type: media.MustNew("image/gif", "gif"), Signatures: []Signature{Signature("GIF8")}},
		{Type: tiff, Signatures: []Signature{
			Signature("IIN1"),
			{0x4d, 0x4d, 0x00, 0x2a},
			{0x49, 0x49, 0x2a, 0x00},
		}},
		{Type: media.MustNew("image/png", "png"), Signatures: []Signature{{0x89, 0x50, 0x4e, 0x47}}},
		{Type: media.MustNew("image/jpeg", "jpg", "jpeg", "jpe", "jfif"), Signatures: jpegs()},
		{Type: media.MustNew("image/x-icon", "ico"), Signatures: []Signature{{0x00, 0x00, 0x01, 0x00}}},
		{Type: media.MustNew("image/vnd.adobe.photoshop", "psd"), Signatures: []Signature{Signature("8BPS")}},
		{Type: media.MustNew("image/x-portable-bitmap", "pbm"), Signatures: []Signature{Signature("P1\n"), Signature("P4\n")}},
		{Type: media.MustNew("image/x-portable-graymap", "pgm"), Signatures: []Signature{Signature("P2\n"), Signature("P5\n")}},
		{Type: media.MustNew("image/x-portable-pixmap", "ppm"), Signatures: []Signature{Signature("P3\n"), Signature("P6\n")}},
	}
}

// Containers returns the built-in generic container and compression records.
func Containers() []Record {
	return []Record{
		{Type: media.MustNew("application/zip", "zip"), Signatures: []Signature{
			Signature("PK\x03\x04"),
			Signature("PK\x05\x06"),
			Signature("PK\x07\x08"),
		}},
		{Type: media.MustNew("application/gzip", "gz", "tgz"), Signatures: []Signature{{0x1f, 0x8b}}},
		{Type: media.MustNew("application/x-bzip2", "bz2", "tbz2"), Signatures: []Signature{Signature("BZh")}},
		{Type: media.MustNew("application/x-xz", "xz", "txz"), Signatures: []Signature{{0xfd, '7', 'z', 'X', 'Z', 0x00}}},
		{Type: media.MustNew("application/x-7z-compressed", "7z"), Signatures: []Signature{{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c}}},
		{Type: media.MustNew("application/vnd.rar", "rar"), Signatures: []Signature{Signature("Rar!\x1a\x07")}},
		{Type: media.MustNew("application/zstd", "zst"), Signatures: []Signature{{0x28, 0xb5, 0x2f, 0xfd}}},
		{Type: media.MustNew("application/ogg", "ogx"), Signatures: []Signature{Signature("OggS")}},
		{Type: media.MustNew("video/x-matroska", "mkv", "mka", "mks"), Signatures: []Signature{{0x1a, 0x45, 0xdf, 0xa3}}},
		{Type: media.MustNew("application/vnd.ms-cab-compressed", "cab"), Signatures: []Signature{Signature("MSCF")}},
	}
}
