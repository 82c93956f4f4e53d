package zipline

import (
	"bytes"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// SniffLength is the number of leading bytes SniffMimetype looks at.
const SniffLength = 16

type signature struct {
	mime  string
	match func(b []byte) bool
}

func hasAt(b []byte, offset int, prefixes ...[]byte) bool {
	for _, p := range prefixes {
		if len(b) >= offset+len(p) && bytes.Equal(b[offset:offset+len(p)], p) {
			return true
		}
	}
	return false
}

// signatures are checked in order; the first match wins.
var signatures = []signature{
	{"image/jpeg", func(b []byte) bool {
		return hasAt(b, 0, []byte{0xFF, 0xD8, 0xFF}) || hasAt(b, 6, []byte("JFIF"), []byte("Exif"))
	}},
	{"image/png", func(b []byte) bool {
		return hasAt(b, 0, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	}},
	{"image/webp", func(b []byte) bool {
		return hasAt(b, 0, []byte("RIFF")) && hasAt(b, 8, []byte("WEBP"))
	}},
	{"image/gif", func(b []byte) bool {
		return hasAt(b, 0, []byte("GIF87a"), []byte("GIF89a"))
	}},
	{"video/mp4", func(b []byte) bool {
		return hasAt(b, 3, []byte("ftypMSNV"), []byte("ftypisom"))
	}},
	{"video/x-matroska", func(b []byte) bool {
		return hasAt(b, 0, []byte{0x1A, 0x45, 0xDF, 0xA3})
	}},
	{"audio/mpeg", func(b []byte) bool {
		return hasAt(b, 0, []byte{0xFF, 0xFB}, []byte{0xFF, 0xF3}, []byte{0xFF, 0xF2}, []byte("IDC"))
	}},
	{"video/quicktime", func(b []byte) bool {
		return hasAt(b, 0, []byte("moov"))
	}},
}

// SniffMimetype guesses a MIME type from the leading bytes of a file using a
// fixed set of signatures. ok is false when nothing matches.
func SniffMimetype(data []byte) (mimeType string, ok bool) {
	if len(data) > SniffLength {
		data = data[:SniffLength]
	}
	for _, sig := range signatures {
		if sig.match(data) {
			return sig.mime, true
		}
	}
	return "", false
}

// DetectContentType picks the content type of an upload: explicit override,
// then the filename extension, then SniffMimetype, then content detection,
// falling back to application/octet-stream.
func DetectContentType(filename string, data []byte, override string) string {
	if override != "" {
		return override
	}
	if ext := filepath.Ext(filename); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	if sniffed, ok := SniffMimetype(data); ok {
		return sniffed
	}
	if detected := mimetype.Detect(data); detected != nil {
		mt := detected.String()
		if !detected.Is(contentTypeOctetStream) && !strings.HasPrefix(mt, "text/plain") {
			return mt
		}
	}
	return contentTypeOctetStream
}
