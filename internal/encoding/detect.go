package encoding

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Legacy charsets reported by chardet that uploads are decoded from.
var legacy = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
}

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Detect picks the decoder for b. UTF-8 input, with or without BOM, yields
// nil. Unknown legacy input falls back to Windows-1252.
func Detect(b []byte) encoding.Encoding {
	switch {
	case bytes.HasPrefix(b, bomUTF8), utf8.Valid(b):
		return nil
	case bytes.HasPrefix(b, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case bytes.HasPrefix(b, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	}

	if res, err := chardet.NewTextDetector().DetectBest(b); err == nil {
		if enc, ok := legacy[res.Charset]; ok {
			return enc
		}
	}

	return charmap.Windows1252
}

// ToUTF8 decodes b with the encoding Detect picks for it.
func ToUTF8(b []byte) (string, error) {
	enc := Detect(b)
	if enc == nil {
		return string(bytes.TrimPrefix(b, bomUTF8)), nil
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decoding: %w", err)
	}

	return string(out), nil
}

// FileName converts an uploaded file name to UTF-8 and strips any directory
// part. Some clients send multipart file names in their legacy code page.
func FileName(name string) (string, error) {
	decoded, err := ToUTF8([]byte(name))
	if err != nil {
		return "", fmt.Errorf("file name %q: %w", name, err)
	}

	if i := strings.LastIndexAny(decoded, `/\`); i >= 0 {
		decoded = decoded[i+1:]
	}

	return strings.TrimSpace(decoded), nil
}
