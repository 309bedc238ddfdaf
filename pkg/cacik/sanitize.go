package cacik

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// MaxNameLength bounds SanitizeName output, leaving room under the usual
// 255-byte file name limit for a prefix, a counter and an extension.
const MaxNameLength = 200

// SanitizeName turns a scenario or step name into a file name: diacritics
// are dropped, spaces and slashes become '_' and anything else outside
// [A-Za-z0-9._-] is removed. The result is at most MaxNameLength bytes.
func SanitizeName(name string) string {
	folded, _, err := transform.String(stripMarks, strings.TrimSpace(name))
	if err != nil {
		folded = name
	}

	var b strings.Builder
	for _, r := range folded {
		if b.Len() >= MaxNameLength {
			break
		}
		switch {
		case r == ' ' || r == '/' || r == '\\':
			b.WriteByte('_')
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "unnamed"
	}
	return b.String()
}
