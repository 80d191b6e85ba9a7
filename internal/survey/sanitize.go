package survey

import (
	"html"
	"regexp"
	"strings"
)

var (
	// generic tag-name pattern; requires a letter after '<' so that
	// comparison operators like "a < b" survive
	htmlTagRe      = regexp.MustCompile(`</?[A-Za-z][A-Za-z0-9-]*(?:\s[^<>]*)?/?>`)
	controlCharRe  = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
	escapedBreakRe = regexp.MustCompile(`\\+[nrt]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)

	invisibleReplacer = strings.NewReplacer(
		"\u200b", "", // zero width space
		"\u200c", "", // zero width non-joiner
		"\u200d", "", // zero width joiner
		"\u2060", "", // word joiner
		"\ufeff", "", // BOM
	)

	lineBreakReplacer = strings.NewReplacer(
		"\r\n", " ",
		"\n", " ",
		"\r", " ",
		"\t", " ",
	)

	symbolReplacer = strings.NewReplacer(
		"–", "-", // en dash
		"—", "-", // em dash
		"≠", "!=",
		"≥", ">=",
		"≤", "<=",
		"±", "+/-",
		"×", "x",
		"÷", "/",
		"\u00a0", " ", // non-breaking space
		"‘", "'",
		"’", "'",
		"“", `"`,
		"”", `"`,
	)
)

// SanitizeText normalizes formatted answer text for storage: control
// characters and invisible code points are stripped, line-break and tab
// variants (literal and escaped) become single spaces, HTML tags are
// removed and entities decoded, typographic symbols are mapped to ASCII,
// and whitespace runs collapse to one space. The result is idempotent:
// SanitizeText(SanitizeText(s)) == SanitizeText(s).
func SanitizeText(s string) string {
	// entity decoding can surface new tags or escapes, so run to a
	// fixed point; real input settles within a pass or two
	for i := 0; i < 8; i++ {
		next := sanitizePass(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func sanitizePass(s string) string {
	s = invisibleReplacer.Replace(s)
	s = escapedBreakRe.ReplaceAllString(s, " ")
	s = lineBreakReplacer.Replace(s)
	s = controlCharRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = symbolReplacer.Replace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
