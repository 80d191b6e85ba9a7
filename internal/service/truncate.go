package service

// Field length limits of the record store, counted in UTF-16 code units
// to match how the store measures text.
const (
	MaxTextLen = 4000
	MaxNameLen = 100
)

// TruncateUTF16 shortens s to at most limit UTF-16 code units, cutting
// on a rune boundary so a surrogate pair is never split: if the next
// rune would not fit whole, the cut backs off before it.
func TruncateUTF16(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	units := 0
	for i, r := range s {
		w := 1
		if r > 0xFFFF {
			w = 2
		}
		if units+w > limit {
			return s[:i]
		}
		units += w
	}
	return s
}

// UTF16Len counts the UTF-16 code units of s.
func UTF16Len(s string) int {
	units := 0
	for _, r := range s {
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return units
}

// truncateField applies a length limit with a warning; truncation is a
// degraded outcome, not an error.
func (s *Reconciler) truncateField(field, value string, limit int) string {
	truncated := TruncateUTF16(value, limit)
	if truncated != value {
		s.log.Warn("field value truncated",
			"field", field,
			"length", UTF16Len(value),
			"limit", limit,
		)
	}
	return truncated
}
