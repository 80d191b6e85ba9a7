package survey

import (
	"fmt"
	"sort"
	"strings"
)

const (
	pairSeparator = "; "
	listSeparator = ", "

	// matrixResultRow marks a single summarizing matrix row whose label
	// would be redundant in the rendered answer
	matrixResultRow = "Result"
)

// FormatAnswer renders a raw answer value as human-readable text for the
// given question definition. Findings render empty: their content lives
// in the merged-details side channel. All output is sanitized.
func FormatAnswer(value Value, q *QuestionDefinition, locale string) string {
	if q == nil {
		return SanitizeText(value.Text())
	}
	switch q.Type {
	case QuestionFinding:
		return ""
	case QuestionRadioGroup, QuestionDropdown:
		if value.IsEmpty() {
			return ""
		}
		return SanitizeText(resolveChoice(q.Choices, value.Text(), locale))
	case QuestionCheckbox:
		return SanitizeText(formatCheckbox(value, q, locale))
	case QuestionMultipleText:
		return SanitizeText(formatMultipleText(value, q))
	case QuestionMatrix:
		return SanitizeText(formatMatrix(value, q, locale))
	default:
		return SanitizeText(value.Text())
	}
}

// resolveChoice maps a selected raw value to its display text, handling
// both bare-value and {value, text} choice shapes. Unknown values pass
// through unchanged.
func resolveChoice(choices []Choice, raw string, locale string) string {
	for _, c := range choices {
		if c.Value == raw {
			return c.Display(locale)
		}
	}
	return raw
}

func formatCheckbox(value Value, q *QuestionDefinition, locale string) string {
	selected, ok := value.AsArray()
	if !ok {
		if value.IsEmpty() {
			return ""
		}
		return resolveChoice(q.Choices, value.Text(), locale)
	}
	parts := make([]string, 0, len(selected))
	for _, el := range selected {
		parts = append(parts, resolveChoice(q.Choices, el.Text(), locale))
	}
	return strings.Join(parts, listSeparator)
}

// formatMultipleText renders the answered items as `name: "value"`
// pairs in item declaration order, then any unmapped keys in lexical
// order. Names containing separator characters are quoted.
func formatMultipleText(value Value, q *QuestionDefinition) string {
	fields, ok := value.AsObject()
	if !ok {
		return value.Text()
	}
	var parts []string
	seen := map[string]bool{"comments": true} // inline comment is merged-details data
	for _, item := range q.Items {
		if v, ok := fields[item.Value]; ok && !v.IsEmpty() {
			parts = append(parts, formatPair(item.Value, v.Text()))
		}
		seen[item.Value] = true
	}
	for _, key := range sortedKeys(fields) {
		if seen[key] {
			continue
		}
		if v := fields[key]; !v.IsEmpty() {
			parts = append(parts, formatPair(key, v.Text()))
		}
	}
	return strings.Join(parts, pairSeparator)
}

func formatPair(name, value string) string {
	if strings.ContainsAny(name, `:;"`) {
		name = fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("%s: %q", name, value)
}

// formatMatrix renders each answered row as "row label: column label",
// resolving both through the definition's rows/columns. A row keyed
// "Result" (or ending in ".Result") renders as just the column label.
func formatMatrix(value Value, q *QuestionDefinition, locale string) string {
	rows, ok := value.AsObject()
	if !ok {
		return value.Text()
	}
	var parts []string
	emit := func(key string, v Value) {
		if v.IsEmpty() {
			return
		}
		column := resolveChoice(q.Columns, v.Text(), locale)
		if key == matrixResultRow || strings.HasSuffix(key, "."+matrixResultRow) {
			parts = append(parts, column)
			return
		}
		parts = append(parts, resolveChoice(q.Rows, key, locale)+": "+column)
	}
	seen := map[string]bool{}
	for _, row := range q.Rows {
		if v, ok := rows[row.Value]; ok {
			emit(row.Value, v)
		}
		seen[row.Value] = true
	}
	for _, key := range sortedKeys(rows) {
		if !seen[key] {
			emit(key, rows[key])
		}
	}
	return strings.Join(parts, pairSeparator)
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
