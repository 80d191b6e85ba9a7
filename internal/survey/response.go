package survey

import (
	"fmt"
	"sort"
	"strings"
)

// DetailSuffix marks the free-text elaboration sibling of a question's
// answer ("<name>-Detail").
const DetailSuffix = "-Detail"

// ResponseDocument wraps one parsed answer document: values keyed by
// question name, with optional detail-suffixed siblings. An empty
// document is a valid state, not an error.
type ResponseDocument struct {
	values map[string]Value
}

// ParseResponse decodes the raw response text. Empty or all-whitespace
// input yields an empty document; anything else must be a JSON object.
func ParseResponse(text string) (*ResponseDocument, error) {
	doc := &ResponseDocument{values: map[string]Value{}}
	if strings.TrimSpace(text) == "" {
		return doc, nil
	}
	root, err := ParseValue([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("invalid response document: %w", err)
	}
	if root.IsNull() {
		return doc, nil
	}
	obj, ok := root.AsObject()
	if !ok {
		return nil, fmt.Errorf("invalid response document: root is not an object")
	}
	doc.values = obj
	return doc, nil
}

// GetValue returns the answer stored under the question name, or null.
func (d *ResponseDocument) GetValue(name string) Value {
	return d.values[name]
}

// HasValue reports whether the question has a non-empty answer.
func (d *ResponseDocument) HasValue(name string) bool {
	v, ok := d.values[name]
	return ok && !v.IsEmpty()
}

// GetDetailValue returns the "<name>-Detail" sibling text, if any.
func (d *ResponseDocument) GetDetailValue(name string) string {
	v, ok := d.values[name+DetailSuffix]
	if !ok || v.IsEmpty() {
		return ""
	}
	return v.Text()
}

// HasDetailValue reports whether a non-empty detail sibling exists.
func (d *ResponseDocument) HasDetailValue(name string) bool {
	return d.GetDetailValue(name) != ""
}

// GetComment returns the inline "comments" field of an object-shaped
// answer (finding and multipletext questions carry one).
func (d *ResponseDocument) GetComment(name string) string {
	v := d.values[name].Field("comments")
	if v.IsEmpty() {
		return ""
	}
	return v.Text()
}

// GetAllQuestionNames lists every answered question name, excluding
// detail-suffixed keys, in lexical order.
func (d *ResponseDocument) GetAllQuestionNames() []string {
	names := make([]string, 0, len(d.values))
	for name := range d.values {
		if strings.HasSuffix(name, DetailSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
