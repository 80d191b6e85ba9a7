package survey

import (
	"fmt"
	"strings"
)

// SchemaDocument wraps one parsed schema tree (pages containing panels
// and questions). Questions are flattened in declaration order at load
// time; the tree is not re-inspected afterwards.
type SchemaDocument struct {
	questions []*QuestionDefinition
	byName    map[string]*QuestionDefinition
}

// ParseSchema decodes the raw schema text. Empty input yields an empty
// document; anything else must be a JSON object with a "pages" array.
func ParseSchema(text string) (*SchemaDocument, error) {
	doc := &SchemaDocument{byName: map[string]*QuestionDefinition{}}
	if strings.TrimSpace(text) == "" {
		return doc, nil
	}
	root, err := ParseValue([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("invalid schema document: %w", err)
	}
	if root.IsNull() {
		return doc, nil
	}
	if _, ok := root.AsObject(); !ok {
		return nil, fmt.Errorf("invalid schema document: root is not an object")
	}
	pages, _ := root.Field("pages").AsArray()
	for _, page := range pages {
		doc.collectElements(page.Field("elements"))
		// some authoring tools emit "questions" instead of "elements"
		doc.collectElements(page.Field("questions"))
	}
	return doc, nil
}

// collectElements walks one container level, flattening nested panels in
// declaration order.
func (d *SchemaDocument) collectElements(elements Value) {
	items, ok := elements.AsArray()
	if !ok {
		return
	}
	for _, el := range items {
		kind, _ := el.Field("type").AsString()
		if kind == "panel" {
			d.collectElements(el.Field("elements"))
			continue
		}
		q := parseQuestion(el)
		if q == nil {
			continue
		}
		d.questions = append(d.questions, q)
		d.byName[strings.ToLower(q.Name)] = q
	}
}

func parseQuestion(el Value) *QuestionDefinition {
	name, _ := el.Field("name").AsString()
	if name == "" {
		return nil
	}
	q := &QuestionDefinition{
		Name:        name,
		Type:        parseQuestionType(el.Field("type")),
		Title:       parseLocalizedText(el.Field("title")),
		Description: parseLocalizedText(el.Field("description")),
		Choices:     parseChoices(el.Field("choices")),
		Columns:     parseChoices(el.Field("columns")),
		Rows:        parseChoices(el.Field("rows")),
		Items:       parseChoices(el.Field("items")),
		VisibleIf:   textField(el, "visibleIf"),
		Provision:   textField(el, "provision"),
	}
	if hide, ok := el.Field("hideNumber").AsBool(); ok {
		q.HideNumber = hide
	}
	return q
}

func parseQuestionType(v Value) QuestionType {
	kind, _ := v.AsString()
	switch t := QuestionType(strings.ToLower(kind)); t {
	case QuestionText, QuestionComment, QuestionBoolean, QuestionRadioGroup,
		QuestionDropdown, QuestionCheckbox, QuestionMultipleText,
		QuestionMatrix, QuestionFinding:
		return t
	}
	return QuestionOther
}

// parseLocalizedText accepts either a plain string or a locale-to-text
// object and returns a locale map, keyed "default" for the plain form.
func parseLocalizedText(v Value) map[string]string {
	if s, ok := v.AsString(); ok {
		if s == "" {
			return nil
		}
		return map[string]string{DefaultLocale: s}
	}
	obj, ok := v.AsObject()
	if !ok {
		return nil
	}
	text := make(map[string]string, len(obj))
	for locale, val := range obj {
		if s, ok := val.AsString(); ok && s != "" {
			text[locale] = s
		}
	}
	if len(text) == 0 {
		return nil
	}
	return text
}

// parseChoices accepts a sequence of bare strings or {value, text}
// objects, preserving declaration order.
func parseChoices(v Value) []Choice {
	items, ok := v.AsArray()
	if !ok {
		return nil
	}
	choices := make([]Choice, 0, len(items))
	for _, item := range items {
		if s, ok := item.AsString(); ok {
			choices = append(choices, Choice{Value: s})
			continue
		}
		if _, ok := item.AsObject(); !ok {
			continue
		}
		value := textField(item, "value")
		if value == "" {
			// multipletext items key on "name"
			value = textField(item, "name")
		}
		choices = append(choices, Choice{
			Value: value,
			Text:  parseLocalizedText(item.Field("text")),
		})
	}
	if len(choices) == 0 {
		return nil
	}
	return choices
}

func textField(el Value, name string) string {
	s, _ := el.Field(name).AsString()
	return s
}

// ResolveQuestion looks a question up by name, case-insensitively.
func (d *SchemaDocument) ResolveQuestion(name string) *QuestionDefinition {
	return d.byName[strings.ToLower(name)]
}

// Questions returns every question in schema declaration order.
func (d *SchemaDocument) Questions() []*QuestionDefinition {
	return d.questions
}

// CollectVisibleQuestions returns, in schema declaration order, each
// question whose visibleIf condition (if any) holds against the response.
func (d *SchemaDocument) CollectVisibleQuestions(resp *ResponseDocument) []*QuestionDefinition {
	visible := make([]*QuestionDefinition, 0, len(d.questions))
	for _, q := range d.questions {
		if EvaluateVisibleIf(q.VisibleIf, resp) {
			visible = append(visible, q)
		}
	}
	return visible
}
