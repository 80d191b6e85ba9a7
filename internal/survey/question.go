package survey

// QuestionType is the closed set of question kinds the engine formats.
// Unrecognized schema types map to QuestionOther and are rendered as
// plain text.
type QuestionType string

const (
	QuestionText         QuestionType = "text"
	QuestionComment      QuestionType = "comment"
	QuestionBoolean      QuestionType = "boolean"
	QuestionRadioGroup   QuestionType = "radiogroup"
	QuestionDropdown     QuestionType = "dropdown"
	QuestionCheckbox     QuestionType = "checkbox"
	QuestionMultipleText QuestionType = "multipletext"
	QuestionMatrix       QuestionType = "matrix"
	QuestionFinding      QuestionType = "finding"
	QuestionOther        QuestionType = "other"
)

// DefaultLocale keys the fallback entry of a localized text map.
const DefaultLocale = "default"

// Choice is one selectable option of a radiogroup/dropdown/checkbox
// question, a matrix row/column, or a multipletext item. Bare string
// choices carry no Text map and display their Value.
type Choice struct {
	Value string
	Text  map[string]string
}

// Display returns the choice's localized text, falling back to the
// default locale, then to the raw value.
func (c Choice) Display(locale string) string {
	if text := localized(c.Text, locale); text != "" {
		return text
	}
	return c.Value
}

// QuestionDefinition is one question node of the schema tree, resolved
// once at load time. Immutable after parsing.
type QuestionDefinition struct {
	Name        string
	Type        QuestionType
	Title       map[string]string
	Description map[string]string
	Choices     []Choice
	Columns     []Choice
	Rows        []Choice
	Items       []Choice
	VisibleIf   string
	HideNumber  bool
	Provision   string
}

// TitleText returns the localized title, falling back to the default
// locale, then to the question name.
func (q *QuestionDefinition) TitleText(locale string) string {
	if text := localized(q.Title, locale); text != "" {
		return text
	}
	return q.Name
}

// IsDependentHidden reports whether the question is a hidden dependent:
// unnumbered and conditioned on another question. Its answer is folded
// into the parent's merged details instead of its own record.
func (q *QuestionDefinition) IsDependentHidden() bool {
	return q.HideNumber && q.VisibleIf != ""
}

// IsRootHidden reports whether the question is unnumbered but stands on
// its own, so it still gets a record without a sequence number.
func (q *QuestionDefinition) IsRootHidden() bool {
	return q.HideNumber && q.VisibleIf == ""
}

func localized(text map[string]string, locale string) string {
	if len(text) == 0 {
		return ""
	}
	if s, ok := text[locale]; ok && s != "" {
		return s
	}
	if s, ok := text[DefaultLocale]; ok && s != "" {
		return s
	}
	return ""
}
