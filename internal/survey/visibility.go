package survey

import (
	"regexp"
	"strings"
)

// visibleIf expressions reference another question as {name}, optionally
// compared to a quoted literal: {q1} = 'red', {q1} <> 'red',
// {q1} notempty, {q1} empty. Composite conditions are not disambiguated;
// only the first referenced question is considered.
var (
	questionRefRe = regexp.MustCompile(`\{([^{}]+)\}`)
	conditionRe   = regexp.MustCompile(`^\s*\{([^{}]+)\}\s*(?:(=|<>|!=)\s*'([^']*)'|(notempty|empty))?\s*$`)
)

// ParseParentQuestionName extracts the first question name referenced by
// a visibleIf expression, or "" when none is present.
func ParseParentQuestionName(expr string) string {
	m := questionRefRe.FindStringSubmatch(expr)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// EvaluateVisibleIf decides whether a question is visible for the given
// response. An absent expression is always visible. Expressions beyond
// the single-condition grammar fall back to "the referenced question has
// an answer"; full boolean evaluation is the schema author's concern.
func EvaluateVisibleIf(expr string, resp *ResponseDocument) bool {
	if strings.TrimSpace(expr) == "" {
		return true
	}
	m := conditionRe.FindStringSubmatch(expr)
	if m == nil {
		name := ParseParentQuestionName(expr)
		if name == "" {
			return true
		}
		return resp.HasValue(name)
	}
	name := strings.TrimSpace(m[1])
	operator, literal, keyword := m[2], m[3], m[4]
	switch {
	case operator == "=":
		return answerMatches(resp.GetValue(name), literal)
	case operator == "<>" || operator == "!=":
		return resp.HasValue(name) && !answerMatches(resp.GetValue(name), literal)
	case keyword == "empty":
		return !resp.HasValue(name)
	default: // notempty, or a bare {name} reference
		return resp.HasValue(name)
	}
}

// answerMatches compares an answer against a condition literal. Array
// answers match when any element does.
func answerMatches(v Value, literal string) bool {
	if arr, ok := v.AsArray(); ok {
		for _, el := range arr {
			if el.Text() == literal {
				return true
			}
		}
		return false
	}
	return !v.IsEmpty() && v.Text() == literal
}
