package service

import (
	"encoding/json"
	"strings"

	"surveysync/internal/model"
	"surveysync/internal/survey"
)

const (
	// NoDetails is stored instead of empty details text so later runs
	// don't flip between empty string and null and report false dirt.
	NoDetails = "N/A"

	commentLabel = "Comment"
	detailLabel  = "Detail"
)

// mergedDetails recomputes every visible question's merged-detail list
// from the current response: the question's own inline comment and
// detail sibling first, then the answers of its visible hidden
// dependents in schema order. Keys are lowercased question names; values
// are the serialized JSON lists.
func (s *Reconciler) mergedDetails(visible []*survey.QuestionDefinition, resp *survey.ResponseDocument) map[string]string {
	entries := map[string][]model.DetailEntry{}

	for _, q := range visible {
		key := strings.ToLower(q.Name)
		if q.Type == survey.QuestionFinding || q.Type == survey.QuestionMultipleText {
			if comment := survey.SanitizeText(resp.GetComment(q.Name)); comment != "" {
				entries[key] = append(entries[key], model.DetailEntry{Question: commentLabel, Answer: comment})
			}
		}
		if detail := survey.SanitizeText(resp.GetDetailValue(q.Name)); detail != "" {
			entries[key] = append(entries[key], model.DetailEntry{Question: detailLabel, Answer: detail})
		}
	}

	// dependents append after the parent's own entries regardless of
	// declaration order
	for _, q := range visible {
		if !q.IsDependentHidden() {
			continue
		}
		parent := survey.ParseParentQuestionName(q.VisibleIf)
		if parent == "" {
			s.log.Warn("hidden dependent question has no parent reference",
				"question", q.Name, "visibleIf", q.VisibleIf)
			continue
		}
		answer := survey.FormatAnswer(resp.GetValue(q.Name), q, s.locale)
		if answer == "" {
			continue
		}
		key := strings.ToLower(parent)
		entries[key] = append(entries[key], model.DetailEntry{
			Question: survey.SanitizeText(q.TitleText(s.locale)),
			Answer:   answer,
		})
	}

	details := make(map[string]string, len(entries))
	for key, list := range entries {
		data, err := json.Marshal(list)
		if err != nil {
			s.log.Warn("failed to serialize merged details", "question", key, "error", err)
			continue
		}
		details[key] = string(data)
	}
	return details
}

// detailsEqual compares stored and computed details text, treating
// empty, whitespace-only and the no-value sentinel as equivalent.
func detailsEqual(stored, computed string) bool {
	return normalizeDetails(stored) == normalizeDetails(computed)
}

func normalizeDetails(s string) string {
	s = strings.TrimSpace(s)
	if s == NoDetails {
		return ""
	}
	return s
}
