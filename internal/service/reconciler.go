package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"surveysync/internal/cache"
	"surveysync/internal/logger"
	"surveysync/internal/model"
	"surveysync/internal/repository"
	"surveysync/internal/survey"

	"github.com/google/uuid"
)

// Options selects the run mode of one reconciliation.
type Options struct {
	// Simulate computes the full diff and report without issuing any
	// write to the record store.
	Simulate bool
	// Recompletion marks a re-processing of an already completed
	// response; it enables the deactivation pass for orphaned records.
	Recompletion bool
	// Inventory adds the ordered per-question audit list to the result.
	Inventory bool
}

// Reconciler synchronizes the answer records of one container with its
// latest response document. A Reconciler is stateless across runs;
// distinct containers may be reconciled concurrently by independent
// invocations.
type Reconciler struct {
	repo    repository.RecordRepo
	reports cache.ReportCache
	log     *logger.Logger
	locale  string
}

// NewReconciler creates a reconciler. reports may be nil when no report
// caching is wanted (e.g. the one-shot CLI).
func NewReconciler(repo repository.RecordRepo, reports cache.ReportCache, log *logger.Logger, locale string) *Reconciler {
	if locale == "" {
		locale = survey.DefaultLocale
	}
	return &Reconciler{repo: repo, reports: reports, log: log, locale: locale}
}

// recordDiff captures which parts of an existing record differ from the
// freshly computed one. Only answer/details changes bump the version.
type recordDiff struct {
	answer   bool
	details  bool
	number   bool
	metadata bool
	state    bool
}

func (d recordDiff) dirty() bool {
	return d.answer || d.details || d.number || d.metadata || d.state
}

// Reconcile runs the full pipeline for one container: load, index,
// visibility resolution, merged details, create/update, cross-link and
// deactivation. Repeated runs against unchanged input are no-ops.
func (s *Reconciler) Reconcile(ctx context.Context, containerID string, opts Options) (*model.SyncResult, error) {
	container, err := s.repo.GetContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}
	if container == nil {
		return nil, fmt.Errorf("container %s not found", containerID)
	}

	result := &model.SyncResult{
		ContainerID: containerID,
		Simulated:   opts.Simulate,
		RanAt:       time.Now(),
	}

	// absence of data is a valid state, not an error
	if strings.TrimSpace(container.ResponseText) == "" || strings.TrimSpace(container.SchemaText) == "" {
		s.log.Info("container has no response or schema, nothing to reconcile", "container", containerID)
		return result, nil
	}

	resp, err := survey.ParseResponse(container.ResponseText)
	if err != nil {
		return nil, fmt.Errorf("container %s: %w", containerID, err)
	}
	schema, err := survey.ParseSchema(container.SchemaText)
	if err != nil {
		return nil, fmt.Errorf("container %s: %w", containerID, err)
	}

	existing, err := s.repo.ListByContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}
	index := s.indexExisting(existing)

	visible := schema.CollectVisibleQuestions(resp)
	details := s.mergedDetails(visible, resp)

	processed := map[string]bool{}  // record ids touched this run
	recordIDs := map[string]string{} // lower question name -> record id

	number := 0
	for _, q := range visible {
		key := strings.ToLower(q.Name)

		if q.IsDependentHidden() {
			// its answer already lives in the parent's merged details
			parent := survey.ParseParentQuestionName(q.VisibleIf)
			result.Merged++
			s.addEntry(result, opts, q.Name, parent, model.OutcomeMerged)
			continue
		}

		var num *int
		if !q.HideNumber {
			number++
			n := number
			num = &n
		}
		desired := s.buildRecord(container.ID, q, resp, details[key], num)

		rec, ok := index[key]
		if !ok {
			desired.Version = 1
			desired.Active = true
			if opts.Simulate {
				desired.ID = "sim-" + uuid.NewString()
			} else {
				id, err := s.repo.Create(ctx, desired)
				if err != nil {
					return nil, err
				}
				desired.ID = id
			}
			processed[desired.ID] = true
			recordIDs[key] = desired.ID
			result.Created++
			s.addEntry(result, opts, q.Name, desired.Name, model.OutcomeCreated)
			s.log.Processing("answer record created", "container", containerID, "question", q.Name)
			continue
		}

		diff := s.diffRecord(rec, desired)
		if diff.dirty() {
			rec.Answer = desired.Answer
			rec.Details = desired.Details
			rec.Number = desired.Number
			rec.Title = desired.Title
			rec.TitleLocal = desired.TitleLocal
			rec.Provision = desired.Provision
			rec.Active = true
			if diff.answer || diff.details {
				rec.Version++
			}
			if !opts.Simulate {
				if err := s.repo.Update(ctx, rec); err != nil {
					return nil, err
				}
			}
			result.Updated++
			s.addEntry(result, opts, q.Name, rec.Name, model.OutcomeUpdated)
			s.log.Processing("answer record updated", "container", containerID, "question", q.Name,
				"answerChanged", diff.answer, "detailsChanged", diff.details)
		} else {
			result.UpToDate++
			s.addEntry(result, opts, q.Name, rec.Name, model.OutcomeUpToDate)
		}
		processed[rec.ID] = true
		recordIDs[key] = rec.ID
	}

	s.linkFollowUps(ctx, visible, recordIDs, index, opts)

	if opts.Recompletion && !opts.Simulate {
		for _, rec := range existing {
			if processed[rec.ID] || !rec.Active {
				continue
			}
			if err := s.repo.Deactivate(ctx, rec.ID); err != nil {
				return nil, err
			}
			result.Deactivated++
			s.log.Info("answer record deactivated", "container", containerID, "question", rec.Name)
		}
	}

	if !opts.Simulate && s.reports != nil {
		if err := s.reports.Set(ctx, result); err != nil {
			s.log.Warn("failed to cache reconciliation report", "container", containerID, "error", err)
		}
	}

	s.log.Info("reconciliation complete",
		"container", containerID,
		"created", result.Created,
		"updated", result.Updated,
		"upToDate", result.UpToDate,
		"merged", result.Merged,
		"deactivated", result.Deactivated,
		"simulated", opts.Simulate,
	)
	return result, nil
}

// indexExisting keys records by lowercased question name; on duplicates
// the last one seen wins.
func (s *Reconciler) indexExisting(existing []*model.AnswerRecord) map[string]*model.AnswerRecord {
	index := make(map[string]*model.AnswerRecord, len(existing))
	for _, rec := range existing {
		key := strings.ToLower(rec.Name)
		if prev, ok := index[key]; ok {
			s.log.Warn("duplicate answer record for question, keeping the last one",
				"question", rec.Name, "previousId", prev.ID, "id", rec.ID)
		}
		index[key] = rec
	}
	return index
}

// buildRecord computes the desired state of one question's record from
// the current response.
func (s *Reconciler) buildRecord(containerID string, q *survey.QuestionDefinition, resp *survey.ResponseDocument, detailsText string, num *int) *model.AnswerRecord {
	answer := survey.FormatAnswer(resp.GetValue(q.Name), q, s.locale)
	if strings.TrimSpace(detailsText) == "" {
		detailsText = NoDetails
	}
	return &model.AnswerRecord{
		ContainerID: containerID,
		Name:        s.truncateField("name", q.Name, MaxNameLen),
		Answer:      s.truncateField("answer", answer, MaxTextLen),
		Details:     s.truncateField("details", detailsText, MaxTextLen),
		Number:      num,
		Title:       s.truncateField("title", survey.SanitizeText(q.TitleText(survey.DefaultLocale)), MaxTextLen),
		TitleLocal:  s.truncateField("titleLocal", survey.SanitizeText(q.TitleText(s.locale)), MaxTextLen),
		Provision:   s.truncateField("provision", survey.SanitizeText(q.Provision), MaxTextLen),
	}
}

func (s *Reconciler) diffRecord(rec, desired *model.AnswerRecord) recordDiff {
	return recordDiff{
		answer:  !textEqual(rec.Answer, desired.Answer),
		details: !detailsEqual(rec.Details, desired.Details),
		number:  !numberEqual(rec.Number, desired.Number),
		metadata: !textEqual(rec.Title, desired.Title) ||
			!textEqual(rec.TitleLocal, desired.TitleLocal) ||
			!textEqual(rec.Provision, desired.Provision),
		state: !rec.Active,
	}
}

// linkFollowUps writes parent references for visible follow-up questions
// (a visibleIf without hideNumber). Linking is best-effort auxiliary
// data: failures are logged, never propagated.
func (s *Reconciler) linkFollowUps(ctx context.Context, visible []*survey.QuestionDefinition, recordIDs map[string]string, index map[string]*model.AnswerRecord, opts Options) {
	for _, q := range visible {
		if q.VisibleIf == "" || q.HideNumber {
			continue
		}
		parentName := survey.ParseParentQuestionName(q.VisibleIf)
		if parentName == "" {
			s.log.Warn("follow-up question has no parent reference", "question", q.Name, "visibleIf", q.VisibleIf)
			continue
		}
		parentID := recordIDs[strings.ToLower(parentName)]
		if parentID == "" {
			if rec, ok := index[strings.ToLower(parentName)]; ok {
				parentID = rec.ID
			}
		}
		if parentID == "" {
			s.log.Warn("parent record not found for follow-up question",
				"question", q.Name, "parent", parentName)
			continue
		}
		childID := recordIDs[strings.ToLower(q.Name)]
		if childID == "" || opts.Simulate {
			continue
		}
		if err := s.repo.LinkChildToParent(ctx, childID, parentID); err != nil {
			s.log.ErrorWithDetail("failed to link follow-up record to parent", err.Error(),
				"question", q.Name, "parent", parentName)
		}
	}
}

func (s *Reconciler) addEntry(result *model.SyncResult, opts Options, question, target string, status model.OutcomeStatus) {
	if !opts.Inventory {
		return
	}
	result.Entries = append(result.Entries, model.OutcomeEntry{
		Question: question,
		Target:   target,
		Status:   status,
	})
}

// textEqual treats nil/empty and whitespace-only values as equal so
// metadata comparisons don't report false dirt.
func textEqual(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

func numberEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
