package service

import (
	"context"
	"fmt"
	"testing"

	"surveysync/internal/logger"
	"surveysync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory RecordRepo. Reads hand out copies so that
// in-flight mutations only reach the store through Update, like a real
// round trip would.
type fakeStore struct {
	containers map[string]*model.Container
	records    []*model.AnswerRecord
	nextID     int

	creates       int
	updates       int
	deactivations int
	links         int
	failLink      bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{containers: map[string]*model.Container{}}
}

func (f *fakeStore) GetContainer(_ context.Context, id string) (*model.Container, error) {
	c, ok := f.containers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) UpsertContainer(_ context.Context, c *model.Container) error {
	f.containers[c.ID] = c
	return nil
}

func (f *fakeStore) ListByContainer(_ context.Context, containerID string) ([]*model.AnswerRecord, error) {
	var out []*model.AnswerRecord
	for _, rec := range f.records {
		if rec.ContainerID == containerID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, rec *model.AnswerRecord) (string, error) {
	f.creates++
	f.nextID++
	rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	cp := *rec
	f.records = append(f.records, &cp)
	return rec.ID, nil
}

func (f *fakeStore) Update(_ context.Context, rec *model.AnswerRecord) error {
	f.updates++
	for i, existing := range f.records {
		if existing.ID == rec.ID {
			cp := *rec
			f.records[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("record %s not found", rec.ID)
}

func (f *fakeStore) Deactivate(_ context.Context, id string) error {
	f.deactivations++
	for _, rec := range f.records {
		if rec.ID == id {
			rec.Active = false
			return nil
		}
	}
	return fmt.Errorf("record %s not found", id)
}

func (f *fakeStore) LinkChildToParent(_ context.Context, childID, parentID string) error {
	if f.failLink {
		return fmt.Errorf("link rejected")
	}
	f.links++
	for _, rec := range f.records {
		if rec.ID == childID {
			rec.ParentID = parentID
			return nil
		}
	}
	return fmt.Errorf("record %s not found", childID)
}

func (f *fakeStore) byName(name string) *model.AnswerRecord {
	for _, rec := range f.records {
		if rec.Name == name {
			return rec
		}
	}
	return nil
}

func (f *fakeStore) seedRecord(rec *model.AnswerRecord) *model.AnswerRecord {
	f.nextID++
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	}
	f.records = append(f.records, rec)
	return rec
}

func newTestReconciler(store *fakeStore) *Reconciler {
	return NewReconciler(store, nil, logger.Nop(), "default")
}

func seedContainer(store *fakeStore, response, schema string) {
	store.containers["c1"] = &model.Container{
		ID:           "c1",
		DisplayName:  "Task 1",
		ResponseText: response,
		SchemaText:   schema,
	}
}

const radioSchema = `{
	"pages": [{"elements": [{
		"name": "q1",
		"type": "radiogroup",
		"title": "Sample",
		"choices": [
			{"value": "MIXTURE_A", "text": {"default": "Mixture A"}},
			{"value": "MIXTURE_B", "text": {"default": "Mixture B"}}
		]
	}]}]
}`

func TestReconcileCreatesFormattedRecord(t *testing.T) {
	store := newFakeStore()
	seedContainer(store, `{"q1": "MIXTURE_A"}`, radioSchema)

	result, err := newTestReconciler(store).Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Updated)

	rec := store.byName("q1")
	require.NotNil(t, rec)
	assert.Equal(t, "Mixture A", rec.Answer)
	assert.Equal(t, NoDetails, rec.Details)
	assert.Equal(t, "Sample", rec.Title)
	assert.Equal(t, 1, rec.Version)
	assert.True(t, rec.Active)
	require.NotNil(t, rec.Number)
	assert.Equal(t, 1, *rec.Number)
}

func TestReconcileIdempotent(t *testing.T) {
	store := newFakeStore()
	seedContainer(store, `{"q1": "MIXTURE_A"}`, radioSchema)
	reconciler := newTestReconciler(store)

	_, err := reconciler.Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)
	updatesAfterFirst := store.updates

	result, err := reconciler.Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.UpToDate)
	assert.Equal(t, updatesAfterFirst, store.updates)
	assert.Equal(t, 1, store.byName("q1").Version)
}

func TestReconcileVersionSemantics(t *testing.T) {
	store := newFakeStore()
	seedContainer(store, `{"q1": "MIXTURE_A"}`, radioSchema)
	reconciler := newTestReconciler(store)

	_, err := reconciler.Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)
	require.Equal(t, 1, store.byName("q1").Version)

	// answer change bumps the version by exactly one
	seedContainer(store, `{"q1": "MIXTURE_B"}`, radioSchema)
	result, err := reconciler.Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, "Mixture B", store.byName("q1").Answer)
	assert.Equal(t, 2, store.byName("q1").Version)

	// metadata-only change writes an update but never bumps the version
	retitled := `{
		"pages": [{"elements": [{
			"name": "q1",
			"type": "radiogroup",
			"title": "Sample v2",
			"choices": [
				{"value": "MIXTURE_A", "text": {"default": "Mixture A"}},
				{"value": "MIXTURE_B", "text": {"default": "Mixture B"}}
			]
		}]}]
	}`
	seedContainer(store, `{"q1": "MIXTURE_B"}`, retitled)
	result, err = reconciler.Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, "Sample v2", store.byName("q1").Title)
	assert.Equal(t, 2, store.byName("q1").Version)
}

func TestReconcileFindingComment(t *testing.T) {
	store := newFakeStore()
	schema := `{"pages": [{"elements": [
		{"name": "f1", "type": "finding", "title": "Observation"}
	]}]}`
	seedContainer(store, `{"f1": {"comments": "leak detected"}}`, schema)

	result, err := newTestReconciler(store).Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	rec := store.byName("f1")
	require.NotNil(t, rec)
	assert.Equal(t, "", rec.Answer)
	assert.Equal(t, `[{"question":"Comment","answer":"leak detected"}]`, rec.Details)
}

func TestReconcileHiddenDependentMergesIntoParent(t *testing.T) {
	store := newFakeStore()
	schema := `{"pages": [{"elements": [
		{"name": "q1", "type": "text", "title": "Color"},
		{"name": "q1a", "type": "text", "title": "Shade", "visibleIf": "{q1} notempty", "hideNumber": true}
	]}]}`
	seedContainer(store, `{"q1": "red base", "q1a": "dark"}`, schema)

	result, err := newTestReconciler(store).Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Merged)

	// no standalone record for the dependent question
	assert.Nil(t, store.byName("q1a"))

	parent := store.byName("q1")
	require.NotNil(t, parent)
	assert.Equal(t, "red base", parent.Answer)
	assert.Equal(t, `[{"question":"Shade","answer":"dark"}]`, parent.Details)
}

func TestReconcileNumberingSkipsHidden(t *testing.T) {
	store := newFakeStore()
	schema := `{"pages": [{"elements": [
		{"name": "qh", "type": "text", "hideNumber": true},
		{"name": "q1", "type": "text"},
		{"name": "q1a", "type": "text", "visibleIf": "{q1} notempty", "hideNumber": true},
		{"name": "q2", "type": "text"}
	]}]}`
	seedContainer(store, `{"qh": "h", "q1": "a", "q1a": "b", "q2": "c"}`, schema)

	_, err := newTestReconciler(store).Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)

	// root hidden questions get a record without a number
	qh := store.byName("qh")
	require.NotNil(t, qh)
	assert.Nil(t, qh.Number)

	require.NotNil(t, store.byName("q1").Number)
	assert.Equal(t, 1, *store.byName("q1").Number)
	require.NotNil(t, store.byName("q2").Number)
	assert.Equal(t, 2, *store.byName("q2").Number)
}

func TestReconcileRecompletionDeactivatesOrphan(t *testing.T) {
	store := newFakeStore()
	schema := `{"pages": [{"elements": [{"name": "q1", "type": "text"}]}]}`
	seedContainer(store, `{"q1": "kept"}`, schema)
	orphan := store.seedRecord(&model.AnswerRecord{
		ContainerID: "c1", Name: "qX", Answer: "stale", Version: 3, Active: true,
	})
	reconciler := newTestReconciler(store)

	// without recompletion the orphan is left alone
	_, err := reconciler.Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)
	assert.True(t, store.byName("qX").Active)

	result, err := reconciler.Reconcile(context.Background(), "c1", Options{Recompletion: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deactivated)
	assert.False(t, store.byName("qX").Active)
	assert.Equal(t, 3, store.byName("qX").Version) // deactivation keeps history
	assert.True(t, store.byName("q1").Active)
	_ = orphan
}

func TestReconcileSimulationWritesNothing(t *testing.T) {
	store := newFakeStore()
	seedContainer(store, `{"q1": "MIXTURE_A"}`, radioSchema)

	result, err := newTestReconciler(store).Reconcile(context.Background(), "c1", Options{Simulate: true, Inventory: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.True(t, result.Simulated)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, model.OutcomeCreated, result.Entries[0].Status)

	assert.Equal(t, 0, store.creates)
	assert.Equal(t, 0, store.updates)
	assert.Empty(t, store.records)
}

func TestReconcileEmptyResponseIsNoop(t *testing.T) {
	store := newFakeStore()
	seedContainer(store, "", radioSchema)

	result, err := newTestReconciler(store).Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created+result.Updated+result.UpToDate+result.Merged)

	_, err = newTestReconciler(store).Reconcile(context.Background(), "missing", Options{})
	assert.Error(t, err)
}

func TestReconcileLinksFollowUpToParent(t *testing.T) {
	store := newFakeStore()
	schema := `{"pages": [{"elements": [
		{"name": "q1", "type": "text"},
		{"name": "q2", "type": "finding", "title": "Follow-up", "visibleIf": "{q1} notempty"}
	]}]}`
	seedContainer(store, `{"q1": "answered", "q2": {"comments": "note"}}`, schema)

	_, err := newTestReconciler(store).Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)

	parent := store.byName("q1")
	child := store.byName("q2")
	require.NotNil(t, parent)
	require.NotNil(t, child)
	assert.Equal(t, parent.ID, child.ParentID)
}

func TestReconcileLinkFailureDoesNotAbort(t *testing.T) {
	store := newFakeStore()
	store.failLink = true
	schema := `{"pages": [{"elements": [
		{"name": "q1", "type": "text"},
		{"name": "q2", "type": "text", "visibleIf": "{q1} notempty"}
	]}]}`
	seedContainer(store, `{"q1": "a", "q2": "b"}`, schema)

	result, err := newTestReconciler(store).Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, "", store.byName("q2").ParentID)
}

func TestReconcileNullEmptyEquivalence(t *testing.T) {
	store := newFakeStore()
	schema := `{"pages": [{"elements": [{"name": "q1", "type": "finding", "title": "Observation"}]}]}`
	seedContainer(store, `{"q1": {}}`, schema)
	number := 1
	store.seedRecord(&model.AnswerRecord{
		ContainerID: "c1", Name: "q1", Answer: "", Details: "",
		Number: &number, Title: "Observation", TitleLocal: "Observation",
		Version: 5, Active: true,
	})

	result, err := newTestReconciler(store).Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)

	// stored empty vs computed sentinel is not dirty
	assert.Equal(t, 1, result.UpToDate)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, store.updates)
	assert.Equal(t, 5, store.byName("q1").Version)
}

func TestReconcileDuplicateRecordsLastWins(t *testing.T) {
	store := newFakeStore()
	schema := `{"pages": [{"elements": [{"name": "q1", "type": "text", "title": "Q"}]}]}`
	seedContainer(store, `{"q1": "answer"}`, schema)
	first := store.seedRecord(&model.AnswerRecord{
		ContainerID: "c1", Name: "q1", Answer: "old", Version: 1, Active: true,
	})
	second := store.seedRecord(&model.AnswerRecord{
		ContainerID: "c1", Name: "Q1", Answer: "old", Version: 2, Active: true,
	})

	result, err := newTestReconciler(store).Reconcile(context.Background(), "c1", Options{Recompletion: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	// the later duplicate carries the update, the earlier one is orphaned
	updated := store.byName("Q1")
	require.NotNil(t, updated)
	assert.Equal(t, second.ID, updated.ID)
	assert.Equal(t, "answer", updated.Answer)
	assert.Equal(t, 3, updated.Version)

	assert.Equal(t, 1, result.Deactivated)
	assert.False(t, store.byName("q1").Active)
	_ = first
}

func TestReconcileReactivatesRecord(t *testing.T) {
	store := newFakeStore()
	seedContainer(store, `{"q1": "MIXTURE_A"}`, radioSchema)
	number := 1
	store.seedRecord(&model.AnswerRecord{
		ContainerID: "c1", Name: "q1", Answer: "Mixture A", Details: NoDetails,
		Number: &number, Title: "Sample", TitleLocal: "Sample",
		Version: 2, Active: false,
	})

	result, err := newTestReconciler(store).Reconcile(context.Background(), "c1", Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	rec := store.byName("q1")
	assert.True(t, rec.Active)
	assert.Equal(t, 2, rec.Version) // reactivation alone is not an answer change
}
