package knowledge

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JamesPrial/knowledge-core/internal/storage"
	"github.com/JamesPrial/knowledge-core/pkg/config"
	"github.com/JamesPrial/knowledge-core/pkg/errors"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// fixedClock returns a clock that advances one minute per call
func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("e-%d", n)
	}
}

func newTestEngine(t *testing.T) (*Engine, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	engine := NewEngine(store, Options{
		IDGenerator: sequentialIDs(),
		Now:         fixedClock(),
	})
	return engine, store
}

func stateText(t *testing.T, e *types.Entity, field string) string {
	t.Helper()
	v, ok := e.CurrentState.Get(field)
	require.True(t, ok, "missing field %s", field)
	return v.String()
}

func TestProcessInformation_EndToEnd(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	first, err := engine.ProcessInformation(ctx, "My brother Julian Hönig", "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	julian := first[0]
	assert.Equal(t, types.EntityTypePerson, julian.Type)
	assert.Equal(t, "Julian Hönig", julian.CanonicalName)
	assert.Equal(t, "brother", stateText(t, julian, "relation"))
	assert.Len(t, julian.History, 1)
	assert.Equal(t, DefaultSource, julian.History[0].Source)

	second, err := engine.ProcessInformation(ctx,
		"Julian Hönig was born on September 11, 1976. He works at Apple as an Exterior Designer.", "chat")
	require.NoError(t, err)
	require.Len(t, second, 1)

	updated := second[0]
	assert.Equal(t, julian.ID, updated.ID)
	assert.Equal(t, "September 11, 1976", stateText(t, updated, "birthdate"))
	assert.Equal(t, "Apple", stateText(t, updated, "currentEmployer"))
	assert.Equal(t, "brother", stateText(t, updated, "relation"))
	require.Len(t, updated.History, 2)
	assert.Equal(t, types.OperationUpdate, updated.History[1].Operation)
	assert.Equal(t, "chat", updated.History[1].Source)

	stored, err := store.Get(ctx, julian.ID)
	require.NoError(t, err)
	assert.Len(t, stored.History, 2)
	assert.True(t, stored.Replay().Equal(stored.CurrentState))

	stats, err := engine.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats["entities"])
}

func TestProcessInformation_Idempotent(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)
	text := "My sister Maria Schmidt"

	first, err := engine.ProcessInformation(ctx, text, "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := engine.ProcessInformation(ctx, text, "")
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Len(t, second[0].History, 1)
	assert.Equal(t, first[0].LastModified, second[0].LastModified)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats["entities"])
}

func TestProcessInformation_FuzzyMatch(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	first, err := engine.ProcessInformation(ctx, "My brother Julian Hönig", "")
	require.NoError(t, err)

	second, err := engine.ProcessInformation(ctx, "My brother Julian Honig", "")
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, "Julian Hönig", second[0].CanonicalName)
	assert.Equal(t, "Julian Honig", stateText(t, second[0], "name"))
	assert.Len(t, second[0].History, 2)
}

func TestProcessInformation_NoMentions(t *testing.T) {
	engine, _ := newTestEngine(t)

	entities, err := engine.ProcessInformation(context.Background(), "nothing to see here", "")
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestProcessInformation_SameEntityTwiceInOneText(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	entities, err := engine.ProcessInformation(ctx, "My friend Anna Berg. Anna Berg is great.", "")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "friend", stateText(t, entities[0], "relation"))
}

func TestProcessInformation_LinksRelationships(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	entities, err := engine.ProcessInformation(ctx, "My brother Julian Hönig and my friend Anna Berg", "")
	require.NoError(t, err)
	require.Len(t, entities, 2)

	stored, err := store.Get(ctx, entities[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []types.Relationship{
		{Type: "related_to", TargetID: entities[1].ID, Confidence: 0.7},
		{Type: "knows", TargetID: entities[1].ID, Confidence: 0.7},
	}, stored.Relationships)
	assert.Len(t, stored.History, 1)
}

func TestProcessInformation_StoreError(t *testing.T) {
	store := new(storage.MockStore)
	store.On("Scan", mock.Anything).Return([]*types.Entity{}, nil)
	store.On("Put", mock.Anything, mock.Anything).Return(errors.New(errors.ErrCodeStorageTransaction, "disk full"))

	engine := NewEngine(store, Options{})
	entities, err := engine.ProcessInformation(context.Background(), "My brother Julian Hönig", "")

	assert.Nil(t, entities)
	assert.Equal(t, errors.ErrCodeStorageTransaction, errors.GetCode(err))
	store.AssertExpectations(t)
}

func TestExtractFromConversation(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	assert.Empty(t, engine.ExtractFromConversation(ctx, ""))

	items := engine.ExtractFromConversation(ctx, "We decided to use PostgreSQL for the storage layer.")
	require.NotEmpty(t, items)
	for _, item := range items {
		assert.Equal(t, types.SourceConversation, item.Source)
	}
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	entity, err := engine.Record(ctx, map[string]interface{}{
		"type":    "person",
		"name":    "Julian Hönig",
		"aliases": []interface{}{"Jules"},
		"fields": map[string]interface{}{
			"career": []interface{}{"Engineer"},
			"age":    float64(48),
		},
		"confidence": 0.9,
	})
	require.NoError(t, err)

	assert.Equal(t, "e-1", entity.ID)
	assert.Equal(t, []string{"name", "age", "career"}, entity.CurrentState.Keys())
	assert.Equal(t, []string{"Jules"}, entity.Aliases)
	assert.Equal(t, 0.9, entity.Confidence)
	assert.Equal(t, string(types.SourceManual), entity.History[0].Source)

	merged, err := engine.Record(ctx, map[string]interface{}{
		"type":   "person",
		"name":   "Jules",
		"fields": map[string]interface{}{"career": []string{"Engineer", "Designer"}},
		"source": "import",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ID, merged.ID)
	career, _ := merged.CurrentState.Get("career")
	assert.True(t, types.List("Engineer", "Designer").Equal(career))
	assert.Equal(t, "Jules", stateText(t, merged, "name"))
	require.Len(t, merged.History, 2)
	assert.Equal(t, "import", merged.History[1].Source)
}

func TestRecord_DuplicateAliases(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	entity, err := engine.Record(ctx, map[string]interface{}{
		"type":    "person",
		"name":    "Anne Roe",
		"aliases": []interface{}{"Annie", "Annie", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Annie"}, entity.Aliases)

	stored, err := store.Get(ctx, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Annie"}, stored.Aliases)
}

func TestRecord_Validation(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
		code errors.ErrorCode
	}{
		{"missing name", map[string]interface{}{"type": "person"}, errors.ErrCodeValidationRequired},
		{"missing type", map[string]interface{}{"name": "A"}, errors.ErrCodeValidationRequired},
		{"unknown type", map[string]interface{}{"name": "A", "type": "planet"}, errors.ErrCodeValidationInvalid},
		{"confidence out of range", map[string]interface{}{"name": "A", "type": "person", "confidence": 1.5}, errors.ErrCodeValidationRange},
		{"unsupported field value", map[string]interface{}{"name": "A", "type": "person", "fields": map[string]interface{}{"x": map[string]interface{}{}}}, errors.ErrCodeValidationType},
		{"undecodable", map[string]interface{}{"name": []int{1}}, errors.ErrCodeValidationType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(t)
			entity, err := engine.Record(context.Background(), tt.raw)
			require.Error(t, err)
			assert.Nil(t, entity)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestEngine_PresentAndGet(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	entities, err := engine.ProcessInformation(ctx, "My brother Julian Hönig", "")
	require.NoError(t, err)

	out, err := engine.Present(ctx, entities[0].ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "## Julian Hönig\n"))
	assert.Contains(t, out, "**Relation:** brother\n")

	_, err = engine.Present(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeEntityNotFound, errors.GetCode(err))
}

func TestNewEngineFromSettings(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Detection.Detectors = []string{config.DetectorPerson, config.DetectorOrganization}
	cfg.MergeStrategies = map[string]string{"title": "longest"}

	engine, err := NewEngineFromSettings(storage.NewMemoryStore(), cfg)
	require.NoError(t, err)

	entities, err := engine.ProcessInformation(ctx, "Julian Hönig works at Acme Corp", "")
	require.NoError(t, err)

	var kinds []string
	for _, e := range entities {
		kinds = append(kinds, string(e.Type))
	}
	assert.Contains(t, kinds, "person")
	assert.Contains(t, kinds, "organization")

	cfg.MergeStrategies = map[string]string{"title": "newest"}
	_, err = NewEngineFromSettings(storage.NewMemoryStore(), cfg)
	assert.Equal(t, errors.ErrCodeConfiguration, errors.GetCode(err))

	_, err = NewEngineFromSettings(storage.NewMemoryStore(), nil)
	assert.Error(t, err)
}
