package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamesPrial/knowledge-core/pkg/errors"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// testEntity builds a person entity whose state and history agree
func testEntity(id, name string) *types.Entity {
	now := time.Now().UTC().Truncate(time.Second)
	return &types.Entity{
		ID:            id,
		Type:          types.EntityTypePerson,
		CanonicalName: name,
		Aliases:       []string{},
		CurrentState: types.NewFields(
			types.Field("name", types.Text(name)),
			types.Field("career", types.List("Engineer", "Designer")),
		),
		History: []types.VersionEntry{{
			Timestamp: now,
			Operation: types.OperationCreate,
			Fields:    []string{"name", "career"},
			NewValues: map[string]types.Value{
				"name":   types.Text(name),
				"career": types.List("Engineer", "Designer"),
			},
			Source: "conversation",
		}},
		Relationships: []types.Relationship{},
		LastModified:  now,
		Confidence:    1,
	}
}

// runStoreContract exercises the behaviour every Store must share
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("get missing returns nil", func(t *testing.T) {
		store := newStore(t)
		got, err := store.Get(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("put and get", func(t *testing.T) {
		store := newStore(t)
		entity := testEntity("e-1", "Julian Hönig")
		entity.Aliases = []string{"Jules"}
		require.NoError(t, store.Put(ctx, entity))

		got, err := store.Get(ctx, "e-1")
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, entity.ID, got.ID)
		assert.Equal(t, entity.Type, got.Type)
		assert.Equal(t, entity.CanonicalName, got.CanonicalName)
		assert.Equal(t, []string{"Jules"}, got.Aliases)
		assert.Equal(t, []string{"name", "career"}, got.CurrentState.Keys())
		assert.True(t, entity.CurrentState.Equal(got.CurrentState))
		require.Len(t, got.History, 1)
		assert.True(t, got.Replay().Equal(got.CurrentState))
		assert.True(t, entity.LastModified.Equal(got.LastModified))
		assert.Equal(t, 1.0, got.Confidence)
	})

	t.Run("empty id rejected", func(t *testing.T) {
		store := newStore(t)
		err := store.Put(ctx, testEntity("  ", "Nobody"))
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeValidationRequired, errors.GetCode(err))
	})

	t.Run("scan keeps insertion order across updates", func(t *testing.T) {
		store := newStore(t)
		for i := 0; i < 3; i++ {
			require.NoError(t, store.Put(ctx, testEntity(fmt.Sprintf("e-%d", i), fmt.Sprintf("Person %d", i))))
		}

		updated := testEntity("e-0", "Person Zero")
		require.NoError(t, store.Put(ctx, updated))

		var ids, names []string
		require.NoError(t, store.Scan(ctx, func(e *types.Entity) bool {
			ids = append(ids, e.ID)
			names = append(names, e.CanonicalName)
			return true
		}))
		assert.Equal(t, []string{"e-0", "e-1", "e-2"}, ids)
		assert.Equal(t, "Person Zero", names[0])
	})

	t.Run("scan stops early", func(t *testing.T) {
		store := newStore(t)
		for i := 0; i < 3; i++ {
			require.NoError(t, store.Put(ctx, testEntity(fmt.Sprintf("e-%d", i), "P")))
		}

		visited := 0
		require.NoError(t, store.Scan(ctx, func(*types.Entity) bool {
			visited++
			return false
		}))
		assert.Equal(t, 1, visited)
	})

	t.Run("returned entities are copies", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, testEntity("e-1", "Original")))

		got, err := store.Get(ctx, "e-1")
		require.NoError(t, err)
		got.CanonicalName = "Changed"
		got.CurrentState.Set("name", types.Text("Changed"))

		again, err := store.Get(ctx, "e-1")
		require.NoError(t, err)
		assert.Equal(t, "Original", again.CanonicalName)
		name, _ := again.CurrentState.Get("name")
		assert.Equal(t, "Original", name.String())
	})

	t.Run("stats", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, testEntity("p-1", "A")))
		require.NoError(t, store.Put(ctx, testEntity("p-2", "B")))
		org := testEntity("o-1", "Acme Corp")
		org.Type = types.EntityTypeOrganization
		require.NoError(t, store.Put(ctx, org))

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats["entities"])
		assert.Equal(t, 2, stats["type_person"])
		assert.Equal(t, 1, stats["type_organization"])
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestMemoryStore_ScanMayWrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, testEntity("e-1", "A")))

	err := store.Scan(ctx, func(e *types.Entity) bool {
		e.Confidence = 0.5
		require.NoError(t, store.Put(ctx, e))
		return true
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, "e-1")
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.Confidence)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewMemoryStore()
	_, err := store.Get(ctx, "any")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Put(ctx, testEntity("e-1", "A")), context.Canceled)
}
