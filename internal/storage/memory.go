package storage

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/JamesPrial/knowledge-core/pkg/errors"
	"github.com/JamesPrial/knowledge-core/pkg/logging"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// MemoryStore keeps entities in a map with a separate insertion order.
// Entities are copied on the way in and out, so callers never share state
// with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	entities map[string]*types.Entity
	order    []string
	logger   *slog.Logger
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	logger := logging.GetGlobalLogger("storage.memory")

	logger.Info("Creating memory store")

	return &MemoryStore{
		entities: make(map[string]*types.Entity),
		logger:   logger,
	}
}

// Get returns a copy of the entity with id
func (m *MemoryStore) Get(ctx context.Context, id string) (*types.Entity, error) {
	select {
	case <-ctx.Done():
		m.logger.WarnContext(ctx, "Get entity operation canceled")
		return nil, ctx.Err()
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	entity, exists := m.entities[id]
	if !exists {
		m.logger.DebugContext(ctx, "Entity not found in memory",
			slog.String("entity_id", id),
		)
		return nil, nil
	}

	return entity.Clone(), nil
}

// Put stores a copy of entity
func (m *MemoryStore) Put(ctx context.Context, entity *types.Entity) error {
	if entity == nil || strings.TrimSpace(entity.ID) == "" {
		return errors.New(errors.ErrCodeValidationRequired, "Entity ID cannot be empty or whitespace-only")
	}

	select {
	case <-ctx.Done():
		m.logger.WarnContext(ctx, "Put entity operation canceled")
		return ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entities[entity.ID]; !exists {
		m.order = append(m.order, entity.ID)
	}
	m.entities[entity.ID] = entity.Clone()

	m.logger.DebugContext(ctx, "Entity stored in memory",
		slog.String("entity_id", entity.ID),
		slog.Int("history_entries", len(entity.History)),
		slog.Int("total_entities", len(m.entities)),
	)
	return nil
}

// Scan visits copies of all entities in insertion order. The store is not
// locked while fn runs, so fn may call back into it.
func (m *MemoryStore) Scan(ctx context.Context, fn func(*types.Entity) bool) error {
	m.mu.RLock()
	snapshot := make([]*types.Entity, 0, len(m.order))
	for _, id := range m.order {
		snapshot = append(snapshot, m.entities[id].Clone())
	}
	m.mu.RUnlock()

	for _, entity := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !fn(entity) {
			break
		}
	}
	return nil
}

// Stats returns entity counts
func (m *MemoryStore) Stats(ctx context.Context) (map[string]int, error) {
	timer := logging.StartTimer(ctx, m.logger, "stats")
	defer timer.End()

	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := map[string]int{
		"entities": len(m.entities),
	}
	for _, entity := range m.entities {
		if entity.Type != "" {
			stats["type_"+string(entity.Type)]++
		}
	}
	return stats, nil
}

// Close is a no-op for the memory store
func (m *MemoryStore) Close() error {
	return nil
}
