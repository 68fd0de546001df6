// Package storage holds the entity stores the resolver reads and writes.
package storage

import (
	"context"

	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// Store is the entity storage contract. Scan visits entities in the order
// they were first stored, which makes first-match lookups deterministic.
type Store interface {
	// Get returns the entity with id, or nil and no error when it is unknown
	Get(ctx context.Context, id string) (*types.Entity, error)
	// Put inserts or replaces the entity with the same id. A replaced entity
	// keeps its original scan position.
	Put(ctx context.Context, entity *types.Entity) error
	// Scan calls fn for every entity in insertion order until fn returns false
	Scan(ctx context.Context, fn func(*types.Entity) bool) error
	// Stats returns "entities" and one "type_<type>" count per entity type
	Stats(ctx context.Context) (map[string]int, error)
	Close() error
}
