package resolve

import (
	"log/slog"
	"time"

	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// Create builds a new entity from an unmatched candidate. The history is
// seeded with one create entry holding the full initial state.
func (r *Resolver) Create(candidate types.Candidate, source string, now time.Time) *types.Entity {
	state := candidate.State.Clone()

	initial := make(map[string]types.Value, state.Len())
	state.Range(func(field string, value types.Value) bool {
		initial[field] = value
		return true
	})

	entity := &types.Entity{
		ID:            r.newID(),
		Type:          candidate.Type,
		CanonicalName: candidate.CanonicalName,
		Aliases:       []string{},
		CurrentState:  state,
		History: []types.VersionEntry{{
			Timestamp: now,
			Operation: types.OperationCreate,
			Fields:    state.Keys(),
			NewValues: initial,
			Source:    source,
		}},
		Relationships: []types.Relationship{},
		LastModified:  now,
		Confidence:    effectiveConfidence(candidate.Confidence),
	}

	entity.AddAliases(candidate.Aliases...)

	r.logger.Debug("Entity created",
		slog.String("entity_id", entity.ID),
		slog.String("entity_type", string(entity.Type)),
		slog.String("source", source),
	)
	return entity
}
