package resolve

import (
	"context"
	"log/slog"

	"github.com/JamesPrial/knowledge-core/internal/similarity"
	"github.com/JamesPrial/knowledge-core/internal/storage"
	"github.com/JamesPrial/knowledge-core/pkg/logging"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// DefaultThreshold is the similarity a name must exceed to match
const DefaultThreshold = 0.85

// MatchKind tells which rule matched a candidate
type MatchKind string

const (
	MatchNone    MatchKind = ""
	MatchExact   MatchKind = "exact"
	MatchAlias   MatchKind = "alias"
	MatchSimilar MatchKind = "similar"
)

// Matcher finds the stored entity a candidate refers to
type Matcher struct {
	store     storage.Store
	threshold float64
	logger    *slog.Logger
}

// NewMatcher creates a matcher over store. A threshold outside (0,1] uses
// DefaultThreshold.
func NewMatcher(store storage.Store, threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Matcher{
		store:     store,
		threshold: threshold,
		logger:    logging.GetGlobalLogger("resolve"),
	}
}

// Match returns the first entity in store order whose canonical name equals
// the candidate's, lists it as an alias, or is more similar than the
// threshold. A nil entity means no match.
func (m *Matcher) Match(ctx context.Context, candidate types.Candidate) (*types.Entity, MatchKind, error) {
	name := candidate.CanonicalName

	var (
		found *types.Entity
		kind  = MatchNone
	)
	err := m.store.Scan(ctx, func(e *types.Entity) bool {
		switch {
		case e.CanonicalName == name:
			kind = MatchExact
		case e.HasAlias(name):
			kind = MatchAlias
		case similarity.Above(e.CanonicalName, name, m.threshold):
			kind = MatchSimilar
		default:
			return true
		}
		found = e
		return false
	})
	if err != nil {
		return nil, MatchNone, err
	}

	if found != nil {
		m.logger.DebugContext(ctx, "Candidate matched",
			slog.String("entity_id", found.ID),
			slog.String("match", string(kind)),
		)
	}
	return found, kind, nil
}
