package resolve

import (
	"strings"

	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// Relationship types written by Link
const (
	RelationWorksAt   = "works_at"
	RelationManages   = "manages"
	RelationReportsTo = "reports_to"
	RelationLocatedIn = "located_in"
	RelationRelatedTo = "related_to"
	RelationKnows     = "knows"
)

// LinkConfidence is the confidence of a relationship inferred from a cue phrase
const LinkConfidence = 0.7

type relationCue struct {
	phrase   string
	relation string
}

// Cue phrases, matched case-insensitively in this order
var relationCues = []relationCue{
	{"works at", RelationWorksAt},
	{"employed by", RelationWorksAt},
	{"manages", RelationManages},
	{"reports to", RelationReportsTo},
	{"located in", RelationLocatedIn},
	{"brother", RelationRelatedTo},
	{"sister", RelationRelatedTo},
	{"parent", RelationRelatedTo},
	{"friend", RelationKnows},
}

// Link adds a relationship from each entity to every later entity for each
// cue phrase found in text. Repeated entities count once, at their first
// position. It returns the entities that gained a relationship, in order.
func Link(text string, entities []*types.Entity) []*types.Entity {
	entities = distinct(entities)
	if len(entities) < 2 {
		return nil
	}

	lower := strings.ToLower(text)
	var relations []string
	for _, cue := range relationCues {
		if strings.Contains(lower, cue.phrase) {
			relations = append(relations, cue.relation)
		}
	}
	if len(relations) == 0 {
		return nil
	}

	touched := make(map[string]bool)
	for _, relation := range relations {
		for i, from := range entities {
			for _, to := range entities[i+1:] {
				if from.AddRelationship(types.Relationship{Type: relation, TargetID: to.ID, Confidence: LinkConfidence}) {
					touched[from.ID] = true
				}
			}
		}
	}

	var out []*types.Entity
	for _, e := range entities {
		if touched[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

func distinct(entities []*types.Entity) []*types.Entity {
	seen := make(map[string]bool, len(entities))
	out := make([]*types.Entity, 0, len(entities))
	for _, e := range entities {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}
