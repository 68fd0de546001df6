package types

import (
	"slices"
	"time"
)

// EntityType represents the type of an entity with predefined constants for type safety
type EntityType string

const (
	EntityTypePerson       EntityType = "person"
	EntityTypePlace        EntityType = "place"
	EntityTypeOrganization EntityType = "organization"
	EntityTypeEvent        EntityType = "event"
	EntityTypeConcept      EntityType = "concept"
)

// Valid reports whether t is one of the known entity types
func (t EntityType) Valid() bool {
	switch t {
	case EntityTypePerson, EntityTypePlace, EntityTypeOrganization, EntityTypeEvent, EntityTypeConcept:
		return true
	}
	return false
}

// Operation is the kind of change a VersionEntry records
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationMerge  Operation = "merge"
	// OperationDelete is part of the audit vocabulary but never written by the resolver.
	OperationDelete Operation = "delete"
)

// VersionEntry is one append-only audit record of an entity change
type VersionEntry struct {
	Timestamp      time.Time        `json:"timestamp"`
	Operation      Operation        `json:"operation"`
	Fields         []string         `json:"fields"`
	PreviousValues map[string]Value `json:"previousValues,omitempty"`
	NewValues      map[string]Value `json:"newValues"`
	Source         string           `json:"source"`
}

// Relationship links an entity to another entity by id
type Relationship struct {
	Type       string  `json:"type"`
	TargetID   string  `json:"targetId"`
	Confidence float64 `json:"confidence"`
}

// Entity is a deduplicated, versioned record of a real-world thing
type Entity struct {
	ID            string         `json:"id"`
	Type          EntityType     `json:"type"`
	CanonicalName string         `json:"canonicalName"`
	Aliases       []string       `json:"aliases"`
	CurrentState  Fields         `json:"currentState"`
	History       []VersionEntry `json:"history"`
	Relationships []Relationship `json:"relationships"`
	LastModified  time.Time      `json:"lastModified"`
	Confidence    float64        `json:"confidence"`
}

// Candidate is a partial entity produced by detection or manual input,
// not yet matched against the store.
type Candidate struct {
	Type          EntityType
	CanonicalName string
	Aliases       []string
	State         Fields
	// Confidence of the incoming record; zero means unspecified.
	Confidence float64
}

// HasAlias reports whether name is one of the entity's aliases
func (e *Entity) HasAlias(name string) bool {
	return slices.Contains(e.Aliases, name)
}

// AddAliases appends names not already known and returns how many were added.
// Aliases are never removed.
func (e *Entity) AddAliases(names ...string) int {
	added := 0
	for _, name := range names {
		if name == "" || e.HasAlias(name) {
			continue
		}
		e.Aliases = append(e.Aliases, name)
		added++
	}
	return added
}

// AddRelationship appends rel unless one with the same type and target exists
func (e *Entity) AddRelationship(rel Relationship) bool {
	for _, existing := range e.Relationships {
		if existing.Type == rel.Type && existing.TargetID == rel.TargetID {
			return false
		}
	}
	e.Relationships = append(e.Relationships, rel)
	return true
}

// Replay rebuilds the field state by applying History in order
func (e *Entity) Replay() Fields {
	var state Fields
	for _, entry := range e.History {
		for _, name := range entry.Fields {
			if v, ok := entry.NewValues[name]; ok {
				state.Set(name, v)
			}
		}
	}
	return state
}

// Clone returns a deep copy so stores can hand out entities without sharing state
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	out := *e
	out.Aliases = slices.Clone(e.Aliases)
	out.CurrentState = e.CurrentState.Clone()
	out.Relationships = slices.Clone(e.Relationships)
	out.History = make([]VersionEntry, len(e.History))
	for i, entry := range e.History {
		out.History[i] = entry.clone()
	}
	return &out
}

func (v VersionEntry) clone() VersionEntry {
	out := v
	out.Fields = slices.Clone(v.Fields)
	if v.PreviousValues != nil {
		out.PreviousValues = make(map[string]Value, len(v.PreviousValues))
		for k, val := range v.PreviousValues {
			out.PreviousValues[k] = val
		}
	}
	if v.NewValues != nil {
		out.NewValues = make(map[string]Value, len(v.NewValues))
		for k, val := range v.NewValues {
			out.NewValues[k] = val
		}
	}
	return out
}
