package storage

import (
	"encoding/json"
	"time"

	"github.com/JamesPrial/knowledge-core/pkg/errors"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// Columns shared by the SQL stores, in select order
const entityColumns = `id, entity_type, canonical_name, aliases, current_state, history, relationships, confidence, last_modified`

// entityRow is the column form of an entity. Nested values are JSON text.
type entityRow struct {
	ID            string
	Type          string
	CanonicalName string
	Aliases       string
	CurrentState  string
	History       string
	Relationships string
	Confidence    float64
	LastModified  time.Time
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func encodeEntity(entity *types.Entity) (*entityRow, error) {
	row := &entityRow{
		ID:            entity.ID,
		Type:          string(entity.Type),
		CanonicalName: entity.CanonicalName,
		Confidence:    entity.Confidence,
		LastModified:  entity.LastModified.UTC(),
	}

	fields := []struct {
		dst *string
		src any
	}{
		{&row.Aliases, nonNil(entity.Aliases)},
		{&row.CurrentState, entity.CurrentState},
		{&row.History, nonNil(entity.History)},
		{&row.Relationships, nonNil(entity.Relationships)},
	}
	for _, f := range fields {
		data, err := json.Marshal(f.src)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrCodeStorageEncoding, "failed to encode entity %s", entity.ID)
		}
		*f.dst = string(data)
	}
	return row, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func scanEntity(scanner rowScanner) (*types.Entity, error) {
	var row entityRow
	var aliases, state, history, relationships []byte
	if err := scanner.Scan(
		&row.ID,
		&row.Type,
		&row.CanonicalName,
		&aliases,
		&state,
		&history,
		&relationships,
		&row.Confidence,
		&row.LastModified,
	); err != nil {
		return nil, err
	}

	entity := &types.Entity{
		ID:            row.ID,
		Type:          types.EntityType(row.Type),
		CanonicalName: row.CanonicalName,
		Confidence:    row.Confidence,
		LastModified:  row.LastModified.UTC(),
	}

	fields := []struct {
		src []byte
		dst any
	}{
		{aliases, &entity.Aliases},
		{state, &entity.CurrentState},
		{history, &entity.History},
		{relationships, &entity.Relationships},
	}
	for _, f := range fields {
		if len(f.src) == 0 {
			continue
		}
		if err := json.Unmarshal(f.src, f.dst); err != nil {
			return nil, errors.Wrapf(err, errors.ErrCodeStorageEncoding, "failed to decode entity %s", row.ID)
		}
	}
	return entity, nil
}
