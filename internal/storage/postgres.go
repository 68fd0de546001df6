package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	_ "github.com/lib/pq"

	"github.com/JamesPrial/knowledge-core/pkg/errors"
	"github.com/JamesPrial/knowledge-core/pkg/logging"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// PostgresStore persists entities in a PostgreSQL table through lib/pq.
// Nested values are stored as JSONB; seq records insertion order.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore connects with dsn and creates the schema when missing
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	logger := logging.GetGlobalLogger("storage.postgres")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageConnection, "failed to open database")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStorageConnection, "failed to ping database")
	}

	store := &PostgresStore{db: db, logger: logger}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStorageInitialization, "failed to initialize schema")
	}

	logger.Info("Opened postgres store")
	return store, nil
}

func (s *PostgresStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS entities (
		seq BIGSERIAL PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		entity_type TEXT NOT NULL,
		canonical_name TEXT NOT NULL,
		aliases JSONB NOT NULL,
		current_state JSON NOT NULL,
		history JSONB NOT NULL,
		relationships JSONB NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		last_modified TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entities_canonical_name ON entities(canonical_name);
	CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(entity_type);
	`)
	return err
}

// Get retrieves a single entity by id
func (s *PostgresStore) Get(ctx context.Context, id string) (*types.Entity, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entityColumns+` FROM entities WHERE id = $1`, id)

	entity, err := scanEntity(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrCodeStorageTransaction, "failed to load entity %s", id)
	}
	return entity, nil
}

// Put upserts the entity. The seq of an existing row is left untouched.
func (s *PostgresStore) Put(ctx context.Context, entity *types.Entity) error {
	if entity == nil || strings.TrimSpace(entity.ID) == "" {
		return errors.New(errors.ErrCodeValidationRequired, "Entity ID cannot be empty or whitespace-only")
	}

	row, err := encodeEntity(entity)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entities (`+entityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			entity_type = EXCLUDED.entity_type,
			canonical_name = EXCLUDED.canonical_name,
			aliases = EXCLUDED.aliases,
			current_state = EXCLUDED.current_state,
			history = EXCLUDED.history,
			relationships = EXCLUDED.relationships,
			confidence = EXCLUDED.confidence,
			last_modified = EXCLUDED.last_modified
	`,
		row.ID,
		row.Type,
		row.CanonicalName,
		row.Aliases,
		row.CurrentState,
		row.History,
		row.Relationships,
		row.Confidence,
		row.LastModified,
	)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeStorageTransaction, "failed to store entity %s", entity.ID)
	}

	s.logger.DebugContext(ctx, "Entity stored in postgres",
		slog.String("entity_id", entity.ID),
		slog.Int("history_entries", len(entity.History)),
	)
	return nil
}

// Scan loads all entities ordered by seq, then visits them
func (s *PostgresStore) Scan(ctx context.Context, fn func(*types.Entity) bool) error {
	entities, err := queryEntities(ctx, s.db, `SELECT `+entityColumns+` FROM entities ORDER BY seq`)
	if err != nil {
		return err
	}
	for _, entity := range entities {
		if !fn(entity) {
			break
		}
	}
	return nil
}

// Stats returns entity counts
func (s *PostgresStore) Stats(ctx context.Context) (map[string]int, error) {
	return queryStats(ctx, s.db)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
