package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/JamesPrial/knowledge-core/pkg/errors"
	"github.com/JamesPrial/knowledge-core/pkg/logging"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// SqliteStore persists entities in a single SQLite table. Nested entity
// values are stored as JSON text; seq records insertion order.
type SqliteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSqliteStore opens (or creates) the database at dbPath
func NewSqliteStore(dbPath string, walMode bool) (*SqliteStore, error) {
	logger := logging.GetGlobalLogger("storage.sqlite")

	connStr := dbPath
	if walMode {
		connStr += "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	} else {
		connStr += "?_synchronous=FULL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageConnection, "failed to open database")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStorageConnection, "failed to ping database")
	}

	store := &SqliteStore{db: db, logger: logger}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStorageInitialization, "failed to initialize schema")
	}

	logger.Info("Opened sqlite store",
		slog.String("path", dbPath),
		slog.Bool("wal", walMode),
	)
	return store, nil
}

// initSchema creates the entities table
func (s *SqliteStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS entities (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		entity_type TEXT NOT NULL,
		canonical_name TEXT NOT NULL,
		aliases TEXT NOT NULL,       -- JSON array
		current_state TEXT NOT NULL, -- JSON object, key order preserved
		history TEXT NOT NULL,       -- JSON array of version entries
		relationships TEXT NOT NULL, -- JSON array
		confidence REAL NOT NULL,
		last_modified DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entities_canonical_name ON entities(canonical_name);
	CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(entity_type);
	`)
	return err
}

// Get retrieves a single entity by id
func (s *SqliteStore) Get(ctx context.Context, id string) (*types.Entity, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entityColumns+` FROM entities WHERE id = ?`, id)

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
func (s *SqliteStore) Put(ctx context.Context, entity *types.Entity) error {
	if entity == nil || strings.TrimSpace(entity.ID) == "" {
		return errors.New(errors.ErrCodeValidationRequired, "Entity ID cannot be empty or whitespace-only")
	}

	row, err := encodeEntity(entity)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entities (`+entityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			entity_type = excluded.entity_type,
			canonical_name = excluded.canonical_name,
			aliases = excluded.aliases,
			current_state = excluded.current_state,
			history = excluded.history,
			relationships = excluded.relationships,
			confidence = excluded.confidence,
			last_modified = excluded.last_modified
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

	s.logger.DebugContext(ctx, "Entity stored in sqlite",
		slog.String("entity_id", entity.ID),
		slog.Int("history_entries", len(entity.History)),
	)
	return nil
}

// Scan loads all entities ordered by seq, then visits them. Rows are closed
// before fn runs so fn may write to the store.
func (s *SqliteStore) Scan(ctx context.Context, fn func(*types.Entity) bool) error {
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
func (s *SqliteStore) Stats(ctx context.Context) (map[string]int, error) {
	return queryStats(ctx, s.db)
}

// Close closes the database connection
func (s *SqliteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// queryEntities runs query and decodes every row
func queryEntities(ctx context.Context, db *sql.DB, query string, args ...any) ([]*types.Entity, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageTransaction, "failed to query entities")
	}
	defer rows.Close()

	var entities []*types.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStorageTransaction, "failed to scan entity")
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageTransaction, "error iterating over rows")
	}
	return entities, nil
}

// queryStats counts entities in total and per type
func queryStats(ctx context.Context, db *sql.DB) (map[string]int, error) {
	stats := make(map[string]int)

	var totalCount int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entities").Scan(&totalCount); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageTransaction, "failed to get total entity count")
	}
	stats["entities"] = totalCount

	rows, err := db.QueryContext(ctx, `
		SELECT entity_type, COUNT(*)
		FROM entities
		GROUP BY entity_type
	`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageTransaction, "failed to query entity counts by type")
	}
	defer rows.Close()

	for rows.Next() {
		var entityType string
		var count int
		if err := rows.Scan(&entityType, &count); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStorageTransaction, "failed to scan entity type count")
		}
		if entityType != "" {
			stats[fmt.Sprintf("type_%s", entityType)] = count
		}
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageTransaction, "error iterating over entity type rows")
	}
	return stats, nil
}
