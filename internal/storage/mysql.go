package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/JamesPrial/knowledge-core/pkg/errors"
	"github.com/JamesPrial/knowledge-core/pkg/logging"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

// MySQLStore persists entities in a MySQL table. Nested values are kept as
// LONGTEXT rather than JSON so the field order of current_state survives.
type MySQLStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewMySQLStore connects with dsn. Time parsing is always switched on and
// times are read as UTC.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	logger := logging.GetGlobalLogger("storage.mysql")

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfiguration, "invalid mysql DSN")
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageConnection, "failed to open database")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStorageConnection, "failed to ping database")
	}

	store := &MySQLStore{db: db, logger: logger}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStorageInitialization, "failed to initialize schema")
	}

	logger.Info("Opened mysql store", slog.String("database", cfg.DBName))
	return store, nil
}

func (s *MySQLStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS entities (
		seq BIGINT AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(64) NOT NULL UNIQUE,
		entity_type VARCHAR(32) NOT NULL,
		canonical_name VARCHAR(512) NOT NULL,
		aliases LONGTEXT NOT NULL,
		current_state LONGTEXT NOT NULL,
		history LONGTEXT NOT NULL,
		relationships LONGTEXT NOT NULL,
		confidence DOUBLE NOT NULL,
		last_modified DATETIME(6) NOT NULL,
		INDEX idx_entities_canonical_name (canonical_name),
		INDEX idx_entities_type (entity_type)
	) DEFAULT CHARSET = utf8mb4
	`)
	return err
}

// Get retrieves a single entity by id
func (s *MySQLStore) Get(ctx context.Context, id string) (*types.Entity, error) {
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
func (s *MySQLStore) Put(ctx context.Context, entity *types.Entity) error {
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
		ON DUPLICATE KEY UPDATE
			entity_type = VALUES(entity_type),
			canonical_name = VALUES(canonical_name),
			aliases = VALUES(aliases),
			current_state = VALUES(current_state),
			history = VALUES(history),
			relationships = VALUES(relationships),
			confidence = VALUES(confidence),
			last_modified = VALUES(last_modified)
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

	s.logger.DebugContext(ctx, "Entity stored in mysql",
		slog.String("entity_id", entity.ID),
		slog.Int("history_entries", len(entity.History)),
	)
	return nil
}

// Scan loads all entities ordered by seq, then visits them
func (s *MySQLStore) Scan(ctx context.Context, fn func(*types.Entity) bool) error {
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
func (s *MySQLStore) Stats(ctx context.Context) (map[string]int, error) {
	return queryStats(ctx, s.db)
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
