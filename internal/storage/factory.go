package storage

import (
	"github.com/JamesPrial/knowledge-core/pkg/config"
	"github.com/JamesPrial/knowledge-core/pkg/errors"
)

// NewStore creates the entity store selected by the configuration
func NewStore(cfg *config.Settings) (Store, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "configuration cannot be nil")
	}
	switch cfg.StorageType {
	case config.StorageSqlite:
		if cfg.StoragePath == "" {
			return nil, errors.New(errors.ErrCodeConfiguration, "storage path is required for SQLite store")
		}
		store, err := NewSqliteStore(cfg.StoragePath, cfg.Sqlite.WALMode)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoragePostgres:
		if cfg.Postgres.DSN == "" {
			return nil, errors.New(errors.ErrCodeConfiguration, "postgres DSN is required for postgres store")
		}
		store, err := NewPostgresStore(cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageMySQL:
		if cfg.MySQL.DSN == "" {
			return nil, errors.New(errors.ErrCodeConfiguration, "mysql DSN is required for mysql store")
		}
		store, err := NewMySQLStore(cfg.MySQL.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageMemory, "":
		return NewMemoryStore(), nil
	default:
		return nil, errors.Newf(errors.ErrCodeStorageUnsupported, "unsupported storage type: %s", cfg.StorageType)
	}
}
