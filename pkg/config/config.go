package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JamesPrial/knowledge-core/pkg/logging"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageSqlite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMySQL    = "mysql"
)

// Detector names accepted in detection.detectors
const (
	DetectorPerson       = "person"
	DetectorOrganization = "organization"
)

// Environment overrides
const (
	EnvStorageType = "KNOWLEDGE_STORAGE_TYPE"
	EnvStoragePath = "KNOWLEDGE_STORAGE_PATH"
	EnvPostgresDSN = "KNOWLEDGE_POSTGRES_DSN"
	EnvMySQLDSN    = "KNOWLEDGE_MYSQL_DSN"
	EnvLogLevel    = "KNOWLEDGE_LOG_LEVEL"
	EnvLogFormat   = "KNOWLEDGE_LOG_FORMAT"
)

// Names of the merge strategies a field can be mapped to
var mergeStrategyNames = map[string]bool{
	"latest":      true,
	"longest":     true,
	"merge_array": true,
	"confidence":  true,
}

type Settings struct {
	StorageType     string             `yaml:"storageType"`
	StoragePath     string             `yaml:"storagePath"`
	Sqlite          SqliteSettings     `yaml:"sqlite"`
	Postgres        PostgresSettings   `yaml:"postgres"`
	MySQL           MySQLSettings      `yaml:"mysql"`
	Logging         *logging.Config    `yaml:"logging"`
	Matching        MatchingSettings   `yaml:"matching"`
	Detection       DetectionSettings  `yaml:"detection"`
	Extraction      ExtractionSettings `yaml:"extraction"`
	MergeStrategies map[string]string  `yaml:"mergeStrategies"`
}

type SqliteSettings struct {
	WALMode bool `yaml:"walMode"`
}

type PostgresSettings struct {
	DSN string `yaml:"dsn"`
}

type MySQLSettings struct {
	// go-sql-driver DSN, e.g. user:pass@tcp(host:3306)/knowledge
	DSN string `yaml:"dsn"`
}

type MatchingSettings struct {
	// Names must be strictly more similar than this to count as the same entity
	SimilarityThreshold float64 `yaml:"similarityThreshold"`
}

type DetectionSettings struct {
	Detectors []string `yaml:"detectors"`
	// Bytes of text on each side of a mention searched for attributes
	ContextWindow int `yaml:"contextWindow"`
}

type ExtractionSettings struct {
	MaxKeywords int    `yaml:"maxKeywords"`
	Source      string `yaml:"source"`
}

// Default returns settings for an in-memory engine with the stock thresholds
func Default() *Settings {
	return &Settings{
		StorageType: StorageMemory,
		Sqlite:      SqliteSettings{WALMode: true},
		Logging:     logging.DefaultConfig(),
		Matching:    MatchingSettings{SimilarityThreshold: 0.85},
		Detection: DetectionSettings{
			Detectors:     []string{DetectorPerson},
			ContextWindow: 200,
		},
		Extraction: ExtractionSettings{
			MaxKeywords: 5,
			Source:      "conversation",
		},
	}
}

// Validate validates the configuration settings and normalises case
func (s *Settings) Validate() error {
	normalizedStorageType := strings.ToLower(strings.TrimSpace(s.StorageType))
	if normalizedStorageType == "" {
		normalizedStorageType = StorageMemory
	}
	switch normalizedStorageType {
	case StorageMemory, StorageSqlite, StoragePostgres, StorageMySQL:
	default:
		return fmt.Errorf("storageType must be one of [memory, sqlite, postgres, mysql], got '%s'", s.StorageType)
	}
	s.StorageType = normalizedStorageType

	if s.StorageType == StorageSqlite && strings.TrimSpace(s.StoragePath) == "" {
		return fmt.Errorf("storagePath cannot be empty when storageType is sqlite")
	}
	if s.StorageType == StoragePostgres && strings.TrimSpace(s.Postgres.DSN) == "" {
		return fmt.Errorf("postgres.dsn cannot be empty when storageType is postgres")
	}
	if s.StorageType == StorageMySQL && strings.TrimSpace(s.MySQL.DSN) == "" {
		return fmt.Errorf("mysql.dsn cannot be empty when storageType is mysql")
	}

	if s.Logging == nil {
		s.Logging = logging.DefaultConfig()
	}
	if err := s.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	if t := s.Matching.SimilarityThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("matching.similarityThreshold must be in (0, 1], got %v", t)
	}
	if s.Detection.ContextWindow <= 0 {
		return fmt.Errorf("detection.contextWindow must be positive, got %d", s.Detection.ContextWindow)
	}
	if s.Extraction.MaxKeywords <= 0 {
		return fmt.Errorf("extraction.maxKeywords must be positive, got %d", s.Extraction.MaxKeywords)
	}

	for i, name := range s.Detection.Detectors {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized != DetectorPerson && normalized != DetectorOrganization {
			return fmt.Errorf("detection.detectors must contain only [person, organization], got '%s'", name)
		}
		s.Detection.Detectors[i] = normalized
	}

	for field, strategy := range s.MergeStrategies {
		normalized := strings.ToLower(strings.TrimSpace(strategy))
		if !mergeStrategyNames[normalized] {
			return fmt.Errorf("mergeStrategies.%s must be one of [latest, longest, merge_array, confidence], got '%s'", field, strategy)
		}
		s.MergeStrategies[field] = normalized
	}

	return nil
}

// ApplyEnv overrides settings from the process environment
func (s *Settings) ApplyEnv() error {
	if v := os.Getenv(EnvStorageType); v != "" {
		s.StorageType = v
	}
	if v := os.Getenv(EnvStoragePath); v != "" {
		s.StoragePath = v
	}
	if v := os.Getenv(EnvPostgresDSN); v != "" {
		s.Postgres.DSN = v
	}
	if v := os.Getenv(EnvMySQLDSN); v != "" {
		s.MySQL.DSN = v
	}
	if s.Logging == nil {
		s.Logging = logging.DefaultConfig()
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		level, err := logging.ParseLevel(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		s.Logging.Level = level
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		s.Logging.Format = logging.LogFormat(strings.ToLower(v))
	}
	return nil
}

// Load reads a YAML file on top of the defaults and validates the result
func Load(path string) (*Settings, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	settings := Default()
	if err := yaml.Unmarshal(bytes, settings); err != nil {
		return nil, err
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

// LoadWithEnv loads settings with environment overrides. A .env file next
// to the config file is read first; variables already set in the process
// win over it. An empty path starts from the defaults.
func LoadWithEnv(path string) (*Settings, error) {
	envPath := ".env"
	if path != "" {
		envPath = filepath.Join(filepath.Dir(path), ".env")
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}

	settings := Default()
	if path != "" {
		bytes, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(bytes, settings); err != nil {
			return nil, err
		}
	}

	if err := settings.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}
