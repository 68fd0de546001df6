package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamesPrial/knowledge-core/pkg/config"
	kcerrors "github.com/JamesPrial/knowledge-core/pkg/errors"
	"github.com/JamesPrial/knowledge-core/pkg/logging"
	"github.com/JamesPrial/knowledge-core/pkg/types"
)

func quietEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvLogLevel, "error")
	for _, key := range []string{config.EnvStorageType, config.EnvStoragePath, config.EnvPostgresDSN, config.EnvMySQLDSN, config.EnvLogFormat} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSqliteConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "storageType: sqlite\nstoragePath: " + filepath.Join(dir, "knowledge.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExtractCommand(t *testing.T) {
	quietEnv(t)

	out, err := run(t, "Remember to update the config.", "extract")
	require.NoError(t, err)

	var items []types.ExtractedKnowledge
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, types.ImportanceHigh, items[0].Importance)
}

func TestExtractCommand_DevFlag(t *testing.T) {
	quietEnv(t)

	out, err := run(t, "Remember to update the config.", "--dev", "extract")
	require.NoError(t, err)

	var items []types.ExtractedKnowledge
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 1)
}

func TestDevLogging(t *testing.T) {
	current := logging.DefaultConfig()
	current.Output = logging.LogOutputFile
	current.FilePath = "/tmp/knowledge.log"

	dev := devLogging(current)

	assert.Equal(t, logging.LogLevelDebug, dev.Level)
	assert.Equal(t, logging.LogFormatText, dev.Format)
	assert.False(t, dev.Masking.Enabled)
	assert.True(t, dev.EnableCaller)
	assert.Equal(t, logging.LogOutputFile, dev.Output)
	assert.Equal(t, "/tmp/knowledge.log", dev.FilePath)
	assert.Equal(t, logging.LogFormatJSON, current.Format)

	assert.Equal(t, logging.LogOutputStderr, devLogging(nil).Output)
}

func TestProcessShowStatsWithSqlite(t *testing.T) {
	quietEnv(t)
	cfg := writeSqliteConfig(t)

	out, err := run(t, "My brother Julian Hönig", "--config", cfg, "process")
	require.NoError(t, err)

	var entities []types.Entity
	require.NoError(t, json.Unmarshal([]byte(out), &entities))
	require.Len(t, entities, 1)
	id := entities[0].ID

	_, err = run(t, "Julian Hönig was born on September 11, 1976. He works at Apple.", "--config", cfg, "process", "--source", "chat")
	require.NoError(t, err)

	out, err = run(t, "", "--config", cfg, "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "## Julian Hönig")
	assert.Contains(t, out, "**CurrentEmployer:** Apple")
	assert.Contains(t, out, "*History: 2 versions*")
	assert.Contains(t, out, "Location: Professional Journey.md")

	out, err = run(t, "", "--config", cfg, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "entities: 1\n")
	assert.Contains(t, out, "type_person: 1\n")
}

func TestRecordCommand(t *testing.T) {
	quietEnv(t)

	out, err := run(t, `{"type":"organization","name":"Acme Corp","fields":{"industry":"tools"}}`, "record")
	require.NoError(t, err)

	var entity types.Entity
	require.NoError(t, json.Unmarshal([]byte(out), &entity))
	assert.Equal(t, types.EntityTypeOrganization, entity.Type)
	assert.Equal(t, []string{"name", "industry"}, entity.CurrentState.Keys())

	_, err = run(t, `not json`, "record")
	assert.Error(t, err)

	_, err = run(t, `{"name":"Acme Corp"}`, "record")
	assert.Error(t, err)
}

func TestShowUnknownID(t *testing.T) {
	quietEnv(t)

	_, err := run(t, "", "show", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity missing not found")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"plain error", assert.AnError, exitFailure},
		{"validation", kcerrors.ValidationRequired("name"), exitDataErr},
		{"not found", kcerrors.NotFound("entity x"), exitNotFound},
		{"connection", kcerrors.New(kcerrors.ErrCodeStorageConnection, "down"), exitUnavailable},
		{"wrapped configuration", fmt.Errorf("failed to create store: %w", kcerrors.New(kcerrors.ErrCodeConfiguration, "bad")), exitConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
