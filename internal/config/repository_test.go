package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/domain"
	"todo/internal/store"
)

func TestCreatePersister_SQLite(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.Dir = filepath.Join(t.TempDir(), "nested")

	p, err := CreatePersister(cfg)
	require.NoError(t, err)
	defer p.Close()

	s, err := store.Open(context.Background(), p, StoreOptions(cfg)...)
	require.NoError(t, err)
	_, err = s.Add(context.Background(), domain.TaskInput{Title: "Test Task"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cfg.Storage.Dir, "todo.db"))
	assert.NoError(t, err)
}

func TestCreatePersister_File(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.Backend = BackendFile
	cfg.Storage.FileFormat = "yaml"
	cfg.Storage.Dir = t.TempDir()

	p, err := CreatePersister(cfg)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Save(context.Background(), []domain.Task{{ID: 0, Title: "x"}}))
	_, err = os.Stat(filepath.Join(cfg.Storage.Dir, "tasks.yaml"))
	assert.NoError(t, err)
}

func TestStoreOptions_ApplyTitleLimit(t *testing.T) {
	cfg := NewConfig()
	cfg.Validation.TitleMaxLength = 3

	p, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer p.Close()

	s, err := store.Open(context.Background(), p, StoreOptions(cfg)...)
	require.NoError(t, err)

	_, err = s.Add(context.Background(), domain.TaskInput{Title: "four"})
	assert.Error(t, err)
	_, err = s.Add(context.Background(), domain.TaskInput{Title: "abc"})
	assert.NoError(t, err)
}
