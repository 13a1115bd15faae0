package config

import (
	"fmt"
	"os"

	"todo/internal/repository/file"
	"todo/internal/store"
	"todo/internal/validation"
)

// CreatePersister opens the storage backend selected by the configuration.
func CreatePersister(cfg *Config) (store.ClosablePersister, error) {
	path := cfg.GetStoragePath()

	switch cfg.Storage.Backend {
	case BackendFile:
		p, err := file.New(path,
			file.WithFormat(cfg.Storage.FileFormat),
			file.WithDirPermissions(os.FileMode(cfg.Storage.DirPermissions)))
		if err != nil {
			return nil, fmt.Errorf("failed to open task file: %w", err)
		}
		return p, nil
	default:
		if err := os.MkdirAll(cfg.Storage.Dir, os.FileMode(cfg.Storage.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		p, err := store.OpenSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return p, nil
	}
}

// StoreOptions returns the store options implied by the configuration.
func StoreOptions(cfg *Config) []store.Option {
	return []store.Option{
		store.WithValidator(validation.NewTaskValidatorWithLimits(validation.Limits{
			TitleMinLength:  cfg.Validation.TitleMinLength,
			TitleMaxLength:  cfg.Validation.TitleMaxLength,
			DetailMaxLength: cfg.Validation.DetailMaxLength,
		})),
		store.WithSaveTimeout(cfg.GetWriteTimeout()),
	}
}
