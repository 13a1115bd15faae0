// Package file stores the task collection as a single JSON, YAML or TOML
// document guarded by an advisory file lock.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	yaml "gopkg.in/yaml.v3"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/logging"
)

// Supported document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

const lockRetryDelay = 50 * time.Millisecond

// Persister loads and saves the whole collection as one document.
type Persister struct {
	path   string
	format string
	perm   os.FileMode
	lock   *flock.Flock
}

// Option configures a Persister.
type Option func(*Persister)

// WithFormat forces the document format instead of inferring it from the
// file extension.
func WithFormat(format string) Option {
	return func(p *Persister) { p.format = strings.ToLower(format) }
}

// WithDirPermissions sets the mode used when creating the parent directory.
func WithDirPermissions(perm os.FileMode) Option {
	return func(p *Persister) { p.perm = perm }
}

// New returns a Persister for path. The format defaults to the extension of
// path (".yml"/".yaml", ".toml", anything else JSON).
func New(path string, opts ...Option) (*Persister, error) {
	p := &Persister{
		path:   path,
		format: FormatFromPath(path),
		perm:   0o755,
	}
	for _, opt := range opts {
		opt(p)
	}

	switch p.format {
	case FormatJSON, FormatYAML, FormatTOML:
	default:
		return nil, errors.NewInvalidInputError("format", p.format, "supported formats are json, yaml, toml")
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, p.perm); err != nil {
			return nil, errors.NewStorageError("create data directory", err)
		}
	}

	p.lock = flock.New(path + ".lock")
	return p, nil
}

// FormatFromPath infers the document format from a file name.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Path returns the document path.
func (p *Persister) Path() string { return p.path }

// Load reads the collection. A missing or empty file yields an empty
// collection.
func (p *Persister) Load(ctx context.Context) ([]domain.Task, error) {
	locked, err := p.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		return nil, lockError("load", err)
	}
	defer p.lock.Unlock()

	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		logging.Debugf("no task file at %s, starting empty\n", p.path)
		return []domain.Task{}, nil
	}
	if err != nil {
		return nil, errors.NewStorageError("read task file", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Task{}, nil
	}

	tasks, err := decode(p.format, data)
	if err != nil {
		return nil, errors.NewStorageError("decode task file", err)
	}
	logging.Debugf("loaded %d tasks from %s\n", len(tasks), p.path)
	return tasks, nil
}

// Save writes the collection through a temporary file and rename, so readers
// never observe a partial document.
func (p *Persister) Save(ctx context.Context, tasks []domain.Task) error {
	data, err := encode(p.format, tasks)
	if err != nil {
		return errors.NewStorageError("encode task file", err)
	}

	locked, err := p.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		return lockError("save", err)
	}
	defer p.lock.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(p.path), filepath.Base(p.path)+".tmp-*")
	if err != nil {
		return errors.NewStorageError("create temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.NewStorageError("write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewStorageError("close temp file", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		return errors.NewStorageError("replace task file", err)
	}
	return nil
}

// Close releases the lock file handle.
func (p *Persister) Close() error {
	return p.lock.Close()
}

func lockError(op string, err error) error {
	if err == nil {
		err = fmt.Errorf("lock not acquired")
	}
	if err == context.DeadlineExceeded || err == context.Canceled {
		return errors.NewTimeoutError(op+" task file", err.Error())
	}
	return errors.NewStorageError("lock task file for "+op, err)
}

// tomlDocument wraps the list because TOML has no top-level arrays.
type tomlDocument struct {
	Tasks []domain.Task `toml:"tasks"`
}

func encode(format string, tasks []domain.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	switch format {
	case FormatYAML:
		return yaml.Marshal(tasks)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(tomlDocument{Tasks: tasks}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return json.MarshalIndent(tasks, "", "  ")
	}
}

func decode(format string, data []byte) ([]domain.Task, error) {
	var tasks []domain.Task
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tasks); err != nil {
			return nil, err
		}
	case FormatTOML:
		var doc tomlDocument
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		tasks = doc.Tasks
	default:
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, err
		}
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}
