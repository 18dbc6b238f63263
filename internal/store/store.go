package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/halglue/internal/config"
	"github.com/vk/halglue/internal/ctxlog"
	"github.com/vk/halglue/internal/schema"
)

// writeFunc is the atomic file write primitive. Swappable so tests can inject
// mid-write failures.
type writeFunc func(path string, data []byte, perm os.FileMode) error

// Store reads and replaces the glue.hcl file at a fixed path.
type Store struct {
	path  string
	mu    sync.Mutex
	write writeFunc
}

// New creates a store for the given glue.hcl path.
func New(path string) *Store {
	return &Store{
		path: path,
		write: func(path string, data []byte, perm os.FileMode) error {
			return renameio.WriteFile(path, data, perm)
		},
	}
}

// Path returns the location of the persisted configuration file.
func (s *Store) Path() string {
	return s.path
}

// Load parses the persisted configuration into a fresh model. A missing file
// is an empty configuration; anything unparseable is a CorruptError with no
// partial result.
func (s *Store) Load(ctx context.Context) (*config.Model, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return config.NewModel(), nil
		}
		return nil, &config.CorruptError{Path: s.path, Err: err}
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, s.path)
	if diags.HasErrors() {
		return nil, &config.CorruptError{Path: s.path, Err: diags}
	}

	var raw schema.File
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, &config.CorruptError{Path: s.path, Err: diags}
	}

	model, err := translateFile(&raw)
	if err != nil {
		return nil, &config.CorruptError{Path: s.path, Err: err}
	}

	ctxlog.FromContext(ctx).Debug("Loaded glue configuration.", "path", s.path, "platforms", model.Len())
	return model, nil
}

// Replace atomically installs a new configuration. The previous committed
// file stays intact if the write fails partway.
func (s *Store) Replace(ctx context.Context, m *config.Model) error {
	data := encodeFile(m)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(s.path, data, 0o644); err != nil {
		return fmt.Errorf("replace glue configuration: %w", err)
	}

	ctxlog.FromContext(ctx).Debug("Replaced glue configuration.", "path", s.path, "platforms", m.Len())
	return nil
}

// Add persists a new platform record. A live record under the same name is
// rejected with ErrDuplicatePlatform and the store is left unchanged.
func (s *Store) Add(ctx context.Context, p *config.Platform) error {
	m, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if err := m.Add(p); err != nil {
		return err
	}
	return s.Replace(ctx, m)
}

// Remove tombstones a platform: status becomes Removed but the record is
// retained until a later Registered-set reconciliation drops it, so the
// synchronizer can keep reporting its orphaned generated units.
func (s *Store) Remove(ctx context.Context, name string) error {
	m, err := s.Load(ctx)
	if err != nil {
		return err
	}
	p, ok := m.Get(name)
	if !ok || p.Status == config.StatusRemoved {
		return fmt.Errorf("platform %q: %w", name, config.ErrNotFound)
	}
	p.Status = config.StatusRemoved
	return s.Replace(ctx, m)
}
