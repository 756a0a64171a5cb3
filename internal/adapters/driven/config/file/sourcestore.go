package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
)

// Ensure SourceStore implements the interface.
var _ driven.SourceStore = (*SourceStore)(nil)

// SourceStore is a file-based implementation of driven.SourceStore using
// TOML. Sources are declared in a config file within the tributary
// config directory:
//
//	[[sources]]
//	id = "gh-acme"
//	type = "github"
//	name = "Acme GitHub"
//	[sources.config]
//	org = "acme"
//	access_token = "ghp_..."
type SourceStore struct {
	mu       sync.RWMutex
	filePath string
	sources  []domain.Source
}

type configFile struct {
	Sources []sourceEntry `toml:"sources"`
}

type sourceEntry struct {
	ID     string            `toml:"id"`
	Type   string            `toml:"type"`
	Name   string            `toml:"name"`
	Config map[string]string `toml:"config"`
}

// NewSourceStore creates a TOML-backed source store. If configDir is
// empty, defaults to ~/.tributary/config.toml.
func NewSourceStore(configDir string) (*SourceStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".tributary")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &SourceStore{filePath: filepath.Join(configDir, "config.toml")}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads sources from the TOML file. A missing file is an empty
// configuration, not an error.
func (s *SourceStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.sources = nil
			return nil
		}
		return err
	}

	var cfg configFile
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}

	sources := make([]domain.Source, 0, len(cfg.Sources))
	for _, entry := range cfg.Sources {
		if entry.ID == "" {
			return fmt.Errorf("parse %s: source with empty id", s.filePath)
		}
		sources = append(sources, domain.Source{
			ID:     entry.ID,
			Type:   entry.Type,
			Name:   entry.Name,
			Config: entry.Config,
		})
	}
	s.sources = sources
	return nil
}

// Get retrieves a source by ID.
func (s *SourceStore) Get(_ context.Context, sourceID string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, src := range s.sources {
		if src.ID == sourceID {
			out := src
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, sourceID)
}

// List returns all configured sources in file order.
func (s *SourceStore) List(_ context.Context) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Source, len(s.sources))
	copy(out, s.sources)
	return out, nil
}

// Add appends a source and persists immediately.
func (s *SourceStore) Add(source domain.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, src := range s.sources {
		if src.ID == source.ID {
			return fmt.Errorf("source %q already exists", source.ID)
		}
	}
	s.sources = append(s.sources, source)
	return s.save()
}

// save writes sources to the TOML file (caller must hold lock).
func (s *SourceStore) save() error {
	cfg := configFile{Sources: make([]sourceEntry, 0, len(s.sources))}
	for _, src := range s.sources {
		cfg.Sources = append(cfg.Sources, sourceEntry{
			ID:     src.ID,
			Type:   src.Type,
			Name:   src.Name,
			Config: src.Config,
		})
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Restricted permissions: the file carries credentials.
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *SourceStore) Path() string {
	return s.filePath
}
