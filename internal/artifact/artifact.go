// Package artifact persists fitted models as JSON files on disk.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
)

// FileStore writes one JSON file per model name under a base directory.
// Writes go through a temp file plus rename, so readers never observe a
// partially written artifact, and a per-key mutex serializes concurrent
// saves of the same model.
type FileStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ contract.ArtifactStore = &FileStore{} // Compile-time check

// NewFileStore builds a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create artifact directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Save implements the ArtifactStore interface.
func (s *FileStore) Save(artifact *schema.ModelArtifact) (string, error) {
	if artifact == nil || artifact.ModelName == "" {
		return "", fmt.Errorf("artifact must carry a model name")
	}
	lock := s.keyLock(artifact.ModelName)
	lock.Lock()
	defer lock.Unlock()

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", fmt.Errorf("cannot encode artifact for %s: %w", artifact.ModelName, err)
	}

	final := s.path(artifact.ModelName)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(final)+".*.tmp")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return final, nil
}

// Load implements the ArtifactStore interface.
func (s *FileStore) Load(modelName string) (*schema.ModelArtifact, error) {
	data, err := os.ReadFile(s.path(modelName))
	if err != nil {
		return nil, fmt.Errorf("cannot read artifact for %s: %w", modelName, err)
	}
	var artifact schema.ModelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("corrupt artifact for %s: %w", modelName, err)
	}
	return &artifact, nil
}

// path maps a model name onto its artifact file.
func (s *FileStore) path(modelName string) string {
	// Model names come from the fixed registry, but sanitize anyway.
	safe := strings.ReplaceAll(modelName, string(filepath.Separator), "_")
	return filepath.Join(s.dir, safe+".json")
}

func (s *FileStore) keyLock(modelName string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[modelName]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[modelName] = lock
	}
	return lock
}
