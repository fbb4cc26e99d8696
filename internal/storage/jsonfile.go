// Package storage persists application state to a single JSON document
// on disk.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

// documentVersion guards future format migrations.
const documentVersion = 1

// Document is everything the app persists across restarts. Timestamps
// are encoded as RFC 3339 strings by encoding/json, so dates survive a
// save/load cycle without degrading to bare strings; nullable dates are
// pointers and round-trip as null.
type Document struct {
	Version   int                    `json:"version"`
	SavedAt   time.Time              `json:"savedAt"`
	Inventory []domain.InventoryItem `json:"inventory"`
	Plan      []domain.MealPlanEntry `json:"plan"`
	Progress  domain.UserProgress    `json:"progress"`
	PrepTasks []domain.PrepTask      `json:"prepTasks"`
}

// FileStore reads and writes the state document. Writes are atomic:
// the document lands in a temp file first and is renamed into place,
// so a crash mid-write never leaves a torn file. The progression award
// and plan completion travel in the same write, which is what keeps a
// finished session from losing its XP.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  *logger.Logger
}

// NewFileStore creates a store writing to the given path.
func NewFileStore(path string, log *logger.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Save writes the document to disk.
func (s *FileStore) Save(doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc.Version = documentVersion
	doc.SavedAt = time.Now()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating state dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}

	s.log.Debug("storage: saved %d bytes to %s", len(data), s.path)
	return nil
}

// Load reads the document from disk. A missing file returns
// domain.ErrNotFound so first runs can start fresh.
func (s *FileStore) Load() (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading state: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding state: %w", err)
	}
	if doc.Version > documentVersion {
		return nil, fmt.Errorf("state file version %d is newer than supported %d", doc.Version, documentVersion)
	}

	s.log.Debug("storage: loaded state saved at %s", doc.SavedAt.Format(time.RFC3339))
	return &doc, nil
}
