// Package file provides a filesystem-backed context store. Contexts
// are stored as one JSON file per user in a configured directory.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mintaka-labs/pennywise/pkg/domain"
)

// Store implements ports.ContextStore using the local filesystem.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".pennywise/contexts".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".pennywise", "contexts")
	}
	return &Store{BasePath: basePath}
}

// Save persists the context to a JSON file atomically: write to a temp
// file in the same directory, fsync, then rename over the destination.
func (s *Store) Save(ctx context.Context, userID string, convo *domain.Context) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure context directory: %w", err)
	}

	destPath := filepath.Join(s.BasePath, userID+".json")

	data, err := json.MarshalIndent(convo, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	// Same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+userID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Windows also refuses to rename over an existing file; the brief
	// remove+rename window beats a partially-written context.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to replace existing context file: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}

	return nil
}

// Load retrieves the context from its JSON file.
func (s *Store) Load(ctx context.Context, userID string) (*domain.Context, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID cannot be empty")
	}

	data, err := os.ReadFile(filepath.Join(s.BasePath, userID+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrContextNotFound
		}
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}

	var convo domain.Context
	if err := json.Unmarshal(data, &convo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal context: %w", err)
	}

	return &convo, nil
}

// Delete removes the context file.
func (s *Store) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}

	err := os.Remove(filepath.Join(s.BasePath, userID+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete context file: %w", err)
	}

	return nil
}

// List returns all user IDs with a stored context.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list contexts: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			name := entry.Name()
			ids = append(ids, name[:len(name)-len(".json")])
		}
	}

	return ids, nil
}
