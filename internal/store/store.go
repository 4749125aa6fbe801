package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Collection file names. Every collection lives in a single flat JSON
// file that is read and fully rewritten on each mutation.
const (
	FileUsers         = "users.json"
	FileOrganizations = "organizations.json"
	FileProjects      = "projects.json"
	FileProjectTasks  = "project-tasks.json"
	FileProposals     = "proposals.json"
	FileInvoices      = "invoices.json"
)

// Store reads and writes whole JSON collection files under a data
// directory. There is no indexing, no migration and no cross-process
// locking; concurrent writers from other processes can overwrite each
// other (last write wins). Callers that need read-modify-write must
// serialize themselves.
type Store struct {
	dataDir string
	log     *zap.Logger
}

// New creates a store rooted at dataDir, creating the directory if needed.
func New(dataDir string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dataDir: dataDir, log: log}, nil
}

// Read unmarshals the named collection file into v. A missing or corrupt
// file is treated as "no data": v is left at its zero value and no error
// is returned.
func (s *Store) Read(file string, v any) error {
	data, err := os.ReadFile(s.path(file))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn("corrupt collection file, treating as empty",
			zap.String("file", file),
			zap.Error(err),
		)
		return nil
	}

	return nil
}

// Write marshals v and fully rewrites the named collection file,
// pretty-printed with 2-space indent.
func (s *Store) Write(file string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", file, err)
	}

	if err := os.WriteFile(s.path(file), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}

	return nil
}

func (s *Store) path(file string) string {
	return filepath.Join(s.dataDir, file)
}
