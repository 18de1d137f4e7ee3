// SPDX-License-Identifier: Apache-2.0

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rolfedh/adt-core/internal/workflow"
)

// DefaultSubdir is the per-user store location relative to the home
// directory, per the documented on-disk layout.
const DefaultSubdir = ".adt/workflows"

// Store persists workflow.State documents to a directory, one JSON file per
// workflow named "<name>.json".
type Store struct {
	dir    string
	logger *slog.Logger
}

// DefaultDir resolves <home>/.adt/workflows, creating no directories.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, filepath.FromSlash(DefaultSubdir)), nil
}

// New creates a Store rooted at dir, creating it if necessary. Tests
// typically override dir with t.TempDir().
func New(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) pathFor(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Exists reports whether a workflow document is already present.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.pathFor(name))
	return err == nil
}

// Save atomically persists a workflow: back up any existing document, write
// the new one to a temp file, rename it into place, then remove the backup.
// If steps 2-3 fail, the backup is left in place and the temp file is
// removed; the previous on-disk document is unaffected.
func (s *Store) Save(state *workflow.State) error {
	target := s.pathFor(state.Name)
	backup := target + ".backup"
	tmp := target + ".tmp"

	lock, err := acquireLock(target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	defer lock.release()

	hadExisting := false
	if _, statErr := os.Stat(target); statErr == nil {
		if err := copyFile(target, backup); err != nil {
			return fmt.Errorf("%w: backing up %s: %v", ErrWrite, target, err)
		}
		hadExisting = true
	}

	data, err := json.MarshalIndent(toDocument(state), "", "  ")
	if err != nil {
		_ = os.Remove(backup)
		return fmt.Errorf("%w: marshaling workflow %s: %v", ErrWrite, state.Name, err)
	}

	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		if !hadExisting {
			_ = os.Remove(backup)
		}
		return fmt.Errorf("%w: writing %s: %v", ErrWrite, tmp, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: renaming %s to %s: %v", ErrWrite, tmp, target, err)
	}

	if hadExisting {
		_ = os.Remove(backup)
	}
	return nil
}

// Load reads a workflow document, recovering from its backup if the primary
// is malformed or missing required fields, and migrating it to the current
// schema. It never returns a default workflow: both being unreadable is a
// State-Corruption error (a name with neither file present is ErrNotFound).
func (s *Store) Load(name string) (*workflow.State, error) {
	target := s.pathFor(name)

	var primaryErr error
	raw, err := os.ReadFile(target)
	if err == nil {
		state, decodeErr := s.decode(raw)
		if decodeErr == nil {
			return state, nil
		}
		primaryErr = decodeErr
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", target, err)
	}

	backup := target + ".backup"
	rawBackup, err := os.ReadFile(backup)
	if err != nil {
		if os.IsNotExist(err) {
			if primaryErr != nil {
				return nil, fmt.Errorf("%w: %s: %v (no backup present)", ErrCorrupted, name, primaryErr)
			}
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupted, name, err)
	}

	state, err := s.decode(rawBackup)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupted, name, err)
	}
	s.logger.Warn("recovered workflow state from backup", "workflow", name)
	return state, nil
}

func (s *Store) decode(raw []byte) (*workflow.State, error) {
	migrated, err := migrate(raw)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(migrated, &doc); err != nil {
		return nil, err
	}
	if doc.Name == "" || doc.Directory == "" {
		return nil, errors.New("document missing required top-level fields")
	}
	return fromDocument(&doc), nil
}

// Delete removes a workflow's document and any stray backup/lock file.
func (s *Store) Delete(name string) error {
	target := s.pathFor(name)
	if !s.Exists(name) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	for _, p := range []string{target, target + ".backup", target + ".tmp", lockPathFor(target)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return nil
}

// List returns every workflow name currently in the store, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading store directory %s: %w", s.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o600)
}
