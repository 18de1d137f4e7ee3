// SPDX-License-Identifier: Apache-2.0

// Package catalog maintains a derived SQLite index of workflow summaries so
// `journey list` and `journey status` without a name can enumerate workflows
// cheaply. The JSON documents under the State Store remain authoritative;
// this index is a cache that can always be rebuilt by rescanning them.
package catalog

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/rolfedh/adt-core/internal/workflow"
)

// Entry is one row of the catalog: a summary of a single workflow.
type Entry struct {
	Name           string    `gorm:"primaryKey" json:"name"`
	Directory      string    `json:"directory"`
	Status         string    `json:"status"`
	LastActivityAt time.Time `json:"last_activity"`
}

// Catalog is a rebuildable read-model backed by SQLite.
type Catalog struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the catalog database at dbPath and
// ensures its schema is current.
func Open(dbPath string) (*Catalog, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("opening catalog database %s: %w", dbPath, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Upsert records or updates the summary row for a workflow state. The Engine
// calls this after every successful Store.Save.
func (c *Catalog) Upsert(s *workflow.State) error {
	entry := Entry{
		Name:           s.Name,
		Directory:      s.Directory,
		Status:         string(s.Status),
		LastActivityAt: s.LastActivityAt,
	}
	result := c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"directory", "status", "last_activity_at"}),
	}).Create(&entry)
	if result.Error != nil {
		return fmt.Errorf("upserting catalog entry for %q: %w", s.Name, result.Error)
	}
	return nil
}

// Remove deletes a workflow's summary row, ignoring the case where it was
// never indexed.
func (c *Catalog) Remove(name string) error {
	if err := c.db.Delete(&Entry{}, "name = ?", name).Error; err != nil {
		return fmt.Errorf("removing catalog entry for %q: %w", name, err)
	}
	return nil
}

// List returns every indexed workflow summary, sorted by name.
func (c *Catalog) List() ([]Entry, error) {
	var entries []Entry
	if err := c.db.Order("name").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("listing catalog entries: %w", err)
	}
	return entries, nil
}

// Rebuild truncates the catalog and reindexes every workflow the Store
// currently has a document for, using loadState to read each one. This is
// the recovery path when the catalog is lost, corrupted, or simply absent:
// the State Store is authoritative, so the catalog can always be
// regenerated from it.
func (c *Catalog) Rebuild(names []string, loadState func(name string) (*workflow.State, error)) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM entries").Error; err != nil {
			return fmt.Errorf("clearing catalog: %w", err)
		}
		for _, name := range names {
			state, err := loadState(name)
			if err != nil {
				return fmt.Errorf("loading workflow %q during rebuild: %w", name, err)
			}
			entry := Entry{
				Name:           state.Name,
				Directory:      state.Directory,
				Status:         string(state.Status),
				LastActivityAt: state.LastActivityAt,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("inserting catalog entry for %q during rebuild: %w", name, err)
			}
		}
		return nil
	})
}

// Close releases the underlying database connection.
func (c *Catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("obtaining underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
