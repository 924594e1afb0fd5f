package migrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mwantia/bingwall/pkg/db/models"
	"gorm.io/gorm"
)

// ErrNothingApplied is returned by Rollback on a fresh ledger.
var ErrNothingApplied = errors.New("no applied migrations")

// Migration is one versioned schema step of the ledger
type Migration struct {
	Version     int
	Description string
	Up          func(*gorm.DB) error
	Down        func(*gorm.DB) error
}

// schemaVersion is stored once per applied migration
type schemaVersion struct {
	Version     int       `gorm:"primaryKey;autoIncrement:false"`
	Description string    `gorm:"type:text"`
	AppliedAt   time.Time `gorm:"not null"`
}

// MigrationStatus pairs a known migration with the time it was applied, if ever
type MigrationStatus struct {
	Version     int
	Description string
	Applied     bool
	AppliedAt   time.Time
}

type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: LedgerMigrations(),
	}
}

// Migrate applies every pending migration in version order and returns how many ran.
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, migration := range m.migrations {
		if _, ok := applied[migration.Version]; ok {
			continue
		}

		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&schemaVersion{
				Version:     migration.Version,
				Description: migration.Description,
				AppliedAt:   time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return count, fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
		}
		count++
	}

	return count, nil
}

// Rollback reverts the most recently applied migration.
func (m *Migrator) Rollback(ctx context.Context) (*Migration, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&schemaVersion{}); err != nil {
		return nil, fmt.Errorf("failed to create schema version table: %w", err)
	}

	var last schemaVersion
	result := m.db.WithContext(ctx).Order("version DESC").Limit(1).Find(&last)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query schema versions: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNothingApplied
	}

	for i := range m.migrations {
		migration := m.migrations[i]
		if migration.Version != last.Version {
			continue
		}

		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := migration.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&schemaVersion{}, "version = ?", last.Version).Error
		})
		if err != nil {
			return nil, fmt.Errorf("rollback of migration %d failed: %w", last.Version, err)
		}
		return &migration, nil
	}

	return nil, fmt.Errorf("migration %d not found", last.Version)
}

func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(m.migrations))
	for _, migration := range m.migrations {
		version, ok := applied[migration.Version]
		statuses = append(statuses, MigrationStatus{
			Version:     migration.Version,
			Description: migration.Description,
			Applied:     ok,
			AppliedAt:   version.AppliedAt,
		})
	}

	return statuses, nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]schemaVersion, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&schemaVersion{}); err != nil {
		return nil, fmt.Errorf("failed to create schema version table: %w", err)
	}

	var versions []schemaVersion
	if err := m.db.WithContext(ctx).Find(&versions).Error; err != nil {
		return nil, fmt.Errorf("failed to query schema versions: %w", err)
	}

	applied := make(map[int]schemaVersion, len(versions))
	for _, v := range versions {
		applied[v.Version] = v
	}
	return applied, nil
}

// LedgerMigrations returns the ledger schema history, oldest first.
func LedgerMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create downloads ledger",
			Up: func(db *gorm.DB) error {
				return db.AutoMigrate(&models.Download{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.Download{})
			},
		},
	}
}
