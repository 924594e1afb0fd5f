package store

import (
	"context"
	"time"

	"github.com/mwantia/bingwall/pkg/db/models"
	"github.com/mwantia/bingwall/pkg/db/migrations"
)

// Ledger is the persistent record of past downloads used for content dedup
type Ledger interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error
	MigrationStatus(ctx context.Context) ([]migrations.MigrationStatus, error)
	// Rollback reverts the most recently applied schema migration.
	Rollback(ctx context.Context) (*migrations.Migration, error)

	// HasHash reports whether any record carries this exact content hash.
	HasHash(ctx context.Context, sha256 string) (bool, error)
	// Insert adds a record unless path is already present; an existing
	// row is left untouched and inserted is false.
	Insert(ctx context.Context, path, sha256, sourceURL string) (inserted bool, err error)
	// Prune deletes every record downloaded strictly before cutoff.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
	// List returns all records, newest download first.
	List(ctx context.Context) ([]models.Download, error)
	Count(ctx context.Context) (int64, error)
}
