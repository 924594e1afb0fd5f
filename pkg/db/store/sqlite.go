package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mwantia/bingwall/pkg/db/migrations"
	"github.com/mwantia/bingwall/pkg/db/models"
	"github.com/mwantia/bingwall/pkg/errs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SQLiteStore implements Ledger using SQLite
type SQLiteStore struct {
	db    *gorm.DB
	path  string
	now   func() time.Time
	close sync.Once
}

// Path returns the ledger file location
func (s *SQLiteStore) Path() string {
	return s.path
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path     string
	LogLevel logger.LogLevel
	// NowFunc overrides the clock used for download dates.
	NowFunc func() time.Time
}

// NewSQLiteStore opens the ledger file, creating its parent directory if needed
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	now := cfg.NowFunc
	if now == nil {
		now = time.Now
	}

	if dir := filepath.Dir(cfg.Path); dir != "." && cfg.Path != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errs.NewFilesystem("create ledger directory", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
		NowFunc: func() time.Time {
			return now().UTC()
		},
	})
	if err != nil {
		return nil, errs.NewDatabase("open sqlite database", err)
	}

	return &SQLiteStore{
		db:   db,
		path: cfg.Path,
		now:  now,
	}, nil
}

func (s *SQLiteStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(1) // SQLite only supports 1 writer
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		return errs.NewDatabase("connect ledger", err)
	}
	return nil
}

// Close is safe to call more than once
func (s *SQLiteStore) Close() error {
	var err error
	s.close.Do(func() {
		sqlDB, dbErr := s.db.DB()
		if dbErr != nil {
			err = fmt.Errorf("failed to get database instance: %w", dbErr)
			return
		}
		err = sqlDB.Close()
	})
	return err
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := migrations.NewMigrator(s.db).Migrate(ctx); err != nil {
		return errs.NewDatabase("migrate ledger", err)
	}
	return nil
}

func (s *SQLiteStore) MigrationStatus(ctx context.Context) ([]migrations.MigrationStatus, error) {
	return migrations.NewMigrator(s.db).Status(ctx)
}

func (s *SQLiteStore) Rollback(ctx context.Context) (*migrations.Migration, error) {
	migration, err := migrations.NewMigrator(s.db).Rollback(ctx)
	if err != nil {
		return nil, errs.NewDatabase("rollback ledger", err)
	}
	return migration, nil
}

func (s *SQLiteStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) HasHash(ctx context.Context, sha256 string) (bool, error) {
	var found []models.Download
	err := s.db.WithContext(ctx).
		Select("id").
		Where("sha256 = ?", sha256).
		Limit(1).
		Find(&found).Error
	if err != nil {
		return false, errs.NewDatabase("lookup hash", err)
	}
	return len(found) > 0, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, path, sha256, sourceURL string) (bool, error) {
	record := &models.Download{
		Filepath:     path,
		SHA256:       sha256,
		DownloadDate: s.now().UTC(),
		SourceURL:    sourceURL,
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record)
	if result.Error != nil {
		return false, errs.NewDatabase("insert download", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("download_date < ?", cutoff.UTC()).
		Delete(&models.Download{})
	if result.Error != nil {
		return 0, errs.NewDatabase("prune downloads", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]models.Download, error) {
	var downloads []models.Download
	err := s.db.WithContext(ctx).
		Order("download_date DESC").
		Order("id DESC").
		Find(&downloads).Error
	if err != nil {
		return nil, errs.NewDatabase("list downloads", err)
	}
	return downloads, nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Download{}).Count(&count).Error; err != nil {
		return 0, errs.NewDatabase("count downloads", err)
	}
	return count, nil
}

var _ Ledger = (*SQLiteStore)(nil)
