package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mwantia/bingwall/pkg/db/store"
	"github.com/mwantia/bingwall/pkg/errs"
	"github.com/mwantia/bingwall/pkg/fetch"
	"github.com/mwantia/bingwall/pkg/log"
	"github.com/mwantia/bingwall/pkg/source"
)

type Options struct {
	SaveDir string
	// Override disables the content-hash skip. It does not change file
	// handling: the target path is always overwritten.
	Override bool
	// CleanupDays prunes ledger entries older than this many days after a
	// successful download; zero disables pruning.
	CleanupDays int
}

type Result struct {
	Wallpaper *source.Wallpaper
	Hash      string
	// Path is empty when the download was skipped as a duplicate.
	Path     string
	Skipped  bool
	Recorded bool
	Pruned   int64
}

// Downloader runs the resolve, fetch, dedup, write and record pipeline. The
// ledger is optional; without one every download is written.
type Downloader struct {
	fetcher fetch.Fetcher
	ledger  store.Ledger
	opts    Options
	now     func() time.Time
	log     log.LoggerService
}

type Option func(*Downloader)

func WithClock(now func() time.Time) Option {
	return func(d *Downloader) {
		d.now = now
	}
}

func NewDownloader(fetcher fetch.Fetcher, ledger store.Ledger, opts Options, logger log.LoggerService, options ...Option) *Downloader {
	d := &Downloader{
		fetcher: fetcher,
		ledger:  ledger,
		opts:    opts,
		now:     time.Now,
		log:     logger,
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// Run resolves today's wallpaper and downloads it.
func (d *Downloader) Run(ctx context.Context, resolver source.Resolver) (*Result, error) {
	wallpaper, err := resolver.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find wallpaper url: %w", err)
	}

	return d.Download(ctx, wallpaper)
}

func (d *Downloader) Download(ctx context.Context, wallpaper *source.Wallpaper) (*Result, error) {
	data, err := d.fetcher.Fetch(ctx, wallpaper.URL)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	result := &Result{
		Wallpaper: wallpaper,
		Hash:      ContentHash(data),
	}

	if d.ledger != nil && !d.opts.Override {
		exists, err := d.ledger.HasHash(ctx, result.Hash)
		if err != nil {
			return nil, fmt.Errorf("download failed: %w", err)
		}
		if exists {
			d.log.Info("Skipping duplicate (SHA256: %s...)", result.Hash[:16])
			result.Skipped = true
			return result, nil
		}
	}

	id, err := ImageID(wallpaper.URL)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	date := wallpaper.Date
	if date == "" {
		date = d.now().Format(DateLayout)
	}
	result.Path = filepath.Join(d.opts.SaveDir, FileName(date, id))
	if filepath.Dir(result.Path) != filepath.Clean(d.opts.SaveDir) {
		return nil, fmt.Errorf("download failed: %w",
			errs.NewParse("derive file name", fmt.Errorf("%q leaves save directory %q", result.Path, d.opts.SaveDir)))
	}

	if _, err := os.Stat(result.Path); err == nil {
		d.log.Debug("Replacing existing file '%s'", result.Path)
	}
	if err := writeFile(result.Path, data); err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	if d.ledger != nil {
		result.Recorded, err = d.ledger.Insert(ctx, result.Path, result.Hash, wallpaper.URL)
		if err != nil {
			return nil, fmt.Errorf("download failed: %w", err)
		}
		if !result.Recorded {
			d.log.Warn("Ledger already has an entry for '%s', keeping the previous record", result.Path)
		}

		if d.opts.CleanupDays > 0 {
			cutoff := d.now().Add(-time.Duration(d.opts.CleanupDays) * 24 * time.Hour)
			result.Pruned, err = d.ledger.Prune(ctx, cutoff)
			if err != nil {
				return nil, fmt.Errorf("download failed: %w", err)
			}
			if result.Pruned > 0 {
				d.log.Debug("Pruned %d ledger entries older than %s", result.Pruned, cutoff.Format(time.RFC3339))
			}
		}
	}

	d.log.Info("Downloaded: %s", result.Path)
	return result, nil
}
