package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"reflect"
	"sync"
	"time"

	"github.com/mwantia/bingwall/internal/config"
	"github.com/mwantia/bingwall/pkg/db/store"
	"github.com/mwantia/bingwall/pkg/download"
	"github.com/mwantia/bingwall/pkg/fetch"
	"github.com/mwantia/bingwall/pkg/log"
	"github.com/mwantia/bingwall/pkg/source"
	"github.com/mwantia/fabric/pkg/container"
)

// WallpaperApp wires configuration, logger and ledger for a single invocation.
type WallpaperApp struct {
	mutex sync.Mutex

	cfg *config.Config
	sc  *container.ServiceContainer
	log log.LoggerService
}

func NewApp(cfg *config.Config) *WallpaperApp {
	return NewAppWithLogger(cfg, log.NewLoggerService("bingwall", cfg.Log))
}

func NewAppWithLogger(cfg *config.Config, logger log.LoggerService) *WallpaperApp {
	return &WallpaperApp{
		cfg: cfg,
		sc:  container.NewServiceContainer(),
		log: logger,
	}
}

func (app *WallpaperApp) setupServices(ledger *store.SQLiteStore) error {
	errs := container.Errors{}

	app.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](app.sc,
		container.With[log.LoggerService](),
		container.WithInstance(app.log)))

	app.log.Debug("Registering 'Ledger' at '%s'...", ledger.Path())
	errs.Add(container.Register[store.SQLiteStore](app.sc,
		container.With[store.Ledger](),
		container.WithInstance(ledger)))

	return errs.Errors()
}

// openLedger opens, migrates and registers the ledger. The caller closes it
// through shutdown.
func (app *WallpaperApp) openLedger(ctx context.Context) (store.Ledger, error) {
	app.mutex.Lock()
	defer app.mutex.Unlock()

	ledger, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path: app.cfg.Ledger.SQLite.Path,
	})
	if err != nil {
		return nil, err
	}

	if err := ledger.Connect(ctx); err != nil {
		ledger.Close()
		return nil, err
	}
	if err := ledger.Migrate(ctx); err != nil {
		ledger.Close()
		return nil, err
	}

	if err := app.setupServices(ledger); err != nil {
		ledger.Close()
		return nil, fmt.Errorf("failed to register services: %w", err)
	}

	ok, resolved := app.sc.ResolveByType(ctx, reflect.TypeOf((*store.Ledger)(nil)).Elem())
	if !ok {
		ledger.Close()
		return nil, fmt.Errorf("failed to resolve ledger: no ledger service registered")
	}

	resolvedLedger, ok := resolved.(store.Ledger)
	if !ok {
		ledger.Close()
		return nil, fmt.Errorf("resolved service is not a ledger")
	}
	return resolvedLedger, nil
}

func (app *WallpaperApp) shutdown(ledger store.Ledger) {
	timeout := config.Duration(app.cfg.ShutdownTimeout, 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.sc.Cleanup(ctx); err != nil {
		app.log.Warn("Failed to complete service container cleanup: %v", err)
	}
	if err := ledger.Close(); err != nil {
		app.log.Warn("Failed to close ledger: %v", err)
	}
}

// Resolver returns the strategy selected by source.use_api.
func (app *WallpaperApp) Resolver() source.Resolver {
	cfg := app.cfg.Source
	timeout := config.Duration(cfg.Timeout, 10*time.Second)
	logger := app.log.Named("source")

	if cfg.UseAPI {
		return source.NewAPIResolver(fetch.NewHTTPFetcher(timeout), cfg.API.Endpoint, source.APIQuery{
			Resolution: cfg.API.Resolution,
			Region:     cfg.API.Region,
			Index:      cfg.API.Index,
		}, logger)
	}

	fetcher := fetch.NewHTTPFetcher(timeout, fetch.WithHeader("User-Agent", cfg.Scrape.UserAgent))
	return source.NewScrapeResolver(fetcher, cfg.Scrape.PageURL, cfg.Scrape.Origin, logger)
}

// Run downloads today's wallpaper. Failures are returned unlogged; the
// command reports them once on exit.
func (app *WallpaperApp) Run(ctx context.Context) (*download.Result, error) {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	ledger, err := app.openLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open download history: %w", err)
	}
	defer app.shutdown(ledger)

	downloader := download.NewDownloader(
		fetch.NewHTTPFetcher(config.Duration(app.cfg.Download.Timeout, 20*time.Second)),
		ledger,
		download.Options{
			SaveDir:     app.cfg.Download.Dir,
			Override:    app.cfg.Download.Override,
			CleanupDays: app.cfg.Download.CleanupDays,
		},
		app.log.Named("download"),
	)

	return downloader.Run(ctx, app.Resolver())
}

// History writes every ledger entry to w, newest first.
func (app *WallpaperApp) History(ctx context.Context, w io.Writer) error {
	ledger, err := app.openLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to open download history: %w", err)
	}
	defer app.shutdown(ledger)

	downloads, err := ledger.List(ctx)
	if err != nil {
		return err
	}

	for _, d := range downloads {
		fmt.Fprintf(w, "[%s] %s (SHA256: %s...)\n", d.DownloadDate.Local().Format(time.RFC3339), d.Filepath, d.ShortHash())
	}
	return nil
}

// Status writes the ledger location, schema migrations and record count to w.
func (app *WallpaperApp) Status(ctx context.Context, w io.Writer) error {
	ledger, err := app.openLedger(ctx)
	if err != nil {
		return err
	}
	defer app.shutdown(ledger)

	health := "ok"
	if err := ledger.Health(ctx); err != nil {
		health = err.Error()
	}

	statuses, err := ledger.MigrationStatus(ctx)
	if err != nil {
		return err
	}
	count, err := ledger.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Ledger: %s (%s)\n", app.cfg.Ledger.SQLite.Path, health)
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied " + s.AppliedAt.Local().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "  %03d %-30s %s\n", s.Version, s.Description, state)
	}
	fmt.Fprintf(w, "Records: %d\n", count)
	return nil
}

// Rollback reverts the latest ledger migration. Pending migrations are applied
// first, so on a current ledger this drops the downloads table until the next run.
func (app *WallpaperApp) Rollback(ctx context.Context, w io.Writer) error {
	ledger, err := app.openLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to open download history: %w", err)
	}
	defer app.shutdown(ledger)

	migration, err := ledger.Rollback(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Rolled back migration %03d (%s)\n", migration.Version, migration.Description)
	return nil
}
