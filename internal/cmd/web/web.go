// Package web parses optimizer web flags and launches the service.
package web

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	entrypoint "github.com/gdresist/optimizer/internal/platform/cmd"
	"github.com/gdresist/optimizer/internal/services/web"
	"github.com/gdresist/optimizer/internal/services/web/storage/sqlite"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"GDRESIST_WEB_HTTP_ADDR" envDefault:"localhost:8090"`
	DBPath              string        `env:"GDRESIST_WEB_DB_PATH" envDefault:"data/web.db"`
	DataDir             string        `env:"GDRESIST_WEB_DATA_DIR" envDefault:"data"`
	ComponentListURL    string        `env:"GDRESIST_WEB_COMPONENT_LIST_URL"`
	AugmentListURL      string        `env:"GDRESIST_WEB_AUGMENT_LIST_URL"`
	ListBaseURL         string        `env:"GDRESIST_WEB_LIST_BASE_URL"`
	ListTimeout         time.Duration `env:"GDRESIST_WEB_LIST_TIMEOUT" envDefault:"10s"`
	TagColumn           string        `env:"GDRESIST_WEB_LIST_TAG_COLUMN" envDefault:"Type"`
	TrustForwardedProto bool          `env:"GDRESIST_WEB_TRUST_FORWARDED_PROTO"`
	StateRetention      time.Duration `env:"GDRESIST_WEB_STATE_RETENTION" envDefault:"2160h"`
	PurgeInterval       time.Duration `env:"GDRESIST_WEB_PURGE_INTERVAL" envDefault:"1h"`
	PageIdleTimeout     time.Duration `env:"GDRESIST_WEB_PAGE_IDLE_TIMEOUT" envDefault:"30m"`
	MaxPages            int           `env:"GDRESIST_WEB_MAX_PAGES" envDefault:"1000"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Client state SQLite path")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory served under /data/ (empty disables)")
	fs.StringVar(&cfg.ComponentListURL, "component-list-url", cfg.ComponentListURL, "Component CSV URL")
	fs.StringVar(&cfg.AugmentListURL, "augment-list-url", cfg.AugmentListURL, "Augment CSV URL")
	fs.StringVar(&cfg.ListBaseURL, "list-base-url", cfg.ListBaseURL, "Base for relative list URLs outside /data/ (default http://<http-addr>/)")
	fs.DurationVar(&cfg.ListTimeout, "list-timeout", cfg.ListTimeout, "Timeout for one list fetch")
	fs.StringVar(&cfg.TagColumn, "tag-column", cfg.TagColumn, "CSV column carrying item tags")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Honor X-Forwarded-Proto")
	fs.DurationVar(&cfg.StateRetention, "state-retention", cfg.StateRetention, "Drop client state idle longer than this (0 keeps forever)")
	fs.DurationVar(&cfg.PurgeInterval, "purge-interval", cfg.PurgeInterval, "How often idle client state is purged")
	fs.DurationVar(&cfg.PageIdleTimeout, "page-idle-timeout", cfg.PageIdleTimeout, "Drop live pages idle longer than this")
	fs.IntVar(&cfg.MaxPages, "max-pages", cfg.MaxPages, "Maximum live pages held in memory")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return Config{}, errors.New("db path is required")
	}
	if cfg.PurgeInterval <= 0 {
		return Config{}, errors.New("purge interval must be positive")
	}
	return cfg, nil
}

// Run starts the optimizer web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create db dir: %w", err)
			}
		}
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open state store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close state store: %v", err)
			}
		}()

		server, err := web.NewServer(web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			Store:               store,
			DataDir:             cfg.DataDir,
			ComponentListURL:    cfg.ComponentListURL,
			AugmentListURL:      cfg.AugmentListURL,
			ListBaseURL:         cfg.ListBaseURL,
			ListTimeout:         cfg.ListTimeout,
			TagColumn:           cfg.TagColumn,
			TrustForwardedProto: cfg.TrustForwardedProto,
			PageIdleTimeout:     cfg.PageIdleTimeout,
			MaxPages:            cfg.MaxPages,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}

		if cfg.StateRetention > 0 {
			go purgeLoop(ctx, store, cfg.StateRetention, cfg.PurgeInterval, time.Now)
		}

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}

type purger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// purgeLoop removes idle client state once at startup and then on every tick.
func purgeLoop(ctx context.Context, store purger, retention, interval time.Duration, now func() time.Time) {
	if interval <= 0 {
		interval = time.Hour
	}
	purgeOnce(ctx, store, retention, now)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purgeOnce(ctx, store, retention, now)
		}
	}
}

func purgeOnce(ctx context.Context, store purger, retention time.Duration, now func() time.Time) int64 {
	removed, err := store.PurgeBefore(ctx, now().Add(-retention))
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("purge client state: %v", err)
		}
		return 0
	}
	if removed > 0 {
		log.Printf("purged client state rows=%d", removed)
	}
	return removed
}
