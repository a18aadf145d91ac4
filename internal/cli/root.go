// Package cli is the trackmysleep command tree.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jask/trackmysleep/internal/config"
	"github.com/jask/trackmysleep/internal/database"
	"github.com/jask/trackmysleep/internal/database/repository"
	"github.com/jask/trackmysleep/internal/logging"
	"github.com/jask/trackmysleep/internal/service"
)

type rootOptions struct {
	configPath string
	dbPath     string
	driver     string
	logLevel   string
}

// NewRootCmd builds the command tree. Running it without a subcommand opens the TUI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "trackmysleep",
		Short: "Track when you sleep and how well",
		Long: `trackmysleep records the nights you sleep in a local SQLite database.

Start tracking when you go to bed, stop when you wake up and rate the night.
Without a subcommand the interactive terminal UI opens.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default $HOME/.config/trackmysleep/config.toml)")
	pf.StringVar(&opts.dbPath, "db", "", "database file, overrides database.path")
	pf.StringVar(&opts.driver, "driver", "", "sqlite driver: sqlite3 (cgo) or sqlite (pure Go)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level, overrides log.level")

	root.AddCommand(
		newTUICmd(opts),
		newStartCmd(opts),
		newStopCmd(opts),
		newClearCmd(opts),
		newListCmd(opts),
		newRateCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newSeedCmd(opts),
	)
	return root
}

// Execute runs the command tree until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// env is everything a command needs, opened from config.
type env struct {
	cfg     config.Config
	log     *logrus.Logger
	db      *sql.DB
	nights  *repository.NightRepo
	tracker *service.Tracker
	quality *service.QualityService
	tz      *time.Location

	closers []func() error
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
}

// open loads config, applies flag overrides, migrates and opens the database
// and starts an initialised tracker.
func (o *rootOptions) open(ctx context.Context) (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	log, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: log}
	e.closers = append(e.closers, logCloser.Close)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		e.Close()
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Driver, cfg.Database.Path); err != nil {
		e.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	version, dirty, err := database.SchemaVersion(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("schema version: %w", err)
	}
	if dirty {
		e.Close()
		return nil, fmt.Errorf("schema version %d is dirty, a migration failed halfway", version)
	}
	db, err := database.Open(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}
	e.db = db
	e.closers = append(e.closers, db.Close)

	e.nights = repository.NewNightRepo(db)
	e.quality = &service.QualityService{Nights: e.nights, Log: log.WithField("component", "quality")}
	e.tracker = service.NewTracker(e.nights, service.WithLogger(log.WithField("component", "tracker")))
	e.closers = append(e.closers, func() error { e.tracker.Close(); return nil })
	if err := e.tracker.Init(ctx); err != nil {
		e.Close()
		return nil, err
	}

	e.tz = loadLocation(cfg.UI.Timezone, log)
	log.WithFields(logrus.Fields{"db": cfg.Database.Path, "driver": cfg.Database.Driver, "schema": version}).Debug("database ready")
	return e, nil
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.driver != "" {
		cfg.Database.Driver = o.driver
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func loadLocation(name string, log logrus.FieldLogger) *time.Location {
	if strings.TrimSpace(name) == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.WithError(err).Warnf("using local timezone, cannot load %q", name)
		return time.Local
	}
	return loc
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
