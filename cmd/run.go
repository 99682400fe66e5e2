package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/levelcast/internal/app"
	"github.com/abhisek/levelcast/internal/logger"
	"github.com/abhisek/levelcast/internal/session"
	"github.com/abhisek/levelcast/internal/source"
)

// runApp resolves configuration and the record source, then launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The screen owns stderr, so logs go next to the cache.
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	log, err := logger.NewFile(cfg.LogMode, filepath.Join(filepath.Dir(dbPath), "levelcast.log"))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	opts, err := sessionOptions(cfg)
	if err != nil {
		return err
	}
	clock := source.SystemClock{}
	src, name, closeSrc, err := openSource(cmd, cfg, clock, log)
	if err != nil {
		return err
	}
	defer closeSrc()

	return app.Run(app.Options{
		Service:    session.NewService(src, clock, opts, log),
		SourceName: name,
		Log:        log,
	})
}
