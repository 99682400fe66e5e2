package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/levelcast/internal/api"
	"github.com/abhisek/levelcast/internal/config"
	"github.com/abhisek/levelcast/internal/demo"
	"github.com/abhisek/levelcast/internal/logger"
	"github.com/abhisek/levelcast/internal/session"
	"github.com/abhisek/levelcast/internal/source"
	"github.com/abhisek/levelcast/internal/store"
)

// Source names shown to the user.
const (
	sourceAPI   = "api"
	sourceCache = "cache"
	sourceDemo  = "demo"
)

// loadConfig reads .env, the environment and the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}
	if p, _ := cmd.Flags().GetString("policy"); p != "" {
		cfg.RunPolicy = p
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// sessionOptions converts the config into report options.
func sessionOptions(cfg config.Config) (session.Options, error) {
	windows, err := cfg.Schedule()
	if err != nil {
		return session.Options{}, err
	}
	seg, err := cfg.Segmenter()
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		Windows:   windows,
		Segmenter: seg,
		Ceiling:   cfg.Ceiling,
		Tuning:    cfg.Tuning,
	}, nil
}

// openSource picks the record source from --demo and --offline. The
// returned close func is never nil.
func openSource(cmd *cobra.Command, cfg config.Config, clock source.Clock, log *logger.Logger) (source.Source, string, func() error, error) {
	noop := func() error { return nil }

	if useDemo, _ := cmd.Flags().GetBool("demo"); useDemo {
		seed, _ := cmd.Flags().GetUint64("seed")
		log.Debug("using synthetic learner", "seed", seed)
		return demo.New(seed, clock.Now()), sourceDemo, noop, nil
	}

	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		st, err := openStore(cmd)
		if err != nil {
			return nil, "", noop, err
		}
		return st, sourceCache, st.Close, nil
	}

	client, err := api.New(cfg.API, log)
	if err != nil {
		return nil, "", noop, err
	}
	return client, sourceAPI, noop, nil
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// buildReport runs the whole pipeline for the one-shot commands.
func buildReport(cmd *cobra.Command) (*session.Report, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	opts, err := sessionOptions(cfg)
	if err != nil {
		return nil, err
	}
	clock := source.SystemClock{}
	src, _, closeSrc, err := openSource(cmd, cfg, clock, log)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	return session.NewService(src, clock, opts, log).Build(cmd.Context())
}
