// Package config loads runtime settings from the environment, an optional
// .env file and an optional YAML tuning file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/levelcast/internal/api"
	"github.com/abhisek/levelcast/internal/history"
	"github.com/abhisek/levelcast/internal/ladder"
	"github.com/abhisek/levelcast/internal/pace"
	"github.com/abhisek/levelcast/internal/speedup"
)

// Config holds all runtime configuration.
type Config struct {
	API api.Config

	// DBPath is the record cache location. Empty means store.DefaultDBPath.
	DBPath string

	// Windows are the daily review hours in Location.
	Windows  []int `validate:"required,min=1,dive,min=0,max=23"`
	Location *time.Location

	RunPolicy string `validate:"oneof=latest-per-level start-date"`
	Ceiling   int    `validate:"min=1"`

	// TuningPath points at a YAML file overriding speedup constants.
	TuningPath string
	Tuning     speedup.Tuning

	LogMode string `validate:"oneof=dev prod quiet"`
	Addr    string `validate:"required"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API:       api.DefaultConfig(),
		Windows:   append([]int(nil), ladder.DefaultWindows...),
		Location:  time.Local,
		RunPolicy: history.PolicyLatestPerLevel,
		Ceiling:   pace.Ceiling,
		Tuning:    speedup.DefaultTuning(),
		LogMode:   "quiet",
		Addr:      ":8080",
	}
}

// LoadDotEnv loads .env from the working directory when present. Variables
// already set in the environment win.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset values, then applies the tuning file if one is named.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.API.Token = os.Getenv("LEVELCAST_API_TOKEN")
	cfg.API.BaseURL = getEnv("LEVELCAST_API_URL", cfg.API.BaseURL)
	cfg.DBPath = os.Getenv("LEVELCAST_DB")
	cfg.RunPolicy = getEnv("LEVELCAST_RUN_POLICY", cfg.RunPolicy)
	cfg.TuningPath = os.Getenv("LEVELCAST_TUNING")
	cfg.LogMode = getEnv("LEVELCAST_LOG_MODE", cfg.LogMode)
	cfg.Addr = getEnv("LEVELCAST_ADDR", cfg.Addr)

	if w := os.Getenv("LEVELCAST_WINDOWS"); w != "" {
		hours, err := ParseWindows(w)
		if err != nil {
			return cfg, err
		}
		cfg.Windows = hours
	}

	if tz := os.Getenv("LEVELCAST_TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("LEVELCAST_TZ: %w", err)
		}
		cfg.Location = loc
	}

	if c := os.Getenv("LEVELCAST_CEILING"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil {
			return cfg, fmt.Errorf("LEVELCAST_CEILING: %w", err)
		}
		cfg.Ceiling = n
	}

	if cfg.TuningPath != "" {
		t, err := LoadTuning(cfg.TuningPath, cfg.Tuning)
		if err != nil {
			return cfg, err
		}
		cfg.Tuning = t
	}

	return cfg, nil
}

// ParseWindows parses a comma-separated list of hours like "9,18".
func ParseWindows(s string) ([]int, error) {
	var hours []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		h, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("review window %q: %w", part, err)
		}
		hours = append(hours, h)
	}
	if len(hours) == 0 {
		return nil, ladder.ErrNoWindows
	}
	return hours, nil
}

// LoadTuning reads YAML from path over base. Keys missing from the file
// keep base's values.
func LoadTuning(path string, base speedup.Tuning) (speedup.Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read tuning file: %w", err)
	}
	t := base
	if err := yaml.Unmarshal(data, &t); err != nil {
		return base, fmt.Errorf("parse tuning file %s: %w", path, err)
	}
	return t, nil
}

// Schedule builds the review window schedule.
func (c Config) Schedule() (ladder.WindowSchedule, error) {
	return ladder.NewWindowSchedule(c.Windows, c.Location)
}

// Segmenter returns the configured run policy.
func (c Config) Segmenter() (history.Segmenter, error) {
	return history.PolicyByName(c.RunPolicy)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges, including the nested tuning constants.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Schedule(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
