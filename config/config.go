// Package config loads tool defaults from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/nathoo/saveutils/engine"
)

// Prefix is prepended to every environment variable name.
const Prefix = "SAVEUTILS"

// Config holds every setting read from the environment. Command line flags
// override these values.
type Config struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"console"`

	Locale         string  `envconfig:"LOCALE" default:"en-US"`         // report number formatting
	TravelExpenses int64   `envconfig:"TRAVEL_EXPENSES" default:"20000"` // New Game Plus fare
	ResidenceCost  int64   `envconfig:"RESIDENCE_COST" default:"20"`
	SizeCutoff     float64 `envconfig:"SIZE_CUTOFF" default:"1.0"`     // percent
	RawSizeFactor  float64 `envconfig:"RAW_SIZE_FACTOR" default:"1.0"` // divisor for encoded sizes
}

// Load reads the optional dotenv files, then the SAVEUTILS_ environment.
// With no files given it tries ".env" in the working directory; a missing
// file is not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.TravelExpenses < 0:
		return fmt.Errorf("%s_TRAVEL_EXPENSES must not be negative, got %d", Prefix, c.TravelExpenses)
	case c.ResidenceCost < 0:
		return fmt.Errorf("%s_RESIDENCE_COST must not be negative, got %d", Prefix, c.ResidenceCost)
	case c.SizeCutoff < 0:
		return fmt.Errorf("%s_SIZE_CUTOFF must not be negative, got %v", Prefix, c.SizeCutoff)
	case c.RawSizeFactor <= 0:
		return fmt.Errorf("%s_RAW_SIZE_FACTOR must be positive, got %v", Prefix, c.RawSizeFactor)
	}
	return nil
}

// Engine returns the shell defaults derived from c.
func (c *Config) Engine() engine.Config {
	return engine.Config{
		Locale:        c.Locale,
		ResidenceCost: c.ResidenceCost,
		SizeCutoff:    c.SizeCutoff,
		RawSizeFactor: c.RawSizeFactor,
	}
}
