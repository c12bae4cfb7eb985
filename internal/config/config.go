// Package config loads conseq settings from YAML files and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aria-lang/conseq-go/internal/alignment"
	"github.com/aria-lang/conseq-go/internal/consensus"
	"github.com/aria-lang/conseq-go/internal/seed"
)

// DefaultMinimumReads is the smallest bin the cons command refines.
const DefaultMinimumReads = 50

// Config is the full set of tunables.
type Config struct {
	Strategy     string           `yaml:"strategy" validate:"required"`
	Seed         SeedConfig       `yaml:"seed"`
	Refinement   RefinementConfig `yaml:"refinement"`
	Scoring      ScoringConfig    `yaml:"scoring"`
	Alignment    AlignmentConfig  `yaml:"alignment"`
	Workers      int              `yaml:"workers" validate:"gte=0"`
	MinimumReads int              `yaml:"minimum_reads" validate:"gte=1"`
	BinTimeout   time.Duration    `yaml:"bin_timeout" validate:"gte=0"`
}

// SeedConfig tunes the positional-vote estimator.
type SeedConfig struct {
	ExcerptLength int     `yaml:"excerpt_length" validate:"gt=0"`
	BufferLength  int     `yaml:"buffer_length" validate:"gtfield=ExcerptLength"`
	TieFraction   float64 `yaml:"tie_fraction" validate:"gte=0,lte=1"`
}

// RefinementConfig bounds the refinement loop and its per-read fan-out.
type RefinementConfig struct {
	MaxRounds       int `yaml:"max_rounds" validate:"gte=1"`
	ReadParallelism int `yaml:"read_parallelism" validate:"gte=0"`
}

// ScoringConfig is the scheme candidates are scored under. Edits are always
// derived with unweighted scoring.
type ScoringConfig struct {
	Match     float64 `yaml:"match" validate:"gt=0"`
	Mismatch  float64 `yaml:"mismatch" validate:"lte=0"`
	GapOpen   float64 `yaml:"gap_open" validate:"lte=0"`
	GapExtend float64 `yaml:"gap_extend" validate:"lte=0"`
}

// AlignmentConfig limits the size of a single alignment.
type AlignmentConfig struct {
	MaxCells int `yaml:"max_cells" validate:"gte=0"`
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() *Config {
	p := alignment.Penalized()
	return &Config{
		Strategy: consensus.PairwiseName,
		Seed: SeedConfig{
			ExcerptLength: seed.DefaultExcerptLength,
			BufferLength:  seed.DefaultBufferLength,
			TieFraction:   seed.DefaultTieFraction,
		},
		Refinement: RefinementConfig{
			MaxRounds: consensus.DefaultMaxRounds,
		},
		Scoring: ScoringConfig{
			Match:     p.Match,
			Mismatch:  p.Mismatch,
			GapOpen:   p.GapOpen,
			GapExtend: p.GapExtend,
		},
		Alignment: AlignmentConfig{
			MaxCells: alignment.DefaultMaxCells,
		},
		MinimumReads: DefaultMinimumReads,
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides the most commonly tuned fields from CONSEQ_* variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("CONSEQ_STRATEGY"); v != "" {
		c.Strategy = v
	}
	if v := os.Getenv("CONSEQ_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CONSEQ_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("CONSEQ_MIN_READS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CONSEQ_MIN_READS: %w", err)
		}
		c.MinimumReads = n
	}
	if v := os.Getenv("CONSEQ_BIN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CONSEQ_BIN_TIMEOUT: %w", err)
		}
		c.BinTimeout = d
	}
	return nil
}

// Validate checks field ranges and that the strategy is registered.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	for _, name := range consensus.Names() {
		if name == c.Strategy {
			return nil
		}
	}
	return fmt.Errorf("invalid config: %w: %q", consensus.ErrUnknownStrategy, c.Strategy)
}

// Options converts the configuration into strategy options.
func (c *Config) Options(logger *slog.Logger) consensus.Options {
	return consensus.Options{
		Estimator: &seed.Estimator{
			ExcerptLength: c.Seed.ExcerptLength,
			BufferLength:  c.Seed.BufferLength,
			TieFraction:   c.Seed.TieFraction,
		},
		Scoring: &alignment.Scoring{
			Match:     c.Scoring.Match,
			Mismatch:  c.Scoring.Mismatch,
			GapOpen:   c.Scoring.GapOpen,
			GapExtend: c.Scoring.GapExtend,
		},
		MaxRounds:       c.Refinement.MaxRounds,
		ReadParallelism: c.Refinement.ReadParallelism,
		MaxCells:        c.Alignment.MaxCells,
		Workers:         c.Workers,
		BinTimeout:      c.BinTimeout,
		Logger:          logger,
	}
}

// NewStrategy builds the configured strategy.
func (c *Config) NewStrategy(logger *slog.Logger) (consensus.Strategy, error) {
	return consensus.New(c.Strategy, c.Options(logger))
}
