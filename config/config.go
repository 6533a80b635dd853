// Package config loads run settings for frontier.
//
// Settings are merged with priority env > file > defaults and validated with
// struct tags before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/frontier/explore"
	"github.com/poiesic/frontier/problem/walk"
	"github.com/poiesic/frontier/tree"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FRONTIER_"

// ErrInvalidConfig is returned when merged settings fail validation.
var ErrInvalidConfig = errors.New("invalid config")

var validate = validator.New()

// Config is the complete run configuration.
type Config struct {
	// Workers is the number of exploration threads.
	Workers int `yaml:"workers" validate:"min=1,max=1024"`

	// StepSize is the number of inputs applied per extension.
	StepSize int `yaml:"step_size" validate:"min=1"`

	// MaxIterations bounds each thread's loop. Zero runs until stopped.
	MaxIterations int64 `yaml:"max_iterations" validate:"min=0"`

	// Seed derives every thread's random stream.
	Seed uint64 `yaml:"seed"`

	// Wander is the chance of a random ascend/descend before each target
	// selection.
	Wander float64 `yaml:"wander" validate:"min=0,max=1"`

	Tree TreeConfig `yaml:"tree"`
	Walk WalkConfig `yaml:"walk"`
}

// TreeConfig mirrors tree.Params.
type TreeConfig struct {
	DescendStop       float64 `yaml:"descend_stop" validate:"min=0,max=1"`
	AscendContinue    float64 `yaml:"ascend_continue" validate:"min=0,max=1"`
	SwitchToBest      float64 `yaml:"switch_to_best" validate:"min=0,max=1"`
	RankAdvance       float64 `yaml:"rank_advance" validate:"min=0,max=1"`
	MaintenancePeriod int     `yaml:"maintenance_period" validate:"min=0"`
	MaxIndexed        int     `yaml:"max_indexed" validate:"min=0"`
}

// WalkConfig mirrors walk.Config.
type WalkConfig struct {
	WallDensity   float64 `yaml:"wall_density" validate:"min=0,lt=1"`
	NoveltyWeight float64 `yaml:"novelty_weight" validate:"min=0"`
	Seed          uint64  `yaml:"seed"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	p := tree.DefaultParams()
	w := walk.DefaultConfig()
	return Config{
		Workers:  1,
		StepSize: 400,
		Tree: TreeConfig{
			DescendStop:       p.DescendStop,
			AscendContinue:    p.AscendContinue,
			SwitchToBest:      p.SwitchToBest,
			RankAdvance:       p.RankAdvance,
			MaintenancePeriod: p.MaintenancePeriod,
			MaxIndexed:        p.MaxIndexed,
		},
		Walk: WalkConfig{
			WallDensity:   w.WallDensity,
			NoveltyWeight: w.NoveltyWeight,
			Seed:          w.Seed,
		},
	}
}

// Load reads configuration with priority env > file > defaults. An empty
// path or a missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := loadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("load config env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"WORKERS", &cfg.Workers},
		{"STEP_SIZE", &cfg.StepSize},
		{"MAINTENANCE_PERIOD", &cfg.Tree.MaintenancePeriod},
		{"MAX_INDEXED", &cfg.Tree.MaxIndexed},
	}
	for _, e := range ints {
		if v := os.Getenv(EnvPrefix + e.name); v != "" {
			i, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, e.name, err)
			}
			*e.dst = i
		}
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"WANDER", &cfg.Wander},
		{"DESCEND_STOP", &cfg.Tree.DescendStop},
		{"ASCEND_CONTINUE", &cfg.Tree.AscendContinue},
		{"SWITCH_TO_BEST", &cfg.Tree.SwitchToBest},
		{"RANK_ADVANCE", &cfg.Tree.RankAdvance},
		{"WALL_DENSITY", &cfg.Walk.WallDensity},
		{"NOVELTY_WEIGHT", &cfg.Walk.NoveltyWeight},
	}
	for _, e := range floats {
		if v := os.Getenv(EnvPrefix + e.name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, e.name, err)
			}
			*e.dst = f
		}
	}

	if v := os.Getenv(EnvPrefix + "MAX_ITERATIONS"); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_ITERATIONS: %w", EnvPrefix, err)
		}
		cfg.MaxIterations = i
	}
	if v := os.Getenv(EnvPrefix + "SEED"); v != "" {
		u, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", EnvPrefix, err)
		}
		cfg.Seed = u
	}
	return nil
}

// Validate checks every field against its bounds.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// TreeParams converts the tree section.
func (c Config) TreeParams() tree.Params {
	return tree.Params{
		DescendStop:       c.Tree.DescendStop,
		AscendContinue:    c.Tree.AscendContinue,
		SwitchToBest:      c.Tree.SwitchToBest,
		RankAdvance:       c.Tree.RankAdvance,
		MaintenancePeriod: c.Tree.MaintenancePeriod,
		MaxIndexed:        c.Tree.MaxIndexed,
	}
}

// WalkParams converts the walk section.
func (c Config) WalkParams() walk.Config {
	return walk.Config{
		WallDensity:   c.Walk.WallDensity,
		NoveltyWeight: c.Walk.NoveltyWeight,
		Seed:          c.Walk.Seed,
	}
}

// Options converts the configuration into explorer options.
func (c Config) Options() []explore.Option {
	return []explore.Option{
		explore.WithStepSize(c.StepSize),
		explore.WithMaxIterations(c.MaxIterations),
		explore.WithWander(c.Wander),
		explore.WithSeed(c.Seed),
		explore.WithTreeParams(c.TreeParams()),
	}
}
