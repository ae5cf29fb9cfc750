package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/liasse/internal/model"
)

// FileName is the default config file looked up in the working directory.
const FileName = "liasse.yaml"

// EnvPrefix prefixes every environment override, e.g. LIASSE_EPSILON.
const EnvPrefix = "LIASSE_"

// Config represents the top-level liasse.yaml configuration.
type Config struct {
	Engine     EngineConfig `yaml:"engine"`
	Search     SearchConfig `yaml:"search" envPrefix:"SEARCH_"`
	SchemasDir string       `yaml:"schemas_dir,omitempty" env:"SCHEMAS_DIR"`
	ChartFile  string       `yaml:"chart_file,omitempty" env:"CHART_FILE"`
	Log        LogConfig    `yaml:"log" envPrefix:"LOG_"`
}

// EngineConfig controls statement evaluation.
type EngineConfig struct {
	System             string `yaml:"system" env:"SYSTEM"` // "normal" or "smt"
	Precision          int32  `yaml:"precision" env:"PRECISION"`
	VariationPrecision int32  `yaml:"variation_precision" env:"VARIATION_PRECISION"`
	Epsilon            string `yaml:"epsilon" env:"EPSILON"` // decimal, e.g. "1" or "0.5"
	Parallel           bool   `yaml:"parallel" env:"PARALLEL"`
	MergeDuplicates    bool   `yaml:"merge_duplicates" env:"MERGE_DUPLICATES"`
}

// SearchConfig caps reference search results.
type SearchConfig struct {
	DefaultLimit int           `yaml:"default_limit" env:"DEFAULT_LIMIT"`
	AccountCap   int           `yaml:"account_cap" env:"ACCOUNT_CAP"`
	RuleCap      int           `yaml:"rule_cap" env:"RULE_CAP"`
	ChapterCap   int           `yaml:"chapter_cap" env:"CHAPTER_CAP"`
	LoadTimeout  time.Duration `yaml:"load_timeout" env:"LOAD_TIMEOUT"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"` // "text" or "json"
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			System:             string(model.SystemNormal),
			Precision:          0,
			VariationPrecision: 2,
			Epsilon:            "1",
			Parallel:           true,
		},
		Search: SearchConfig{
			DefaultLimit: 50,
			AccountCap:   20,
			RuleCap:      15,
			ChapterCap:   10,
			LoadTimeout:  5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a liasse.yaml file from disk over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOptional is Load, but a missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overlays LIASSE_* environment variables onto cfg. Unset variables keep the current value.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("applying environment: %w", err)
	}
	return nil
}

// Validate checks values that YAML decoding cannot.
func (c *Config) Validate() error {
	if _, err := c.Engine.EpsilonValue(); err != nil {
		return err
	}
	if _, err := c.Engine.SystemValue(); err != nil {
		return err
	}
	if c.Engine.Precision < 0 || c.Engine.VariationPrecision < 0 {
		return fmt.Errorf("engine precision must not be negative")
	}
	return nil
}

// SystemValue parses the accounting system.
func (e EngineConfig) SystemValue() (model.System, error) {
	sys, err := model.ParseSystem(e.System)
	if err != nil {
		return "", fmt.Errorf("parsing engine.system: %w", err)
	}
	return sys, nil
}

// EpsilonValue parses the coherence tolerance.
func (e EngineConfig) EpsilonValue() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(e.Epsilon)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing engine.epsilon %q: %w", e.Epsilon, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("engine.epsilon %s must not be negative", d)
	}
	return d, nil
}
