// Package config loads the goldfish configuration from a YAML file, with
// defaults and GOLDFISH_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Search    SearchConfig    `mapstructure:"search"`
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Watch     WatchConfig     `mapstructure:"watch"`
}

// LoggingConfig selects the zap level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SearchConfig bounds a single fastest-win search.
type SearchConfig struct {
	MaxTurns      int  `mapstructure:"max_turns"`
	LeafLimit     int  `mapstructure:"leaf_limit"`
	MaxDepth      int  `mapstructure:"max_depth"`
	OpeningHand   int  `mapstructure:"opening_hand"`
	OpponentLife  int  `mapstructure:"opponent_life"`
	AllowDeferral bool `mapstructure:"allow_deferral"`
	EventLog      bool `mapstructure:"event_log"`
}

// OptimizerConfig drives the hill-climb.
type OptimizerConfig struct {
	Epochs    int    `mapstructure:"epochs"`
	Trials    int    `mapstructure:"trials"`
	Workers   int    `mapstructure:"workers"`
	Seed      uint64 `mapstructure:"seed"`
	DeckRange string `mapstructure:"deck_range"`
	TopLines  int    `mapstructure:"top_lines"`
}

// WatchConfig configures the live epoch stream.
type WatchConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Address      string        `mapstructure:"address"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PingInterval time.Duration `mapstructure:"ping_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("search.max_turns", 8)
	v.SetDefault("search.leaf_limit", 200000)
	v.SetDefault("search.max_depth", 1000)
	v.SetDefault("search.opening_hand", 7)
	v.SetDefault("search.opponent_life", 20)
	v.SetDefault("search.allow_deferral", false)
	v.SetDefault("search.event_log", true)

	v.SetDefault("optimizer.epochs", 100)
	v.SetDefault("optimizer.trials", 1000)
	v.SetDefault("optimizer.workers", 0)
	v.SetDefault("optimizer.seed", 1)
	v.SetDefault("optimizer.deck_range", "configs/deckrange.yaml")
	v.SetDefault("optimizer.top_lines", 10)

	v.SetDefault("watch.enabled", false)
	v.SetDefault("watch.address", "localhost:8090")
	v.SetDefault("watch.write_timeout", 10*time.Second)
	v.SetDefault("watch.ping_interval", 30*time.Second)
}

// Load reads the configuration at path. An empty path, or a missing file,
// yields the defaults; environment variables such as
// GOLDFISH_SEARCH_MAX_TURNS override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GOLDFISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no run can work with.
func (c *Config) Validate() error {
	switch {
	case c.Search.MaxTurns < 1:
		return fmt.Errorf("search.max_turns must be positive, got %d", c.Search.MaxTurns)
	case c.Search.OpeningHand < 1:
		return fmt.Errorf("search.opening_hand must be positive, got %d", c.Search.OpeningHand)
	case c.Search.OpponentLife < 1:
		return fmt.Errorf("search.opponent_life must be positive, got %d", c.Search.OpponentLife)
	case c.Optimizer.Trials < 1:
		return fmt.Errorf("optimizer.trials must be positive, got %d", c.Optimizer.Trials)
	case c.Optimizer.Epochs < 0:
		return fmt.Errorf("optimizer.epochs must not be negative, got %d", c.Optimizer.Epochs)
	case c.Optimizer.Workers < 0:
		return fmt.Errorf("optimizer.workers must not be negative, got %d", c.Optimizer.Workers)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
