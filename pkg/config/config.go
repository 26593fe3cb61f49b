package config

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/gonewx/actoranim/pkg/animation"
)

// Config is the top level configuration of the animation tools.
type Config struct {
	// Progression selects how Progression segments evaluate: none, hold or linear.
	Progression string `yaml:"progression"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig describes the zap logger built by Prepare.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`

	// Development switches to the human readable console encoder.
	Development bool `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Progression: animation.ProgressionNone.String(),
		Logging: LoggingConfig{
			Level: zapcore.InfoLevel.String(),
		},
	}
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var err error
	if _, perr := animation.ParseProgressionPolicy(c.Progression); perr != nil {
		err = multierr.Append(err, perr)
	}
	if _, lerr := zapcore.ParseLevel(c.Logging.Level); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("logging: %w", lerr))
	}
	return err
}

// ProgressionPolicy returns the parsed progression setting.
func (c *Config) ProgressionPolicy() (animation.ProgressionPolicy, error) {
	return animation.ParseProgressionPolicy(c.Progression)
}

// Prepare builds the configured logger.
func (conf *LoggingConfig) Prepare() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	zc := zap.NewProductionConfig()
	if conf.Development {
		zc = zap.NewDevelopmentConfig()
		zc.DisableCaller = true
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("unable to build logger: %w", err)
	}
	return log, nil
}
