package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v3"

	"github.com/aligator/fatdir"
)

// Config holds the settings of the CLI.
type Config struct {
	LogLevel      string        `yaml:"log_level" validate:"oneof=panic fatal error warn warning info debug trace"`
	MaxDepth      int           `yaml:"max_depth" validate:"gte=0,lte=4096"`
	RetryAttempts uint          `yaml:"retry_attempts" validate:"gte=1,lte=100"`
	RetryDelay    time.Duration `yaml:"retry_delay" validate:"gte=0"`
	CodePage      string        `yaml:"codepage" validate:"oneof=cp437 cp850 cp852 cp866"`
	SkipChecks    bool          `yaml:"skip_checks"`
}

var codePages = map[string]encoding.Encoding{
	"cp437": charmap.CodePage437,
	"cp850": charmap.CodePage850,
	"cp852": charmap.CodePage852,
	"cp866": charmap.CodePage866,
}

// DefaultConfig returns the config used if no file is given.
func DefaultConfig() Config {
	return Config{
		LogLevel:      "warn",
		MaxDepth:      fatdir.DefaultMaxDepth,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
		CodePage:      "cp437",
	}
}

// LoadConfig reads the YAML config at path on top of the defaults and applies
// the FATDIR_* environment variables, which may also be set in a .env file.
// A missing config file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// The .env file is optional.
	_ = godotenv.Load(".env")
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("FATDIR_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("FATDIR_CODEPAGE"); v != "" {
		c.CodePage = strings.ToLower(v)
	}
	if v := os.Getenv("FATDIR_MAX_DEPTH"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FATDIR_MAX_DEPTH: %w", err)
		}
		c.MaxDepth = depth
	}
	return nil
}

// Options converts the config to volume options.
func (c Config) Options() []fatdir.Option {
	opts := []fatdir.Option{
		fatdir.WithMaxDepth(c.MaxDepth),
		fatdir.WithRetry(c.RetryAttempts, c.RetryDelay),
		fatdir.WithCodePage(codePages[c.CodePage]),
	}
	if c.SkipChecks {
		opts = append(opts, fatdir.WithSkipChecks())
	}
	return opts
}
