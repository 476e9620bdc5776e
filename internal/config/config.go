// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Files      FilesConfig      `mapstructure:"files"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Validator  ValidatorConfig  `mapstructure:"validator"`
	Market     MarketConfig     `mapstructure:"market"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// FilesConfig holds default file locations for the two pipeline stages.
type FilesConfig struct {
	PDFPath  string `mapstructure:"pdf_path"`
	CSVPath  string `mapstructure:"csv_path"`
	ChartDir string `mapstructure:"chart_dir"`
}

// SimulationConfig holds portfolio simulation parameters.
type SimulationConfig struct {
	InvestmentPerBuy float64 `mapstructure:"investment_per_buy"`
	BenchmarkSymbol  string  `mapstructure:"benchmark_symbol"`
	AdjustedClose    bool    `mapstructure:"adjusted_close"` // value positions at dividend-adjusted close
}

// ValidatorConfig is the bounded-retry policy for symbol validation lookups.
type ValidatorConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	MaxAttempts    int     `mapstructure:"max_attempts"`
	InitialDelayMs int     `mapstructure:"initial_delay_ms"`
	MaxDelayMs     int     `mapstructure:"max_delay_ms"`
	BackoffFactor  float64 `mapstructure:"backoff_factor"`
}

// MarketConfig holds market-data provider settings.
type MarketConfig struct {
	CachePath        string `mapstructure:"cache_path"`
	CacheMaxAgeHours int    `mapstructure:"cache_max_age_hours"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/recfolio"
	}
	return filepath.Join(home, ".config", "recfolio")
}

// Default returns the built-in configuration, used when no config file
// exists and as the base for file and environment overrides.
func Default() *Config {
	return &Config{
		Files: FilesConfig{
			PDFPath:  "newrecs.pdf",
			CSVPath:  "newrecs.csv",
			ChartDir: ".",
		},
		Simulation: SimulationConfig{
			InvestmentPerBuy: 10000,
			BenchmarkSymbol:  "SPY",
			AdjustedClose:    true,
		},
		Validator: ValidatorConfig{
			Enabled:        true,
			MaxAttempts:    3,
			InitialDelayMs: 200,
			MaxDelayMs:     5000,
			BackoffFactor:  2.0,
		},
		Market: MarketConfig{
			CachePath:        filepath.Join(DefaultConfigDir(), "prices.db"),
			CacheMaxAgeHours: 24,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Console:    true,
			File:       true,
			FilePath:   filepath.Join(DefaultConfigDir(), "logs", "recfolio.log"),
			MaxSize:    20,
			MaxBackups: 5,
			MaxAge:     30,
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		// Config file not found, write a template for the next run
		if err := writeTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("creating template config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("files.pdf_path", cfg.Files.PDFPath)
	v.SetDefault("files.csv_path", cfg.Files.CSVPath)
	v.SetDefault("files.chart_dir", cfg.Files.ChartDir)
	v.SetDefault("simulation.investment_per_buy", cfg.Simulation.InvestmentPerBuy)
	v.SetDefault("simulation.benchmark_symbol", cfg.Simulation.BenchmarkSymbol)
	v.SetDefault("simulation.adjusted_close", cfg.Simulation.AdjustedClose)
	v.SetDefault("validator.enabled", cfg.Validator.Enabled)
	v.SetDefault("validator.max_attempts", cfg.Validator.MaxAttempts)
	v.SetDefault("validator.initial_delay_ms", cfg.Validator.InitialDelayMs)
	v.SetDefault("validator.max_delay_ms", cfg.Validator.MaxDelayMs)
	v.SetDefault("validator.backoff_factor", cfg.Validator.BackoffFactor)
	v.SetDefault("market.cache_path", cfg.Market.CachePath)
	v.SetDefault("market.cache_max_age_hours", cfg.Market.CacheMaxAgeHours)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.file_path", cfg.Logging.FilePath)
	v.SetDefault("logging.max_size", cfg.Logging.MaxSize)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.max_age", cfg.Logging.MaxAge)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RECFOLIO_PDF"); v != "" {
		cfg.Files.PDFPath = v
	}
	if v := os.Getenv("RECFOLIO_CSV"); v != "" {
		cfg.Files.CSVPath = v
	}
	if v := os.Getenv("RECFOLIO_CACHE"); v != "" {
		cfg.Market.CachePath = v
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Simulation.InvestmentPerBuy <= 0 {
		return fmt.Errorf("simulation.investment_per_buy must be positive, got %v", c.Simulation.InvestmentPerBuy)
	}
	if c.Simulation.BenchmarkSymbol == "" {
		return fmt.Errorf("simulation.benchmark_symbol must not be empty")
	}
	if c.Validator.MaxAttempts < 1 {
		return fmt.Errorf("validator.max_attempts must be at least 1, got %d", c.Validator.MaxAttempts)
	}
	if c.Validator.BackoffFactor < 1.0 {
		return fmt.Errorf("validator.backoff_factor must be >= 1.0, got %v", c.Validator.BackoffFactor)
	}
	if c.Files.PDFPath == "" || c.Files.CSVPath == "" {
		return fmt.Errorf("files.pdf_path and files.csv_path must not be empty")
	}
	return nil
}
