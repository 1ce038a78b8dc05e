package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"gothesis/internal"
	"gothesis/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	LogLevel string       `mapstructure:"log_level" yaml:"log_level"`
	Charts   ChartsConfig `mapstructure:"charts" yaml:"charts"`
	Batch    BatchConfig  `mapstructure:"batch" yaml:"batch"`
}

// ChartsConfig holds the chart-data geometry constants
type ChartsConfig struct {
	HistogramBins int `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	CurvePoints   int `mapstructure:"curve_points" yaml:"curve_points"`
	LinePoints    int `mapstructure:"line_points" yaml:"line_points"`
	QQMaxPoints   int `mapstructure:"qq_max_points" yaml:"qq_max_points"`
	FrequencyTopN int `mapstructure:"frequency_top_n" yaml:"frequency_top_n"`
}

// BatchConfig holds batch executor limits
type BatchConfig struct {
	Concurrency int   `mapstructure:"concurrency" yaml:"concurrency"`
	Capacity    int64 `mapstructure:"capacity" yaml:"capacity"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogLevel: "INFO",
		Charts: ChartsConfig{
			HistogramBins: 15,
			CurvePoints:   100,
			LinePoints:    100,
			QQMaxPoints:   100,
			FrequencyTopN: 15,
		},
		Batch: BatchConfig{
			Concurrency: 4,
			Capacity:    8,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file and GOTHESIS_* environment
// variables, in increasing precedence. A .env file in the working directory is loaded
// into the environment first when present.
func Load(cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GOTHESIS")
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("charts.histogram_bins", def.Charts.HistogramBins)
	v.SetDefault("charts.curve_points", def.Charts.CurvePoints)
	v.SetDefault("charts.line_points", def.Charts.LinePoints)
	v.SetDefault("charts.qq_max_points", def.Charts.QQMaxPoints)
	v.SetDefault("charts.frequency_top_n", def.Charts.FrequencyTopN)
	v.SetDefault("batch.concurrency", def.Batch.Concurrency)
	v.SetDefault("batch.capacity", def.Batch.Capacity)

	// nested keys map to GOTHESIS_CHARTS_HISTOGRAM_BINS and friends
	for _, key := range v.AllKeys() {
		_ = v.BindEnv(key, "GOTHESIS_"+envName(key))
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to read config file %s", cfgFile)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal configuration")
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &c, nil
}

// Validate rejects unusable values
func (c *Config) Validate() error {
	if _, ok := internal.ParseLogLevel(c.LogLevel); !ok {
		return errors.ConfigInvalid(fmt.Sprintf("unknown log level %q", c.LogLevel))
	}
	positive := map[string]int{
		"charts.histogram_bins":  c.Charts.HistogramBins,
		"charts.curve_points":    c.Charts.CurvePoints,
		"charts.line_points":     c.Charts.LinePoints,
		"charts.qq_max_points":   c.Charts.QQMaxPoints,
		"charts.frequency_top_n": c.Charts.FrequencyTopN,
		"batch.concurrency":      c.Batch.Concurrency,
	}
	for _, key := range sortedKeys(positive) {
		if positive[key] <= 0 {
			return errors.ConfigInvalid(fmt.Sprintf("%s must be positive, got %d", key, positive[key]))
		}
	}
	if c.Batch.Capacity <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("batch.capacity must be positive, got %d", c.Batch.Capacity))
	}
	return nil
}

// Logger builds the leveled logger the configuration asks for
func (c *Config) Logger() *internal.Logger {
	level, _ := internal.ParseLogLevel(c.LogLevel)
	return internal.NewLogger(level)
}

// Save writes the configuration as YAML, creating the parent directory if necessary
func Save(c *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
