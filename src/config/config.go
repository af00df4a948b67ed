// Package config resolves sessioncharts settings from defaults, an optional
// YAML file, a .env file and SESSIONCHARTS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/josanescod/ciber-intrusion-visualization/src/analysis"
	"github.com/josanescod/ciber-intrusion-visualization/src/render"
	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

// EnvPrefix namespaces environment overrides, e.g. SESSIONCHARTS_RENDER_FORMAT.
const EnvPrefix = "SESSIONCHARTS"

type Config struct {
	Dataset DatasetConfig `mapstructure:"dataset"`
	Render  RenderConfig  `mapstructure:"render"`
	Radial  RadialConfig  `mapstructure:"radial"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

type DatasetConfig struct {
	File string `mapstructure:"file"`
}

// RenderConfig drives the batch renderer. Zero Width/Height keep each chart's own size.
type RenderConfig struct {
	Out         string `mapstructure:"out"`
	Format      string `mapstructure:"format"`
	Width       int    `mapstructure:"width"`
	Height      int    `mapstructure:"height"`
	Concurrency int    `mapstructure:"concurrency"`
	Frames      int    `mapstructure:"frames"`
	MetricsFile string `mapstructure:"metrics_file"`
}

type RadialConfig struct {
	Category   string `mapstructure:"category"`
	Mode       string `mapstructure:"mode"`
	GridLevels int    `mapstructure:"grid_levels"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// Load reads configuration. path names an explicit config file; empty
// searches for sessioncharts.yaml in . and ./configs and tolerates its absence.
func Load(path string) (*Config, error) {
	return load(path, ".env")
}

func load(path, envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sessioncharts")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("dataset.file", sessions.DefaultDatasetFile)
	v.SetDefault("render.out", "charts")
	v.SetDefault("render.format", string(render.FormatSVG))
	v.SetDefault("render.width", 0)
	v.SetDefault("render.height", 0)
	v.SetDefault("render.concurrency", 3)
	v.SetDefault("render.frames", 0)
	v.SetDefault("render.metrics_file", "")
	v.SetDefault("radial.category", string(analysis.CategoryProtocol))
	v.SetDefault("radial.mode", string(analysis.ModeCount))
	v.SetDefault("radial.grid_levels", 5)
	v.SetDefault("logger.level", "info")
}

// Validate rejects values the renderer cannot use.
func (c *Config) Validate() error {
	if _, err := analysis.ParseCategory(c.Radial.Category); err != nil {
		return fmt.Errorf("radial.category: %w", err)
	}
	if _, err := analysis.ParseMode(c.Radial.Mode); err != nil {
		return fmt.Errorf("radial.mode: %w", err)
	}
	if _, err := render.ParseFormat(c.Render.Format); err != nil {
		return fmt.Errorf("render.format: %w", err)
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return fmt.Errorf("render size must not be negative (%dx%d)", c.Render.Width, c.Render.Height)
	}
	if c.Render.Concurrency < 1 {
		c.Render.Concurrency = 1
	}
	if c.Radial.GridLevels < 1 {
		return fmt.Errorf("radial.grid_levels must be positive, got %d", c.Radial.GridLevels)
	}
	return nil
}
