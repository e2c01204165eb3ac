package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Form     FormConfig     `mapstructure:"form"`
	UI       UIConfig       `mapstructure:"ui"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
	// Keep is the number of snapshots retained per form; 0 keeps everything.
	Keep int `mapstructure:"keep"`
}

// FormConfig describes the date range input hosted by the form command.
type FormConfig struct {
	Name            string           `mapstructure:"name"`
	DefaultCategory int              `mapstructure:"default_category"`
	RevealCategory  int              `mapstructure:"reveal_category"`
	Categories      []CategoryOption `mapstructure:"categories"`
}

// CategoryOption is one selectable range category.
type CategoryOption struct {
	Value int    `mapstructure:"value"`
	Label string `mapstructure:"label"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat string `mapstructure:"date_format"`
	Timezone   string `mapstructure:"timezone"`
}

// LogConfig holds slog settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultCategories is the selector shown when the config file lists none.
func DefaultCategories() []CategoryOption {
	return []CategoryOption{
		{Value: 1, Label: "Today"},
		{Value: 2, Label: "Today AM"},
		{Value: 3, Label: "Today PM"},
		{Value: 4, Label: "Yesterday"},
		{Value: 5, Label: "Tomorrow"},
		{Value: 6, Label: "This Week"},
		{Value: 7, Label: "Last Week"},
		{Value: -1, Label: "Custom"},
	}
}

func defaultCategoriesSetting() []map[string]any {
	opts := DefaultCategories()
	out := make([]map[string]any, 0, len(opts))
	for _, o := range opts {
		out = append(out, map[string]any{"value": o.Value, "label": o.Label})
	}
	return out
}

// Load reads configuration from file and env. Env var overrides use prefix DATERANGE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "daterange", "daterange.db"))
	v.SetDefault("database.keep", 200)
	v.SetDefault("form.name", "default")
	v.SetDefault("form.default_category", -1)
	v.SetDefault("form.reveal_category", -1)
	v.SetDefault("form.categories", defaultCategoriesSetting())
	v.SetDefault("ui.date_format", "Mon 02 Jan 2006")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("DATERANGE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "daterange"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DATERANGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Path returns the config file location used by Save.
func Path() string {
	if path := os.Getenv("DATERANGE_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "daterange", "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	cats := make([]map[string]any, 0, len(cfg.Form.Categories))
	for _, o := range cfg.Form.Categories {
		cats = append(cats, map[string]any{"value": o.Value, "label": o.Label})
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.keep", cfg.Database.Keep)
	v.Set("form.name", cfg.Form.Name)
	v.Set("form.default_category", cfg.Form.DefaultCategory)
	v.Set("form.reveal_category", cfg.Form.RevealCategory)
	v.Set("form.categories", cats)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Location loads the configured timezone. An empty name means local time.
func (u UIConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(u.Timezone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", u.Timezone, err)
	}
	return loc, nil
}
