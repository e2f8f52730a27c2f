// Package config loads rowmap settings from .rowmap.yaml, ROWMAP_*
// environment variables and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem configuration and schema files are read from.
var AppFs = afero.NewOsFs()

const (
	// FileName is the config file base name, without extension.
	FileName = ".rowmap"
	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "ROWMAP"
)

// Config holds the application configuration.
type Config struct {
	SchemaPath  string `mapstructure:"schema_path"`
	Provider    string `mapstructure:"provider"`
	DatabaseURL string `mapstructure:"database_url"`
	Debug       bool   `mapstructure:"debug"`
	LogFormat   string `mapstructure:"log_format"`
	Format      string `mapstructure:"format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		SchemaPath: "schema.rowmap",
		Format:     "table",
		LogFormat:  "text",
	}
}

// New returns a viper instance reading from fs with rowmap's search
// paths, environment binding and defaults.
func New(fs afero.Fs) (*viper.Viper, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("failed to find home directory: %w", err)
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "rowmap"))

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("schema_path", d.SchemaPath)
	v.SetDefault("provider", d.Provider)
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("format", d.Format)
	v.SetDefault("log_format", d.LogFormat)
	return v, nil
}

// Load reads the configuration. A missing config file is not an error;
// a malformed one is. DATABASE_URL is honoured when ROWMAP_DATABASE_URL
// and the config file leave the URL empty.
func Load() (*Config, error) {
	loadEnvFiles()

	v, err := New(AppFs)
	if err != nil {
		return nil, err
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	return cfg, nil
}

// loadEnvFiles loads .env and then .env.local, the latter overriding.
// Unreadable files are skipped.
func loadEnvFiles() {
	if _, err := AppFs.Stat(".env"); err == nil {
		if data, err := afero.ReadFile(AppFs, ".env"); err == nil {
			applyEnv(data, false)
		}
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		if data, err := afero.ReadFile(AppFs, ".env.local"); err == nil {
			applyEnv(data, true)
		}
	}
}

func applyEnv(data []byte, override bool) {
	env, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return
	}
	for k, val := range env {
		if _, set := os.LookupEnv(k); set && !override {
			continue
		}
		os.Setenv(k, val)
	}
}

// Save writes cfg as YAML to path on AppFs.
func Save(cfg *Config, path string) error {
	v := viper.New()
	v.SetFs(AppFs)
	v.Set("schema_path", cfg.SchemaPath)
	v.Set("provider", cfg.Provider)
	v.Set("database_url", cfg.DatabaseURL)
	v.Set("debug", cfg.Debug)
	v.Set("format", cfg.Format)
	if cfg.LogFormat != "" {
		v.Set("log_format", cfg.LogFormat)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := AppFs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	v.SetConfigType("yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// UserPath returns the per-user config file path.
func UserPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "rowmap", FileName+".yaml"), nil
}
