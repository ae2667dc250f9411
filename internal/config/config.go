package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Scoring   ScoringConfig   `yaml:"scoring"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// ScoringConfig centralizes the defaults applied when deriving synthetic
// activity from plan slots, instead of scattering magic numbers through
// the scanner and completion handlers.
type ScoringConfig struct {
	CaloriesPerMinute      int `yaml:"calories_per_minute"`
	DefaultDurationMinutes int `yaml:"default_duration_minutes"`
	DefaultIntensity       int `yaml:"default_intensity"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix STRIDELOG_ and underscore-separated
// paths:
//
//	STRIDELOG_SERVER_HOST, STRIDELOG_SERVER_PORT,
//	STRIDELOG_DB_HOST, STRIDELOG_DB_PORT, STRIDELOG_DB_NAME,
//	STRIDELOG_DB_USER, STRIDELOG_DB_PASSWORD, STRIDELOG_DB_SSLMODE,
//	STRIDELOG_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyScoringDefaults(&cfg.Scoring)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STRIDELOG_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("STRIDELOG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("STRIDELOG_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("STRIDELOG_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("STRIDELOG_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("STRIDELOG_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("STRIDELOG_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("STRIDELOG_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("STRIDELOG_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func applyScoringDefaults(s *ScoringConfig) {
	if s.CaloriesPerMinute == 0 {
		s.CaloriesPerMinute = 7
	}
	if s.DefaultDurationMinutes == 0 {
		s.DefaultDurationMinutes = 30
	}
	if s.DefaultIntensity == 0 {
		s.DefaultIntensity = 3
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
