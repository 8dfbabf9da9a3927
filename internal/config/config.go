package config

import (
	"fmt"
	"os"
	"time"

	"study-session-service/internal/study"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Sets struct {
		TTL string `yaml:"ttl"`
		// File seeds the in-memory loader when Postgres is not configured.
		File string `yaml:"file"`
	} `yaml:"sets"`
	Attempts struct {
		TTL string `yaml:"ttl"`
	} `yaml:"attempts"`
	Engine study.Tuning `yaml:"engine"`
}

// Load reads YAML config from path. Engine keys missing from the file keep
// their defaults; keys present are taken as written, zero included.
func Load(path string) (Config, error) {
	cfg := Config{Engine: study.DefaultTuning()}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Tuning returns the validated engine constants.
func (c Config) Tuning() (study.Tuning, error) {
	if err := c.Engine.Validate(); err != nil {
		return c.Engine, fmt.Errorf("engine config: %w", err)
	}
	return c.Engine, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
