package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Data struct {
		Questions string `yaml:"questions"`
		Sessions  string `yaml:"sessions"`
	} `yaml:"data"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	cfg := Config{}
	cfg.App.Name = "QuizForge API"
	cfg.App.Version = "1.0.0"
	cfg.Server.Port = "8000"
	cfg.Data.Questions = "docs/questions.json"
	cfg.Data.Sessions = "data/sessions.json"
	return cfg
}

// Load reads YAML config from path, filling unset fields with defaults.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	defaults := Default()
	if cfg.App.Name == "" {
		cfg.App.Name = defaults.App.Name
	}
	if cfg.App.Version == "" {
		cfg.App.Version = defaults.App.Version
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = defaults.Server.Port
	}
	if cfg.Data.Questions == "" {
		cfg.Data.Questions = defaults.Data.Questions
	}
	if cfg.Data.Sessions == "" {
		cfg.Data.Sessions = defaults.Data.Sessions
	}
	return cfg, nil
}
