package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Beacon   BeaconConfig   `yaml:"beacon"`
	Roster   RosterConfig   `yaml:"roster"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type BeaconConfig struct {
	URL string `yaml:"url"`
}

type RosterConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

type ScoringConfig struct {
	DefaultWeights    DefaultWeights `yaml:"default_weights"`
	FullTimeHours     float64        `yaml:"full_time_hours"`
	CheckMarkMinHours float64        `yaml:"check_mark_min_hours"`
	QuarterWindow     int            `yaml:"quarter_window_weeks"`
}

type DefaultWeights struct {
	Execution     int `yaml:"execution"`
	Objective     int `yaml:"objective"`
	Collaboration int `yaml:"collaboration"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Beacon: BeaconConfig{
			URL: "nats://localhost:4222",
		},
		Roster: RosterConfig{
			URL: "http://localhost:8400",
		},
		Scoring: ScoringConfig{
			DefaultWeights: DefaultWeights{
				Execution:     40,
				Objective:     50,
				Collaboration: 10,
			},
			FullTimeHours:     40,
			CheckMarkMinHours: 20,
			QuarterWindow:     13,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TALLY_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("TALLY_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("TALLY_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("TALLY_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("TALLY_BEACON_URL"); v != "" {
		cfg.Beacon.URL = v
	}
	if v := os.Getenv("TALLY_ROSTER_URL"); v != "" {
		cfg.Roster.URL = v
	}
	if v := os.Getenv("TALLY_ROSTER_TOKEN"); v != "" {
		cfg.Roster.Token = v
	}
	if v := os.Getenv("TALLY_QUARTER_WINDOW_WEEKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.QuarterWindow = n
		}
	}
	if v := os.Getenv("TALLY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
