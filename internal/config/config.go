package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/trucklab/ets2ctl/internal/logger"
	"github.com/trucklab/ets2ctl/internal/supervisor"
)

// SuperviseConfig tunes the supervisor's timing. Zero values fall back to
// the supervisor defaults.
type SuperviseConfig struct {
	StartupWait      time.Duration `toml:"startup_wait" mapstructure:"startup_wait"`
	SettleDelay      time.Duration `toml:"settle_delay" mapstructure:"settle_delay"`
	StopPollAttempts int           `toml:"stop_poll_attempts" mapstructure:"stop_poll_attempts"`
	StopPollInterval time.Duration `toml:"stop_poll_interval" mapstructure:"stop_poll_interval"`
	// MonitorEvery is both the period registered with the OS scheduler
	// (rounded up to whole minutes) and the serve-mode ticker period.
	MonitorEvery time.Duration `toml:"monitor_every" mapstructure:"monitor_every"`
}

type HistoryConfig struct {
	DSNs []string `toml:"dsns" mapstructure:"dsns"`
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled" mapstructure:"enabled"`
	Listen  string `toml:"listen" mapstructure:"listen"`
}

type HTTPConfig struct {
	Listen   string `toml:"listen" mapstructure:"listen"`
	BasePath string `toml:"base_path" mapstructure:"base_path"`
}

// Config is the top-level TOML structure.
type Config struct {
	Server    supervisor.Spec `toml:"server" mapstructure:"server"`
	Supervise SuperviseConfig `toml:"supervise" mapstructure:"supervise"`
	Log       logger.Config   `toml:"log" mapstructure:"log"`
	History   *HistoryConfig  `toml:"history" mapstructure:"history"`
	Metrics   *MetricsConfig  `toml:"metrics" mapstructure:"metrics"`
	HTTP      *HTTPConfig     `toml:"http" mapstructure:"http"`
}

// Load reads and validates a TOML config file. Relative paths in the file
// are resolved against the file's directory so the config is relocatable.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	base := filepath.Dir(path)
	cfg.Server.Executable = resolve(base, cfg.Server.Executable)
	cfg.Server.WorkDir = resolve(base, cfg.Server.WorkDir)
	cfg.Server.PIDFile = resolve(base, cfg.Server.PIDFile)
	cfg.Server.OutputLog = resolve(base, cfg.Server.OutputLog)
	cfg.Log.File = resolve(base, cfg.Log.File)

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Name == "" {
		cfg.Server.Name = "ets2-server"
	}
	if cfg.Server.Pattern == "" && cfg.Server.Executable != "" {
		cfg.Server.Pattern = filepath.Base(cfg.Server.Executable)
	}
	if cfg.Server.PIDFile == "" && cfg.Server.WorkDir != "" {
		cfg.Server.PIDFile = filepath.Join(cfg.Server.WorkDir, cfg.Server.Name+".pid")
	}
	if cfg.Supervise.MonitorEvery <= 0 {
		cfg.Supervise.MonitorEvery = 5 * time.Minute
	}
}

func validate(cfg *Config) error {
	if err := cfg.Server.Validate(); err != nil {
		return fmt.Errorf("invalid [server] config: %w", err)
	}
	if cfg.Supervise.MonitorEvery < time.Minute {
		return errors.New("supervise.monitor_every must be at least 1m")
	}
	return nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
