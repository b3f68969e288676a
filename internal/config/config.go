package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"raidcheck/internal/check"
	"raidcheck/internal/health"
	"raidcheck/internal/watermark"
)

type Config struct {
	// StorcliPath overrides binary resolution; empty probes storcli64
	// then storcli on PATH
	StorcliPath       string   `yaml:"storcli_path,omitempty"`
	SupportedDrivers  []string `yaml:"supported_drivers,omitempty"`
	IgnoreControllers []int    `yaml:"ignore_controllers,omitempty"`

	AllowLists health.AllowLists `yaml:"allow_lists"`

	WatermarkPath string `yaml:"watermark_path,omitempty"`
	HistoryPath   string `yaml:"history_path,omitempty"`

	Report Report `yaml:"report"`
	Serve  Serve  `yaml:"serve"`

	Debug bool `yaml:"debug,omitempty"`
}

type Report struct {
	// Sinks: "stdout", "file", "email"
	Sinks []string `yaml:"sinks,omitempty"`

	// file sink
	Path       string `yaml:"path,omitempty"`
	BundlePath string `yaml:"bundle_path,omitempty"` // zip with raw dumps, empty disables

	Email Email `yaml:"email"`
}

type Email struct {
	Server         string   `yaml:"server,omitempty"` // host:port
	From           string   `yaml:"from,omitempty"`
	To             []string `yaml:"to,omitempty"`
	Username       string   `yaml:"username,omitempty"`
	Password       string   `yaml:"password,omitempty"`
	EmailOnSuccess bool     `yaml:"email_on_success,omitempty"`
}

type Serve struct {
	Listen          string `yaml:"listen,omitempty"`
	IntervalSeconds int    `yaml:"interval_seconds,omitempty"`
}

var defaultConfig = Config{
	SupportedDrivers: check.DefaultSupportedDrivers,
	AllowLists:       health.Defaults(),
	WatermarkPath:    watermark.DefaultPath,
	HistoryPath:      "/var/lib/raidcheck/history.db",
	Report: Report{
		Sinks: []string{"stdout"},
	},
	Serve: Serve{
		Listen:          ":9572",
		IntervalSeconds: 300,
	},
}

// Default returns the compiled-in configuration
func Default() *Config {
	cfg := defaultConfig
	return &cfg
}

// Load reads the config from path, or from the first existing default
// location when path is empty. No file at all is not an error; the
// compiled-in defaults apply. Fields absent from the file are filled
// from the defaults after unmarshalling.
func Load(path string) (*Config, error) {
	if path == "" {
		candidates := []string{
			"/etc/raidcheck/config.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/raidcheck/config.yaml"),
			"config.yaml",
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.SupportedDrivers) == 0 {
		c.SupportedDrivers = defaultConfig.SupportedDrivers
	}
	if len(c.AllowLists.Controller) == 0 {
		c.AllowLists.Controller = defaultConfig.AllowLists.Controller
	}
	if len(c.AllowLists.VirtualDrive) == 0 {
		c.AllowLists.VirtualDrive = defaultConfig.AllowLists.VirtualDrive
	}
	if len(c.AllowLists.PhysicalDrive) == 0 {
		c.AllowLists.PhysicalDrive = defaultConfig.AllowLists.PhysicalDrive
	}
	if len(c.AllowLists.BackupUnit) == 0 {
		c.AllowLists.BackupUnit = defaultConfig.AllowLists.BackupUnit
	}
	if c.WatermarkPath == "" {
		c.WatermarkPath = defaultConfig.WatermarkPath
	}
	if c.HistoryPath == "" {
		c.HistoryPath = defaultConfig.HistoryPath
	}
	if len(c.Report.Sinks) == 0 {
		c.Report.Sinks = defaultConfig.Report.Sinks
	}
	if c.Serve.Listen == "" {
		c.Serve.Listen = defaultConfig.Serve.Listen
	}
	if c.Serve.IntervalSeconds <= 0 {
		c.Serve.IntervalSeconds = defaultConfig.Serve.IntervalSeconds
	}
}

func (c *Config) validate() error {
	for _, sink := range c.Report.Sinks {
		switch sink {
		case "stdout":
		case "file":
			if c.Report.Path == "" {
				return fmt.Errorf("file sink requires report.path")
			}
		case "email":
			if c.Report.Email.Server == "" || c.Report.Email.From == "" ||
				len(c.Report.Email.To) == 0 {
				return fmt.Errorf("email sink requires report.email server, from and to")
			}
		default:
			return fmt.Errorf("unknown report sink %q", sink)
		}
	}
	for _, idx := range c.IgnoreControllers {
		if idx < 0 {
			return fmt.Errorf("negative controller index %d in ignore_controllers", idx)
		}
	}
	return nil
}
