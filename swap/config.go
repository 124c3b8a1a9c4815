package swap

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPageSize          = 10
	DefaultMinPickerSoC      = 80
	DefaultPillarTTL         = 5 * time.Minute
	DefaultWatchInterval     = 30 * time.Second
	DefaultRequestsPerSecond = 5.0
)

// SessionConfig holds the ambient operator identifiers threaded into every workflow.
type SessionConfig struct {
	UserID    string `yaml:"user_id"`
	StaffID   string `yaml:"staff_id"`
	StationID string `yaml:"station_id"`
}

type WarehouseConfig struct {
	PageSize     int `yaml:"page_size"`
	MinPickerSoC int `yaml:"min_picker_soc"`
}

type CacheConfig struct {
	PillarTTLSeconds int `yaml:"pillar_ttl_seconds"`
}

type WatchConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

type Config struct {
	BaseURL           string  `yaml:"base_url"`
	Username          string  `yaml:"username"`
	Password          string  `yaml:"password"`
	Token             string  `yaml:"token"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	Session   SessionConfig   `yaml:"session"`
	Warehouse WarehouseConfig `yaml:"warehouse"`
	Cache     CacheConfig     `yaml:"cache"`
	Watch     WatchConfig     `yaml:"watch"`
}

var defaultConfigFilePath = filepath.Join(xdg.ConfigHome, "swapctl", "config.yaml")

// DefaultConfigPath returns $XDG_CONFIG_HOME/swapctl/config.yaml.
func DefaultConfigPath() string {
	return defaultConfigFilePath
}

// ApplyDefaults fills every unset tunable. Credentials and session identifiers are left alone.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = Backend
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.Warehouse.PageSize <= 0 {
		c.Warehouse.PageSize = DefaultPageSize
	}
	if c.Warehouse.MinPickerSoC <= 0 {
		c.Warehouse.MinPickerSoC = DefaultMinPickerSoC
	}
	if c.Cache.PillarTTLSeconds <= 0 {
		c.Cache.PillarTTLSeconds = int(DefaultPillarTTL / time.Second)
	}
	if c.Watch.IntervalSeconds <= 0 {
		c.Watch.IntervalSeconds = int(DefaultWatchInterval / time.Second)
	}
}

func (c *Config) PillarTTL() time.Duration {
	if c.Cache.PillarTTLSeconds <= 0 {
		return DefaultPillarTTL
	}
	return time.Duration(c.Cache.PillarTTLSeconds) * time.Second
}

func (c *Config) WatchInterval() time.Duration {
	if c.Watch.IntervalSeconds <= 0 {
		return DefaultWatchInterval
	}
	return time.Duration(c.Watch.IntervalSeconds) * time.Second
}

func GetConfigFromFile(inputConfigFile string) (*Config, error) {
	if inputConfigFile == "" {
		inputConfigFile = defaultConfigFilePath
	}
	f, err := os.Open(inputConfigFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	err = yaml.NewDecoder(f).Decode(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func SaveConfig(cfg *Config, configFile string) error {
	if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(configFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return yaml.NewEncoder(f).Encode(cfg)
}
