// Copyright (c) 2025 @AmarnathCJD

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MTCORE_"

type Config struct {
	APIID    int32  `yaml:"api_id"    env:"API_ID"`
	APIHash  string `yaml:"api_hash"  env:"API_HASH"`
	DC       int    `yaml:"dc"        env:"DC"`
	TestMode bool   `yaml:"test_mode" env:"TEST_MODE"`
	IPv6     bool   `yaml:"ipv6"      env:"IPV6"`
	// Proxy is a socks5://, socks5h:// or http:// url.
	Proxy     string `yaml:"proxy"     env:"PROXY"`
	Transport string `yaml:"transport" env:"TRANSPORT"`
	// Session is a SQLite path, or ":memory:".
	Session       string `yaml:"session"        env:"SESSION"`
	SessionString string `yaml:"session_string" env:"SESSION_STRING"`

	Workers       int `yaml:"workers"        env:"WORKERS"`
	CryptoWorkers int `yaml:"crypto_workers" env:"CRYPTO_WORKERS"`

	SleepThreshold  time.Duration `yaml:"sleep_threshold"  env:"SLEEP_THRESHOLD"`
	PingInterval    time.Duration `yaml:"ping_interval"    env:"PING_INTERVAL"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"IDLE_TIMEOUT"`
	ListenerTimeout time.Duration `yaml:"listener_timeout" env:"LISTENER_TIMEOUT"`
	// ListenerThrow makes timed out listeners fail with an error instead
	// of resolving to nothing.
	ListenerThrow bool `yaml:"listener_throw" env:"LISTENER_THROW"`

	MaxConcurrentTransmissions int `yaml:"max_concurrent_transmissions" env:"MAX_CONCURRENT_TRANSMISSIONS"`

	LogLevel    string `yaml:"log_level"    env:"LOG_LEVEL"`
	MetricsAddr string `yaml:"metrics_addr" env:"METRICS_ADDR"`

	Device Device `yaml:"device" envPrefix:"DEVICE_"`
}

// Device is reported to the server in initConnection.
type Device struct {
	Model         string `yaml:"device_model"   env:"MODEL"`
	SystemVersion string `yaml:"system_version" env:"SYSTEM_VERSION"`
	AppVersion    string `yaml:"app_version"    env:"APP_VERSION"`
	LangCode      string `yaml:"lang_code"      env:"LANG_CODE"`
}

func Default() *Config {
	return &Config{
		DC:                         2,
		Transport:                  "abridged",
		Session:                    ":memory:",
		Workers:                    4,
		CryptoWorkers:              0,
		SleepThreshold:             10 * time.Second,
		PingInterval:               5 * time.Second,
		IdleTimeout:                15 * time.Second,
		ListenerTimeout:            0,
		ListenerThrow:              true,
		MaxConcurrentTransmissions: 1,
		LogLevel:                   "info",
		Device: Device{
			Model:         "mtcore",
			SystemVersion: "linux",
			AppVersion:    "1.0.0",
			LangCode:      "en",
		},
	}
}

// Load reads path over the defaults, when path is not empty, then applies
// MTCORE_ environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading config")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.Wrap(err, "reading environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var problems []string
	if c.Workers < 0 {
		problems = append(problems, "workers must not be negative")
	}
	if c.CryptoWorkers < 0 {
		problems = append(problems, "crypto_workers must not be negative")
	}
	if c.MaxConcurrentTransmissions < 0 {
		problems = append(problems, "max_concurrent_transmissions must not be negative")
	}
	if c.DC < 1 || c.DC > 5 {
		problems = append(problems, fmt.Sprintf("dc %d out of range 1-5", c.DC))
	}
	switch strings.ToLower(c.Transport) {
	case "", "abridged", "intermediate", "full":
	default:
		problems = append(problems, fmt.Sprintf("unknown transport %q", c.Transport))
	}
	if c.PingInterval < 0 || c.IdleTimeout < 0 || c.ListenerTimeout < 0 {
		problems = append(problems, "durations must not be negative")
	}
	if c.IdleTimeout > 0 && c.PingInterval >= c.IdleTimeout {
		problems = append(problems, "ping_interval must be shorter than idle_timeout")
	}
	if len(problems) > 0 {
		return errors.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Dump renders the configuration as YAML with the api hash masked.
func (c *Config) Dump() ([]byte, error) {
	cp := *c
	if cp.APIHash != "" {
		cp.APIHash = "********"
	}
	return yaml.Marshal(&cp)
}
