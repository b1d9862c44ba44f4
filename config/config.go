// Package config holds the node configuration. Values come from the defaults
// below, then an optional YAML file, then command line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/solavote/solavote-node/election"
	"github.com/solavote/solavote-node/log"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDatadir   = ".solavote"
	DefaultLogLevel  = log.LogLevelInfo
	DefaultLogOutput = "stdout"
	DefaultAPIHost   = "0.0.0.0"
	DefaultAPIPort   = 9090

	// DefaultMonitorInterval is the census cache refresh period, in seconds.
	DefaultMonitorInterval = 60

	// SignerKeyFile is the name of the file, inside the data directory, that
	// stores the participation signer key when none is configured.
	SignerKeyFile = "signer.key"
	// DatabaseDir is the name of the database directory inside datadir.
	DatabaseDir = "db"
)

// Config is the node configuration.
type Config struct {
	Datadir string    `yaml:"datadir"`
	Log     LogConfig `yaml:"log"`
	API     APIConfig `yaml:"api"`
	// SignerKey is the hex secp256k1 key signing participation credentials.
	// If empty it is loaded from, or generated into, datadir/signer.key.
	SignerKey string `yaml:"signerKey"`
	// MonitorInterval is the census cache refresh period, in seconds.
	MonitorInterval int             `yaml:"monitorInterval"`
	Election        election.Config `yaml:"election"`
}

// LogConfig configures the log package.
type LogConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
}

// APIConfig configures the HTTP API.
type APIConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Default returns the default configuration.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Datadir: filepath.Join(home, DefaultDatadir),
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Output: DefaultLogOutput,
		},
		API: APIConfig{
			Host: DefaultAPIHost,
			Port: DefaultAPIPort,
		},
		MonitorInterval: DefaultMonitorInterval,
		Election:        *election.DefaultConfig(),
	}
}

// Load reads the YAML file at path over the defaults. Keys missing from the
// file keep their default value.
func Load(path string) (*Config, error) {
	conf := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return conf, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Datadir == "" {
		return fmt.Errorf("empty data directory")
	}
	switch c.Log.Level {
	case log.LogLevelDebug, log.LogLevelInfo, log.LogLevelWarn, log.LogLevelError:
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API port %d", c.API.Port)
	}
	if c.MonitorInterval <= 0 {
		return fmt.Errorf("monitor interval must be positive")
	}
	return c.Election.Validate()
}

// DatabasePath returns the path of the database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Datadir, DatabaseDir)
}

// SignerKeyPath returns the path of the signer key file.
func (c *Config) SignerKeyPath() string {
	return filepath.Join(c.Datadir, SignerKeyFile)
}
