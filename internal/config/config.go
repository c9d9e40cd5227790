package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the config file inside the devctl home.
const ConfigFileName = "config.yaml"

type Config struct {
	Logger struct {
		Verbosity string `yaml:"verbosity"`
		Encoding  string `yaml:"encoding"`
	} `yaml:"logger"`
	Device struct {
		// Default is made current at startup. Negative leaves the runtime's
		// own default in place.
		Default int `yaml:"default"`
	} `yaml:"device"`
	Server struct {
		ListenAddress     string        `yaml:"listenAddress"`
		ListenPort        int           `yaml:"listenPort"`
		ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
		ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Logger.Verbosity = "info"
	cfg.Logger.Encoding = "json"
	cfg.Device.Default = -1
	cfg.Server.ListenAddress = "127.0.0.1"
	cfg.Server.ListenPort = 9464
	cfg.Server.ReadHeaderTimeout = 5 * time.Second
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Metrics.Enabled = true
	return &cfg
}

// GetDefaultConfigHome returns the default devctl home directory.
func GetDefaultConfigHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".devctl"
	}
	return filepath.Join(home, ".devctl")
}

// LoadConfig reads a YAML config file over the defaults. If path is a
// directory, ConfigFileName inside it is read.
func LoadConfig(path string) (*Config, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, ConfigFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Default()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Server.ListenPort < 0 || c.Server.ListenPort > 65535 {
		return fmt.Errorf("server.listenPort %d out of range", c.Server.ListenPort)
	}
	if c.Server.ReadHeaderTimeout < 0 {
		return fmt.Errorf("server.readHeaderTimeout must not be negative")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdownTimeout must not be negative")
	}
	switch c.Logger.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("logger.encoding %q must be json or console", c.Logger.Encoding)
	}
	return nil
}

// ListenAddr returns the host:port the server binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.ListenAddress, c.Server.ListenPort)
}
