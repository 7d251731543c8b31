package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/a1s/gridbuf/internal/config/data"
)

// ErrNoSource is returned when neither the config file nor the flags name a
// source.
var ErrNoSource = errors.New("no source configured")

// Config is the root configuration for the application.
type Config struct {
	Gridbuf *Gridbuf `yaml:"gridbuf"`
	mx      sync.RWMutex
}

// NewConfig creates a new Config with default settings.
func NewConfig() *Config {
	return &Config{
		Gridbuf: NewGridbuf(),
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, the current config is kept.
func (c *Config) Load(path string, force bool) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !force {
			return nil
		}
		return fmt.Errorf("config file does not exist: %s", path)
	}

	if err := data.LoadYAML(path, c); err != nil {
		return fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if c.Gridbuf == nil {
		c.Gridbuf = NewGridbuf()
	}
	c.Gridbuf.Validate()

	return nil
}

// Save saves the configuration to the given path.
// If force is false, only saves if the file already exists.
func (c *Config) Save(path string, force bool) error {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if path == "" {
		return fmt.Errorf("no config file path configured")
	}

	_, err := os.Stat(path)
	if !force && err != nil {
		return nil
	}

	if err := data.SaveYAML(path, c); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", path, err)
	}

	return nil
}

// Refine applies CLI flags on top of the loaded configuration.
// Precedence is CLI > config file > defaults.
func (c *Config) Refine(flags *data.Flags) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.Gridbuf == nil {
		return fmt.Errorf("config.Gridbuf is nil")
	}
	if err := c.Gridbuf.Override(flags); err != nil {
		return err
	}
	c.Gridbuf.Validate()

	if c.Gridbuf.Source.Kind == "" {
		return ErrNoSource
	}

	return nil
}
