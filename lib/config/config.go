// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/shapes/lib/shape"
)

// EnvConfig names the environment variable Load reads.
const EnvConfig = "SHAPES_CONFIG"

// Config is the complete client configuration.
type Config struct {
	// Shape is the locally controlled shape at startup.
	Shape ShapeConfig `yaml:"shape"`

	// Topic is the bus topic shapes are published and read on.
	Topic string `yaml:"topic" validate:"required"`

	// Keyboard configures input polling.
	Keyboard KeyboardConfig `yaml:"keyboard"`

	// Reader configures the inbound side of the bus.
	Reader ReaderConfig `yaml:"reader"`

	// Bus configures the multicast transport.
	Bus BusConfig `yaml:"bus"`

	// Log configures the structured logger.
	Log LogConfig `yaml:"log"`
}

// ShapeConfig is the starting state of the local shape. Color and Size
// never change after startup.
type ShapeConfig struct {
	Color string `yaml:"color" validate:"required,shapecolor"`
	X     int32  `yaml:"x"`
	Y     int32  `yaml:"y"`
	Size  int32  `yaml:"size" validate:"gt=0"`
}

// KeyboardConfig configures the keyboard poll timer.
type KeyboardConfig struct {
	// PollInterval is how long the timer waits after each poll before
	// firing again. Default: 50ms.
	PollInterval time.Duration `yaml:"poll_interval" validate:"gte=1ms,lte=10s"`
}

// ReaderConfig configures the subscription side.
type ReaderConfig struct {
	// DrainBatch is the most samples taken from the reader per wakeup.
	// Default: 100.
	DrainBatch int `yaml:"drain_batch" validate:"gt=0"`

	// HistoryDepth bounds the reader's buffer of undrained samples.
	// Default: 1000.
	HistoryDepth int `yaml:"history_depth" validate:"gt=0"`
}

// BusConfig configures the UDP multicast transport.
type BusConfig struct {
	// Group is the IPv4 multicast group. Default: 239.255.0.1.
	Group string `yaml:"group" validate:"required,ipv4"`

	// PortBase and DomainGain map a domain to a port:
	// PortBase + DomainGain*domain + 1.
	PortBase   int `yaml:"port_base" validate:"gt=0,lte=65535"`
	DomainGain int `yaml:"domain_gain" validate:"gte=0"`

	// Interface names the network interface to join the group on.
	// Empty lets the kernel choose.
	Interface string `yaml:"interface"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: info.
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// File, when set, receives log output instead of stderr. Useful
	// because the terminal is busy showing shapes.
	File string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	start := shape.Default()
	return &Config{
		Shape: ShapeConfig{
			Color: start.Color,
			X:     start.X,
			Y:     start.Y,
			Size:  start.Size,
		},
		Topic: shape.DefaultTopic,
		Keyboard: KeyboardConfig{
			PollInterval: 50 * time.Millisecond,
		},
		Reader: ReaderConfig{
			DrainBatch:   100,
			HistoryDepth: 1000,
		},
		Bus: BusConfig{
			Group:      "239.255.0.1",
			PortBase:   7400,
			DomainGain: 250,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the file named by SHAPES_CONFIG, or
// returns Default when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvConfig)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path, layered over Default.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML data layered over Default, expands variables, and
// validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Log.File = expandVars(c.Log.File, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. Provided vars
// take precedence over the environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}
