package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/chanserv/internal/core"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	// ServerName prefixes every server-originated line.
	ServerName string `mapstructure:"server_name" yaml:"server_name"`
	// MaxMessageBytes caps a single websocket frame from a client.
	MaxMessageBytes int64 `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	// ClientBuffer is the capacity of each connection's inbound and outbound queues.
	ClientBuffer int `mapstructure:"client_buffer" yaml:"client_buffer"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		ServerName:        "chanserv",
		MaxMessageBytes:   4096,
		ClientBuffer:      32,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.ServerName != "" {
		c.ServerName = other.ServerName
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.ClientBuffer != 0 {
		c.ClientBuffer = other.ClientBuffer
	}
}

// Validate reports every invalid value at once.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("shutdown_timeout must not be negative"))
	}
	if !core.IsValidName(c.ServerName) {
		errs = append(errs, fmt.Errorf("server_name %q must be letters and digits only", c.ServerName))
	}
	if c.MaxMessageBytes < 64 {
		errs = append(errs, fmt.Errorf("max_message_bytes %d is below 64", c.MaxMessageBytes))
	}
	if c.ClientBuffer < 1 {
		errs = append(errs, fmt.Errorf("client_buffer %d must be at least 1", c.ClientBuffer))
	}
	return errors.Join(errs...)
}
