// Package config loads the dnaconvert configuration file.
//
// The file lives at $XDG_CONFIG_HOME/dnaconvert/config.toml, falling back to
// ~/.config/dnaconvert/config.toml. A missing file yields the defaults:
//
//	nexus_parser = "internal"
//	allow_empty_sequences = false
//	disable_automatic_renaming = false
//	default_input_format = ""
//	default_output_format = ""
//
//	[server]
//	addr = "127.0.0.1:8080"
//	max_upload_mb = 16
//
// Command-line flags override the values read here.
package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
	"github.com/dnaconvert/dnaconvert/pkg/format/formats"
)

const (
	appName  = "dnaconvert"
	fileName = "config.toml"

	// NexusParserInternal is the only supported NEXUS parser.
	NexusParserInternal = "internal"

	// DefaultAddr is the default HTTP listen address.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultMaxUploadMB is the default upload size limit of the HTTP server.
	DefaultMaxUploadMB = 16
)

// Config is the content of the configuration file.
type Config struct {
	NexusParser              string `toml:"nexus_parser"`
	AllowEmptySequences      bool   `toml:"allow_empty_sequences"`
	DisableAutomaticRenaming bool   `toml:"disable_automatic_renaming"`
	DefaultInputFormat       string `toml:"default_input_format"`
	DefaultOutputFormat      string `toml:"default_output_format"`
	Server                   Server `toml:"server"`
}

// Server configures the HTTP front end.
type Server struct {
	Addr        string `toml:"addr"`
	MaxUploadMB int    `toml:"max_upload_mb"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		NexusParser: NexusParserInternal,
		Server: Server{
			Addr:        DefaultAddr,
			MaxUploadMB: DefaultMaxUploadMB,
		},
	}
}

// Path returns the configuration file location using the XDG standard.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the configuration at path. A missing file is not an error and
// returns the defaults. Unset keys keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	return cfg, nil
}

// LoadDefault loads the configuration from Path.
func LoadDefault() (*Config, string, error) {
	path, err := Path()
	if err != nil {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Validate checks option values.
func (c *Config) Validate() error {
	if c.NexusParser != NexusParserInternal {
		return errors.New(errors.ErrCodeInvalidInput, "unsupported nexus_parser %q (only %q is available)",
			c.NexusParser, NexusParserInternal)
	}
	for _, name := range []string{c.DefaultInputFormat, c.DefaultOutputFormat} {
		if name == "" {
			continue
		}
		if _, err := formats.Resolve(name); err != nil {
			return err
		}
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max_upload_mb must be positive")
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}
