package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the effblob configuration file
// (~/.config/effblob/config.yaml). Empty strings and nil pointers mean
// "not set".
type Config struct {
	// ByteOrder is the default for --order, --from and --to.
	ByteOrder string `yaml:"byte_order"`
	WriteOBJ  *bool  `yaml:"write_obj"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServerAddress string `yaml:"server_address"`
	MaxBlobSize   *int64 `yaml:"max_blob_size"`
}

func configPath() string {
	if configFile != "" {
		return configFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "effblob", "config.yaml")
}

// LoadConfig reads the config file. A missing default file yields a zero
// Config; a file named with --config must exist and parse.
func LoadConfig() (Config, error) {
	path := configPath()
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && configFile == "" {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyLoggingConfig applies config file defaults to the global logging
// flags when they were not set on the command line.
func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") && !c.IsSet("debug") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyOrderConfig applies the configured byte order to each named flag
// that was left at its default.
func applyOrderConfig(c *cli.Command, cfg Config, flags map[string]*string) {
	if cfg.ByteOrder == "" {
		return
	}
	for name, dest := range flags {
		if !c.IsSet(name) {
			*dest = cfg.ByteOrder
		}
	}
}

func applyExtractConfig(c *cli.Command, cfg Config, order *string, obj *bool) {
	applyOrderConfig(c, cfg, map[string]*string{"order": order})
	if cfg.WriteOBJ != nil && !c.IsSet("obj") {
		*obj = *cfg.WriteOBJ
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string, maxBlobSize *int64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.MaxBlobSize != nil && !c.IsSet("max-blob-size") {
		*maxBlobSize = *cfg.MaxBlobSize
	}
}
