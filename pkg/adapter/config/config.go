// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the carrent to instantiate its
// components using those loaded configuration settings.
// A config file is optional. Its settings may be overridden by
// environment variables having the CARRENT_ prefix, such as the
// CARRENT_LOG_LEVEL for the log.level setting.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables which override
// the config file settings.
const EnvPrefix = "CARRENT_"

// EnvConfigFile is the environment variable which may specify the
// config file path, if it is not given in the command line.
const EnvConfigFile = EnvPrefix + "CONFIG"

// Log formats which are supported by Config.Logger.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config contains all settings of the carrent.
type Config struct {
	Log struct {
		Level  string `yaml:"level"`  // debug, info, warn, or error
		Format string `yaml:"format"` // text or json
	} `yaml:"log"`

	Database struct {
		// File is the database file which is used when no file is
		// given in the command line. Its extension selects the format.
		File string `yaml:"file"`
	} `yaml:"database"`
}

// Default returns the settings which are used when they are neither
// given by a config file, nor by the environment variables.
func Default() *Config {
	c := &Config{}
	c.Log.Level = "warn"
	c.Log.Format = FormatText
	return c
}

// Load loads the optional path config file (which is ignored if path
// is empty), overrides its settings by the CARRENT_ prefixed
// environment variables as returned by environ (or os.Environ if
// environ is nil), and validates the result. Missing settings take
// their Default values.
func Load(path string, environ func() []string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading %q config file: %w", path, err)
		}
	}
	err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
		EnvironFunc:   environ,
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}
	c := Default()
	err = k.UnmarshalWithConf("", c, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           c,
			WeaklyTypedInput: true,
			MatchName:        strings.EqualFold,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// envKey converts CARRENT_LOG_LEVEL to log.level. The config file path
// variable is not a setting and is dropped.
func envKey(k, v string) (string, any) {
	if k == EnvConfigFile {
		return "", nil
	}
	k = strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	return strings.ReplaceAll(k, "_", "."), v
}

// Validate checks the log level and format settings.
func (c *Config) Validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case FormatText, FormatJSON:
		return nil
	default:
		return fmt.Errorf(
			"invalid log format %q, expected %s or %s",
			c.Log.Format, FormatText, FormatJSON,
		)
	}
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return l, nil
}

// Logger creates a structured logger which writes to w, using the
// configured log level and format.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	l, err := c.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: l}
	if c.Log.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
