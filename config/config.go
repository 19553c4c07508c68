// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package config

import (
	"os"

	"github.com/pkg/errors"
	uconfig "go.uber.org/config"

	"github.com/iotexproject/iotex-counting/db"
	"github.com/iotexproject/iotex-counting/host"
	"github.com/iotexproject/iotex-counting/pkg/log"
)

// IMPORTANT: to define a config, add a field or a new config type to the existing config types. In addition, provide
// the default value in Default var.

var (
	// Default is the default config
	Default = Config{
		Log: log.GlobalConfig{},
		DB:  db.DefaultConfig,
		Chain: host.Config{
			MaxCallDepth: host.DefaultConfig.MaxCallDepth,
		},
	}

	// ErrInvalidCfg indicates the invalid config value
	ErrInvalidCfg = errors.New("invalid config value")

	// Validates is the collection config validation functions
	Validates = []Validate{
		ValidateDB,
		ValidateChain,
		ValidateSubLogs,
	}
)

type (
	// Config is the root config struct, each package's config should be put as its sub struct
	Config struct {
		Log     log.GlobalConfig            `yaml:"log"`
		SubLogs map[string]log.GlobalConfig `yaml:"subLogs"`
		DB      db.Config                   `yaml:"db"`
		Chain   host.Config                 `yaml:"chain"`
	}

	// Validate is the interface of validating the config
	Validate func(Config) error
)

// New creates a config instance. It first loads the default configs. If the config path is not empty, it will read from
// the file and override the default configs. By default, it will apply all validation functions. To bypass validation,
// use DoNotValidate instead.
func New(configPaths []string, validates ...Validate) (Config, error) {
	opts := make([]uconfig.YAMLOption, 0)
	opts = append(opts, uconfig.Static(Default))
	opts = append(opts, uconfig.Expand(os.LookupEnv))
	for _, path := range configPaths {
		if path != "" {
			opts = append(opts, uconfig.File(path))
		}
	}
	yaml, err := uconfig.NewYAML(opts...)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to init config")
	}

	var cfg Config
	if err := yaml.Get(uconfig.Root).Populate(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal YAML config to struct")
	}

	// By default, the config needs to pass all the validation
	if len(validates) == 0 {
		validates = Validates
	}
	for _, validate := range validates {
		if err := validate(cfg); err != nil {
			return Config{}, errors.Wrap(err, "failed to validate config")
		}
	}
	return cfg, nil
}

// DoNotValidate validates the given config
func DoNotValidate(cfg Config) error { return nil }

// ValidateDB validates the db configs
func ValidateDB(cfg Config) error {
	switch cfg.DB.DBType {
	case db.DBInMemory:
		return nil
	case db.DBBolt, db.DBPebble:
		if cfg.DB.DbPath == "" {
			return errors.Wrapf(ErrInvalidCfg, "db path is required by %s", cfg.DB.DBType)
		}
		return nil
	default:
		return errors.Wrapf(ErrInvalidCfg, "unsupported db type %s", cfg.DB.DBType)
	}
}

// ValidateChain validates the chain configs
func ValidateChain(cfg Config) error {
	if cfg.Chain.MaxCallDepth == 0 {
		return errors.Wrap(ErrInvalidCfg, "max call depth should be greater than 0")
	}
	return nil
}

// ValidateSubLogs validates the names of the sub loggers
func ValidateSubLogs(cfg Config) error {
	if _, ok := cfg.SubLogs["global"]; ok {
		return errors.Wrap(ErrInvalidCfg, "'global' is reserved for the global logger")
	}
	return nil
}
