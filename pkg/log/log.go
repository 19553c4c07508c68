// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package log

import (
	"log"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// GlobalConfig defines the global logger configurations.
type GlobalConfig struct {
	Zap            *zap.Config `json:"zap" yaml:"zap"`
	RedirectStdLog bool        `json:"stdLogRedirect" yaml:"stdLogRedirect"`
}

var (
	_logger     *zap.Logger
	_logMu      sync.RWMutex
	_subLoggers map[string]*zap.Logger

	_globalLoggerName = "global"
)

func init() {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.DisableStacktrace = true
	zapCfg.Level.SetLevel(zap.InfoLevel)
	l, err := zapCfg.Build()
	if err != nil {
		log.Println("Failed to init zap global logger, no zap log will be shown till zap is properly initialized: ", err)
		return
	}
	_logMu.Lock()
	_logger = l
	_subLoggers = make(map[string]*zap.Logger)
	_logMu.Unlock()
}

// L is alias of zap.L().
func L() *zap.Logger {
	_logMu.RLock()
	l := _logger
	_logMu.RUnlock()
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// S is alias of zap.S().
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// Logger returns the logger registered under name, or the global logger if there is none.
func Logger(name string) *zap.Logger {
	_logMu.RLock()
	l, ok := _subLoggers[name]
	_logMu.RUnlock()
	if !ok {
		return L()
	}
	return l
}

// InitLoggers initializes the global logger and other sub loggers.
func InitLoggers(globalCfg GlobalConfig, subCfgs map[string]GlobalConfig, opts ...zap.Option) error {
	if _, exists := subCfgs[_globalLoggerName]; exists {
		return errors.New("'" + _globalLoggerName + "' is a reserved name for global logger")
	}
	cfgs := make(map[string]GlobalConfig, len(subCfgs)+1)
	for name, cfg := range subCfgs {
		cfgs[name] = cfg
	}
	cfgs[_globalLoggerName] = globalCfg

	loggers := make(map[string]*zap.Logger, len(cfgs))
	for name, cfg := range cfgs {
		if cfg.Zap == nil {
			zapCfg := zap.NewProductionConfig()
			cfg.Zap = &zapCfg
		}
		logger, err := cfg.Zap.Build(opts...)
		if err != nil {
			return errors.Wrapf(err, "failed to build logger %s", name)
		}
		if cfg.RedirectStdLog {
			zap.RedirectStdLog(logger)
		}
		loggers[name] = logger
	}

	_logMu.Lock()
	defer _logMu.Unlock()
	_logger = loggers[_globalLoggerName]
	delete(loggers, _globalLoggerName)
	_subLoggers = loggers
	return nil
}
