package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/8wontae4/cost-calculation/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logLevels = map[string]zapcore.Level{
	"debug":   zapcore.DebugLevel,
	"info":    zapcore.InfoLevel,
	"warn":    zapcore.WarnLevel,
	"warning": zapcore.WarnLevel,
	"error":   zapcore.ErrorLevel,
}

// initializeLogger builds the process logger. A --log-level flag wins over
// the configured level.
func initializeLogger(logging config.LoggingConfig, levelFlag string) (*zap.Logger, error) {
	name := levelFlag
	if name == "" {
		name = logging.Level
	}
	if name == "" {
		name = "info"
	}
	level, ok := logLevels[name]
	if !ok {
		return nil, fmt.Errorf("invalid log level: %s", name)
	}

	var cfg zap.Config
	switch logging.Format {
	case "", "json":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("invalid log format: %s", logging.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.InitialFields = map[string]interface{}{"service": "cost-calculator"}

	if logging.OutputFile != "" {
		if err := ensureWritable(logging.OutputFile); err != nil {
			return nil, err
		}
		cfg.OutputPaths = []string{logging.OutputFile}
		cfg.ErrorOutputPaths = []string{logging.OutputFile}
	}

	return cfg.Build()
}

// ensureWritable creates the log file and its directory so a bad path fails
// at startup rather than on the first write.
func ensureWritable(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory for %s: %w", path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file.Close()
}
