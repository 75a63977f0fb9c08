package config

import (
	"fmt"

	"go.uber.org/zap"
)

// Build returns the logger described by c. Without a file it returns a
// no-op logger.
func (c LogConfig) Build() (*zap.Logger, error) {
	if c.File == "" {
		return zap.NewNop(), nil
	}
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var zc zap.Config
	if c.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	}
	zc.Level = level
	zc.OutputPaths = []string{c.File}
	zc.ErrorOutputPaths = []string{c.File}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
