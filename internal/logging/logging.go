// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects level and encoding. Empty fields mean info and console.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	// Output overrides stderr; used by tests.
	Output io.Writer
}

// New builds a zap logger. The json format uses the production encoder
// (ISO timestamps, sampling off); console uses the development encoder.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		var err error
		if level, err = zapcore.ParseLevel(opts.Level); err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
	}

	var config zap.Config
	switch opts.Format {
	case "", "console":
		config = zap.NewDevelopmentConfig()
		config.Development = false
		config.DisableStacktrace = true
	case "json":
		config = zap.NewProductionConfig()
		config.Sampling = nil
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("logging: unknown format %q", opts.Format)
	}
	config.Level = zap.NewAtomicLevelAt(level)

	if opts.Output == nil {
		logger, err := config.Build()
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		return logger, nil
	}

	var enc zapcore.Encoder
	if config.Encoding == "json" {
		enc = zapcore.NewJSONEncoder(config.EncoderConfig)
	} else {
		enc = zapcore.NewConsoleEncoder(config.EncoderConfig)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(opts.Output), config.Level)
	return zap.New(core), nil
}
