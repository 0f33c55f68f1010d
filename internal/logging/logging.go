package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tessro/minispot/internal/config"
)

// New builds a zap logger from the log section of the config.
// Console encoding is used when verbose is set, JSON otherwise. When a file
// is configured it is rotated by size.
func New(cfg config.LogConfig, verbose bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(levelOrDefault(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var zc zap.Config
	if verbose {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if cfg.File == "" {
		zc.OutputPaths = []string{"stderr"}
		logger, err := zc.Build()
		if err != nil {
			return nil, err
		}
		return logger.Named("minispot"), nil
	}

	// lumberjack doesn't create directories
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	})

	var enc zapcore.Encoder
	if verbose {
		enc = zapcore.NewConsoleEncoder(zc.EncoderConfig)
	} else {
		enc = zapcore.NewJSONEncoder(zc.EncoderConfig)
	}
	core := zapcore.NewCore(enc, w, zc.Level)
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(w)).Named("minispot"), nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}
