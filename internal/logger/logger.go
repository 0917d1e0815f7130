// Package logger builds the process zap logger.
package logger

import (
	"context"
	"fmt"
	"time"

	zaploki "github.com/paul-milne/zap-loki"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/kupolls/internal/config"
)

// New returns a sugared production logger at the configured level. With a
// Loki URL configured, entries are also pushed to Loki in batches.
func New(cfg config.Logger, dev bool) (*zap.SugaredLogger, error) {
	zapConfig := zap.NewProductionConfig()
	if dev {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapConfig.Level = level

	if cfg.URL == "" {
		logger, err := zapConfig.Build()
		if err != nil {
			return nil, err
		}
		return logger.Sugar(), nil
	}

	lokiConfig := zaploki.Config{
		Url:          cfg.URL,
		BatchMaxSize: 1000,
		BatchMaxWait: 10 * time.Second,
		Labels:       map[string]string{"app": cfg.AppName},
	}
	logger, err := zaploki.New(context.Background(), lokiConfig).WithCreateLogger(zapConfig)
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
