package logger

import (
	"go.uber.org/zap"
)

type Config struct {
	Development bool
	Level       string
	Encoding    string // json or console; empty picks the mode default
}

// New builds a zap logger: json production output, or colored console output
// in development.
func New(cfg Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Encoding != "" {
		zc.Encoding = cfg.Encoding
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = level
	}
	return zc.Build()
}
