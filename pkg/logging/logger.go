// Package logging provides zap logger construction and log sanitization.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the process-wide zap logger. The "local" environment gets the
// human-readable development encoder; everything else gets production JSON.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
