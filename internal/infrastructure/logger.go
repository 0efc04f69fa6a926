package infrastructure

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the process-wide logger: JSON production output, or the
// human-readable development encoder when not in production.
func NewLogger(production bool) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if production {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return logger, nil
}
