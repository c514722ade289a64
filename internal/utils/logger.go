package utils

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger builds the process-wide zap logger. Development config when
// ENV=dev, production JSON output otherwise.
func NewLogger() (*zap.Logger, error) {
	if os.Getenv("ENV") == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
