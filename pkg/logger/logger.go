package logger

import (
	"log"

	"go.uber.org/zap"
)

// New builds the service-wide structured logger
func New() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	return logger
}
