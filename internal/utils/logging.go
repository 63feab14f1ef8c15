package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var Logger *zap.Logger

// NewLogger builds a production logger at the given level ("debug", "info", "warn", "error")
func NewLogger(levelName string) (*zap.Logger, error) {
	c := zap.NewProductionConfig()

	if levelName == "" {
		levelName = "info"
	}
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(levelName))); err != nil {
		return nil, fmt.Errorf("could not parse log level %s", levelName)
	}
	c.Level = level

	return c.Build()
}

func InitLogger(levelName string) error {
	logger, err := NewLogger(levelName)
	if err != nil {
		return err
	}
	Logger = logger
	return nil
}

func GetLogger() *zap.Logger {
	if Logger == nil {
		if err := InitLogger("info"); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	return Logger
}
