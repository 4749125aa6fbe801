package logger

import (
	"go.uber.org/zap"
)

// New builds the process-wide logger. GIN_MODE=release gets the
// production config; anything else gets the development config.
func New(ginMode string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if ginMode == "release" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return l
}
