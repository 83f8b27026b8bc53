package initializers

import (
	"go.uber.org/zap"
)

// InitLogger installs the global zap logger used throughout the API.
func InitLogger() {
	var (
		logger *zap.Logger
		err    error
	)
	if Config.Env == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}
