package configs

import "go.uber.org/zap"

// Logger is the shared application logger. Notification and webhook
// failures are reported here rather than surfaced to API clients.
var Logger = newLogger()

func newLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
