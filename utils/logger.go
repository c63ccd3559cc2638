package utils

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.SugaredLogger

func init() {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		base = zap.NewNop()
	}
	logger = base.Sugar()
}

// Logger returns the process-wide sugared logger.
func Logger() *zap.SugaredLogger {
	return logger
}

// LogInfo logs an info-level message.
func LogInfo(format string, v ...interface{}) {
	logger.Infof(format, v...)
}

// LogWarn logs a warning-level message.
func LogWarn(format string, v ...interface{}) {
	logger.Warnf(format, v...)
}

// LogError logs an error-level message.
func LogError(format string, v ...interface{}) {
	logger.Errorf(format, v...)
}

// TrackTime logs how long a named operation took. Use with defer.
func TrackTime(start time.Time, name string) {
	logger.Infof("%s took %s", name, time.Since(start))
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	_ = logger.Sync()
}
