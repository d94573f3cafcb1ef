package logger

import (
	"github.com/datatide/relstore/internal/domain/port/core"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements the Logger interface using Zap
type ZapLogger struct {
	logger *zap.Logger
	atom   zap.AtomicLevel
}

// NewZapLogger creates a new zap-based logger instance. Production mode uses
// a JSON encoder; development mode a colored console encoder.
func NewZapLogger(isProduction bool) core.Logger {
	var cfg zap.Config
	atom := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if isProduction {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = atom
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"

	zapLogger, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return &ZapLogger{
		logger: zapLogger,
		atom:   atom,
	}
}

// NewDefaultLogger creates a standard logger for the application
func NewDefaultLogger() core.Logger {
	return NewZapLogger(false)
}

// SetLevel sets the minimum log level
func (l *ZapLogger) SetLevel(level core.LogLevel) {
	switch level {
	case core.LogLevelDebug:
		l.atom.SetLevel(zap.DebugLevel)
	case core.LogLevelInfo:
		l.atom.SetLevel(zap.InfoLevel)
	case core.LogLevelWarn:
		l.atom.SetLevel(zap.WarnLevel)
	case core.LogLevelError:
		l.atom.SetLevel(zap.ErrorLevel)
	default:
		l.atom.SetLevel(zap.InfoLevel)
	}
}

// Debug logs debug messages
func (l *ZapLogger) Debug(message string, fields map[string]any) {
	l.logger.Debug(message, mapToZapFields(fields)...)
}

// Info logs informational messages
func (l *ZapLogger) Info(message string, fields map[string]any) {
	l.logger.Info(message, mapToZapFields(fields)...)
}

// Warn logs warning messages
func (l *ZapLogger) Warn(message string, fields map[string]any) {
	l.logger.Warn(message, mapToZapFields(fields)...)
}

// Error logs errors messages
func (l *ZapLogger) Error(message string, fields map[string]any) {
	l.logger.Error(message, mapToZapFields(fields)...)
}

// Flush ensures all buffered logs are written to their destination
func (l *ZapLogger) Flush() error {
	return l.logger.Sync()
}

// mapToZapFields converts a field map to zap's structured fields
func mapToZapFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	zapFields := make([]zap.Field, 0, len(fields))
	for key, value := range fields {
		zapFields = append(zapFields, zap.Any(key, value))
	}
	return zapFields
}
