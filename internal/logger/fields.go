package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldRoster is the structured log field key for the roster source.
	FieldRoster = "roster"
	// FieldBrief is the structured log field key for the casting brief name.
	FieldBrief = "brief"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the provided fields to the logger, defaulting to a
// no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// SourceFields returns the fields naming where a roster and a brief came from.
func SourceFields(roster, brief string) []zap.Field {
	return StringFields(
		StringField{Key: FieldRoster, Value: roster},
		StringField{Key: FieldBrief, Value: brief},
	)
}

// WithSource attaches the roster and brief fields to the provided logger.
func WithSource(logger *zap.Logger, roster, brief string) *zap.Logger {
	return WithFields(logger, SourceFields(roster, brief)...)
}
