package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured log field keys shared by the analyzer components.
const (
	FieldProvider   = "ai_provider"
	FieldModel      = "ai_model"
	FieldRequestID  = "request_id"
	FieldFile       = "file"
	FieldCapability = "capability"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields. Entries with a blank
// key or value are dropped.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger. A nil logger becomes a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// WithCommonFields tags the logger with the AI provider and model.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)...)
}

// ForRequest tags the logger with a request id and, when known, the uploaded file name.
func ForRequest(logger *zap.Logger, requestID, file string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldRequestID, Value: requestID},
		StringField{Key: FieldFile, Value: file},
	)...)
}
