package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the completion backend name.
	FieldProvider = "ai_provider"
	// FieldTask is the structured log field key for the logical task of a model call.
	FieldTask = "ai_task"
	// FieldModel is the structured log field key for the resolved model identifier.
	FieldModel = "ai_model"
	// FieldRunID ties together every log line emitted by one pipeline run.
	FieldRunID = "run_id"
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

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns the fields describing a model call: its task and the model serving it.
// Empty values are skipped.
func CommonFields(task, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldTask, Value: task},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the task/model fields to the provided logger.
func WithCommonFields(logger *zap.Logger, task, model string) *zap.Logger {
	return WithFields(logger, CommonFields(task, model)...)
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
