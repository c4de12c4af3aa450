// Package logger configures zap for the CLI and holds the structured field
// helpers shared by the model gateway and the extraction pipeline.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects log encoding and verbosity.
type Options struct {
	JSON  bool
	Debug bool
}

// New builds the CLI logger from the --json and --debug flags.
func New(json bool, debug bool) (*zap.Logger, error) {
	return Options{JSON: json, Debug: debug}.Build()
}

// Build returns a logger writing to stderr. Stdout is reserved for command output.
func (o Options) Build() (*zap.Logger, error) {
	log, err := o.config().Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

func (o Options) config() zap.Config {
	level := zapcore.InfoLevel
	if o.Debug {
		level = zapcore.DebugLevel
	}

	encoding := "console"
	if o.JSON {
		encoding = "json"
	}

	return zap.Config{
		Encoding:          encoding,
		Level:             zap.NewAtomicLevelAt(level),
		DisableStacktrace: !o.Debug,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "msg",
			LevelKey:       "level",
			TimeKey:        "time",
			CallerKey:      "caller",
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
	}
}

// TruncateForLog folds s onto one line and cuts it to limit runes, marking
// the cut with "...". Prompts and model replies are logged through it.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
