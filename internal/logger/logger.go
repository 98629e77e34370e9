package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultOutput = "stderr"

// Options configure the application logger.
type Options struct {
	// JSON switches from the console encoder to JSON.
	JSON bool
	// Debug forces the debug level regardless of Level.
	Debug bool
	// Level is a zap level name such as "warn". Empty means info.
	Level string
	// Outputs are zap sink URLs or file paths. Empty means stderr, keeping
	// stdout free for command results.
	Outputs []string
}

// New builds the application logger.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level, opts.Debug)
	if err != nil {
		return nil, err
	}

	encoding := "console"
	if opts.JSON {
		encoding = "json"
	}

	outputs := opts.Outputs
	if len(outputs) == 0 {
		outputs = []string{defaultOutput}
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{defaultOutput},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	return cfg.Build()
}

// ParseLevel resolves the configured level name. debug wins over name.
func ParseLevel(name string, debug bool) (zapcore.Level, error) {
	if debug {
		return zapcore.DebugLevel, nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return zapcore.InfoLevel, nil
	}

	level, err := zapcore.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log level %q: %w", name, err)
	}

	return level, nil
}

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
