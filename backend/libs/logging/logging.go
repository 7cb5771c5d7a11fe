package logging

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultMaxSizeMB  = 2
	defaultMaxBackups = 5
)

// Options controls where and how verbosely the logger writes.
type Options struct {
	// Level is one of debug, info, warn, error. Falls back to LOG_LEVEL, then info.
	Level string
	// File enables a size-rotated log file in addition to stdout.
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Format selects the file encoder: "json" (default) or "console".
	Format string
}

// NewLogger builds a JSON stdout logger and, when opts.File is set, tees every
// entry into a rotated file.
func NewLogger(opts Options) (*zap.Logger, error) {
	level := parseLevel(opts.Level)
	atomic := zap.NewAtomicLevelAt(level)

	stdout := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.Lock(os.Stdout),
		atomic,
	)

	cores := []zapcore.Core{stdout}
	if strings.TrimSpace(opts.File) != "" {
		cores = append(cores, fileCore(opts, atomic))
	}

	logger := zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
	)
	return logger, nil
}

func fileCore(opts Options, level zapcore.LevelEnabler) zapcore.Core {
	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = defaultMaxSizeMB
	}
	maxBackups := opts.MaxBackups
	if maxBackups <= 0 {
		maxBackups = defaultMaxBackups
	}

	writer := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
	}

	var encoder zapcore.Encoder
	if strings.EqualFold(opts.Format, "console") {
		cfg := encoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04")
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.ConsoleSeparator = " - "
		encoder = zapcore.NewConsoleEncoder(cfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig())
	}

	return zapcore.NewCore(encoder, zapcore.AddSync(writer), level)
}

func parseLevel(raw string) zapcore.Level {
	levelStr := strings.ToLower(strings.TrimSpace(raw))
	if levelStr == "" {
		levelStr = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	}
	var level zapcore.Level
	if err := level.Set(levelStr); err != nil {
		level = zapcore.InfoLevel
	}
	return level
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     func(t time.Time, enc zapcore.PrimitiveArrayEncoder) { enc.AppendString(t.UTC().Format(time.RFC3339Nano)) },
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
