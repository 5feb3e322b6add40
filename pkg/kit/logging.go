package kit

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogOptions struct {
	Level string
	File  string
}

func NewLogger(service string) *zap.Logger {
	return NewLoggerWith(service, LogOptions{})
}

// NewLoggerWith builds a JSON logger. When File is set, records are also
// written to a rotated file.
func NewLoggerWith(service string, opts LogOptions) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.InitialFields = map[string]any{"service": service}

	if opts.Level != "" {
		if lvl, err := zap.ParseAtomicLevel(opts.Level); err == nil {
			cfg.Level = lvl
		}
	}

	if opts.File == "" {
		l, _ := cfg.Build()
		return l
	}

	rotated := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}
	enc := zapcore.NewJSONEncoder(cfg.EncoderConfig)
	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), cfg.Level),
		zapcore.NewCore(enc, zapcore.AddSync(rotated), cfg.Level),
	)

	return zap.New(core, zap.AddCaller()).With(zap.String("service", service))
}
