package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the global logger.
type Options struct {
	Level      string
	File       string // empty disables file output
	MaxSize    int    // megabytes
	MaxAge     int    // days
	MaxBackups int
	Compress   bool
}

// Init builds a logger writing to stderr and, when File is set, to a
// rotating file, then installs it as the zap global. The returned
// function flushes buffered entries.
func Init(opts Options) (func(), error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level),
	}
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSize,
			MaxAge:     opts.MaxAge,
			MaxBackups: opts.MaxBackups,
			Compress:   opts.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), level))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	restore := zap.ReplaceGlobals(log)
	return func() {
		_ = log.Sync()
		restore()
	}, nil
}
