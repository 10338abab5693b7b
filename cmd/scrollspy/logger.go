package main

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// configureRuntimeLogger writes JSON logs to path, or to
// ~/.local/state/scrollspy/scrollspy.log when path is empty. The terminal
// belongs to the reader, so stderr is only the last resort.
func configureRuntimeLogger(path string, level zapcore.Level) (*zap.Logger, func()) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	newLogger := func(ws zapcore.WriteSyncer) *zap.Logger {
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, level)
		return zap.New(core, zap.AddCaller())
	}
	fallback := func() (*zap.Logger, func()) {
		l := newLogger(zapcore.Lock(os.Stderr))
		return l, func() { _ = l.Sync() }
	}

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fallback()
		}
		path = filepath.Join(home, ".local", "state", "scrollspy", "scrollspy.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fallback()
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fallback()
	}

	l := newLogger(zapcore.AddSync(f))
	return l, func() {
		_ = l.Sync()
		_ = f.Close()
	}
}
