package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Log struct {
	LogLevel zapcore.Level `envconfig:"LOG_LEVEL" default:"info"`
	Sink     string        `envconfig:"LOG_SINK"`
}

// NewLogger builds a named json zap logger writing to stdout or to the
// configured sink file.
func NewLogger(cfg Log, name string) *zap.Logger {
	ws := zapcore.AddSync(os.Stdout)
	if cfg.Sink != "" {
		if f, err := os.OpenFile(cfg.Sink, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			ws = zapcore.AddSync(f)
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		ws,
		zap.NewAtomicLevelAt(cfg.LogLevel),
	)

	return zap.New(core, zap.AddCaller()).Named(name)
}
