// Package obs builds the structured logger threaded through the
// pipeline and CLI. No package-level logger lives here; callers build
// one with New and pass it down explicitly.
package obs

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger: a console encoder when stderr is a TTY-like
// destination is not detectable portably here, so the caller decides
// via pretty; JSON encoding otherwise. debug enables debug-level output.
func New(pretty bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if pretty {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core), nil
}

// Noop returns a logger that discards everything, for tests and
// library callers that don't want pipeline diagnostics.
func Noop() *zap.Logger {
	return zap.NewNop()
}
