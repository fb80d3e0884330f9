// Package logger builds the application's structured zap logger.  Request
// logging stays on the Echo middleware; this logger covers everything that
// happens off the request path (startup, the booking engine's notification
// hooks, the queue consumer).
package logger

import (
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

// New returns a zap logger tuned for the given environment.  "prod" gets
// JSON output at info level; everything else gets the human-readable
// development config at debug level.  Construction errors fall back to a
// no-op logger so callers never need a nil check.
func New(env string) *zap.Logger {
    var cfg zap.Config
    if env == "prod" {
        cfg = zap.NewProductionConfig()
        cfg.EncoderConfig.TimeKey = "ts"
        cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
    } else {
        cfg = zap.NewDevelopmentConfig()
    }
    l, err := cfg.Build()
    if err != nil {
        return zap.NewNop()
    }
    return l
}
