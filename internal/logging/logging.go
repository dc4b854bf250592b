// Package logging provides a package-tagged structured logger shared
// by every component, built on zap the way the rest of this pack's
// richer example wires it through cmd/executor/heartbeat.
package logging

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base atomic.Pointer[zap.Logger]

func init() {
	l, _ := zap.NewProduction()
	base.Store(l)
}

// Init reconfigures the global base logger. format is "json" or
// "console"; level is one of debug/info/warn/error. Call once during
// startup after config is loaded.
func Init(format, level string) error {
	var cfg zap.Config
	if strings.EqualFold(format, "console") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	base.Store(l)
	return nil
}

// L returns a logger tagged with the given component name, e.g.
// logging.L("classifier").
func L(component string) *zap.SugaredLogger {
	return base.Load().With(zap.String("component", component)).Sugar()
}

// Sync flushes any buffered log entries. Call on shutdown.
func Sync() {
	_ = base.Load().Sync()
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
