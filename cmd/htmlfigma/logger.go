package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the console logger for level none, normal or debug.
// Everything goes to stderr so stdout stays clean for documents.
func newLogger(level string) (*zap.Logger, error) {
	var enabler zapcore.LevelEnabler
	switch level {
	case "", "normal":
		enabler = zapcore.InfoLevel
	case "debug":
		enabler = zapcore.DebugLevel
	case "none":
		return zap.NewNop(), nil
	default:
		return nil, fmt.Errorf("unknown log level %q (want none, normal or debug)", level)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if isatty.IsTerminal(os.Stderr.Fd()) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), enabler)
	return zap.New(core).Named("htmlfigma"), nil
}

// commandLogger builds the logger from the log.level setting.
func commandLogger() (*zap.Logger, error) {
	return newLogger(getStringWithFallback("log-level", "log.level", "normal"))
}
