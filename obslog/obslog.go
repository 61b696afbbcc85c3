// Package obslog holds the process-wide zap logger. The terminal belongs to
// the UI, so output only ever goes to a file.
package obslog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kibitz/config"
)

const defaultLogFile = "kibitz/kibitz.log"

var (
	globalLogger *zap.Logger = zap.NewNop()
	logFile      *os.File
)

// L returns the global logger. It is a no-op logger until Init succeeds.
func L() *zap.Logger { return globalLogger }

// Init builds the file logger described by cfg. Level "off" keeps the no-op logger.
func Init(cfg config.LogConfig) error {
	if strings.EqualFold(strings.TrimSpace(cfg.Level), "off") {
		return nil
	}
	path, err := resolvePath(cfg.File)
	if err != nil {
		return err
	}
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	var enc zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		enc = zapcore.NewJSONEncoder(jsonEncoderConfig())
	default:
		enc = zapcore.NewConsoleEncoder(consoleEncoderConfig())
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(f), parseLevel(cfg.Level))
	Sync()
	logFile = f
	globalLogger = zap.New(core).WithOptions(zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

// Sync flushes and closes the log file, restoring the no-op logger.
func Sync() {
	_ = globalLogger.Sync()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	globalLogger = zap.NewNop()
}

func resolvePath(file string) (string, error) {
	if strings.TrimSpace(file) != "" {
		return file, nil
	}
	return xdg.DataFile(defaultLogFile)
}

func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" || dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
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

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " | "
	return cfg
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}
