package zap

import (
	"fmt"
	"io"
	"os"
	"strings"

	momentoredis "github.com/momentohq/momento-redis-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ momentoredis.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

func (z ZapLogger) Debug(msg string, f momentoredis.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f momentoredis.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f momentoredis.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f momentoredis.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f momentoredis.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}

// Config selects level ("debug", "info", "warn", "error") and format
// ("json" or "text"). Output defaults to stdout.
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

// New builds a zap logger from cfg. An unknown level or format is an error.
func New(cfg Config) (ZapLogger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if cfg.Level == "" {
		level, err = zapcore.InfoLevel, nil
	}
	if err != nil {
		return ZapLogger{}, fmt.Errorf("zap logger: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "text", "console":
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return ZapLogger{}, fmt.Errorf("zap logger: unknown format %q", cfg.Format)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(out), level)
	return ZapLogger{L: zap.New(core)}, nil
}
