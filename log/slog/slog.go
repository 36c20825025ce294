package slog

import (
	"context"
	"fmt"
	"io"
	stdslog "log/slog"
	"os"
	"strings"

	momentoredis "github.com/momentohq/momento-redis-go"
)

var _ momentoredis.Logger = Logger{}

type Logger struct{ L *stdslog.Logger }

func (s Logger) Debug(msg string, f momentoredis.Fields) {
	s.L.LogAttrs(context.Background(), stdslog.LevelDebug, msg, attrs(f)...)
}
func (s Logger) Info(msg string, f momentoredis.Fields) {
	s.L.LogAttrs(context.Background(), stdslog.LevelInfo, msg, attrs(f)...)
}
func (s Logger) Warn(msg string, f momentoredis.Fields) {
	s.L.LogAttrs(context.Background(), stdslog.LevelWarn, msg, attrs(f)...)
}
func (s Logger) Error(msg string, f momentoredis.Fields) {
	s.L.LogAttrs(context.Background(), stdslog.LevelError, msg, attrs(f)...)
}

func attrs(f momentoredis.Fields) []stdslog.Attr {
	if len(f) == 0 {
		return nil
	}
	out := make([]stdslog.Attr, 0, len(f))
	for k, v := range f {
		out = append(out, stdslog.Any(k, v))
	}
	return out
}

// New builds a slog logger writing json or text to out (nil => stderr).
func New(level, format string, out io.Writer) (Logger, error) {
	var lv stdslog.Level
	if level != "" {
		if err := lv.UnmarshalText([]byte(level)); err != nil {
			return Logger{}, fmt.Errorf("slog logger: %w", err)
		}
	}
	if out == nil {
		out = os.Stderr
	}
	opts := &stdslog.HandlerOptions{Level: lv}
	switch strings.ToLower(format) {
	case "", "json":
		return Logger{L: stdslog.New(stdslog.NewJSONHandler(out, opts))}, nil
	case "text":
		return Logger{L: stdslog.New(stdslog.NewTextHandler(out, opts))}, nil
	}
	return Logger{}, fmt.Errorf("slog logger: unknown format %q", format)
}
