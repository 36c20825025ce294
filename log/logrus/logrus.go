package logrus

import (
	"fmt"
	"io"
	"strings"

	momentoredis "github.com/momentohq/momento-redis-go"
	"github.com/sirupsen/logrus"
)

var _ momentoredis.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

func (l LogrusLogger) Debug(msg string, f momentoredis.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f momentoredis.Fields) {
	l.E.WithFields(logrus.Fields(f)).Info(msg)
}
func (l LogrusLogger) Warn(msg string, f momentoredis.Fields) {
	l.E.WithFields(logrus.Fields(f)).Warn(msg)
}
func (l LogrusLogger) Error(msg string, f momentoredis.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}

// New builds a logrus logger. level as in logrus.ParseLevel ("" => info);
// format is "json" or "text" ("" => json). out nil keeps logrus' stderr.
func New(level, format string, out io.Writer) (LogrusLogger, error) {
	l := logrus.New()
	if level != "" {
		lv, err := logrus.ParseLevel(level)
		if err != nil {
			return LogrusLogger{}, fmt.Errorf("logrus logger: %w", err)
		}
		l.SetLevel(lv)
	}
	switch strings.ToLower(format) {
	case "", "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	default:
		return LogrusLogger{}, fmt.Errorf("logrus logger: unknown format %q", format)
	}
	if out != nil {
		l.SetOutput(out)
	}
	return LogrusLogger{E: logrus.NewEntry(l)}, nil
}
