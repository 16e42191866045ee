package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

// Init configures Log from a level name ("debug", "info", ...) and a format
// ("json" or "text"). Unknown levels fall back to info.
func Init(level, format string) {
	configure(Log, os.Stdout, level, format)
}

// InitTo is Init with an explicit destination.
func InitTo(out io.Writer, level, format string) {
	configure(Log, out, level, format)
}

func configure(l *logrus.Logger, out io.Writer, level, format string) {
	l.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.EqualFold(format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}
	l.SetFormatter(&logrus.JSONFormatter{})
}
