package utils

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type loggerKey struct{}

// Log adalah logger global aplikasi
var Log = logrus.New()

// SetupLogger mengatur level dan format logger global
func SetupLogger(level, format string) {
	Log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, entry)
}

// LoggerFromContext tidak pernah mengembalikan nil
func LoggerFromContext(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		switch v := ctx.Value(loggerKey{}).(type) {
		case *logrus.Entry:
			return v
		case *logrus.Logger:
			return logrus.NewEntry(v)
		}
	}
	return logrus.NewEntry(Log)
}
