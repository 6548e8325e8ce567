package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	envDev  = "dev"
	envProd = "prod"
)

// New builds the application logger for the given environment: readable
// debug output in dev, rotated JSON in prod. An empty logPath sends prod
// output to stdout.
func New(env, logPath string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envProd:
		var w io.Writer = os.Stdout
		if logPath != "" {
			w = &lumberjack.Logger{
				Filename:   logPath,
				MaxSize:    100, // MB
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
		}
		log = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case envDev:
		fallthrough
	default:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return log
}
