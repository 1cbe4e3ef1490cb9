// Pacote logger mantém o slog compartilhado pela API e pelo CLI de seed.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	nivel  = new(slog.LevelVar)
	padrao = novo(os.Stdout)
)

func novo(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: nivel})).With("app", "candidatos-sp")
}

func L() *slog.Logger {
	return padrao
}

// SetLevel vale também para loggers derivados com With.
func SetLevel(level slog.Level) {
	nivel.Set(level)
}

// SetOutput troca o destino dos logs; usado pelos testes.
func SetOutput(w io.Writer) {
	padrao = novo(w)
}

// ParseLevel aceita debug, info, warn e error; valores desconhecidos viram info.
func ParseLevel(nome string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(nome)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func With(args ...any) *slog.Logger {
	return padrao.With(args...)
}

func Debug(msg string, args ...any) { padrao.Debug(msg, args...) }
func Info(msg string, args ...any)  { padrao.Info(msg, args...) }
func Warn(msg string, args ...any)  { padrao.Warn(msg, args...) }
func Error(msg string, args ...any) { padrao.Error(msg, args...) }

func Fatal(msg string, args ...any) {
	padrao.Error(msg, args...)
	os.Exit(1)
}
