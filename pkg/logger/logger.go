package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	multi "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)

	logFilename = "logs/streamhub.log"
)

type Logger interface {
	SetLogLevel(levelStr string)
	GetLogLevel() string

	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)
	Fatal(msg string, err error, args ...any)
}

var levelByName = map[string]slog.Level{
	"trace": LevelTrace,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
	"fatal": LevelFatal,
}

var nameByLevel = map[slog.Level]string{
	LevelTrace:      "trace",
	slog.LevelDebug: "debug",
	slog.LevelInfo:  "info",
	slog.LevelWarn:  "warn",
	slog.LevelError: "error",
	LevelFatal:      "fatal",
}

// SlogLogger writes each record twice: human-readable text on stdout and
// rotated JSON under logs/ for later inspection.
type SlogLogger struct {
	log   *slog.Logger
	level *slog.LevelVar
}

func New() *SlogLogger {
	l := &SlogLogger{level: &slog.LevelVar{}}
	l.level.Set(slog.LevelInfo)

	opts := &slog.HandlerOptions{
		AddSource:   true,
		Level:       l.level,
		ReplaceAttr: replaceAttr,
	}

	rotated := &lumberjack.Logger{
		Filename:   logFilename,
		MaxSize:    64,
		MaxBackups: 32,
		MaxAge:     30,
		Compress:   true,
	}

	l.log = slog.New(multi.Fanout(
		slog.NewTextHandler(os.Stdout, opts),
		slog.NewJSONHandler(rotated, opts),
	))
	return l
}

// replaceAttr renders the custom levels by name and points the source attr
// at the first caller outside this package.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok {
			if name, ok := nameByLevel[level]; ok {
				a.Value = slog.StringValue(strings.ToUpper(name))
			} else {
				a.Value = slog.StringValue(level.String())
			}
		}
	case slog.SourceKey:
		a.Value = slog.StringValue(callerOutsideLogger(10))
	}
	return a
}

func (l *SlogLogger) SetLogLevel(levelStr string) {
	if level, ok := levelByName[levelStr]; ok {
		l.level.Set(level)
		return
	}
	l.level.Set(slog.LevelInfo)
}

func (l *SlogLogger) GetLogLevel() string {
	if name, ok := nameByLevel[l.level.Level()]; ok {
		return name
	}
	return "info"
}

func (l *SlogLogger) Trace(msg string, args ...any) {
	l.log.Log(context.Background(), LevelTrace, msg, args...)
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}

func (l *SlogLogger) Error(msg string, err error, args ...any) {
	l.log.Error(msg, withError(err, args)...)
}

func (l *SlogLogger) Fatal(msg string, err error, args ...any) {
	l.log.Log(context.Background(), LevelFatal, msg, withError(err, args)...)
	os.Exit(1)
}

func withError(err error, args []any) []any {
	if err == nil {
		return args
	}
	return append([]any{slog.String("error", err.Error())}, args...)
}

func callerOutsideLogger(skip int) string {
	for i := skip; ; i++ {
		_, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if !strings.Contains(file, "logger") {
			return fmt.Sprintf("%s:%d", file, line)
		}
	}
	return "unknown"
}
