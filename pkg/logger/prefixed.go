package logger

import "log/slog"

// PrefixedLogger tags every record with a component attribute so lines from
// the twitch and trovo adapters are distinguishable in the shared log.
type PrefixedLogger struct {
	inner     Logger
	component slog.Attr
}

func NewPrefixedLogger(inner Logger, component string) *PrefixedLogger {
	return &PrefixedLogger{
		inner:     inner,
		component: slog.String("component", component),
	}
}

func (p *PrefixedLogger) tagged(args []any) []any {
	return append([]any{p.component}, args...)
}

func (p *PrefixedLogger) SetLogLevel(levelStr string) {
	p.inner.SetLogLevel(levelStr)
}

func (p *PrefixedLogger) GetLogLevel() string {
	return p.inner.GetLogLevel()
}

func (p *PrefixedLogger) Trace(msg string, args ...any) {
	p.inner.Trace(msg, p.tagged(args)...)
}

func (p *PrefixedLogger) Debug(msg string, args ...any) {
	p.inner.Debug(msg, p.tagged(args)...)
}

func (p *PrefixedLogger) Info(msg string, args ...any) {
	p.inner.Info(msg, p.tagged(args)...)
}

func (p *PrefixedLogger) Warn(msg string, args ...any) {
	p.inner.Warn(msg, p.tagged(args)...)
}

func (p *PrefixedLogger) Error(msg string, err error, args ...any) {
	p.inner.Error(msg, err, p.tagged(args)...)
}

func (p *PrefixedLogger) Fatal(msg string, err error, args ...any) {
	p.inner.Fatal(msg, err, p.tagged(args)...)
}
