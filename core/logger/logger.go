// Package logger configures the process-wide structured logger and exposes
// per-component sub-loggers together with context carriers for request
// correlation metadata.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var (
	initOnce sync.Once

	levelVar slog.LevelVar

	// L is the base logger. It defaults to a text handler on stderr so that
	// packages may log before Init runs (tests, early bootstrap failures).
	L = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &levelVar}))

	// TG logs Telegram transport events.
	TG = L.With("component", "tg")
	// Flow logs conversation state machine activity.
	Flow = L.With("component", "flow")
	// Doc logs document assembly events.
	Doc = L.With("component", "doc")
	// Sess logs session registry activity.
	Sess = L.With("component", "session")
	// Tmp logs temp artifact lifecycle events.
	Tmp = L.With("component", "tmp")
)

// Options control Init.
type Options struct {
	// Level is one of debug, info, warn, error (case-insensitive).
	Level string
	// Format is "text" or "json".
	Format string
	// Debug forces the debug level regardless of Level.
	Debug bool
}

// Init configures the global structured logger. It may be called only once;
// subsequent calls are no-ops.
func Init(opts Options) {
	initOnce.Do(func() {
		levelVar.Set(parseLevel(opts.Level, opts.Debug))

		var handler slog.Handler
		switch strings.ToLower(strings.TrimSpace(opts.Format)) {
		case formatJSON:
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: &levelVar})
		default:
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &levelVar})
		}

		L = slog.New(handler)
		slog.SetDefault(L)
		wireComponents()
	})
}

func wireComponents() {
	TG = L.With("component", "tg")
	Flow = L.With("component", "flow")
	Doc = L.With("component", "doc")
	Sess = L.With("component", "session")
	Tmp = L.With("component", "tmp")
}

// Component returns a sub-logger tagged with the given component name.
func Component(name string) *slog.Logger {
	return L.With("component", name)
}

func parseLevel(level string, debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// LogEvent emits a record through log, enriching attrs with correlation
// metadata found in ctx (rid, update/user/chat identifiers).
func LogEvent(ctx context.Context, log *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if log == nil {
		log = L
	}
	if rid := RIDFrom(ctx); rid != "" {
		attrs = append(attrs, slog.String("rid", rid))
	}
	if userID := UserIDFrom(ctx); userID != 0 {
		attrs = append(attrs, slog.Int64("user_id", userID))
	}
	log.LogAttrs(ctx, level, event, attrs...)
}

// Debug logs an event at debug level under the named component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelDebug, event, attrs...)
}

// Info logs an event at info level under the named component.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelInfo, event, attrs...)
}

// Warn logs an event at warn level under the named component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelWarn, event, attrs...)
}

// Error logs an event at error level under the named component.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelError, event, attrs...)
}
