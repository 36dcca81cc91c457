// Package logging writes league service logs as JSON lines through zap.
//
// Fields are passed as alternating key/value args. The *Context variants add
// trace_id and span_id when the context carries a span, so a rejected result
// or a failed replication push can be found from its trace.
package logging

import (
	"context"
	"io"
	"os"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// Field keys shared by every binary.
const (
	KeyService   = "service"
	KeyEnv       = "env"
	KeySeason    = "season"
	KeyComponent = "component"
	KeyTraceID   = "trace_id"
	KeySpanID    = "span_id"
)

type Logger struct {
	core   *zap.Logger
	synced atomic.Bool
}

var process atomic.Pointer[Logger]

func init() {
	process.Store(NewNop())
}

// Options configures a logger. A nil Output writes to stdout. Empty Service,
// Env and Season are left out of every line.
type Options struct {
	Level   Level
	Output  io.Writer
	Service string
	Env     string
	Season  string
}

func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(lineEncoding()),
		zapcore.Lock(zapcore.AddSync(out)),
		opts.Level,
	)
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(zapcore.ErrorLevel))

	var base []zap.Field
	for _, kv := range [][2]string{
		{KeyService, opts.Service},
		{KeyEnv, opts.Env},
		{KeySeason, opts.Season},
	} {
		if kv[1] != "" {
			base = append(base, zap.String(kv[0], kv[1]))
		}
	}
	return &Logger{core: z.With(base...)}
}

func lineEncoding() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func NewNop() *Logger {
	return &Logger{core: zap.NewNop()}
}

// Default returns the process logger set by SetDefault, or a no-op logger.
func Default() *Logger {
	if logger := process.Load(); logger != nil {
		return logger
	}
	return NewNop()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	process.Store(logger)
}

// Sync flushes buffered lines once; later calls are no-ops.
func (l *Logger) Sync() error {
	if l == nil || l.core == nil {
		return nil
	}
	if !l.synced.CompareAndSwap(false, true) {
		return nil
	}
	return l.core.Sync()
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{core: l.zapLogger().With(fields(args)...)}
}

// Component tags every line with the subsystem that wrote it, for example
// "replication" or "standings".
func (l *Logger) Component(name string) *Logger {
	return l.With(KeyComponent, name)
}

func (l *Logger) Debug(msg string, args ...any) { l.write(nil, zap.DebugLevel, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.write(nil, zap.InfoLevel, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(nil, zap.WarnLevel, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.write(nil, zap.ErrorLevel, msg, args) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zap.DebugLevel, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zap.InfoLevel, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zap.WarnLevel, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zap.ErrorLevel, msg, args)
}

func (l *Logger) zapLogger() *zap.Logger {
	if l == nil || l.core == nil {
		return Default().core
	}
	return l.core
}

func (l *Logger) write(ctx context.Context, level zapcore.Level, msg string, args []any) {
	entry := l.zapLogger().Check(level, msg)
	if entry == nil {
		return
	}
	out := fields(args)
	if ctx != nil {
		out = append(out, spanFields(ctx)...)
	}
	entry.Write(out...)
}

func spanFields(ctx context.Context) []zap.Field {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String(KeyTraceID, sc.TraceID().String()),
		zap.String(KeySpanID, sc.SpanID().String()),
	}
}

// fields pairs args into zap fields. A non-string key becomes "arg" and a
// trailing key without a value is logged as null.
func fields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, (len(args)+1)/2+2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg"
		}
		if i+1 == len(args) {
			out = append(out, zap.Any(key, nil))
			break
		}
		switch v := args[i+1].(type) {
		case error:
			out = append(out, zap.NamedError(key, v))
		case []string:
			out = append(out, zap.Strings(key, v))
		default:
			out = append(out, zap.Any(key, v))
		}
	}
	return out
}
