// Package logging wraps zap with a key/value API. Entries logged with a
// context pick up the active trace ids and any fields attached with
// ContextWith.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
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

// ParseLevel maps "debug", "info", "warn" and "error" to a level. Empty means info.
func ParseLevel(raw string) (Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return LevelInfo, nil
	}
	if normalized == "warning" {
		normalized = "warn"
	}
	level, err := zapcore.ParseLevel(normalized)
	if err != nil || level < LevelDebug || level > LevelError {
		return LevelInfo, fmt.Errorf("unsupported log level %q", raw)
	}
	return level, nil
}

// Format selects the line encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatConsole:
		return FormatConsole, nil
	default:
		return FormatJSON, fmt.Errorf("unsupported log format %q", raw)
	}
}

type Logger struct {
	zap    *zap.Logger
	synced *atomic.Bool
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewNop())
}

// New writes entries at or above level to w, stdout when w is nil.
func New(w io.Writer, level Level, format Format) *Logger {
	if w == nil {
		w = os.Stdout
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	var enc zapcore.Encoder
	if format == FormatConsole {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return FromZap(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(LevelError)))
}

// NewJSON logs JSON lines to stdout.
func NewJSON(level Level) *Logger {
	return New(os.Stdout, level, FormatJSON)
}

func NewJSONWriter(w io.Writer, level Level) *Logger {
	return New(w, level, FormatJSON)
}

func NewNop() *Logger {
	return FromZap(zap.NewNop())
}

func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{zap: z, synced: new(atomic.Bool)}
}

func Default() *Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	return NewNop()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	defaultLogger.Store(logger)
}

// Sync flushes buffered entries once; later calls on the logger or any
// logger derived from it are no-ops.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	if l.synced.CompareAndSwap(false, true) {
		return l.zap.Sync()
	}
	return nil
}

func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return NewNop()
	}
	return &Logger{zap: l.zap.With(toFields(args)...), synced: l.synced}
}

// Named tags every entry with the component that produced it.
func (l *Logger) Named(component string) *Logger {
	return l.With("component", component)
}

func (l *Logger) Enabled(level Level) bool {
	return l.core().Enabled(level)
}

func (l *Logger) Debug(msg string, args ...any) { l.write(nil, LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.write(nil, LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(nil, LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.write(nil, LevelError, msg, args) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelDebug, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelInfo, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelWarn, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelError, msg, args)
}

func (l *Logger) core() zapcore.Core {
	if l == nil || l.zap == nil {
		return Default().zap.Core()
	}
	return l.zap.Core()
}

func (l *Logger) write(ctx context.Context, level Level, msg string, args []any) {
	z := Default().zap
	if l != nil && l.zap != nil {
		z = l.zap
	}

	ce := z.Check(level, msg)
	if ce == nil {
		return
	}

	fields := toFields(args)
	if ctx != nil {
		fields = append(fields, contextFields(ctx)...)
	}
	ce.Write(fields...)
}

type ctxFieldsKey struct{}

// ContextWith returns a context whose *Context log calls include args.
func ContextWith(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	existing, _ := ctx.Value(ctxFieldsKey{}).([]zap.Field)
	merged := make([]zap.Field, 0, len(existing)+len(args)/2+1)
	merged = append(merged, existing...)
	merged = append(merged, toFields(args)...)
	return context.WithValue(ctx, ctxFieldsKey{}, merged)
}

func contextFields(ctx context.Context) []zap.Field {
	fields, _ := ctx.Value(ctxFieldsKey{}).([]zap.Field)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields[:len(fields):len(fields)],
			zap.Stringer("trace_id", sc.TraceID()),
			zap.Stringer("span_id", sc.SpanID()),
		)
	}
	return fields
}

// toFields pairs up alternating keys and values. A zap.Field passes through
// as is; a key without a value is logged as "!BADKEY".
func toFields(args []any) []zap.Field {
	fields := make([]zap.Field, 0, len(args)/2+1)
	for len(args) > 0 {
		if f, ok := args[0].(zap.Field); ok {
			fields = append(fields, f)
			args = args[1:]
			continue
		}

		key, ok := args[0].(string)
		if !ok || key == "" || len(args) == 1 {
			fields = append(fields, zap.Any("!BADKEY", args[0]))
			args = args[1:]
			continue
		}

		switch v := args[1].(type) {
		case error:
			fields = append(fields, zap.NamedError(key, v))
		default:
			fields = append(fields, zap.Any(key, v))
		}
		args = args[2:]
	}
	return fields
}
