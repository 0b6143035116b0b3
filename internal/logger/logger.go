package logger

import (
	"context"
	"log/slog"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZapLogger builds the production zap logger used as the sink for slog.
func NewZapLogger(level slog.Level) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(ZapLevel(level))
	config.EncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	return config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

// New returns a slog.Logger whose records are encoded by zap.
func New(level slog.Level, attrs ...slog.Attr) (*slog.Logger, func() error, error) {
	zl, err := NewZapLogger(level)
	if err != nil {
		return nil, nil, err
	}
	handler := NewHandler(zl.Core(), true).WithAttrs(attrs)
	return slog.New(handler), zl.Sync, nil
}

// Handler is a slog.Handler writing to a zapcore.Core.
type Handler struct {
	core      zapcore.Core
	addSource bool
	groups    []string
}

var _ slog.Handler = (*Handler)(nil)

func NewHandler(core zapcore.Core, addSource bool) *Handler {
	return &Handler{core: core, addSource: addSource}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.core.Enabled(ZapLevel(level))
}

func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	entry := zapcore.Entry{
		Level:   ZapLevel(record.Level),
		Time:    record.Time,
		Message: record.Message,
	}
	if h.addSource && record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		frame, _ := frames.Next()
		entry.Caller = zapcore.NewEntryCaller(frame.PC, frame.File, frame.Line, true)
	}

	checked := h.core.Check(entry, nil)
	if checked == nil {
		return nil
	}

	fields := make([]zapcore.Field, 0, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		if field, ok := h.field(attr); ok {
			fields = append(fields, field)
		}
		return true
	})
	checked.Write(fields...)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	fields := make([]zapcore.Field, 0, len(attrs))
	for _, attr := range attrs {
		if field, ok := h.field(attr); ok {
			fields = append(fields, field)
		}
	}
	return &Handler{
		core:      h.core.With(fields),
		addSource: h.addSource,
		groups:    h.groups,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := make([]string, len(h.groups), len(h.groups)+1)
	copy(groups, h.groups)
	return &Handler{
		core:      h.core,
		addSource: h.addSource,
		groups:    append(groups, name),
	}
}

func (h *Handler) field(attr slog.Attr) (zapcore.Field, bool) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return zapcore.Field{}, false
	}

	key := attr.Key
	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}

	switch attr.Value.Kind() {
	case slog.KindString:
		return zap.String(key, attr.Value.String()), true
	case slog.KindInt64:
		return zap.Int64(key, attr.Value.Int64()), true
	case slog.KindUint64:
		return zap.Uint64(key, attr.Value.Uint64()), true
	case slog.KindFloat64:
		return zap.Float64(key, attr.Value.Float64()), true
	case slog.KindBool:
		return zap.Bool(key, attr.Value.Bool()), true
	case slog.KindDuration:
		return zap.Duration(key, attr.Value.Duration()), true
	case slog.KindTime:
		return zap.Time(key, attr.Value.Time()), true
	case slog.KindGroup:
		return zap.Any(key, groupValue(attr.Value.Group())), true
	default:
		if err, ok := attr.Value.Any().(error); ok {
			return zap.NamedError(key, err), true
		}
		return zap.Any(key, attr.Value.Any()), true
	}
}

func groupValue(attrs []slog.Attr) map[string]any {
	result := make(map[string]any, len(attrs))
	for _, attr := range attrs {
		value := attr.Value.Resolve()
		if value.Kind() == slog.KindGroup {
			result[attr.Key] = groupValue(value.Group())
			continue
		}
		if err, ok := value.Any().(error); ok {
			result[attr.Key] = err.Error()
			continue
		}
		result[attr.Key] = value.Any()
	}
	return result
}

// ZapLevel maps a slog level onto the closest zap level.
func ZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
