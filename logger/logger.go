// Package logger provides a structured logging interface for applications.
package logger

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/code19m/errx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rise-and-shine/mediasniff/meta"
)

// Logger defines the standard logging interface used across the module.
type Logger interface {
	Debug(msg any)
	Info(msg any)
	Warn(msg any)
	Error(msg any)
	// Fatal logs a message at fatal level and then calls os.Exit(1).
	Fatal(msg any)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)

	// Warnx logs err at warn level, expanding errx code, type, trace and details.
	Warnx(err error)
	// Errorx logs err at error level, expanding errx code, type, trace and details.
	Errorx(err error)
	// Fatalx logs err at fatal level and then calls os.Exit(1).
	Fatalx(err error)

	// With creates a new logger with the given key-value pairs.
	With(keysAndValues ...any) Logger
	// WithContext adds the metadata found in ctx (trace id, bucket, object key...).
	WithContext(ctx context.Context) Logger
	// Named adds a sub-scope to the logger's name.
	Named(name string) Logger

	// Sync flushes any buffered log entries.
	Sync() error
}

// logger implements the Logger interface using zap's SugaredLogger.
type logger struct {
	*zap.SugaredLogger
}

// New creates a Logger writing to the stream selected by cfg.Output.
func New(cfg Config) (Logger, error) {
	var out io.Writer = os.Stdout
	if cfg.Output == outStderr {
		out = os.Stderr
	}
	return NewWithWriter(cfg, out)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(cfg Config, w io.Writer) (Logger, error) {
	if cfg.Disable {
		return &logger{zap.NewNop().Sugar()}, nil
	}

	level, err := cfg.zapLevel()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	var enc zapcore.Encoder
	switch cfg.Encoding {
	case EncodingJSON:
		enc = zapcore.NewJSONEncoder(encoderConfig())
	case EncodingPretty, "":
		enc = newPrettyEncoder(encoderConfig())
	default:
		return nil, errx.New("unknown log encoding", errx.WithDetails(errx.D{"encoding": cfg.Encoding}))
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return &logger{zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr))).Sugar()}, nil
}

func errorFields(err error) []any {
	var e errx.ErrorX
	if !errors.As(err, &e) {
		return nil
	}
	return []any{
		"error_code", e.Code(),
		"error_type", e.Type().String(),
		"error_trace", e.Trace(),
		"error_fields", e.Fields(),
		"error_details", e.Details(),
	}
}

func (l *logger) Warnx(err error) {
	l.With(errorFields(err)...).Warn(err.Error())
}

func (l *logger) Errorx(err error) {
	l.With(errorFields(err)...).Error(err.Error())
}

func (l *logger) Fatalx(err error) {
	l.With(errorFields(err)...).Fatal(err.Error())
}

func (l *logger) With(keysAndValues ...any) Logger {
	if len(keysAndValues) == 0 {
		return l
	}
	return &logger{
		SugaredLogger: l.SugaredLogger.With(keysAndValues...),
	}
}

func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}

	var withFields []any
	for k, v := range meta.ExtractMetaFromContext(ctx) {
		withFields = append(withFields, string(k), v)
	}
	return l.With(withFields...)
}

func (l *logger) Named(name string) Logger {
	return &logger{
		SugaredLogger: l.SugaredLogger.Named(name),
	}
}

func (l *logger) Debug(msg any) { l.SugaredLogger.Debug(msg) }

func (l *logger) Info(msg any) { l.SugaredLogger.Info(msg) }

func (l *logger) Warn(msg any) { l.SugaredLogger.Warn(msg) }

func (l *logger) Error(msg any) { l.SugaredLogger.Error(msg) }

func (l *logger) Fatal(msg any) { l.SugaredLogger.Fatal(msg) }
