package logger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // static palette shared by all encoder clones.
var (
	levelColors = map[zapcore.Level]*color.Color{
		zapcore.DebugLevel:  color.New(color.FgHiBlue, color.Bold),
		zapcore.InfoLevel:   color.New(color.FgGreen, color.Bold),
		zapcore.WarnLevel:   color.New(color.FgYellow, color.Bold),
		zapcore.ErrorLevel:  color.New(color.FgRed, color.Bold),
		zapcore.DPanicLevel: color.New(color.FgHiRed, color.Bold),
		zapcore.PanicLevel:  color.New(color.FgHiRed, color.Bold),
		zapcore.FatalLevel:  color.New(color.FgMagenta, color.Bold),
	}
	timeColor  = color.New(color.Faint)
	nameColor  = color.New(color.FgCyan)
	fieldColor = color.New(color.FgHiCyan)
	valueColor = color.New(color.Faint)

	bufferPool = buffer.NewPool()
)

// prettyEncoder renders entries as a colored header line followed by one indented
// line per field, in the order the fields were added.
type prettyEncoder struct {
	zapcore.Encoder
}

func newPrettyEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return &prettyEncoder{Encoder: zapcore.NewJSONEncoder(cfg)}
}

// Clone keeps derived loggers on the pretty encoder.
func (e *prettyEncoder) Clone() zapcore.Encoder {
	return &prettyEncoder{Encoder: e.Encoder.Clone()}
}

// EncodeEntry encodes through the embedded JSON encoder, then reformats the
// resulting object. Entries that do not decode are written as raw JSON.
func (e *prettyEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	raw, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer raw.Free()

	out := bufferPool.Get()

	payload := orderedmap.New[string, any]()
	if err = json.Unmarshal(raw.Bytes(), payload); err != nil {
		_, _ = out.Write(raw.Bytes())
		return out, nil
	}

	out.AppendString(header(entry))
	for pair := payload.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case timeKey, levelKey, messageKey, nameKey:
			continue
		}
		out.AppendString("    ")
		out.AppendString(fieldColor.Sprint(pair.Key))
		out.AppendString(" = ")
		out.AppendString(valueColor.Sprint(renderValue(pair.Value)))
		out.AppendByte('\n')
	}
	return out, nil
}

func header(entry zapcore.Entry) string {
	ts := entry.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	lvl := fmt.Sprintf("%-5s", strings.ToUpper(entry.Level.String()))
	if c, ok := levelColors[entry.Level]; ok {
		lvl = c.Sprint(lvl)
	}

	var b strings.Builder
	b.WriteString(timeColor.Sprint(ts.Format(time.DateTime)))
	b.WriteByte(' ')
	b.WriteString(lvl)
	if entry.LoggerName != "" {
		b.WriteByte(' ')
		b.WriteString(nameColor.Sprint(entry.LoggerName))
	}
	b.WriteByte(' ')
	b.WriteString(entry.Message)
	b.WriteByte('\n')
	return b.String()
}

// renderValue prints scalars as is and nested values as indented JSON.
func renderValue(v any) string {
	switch tv := v.(type) {
	case string:
		return tv
	case map[string]any, []any:
		data, err := json.MarshalIndent(tv, "    ", "  ")
		if err != nil {
			return fmt.Sprint(tv)
		}
		return string(data)
	default:
		return fmt.Sprint(tv)
	}
}
