package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/mediasniff/logger"
	"github.com/rise-and-shine/mediasniff/meta"
)

func newJSON(t *testing.T, level string) (logger.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	l, err := logger.NewWithWriter(logger.Config{Level: level, Encoding: logger.EncodingJSON}, &buf)
	require.NoError(t, err)
	return l, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestJSONLogger_Fields(t *testing.T) {
	l, buf := newJSON(t, "debug")

	l.Named("identify").With("bytes_read", 412).Info("resolved")

	entry := decodeLine(t, buf)
	assert.Equal(t, "resolved", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "identify", entry["logger"])
	assert.InDelta(t, 412, entry["bytes_read"], 0)
}

func TestJSONLogger_Level(t *testing.T) {
	l, buf := newJSON(t, "warn")

	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestLogger_WithContext(t *testing.T) {
	l, buf := newJSON(t, "info")

	ctx := meta.WithObject(t.Context(), "bucket-name", "key")
	l.WithContext(ctx).Info("fetching")

	entry := decodeLine(t, buf)
	assert.Equal(t, "bucket-name", entry[string(meta.Bucket)])
	assert.Equal(t, "key", entry[string(meta.ObjectKey)])
}

func TestLogger_Errorx(t *testing.T) {
	l, buf := newJSON(t, "info")

	l.Errorx(errx.New("storage get failed", errx.WithCode("STORAGE_IO_FAILURE")))

	entry := decodeLine(t, buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "STORAGE_IO_FAILURE", entry["error_code"])

	buf.Reset()
	l.Warnx(errors.New("plain"))
	entry = decodeLine(t, buf)
	assert.Equal(t, "plain", entry["msg"])
	assert.NotContains(t, entry, "error_code")
}

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.NewWithWriter(logger.Config{Level: "debug", Encoding: logger.EncodingPretty}, &buf)
	require.NoError(t, err)

	l.Named("filestore.minio").With("bucket", "media", "size", 3).Info("bucket created")

	out := buf.String()
	assert.Contains(t, out, "bucket created")
	assert.Contains(t, out, "filestore.minio")
	assert.Contains(t, out, "bucket")
	assert.Contains(t, out, "media")
	assert.NotContains(t, out, `"msg"`)
}

func TestLogger_Disable(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.NewWithWriter(logger.Config{Disable: true}, &buf)
	require.NoError(t, err)

	l.Error("nothing")
	assert.Zero(t, buf.Len())
}

func TestLogger_InvalidConfig(t *testing.T) {
	_, err := logger.NewWithWriter(logger.Config{Level: "loud", Encoding: logger.EncodingJSON}, &bytes.Buffer{})
	require.Error(t, err)

	_, err = logger.NewWithWriter(logger.Config{Level: "info", Encoding: "xml"}, &bytes.Buffer{})
	require.Error(t, err)
}
