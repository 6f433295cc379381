package boltwr

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCompressesData(t *testing.T) {
	rec := record{
		ContentType:  "application/pdf",
		ETag:         `"etag"`,
		LastModified: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Data:         bytes.Repeat([]byte("a"), 4096),
	}

	raw := rec.encode()
	assert.Less(t, len(raw), len(rec.Data))

	got, err := decodeRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestDecodeRecordRejectsCorruptInput(t *testing.T) {
	valid := record{ContentType: "text/plain", ETag: "e", Data: []byte("x")}.encode()

	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"wrong version", append([]byte{9}, valid[1:]...)},
		{"short header", valid[:5]},
		{"content type past end", valid[:10]},
		{"bad snappy", append(append([]byte{}, valid[:len(valid)-3]...), 0xff, 0xff, 0xff)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeRecord(tt.raw)
			assert.Error(t, err)
		})
	}
}
