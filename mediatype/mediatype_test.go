// Package mediatype_test contains tests for the mediatype package.
package mediatype_test

import (
	"encoding/json"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/mediasniff/mediatype"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected mediatype.MediaType
		wantErr  bool
	}{
		{
			name:     "simple",
			input:    "video/mp4",
			expected: mediatype.VideoMP4,
		},
		{
			name:     "mixed case and spaces",
			input:    "  Audio/MPEG ",
			expected: mediatype.AudioMPEG,
		},
		{
			name:     "parameters dropped",
			input:    "text/plain; charset=utf-8",
			expected: mediatype.TextPlain,
		},
		{
			name:    "missing subtype",
			input:   "video/",
			wantErr: true,
		},
		{
			name:    "missing slash",
			input:   "pdf",
			wantErr: true,
		},
		{
			name:    "too many parts",
			input:   "a/b/c",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := mediatype.Parse(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errx.IsCodeIn(err, mediatype.CodeInvalidMediaType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestEqualIsCaseInsensitive(t *testing.T) {
	assert.True(t, mediatype.New("VIDEO", "Mp4").Equal(mediatype.VideoMP4))
	assert.Equal(t, "video/mp4", mediatype.New("VIDEO", "Mp4").String())
	assert.False(t, mediatype.VideoMP4.Equal(mediatype.AudioMP4))
}

func TestZeroValue(t *testing.T) {
	var mt mediatype.MediaType
	assert.True(t, mt.IsZero())
	assert.Empty(t, mt.String())
	assert.False(t, mediatype.OctetStream.IsZero())
}

func TestTextRoundTrip(t *testing.T) {
	type payload struct {
		Type mediatype.MediaType `json:"type"`
	}

	data, err := json.Marshal(payload{Type: mediatype.ApplicationPDF})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"application/pdf"}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, mediatype.ApplicationPDF, decoded.Type)

	require.Error(t, json.Unmarshal([]byte(`{"type":"nonsense"}`), &decoded))
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { mediatype.MustParse("broken") })
	assert.Equal(t, mediatype.ImagePNG, mediatype.MustParse("image/png"))
}
