package sniff_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rise-and-shine/mediasniff/internal/fixture"
	"github.com/rise-and-shine/mediasniff/mediatype"
	"github.com/rise-and-shine/mediasniff/sniff"
)

func TestISOBMFF_Attempt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want mediatype.MediaType // zero means NoMatch
	}{
		{
			name: "ftyp isom",
			data: fixture.MP4(),
			want: mediatype.VideoMP4,
		},
		{
			name: "unknown major, mp4 compatible brand",
			data: fixture.Ftyp("abcd", "xyz1", "mp42"),
			want: mediatype.VideoMP4,
		},
		{
			name: "unknown brands only",
			data: fixture.Ftyp("abcd", "xyz1"),
		},
		{
			name: "m4a audio",
			data: fixture.Ftyp("M4A ", "M4A ", "mp42", "isom"),
			want: mediatype.AudioMP4,
		},
		{
			name: "3gpp",
			data: fixture.Ftyp("3gp4", "isom"),
			want: mediatype.Video3GPP,
		},
		{
			name: "quicktime",
			data: fixture.Ftyp("qt  ", "qt  "),
			want: mediatype.VideoQuickTime,
		},
		{
			name: "free box before ftyp",
			data: append(fixture.Box("free", make([]byte, 16)), fixture.Ftyp("mp41")...),
			want: mediatype.VideoMP4,
		},
		{
			name: "largesize box before moov",
			data: append(fixture.LargeBox("wide", make([]byte, 8)), fixture.Box("moov")...),
			want: mediatype.VideoMP4,
		},
		{
			name: "largesize ftyp",
			data: fixture.LargeBox("ftyp", []byte("isom\x00\x00\x00\x00")),
			want: mediatype.VideoMP4,
		},
		{
			name: "moov first",
			data: fixture.Box("moov", fixture.Box("mvhd", make([]byte, 12))),
			want: mediatype.VideoMP4,
		},
		{
			name: "mdat inside window",
			data: append(fixture.Box("free"), fixture.Box("mdat", make([]byte, 32))...),
			want: mediatype.VideoMP4,
		},
		{
			name: "size zero mdat",
			data: append(fixture.Box("free"), 0, 0, 0, 0, 'm', 'd', 'a', 't', 1, 2, 3),
		},
		{
			name: "moov past window",
			data: oversizedBox("moov", 0xFFFFFFF0, 64),
		},
		{
			name: "mdat past window",
			data: oversizedBox("mdat", 0xFFFFFFF0, 64),
		},
		{
			name: "largesize mdat past window",
			data: append(fixture.LargeBox("mdat", make([]byte, 8))[:8],
				0, 0, 0, 0, 0, 0, 0x10, 0, 1, 2, 3, 4),
		},
		{
			name: "text mentioning moov",
			data: []byte("abcdmoov is just text"),
		},
		{
			name: "size zero non-mdat",
			data: []byte{0, 0, 0, 0, 'f', 'r', 'e', 'e', 1, 2, 3},
		},
		{
			name: "truncated ftyp",
			data: fixture.TruncatedMP4(),
		},
		{
			name: "size smaller than header",
			data: []byte{0, 0, 0, 4, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'},
		},
		{
			name: "ftyp without major brand",
			data: fixture.Box("ftyp", []byte("isom")),
		},
		{
			name: "box past window",
			data: func() []byte {
				b := fixture.Box("free", make([]byte, 32))
				binary.BigEndian.PutUint32(b, 4096)
				return b
			}(),
		},
		{
			name: "non printable type",
			data: []byte{0, 0, 0, 16, 0x01, 0x02, 0x03, 0x04, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "pdf",
			data: fixture.PDF(),
		},
		{
			name: "header only",
			data: fixture.Box("free"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sniff.ISOBMFF{}.Attempt(sniff.NewBuffer(tt.data, 0))
			if tt.want.IsZero() {
				assert.False(t, got.Matched(), "got %s", got.Type)
				return
			}
			assert.True(t, got.Matched())
			assert.True(t, tt.want.Equal(got.Type), "got %s", got.Type)
			assert.Equal(t, sniff.ConfidenceStructural, got.Confidence)
			assert.Equal(t, "isobmff", got.Probe)
		})
	}
}

// oversizedBox returns a box header declaring size followed by n zero bytes.
func oversizedBox(boxType string, size uint32, n int) []byte {
	b := make([]byte, 8+n)
	binary.BigEndian.PutUint32(b, size)
	copy(b[4:8], boxType)
	return b
}

func TestISOBMFF_BoundedWindow(t *testing.T) {
	// ftyp sits after a free box that fills the whole window.
	data := append(fixture.Box("free", bytes.Repeat([]byte{0}, 120)), fixture.Ftyp("isom")...)

	assert.True(t, sniff.ISOBMFF{}.Attempt(sniff.NewBuffer(data, 0)).Matched())
	assert.False(t, sniff.ISOBMFF{}.Attempt(sniff.NewBuffer(data, 128)).Matched())
}

func TestISOBMFF_CanAttempt(t *testing.T) {
	p := sniff.ISOBMFF{}

	assert.True(t, p.CanAttempt(sniff.NewBuffer(fixture.MP4(), 0)))
	assert.False(t, p.CanAttempt(sniff.NewBuffer(fixture.MP3(), 0)))
	assert.False(t, p.CanAttempt(sniff.NewBuffer([]byte{0, 0, 0}, 0)))
}
