package sniff

import (
	"github.com/rise-and-shine/mediasniff/mediatype"
)

const (
	id3HeaderSize   = 10
	id3FooterSize   = 10
	id3FooterFlag   = 0x10
	frameHeaderSize = 4
)

type mpegVersion int

const (
	mpeg25 mpegVersion = iota
	mpegReserved
	mpeg2
	mpeg1
)

type mpegLayer int

const (
	layerReserved mpegLayer = iota
	layer3
	layer2
	layer1
)

// Bitrates in kbit/s indexed by the 4-bit bitrate field.
//
//nolint:gochecknoglobals // read-only lookup tables.
var (
	bitratesV1 = map[mpegLayer][15]int{
		layer1: {0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448},
		layer2: {0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384},
		layer3: {0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320},
	}
	bitratesV2 = map[mpegLayer][15]int{
		layer1: {0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256},
		layer2: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
		layer3: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
	}
	sampleRates = map[mpegVersion][3]int{
		mpeg1:  {44100, 48000, 32000},
		mpeg2:  {22050, 24000, 16000},
		mpeg25: {11025, 12000, 8000},
	}
)

type frameHeader struct {
	version    mpegVersion
	layer      mpegLayer
	bitrate    int // bit/s; 0 means free format
	sampleRate int
	padding    int
}

// parseFrameHeader validates a 4-byte MPEG audio frame header.
func parseFrameHeader(b []byte) (frameHeader, bool) {
	if len(b) < frameHeaderSize || b[0] != 0xFF || b[1]&0xE0 != 0xE0 {
		return frameHeader{}, false
	}

	version := mpegVersion((b[1] >> 3) & 0x03)
	layer := mpegLayer((b[1] >> 1) & 0x03)
	bitrateIdx := int(b[2] >> 4)
	rateIdx := int((b[2] >> 2) & 0x03)

	if version == mpegReserved || layer == layerReserved || bitrateIdx == 0x0F || rateIdx == 3 {
		return frameHeader{}, false
	}

	table := bitratesV2
	if version == mpeg1 {
		table = bitratesV1
	}

	return frameHeader{
		version:    version,
		layer:      layer,
		bitrate:    table[layer][bitrateIdx] * 1000,
		sampleRate: sampleRates[version][rateIdx],
		padding:    int((b[2] >> 1) & 0x01),
	}, true
}

// length returns the frame size in bytes, or 0 for free-format frames.
func (h frameHeader) length() int {
	if h.bitrate == 0 {
		return 0
	}
	switch {
	case h.layer == layer1:
		return (12*h.bitrate/h.sampleRate + h.padding) * 4
	case h.layer == layer3 && h.version != mpeg1:
		return 72*h.bitrate/h.sampleRate + h.padding
	default:
		return 144*h.bitrate/h.sampleRate + h.padding
	}
}

// MPEGAudio confirms MPEG audio streams, skipping a leading ID3v2 tag.
type MPEGAudio struct{}

// Name implements Probe.
func (MPEGAudio) Name() string { return "mpegaudio" }

// CanAttempt reports whether the buffer starts with an ID3 tag or a sync byte.
func (MPEGAudio) CanAttempt(buf *Buffer) bool {
	return buf.HasPrefixAt(0, []byte("ID3")) || buf.HasPrefixAt(0, []byte{0xFF})
}

// Attempt validates the first frame header after the optional ID3v2 tag. When the
// following frame fits in the window it must carry a valid header too. Untagged
// streams need that second header; FF FE (a UTF-16LE byte order mark) also parses
// as a frame header.
func (p MPEGAudio) Attempt(buf *Buffer) Result {
	off, ok := skipID3v2(buf)
	if !ok {
		return NoMatch
	}
	tagged := off > 0

	b, ok := buf.Window(off, frameHeaderSize)
	if !ok {
		return NoMatch
	}
	hdr, ok := parseFrameHeader(b)
	if !ok {
		return NoMatch
	}

	n := hdr.length()
	if n == 0 {
		// Free-format frames cannot be chained.
		if tagged {
			return structural(p.Name(), mediatype.AudioMPEG)
		}
		return NoMatch
	}

	next, ok := buf.Window(off+n, frameHeaderSize)
	switch {
	case !ok && !tagged:
		return NoMatch
	case ok:
		if _, valid := parseFrameHeader(next); !valid {
			return NoMatch
		}
	}

	return structural(p.Name(), mediatype.AudioMPEG)
}

// skipID3v2 returns the offset right after an ID3v2 tag, or 0 when there is none.
// It reports false for a tag with a corrupt header.
func skipID3v2(buf *Buffer) (int, bool) {
	if !buf.HasPrefixAt(0, []byte("ID3")) {
		return 0, true
	}

	hdr, ok := buf.Window(0, id3HeaderSize)
	if !ok || hdr[3] == 0xFF || hdr[4] == 0xFF {
		return 0, false
	}

	size, ok := synchsafe(hdr[6:10])
	if !ok {
		return 0, false
	}

	off := id3HeaderSize + size
	if hdr[5]&id3FooterFlag != 0 {
		off += id3FooterSize
	}
	return off, true
}

// synchsafe decodes a 28-bit integer stored 7 bits per byte.
func synchsafe(b []byte) (int, bool) {
	n := 0
	for _, c := range b {
		if c&0x80 != 0 {
			return 0, false
		}
		n = n<<7 | int(c)
	}
	return n, true
}
