// Package fixture builds small, well-formed media samples for tests.
package fixture

import (
	"bytes"
	"encoding/binary"
)

// Box encodes an ISO-BMFF box with a 32-bit size header.
func Box(boxType string, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	out := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(8+len(body))) //nolint:gosec // test sizes are small.
	copy(out[4:8], boxType)
	return append(out, body...)
}

// LargeBox encodes a box using the 64-bit largesize form.
func LargeBox(boxType string, payload []byte) []byte {
	out := make([]byte, 16, 16+len(payload))
	binary.BigEndian.PutUint32(out[0:4], 1)
	copy(out[4:8], boxType)
	binary.BigEndian.PutUint64(out[8:16], uint64(16+len(payload)))
	return append(out, payload...)
}

// Ftyp encodes a file type box.
func Ftyp(major string, compatible ...string) []byte {
	payload := []byte(major)
	payload = append(payload, 0, 0, 0x02, 0) // minor version
	for _, c := range compatible {
		payload = append(payload, c...)
	}
	return Box("ftyp", payload)
}

// MP4 returns a minimal MP4: ftyp(isom), moov with an empty mvhd, mdat.
func MP4() []byte {
	mvhd := Box("mvhd", make([]byte, 100))
	return bytes.Join([][]byte{
		Ftyp("isom", "isom", "iso2", "avc1", "mp41"),
		Box("moov", mvhd),
		Box("mdat", bytes.Repeat([]byte{0x00, 0x00, 0x01, 0x09}, 64)),
	}, nil)
}

// TruncatedMP4 returns an ftyp box whose size field points far past the data.
func TruncatedMP4() []byte {
	out := Ftyp("isom", "mp41")
	binary.BigEndian.PutUint32(out[0:4], 1<<20)
	return out
}

// mp3Frame is an MPEG-1 Layer III frame header: 128 kbit/s, 44.1 kHz, no padding.
//
//nolint:gochecknoglobals // constant frame header.
var mp3Frame = []byte{0xFF, 0xFB, 0x90, 0x00}

// MP3FrameLen is the byte length of the frames produced by MP3.
const MP3FrameLen = 417

// MP3Frames returns n consecutive silent frames.
func MP3Frames(n int) []byte {
	out := make([]byte, 0, n*MP3FrameLen)
	for range n {
		frame := make([]byte, MP3FrameLen)
		copy(frame, mp3Frame)
		out = append(out, frame...)
	}
	return out
}

// ID3v2 returns an ID3v2.3 tag holding a single title frame.
func ID3v2(title string) []byte {
	frame := []byte("TIT2")
	size := make([]byte, 4)
	binary.BigEndian.PutUint32(size, uint32(len(title)+1)) //nolint:gosec // test sizes are small.
	frame = append(frame, size...)
	frame = append(frame, 0, 0, 0) // flags, ISO-8859-1 encoding
	frame = append(frame, title...)

	hdr := []byte{'I', 'D', '3', 3, 0, 0}
	hdr = append(hdr, Synchsafe(len(frame))...)
	return append(hdr, frame...)
}

// ID3v24WithFooter returns an ID3v2.4 tag with the footer flag set and a footer.
func ID3v24WithFooter(body []byte) []byte {
	size := Synchsafe(len(body))
	out := []byte{'I', 'D', '3', 4, 0, 0x10}
	out = append(out, size...)
	out = append(out, body...)
	out = append(out, '3', 'D', 'I', 4, 0, 0x10)
	return append(out, size...)
}

// MP3 returns an ID3v2-tagged MP3 with a few frames.
func MP3() []byte {
	return append(ID3v2("sample"), MP3Frames(4)...)
}

// MP3WithoutID3 returns bare MPEG audio frames.
func MP3WithoutID3() []byte {
	return MP3Frames(4)
}

// PDF returns a minimal single-page PDF document.
func PDF() []byte {
	return []byte("%PDF-1.4\n" +
		"1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj\n" +
		"2 0 obj << /Type /Pages /Kids [3 0 R] /Count 1 >> endobj\n" +
		"3 0 obj << /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >> endobj\n" +
		"trailer << /Root 1 0 R >>\n" +
		"%%EOF\n")
}

// Synchsafe encodes n as a 4-byte synchsafe integer.
func Synchsafe(n int) []byte {
	return []byte{
		byte(n >> 21 & 0x7F),
		byte(n >> 14 & 0x7F),
		byte(n >> 7 & 0x7F),
		byte(n & 0x7F),
	}
}
