package sniff

import (
	"encoding/binary"

	"github.com/rise-and-shine/mediasniff/mediatype"
)

const (
	boxHeaderSize      = 8
	largeBoxHeaderSize = 16
	// ftyp payload starts with major brand (4) and minor version (4).
	ftypMinPayload = 8
)

// brandTypes maps ISO-BMFF brands to the media type of the family they belong to.
//
//nolint:gochecknoglobals // read-only lookup.
var brandTypes = buildBrandTypes(map[mediatype.MediaType][]string{
	mediatype.VideoMP4: {
		"avc1", "dash", "iso2", "iso3", "iso4", "iso5", "iso6", "isom", "mmp4",
		"mp41", "mp42", "mp4v", "mp71", "MSNV", "NDAS", "NDSC", "NSDC", "NSDH",
		"NDSM", "NDSP", "NDSS", "NDXC", "NDXH", "NDXM", "NDXP", "NDXS", "F4V ", "F4P ",
		"M4V ", "M4VH", "M4VP",
	},
	mediatype.AudioMP4: {"M4A ", "M4B ", "M4P ", "F4A ", "F4B "},
	mediatype.Video3GPP: {
		"3gp1", "3gp2", "3gp3", "3gp4", "3gp5", "3gp6", "3gp7", "3gs7", "3ge6", "3ge7", "3gg6",
	},
	mediatype.Video3GPP2:     {"3g24", "3g25", "3g26", "3g2a", "3g2b", "3g2c", "KDDI"},
	mediatype.VideoQuickTime: {"qt  "},
})

func buildBrandTypes(families map[mediatype.MediaType][]string) map[string]mediatype.MediaType {
	out := make(map[string]mediatype.MediaType)
	for mt, brands := range families {
		for _, b := range brands {
			out[b] = mt
		}
	}
	return out
}

// ISOBMFF confirms MP4-family files by walking top-level boxes.
type ISOBMFF struct{}

// Name implements Probe.
func (ISOBMFF) Name() string { return "isobmff" }

// CanAttempt reports whether the buffer starts with something shaped like a box header.
func (ISOBMFF) CanAttempt(buf *Buffer) bool {
	hdr, ok := buf.Window(0, boxHeaderSize)
	return ok && isBoxType(hdr[4:8])
}

// Attempt walks boxes until ftyp, moov or mdat is found. Every box, including the
// recognised ones, must declare a size that fits the window. Any malformed or
// out-of-window box ends the walk with NoMatch.
func (p ISOBMFF) Attempt(buf *Buffer) Result {
	off := 0
	for {
		hdr, ok := buf.Window(off, boxHeaderSize)
		if !ok {
			return NoMatch
		}

		boxType := string(hdr[4:8])
		if !isBoxType(hdr[4:8]) {
			return NoMatch
		}

		size := uint64(binary.BigEndian.Uint32(hdr[0:4]))
		headerLen := uint64(boxHeaderSize)
		if size == 1 {
			ext, ok := buf.Window(off+boxHeaderSize, 8)
			if !ok {
				return NoMatch
			}
			size = binary.BigEndian.Uint64(ext)
			headerLen = largeBoxHeaderSize
		}
		// Size 0 ("to end of file") cannot be checked against the window.
		if size < headerLen || size > uint64(buf.Len()-off) {
			return NoMatch
		}

		switch boxType {
		case "ftyp":
			return p.fromFtyp(buf, off, int(headerLen), size)
		case "moov", "mdat":
			return structural(p.Name(), mediatype.VideoMP4)
		}

		off += int(size)
	}
}

func (p ISOBMFF) fromFtyp(buf *Buffer, off, headerLen int, size uint64) Result {
	if size < uint64(headerLen+ftypMinPayload) {
		return NoMatch
	}

	box, _ := buf.Window(off, int(size))
	payload := box[headerLen:]

	if mt, ok := brandTypes[string(payload[0:4])]; ok {
		return structural(p.Name(), mt)
	}

	for i := ftypMinPayload; i+4 <= len(payload); i += 4 {
		if mt, ok := brandTypes[string(payload[i:i+4])]; ok && mt.Equal(mediatype.VideoMP4) {
			return structural(p.Name(), mt)
		}
	}
	return NoMatch
}

// isBoxType accepts four printable ASCII bytes.
func isBoxType(b []byte) bool {
	if len(b) != 4 {
		return false
	}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
