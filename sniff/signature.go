package sniff

import (
	"sort"

	"github.com/samber/lo"

	"github.com/rise-and-shine/mediasniff/mediatype"
)

// MatchKind selects how a signature pattern is compared with the buffer.
type MatchKind int

const (
	// MatchExact compares every byte of the pattern.
	MatchExact MatchKind = iota
	// MatchMasked compares pattern&mask with data&mask byte by byte.
	MatchMasked
)

// Signature maps a byte pattern at a fixed offset to a media type.
// Lower Priority values win when several signatures match the same prefix.
type Signature struct {
	Offset   int
	Pattern  []byte
	Mask     []byte
	Kind     MatchKind
	Type     mediatype.MediaType
	Priority int
}

// Candidate is a media type proposed by the table for a given prefix.
type Candidate struct {
	Type     mediatype.MediaType
	Priority int
}

func (s Signature) matches(buf *Buffer) bool {
	if s.Kind == MatchExact {
		return buf.HasPrefixAt(s.Offset, s.Pattern)
	}

	w, ok := buf.Window(s.Offset, len(s.Pattern))
	if !ok || len(s.Mask) != len(s.Pattern) {
		return false
	}
	for i, p := range s.Pattern {
		if w[i]&s.Mask[i] != p&s.Mask[i] {
			return false
		}
	}
	return true
}

// Table is an immutable, priority-ordered set of signatures.
// A Table is safe for concurrent use once built.
type Table struct {
	sigs []Signature
}

// NewTable copies sigs and orders them by priority. Signatures sharing a priority
// keep their declaration order.
func NewTable(sigs ...Signature) *Table {
	ordered := make([]Signature, len(sigs))
	copy(ordered, sigs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return &Table{sigs: ordered}
}

// Lookup returns the media types whose signatures match buf, best first.
// Scanning stops at the first exact match; masked signatures ranked ahead of it have
// already been considered by then. Each media type appears once, with its best priority.
// An empty result means no signature matched.
func (t *Table) Lookup(buf *Buffer) []Candidate {
	var found []Candidate
	for _, sig := range t.sigs {
		if !sig.matches(buf) {
			continue
		}
		found = append(found, Candidate{Type: sig.Type, Priority: sig.Priority})
		if sig.Kind == MatchExact {
			break
		}
	}

	return lo.UniqBy(found, func(c Candidate) mediatype.MediaType { return c.Type })
}

// Best returns the highest-ranked candidate for buf.
func (t *Table) Best(buf *Buffer) (Candidate, bool) {
	found := t.Lookup(buf)
	if len(found) == 0 {
		return Candidate{}, false
	}
	return found[0], true
}

func exact(offset int, pattern string, mt mediatype.MediaType, priority int) Signature {
	return Signature{Offset: offset, Pattern: []byte(pattern), Kind: MatchExact, Type: mt, Priority: priority}
}

func masked(offset int, pattern, mask []byte, mt mediatype.MediaType, priority int) Signature {
	return Signature{Offset: offset, Pattern: pattern, Mask: mask, Kind: MatchMasked, Type: mt, Priority: priority}
}

// frameSync matches FF followed by the given version and layer bits.
func frameSync(second byte) Signature {
	return masked(0, []byte{0xFF, second}, []byte{0xFF, 0xFE}, mediatype.AudioMPEG, 2)
}

// riffMask selects the "RIFF" tag and the form type, skipping the chunk size.
//
//nolint:gochecknoglobals // static mask shared by RIFF signatures.
var riffMask = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF}

// DefaultSignatures returns the built-in signature set.
func DefaultSignatures() []Signature {
	return []Signature{
		// Priority 0: unambiguous magic bytes at offset 0.
		exact(0, "%PDF-", mediatype.ApplicationPDF, 0),
		exact(0, "ID3", mediatype.AudioMPEG, 0),
		exact(0, "\x89PNG\r\n\x1a\n", mediatype.ImagePNG, 0),
		exact(0, "GIF87a", mediatype.ImageGIF, 0),
		exact(0, "GIF89a", mediatype.ImageGIF, 0),
		exact(0, "\xff\xd8\xff", mediatype.ImageJPEG, 0),
		exact(0, "OggS", mediatype.AudioOGG, 0),
		exact(0, "fLaC", mediatype.AudioFLAC, 0),
		exact(0, "{\\rtf", mediatype.ApplicationRTF, 0),
		exact(0, "II*\x00", mediatype.ImageTIFF, 0),
		exact(0, "MM\x00*", mediatype.ImageTIFF, 0),
		masked(0, []byte("RIFF\x00\x00\x00\x00WEBP"), riffMask, mediatype.ImageWebP, 0),
		masked(0, []byte("RIFF\x00\x00\x00\x00WAVE"), riffMask, mediatype.AudioWAV, 0),

		// Priority 1: strong but container-generic markers.
		exact(4, "ftyp", mediatype.VideoMP4, 1),
		exact(0, "\x1a\x45\xdf\xa3", mediatype.VideoMatroska, 1),
		exact(0, "PK\x03\x04", mediatype.ApplicationZIP, 1),
		exact(0, "\x1f\x8b", mediatype.ApplicationGZIP, 1),

		// Priority 2: raw MPEG audio frame sync for Layer II and III. The protection
		// bit is masked out. Layer I is left to the structural probe because its
		// FF FE/FF FF headers collide with UTF-16 byte order marks.
		frameSync(0xFA), // MPEG-1 Layer III
		frameSync(0xFC), // MPEG-1 Layer II
		frameSync(0xF2), // MPEG-2 Layer III
		frameSync(0xF4), // MPEG-2 Layer II
		frameSync(0xE2), // MPEG-2.5 Layer III
		frameSync(0xE4), // MPEG-2.5 Layer II

		// Priority 3: short, collision-prone markers.
		exact(0, "BM", mediatype.ImageBMP, 3),
	}
}

// DefaultTable returns a table built from DefaultSignatures.
func DefaultTable() *Table {
	return NewTable(DefaultSignatures()...)
}
