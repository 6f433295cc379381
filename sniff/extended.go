package sniff

import (
	"github.com/gabriel-vasile/mimetype"

	"github.com/rise-and-shine/mediasniff/mediatype"
)

// Extended consults the gabriel-vasile/mimetype signature tree for formats the
// built-in table does not cover. Its answers rank as signature matches.
type Extended struct{}

// Name implements Probe.
func (Extended) Name() string { return "extended" }

// CanAttempt rejects empty input, which mimetype would report as text/plain.
func (Extended) CanAttempt(buf *Buffer) bool { return buf.Len() > 0 }

// Attempt implements Probe.
func (p Extended) Attempt(buf *Buffer) Result {
	detected := mimetype.Detect(buf.Bytes())
	if detected == nil || detected.Is(mediatype.OctetStream.String()) {
		return NoMatch
	}

	mt, err := mediatype.Parse(detected.String())
	if err != nil {
		return NoMatch
	}
	return Result{Type: mt, Confidence: ConfidenceSignature, Probe: p.Name()}
}
