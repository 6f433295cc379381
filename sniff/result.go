package sniff

import "github.com/rise-and-shine/mediasniff/mediatype"

// Confidence ranks how a result was obtained. Higher values win.
type Confidence int

const (
	// ConfidenceNone marks the absence of a result.
	ConfidenceNone Confidence = iota
	// ConfidenceFallback is the default type when nothing else matched.
	ConfidenceFallback
	// ConfidenceSignature comes from a magic-byte signature.
	ConfidenceSignature
	// ConfidenceStructural comes from walking the container structure.
	ConfidenceStructural
)

// String returns the lower-case tier name.
func (c Confidence) String() string {
	switch c {
	case ConfidenceFallback:
		return "fallback"
	case ConfidenceSignature:
		return "signature"
	case ConfidenceStructural:
		return "structural"
	case ConfidenceNone:
		return "none"
	default:
		return "unknown"
	}
}

// Result is the outcome of a probe or of the whole chain.
// The zero value is NoMatch.
type Result struct {
	Type       mediatype.MediaType
	Confidence Confidence
	// Probe names the component that produced the result.
	Probe string
}

// NoMatch is returned by probes that could not confirm their format.
//
//nolint:gochecknoglobals // zero Result, exported for readability at call sites.
var NoMatch = Result{}

// Matched reports whether r carries a media type.
func (r Result) Matched() bool {
	return r.Confidence != ConfidenceNone && !r.Type.IsZero()
}

func structural(probe string, mt mediatype.MediaType) Result {
	return Result{Type: mt, Confidence: ConfidenceStructural, Probe: probe}
}
