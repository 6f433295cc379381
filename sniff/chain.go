package sniff

import (
	"io"
	"sync"

	"github.com/rise-and-shine/mediasniff/mediatype"
)

// Probe is one step of the detection chain.
type Probe interface {
	// Name identifies the probe in results and logs.
	Name() string
	// CanAttempt is a cheap prefix check deciding whether Attempt is worth running.
	CanAttempt(buf *Buffer) bool
	// Attempt inspects the buffer and returns NoMatch when it cannot confirm a type.
	// It never reads past the buffer and never fails.
	Attempt(buf *Buffer) Result
}

// signatureProbe adapts a Table to the Probe interface.
type signatureProbe struct {
	table *Table
}

func (signatureProbe) Name() string { return "signature" }

func (signatureProbe) CanAttempt(buf *Buffer) bool { return buf.Len() > 0 }

func (p signatureProbe) Attempt(buf *Buffer) Result {
	c, ok := p.table.Best(buf)
	if !ok {
		return NoMatch
	}
	return Result{Type: c.Type, Confidence: ConfidenceSignature, Probe: p.Name()}
}

const fallbackProbe = "fallback"

type options struct {
	table    *Table
	extended bool
	capacity int
}

// Option configures a Chain.
type Option func(*options)

// WithTable replaces the default signature table.
func WithTable(t *Table) Option {
	return func(o *options) { o.table = t }
}

// WithoutExtended drops the mimetype-backed probe from the chain.
func WithoutExtended() Option {
	return func(o *options) { o.extended = false }
}

// WithCapacity sets the buffer capacity used by DetectReader.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// Chain runs probes in a fixed order: ISO-BMFF, MPEG audio, the signature table,
// extended signatures, and finally application/octet-stream.
// A Chain holds no mutable state and is safe for concurrent use.
type Chain struct {
	probes   []Probe
	capacity int
}

// NewChain builds a chain with the given options.
func NewChain(opts ...Option) *Chain {
	o := options{extended: true, capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	if o.table == nil {
		o.table = DefaultTable()
	}

	probes := []Probe{ISOBMFF{}, MPEGAudio{}, signatureProbe{table: o.table}}
	if o.extended {
		probes = append(probes, Extended{})
	}

	return &Chain{probes: probes, capacity: o.capacity}
}

//nolint:gochecknoglobals // lazily built immutable default chain.
var defaultChain = sync.OnceValue(func() *Chain { return NewChain() })

// Default returns the shared default chain.
func Default() *Chain { return defaultChain() }

// Capacity returns the buffer capacity used by DetectReader.
func (c *Chain) Capacity() int { return c.capacity }

// Probes returns the probe names in evaluation order.
func (c *Chain) Probes() []string {
	names := make([]string, 0, len(c.probes)+1)
	for _, p := range c.probes {
		names = append(names, p.Name())
	}
	return append(names, fallbackProbe)
}

// Resolve returns the first match in chain order. Probes are ordered by confidence
// tier, so the first match is also the strongest one. Never returns NoMatch.
func (c *Chain) Resolve(buf *Buffer) Result {
	for _, p := range c.probes {
		if !p.CanAttempt(buf) {
			continue
		}
		if r := p.Attempt(buf); r.Matched() {
			return r
		}
	}
	return Result{Type: mediatype.OctetStream, Confidence: ConfidenceFallback, Probe: fallbackProbe}
}

// Detect returns the resolved media type of buf.
func (c *Chain) Detect(buf *Buffer) mediatype.MediaType {
	return c.Resolve(buf).Type
}

// DetectBytes detects an in-memory prefix.
func (c *Chain) DetectBytes(data []byte) Result {
	return c.Resolve(NewBuffer(data, c.capacity))
}

// DetectReader buffers at most Capacity bytes of r and resolves them. Only read
// failures are returned as errors.
func (c *Chain) DetectReader(r io.Reader) (Result, int, error) {
	buf, err := ReadBuffer(r, c.capacity)
	if err != nil {
		return NoMatch, 0, err
	}
	return c.Resolve(buf), buf.Len(), nil
}
