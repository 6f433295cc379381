// Package identify resolves the media type of stored objects. It fetches the head of
// the object from a filestore.Store and runs it through a sniff.Chain.
package identify

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/code19m/errx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rise-and-shine/mediasniff/filestore"
	"github.com/rise-and-shine/mediasniff/logger"
	"github.com/rise-and-shine/mediasniff/mediatype"
	"github.com/rise-and-shine/mediasniff/meta"
	"github.com/rise-and-shine/mediasniff/sniff"
	"github.com/rise-and-shine/mediasniff/tracing"
	"github.com/rise-and-shine/mediasniff/val"
)

const (
	opIdentify = "identify"
	opGet      = "get"
	opRead     = "read"

	maxJitter = 10 * time.Millisecond
)

// Report describes one resolution.
type Report struct {
	Ref        filestore.BlobRef
	Type       mediatype.MediaType
	Confidence sniff.Confidence
	Probe      string
	// BytesRead is the size of the inspected prefix, never more than the chain capacity.
	BytesRead int
	// StoredContentType is the content type the store reported for the object.
	StoredContentType string
	// Mismatch is set when StoredContentType is present and names a different type.
	Mismatch bool
}

// Identifier resolves media types of stored objects. It holds no per-call state and
// is safe for concurrent use.
type Identifier struct {
	store filestore.Store
	chain *sniff.Chain
	cfg   Config
	log   logger.Logger
}

// New creates an Identifier. A nil chain selects sniff.Default().
func New(store filestore.Store, chain *sniff.Chain, cfg Config) (*Identifier, error) {
	if err := val.ValidateSchema(cfg); err != nil {
		return nil, errx.Wrap(err)
	}
	if chain == nil {
		chain = sniff.Default()
	}

	return &Identifier{
		store: store,
		chain: chain,
		cfg:   cfg,
		log:   logger.Named("identify"),
	}, nil
}

// Identify returns the media type of the object under ref.
//
// A missing object yields *filestore.NotFoundError unchanged. Read failures carry
// filestore.CodeStorageIOFailure and an ended context carries filestore.CodeCancelled.
func (i *Identifier) Identify(ctx context.Context, ref filestore.BlobRef) (mediatype.MediaType, error) {
	report, err := i.IdentifyResult(ctx, ref)
	if err != nil {
		return mediatype.MediaType{}, err
	}
	return report.Type, nil
}

// IdentifyResult is Identify with the full resolution report.
func (i *Identifier) IdentifyResult(ctx context.Context, ref filestore.BlobRef) (report *Report, err error) {
	ctx = meta.WithObject(ctx, ref.Bucket, ref.Key)
	ctx = meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{meta.Operation: opIdentify})

	if i.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.cfg.Timeout)
		defer cancel()
	}

	ctx, span := tracing.Start(ctx, "identify.Identify",
		attribute.String("blob.bucket", ref.Bucket),
		attribute.String("blob.key", ref.Key),
	)
	defer func() { tracing.End(span, err) }()

	ctx = tracing.WithTraceID(ctx)
	log := i.log.WithContext(ctx)

	err = retry.Do(
		func() error {
			var attemptErr error
			report, attemptErr = i.attempt(ctx, ref)
			return attemptErr
		},
		retry.Attempts(i.cfg.RetryAttempts),
		retry.Delay(i.cfg.RetryDelay),
		retry.MaxJitter(maxJitter),
		retry.LastErrorOnly(true),
		retry.RetryIf(filestore.IsIOFailure),
		retry.OnRetry(func(n uint, err error) {
			log.With("attempt", n+1, "max_attempts", i.cfg.RetryAttempts).Warnx(err)
		}),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, filestore.Classify(ctx, opIdentify, ref, err)
	}

	span.SetAttributes(
		attribute.String("media.type", report.Type.String()),
		attribute.String("media.probe", report.Probe),
	)
	log.With(
		"type", report.Type.String(),
		"confidence", report.Confidence.String(),
		"probe", report.Probe,
		"bytes_read", report.BytesRead,
	).Debug("media type resolved")

	return report, nil
}

// attempt runs one fetch and resolution. The content stream is always closed.
func (i *Identifier) attempt(ctx context.Context, ref filestore.BlobRef) (*Report, error) {
	file, err := i.store.Get(ctx, ref)
	if err != nil {
		return nil, filestore.Classify(ctx, opGet, ref, err)
	}
	defer func() { _ = file.Content.Close() }()

	buf, err := sniff.ReadBuffer(file.Content, i.chain.Capacity())
	if err != nil {
		return nil, filestore.Classify(ctx, opRead, ref, err)
	}

	res := i.chain.Resolve(buf)
	return &Report{
		Ref:               ref,
		Type:              res.Type,
		Confidence:        res.Confidence,
		Probe:             res.Probe,
		BytesRead:         buf.Len(),
		StoredContentType: file.Info.ContentType,
		Mismatch:          mismatch(file.Info.ContentType, res.Type),
	}, nil
}

func mismatch(stored string, detected mediatype.MediaType) bool {
	if stored == "" {
		return false
	}
	mt, err := mediatype.Parse(stored)
	if err != nil {
		return true
	}
	return !mt.Equal(detected)
}
