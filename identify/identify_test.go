package identify_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/mediasniff/filestore"
	"github.com/rise-and-shine/mediasniff/filestore/boltwr"
	"github.com/rise-and-shine/mediasniff/identify"
	"github.com/rise-and-shine/mediasniff/internal/fixture"
	"github.com/rise-and-shine/mediasniff/mediatype"
	"github.com/rise-and-shine/mediasniff/sniff"
)

const bucket = "bucket-name"

const notFoundMessage = "The resource you requested does not exist " +
	"(Service: Amazon S3; Status Code: 404; Error Code: NoSuchKey; Request ID: null; S3 Extended Request ID: null)"

func testConfig() identify.Config {
	return identify.Config{
		Timeout:       5 * time.Second,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
		Workers:       4,
	}
}

func newIdentifier(t *testing.T, store filestore.Store, chain *sniff.Chain) *identify.Identifier {
	t.Helper()
	id, err := identify.New(store, chain, testConfig())
	require.NoError(t, err)
	return id
}

func put(t *testing.T, store filestore.Store, key string, data []byte) filestore.BlobRef {
	t.Helper()
	ref := filestore.Ref(bucket, key)
	_, err := store.Put(t.Context(), ref, bytes.NewReader(data))
	require.NoError(t, err)
	return ref
}

func TestIdentifyStoredObjects(t *testing.T) {
	store, err := boltwr.Open(t.Context(), boltwr.Config{
		Path:    filepath.Join(t.TempDir(), "blobs.db"),
		Buckets: []string{bucket},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	id := newIdentifier(t, store, nil)

	tests := []struct {
		name       string
		data       []byte
		want       mediatype.MediaType
		confidence sniff.Confidence
	}{
		{"mp4", fixture.MP4(), mediatype.VideoMP4, sniff.ConfidenceStructural},
		{"mp3 with id3", fixture.MP3(), mediatype.AudioMPEG, sniff.ConfidenceStructural},
		{"mp3 without id3", fixture.MP3WithoutID3(), mediatype.AudioMPEG, sniff.ConfidenceStructural},
		{"pdf", fixture.PDF(), mediatype.ApplicationPDF, sniff.ConfidenceSignature},
		{"truncated mp4", fixture.TruncatedMP4(), mediatype.VideoMP4, sniff.ConfidenceSignature},
		{"empty", nil, mediatype.OctetStream, sniff.ConfidenceFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := put(t, store, tt.name, tt.data)

			got, err := id.Identify(t.Context(), ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), got.String())

			report, err := id.IdentifyResult(t.Context(), ref)
			require.NoError(t, err)
			assert.Equal(t, tt.confidence, report.Confidence)
			assert.Equal(t, len(tt.data), report.BytesRead)
			assert.False(t, report.Mismatch)
		})
	}

	t.Run("deleted object", func(t *testing.T) {
		ref := put(t, store, "key", fixture.MP3())
		require.NoError(t, store.Delete(t.Context(), ref))

		_, err := id.Identify(t.Context(), ref)
		require.Error(t, err)
		assert.True(t, filestore.IsNotFound(err))
		assert.Equal(t, notFoundMessage, err.Error())
	})
}

func TestIdentifyRetriesIOFailures(t *testing.T) {
	ioErr := filestore.IOFailure("get", filestore.Ref(bucket, "movie"), errConnReset)

	tests := []struct {
		name      string
		getErrs   []error
		wantErr   func(error) bool
		wantGets  int
		wantFound bool
	}{
		{
			name:      "recovers after transient failures",
			getErrs:   []error{ioErr, errConnReset},
			wantGets:  3,
			wantFound: true,
		},
		{
			name:     "gives up after all attempts",
			getErrs:  []error{ioErr, ioErr, ioErr},
			wantErr:  filestore.IsIOFailure,
			wantGets: 3,
		},
		{
			name:     "not found is not retried",
			getErrs:  []error{filestore.NewNotFoundError(filestore.Ref(bucket, "movie"))},
			wantErr:  filestore.IsNotFound,
			wantGets: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			ref := put(t, store, "movie", fixture.MP4())
			store.getErrs = tt.getErrs

			got, err := newIdentifier(t, store, nil).Identify(t.Context(), ref)
			gets, _ := store.counts()
			assert.Equal(t, tt.wantGets, gets)

			if tt.wantFound {
				require.NoError(t, err)
				assert.Equal(t, mediatype.VideoMP4, got)
				return
			}
			require.Error(t, err)
			assert.True(t, tt.wantErr(err), err.Error())
		})
	}
}

func TestIdentifyReadFailure(t *testing.T) {
	store := newFakeStore()
	ref := put(t, store, "movie", fixture.MP4())
	store.readErr = errConnReset

	_, err := newIdentifier(t, store, nil).Identify(t.Context(), ref)
	require.Error(t, err)
	assert.True(t, filestore.IsIOFailure(err))

	gets, closes := store.counts()
	assert.Equal(t, 3, gets)
	assert.Equal(t, gets, closes)
}

func TestIdentifyCancelled(t *testing.T) {
	store := newFakeStore()
	ref := put(t, store, "movie", fixture.MP4())

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := newIdentifier(t, store, nil).Identify(ctx, ref)
	require.Error(t, err)
	assert.True(t, filestore.IsCancelled(err))
	assert.False(t, filestore.IsIOFailure(err))
}

func TestIdentifyTimeout(t *testing.T) {
	store := newFakeStore()
	ref := put(t, store, "movie", fixture.MP4())
	store.block = true

	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	id, err := identify.New(store, nil, cfg)
	require.NoError(t, err)

	_, err = id.Identify(t.Context(), ref)
	require.Error(t, err)
	assert.True(t, filestore.IsCancelled(err))

	gets, _ := store.counts()
	assert.Equal(t, 1, gets)
}

func TestIdentifyReadsBoundedPrefix(t *testing.T) {
	store := newFakeStore()
	data := append(fixture.PDF(), bytes.Repeat([]byte{0}, 1024)...)
	ref := put(t, store, "doc", data)

	chain := sniff.NewChain(sniff.WithCapacity(64))
	report, err := newIdentifier(t, store, chain).IdentifyResult(t.Context(), ref)
	require.NoError(t, err)
	assert.Equal(t, 64, report.BytesRead)
	assert.Equal(t, mediatype.ApplicationPDF, report.Type)

	_, closes := store.counts()
	assert.Equal(t, 1, closes)
}

func TestIdentifyReportsContentTypeMismatch(t *testing.T) {
	store := newFakeStore()
	ref := put(t, store, "movie", fixture.MP4())
	store.contentType[ref] = "application/pdf"

	report, err := newIdentifier(t, store, nil).IdentifyResult(t.Context(), ref)
	require.NoError(t, err)
	assert.Equal(t, mediatype.VideoMP4, report.Type)
	assert.Equal(t, "application/pdf", report.StoredContentType)
	assert.True(t, report.Mismatch)
	assert.Equal(t, filestore.Ref(bucket, "movie"), report.Ref)
}

func TestIdentifyDoesNotMutateStore(t *testing.T) {
	store := newFakeStore()
	ref := put(t, store, "movie", fixture.MP4())

	_, err := newIdentifier(t, store, nil).Identify(t.Context(), ref)
	require.NoError(t, err)

	assert.Equal(t, fixture.MP4(), store.objects[ref])
	assert.Equal(t, "video/mp4", store.contentType[ref])
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.RetryAttempts = 0
	_, err := identify.New(newFakeStore(), nil, cfg)
	require.Error(t, err)

	cfg = testConfig()
	cfg.Workers = 0
	_, err = identify.New(newFakeStore(), nil, cfg)
	require.Error(t, err)
}
