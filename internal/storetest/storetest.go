// Package storetest holds the behaviour every filestore.Store adapter must share.
package storetest

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/mediasniff/filestore"
	"github.com/rise-and-shine/mediasniff/internal/fixture"
)

// Bucket is the bucket adapters under test must provide.
const Bucket = "bucket-name"

// NotFoundMessage is the exact message of a missing-key error.
const NotFoundMessage = "The resource you requested does not exist " +
	"(Service: Amazon S3; Status Code: 404; Error Code: NoSuchKey; Request ID: null; S3 Extended Request ID: null)"

// Run exercises store against Bucket, which must exist and may be empty.
func Run(t *testing.T, store filestore.Store) {
	t.Helper()

	t.Run("round trip records sniffed content type", func(t *testing.T) {
		tests := []struct {
			name string
			key  string
			data []byte
			want string
		}{
			{"mp4", "movie.mp4", fixture.MP4(), "video/mp4"},
			{"mp3 with id3", "song.mp3", fixture.MP3(), "audio/mpeg"},
			{"mp3 without id3", "raw.mp3", fixture.MP3WithoutID3(), "audio/mpeg"},
			{"pdf", "doc.pdf", fixture.PDF(), "application/pdf"},
			{"truncated mp4", "broken.mp4", fixture.TruncatedMP4(), "video/mp4"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ref := filestore.Ref(Bucket, tt.key)

				info, err := store.Put(t.Context(), ref, bytes.NewReader(tt.data))
				require.NoError(t, err)
				assert.Equal(t, tt.want, info.ContentType)
				assert.Equal(t, int64(len(tt.data)), info.Size)

				file, err := store.Get(t.Context(), ref)
				require.NoError(t, err)
				defer file.Content.Close()

				got, err := io.ReadAll(file.Content)
				require.NoError(t, err)
				assert.Equal(t, tt.data, got)
				assert.Equal(t, ref, file.Info.Ref)
			})
		}
	})

	t.Run("put replaces existing object", func(t *testing.T) {
		ref := filestore.Ref(Bucket, "replaced")

		_, err := store.Put(t.Context(), ref, bytes.NewReader(fixture.PDF()))
		require.NoError(t, err)
		_, err = store.Put(t.Context(), ref, bytes.NewReader(fixture.MP4()))
		require.NoError(t, err)

		file, err := store.Get(t.Context(), ref)
		require.NoError(t, err)
		defer file.Content.Close()

		got, err := io.ReadAll(file.Content)
		require.NoError(t, err)
		assert.Equal(t, fixture.MP4(), got)
	})

	t.Run("get after delete is not found", func(t *testing.T) {
		ref := filestore.Ref(Bucket, "key")

		_, err := store.Put(t.Context(), ref, bytes.NewReader(fixture.MP3()))
		require.NoError(t, err)

		exists, err := store.Exists(t.Context(), ref)
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, store.Delete(t.Context(), ref))

		_, err = store.Get(t.Context(), ref)
		require.Error(t, err)
		assert.True(t, filestore.IsNotFound(err))
		assert.Equal(t, NotFoundMessage, err.Error())

		exists, err = store.Exists(t.Context(), ref)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("delete of missing key succeeds", func(t *testing.T) {
		ref := filestore.Ref(Bucket, "never-stored")
		require.NoError(t, store.Delete(t.Context(), ref))
		require.NoError(t, store.Delete(t.Context(), ref))
	})

	t.Run("put rejects invalid ref", func(t *testing.T) {
		_, err := store.Put(t.Context(), filestore.Ref("Bad_Bucket", "k"), bytes.NewReader(fixture.PDF()))
		require.Error(t, err)
		assert.False(t, filestore.IsNotFound(err))
	})
}
