package identify_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/mediasniff/filestore"
	"github.com/rise-and-shine/mediasniff/internal/fixture"
	"github.com/rise-and-shine/mediasniff/mediatype"
)

func TestIdentifyManyKeepsInputOrder(t *testing.T) {
	store := newFakeStore()
	id := newIdentifier(t, store, nil)

	samples := [][]byte{fixture.MP4(), fixture.MP3(), fixture.PDF(), fixture.MP3WithoutID3()}
	want := []mediatype.MediaType{mediatype.VideoMP4, mediatype.AudioMPEG, mediatype.ApplicationPDF, mediatype.AudioMPEG}

	var refs []filestore.BlobRef
	var wantTypes []mediatype.MediaType
	for n := range 40 {
		refs = append(refs, put(t, store, fmt.Sprintf("obj-%02d", n), samples[n%len(samples)]))
		wantTypes = append(wantTypes, want[n%len(want)])
	}
	missing := filestore.Ref(bucket, "missing")
	refs = append(refs[:7], append([]filestore.BlobRef{missing}, refs[7:]...)...)
	wantTypes = append(wantTypes[:7], append([]mediatype.MediaType{{}}, wantTypes[7:]...)...)

	outcomes := id.IdentifyMany(t.Context(), refs)
	require.Len(t, outcomes, len(refs))

	for n, out := range outcomes {
		assert.Equal(t, refs[n], out.Ref)
		if out.Ref == missing {
			require.Error(t, out.Err)
			assert.True(t, filestore.IsNotFound(out.Err))
			assert.Nil(t, out.Report)
			continue
		}
		require.NoError(t, out.Err)
		assert.Equal(t, wantTypes[n], out.Report.Type, out.Ref.String())
	}

	gets, closes := store.counts()
	assert.Equal(t, len(refs), gets)
	assert.Equal(t, len(refs)-1, closes)
}

func TestIdentifyManyEmpty(t *testing.T) {
	id := newIdentifier(t, newFakeStore(), nil)
	assert.Empty(t, id.IdentifyMany(t.Context(), nil))
}
