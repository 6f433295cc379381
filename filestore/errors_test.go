package filestore_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/mediasniff/filestore"
)

const notFoundMessage = "The resource you requested does not exist " +
	"(Service: Amazon S3; Status Code: 404; Error Code: NoSuchKey; Request ID: null; S3 Extended Request ID: null)"

func TestNotFoundError(t *testing.T) {
	ref := filestore.Ref("bucket-name", "key")
	err := filestore.NewNotFoundError(ref)

	assert.Equal(t, notFoundMessage, err.Error())
	assert.Equal(t, 404, err.StatusCode)
	assert.Equal(t, filestore.CodeNoSuchKey, err.Code)
	assert.Equal(t, ref, err.Ref)

	wrapped := fmt.Errorf("identify: %w", err)
	assert.True(t, filestore.IsNotFound(wrapped))
	assert.False(t, filestore.IsNotFound(errors.New("other")))
}

func TestClassify(t *testing.T) {
	ref := filestore.Ref("bucket-name", "key")
	cancelled, cancel := context.WithCancel(t.Context())
	cancel()

	tests := []struct {
		name      string
		ctx       context.Context
		err       error
		wantNil   bool
		notFound  bool
		cancelled bool
		ioFailure bool
	}{
		{name: "nil", ctx: t.Context(), err: nil, wantNil: true},
		{name: "not found passes through", ctx: t.Context(), err: filestore.NewNotFoundError(ref), notFound: true},
		{name: "context ended", ctx: cancelled, err: errors.New("connection reset"), cancelled: true},
		{name: "deadline error", ctx: t.Context(), err: fmt.Errorf("read: %w", context.DeadlineExceeded), cancelled: true},
		{name: "transport error", ctx: t.Context(), err: errors.New("connection refused"), ioFailure: true},
		{name: "already classified", ctx: cancelled, err: filestore.IOFailure("get", ref, errors.New("x")), ioFailure: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := filestore.Classify(tt.ctx, "get", ref, tt.err)
			if tt.wantNil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.notFound, filestore.IsNotFound(err))
			assert.Equal(t, tt.cancelled, filestore.IsCancelled(err))
			assert.Equal(t, tt.ioFailure, filestore.IsIOFailure(err))
		})
	}
}

func TestIOFailureDetails(t *testing.T) {
	err := filestore.IOFailure("get", filestore.Ref("bucket-name", "a/b"), errors.New("boom"))

	var e errx.ErrorX
	require.ErrorAs(t, err, &e)
	assert.Equal(t, filestore.CodeStorageIOFailure, e.Code())
	assert.Equal(t, errx.T_Internal, e.Type())
	assert.Equal(t, "boom", e.Details()["error"])
	assert.Equal(t, "a/b", e.Details()["key"])
}

func TestBucketNotFound(t *testing.T) {
	err := filestore.BucketNotFound(filestore.Ref("missing", "k"))
	assert.True(t, filestore.IsBucketNotFound(err))
	assert.False(t, filestore.IsNotFound(err))
	assert.Equal(t, errx.T_NotFound, errx.GetType(err))
}
