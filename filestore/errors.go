package filestore

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/code19m/errx"
)

const notFoundFormat = "The resource you requested does not exist " +
	"(Service: Amazon S3; Status Code: %d; Error Code: %s; Request ID: null; S3 Extended Request ID: null)"

// NotFoundError reports a missing object. Its message follows the S3 client
// phrasing. Backend request ids are not carried, so they always render as null.
type NotFoundError struct {
	Ref        BlobRef
	StatusCode int
	Code       string
}

// NewNotFoundError returns the not-found error for ref with status 404 and code NoSuchKey.
func NewNotFoundError(ref BlobRef) *NotFoundError {
	return &NotFoundError{
		Ref:        ref,
		StatusCode: http.StatusNotFound,
		Code:       CodeNoSuchKey,
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(notFoundFormat, e.StatusCode, e.Code)
}

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsCancelled reports whether err carries CodeCancelled.
func IsCancelled(err error) bool {
	return errx.IsCodeIn(err, CodeCancelled)
}

// IsIOFailure reports whether err carries CodeStorageIOFailure.
func IsIOFailure(err error) bool {
	return errx.IsCodeIn(err, CodeStorageIOFailure)
}

// IOFailure builds a retryable storage error for op on ref.
func IOFailure(op string, ref BlobRef, cause error) error {
	return errx.New(
		fmt.Sprintf("storage %s failed for %s", op, ref),
		errx.WithCode(CodeStorageIOFailure),
		errx.WithType(errx.T_Internal),
		errx.WithDetails(errx.D{"op": op, "bucket": ref.Bucket, "key": ref.Key, "error": cause.Error()}),
	)
}

// Cancelled builds the error returned when ctx ends during op on ref.
func Cancelled(op string, ref BlobRef, cause error) error {
	return errx.New(
		fmt.Sprintf("storage %s cancelled for %s", op, ref),
		errx.WithCode(CodeCancelled),
		errx.WithType(errx.T_Internal),
		errx.WithDetails(errx.D{"op": op, "bucket": ref.Bucket, "key": ref.Key, "error": cause.Error()}),
	)
}

// Classify maps a backend error to the package taxonomy. NotFound errors and errors
// that already carry a filestore code pass through unchanged; context errors become
// Cancelled; everything else becomes an IO failure.
func Classify(ctx context.Context, op string, ref BlobRef, err error) error {
	switch {
	case err == nil:
		return nil
	case IsNotFound(err), errx.IsCodeIn(err, CodeCancelled, CodeStorageIOFailure, CodeBucketNotFound):
		return err
	case ctx.Err() != nil:
		return Cancelled(op, ref, ctx.Err())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Cancelled(op, ref, err)
	default:
		return IOFailure(op, ref, err)
	}
}

// BucketNotFound builds the error returned when ref's bucket does not exist.
func BucketNotFound(ref BlobRef) error {
	return errx.New(
		fmt.Sprintf("bucket %q does not exist", ref.Bucket),
		errx.WithCode(CodeBucketNotFound),
		errx.WithType(errx.T_NotFound),
		errx.WithDetails(errx.D{"bucket": ref.Bucket}),
	)
}

// IsBucketNotFound reports whether err carries CodeBucketNotFound.
func IsBucketNotFound(err error) bool {
	return errx.IsCodeIn(err, CodeBucketNotFound)
}
