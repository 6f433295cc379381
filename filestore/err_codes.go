package filestore

// Error codes for filestore operations.
const (
	// CodeNoSuchKey is carried by NotFoundError when an object does not exist.
	CodeNoSuchKey = "NoSuchKey"

	// CodeStorageIOFailure is returned when the backend cannot be reached or a stream
	// cannot be read. Callers may retry.
	CodeStorageIOFailure = "STORAGE_IO_FAILURE"

	// CodeCancelled is returned when the caller's context ends during a storage call.
	CodeCancelled = "CANCELLED"

	// CodeBucketNotFound is returned when the target bucket does not exist.
	CodeBucketNotFound = "BUCKET_NOT_FOUND"
)
