// Package hasher computes content digests for stored objects.
package hasher

import (
	"crypto/md5" //nolint:gosec // S3 ETags are MD5 digests
	"encoding/hex"
	"io"

	"github.com/code19m/errx"
)

// ETag returns the quoted hex MD5 digest of data, in the form S3 reports for
// single-part uploads.
func ETag(data []byte) string {
	sum := md5.Sum(data) //nolint:gosec // see import
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// ETagReader is ETag for a stream.
func ETagReader(r io.Reader) (string, error) {
	h := md5.New() //nolint:gosec // see import
	if _, err := io.Copy(h, r); err != nil {
		return "", errx.Wrap(err)
	}
	return `"` + hex.EncodeToString(h.Sum(nil)) + `"`, nil
}

// Match reports whether two ETags name the same content, ignoring quotes.
func Match(a, b string) bool {
	return unquote(a) == unquote(b)
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
