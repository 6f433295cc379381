package val

import (
	"net"
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	maxObjectKeyBytes = 1024
	minBucketLen      = 3
	maxBucketLen      = 63
)

//nolint:gochecknoglobals // compiled once.
var (
	bucketNameRe     = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*[a-z0-9]$`)
	bucketBadPairsRe = regexp.MustCompile(`\.\.|\.-|-\.`)
)

// IsBucketName reports whether s follows the S3 bucket naming rules:
// 3 to 63 lower-case letters, digits, dots or hyphens, starting and ending with a
// letter or digit, without ".." and not shaped like an IPv4 address.
func IsBucketName(s string) bool {
	if len(s) < minBucketLen || len(s) > maxBucketLen || !bucketNameRe.MatchString(s) {
		return false
	}
	if bucketBadPairsRe.MatchString(s) {
		return false
	}
	return net.ParseIP(s) == nil
}

// IsObjectKey reports whether s is a valid UTF-8 object key of 1 to 1024 bytes.
func IsObjectKey(s string) bool {
	return s != "" && len(s) <= maxObjectKeyBytes && utf8.ValidString(s)
}

func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation("bucket_name", func(fl validator.FieldLevel) bool {
		return IsBucketName(fl.Field().String())
	})
	_ = v.RegisterValidation("object_key", func(fl validator.FieldLevel) bool {
		return IsObjectKey(fl.Field().String())
	})
}
