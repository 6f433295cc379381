// Package mediatype provides an immutable media type value used across detection results.
package mediatype

import (
	"strings"

	"github.com/code19m/errx"
)

// CodeInvalidMediaType is returned by Parse when the input is not a "type/subtype" pair.
const CodeInvalidMediaType = "INVALID_MEDIA_TYPE"

// MediaType is a (type, subtype) pair such as ("video", "mp4").
// Values are stored lower-cased, so == and Equal agree for values built by New or Parse.
// The zero value represents "no type".
type MediaType struct {
	typ     string
	subtype string
}

// New creates a MediaType from its two parts. Surrounding spaces are trimmed and both
// parts are lower-cased.
func New(typ, subtype string) MediaType {
	return MediaType{
		typ:     strings.ToLower(strings.TrimSpace(typ)),
		subtype: strings.ToLower(strings.TrimSpace(subtype)),
	}
}

// Parse reads a "type/subtype" string. Parameters after ';' are dropped, so
// "text/plain; charset=utf-8" parses as text/plain.
func Parse(s string) (MediaType, error) {
	raw := s
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}

	typ, subtype, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || strings.TrimSpace(typ) == "" || strings.TrimSpace(subtype) == "" || strings.Contains(subtype, "/") {
		return MediaType{}, errx.New(
			"invalid media type",
			errx.WithCode(CodeInvalidMediaType),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"input": raw}),
		)
	}

	return New(typ, subtype), nil
}

// MustParse is like Parse but panics on invalid input. Intended for package-level tables.
func MustParse(s string) MediaType {
	mt, err := Parse(s)
	if err != nil {
		panic("[mediatype]: " + err.Error() + ": " + s)
	}
	return mt
}

// Type returns the top-level type, e.g. "video".
func (m MediaType) Type() string { return m.typ }

// Subtype returns the subtype, e.g. "mp4".
func (m MediaType) Subtype() string { return m.subtype }

// IsZero reports whether m is the zero value.
func (m MediaType) IsZero() bool { return m.typ == "" && m.subtype == "" }

// Equal compares both parts case-insensitively.
func (m MediaType) Equal(other MediaType) bool {
	return strings.EqualFold(m.typ, other.typ) && strings.EqualFold(m.subtype, other.subtype)
}

// String renders the canonical "type/subtype" form. The zero value renders as "".
func (m MediaType) String() string {
	if m.IsZero() {
		return ""
	}
	return m.typ + "/" + m.subtype
}

// MarshalText implements encoding.TextMarshaler.
func (m MediaType) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MediaType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*m = MediaType{}
		return nil
	}
	mt, err := Parse(string(text))
	if err != nil {
		return errx.Wrap(err)
	}
	*m = mt
	return nil
}
