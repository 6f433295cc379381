package boltwr

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/golang/snappy"
)

const recordVersion = 1

var errCorruptRecord = errors.New("corrupt record")

// record is the stored form of one object:
//
//	version(1) | mtime unix nano(8) | len(2) content type | len(2) etag | snappy(data)
type record struct {
	ContentType  string
	ETag         string
	LastModified time.Time
	Data         []byte
}

func (r record) encode() []byte {
	compressed := snappy.Encode(nil, r.Data)

	out := make([]byte, 0, 1+8+2+len(r.ContentType)+2+len(r.ETag)+len(compressed))
	out = append(out, recordVersion)
	out = binary.BigEndian.AppendUint64(out, uint64(r.LastModified.UnixNano()))
	out = appendString(out, r.ContentType)
	out = appendString(out, r.ETag)
	return append(out, compressed...)
}

// decodeRecord parses raw. raw is owned by the bolt transaction, so every
// field is copied out.
func decodeRecord(raw []byte) (record, error) {
	if len(raw) < 9 || raw[0] != recordVersion {
		return record{}, errCorruptRecord
	}
	r := record{LastModified: time.Unix(0, int64(binary.BigEndian.Uint64(raw[1:9]))).UTC()}
	rest := raw[9:]

	var ok bool
	if r.ContentType, rest, ok = readString(rest); !ok {
		return record{}, errCorruptRecord
	}
	if r.ETag, rest, ok = readString(rest); !ok {
		return record{}, errCorruptRecord
	}

	data, err := snappy.Decode(nil, rest)
	if err != nil {
		return record{}, err
	}
	r.Data = data
	return r, nil
}

func appendString(b []byte, s string) []byte {
	b = binary.BigEndian.AppendUint16(b, uint16(len(s)))
	return append(b, s...)
}

func readString(b []byte) (string, []byte, bool) {
	if len(b) < 2 {
		return "", nil, false
	}
	n := int(binary.BigEndian.Uint16(b))
	if len(b) < 2+n {
		return "", nil, false
	}
	return string(b[2 : 2+n]), b[2+n:], true
}
