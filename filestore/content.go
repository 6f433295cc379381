package filestore

import (
	"io"

	"github.com/rise-and-shine/mediasniff/sniff"
)

// ReadContent reads r fully and returns its bytes together with the content type
// resolved by the default detection chain. Adapters call it from Put.
func ReadContent(r io.Reader) ([]byte, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	return data, sniff.Default().DetectBytes(data).Type.String(), nil
}
