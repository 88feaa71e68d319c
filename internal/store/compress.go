package store

import "github.com/golang/snappy"

// CompressBody compresses a raw export body for storage. Cube exports are
// repetitive delimited text, so snappy typically shrinks them severalfold at
// negligible CPU cost.
func CompressBody(body []byte) []byte {
	return snappy.Encode(nil, body)
}

// DecompressBody restores a stored export body.
func DecompressBody(compressed []byte) ([]byte, error) {
	return snappy.Decode(nil, compressed)
}
