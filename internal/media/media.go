// Package media converts uploaded images into the base64 data URIs stored
// in record image fields.
package media

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mesh-intelligence/temple/pkg/types"
)

// DefaultMaxBytes bounds the size of an image read from disk. The encoded
// URI is about a third larger and must still fit the partition quota.
const DefaultMaxBytes int64 = 2 << 20

// DataURI encodes data as a data URI after checking that it is an image.
func DataURI(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", types.ErrNotImage, mt.String())
	}
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DataURIFromFile reads the image at path and encodes it. maxBytes <= 0
// means DefaultMaxBytes.
func DataURIFromFile(path string, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxBytes {
		return "", fmt.Errorf("%w: %s is %d bytes, limit %d", types.ErrImageTooLarge, path, info.Size(), maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	uri, err := DataURI(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return uri, nil
}

// ParseDataURI splits a base64 data URI into its media type and payload.
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: not a data URI", types.ErrInvalidData)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: data URI has no payload", types.ErrInvalidData)
	}
	mediaType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: data URI is not base64", types.ErrInvalidData)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", types.ErrInvalidData, err)
	}
	return mediaType, data, nil
}
