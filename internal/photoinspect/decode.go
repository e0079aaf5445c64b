// Package photoinspect decodes uploaded photos and derives the local
// signals used before any model call: perceptual hashes for duplicate
// detection and metadata fingerprints of AI generators and stock agencies.
package photoinspect

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/corona10/goimagehash"
	_ "golang.org/x/image/webp"
)

// DuplicateThreshold is the maximum Hamming distance between two dHash
// values below which photos are considered perceptually identical.
const DuplicateThreshold = 10

// ErrUnsupportedFormat is returned for data that is not a jpeg, png, gif or
// webp image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decoded is a parsed photo.
type Decoded struct {
	Image  image.Image
	Format string
	Hash   uint64
}

// Decode parses data and computes its difference hash.
func Decode(data []byte) (*Decoded, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("photoinspect.Decode: %w", err)
	}

	h, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return nil, fmt.Errorf("photoinspect.Decode: hash: %w", err)
	}

	return &Decoded{Image: img, Format: format, Hash: h.GetHash()}, nil
}

// MediaType maps a decoded format name to its MIME type.
func MediaType(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	}
	return "application/octet-stream"
}

// Distance returns the Hamming distance between two difference hashes.
func Distance(a, b uint64) int {
	d, err := goimagehash.NewImageHash(a, goimagehash.DHash).Distance(goimagehash.NewImageHash(b, goimagehash.DHash))
	if err != nil {
		return 64
	}
	return d
}

// FindDuplicate returns the index of the first hash in existing that is
// perceptually identical to h, or -1.
func FindDuplicate(h uint64, existing []uint64) int {
	for i, e := range existing {
		if Distance(h, e) < DuplicateThreshold {
			return i
		}
	}
	return -1
}
