// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"image"
	"strings"

	// Register decoders for the formats that show up inside papers.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Default thresholds separating figures from decorative artifacts such
// as logos, icons, and rules.
const (
	DefaultMinImageBytes  = 5000
	DefaultMinImageWidth  = 100
	DefaultMinImageHeight = 100
)

// Filter rejects extracted images that are too small to be figures.
type Filter struct {
	MinBytes  int
	MinWidth  int
	MinHeight int
}

// NewFilter builds a Filter, with non-positive thresholds replaced by
// the defaults.
func NewFilter(minBytes, minWidth, minHeight int) Filter {
	f := Filter{MinBytes: minBytes, MinWidth: minWidth, MinHeight: minHeight}
	if f.MinBytes <= 0 {
		f.MinBytes = DefaultMinImageBytes
	}
	if f.MinWidth <= 0 {
		f.MinWidth = DefaultMinImageWidth
	}
	if f.MinHeight <= 0 {
		f.MinHeight = DefaultMinImageHeight
	}
	return f
}

// Accept reports whether data is a keepable figure. Blobs under MinBytes
// are rejected before any decoding; the rest must decode to at least
// MinWidth x MinHeight pixels. Undecodable data is rejected.
func (f Filter) Accept(data []byte) bool {
	if len(data) < f.MinBytes {
		return false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return false
	}
	return cfg.Width >= f.MinWidth && cfg.Height >= f.MinHeight
}

// knownImageExts is the set of extension hints stored as-is; anything
// else falls back to png.
var knownImageExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"tiff": true,
	"bmp":  true,
	"gif":  true,
	"webp": true,
}

// normalizeExt maps an extractor format hint to a file extension.
func normalizeExt(hint string) string {
	hint = strings.ToLower(strings.TrimPrefix(hint, "."))
	if knownImageExts[hint] {
		return hint
	}
	return "png"
}
