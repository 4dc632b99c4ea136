// Package images decodes and caches the raster assets a render pulls in:
// files, data URIs, remote URLs and SVG markup.
package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/url"
	"os"
	"strings"

	"github.com/nfnt/resize"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for bytes no registered decoder
// recognises.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// IsDataURI reports whether s is a data: URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// IsSVGMarkup reports whether s is inline SVG source rather than a
// reference.
func IsSVGMarkup(s string) bool {
	t := strings.TrimSpace(s)
	return strings.HasPrefix(t, "<svg") || strings.HasPrefix(t, "<?xml")
}

// ParseDataURI splits a data URI into its media type and decoded payload.
func ParseDataURI(uri string) (mediaType string, data []byte, err error) {
	if !IsDataURI(uri) {
		return "", nil, fmt.Errorf("not a data URI")
	}
	header, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return "", nil, fmt.Errorf("data URI has no payload")
	}
	mediaType = header
	if strings.HasSuffix(header, ";base64") {
		mediaType = strings.TrimSuffix(header, ";base64")
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// Some producers strip the padding.
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return "", nil, fmt.Errorf("decode data URI: %w", err)
		}
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, fmt.Errorf("unescape data URI: %w", err)
		}
		data = []byte(s)
	}
	if mediaType == "" {
		mediaType = "text/plain"
	}
	return mediaType, data, nil
}

// LoadImageFromDataURI decodes the image carried by a data URI.
func LoadImageFromDataURI(uri string) (image.Image, error) {
	mt, data, err := ParseDataURI(uri)
	if err != nil {
		return nil, err
	}
	return Decode(data, mt)
}

// LoadImage loads an image from the filesystem.
func LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, "")
}

// Decode decodes raster bytes or SVG source. contentType may be empty.
func Decode(data []byte, contentType string) (image.Image, error) {
	if strings.Contains(contentType, "svg") || IsSVGMarkup(string(data[:min(len(data), 256)])) {
		return RasterizeSVG(data, 0, 0)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// RasterizeSVG draws SVG source into a width x height image; zero sizes
// take the document's own size.
func RasterizeSVG(data []byte, width, height int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	if width <= 0 {
		width = int(math.Ceil(icon.ViewBox.W))
	}
	if height <= 0 {
		height = int(math.Ceil(icon.ViewBox.H))
	}
	if width <= 0 || height <= 0 || icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, fmt.Errorf("svg has no size: %w", ErrUnsupportedFormat)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)
	return img, nil
}

// Resize resamples img to width x height. Images already at that size
// are returned as is.
func Resize(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if width <= 0 || height <= 0 || (b.Dx() == width && b.Dy() == height) {
		return img
	}
	return resize.Resize(uint(width), uint(height), img, resize.Bilinear)
}
