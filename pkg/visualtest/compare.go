package visualtest

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"domshot/pkg/images"
)

// CompareResult contains the results of an image comparison
type CompareResult struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	MaxDifference   int // Max color channel difference found

	// Diff marks differing pixels red over a grey copy of the actual
	// image. Set only when requested and the images differ.
	Diff *image.RGBA
}

// DifferentPercent is the share of differing pixels, 0 to 100.
func (r *CompareResult) DifferentPercent() float64 {
	if r.TotalPixels == 0 {
		return 0
	}
	return float64(r.DifferentPixels) / float64(r.TotalPixels) * 100
}

// CompareOptions configures the image comparison
type CompareOptions struct {
	// Tolerance: maximum allowed difference per color channel (0-255)
	Tolerance int

	// FuzzyRadius: if > 0, a pixel matches if it matches any pixel within this radius
	FuzzyRadius int

	// MaxDifferentPercent: if > 0, pass if the percentage of different pixels is <= this value
	MaxDifferentPercent float64

	// SaveDiffImage: if true, builds a diff image and writes it to
	// DiffImagePath when that is set
	SaveDiffImage bool
	DiffImagePath string
}

// DefaultOptions returns sensible defaults for image comparison
func DefaultOptions() CompareOptions {
	return CompareOptions{Tolerance: 2}
}

type rgba8 [4]int

func at(img image.Image, x, y int) rgba8 {
	r, g, b, a := img.At(x, y).RGBA()
	return rgba8{int(r >> 8), int(g >> 8), int(b >> 8), int(a >> 8)}
}

func difference(a, b rgba8) int {
	d := 0
	for i := range a {
		d = max(d, absInt(a[i]-b[i]))
	}
	return d
}

// Compare compares two images pixel by pixel. Images with different
// bounds never match.
func Compare(actual, expected image.Image, opts CompareOptions) (*CompareResult, error) {
	bounds := actual.Bounds()
	if bounds != expected.Bounds() {
		return &CompareResult{}, fmt.Errorf("image dimensions differ: actual=%v, expected=%v", bounds, expected.Bounds())
	}

	result := &CompareResult{
		Match:       true,
		TotalPixels: bounds.Dx() * bounds.Dy(),
	}
	var diff *image.RGBA
	if opts.SaveDiffImage {
		diff = image.NewRGBA(bounds)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a := at(actual, x, y)
			d := difference(a, at(expected, x, y))
			result.MaxDifference = max(result.MaxDifference, d)

			matched := d <= opts.Tolerance
			if !matched && opts.FuzzyRadius > 0 {
				matched = fuzzyMatch(actual, expected, x, y, opts.FuzzyRadius, opts.Tolerance, bounds)
			}
			if !matched {
				result.Match = false
				result.DifferentPixels++
			}
			if diff != nil {
				if matched {
					gray := uint8(a[0])
					diff.Set(x, y, color.RGBA{gray, gray, gray, 255})
				} else {
					diff.Set(x, y, color.RGBA{255, 0, 0, 255})
				}
			}
		}
	}

	if !result.Match && opts.MaxDifferentPercent > 0 && result.DifferentPercent() <= opts.MaxDifferentPercent {
		result.Match = true
	}

	if diff != nil && !result.Match {
		result.Diff = diff
		if opts.DiffImagePath != "" {
			if err := gg.SavePNG(opts.DiffImagePath, diff); err != nil {
				return result, fmt.Errorf("failed to save diff image: %w", err)
			}
		}
	}
	return result, nil
}

// CompareImages compares two image files.
func CompareImages(actualPath, expectedPath string, opts CompareOptions) (*CompareResult, error) {
	actual, err := images.LoadImage(actualPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load actual image: %w", err)
	}
	expected, err := images.LoadImage(expectedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load expected image: %w", err)
	}
	return Compare(actual, expected, opts)
}

// fuzzyMatch checks if the actual pixel at (x, y) matches any expected pixel within radius
func fuzzyMatch(actual, expected image.Image, x, y, radius, tolerance int, bounds image.Rectangle) bool {
	a := at(actual, x, y)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := image.Pt(x+dx, y+dy)
			if !p.In(bounds) {
				continue
			}
			if difference(a, at(expected, p.X, p.Y)) <= tolerance {
				return true
			}
		}
	}
	return false
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
