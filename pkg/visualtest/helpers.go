// Package visualtest renders snapshots for regression tests and compares
// the resulting images.
package visualtest

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"domshot/internal/config"
	"domshot/internal/pipeline"
	"domshot/pkg/snapshot"
)

// RenderSnapshot renders doc at scale. Relative asset paths resolve
// against baseDir.
func RenderSnapshot(ctx context.Context, doc *snapshot.Document, scale float64, baseDir string) (*image.RGBA, error) {
	cfg := config.Default()
	cfg.Render.Scale = scale
	cfg.Images.Root = baseDir
	p, err := pipeline.New(cfg, zap.NewNop())
	if err != nil {
		return nil, err
	}
	res, err := p.Render(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}

// RenderSnapshotFile renders the snapshot at path, resolving assets next
// to it.
func RenderSnapshotFile(path string, scale float64) (*image.RGBA, error) {
	doc, err := snapshot.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return RenderSnapshot(context.Background(), doc, scale, filepath.Dir(path))
}

// UpdateReferenceImage generates a new reference image
// Use this when you've intentionally changed rendering behavior
func UpdateReferenceImage(snapshotPath, referencePath string, scale float64) error {
	img, err := RenderSnapshotFile(snapshotPath, scale)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(referencePath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return gg.SavePNG(referencePath, img)
}

// PixelAt returns the 8-bit non-premultiplied colour at x, y.
func PixelAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

// AssertPixel checks that the pixel at x, y is within tolerance of want
// on every channel.
func AssertPixel(t assert.TestingT, img image.Image, x, y int, want color.NRGBA, tolerance int) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	got := PixelAt(img, x, y)
	d := difference(rgba8{int(got.R), int(got.G), int(got.B), int(got.A)}, rgba8{int(want.R), int(want.G), int(want.B), int(want.A)})
	return assert.LessOrEqual(t, d, tolerance, "pixel (%d,%d) is %v, want %v", x, y, got, want)
}
