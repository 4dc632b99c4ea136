package visualtest

import (
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domshot/pkg/snapshot"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

type recorder struct{ failed bool }

func (r *recorder) Errorf(string, ...any) { r.failed = true }

func TestCompareIdentical(t *testing.T) {
	result, err := Compare(solid(10, 10, red), solid(10, 10, red), DefaultOptions())
	require.NoError(t, err)
	assert.True(t, result.Match)
	assert.Zero(t, result.DifferentPixels)
	assert.Nil(t, result.Diff)
}

func TestCompareDifferent(t *testing.T) {
	opts := DefaultOptions()
	opts.SaveDiffImage = true
	opts.DiffImagePath = filepath.Join(t.TempDir(), "diff.png")

	result, err := Compare(solid(10, 10, red), solid(10, 10, blue), opts)
	require.NoError(t, err)
	assert.False(t, result.Match)
	assert.Equal(t, 100, result.DifferentPixels)
	assert.Equal(t, 255, result.MaxDifference)
	assert.Equal(t, 100.0, result.DifferentPercent())
	require.NotNil(t, result.Diff)
	assert.Equal(t, red, result.Diff.RGBAAt(3, 3))
	assert.FileExists(t, opts.DiffImagePath)
}

func TestCompareTolerance(t *testing.T) {
	a := solid(10, 10, color.RGBA{100, 100, 100, 255})
	b := solid(10, 10, color.RGBA{102, 102, 102, 255})

	tests := []struct {
		tolerance int
		match     bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{5, true},
	}
	for _, tt := range tests {
		result, err := Compare(a, b, CompareOptions{Tolerance: tt.tolerance})
		require.NoError(t, err)
		assert.Equal(t, tt.match, result.Match, "tolerance %d", tt.tolerance)
	}
}

func TestCompareFuzzyRadius(t *testing.T) {
	actual := solid(10, 10, color.RGBA{255, 255, 255, 255})
	expected := solid(10, 10, color.RGBA{255, 255, 255, 255})
	actual.Set(4, 4, red)
	expected.Set(5, 4, red)

	strict, err := Compare(actual, expected, CompareOptions{})
	require.NoError(t, err)
	assert.False(t, strict.Match)

	// The shifted pixel finds its twin one column away; the white pixel
	// left behind finds white neighbours.
	fuzzy, err := Compare(actual, expected, CompareOptions{FuzzyRadius: 1})
	require.NoError(t, err)
	assert.True(t, fuzzy.Match)
}

func TestCompareMaxDifferentPercent(t *testing.T) {
	actual := solid(10, 10, blue)
	actual.Set(0, 0, red)

	result, err := Compare(actual, solid(10, 10, blue), CompareOptions{MaxDifferentPercent: 1})
	require.NoError(t, err)
	assert.True(t, result.Match)
	assert.Equal(t, 1, result.DifferentPixels)

	result, err = Compare(actual, solid(10, 10, blue), CompareOptions{MaxDifferentPercent: 0.5})
	require.NoError(t, err)
	assert.False(t, result.Match)
}

func TestCompareDifferentDimensions(t *testing.T) {
	result, err := Compare(solid(10, 10, red), solid(20, 20, red), DefaultOptions())
	assert.Error(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Match)
}

func TestCompareImagesFromFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	require.NoError(t, gg.SavePNG(a, solid(4, 4, red)))
	require.NoError(t, gg.SavePNG(b, solid(4, 4, red)))

	result, err := CompareImages(a, b, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, result.Match)

	_, err = CompareImages(a, filepath.Join(dir, "missing.png"), DefaultOptions())
	assert.Error(t, err)
}

func TestPixelAssertions(t *testing.T) {
	img := solid(2, 2, color.RGBA{10, 20, 30, 255})
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, PixelAt(img, 1, 1))
	assert.True(t, AssertPixel(t, img, 0, 0, color.NRGBA{11, 21, 29, 255}, 1))

	rec := &recorder{}
	assert.False(t, AssertPixel(rec, img, 0, 0, color.NRGBA{200, 20, 30, 255}, 1))
	assert.True(t, rec.failed)
}

func TestUpdateReferenceImage(t *testing.T) {
	src := filepath.Join("testdata", "reftests", "zindex.json")
	out := filepath.Join(t.TempDir(), "nested", "zindex.png")
	require.NoError(t, UpdateReferenceImage(src, out, 1))

	img, err := gg.LoadPNG(out)
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
	// Green is stacked above red where they overlap.
	AssertPixel(t, img, 40, 40, color.NRGBA{0, 128, 0, 255}, 1)
	AssertPixel(t, img, 60, 60, color.NRGBA{255, 0, 0, 255}, 1)
	AssertPixel(t, img, 5, 5, color.NRGBA{255, 255, 255, 255}, 0)
}

func TestRenderSnapshotRejectsInvalid(t *testing.T) {
	_, err := RenderSnapshotFile(filepath.Join(t.TempDir(), "missing.json"), 1)
	assert.Error(t, err)

	_, err = RenderSnapshot(t.Context(), &snapshot.Document{Width: 10}, 1, "")
	assert.ErrorIs(t, err, snapshot.ErrInvalid)
}
