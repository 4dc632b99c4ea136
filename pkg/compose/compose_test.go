package compose

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gg/scene"
	"github.com/stretchr/testify/assert"

	"domshot/pkg/css"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestBlendModes(t *testing.T) {
	tests := []struct {
		mode css.BlendMode
		dst  color.RGBA
		src  color.RGBA
		want color.RGBA
	}{
		{css.BlendNormal, color.RGBA{255, 0, 0, 255}, color.RGBA{0, 0, 255, 255}, color.RGBA{0, 0, 255, 255}},
		{css.BlendMultiply, color.RGBA{255, 128, 0, 255}, color.RGBA{128, 128, 255, 255}, color.RGBA{128, 64, 0, 255}},
		{css.BlendScreen, color.RGBA{0, 0, 0, 255}, color.RGBA{10, 20, 30, 255}, color.RGBA{10, 20, 30, 255}},
		{css.BlendDifference, color.RGBA{255, 255, 255, 255}, color.RGBA{255, 0, 55, 255}, color.RGBA{0, 255, 200, 255}},
		{css.BlendDarken, color.RGBA{100, 200, 50, 255}, color.RGBA{150, 100, 50, 255}, color.RGBA{100, 100, 50, 255}},
		{css.BlendLuminosity, color.RGBA{255, 0, 0, 255}, color.RGBA{0, 0, 0, 255}, color.RGBA{0, 0, 0, 255}},
		{css.BlendOverlay, color.RGBA{0, 0, 0, 255}, color.RGBA{200, 100, 50, 255}, color.RGBA{0, 0, 0, 255}},
		{css.BlendHardLight, color.RGBA{128, 128, 128, 255}, color.RGBA{0, 0, 0, 255}, color.RGBA{0, 0, 0, 255}},
		{css.BlendHue, color.RGBA{128, 128, 128, 255}, color.RGBA{255, 0, 0, 255}, color.RGBA{128, 128, 128, 255}},
		// Over a transparent backdrop every mode is plain source-over.
		{css.BlendMultiply, color.RGBA{}, color.RGBA{0, 255, 0, 255}, color.RGBA{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			dst := solid(1, 1, tt.dst)
			Blend(dst, solid(1, 1, tt.src), dst.Rect, tt.mode)
			got := dst.RGBAAt(0, 0)
			assert.InDelta(t, tt.want.R, got.R, 1)
			assert.InDelta(t, tt.want.G, got.G, 1)
			assert.InDelta(t, tt.want.B, got.B, 1)
			assert.Equal(t, tt.want.A, got.A)
		})
	}
}

func TestSceneModeCoversEveryBlendMode(t *testing.T) {
	for m := css.BlendNormal; m <= css.BlendLuminosity; m++ {
		assert.Equal(t, uint32(m), uint32(SceneMode(m)), m.String())
	}
	assert.Equal(t, scene.BlendNormal, SceneMode(css.BlendMode(99)))
}

func TestBlendSkipsTransparentSource(t *testing.T) {
	dst := solid(2, 1, color.RGBA{1, 2, 3, 255})
	Blend(dst, image.NewRGBA(dst.Rect), dst.Rect, css.BlendScreen)
	assert.Equal(t, color.RGBA{1, 2, 3, 255}, dst.RGBAAt(1, 0))
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter css.Filter
		in     color.RGBA
		want   color.RGBA
	}{
		{"grayscale", css.Filter{Type: css.FilterGrayscale, Amount: 1}, color.RGBA{255, 255, 255, 255}, color.RGBA{255, 255, 255, 255}},
		{"invert", css.Filter{Type: css.FilterInvert, Amount: 1}, color.RGBA{255, 0, 0, 255}, color.RGBA{0, 255, 255, 255}},
		{"brightness", css.Filter{Type: css.FilterBrightness, Amount: 0.5}, color.RGBA{200, 100, 0, 255}, color.RGBA{100, 50, 0, 255}},
		{"opacity", css.Filter{Type: css.FilterOpacity, Amount: 0.5}, color.RGBA{255, 255, 255, 255}, color.RGBA{128, 128, 128, 128}},
		{"contrast zero", css.Filter{Type: css.FilterContrast, Amount: 0}, color.RGBA{10, 200, 90, 255}, color.RGBA{128, 128, 128, 255}},
		{"hue identity", css.Filter{Type: css.FilterHueRotate}, color.RGBA{30, 60, 90, 255}, color.RGBA{30, 60, 90, 255}},
		{"saturate identity", css.Filter{Type: css.FilterSaturate, Amount: 1}, color.RGBA{30, 60, 90, 255}, color.RGBA{30, 60, 90, 255}},
		{"grayscale uses luminance", css.Filter{Type: css.FilterGrayscale, Amount: 1}, color.RGBA{255, 0, 0, 255}, color.RGBA{54, 54, 54, 255}},
		{"sepia", css.Filter{Type: css.FilterSepia, Amount: 1}, color.RGBA{255, 255, 255, 255}, color.RGBA{255, 255, 239, 255}},
		{"invert half", css.Filter{Type: css.FilterInvert, Amount: 0.5}, color.RGBA{0, 0, 0, 255}, color.RGBA{128, 128, 128, 255}},
		{"saturate zero", css.Filter{Type: css.FilterSaturate, Amount: 0}, color.RGBA{255, 0, 0, 255}, color.RGBA{54, 54, 54, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := solid(1, 1, tt.in)
			ApplyFilters(img, []css.Filter{tt.filter}, 1)
			got := img.RGBAAt(0, 0)
			assert.InDelta(t, tt.want.R, got.R, 1)
			assert.InDelta(t, tt.want.G, got.G, 1)
			assert.InDelta(t, tt.want.B, got.B, 1)
			assert.InDelta(t, tt.want.A, got.A, 1)
		})
	}
}

func TestFilterChainKeepsOrder(t *testing.T) {
	// Invert runs first, so red becomes half-transparent cyan.
	img := solid(1, 1, color.RGBA{255, 0, 0, 255})
	ApplyFilters(img, []css.Filter{
		{Type: css.FilterInvert, Amount: 1},
		{Type: css.FilterOpacity, Amount: 0.5},
	}, 1)
	got := img.RGBAAt(0, 0)
	assert.InDelta(t, 0, got.R, 1)
	assert.InDelta(t, 128, got.G, 1)
	assert.InDelta(t, 128, got.A, 1)
}

func TestBlurFilterScales(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 31, 31))
	for x := 0; x < 31; x++ {
		img.SetRGBA(x, 15, color.RGBA{255, 255, 255, 255})
	}
	narrow := image.NewRGBA(img.Rect)
	copy(narrow.Pix, img.Pix)

	ApplyFilters(narrow, []css.Filter{{Type: css.FilterBlur, Radius: 1}}, 1)
	ApplyFilters(img, []css.Filter{{Type: css.FilterBlur, Radius: 1}}, 4)

	assert.Equal(t, uint8(0), narrow.RGBAAt(15, 20).A)
	assert.Greater(t, img.RGBAAt(15, 20).A, uint8(5))
}

func TestZeroBlurIsSkipped(t *testing.T) {
	img := solid(3, 3, color.RGBA{0, 0, 0, 0})
	img.SetRGBA(1, 1, color.RGBA{255, 255, 255, 255})
	ApplyFilters(img, []css.Filter{{Type: css.FilterBlur}}, 1)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(1, 1))
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).A)
}

func TestBlurSpreadsAndConserves(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 21, 21))
	img.SetRGBA(10, 10, color.RGBA{255, 255, 255, 255})
	Blur(img, 2)

	center := img.RGBAAt(10, 10).A
	near := img.RGBAAt(12, 10).A
	assert.Greater(t, center, near)
	assert.Greater(t, near, uint8(0))
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).A)
}

func TestDropShadowPaintsBehind(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	DropShadow(img, css.Shadow{Color: css.Black, OffsetX: 4, OffsetY: 4}, 1)

	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(6, 6))
	assert.Equal(t, uint8(0), img.RGBAAt(9, 0).A)
}
