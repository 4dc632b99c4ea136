package compose

import (
	"image"
	"image/draw"

	"github.com/disintegration/gift"
)

// run draws img through the filters and writes the result back in place.
func run(img draw.Image, filters ...gift.Filter) {
	g := gift.New(filters...)
	b := img.Bounds()
	out := image.NewRGBA(g.Bounds(b))
	g.Draw(out, img)
	draw.Draw(img, b, out, out.Rect.Min, draw.Src)
}

// Blur applies a gaussian blur with the given standard deviation to every
// channel of img in place.
func Blur(img *image.RGBA, sigma float64) {
	if sigma <= 0 || img.Rect.Empty() {
		return
	}
	run(img, gift.GaussianBlur(float32(sigma)))
}

// BlurAlpha blurs a coverage mask, which is all shadows need.
func BlurAlpha(mask *image.Alpha, sigma float64) {
	if sigma <= 0 || mask.Rect.Empty() {
		return
	}
	run(mask, gift.GaussianBlur(float32(sigma)))
}
