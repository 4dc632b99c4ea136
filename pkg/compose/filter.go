package compose

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/gift"

	"domshot/pkg/css"
)

// colorMatrix is a 3x3 matrix over unpremultiplied RGB. gift's Grayscale,
// Saturation and Hue work in Rec.601 or HSL, so the CSS matrices run
// through gift.ColorFunc instead.
type colorMatrix [9]float32

func (m colorMatrix) filter() gift.Filter {
	return gift.ColorFunc(func(r, g, b, a float32) (float32, float32, float32, float32) {
		return m[0]*r + m[1]*g + m[2]*b,
			m[3]*r + m[4]*g + m[5]*b,
			m[6]*r + m[7]*g + m[8]*b,
			a
	})
}

func grayscaleMatrix(a float32) colorMatrix {
	a = 1 - min(1, a)
	return colorMatrix{
		0.2126 + 0.7874*a, 0.7152 - 0.7152*a, 0.0722 - 0.0722*a,
		0.2126 - 0.2126*a, 0.7152 + 0.2848*a, 0.0722 - 0.0722*a,
		0.2126 - 0.2126*a, 0.7152 - 0.7152*a, 0.0722 + 0.9278*a,
	}
}

func saturateMatrix(s float32) colorMatrix {
	return colorMatrix{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s,
	}
}

func hueRotateMatrix(angle float64) colorMatrix {
	c, s := float32(math.Cos(angle)), float32(math.Sin(angle))
	return colorMatrix{
		0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928,
		0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283,
		0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072,
	}
}

func perChannel(fn func(float32) float32) gift.Filter {
	return gift.ColorFunc(func(r, g, b, a float32) (float32, float32, float32, float32) {
		return fn(r), fn(g), fn(b), a
	})
}

// Filter returns the gift filter for one CSS filter function, or nil for
// drop-shadow, which is not a per-pixel operation. Lengths are CSS pixels
// multiplied by scale.
func Filter(f css.Filter, scale float64) gift.Filter {
	amount := float32(f.Amount)
	switch f.Type {
	case css.FilterBlur:
		return gift.GaussianBlur(float32(f.Radius * scale))
	case css.FilterBrightness:
		return perChannel(func(v float32) float32 { return v * amount })
	case css.FilterContrast:
		return perChannel(func(v float32) float32 { return (v-0.5)*amount + 0.5 })
	case css.FilterGrayscale:
		return grayscaleMatrix(amount).filter()
	case css.FilterSepia:
		return gift.Sepia(min(1, amount) * 100)
	case css.FilterSaturate:
		return saturateMatrix(amount).filter()
	case css.FilterHueRotate:
		return hueRotateMatrix(f.Angle).filter()
	case css.FilterInvert:
		if amount >= 1 {
			return gift.Invert()
		}
		return perChannel(func(v float32) float32 { return v*(1-amount) + (1-v)*amount })
	case css.FilterOpacity:
		amount = min(1, amount)
		return gift.ColorFunc(func(r, g, b, a float32) (float32, float32, float32, float32) {
			return r, g, b, a * amount
		})
	}
	return nil
}

// ApplyFilters runs a filter chain over img in order. Consecutive pixel
// filters share one gift pass; drop-shadow splits the chain.
func ApplyFilters(img *image.RGBA, filters []css.Filter, scale float64) {
	var pending []gift.Filter
	flush := func() {
		if len(pending) > 0 && !img.Rect.Empty() {
			run(img, pending...)
		}
		pending = pending[:0]
	}
	for _, f := range filters {
		if f.Type == css.FilterDropShadow {
			flush()
			DropShadow(img, f.Shadow, scale)
			continue
		}
		if f.Type == css.FilterBlur && f.Radius <= 0 {
			continue
		}
		if gf := Filter(f, scale); gf != nil {
			pending = append(pending, gf)
		}
	}
	flush()
}

// DropShadow paints a blurred, tinted and offset copy of img's alpha
// beneath it.
func DropShadow(img *image.RGBA, s css.Shadow, scale float64) {
	r := img.Rect
	dx, dy := int(math.Round(s.OffsetX*scale)), int(math.Round(s.OffsetY*scale))

	mask := image.NewAlpha(r)
	draw.Draw(mask, r.Add(image.Pt(dx, dy)), img, r.Min, draw.Src)
	BlurAlpha(mask, s.Blur*scale/2)

	shadow := image.NewRGBA(r)
	draw.DrawMask(shadow, r, image.NewUniform(s.Color.NRGBA()), image.Point{}, mask, r.Min, draw.Src)
	draw.Draw(shadow, r, img, r.Min, draw.Over)
	draw.Draw(img, r, shadow, r.Min, draw.Src)
}
