package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"domshot/pkg/css"
	"domshot/pkg/geom"
)

// Paint is a fill or stroke source defined in user space. It is mapped
// to device pixels through the transform current at drawing time.
type Paint interface {
	pattern(inv geom.Matrix, alpha float64) gg.Pattern
}

// Solid paints a single colour.
type Solid css.Color

func (s Solid) pattern(_ geom.Matrix, alpha float64) gg.Pattern {
	c := css.Color(s)
	return gg.NewSolidPattern(c.WithAlpha(alpha).NRGBA())
}

// LinearGradient runs from (X0, Y0) to (X1, Y1). Stop offsets are in
// [0, 1].
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []css.GradientColorStop
}

func (g LinearGradient) pattern(inv geom.Matrix, alpha float64) gg.Pattern {
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	length2 := dx*dx + dy*dy
	return &userPattern{inv: inv, alpha: alpha, sample: func(u, v float64) color.RGBA {
		t := 0.0
		if length2 > 0 {
			t = ((u-g.X0)*dx + (v-g.Y0)*dy) / length2
		}
		return stopColor(g.Stops, t)
	}}
}

// RadialGradient is circular around (X, Y), reaching the last stop at
// radius R.
type RadialGradient struct {
	X, Y, R float64
	Stops   []css.GradientColorStop
}

func (g RadialGradient) pattern(inv geom.Matrix, alpha float64) gg.Pattern {
	return &userPattern{inv: inv, alpha: alpha, sample: func(u, v float64) color.RGBA {
		t := 0.0
		if g.R > 0 {
			t = math.Hypot(u-g.X, v-g.Y) / g.R
		}
		return stopColor(g.Stops, t)
	}}
}

// Pattern repeats Image in both directions. The image covers Width x
// Height user units, so a tile rendered at device resolution stays sharp.
type Pattern struct {
	Image         image.Image
	Width, Height float64
}

// NewPattern tiles img at its own pixel size.
func NewPattern(img image.Image) Pattern {
	b := img.Bounds()
	return Pattern{Image: img, Width: float64(b.Dx()), Height: float64(b.Dy())}
}

func (p Pattern) pattern(inv geom.Matrix, alpha float64) gg.Pattern {
	b := p.Image.Bounds()
	sx := float64(b.Dx()) / p.Width
	sy := float64(b.Dy()) / p.Height
	return &userPattern{inv: inv, alpha: alpha, sample: func(u, v float64) color.RGBA {
		if b.Empty() || p.Width <= 0 || p.Height <= 0 {
			return color.RGBA{}
		}
		x := int(math.Floor(wrap(u, p.Width) * sx))
		y := int(math.Floor(wrap(v, p.Height) * sy))
		r, g, bl, a := p.Image.At(b.Min.X+min(x, b.Dx()-1), b.Min.Y+min(y, b.Dy()-1)).RGBA()
		return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: uint8(a >> 8)}
	}}
}

func wrap(v, period float64) float64 {
	v = math.Mod(v, period)
	if v < 0 {
		v += period
	}
	return v
}

// userPattern samples a user-space paint at device pixel centres.
type userPattern struct {
	inv    geom.Matrix
	alpha  float64
	sample func(u, v float64) color.RGBA
}

func (p *userPattern) ColorAt(x, y int) color.Color {
	u, v := p.inv.Apply(float64(x)+0.5, float64(y)+0.5)
	c := p.sample(u, v)
	if p.alpha < 1 {
		c = color.RGBA{
			R: uint8(float64(c.R)*p.alpha + 0.5),
			G: uint8(float64(c.G)*p.alpha + 0.5),
			B: uint8(float64(c.B)*p.alpha + 0.5),
			A: uint8(float64(c.A)*p.alpha + 0.5),
		}
	}
	return c
}

// stopColor interpolates premultiplied colours between gradient stops;
// t outside the stops clamps to the end colours.
func stopColor(stops []css.GradientColorStop, t float64) color.RGBA {
	if len(stops) == 0 {
		return color.RGBA{}
	}
	premul := func(c css.Color) [4]float64 {
		a := float64(c.A()) / 255
		return [4]float64{float64(c.R()) * a, float64(c.G()) * a, float64(c.B()) * a, float64(c.A())}
	}
	toRGBA := func(v [4]float64) color.RGBA {
		return color.RGBA{R: uint8(v[0] + 0.5), G: uint8(v[1] + 0.5), B: uint8(v[2] + 0.5), A: uint8(v[3] + 0.5)}
	}
	if t <= stops[0].Stop {
		return toRGBA(premul(stops[0].Color))
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.Stop {
			continue
		}
		span := b.Stop - a.Stop
		if span <= 0 {
			return toRGBA(premul(b.Color))
		}
		f := (t - a.Stop) / span
		ca, cb := premul(a.Color), premul(b.Color)
		var out [4]float64
		for k := range out {
			out[k] = ca[k] + (cb[k]-ca[k])*f
		}
		return toRGBA(out)
	}
	return toRGBA(premul(stops[len(stops)-1].Color))
}
