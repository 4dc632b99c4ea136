package geom

import "math"

// Kappa places cubic control points so that a quarter circle is
// approximated within 0.03%.
var Kappa = 4 * ((math.Sqrt2 - 1) / 3)

// Side indexes the four box edges in CSS order.
const (
	Top = iota
	Right
	Bottom
	Left
)

// Corner indexes the four border-radius corners.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// BoxMetrics carries what is needed to derive an element's outlines: its
// border box, the used border and padding widths (top, right, bottom,
// left) and the absolute corner radii as (horizontal, vertical) pairs.
type BoxMetrics struct {
	Bounds  Bounds
	Border  [4]float64
	Padding [4]float64
	Radii   [4][2]float64
}

// PaddingBox is the border box shrunk by the border widths.
func (m BoxMetrics) PaddingBox() Bounds {
	return m.Bounds.Add(m.Border[Left], m.Border[Top],
		-(m.Border[Right] + m.Border[Left]), -(m.Border[Top] + m.Border[Bottom]))
}

// ContentBox is the padding box shrunk by the padding widths.
func (m BoxMetrics) ContentBox() Bounds {
	return m.PaddingBox().Add(m.Padding[Left], m.Padding[Top],
		-(m.Padding[Right] + m.Padding[Left]), -(m.Padding[Top] + m.Padding[Bottom]))
}

// BoundCurves holds the corner segments of every outline the painter
// needs, each as [top-left, top-right, bottom-right, bottom-left].
type BoundCurves struct {
	BorderBox         [4]Segment
	PaddingBox        [4]Segment
	ContentBox        [4]Segment
	BorderDoubleOuter [4]Segment
	BorderDoubleInner [4]Segment
	BorderStroke      [4]Segment
}

// NewBoundCurves derives the rounded outlines for a box. Radii that would
// overlap along an edge are scaled down together, as browsers do.
func NewBoundCurves(m BoxMetrics) BoundCurves {
	radii := m.Radii
	b := m.Bounds
	factor := 0.0
	if b.Width > 0 {
		factor = math.Max(factor, (radii[TopLeft][0]+radii[TopRight][0])/b.Width)
		factor = math.Max(factor, (radii[BottomLeft][0]+radii[BottomRight][0])/b.Width)
	}
	if b.Height > 0 {
		factor = math.Max(factor, (radii[TopLeft][1]+radii[BottomLeft][1])/b.Height)
		factor = math.Max(factor, (radii[TopRight][1]+radii[BottomRight][1])/b.Height)
	}
	if factor > 1 {
		for i := range radii {
			radii[i][0] /= factor
			radii[i][1] /= factor
		}
	}

	bw := m.Border
	scaled := func(f float64) [4]float64 {
		return [4]float64{bw[0] * f, bw[1] * f, bw[2] * f, bw[3] * f}
	}
	var content [4]float64
	for i := range content {
		content[i] = bw[i] + m.Padding[i]
	}

	return BoundCurves{
		BorderBox:         insetCorners(b, radii, [4]float64{}),
		PaddingBox:        insetCorners(b, radii, bw),
		ContentBox:        insetCorners(b, radii, content),
		BorderDoubleOuter: insetCorners(b, radii, scaled(1.0/3)),
		BorderDoubleInner: insetCorners(b, radii, scaled(2.0/3)),
		BorderStroke:      insetCorners(b, radii, scaled(0.5)),
	}
}

// insetCorners returns the corners of b shrunk by the per-side insets, with
// each radius reduced by the adjacent insets.
func insetCorners(b Bounds, radii [4][2]float64, in [4]float64) [4]Segment {
	left := b.Left + in[Left]
	top := b.Top + in[Top]
	right := b.Right() - in[Right]
	bottom := b.Bottom() - in[Bottom]

	tlh, tlv := math.Max(0, radii[TopLeft][0]-in[Left]), math.Max(0, radii[TopLeft][1]-in[Top])
	trh, trv := math.Max(0, radii[TopRight][0]-in[Right]), math.Max(0, radii[TopRight][1]-in[Top])
	brh, brv := math.Max(0, radii[BottomRight][0]-in[Right]), math.Max(0, radii[BottomRight][1]-in[Bottom])
	blh, blv := math.Max(0, radii[BottomLeft][0]-in[Left]), math.Max(0, radii[BottomLeft][1]-in[Bottom])

	return [4]Segment{
		corner(left, top, tlh, tlv, TopLeft, Vector{X: left, Y: top}),
		corner(right-trh, top, trh, trv, TopRight, Vector{X: right, Y: top}),
		corner(right-brh, bottom-brv, brh, brv, BottomRight, Vector{X: right, Y: bottom}),
		corner(left, bottom-blv, blh, blv, BottomLeft, Vector{X: left, Y: bottom}),
	}
}

func corner(x, y, r1, r2 float64, c Corner, square Vector) Segment {
	if r1 <= 0 && r2 <= 0 {
		return square
	}
	return CurvePoints(x, y, r1, r2, c)
}

// CurvePoints returns the quarter ellipse of radii (r1, r2) whose bounding
// box has its top-left at (x, y), oriented for the given corner and drawn
// clockwise.
func CurvePoints(x, y, r1, r2 float64, c Corner) BezierCurve {
	ox := r1 * Kappa
	oy := r2 * Kappa
	xm := x + r1
	ym := y + r2
	switch c {
	case TopLeft:
		return BezierCurve{
			Start:        Vector{X: x, Y: ym},
			StartControl: Vector{X: x, Y: ym - oy},
			EndControl:   Vector{X: xm - ox, Y: y},
			End:          Vector{X: xm, Y: y},
		}
	case TopRight:
		return BezierCurve{
			Start:        Vector{X: x, Y: y},
			StartControl: Vector{X: x + ox, Y: y},
			EndControl:   Vector{X: xm, Y: ym - oy},
			End:          Vector{X: xm, Y: ym},
		}
	case BottomRight:
		return BezierCurve{
			Start:        Vector{X: xm, Y: y},
			StartControl: Vector{X: xm, Y: y + oy},
			EndControl:   Vector{X: x + ox, Y: ym},
			End:          Vector{X: x, Y: ym},
		}
	default:
		return BezierCurve{
			Start:        Vector{X: xm, Y: ym},
			StartControl: Vector{X: xm - ox, Y: ym},
			EndControl:   Vector{X: x, Y: y + oy},
			End:          Vector{X: x, Y: y},
		}
	}
}

// BorderBoxPath is the outer edge of the element.
func BorderBoxPath(c BoundCurves) Path { return Path(c.BorderBox[:]) }

// PaddingBoxPath is the inner edge of the border.
func PaddingBoxPath(c BoundCurves) Path { return Path(c.PaddingBox[:]) }

func ContentBoxPath(c BoundCurves) Path { return Path(c.ContentBox[:]) }
