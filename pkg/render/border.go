package render

import (
	"math"

	"domshot/pkg/canvas"
	"domshot/pkg/css"
	"domshot/pkg/geom"
)

func (r *Renderer) renderSolidBorder(col css.Color, side int, curves geom.BoundCurves) {
	c := r.canvas
	c.SetPath(geom.BorderPath(curves, side))
	c.SetFillColor(col)
	c.Fill()
}

// renderDoubleBorder paints two stripes; thinner borders have no room for
// the gap and are painted solid.
func (r *Renderer) renderDoubleBorder(col css.Color, width float64, side int, curves geom.BoundCurves) {
	if width < 3 {
		r.renderSolidBorder(col, side, curves)
		return
	}
	c := r.canvas
	c.SetFillColor(col)
	c.SetPath(geom.BorderDoubleOuterPath(curves, side))
	c.Fill()
	c.SetPath(geom.BorderDoubleInnerPath(curves, side))
	c.Fill()
}

// darkSide reports whether a 3D style shades side with the darker tint.
// Inset and groove darken the top and left sides; outset and ridge the
// other two.
func darkSide(style css.BorderStyle, side int) bool {
	topLeft := side == geom.Top || side == geom.Left
	switch style {
	case css.BorderInset, css.BorderGroove:
		return topLeft
	}
	return !topLeft
}

func tint(col css.Color, dark bool) css.Color {
	if dark {
		return col.Darker()
	}
	return col.Lighter()
}

func (r *Renderer) render3DBorder(col css.Color, style css.BorderStyle, side int, curves geom.BoundCurves) {
	c := r.canvas
	dark := darkSide(style, side)
	if style == css.BorderInset || style == css.BorderOutset {
		c.SetPath(geom.BorderPath(curves, side))
		c.SetFillColor(tint(col, dark))
		c.Fill()
		return
	}
	// Groove and ridge split the side in two halves shaded oppositely.
	c.SetPath(geom.BorderRidgeOuterPath(curves, side))
	c.SetFillColor(tint(col, dark))
	c.Fill()
	c.SetPath(geom.BorderRidgeInnerPath(curves, side))
	c.SetFillColor(tint(col, !dark))
	c.Fill()
}

// DashPattern spaces dashes of a border of the given width so a side of
// length starts and ends with a full dash. ok is false when the side is
// too short to be dashed at all.
func DashPattern(style css.BorderStyle, width, length float64) (dash, space float64, ok bool) {
	if width < 3 {
		dash, space = width*3, width*2
	} else {
		dash, space = width*2, width
	}
	if style == css.BorderDotted {
		dash, space = width, width
	}

	switch {
	case length <= dash*2:
		return 0, 0, false
	case length <= dash*2+space:
		f := length / (dash*2 + space)
		return dash * f, space * f, true
	}

	n := math.Floor((length + space) / (dash + space))
	minSpace := (length - n*dash) / (n - 1)
	maxSpace := (length - (n+1)*dash) / n
	if maxSpace <= 0 || math.Abs(space-minSpace) < math.Abs(space-maxSpace) {
		return dash, minSpace, true
	}
	return dash, maxSpace, true
}

func (r *Renderer) renderDashedDottedBorder(col css.Color, width float64, side int, curves geom.BoundCurves, style css.BorderStyle) {
	c := r.canvas
	c.Scoped(func() {
		strokePaths := geom.BorderStrokePath(curves, side)
		boxPaths := geom.BorderPath(curves, side)
		if style == css.BorderDashed {
			c.SetPath(boxPaths)
			c.Clip()
		}

		start, end := boxPaths[0].StartPoint(), boxPaths[1].EndPoint()
		length := math.Abs(start.Y - end.Y)
		if side == geom.Top || side == geom.Bottom {
			length = math.Abs(start.X - end.X)
		}

		c.BeginPath()
		if style == css.BorderDotted {
			c.AppendPath(strokePaths)
		} else {
			c.AppendPath(boxPaths[:2])
		}

		if dash, space, ok := DashPattern(style, width, length); ok {
			if style == css.BorderDotted {
				c.SetLineDash([]float64{0, dash + space})
			} else {
				c.SetLineDash([]float64{dash, space})
			}
		}

		if style == css.BorderDotted {
			c.SetLineCap(canvas.CapRound)
			c.SetLineWidth(width)
		} else {
			c.SetLineWidth(width*2 + 1.1)
		}
		c.SetStrokeColor(col)
		c.Stroke()
		c.SetLineDash(nil)

		if style != css.BorderDashed {
			return
		}
		// Dashes stop short of rounded corners; join them with a solid
		// line along the straight part.
		if _, curved := boxPaths[0].(geom.BezierCurve); curved {
			r.strokeLine(boxPaths[3].EndPoint(), boxPaths[0].StartPoint())
		}
		if _, curved := boxPaths[1].(geom.BezierCurve); curved {
			r.strokeLine(boxPaths[1].EndPoint(), boxPaths[2].StartPoint())
		}
	})
}

func (r *Renderer) strokeLine(from, to geom.Vector) {
	c := r.canvas
	c.BeginPath()
	c.MoveTo(from.X, from.Y)
	c.LineTo(to.X, to.Y)
	c.Stroke()
}
