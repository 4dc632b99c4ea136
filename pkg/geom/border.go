package geom

// sideCorners maps a side to the corners at its start and end.
var sideCorners = [4][2]Corner{
	Top:    {TopLeft, TopRight},
	Right:  {TopRight, BottomRight},
	Bottom: {BottomRight, BottomLeft},
	Left:   {BottomLeft, TopLeft},
}

// BorderPath is the region of one border side between the border box and
// the padding box. Rounded corners are split at their midpoint so adjacent
// sides meet on the diagonal.
func BorderPath(c BoundCurves, side int) Path {
	return sidePath(c.BorderBox, c.PaddingBox, side)
}

// BorderDoubleOuterPath is the outer stripe of a double border.
func BorderDoubleOuterPath(c BoundCurves, side int) Path {
	return sidePath(c.BorderBox, c.BorderDoubleOuter, side)
}

// BorderDoubleInnerPath is the inner stripe of a double border.
func BorderDoubleInnerPath(c BoundCurves, side int) Path {
	return sidePath(c.BorderDoubleInner, c.PaddingBox, side)
}

// BorderRidgeOuterPath is the outer half of a groove or ridge border.
func BorderRidgeOuterPath(c BoundCurves, side int) Path {
	return sidePath(c.BorderBox, c.BorderStroke, side)
}

// BorderRidgeInnerPath is the inner half of a groove or ridge border.
func BorderRidgeInnerPath(c BoundCurves, side int) Path {
	return sidePath(c.BorderStroke, c.PaddingBox, side)
}

// BorderStrokePath is the open centre line of a side, used to stroke
// dashed and dotted borders.
func BorderStrokePath(c BoundCurves, side int) Path {
	corners := sideCorners[side&3]
	return Path{
		half(c.BorderStroke[corners[0]], false),
		half(c.BorderStroke[corners[1]], true),
	}
}

func sidePath(outer, inner [4]Segment, side int) Path {
	corners := sideCorners[side&3]
	outer1, outer2 := outer[corners[0]], outer[corners[1]]
	inner1, inner2 := inner[corners[0]], inner[corners[1]]
	return Path{
		half(outer1, false),
		half(outer2, true),
		reversed(half(inner2, true)),
		reversed(half(inner1, false)),
	}
}

func half(s Segment, first bool) Segment {
	if c, ok := s.(BezierCurve); ok {
		return c.Subdivide(0.5, first)
	}
	return s
}

func reversed(s Segment) Segment {
	if c, ok := s.(BezierCurve); ok {
		return c.Reverse()
	}
	return s
}
