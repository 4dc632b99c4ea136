package geom

import "math"

// Segment is one corner descriptor of a Path: either a straight Vector or
// a BezierCurve.
type Segment interface {
	// StartPoint is where the segment begins; a Vector starts and ends at
	// itself.
	StartPoint() Vector
	EndPoint() Vector
	translate(dx, dy float64) Segment
}

// Vector is a point in CSS pixel space.
type Vector struct {
	X, Y float64
}

func (v Vector) Add(dx, dy float64) Vector { return Vector{X: v.X + dx, Y: v.Y + dy} }

func (v Vector) StartPoint() Vector               { return v }
func (v Vector) EndPoint() Vector                 { return v }
func (v Vector) translate(dx, dy float64) Segment { return v.Add(dx, dy) }

func lerp(a, b Vector, t float64) Vector {
	return Vector{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// BezierCurve is a cubic curve used for rounded corners.
type BezierCurve struct {
	Start        Vector
	StartControl Vector
	EndControl   Vector
	End          Vector
}

// Subdivide splits the curve at t (de Casteljau) and returns the first or
// second half.
func (c BezierCurve) Subdivide(t float64, firstHalf bool) BezierCurve {
	ab := lerp(c.Start, c.StartControl, t)
	bc := lerp(c.StartControl, c.EndControl, t)
	cd := lerp(c.EndControl, c.End, t)
	abbc := lerp(ab, bc, t)
	bccd := lerp(bc, cd, t)
	dest := lerp(abbc, bccd, t)
	if firstHalf {
		return BezierCurve{Start: c.Start, StartControl: ab, EndControl: abbc, End: dest}
	}
	return BezierCurve{Start: dest, StartControl: bccd, EndControl: cd, End: c.End}
}

// Reverse returns the same curve traversed end to start.
func (c BezierCurve) Reverse() BezierCurve {
	return BezierCurve{Start: c.End, StartControl: c.EndControl, EndControl: c.StartControl, End: c.Start}
}

func (c BezierCurve) Add(dx, dy float64) BezierCurve {
	return BezierCurve{
		Start:        c.Start.Add(dx, dy),
		StartControl: c.StartControl.Add(dx, dy),
		EndControl:   c.EndControl.Add(dx, dy),
		End:          c.End.Add(dx, dy),
	}
}

func (c BezierCurve) StartPoint() Vector               { return c.Start }
func (c BezierCurve) EndPoint() Vector                 { return c.End }
func (c BezierCurve) translate(dx, dy float64) Segment { return c.Add(dx, dy) }

// Path is an ordered outline. Consecutive segments are joined by straight
// lines and the outline is implicitly closed.
type Path []Segment

// Translate shifts every segment by (dx, dy).
func (p Path) Translate(dx, dy float64) Path {
	out := make(Path, len(p))
	for i, s := range p {
		out[i] = s.translate(dx, dy)
	}
	return out
}

// Reverse returns the outline traversed in the opposite direction, so a
// nonzero fill of an enclosing shape plus the reversed path leaves a hole.
func (p Path) Reverse() Path {
	out := make(Path, len(p))
	for i, s := range p {
		if c, ok := s.(BezierCurve); ok {
			s = c.Reverse()
		}
		out[len(p)-1-i] = s
	}
	return out
}

// Extent returns the bounding rectangle of the path's points and control
// points.
func (p Path) Extent() Bounds {
	if len(p) == 0 {
		return Empty
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	visit := func(v Vector) {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	for _, s := range p {
		switch seg := s.(type) {
		case Vector:
			visit(seg)
		case BezierCurve:
			visit(seg.Start)
			visit(seg.StartControl)
			visit(seg.EndControl)
			visit(seg.End)
		}
	}
	return Bounds{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}

// TransformPath shifts a four corner path by (dx, dy) and grows it by
// (dw, dh): the right-hand corners move by dw, the bottom corners by dh.
func TransformPath(p Path, dx, dy, dw, dh float64) Path {
	out := make(Path, len(p))
	for i, s := range p {
		switch i {
		case 0:
			out[i] = s.translate(dx, dy)
		case 1:
			out[i] = s.translate(dx+dw, dy)
		case 2:
			out[i] = s.translate(dx+dw, dy+dh)
		case 3:
			out[i] = s.translate(dx, dy+dh)
		default:
			out[i] = s
		}
	}
	return out
}

// EqualPath reports whether two paths have identical segments.
func EqualPath(a, b Path) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
