package canvas

import (
	"math"

	"github.com/fogleman/gg"

	"domshot/pkg/geom"
)

type opKind uint8

const (
	opMove opKind = iota
	opLine
	opQuad
	opCubic
	opClose
)

// op is one path command in device coordinates.
type op struct {
	kind opKind
	pts  [3]geom.Vector
}

func (c *Canvas) device(x, y float64) geom.Vector {
	dx, dy := c.state.matrix.Apply(x, y)
	return geom.Vector{X: dx, Y: dy}
}

// BeginPath discards the current path.
func (c *Canvas) BeginPath() {
	c.path = c.path[:0]
	c.hasCurrent = false
}

func (c *Canvas) MoveTo(x, y float64) {
	p := c.device(x, y)
	c.path = append(c.path, op{kind: opMove, pts: [3]geom.Vector{p}})
	c.start, c.current, c.hasCurrent = p, p, true
}

func (c *Canvas) LineTo(x, y float64) {
	if !c.hasCurrent {
		c.MoveTo(x, y)
		return
	}
	p := c.device(x, y)
	c.path = append(c.path, op{kind: opLine, pts: [3]geom.Vector{p}})
	c.current = p
}

func (c *Canvas) QuadraticCurveTo(cx, cy, x, y float64) {
	if !c.hasCurrent {
		c.MoveTo(cx, cy)
	}
	p := c.device(x, y)
	c.path = append(c.path, op{kind: opQuad, pts: [3]geom.Vector{c.device(cx, cy), p}})
	c.current = p
}

func (c *Canvas) BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	if !c.hasCurrent {
		c.MoveTo(c1x, c1y)
	}
	p := c.device(x, y)
	c.path = append(c.path, op{kind: opCubic, pts: [3]geom.Vector{c.device(c1x, c1y), c.device(c2x, c2y), p}})
	c.current = p
}

func (c *Canvas) ClosePath() {
	if !c.hasCurrent {
		return
	}
	c.path = append(c.path, op{kind: opClose})
	c.current = c.start
}

// Rect adds a closed rectangle subpath.
func (c *Canvas) Rect(x, y, w, h float64) {
	c.MoveTo(x, y)
	c.LineTo(x+w, y)
	c.LineTo(x+w, y+h)
	c.LineTo(x, y+h)
	c.ClosePath()
}

// Arc adds a circular arc around (x, y) from angle a0 to a1, clockwise
// in screen space unless ccw is set. A line joins the current point to
// the arc start.
func (c *Canvas) Arc(x, y, r, a0, a1 float64, ccw bool) {
	sweep := a1 - a0
	if !ccw && sweep < 0 {
		sweep = math.Mod(sweep, 2*math.Pi) + 2*math.Pi
	} else if ccw && sweep > 0 {
		sweep = math.Mod(sweep, 2*math.Pi) - 2*math.Pi
	}
	if math.Abs(sweep) > 2*math.Pi {
		sweep = math.Copysign(2*math.Pi, sweep)
	}
	sx, sy := x+r*math.Cos(a0), y+r*math.Sin(a0)
	if c.hasCurrent {
		c.LineTo(sx, sy)
	} else {
		c.MoveTo(sx, sy)
	}
	n := int(math.Ceil(math.Abs(sweep) / (math.Pi / 2)))
	if n == 0 {
		return
	}
	step := sweep / float64(n)
	k := 4.0 / 3 * math.Tan(step/4)
	for i := 0; i < n; i++ {
		t0 := a0 + step*float64(i)
		t1 := t0 + step
		cos0, sin0 := math.Cos(t0), math.Sin(t0)
		cos1, sin1 := math.Cos(t1), math.Sin(t1)
		c.BezierCurveTo(
			x+r*(cos0-k*sin0), y+r*(sin0+k*cos0),
			x+r*(cos1+k*sin1), y+r*(sin1-k*cos1),
			x+r*cos1, y+r*sin1,
		)
	}
}

// AppendPath adds the outline of p as a new subpath without closing it.
func (c *Canvas) AppendPath(p geom.Path) {
	for i, seg := range p {
		start := seg.StartPoint()
		if i == 0 {
			c.MoveTo(start.X, start.Y)
		} else {
			c.LineTo(start.X, start.Y)
		}
		if b, ok := seg.(geom.BezierCurve); ok {
			c.BezierCurveTo(b.StartControl.X, b.StartControl.Y, b.EndControl.X, b.EndControl.Y, b.End.X, b.End.Y)
		}
	}
}

// SetPath replaces the current path with the closed outlines of paths.
func (c *Canvas) SetPath(paths ...geom.Path) {
	c.BeginPath()
	for _, p := range paths {
		c.AppendPath(p)
		c.ClosePath()
	}
}

func replay(gc *gg.Context, ops []op, dx, dy float64) {
	gc.ClearPath()
	for _, o := range ops {
		p := o.pts
		switch o.kind {
		case opMove:
			gc.MoveTo(p[0].X+dx, p[0].Y+dy)
		case opLine:
			gc.LineTo(p[0].X+dx, p[0].Y+dy)
		case opQuad:
			gc.QuadraticTo(p[0].X+dx, p[0].Y+dy, p[1].X+dx, p[1].Y+dy)
		case opCubic:
			gc.CubicTo(p[0].X+dx, p[0].Y+dy, p[1].X+dx, p[1].Y+dy, p[2].X+dx, p[2].Y+dy)
		case opClose:
			gc.ClosePath()
		}
	}
}

// flatten turns each subpath into a polyline.
func flatten(ops []op) [][]geom.Vector {
	var (
		out       [][]geom.Vector
		cur       []geom.Vector
		last, beg geom.Vector
	)
	flush := func() {
		if len(cur) > 1 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, o := range ops {
		switch o.kind {
		case opMove:
			flush()
			beg, last = o.pts[0], o.pts[0]
			cur = []geom.Vector{last}
		case opLine:
			last = o.pts[0]
			cur = append(cur, last)
		case opQuad:
			cur = append(cur, sampleQuad(last, o.pts[0], o.pts[1])...)
			last = o.pts[1]
		case opCubic:
			cur = append(cur, sampleCubic(last, o.pts[0], o.pts[1], o.pts[2])...)
			last = o.pts[2]
		case opClose:
			cur = append(cur, beg)
			last = beg
		}
	}
	flush()
	return out
}

func segments(n float64) int {
	return max(4, min(64, int(math.Ceil(n/2))))
}

func sampleQuad(p0, p1, p2 geom.Vector) []geom.Vector {
	n := segments(math.Hypot(p1.X-p0.X, p1.Y-p0.Y) + math.Hypot(p2.X-p1.X, p2.Y-p1.Y))
	out := make([]geom.Vector, 0, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		out = append(out, geom.Vector{
			X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
			Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
		})
	}
	return out
}

func sampleCubic(p0, p1, p2, p3 geom.Vector) []geom.Vector {
	n := segments(math.Hypot(p1.X-p0.X, p1.Y-p0.Y) + math.Hypot(p2.X-p1.X, p2.Y-p1.Y) + math.Hypot(p3.X-p2.X, p3.Y-p2.Y))
	out := make([]geom.Vector, 0, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		out = append(out, geom.Vector{
			X: u*u*u*p0.X + 3*u*u*t*p1.X + 3*u*t*t*p2.X + t*t*t*p3.X,
			Y: u*u*u*p0.Y + 3*u*u*t*p1.Y + 3*u*t*t*p2.Y + t*t*t*p3.Y,
		})
	}
	return out
}

// dots places a circle of radius r at the start of every dash period
// along the path. dash holds device-space lengths with the on-length
// first.
func dots(ops []op, r float64, dash []float64) []op {
	period := 0.0
	for _, d := range dash {
		period += d
	}
	if period <= 0 || r <= 0 {
		return nil
	}
	var out []op
	circle := func(p geom.Vector) {
		const k = 0.5522847498
		out = append(out,
			op{kind: opMove, pts: [3]geom.Vector{{X: p.X + r, Y: p.Y}}},
			op{kind: opCubic, pts: [3]geom.Vector{{X: p.X + r, Y: p.Y + r*k}, {X: p.X + r*k, Y: p.Y + r}, {X: p.X, Y: p.Y + r}}},
			op{kind: opCubic, pts: [3]geom.Vector{{X: p.X - r*k, Y: p.Y + r}, {X: p.X - r, Y: p.Y + r*k}, {X: p.X - r, Y: p.Y}}},
			op{kind: opCubic, pts: [3]geom.Vector{{X: p.X - r, Y: p.Y - r*k}, {X: p.X - r*k, Y: p.Y - r}, {X: p.X, Y: p.Y - r}}},
			op{kind: opCubic, pts: [3]geom.Vector{{X: p.X + r*k, Y: p.Y - r}, {X: p.X + r, Y: p.Y - r*k}, {X: p.X + r, Y: p.Y}}},
			op{kind: opClose},
		)
	}
	for _, line := range flatten(ops) {
		next := 0.0
		walked := 0.0
		for i := 1; i < len(line); i++ {
			a, b := line[i-1], line[i]
			l := math.Hypot(b.X-a.X, b.Y-a.Y)
			for next <= walked+l+1e-9 {
				t := 0.0
				if l > 0 {
					t = (next - walked) / l
				}
				circle(geom.Vector{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t})
				next += period
			}
			walked += l
		}
	}
	return out
}
