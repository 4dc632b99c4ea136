package geom

// Bounds is an axis-aligned rectangle in CSS pixels, as reported by the
// browser for an element's border box.
type Bounds struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Empty is the zero rectangle.
var Empty = Bounds{}

// NewBounds creates a Bounds from its four components.
func NewBounds(left, top, width, height float64) Bounds {
	return Bounds{Left: left, Top: top, Width: width, Height: height}
}

// Add returns a rectangle shifted by (x, y) and grown by (w, h).
func (b Bounds) Add(x, y, w, h float64) Bounds {
	return Bounds{Left: b.Left + x, Top: b.Top + y, Width: b.Width + w, Height: b.Height + h}
}

func (b Bounds) Right() float64  { return b.Left + b.Width }
func (b Bounds) Bottom() float64 { return b.Top + b.Height }

// IsEmpty reports whether the rectangle covers no area.
func (b Bounds) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Path returns the rectangle as a four corner path, clockwise from the
// top-left corner.
func (b Bounds) Path() Path {
	return Path{
		Vector{X: b.Left, Y: b.Top},
		Vector{X: b.Right(), Y: b.Top},
		Vector{X: b.Right(), Y: b.Bottom()},
		Vector{X: b.Left, Y: b.Bottom()},
	}
}
