package css

import (
	"math"
)

// Image is one background-image or list-style-image layer: a URLImage,
// a LinearGradient or a RadialGradient.
type Image interface {
	isImage()
}

// URLImage references an asset the image cache can resolve.
type URLImage struct {
	URL string
}

// ColorStop is an unprocessed gradient stop; Stop is nil when the position
// was omitted.
type ColorStop struct {
	Color Color
	Stop  *LengthPercentage
}

// GradientColorStop is a stop resolved to an offset in [0, 1] along the
// gradient line.
type GradientColorStop struct {
	Color Color
	Stop  float64
}

// LinearGradient is angled either by Angle (radians, 0 pointing up,
// clockwise) or, when Corner is set, toward a box corner.
type LinearGradient struct {
	Angle  float64
	Corner *[2]LengthPercentage
	Stops  []ColorStop
}

type RadialShape int

const (
	Circle RadialShape = iota
	Ellipse
)

type RadialExtent int

const (
	ClosestSide RadialExtent = iota
	FarthestSide
	ClosestCorner
	FarthestCorner
)

// RadialGradient is sized by Extent unless Size holds one (circle) or two
// (ellipse) explicit radii.
type RadialGradient struct {
	Shape    RadialShape
	Extent   RadialExtent
	Size     []LengthPercentage
	Position []LengthPercentage
	Stops    []ColorStop
}

func (URLImage) isImage()       {}
func (LinearGradient) isImage() {}
func (RadialGradient) isImage() {}

// ProcessColorStops resolves stop positions along a gradient line of the
// given length. Missing first and last positions default to 0% and 100%,
// positions never decrease, and runs of missing positions are spread
// evenly between their neighbours.
func ProcessColorStops(stops []ColorStop, lineLength float64) []GradientColorStop {
	if len(stops) == 0 {
		return nil
	}
	positions := make([]float64, len(stops))
	known := make([]bool, len(stops))
	previous := 0.0
	for i, s := range stops {
		stop := s.Stop
		switch {
		case stop == nil && i == 0:
			stop = &Zero
		case stop == nil && i == len(stops)-1:
			stop = &HundredPercent
		}
		if stop == nil {
			continue
		}
		abs := stop.Absolute(lineLength)
		positions[i] = math.Max(abs, previous)
		known[i] = true
		previous = abs
	}

	gapBegin := -1
	for i := range positions {
		if !known[i] {
			if gapBegin < 0 {
				gapBegin = i
			}
			continue
		}
		if gapBegin >= 0 {
			gapLength := i - gapBegin
			before := positions[gapBegin-1]
			step := (positions[i] - before) / float64(gapLength+1)
			for g := 1; g <= gapLength; g++ {
				positions[gapBegin+g-1] = before + step*float64(g)
			}
			gapBegin = -1
		}
	}

	out := make([]GradientColorStop, len(stops))
	for i, s := range stops {
		offset := 0.0
		if lineLength != 0 {
			offset = positions[i] / lineLength
		}
		out[i] = GradientColorStop{Color: s.Color, Stop: math.Max(0, math.Min(1, offset))}
	}
	return out
}

func angleFromCorner(corner [2]LengthPercentage, width, height float64) float64 {
	x := corner[0].Absolute(width) - width/2
	y := height/2 - corner[1].Absolute(height)
	return math.Mod(math.Atan2(y, x)+2*math.Pi, 2*math.Pi)
}

// GradientDirection returns the gradient line length and its end points
// for a width × height box.
func GradientDirection(g LinearGradient, width, height float64) (lineLength, x0, x1, y0, y1 float64) {
	radian := g.Angle
	if g.Corner != nil {
		radian = angleFromCorner(*g.Corner, width, height)
	}
	lineLength = math.Abs(width*math.Sin(radian)) + math.Abs(height*math.Cos(radian))
	halfWidth, halfHeight := width/2, height/2
	halfLine := lineLength / 2
	yDiff := math.Sin(radian-math.Pi/2) * halfLine
	xDiff := math.Cos(radian-math.Pi/2) * halfLine
	return lineLength, halfWidth - xDiff, halfWidth + xDiff, halfHeight - yDiff, halfHeight + yDiff
}

func distance(a, b float64) float64 { return math.Sqrt(a*a + b*b) }

func findCorner(width, height, x, y float64, closest bool) (float64, float64) {
	corners := [4][2]float64{{0, 0}, {0, height}, {width, 0}, {width, height}}
	best := math.Inf(-1)
	if closest {
		best = math.Inf(1)
	}
	var cx, cy float64
	for _, c := range corners {
		d := distance(x-c[0], y-c[1])
		if (closest && d < best) || (!closest && d > best) {
			best, cx, cy = d, c[0], c[1]
		}
	}
	return cx, cy
}

// RadialRadius returns the horizontal and vertical radii of a radial
// gradient centred at (x, y) in a width × height box.
func RadialRadius(g RadialGradient, x, y, width, height float64) (rx, ry float64) {
	if len(g.Size) > 0 {
		rx = g.Size[0].Absolute(width)
		ry = rx
		if len(g.Size) == 2 {
			ry = g.Size[1].Absolute(height)
		}
		return rx, ry
	}

	left, right := math.Abs(x), math.Abs(x-width)
	top, bottom := math.Abs(y), math.Abs(y-height)
	switch g.Extent {
	case ClosestSide:
		if g.Shape == Circle {
			rx = math.Min(math.Min(left, right), math.Min(top, bottom))
			return rx, rx
		}
		return math.Min(left, right), math.Min(top, bottom)
	case ClosestCorner:
		if g.Shape == Circle {
			rx = math.Min(math.Min(distance(x, y), distance(x, y-height)),
				math.Min(distance(x-width, y), distance(x-width, y-height)))
			return rx, rx
		}
		c := math.Min(top, bottom) / math.Min(left, right)
		cx, cy := findCorner(width, height, x, y, true)
		rx = distance(cx-x, (cy-y)/c)
		return rx, c * rx
	case FarthestSide:
		if g.Shape == Circle {
			rx = math.Max(math.Max(left, right), math.Max(top, bottom))
			return rx, rx
		}
		return math.Max(left, right), math.Max(top, bottom)
	default:
		if g.Shape == Circle {
			rx = math.Max(math.Max(distance(x, y), distance(x, y-height)),
				math.Max(distance(x-width, y), distance(x-width, y-height)))
			return rx, rx
		}
		c := math.Max(top, bottom) / math.Max(left, right)
		cx, cy := findCorner(width, height, x, y, false)
		rx = distance(cx-x, (cy-y)/c)
		return rx, c * rx
	}
}
