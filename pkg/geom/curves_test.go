package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareBox() BoxMetrics {
	return BoxMetrics{
		Bounds:  NewBounds(0, 0, 100, 50),
		Border:  [4]float64{3, 6, 9, 12},
		Padding: [4]float64{1, 2, 3, 4},
	}
}

func TestBoxMetricsBoxes(t *testing.T) {
	m := squareBox()
	assert.Equal(t, NewBounds(12, 3, 82, 38), m.PaddingBox())
	assert.Equal(t, NewBounds(16, 4, 76, 34), m.ContentBox())
}

func TestBoundCurvesSquareCorners(t *testing.T) {
	c := NewBoundCurves(squareBox())

	assert.Equal(t, Vector{0, 0}, c.BorderBox[TopLeft])
	assert.Equal(t, Vector{100, 50}, c.BorderBox[BottomRight])
	assert.Equal(t, Vector{12, 3}, c.PaddingBox[TopLeft])
	assert.Equal(t, Vector{94, 41}, c.PaddingBox[BottomRight])
	assert.Equal(t, Vector{16, 4}, c.ContentBox[TopLeft])
	assert.Equal(t, Vector{4, 1}, c.BorderDoubleOuter[TopLeft])
	assert.Equal(t, Vector{8, 2}, c.BorderDoubleInner[TopLeft])
	assert.Equal(t, Vector{97, 45.5}, c.BorderStroke[BottomRight])

	assert.False(t, EqualPath(BorderBoxPath(c), PaddingBoxPath(c)))
}

func TestBoundCurvesRounded(t *testing.T) {
	m := BoxMetrics{Bounds: NewBounds(0, 0, 100, 100)}
	for i := range m.Radii {
		m.Radii[i] = [2]float64{10, 10}
	}
	c := NewBoundCurves(m)

	tl, ok := c.BorderBox[TopLeft].(BezierCurve)
	require.True(t, ok)
	assert.Equal(t, Vector{0, 10}, tl.Start)
	assert.Equal(t, Vector{10, 0}, tl.End)

	br, ok := c.BorderBox[BottomRight].(BezierCurve)
	require.True(t, ok)
	assert.Equal(t, Vector{100, 90}, br.Start)
	assert.Equal(t, Vector{90, 100}, br.End)

	// No border: padding box equals border box.
	assert.True(t, EqualPath(BorderBoxPath(c), PaddingBoxPath(c)))
}

func TestBoundCurvesScalesOverlappingRadii(t *testing.T) {
	m := BoxMetrics{Bounds: NewBounds(0, 0, 100, 100)}
	m.Radii[TopLeft] = [2]float64{100, 50}
	m.Radii[TopRight] = [2]float64{100, 50}
	c := NewBoundCurves(m)

	tr := c.BorderBox[TopRight].(BezierCurve)
	assert.InDelta(t, 50, tr.Start.X, 1e-9)
	assert.InDelta(t, 25, tr.End.Y, 1e-9)
}

func TestBorderPathSquare(t *testing.T) {
	m := BoxMetrics{Bounds: NewBounds(0, 0, 10, 10), Border: [4]float64{2, 2, 2, 2}}
	c := NewBoundCurves(m)

	top := BorderPath(c, Top)
	want := Path{Vector{0, 0}, Vector{10, 0}, Vector{8, 2}, Vector{2, 2}}
	assert.True(t, EqualPath(want, top), "got %v", top)

	left := BorderPath(c, Left)
	want = Path{Vector{0, 10}, Vector{0, 0}, Vector{2, 2}, Vector{2, 8}}
	assert.True(t, EqualPath(want, left), "got %v", left)

	stroke := BorderStrokePath(c, Bottom)
	want = Path{Vector{9, 9}, Vector{1, 9}}
	assert.True(t, EqualPath(want, stroke), "got %v", stroke)
}

func TestBorderPathRoundedMeetsOnDiagonal(t *testing.T) {
	m := BoxMetrics{Bounds: NewBounds(0, 0, 40, 40), Border: [4]float64{4, 4, 4, 4}}
	for i := range m.Radii {
		m.Radii[i] = [2]float64{10, 10}
	}
	c := NewBoundCurves(m)

	top := BorderPath(c, Top)
	right := BorderPath(c, Right)
	topEnd := top[1].(BezierCurve).End
	rightStart := right[0].(BezierCurve).Start
	assert.InDelta(t, topEnd.X, rightStart.X, 1e-9)
	assert.InDelta(t, topEnd.Y, rightStart.Y, 1e-9)
}
