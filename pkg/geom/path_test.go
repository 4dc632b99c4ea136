package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBezierSubdivideHalves(t *testing.T) {
	c := BezierCurve{
		Start:        Vector{0, 0},
		StartControl: Vector{0, 10},
		EndControl:   Vector{10, 20},
		End:          Vector{20, 20},
	}
	first := c.Subdivide(0.5, true)
	second := c.Subdivide(0.5, false)

	assert.Equal(t, c.Start, first.Start)
	assert.Equal(t, first.End, second.Start, "halves must meet")
	assert.Equal(t, c.End, second.End)
	assert.InDelta(t, 6.25, first.End.X, 1e-9)
	assert.InDelta(t, 13.75, first.End.Y, 1e-9)
}

func TestBezierReverse(t *testing.T) {
	c := BezierCurve{Vector{0, 0}, Vector{1, 0}, Vector{2, 1}, Vector{2, 2}}
	r := c.Reverse()
	assert.Equal(t, c.End, r.Start)
	assert.Equal(t, c.EndControl, r.StartControl)
	assert.Equal(t, c, r.Reverse())
}

func TestTransformPath(t *testing.T) {
	p := NewBounds(10, 10, 100, 50).Path()
	got := TransformPath(p, 1, 2, 3, 4)
	want := Path{
		Vector{11, 12},
		Vector{114, 12},
		Vector{114, 66},
		Vector{11, 66},
	}
	if !EqualPath(got, want) {
		t.Errorf("TransformPath = %v, want %v", got, want)
	}
}

func TestPathReverse(t *testing.T) {
	curve := BezierCurve{Vector{0, 5}, Vector{0, 2}, Vector{2, 0}, Vector{5, 0}}
	p := Path{curve, Vector{10, 0}, Vector{10, 10}}
	r := p.Reverse()

	assert.Equal(t, Vector{10, 10}, r[0])
	assert.Equal(t, Vector{10, 0}, r[1])
	assert.Equal(t, curve.Reverse(), r[2])
	assert.True(t, EqualPath(p, r.Reverse()))
}

func TestEqualPath(t *testing.T) {
	a := NewBounds(0, 0, 10, 10).Path()
	b := NewBounds(0, 0, 10, 10).Path()
	c := NewBounds(0, 0, 10, 11).Path()

	assert.True(t, EqualPath(a, b))
	assert.False(t, EqualPath(a, c))
	assert.False(t, EqualPath(a, a[:3]))
}

func TestPathExtent(t *testing.T) {
	p := NewBounds(5, 6, 7, 8).Path().Translate(1, 1)
	e := p.Extent()
	assert.Equal(t, NewBounds(6, 7, 7, 8), e)
	assert.Equal(t, Empty, Path{}.Extent())
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// translate then scale: the scale applies to points first.
	m := Translate(10, 0).Multiply(Scale(2, 2))
	x, y := m.Apply(1, 1)
	assert.InDelta(t, 12, x, 1e-9)
	assert.InDelta(t, 2, y, 1e-9)

	r := Rotate(math.Pi / 2)
	x, y = r.Apply(1, 0)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 1, y, 1e-9)
}

func TestMatrixInvert(t *testing.T) {
	m := Translate(5, -3).Multiply(Rotate(0.3)).Multiply(Scale(2, 0.5))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("expected invertible matrix")
	}
	x, y := m.Apply(7, 11)
	bx, by := inv.Apply(x, y)
	assert.InDelta(t, 7, bx, 1e-9)
	assert.InDelta(t, 11, by, 1e-9)

	_, ok = Scale(0, 1).Invert()
	assert.False(t, ok)
}
