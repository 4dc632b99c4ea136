package css

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stopAt(c Color, lp LengthPercentage) ColorStop { return ColorStop{Color: c, Stop: &lp} }

func TestProcessColorStopsDefaults(t *testing.T) {
	stops := ProcessColorStops([]ColorStop{{Color: Black}, {Color: White}}, 200)
	require.Len(t, stops, 2)
	assert.Equal(t, 0.0, stops[0].Stop)
	assert.Equal(t, 1.0, stops[1].Stop)
}

func TestProcessColorStopsFillsGaps(t *testing.T) {
	stops := ProcessColorStops([]ColorStop{
		stopAt(Black, Px(20)),
		{Color: White},
		{Color: White},
		stopAt(Black, Px(80)),
	}, 100)
	got := []float64{stops[0].Stop, stops[1].Stop, stops[2].Stop, stops[3].Stop}
	want := []float64{0.2, 0.4, 0.6, 0.8}
	assert.InDeltaSlice(t, want, got, 1e-9)
}

func TestProcessColorStopsMonotonic(t *testing.T) {
	stops := ProcessColorStops([]ColorStop{
		stopAt(Black, Percent(60)),
		stopAt(White, Percent(20)),
		stopAt(Black, Percent(150)),
	}, 100)
	assert.InDelta(t, 0.6, stops[0].Stop, 1e-9)
	assert.InDelta(t, 0.6, stops[1].Stop, 1e-9)
	assert.InDelta(t, 1.0, stops[2].Stop, 1e-9, "clamped to 1")
}

func TestGradientDirection(t *testing.T) {
	// 180deg: top to bottom.
	length, x0, x1, y0, y1 := GradientDirection(LinearGradient{Angle: math.Pi}, 100, 50)
	assert.InDelta(t, 50, length, 1e-9)
	assert.InDelta(t, 50, x0, 1e-9)
	assert.InDelta(t, 50, x1, 1e-9)
	assert.InDelta(t, 0, y0, 1e-9)
	assert.InDelta(t, 50, y1, 1e-9)

	// 90deg: left to right.
	length, x0, x1, _, _ = GradientDirection(LinearGradient{Angle: math.Pi / 2}, 100, 50)
	assert.InDelta(t, 100, length, 1e-9)
	assert.InDelta(t, 0, x0, 1e-9)
	assert.InDelta(t, 100, x1, 1e-9)
}

func TestRadialRadius(t *testing.T) {
	g := RadialGradient{Shape: Circle, Extent: ClosestSide}
	rx, ry := RadialRadius(g, 30, 50, 100, 100)
	assert.Equal(t, 30.0, rx)
	assert.Equal(t, 30.0, ry)

	g = RadialGradient{Shape: Ellipse, Extent: FarthestSide}
	rx, ry = RadialRadius(g, 30, 50, 100, 100)
	assert.Equal(t, 70.0, rx)
	assert.Equal(t, 50.0, ry)

	g = RadialGradient{Shape: Circle, Extent: FarthestCorner}
	rx, _ = RadialRadius(g, 0, 0, 30, 40)
	assert.InDelta(t, 50, rx, 1e-9)

	g = RadialGradient{Size: []LengthPercentage{Px(10), Percent(50)}}
	rx, ry = RadialRadius(g, 0, 0, 100, 40)
	assert.Equal(t, 10.0, rx)
	assert.Equal(t, 20.0, ry)
}

func TestParseImageList(t *testing.T) {
	images, err := ParseImageList(`url("a.png"), linear-gradient(to right, rgb(255, 0, 0), rgb(0, 0, 255) 80%), radial-gradient(circle at 25% 75%, red, blue)`)
	require.NoError(t, err)
	require.Len(t, images, 3)

	assert.Equal(t, URLImage{URL: "a.png"}, images[0])

	lin, ok := images[1].(LinearGradient)
	require.True(t, ok)
	assert.InDelta(t, math.Pi/2, lin.Angle, 1e-9)
	require.Len(t, lin.Stops, 2)
	assert.Nil(t, lin.Stops[0].Stop)
	assert.Equal(t, Percent(80), *lin.Stops[1].Stop)

	rad, ok := images[2].(RadialGradient)
	require.True(t, ok)
	assert.Equal(t, Circle, rad.Shape)
	assert.Equal(t, []LengthPercentage{Percent(25), Percent(75)}, rad.Position)

	none, err := ParseImageList("none")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestParseLinearGradientCorner(t *testing.T) {
	img, err := ParseImage("linear-gradient(to bottom right, red, blue)")
	require.NoError(t, err)
	g := img.(LinearGradient)
	require.NotNil(t, g.Corner)
	assert.Equal(t, [2]LengthPercentage{HundredPercent, HundredPercent}, *g.Corner)
}
