package background

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domshot/pkg/css"
	"domshot/pkg/dom"
	"domshot/pkg/geom"
)

func size(values ...css.BackgroundSizeValue) css.BackgroundSize { return values }

var (
	auto    = css.BackgroundSizeValue{Kind: css.SizeAuto}
	cover   = css.BackgroundSizeValue{Kind: css.SizeCover}
	contain = css.BackgroundSizeValue{Kind: css.SizeContain}
)

func length(l css.LengthPercentage) css.BackgroundSizeValue {
	return css.BackgroundSizeValue{Kind: css.SizeLength, Length: l}
}

func TestSize(t *testing.T) {
	area := geom.NewBounds(0, 0, 100, 50)
	ratio := func(r float64) Intrinsic { return Intrinsic{Ratio: r, HasRatio: true} }

	tests := []struct {
		name string
		size css.BackgroundSize
		in   Intrinsic
		w, h float64
	}{
		{"empty", nil, Intrinsic{}, 0, 0},
		{"lengths", size(length(css.Px(10)), length(css.Percent(50))), Intrinsic{}, 10, 25},
		{"cover same ratio", size(cover), ratio(2), 100, 50},
		{"cover square", size(cover), ratio(1), 100, 100},
		{"contain square", size(contain), ratio(1), 50, 50},
		{"cover no ratio", size(cover), Intrinsic{}, 100, 50},
		{"auto natural", size(auto, auto), NaturalSize(30, 20), 30, 20},
		{"auto gradient", size(auto), Intrinsic{}, 100, 50},
		{"auto width and ratio", size(auto), Intrinsic{Width: 40, HasWidth: true, Ratio: 2, HasRatio: true}, 40, 20},
		{"auto height only", size(auto), Intrinsic{Height: 10, HasHeight: true}, 100, 10},
		{"width with ratio", size(length(css.Px(60)), auto), NaturalSize(30, 10), 60, 20},
		{"height with ratio", size(auto, length(css.Px(20))), NaturalSize(30, 10), 60, 20},
		{"width without ratio", size(length(css.Px(60))), Intrinsic{}, 60, 50},
		{"height without ratio", size(auto, length(css.Px(5))), Intrinsic{}, 100, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := Size(tt.size, tt.in, area)
			require.NoError(t, err)
			assert.InDelta(t, tt.w, w, 1e-9)
			assert.InDelta(t, tt.h, h, 1e-9)
		})
	}
}

func TestSizeUnresolvable(t *testing.T) {
	_, _, err := Size(size(cover, cover), Intrinsic{}, geom.NewBounds(0, 0, 10, 10))
	require.NoError(t, err)

	_, _, err = Size(size(length(css.Px(1)), contain), Intrinsic{}, geom.NewBounds(0, 0, 10, 10))
	assert.True(t, errors.Is(err, ErrUnresolvableSize))
}

func TestRoundSpaceSize(t *testing.T) {
	tests := []struct {
		name   string
		repeat css.BackgroundRepeat
		w, h   float64
		wantW  float64
		wantH  float64
	}{
		{"round both axes", css.Round, 30, 45, 100.0 / 3, 50},
		{"space-round keeps width", css.SpaceRound, 30, 45, 30, 50},
		{"round-space keeps height", css.RoundSpace, 30, 45, 100.0 / 3, 45},
		{"halfway count rounds up", css.Round, 40, 40, 100.0 / 3, 100.0 / 3},
		{"repeat is untouched", css.Repeat, 30, 40, 30, 40},
		{"tile larger than area", css.Round, 500, 40, 100, 100.0 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := RoundSpaceSize(tt.repeat, tt.w, tt.h, 100, 100)
			assert.InDelta(t, tt.wantW, w, 1e-9)
			assert.InDelta(t, tt.wantH, h, 1e-9)
		})
	}
}

func TestRepeatPath(t *testing.T) {
	positioning := geom.NewBounds(10, 10, 100, 50)
	painting := geom.NewBounds(0, 0, 120, 70)

	extent := func(repeat css.BackgroundRepeat) geom.Bounds {
		return RepeatPath(repeat, 5, 6, 20, 10, positioning, painting).Extent()
	}
	assert.Equal(t, geom.NewBounds(10, 16, 100, 10), extent(css.RepeatX))
	assert.Equal(t, geom.NewBounds(15, 10, 20, 50), extent(css.RepeatY))
	assert.Equal(t, geom.NewBounds(15, 16, 20, 10), extent(css.NoRepeat))
	assert.Equal(t, painting, extent(css.Repeat))
	assert.Equal(t, painting, extent(css.Space))
}

func TestValueForIndex(t *testing.T) {
	values := []int{4, 5}
	assert.Equal(t, 5, ValueForIndex(values, 1))
	assert.Equal(t, 4, ValueForIndex(values, 7))
	assert.Equal(t, 0, ValueForIndex([]int(nil), 0))
}

func TestCalculate(t *testing.T) {
	el := dom.NewElement("div", nil, geom.NewBounds(10, 20, 100, 50))
	s := el.Styles
	for i := range s.Borders {
		s.Borders[i] = css.Border{Style: css.BorderSolid, Width: 5}
	}
	s.BackgroundRepeat = []css.BackgroundRepeat{css.NoRepeat}
	s.BackgroundPosition = [][2]css.LengthPercentage{{css.FiftyPercent, css.FiftyPercent}}

	r, err := Calculate(el, 0, NaturalSize(30, 20))
	require.NoError(t, err)
	// Padding box is 90x40 at (15, 25); the tile is centred in it.
	assert.Equal(t, 45.0, r.OffsetX)
	assert.Equal(t, 35.0, r.OffsetY)
	assert.Equal(t, geom.NewBounds(45, 35, 30, 20), r.Path.Extent())

	s.BackgroundSize = []css.BackgroundSize{size(length(css.Px(1)), contain)}
	_, err = Calculate(el, 0, Intrinsic{})
	assert.ErrorIs(t, err, ErrUnresolvableSize)
}
