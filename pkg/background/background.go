// Package background resolves where a background layer is painted: the
// positioning and painting areas, the tile size, and the tiled region.
package background

import (
	"errors"
	"fmt"
	"math"

	"domshot/pkg/css"
	"domshot/pkg/dom"
	"domshot/pkg/geom"
)

// ErrUnresolvableSize is returned when no tile size can be derived from the
// declared size and the image's intrinsic dimensions.
var ErrUnresolvableSize = errors.New("unable to calculate background-size")

// Intrinsic describes what is known of an image's natural size. Gradients
// have none of the three.
type Intrinsic struct {
	Width, Height, Ratio          float64
	HasWidth, HasHeight, HasRatio bool
}

// NaturalSize is the intrinsic size of a raster image.
func NaturalSize(w, h float64) Intrinsic {
	in := Intrinsic{Width: w, Height: h, HasWidth: true, HasHeight: true}
	if h != 0 {
		in.Ratio, in.HasRatio = w/h, true
	}
	return in
}

// Rendering is one resolved background layer.
type Rendering struct {
	Path    geom.Path
	OffsetX float64
	OffsetY float64
	Width   float64
	Height  float64
}

// ValueForIndex returns values[i], falling back to the first value.
func ValueForIndex[T any](values []T, i int) T {
	if i >= 0 && i < len(values) {
		return values[i]
	}
	if len(values) == 0 {
		var zero T
		return zero
	}
	return values[0]
}

func box(b css.Box, el *dom.Element) geom.Bounds {
	switch b {
	case css.BorderBox:
		return el.Bounds
	case css.ContentBox:
		return el.ContentBox()
	}
	return el.PaddingBox()
}

// PositioningArea is the box selected by background-origin.
func PositioningArea(origin css.Box, el *dom.Element) geom.Bounds { return box(origin, el) }

// PaintingArea is the box selected by background-clip.
func PaintingArea(clip css.Box, el *dom.Element) geom.Bounds { return box(clip, el) }

// Calculate resolves layer i of el's background against an image of the
// given intrinsic size.
func Calculate(el *dom.Element, i int, in Intrinsic) (Rendering, error) {
	s := el.Styles
	positioning := PositioningArea(ValueForIndex(s.BackgroundOrigin, i), el)
	painting := PaintingArea(ValueForIndex(s.BackgroundClip, i), el)

	w, h, err := Size(ValueForIndex(s.BackgroundSize, i), in, positioning)
	if err != nil {
		return Rendering{}, fmt.Errorf("background layer %d: %w", i, err)
	}
	repeat := ValueForIndex(s.BackgroundRepeat, i)
	w, h = RoundSpaceSize(repeat, w, h, positioning.Width, positioning.Height)

	x, y := css.AbsoluteTuple(ValueForIndex(s.BackgroundPosition, i), positioning.Width-w, positioning.Height-h)

	return Rendering{
		Path:    RepeatPath(repeat, x, y, w, h, positioning, painting),
		OffsetX: math.Round(positioning.Left + x),
		OffsetY: math.Round(positioning.Top + y),
		Width:   w,
		Height:  h,
	}, nil
}

func isLength(v css.BackgroundSizeValue) bool { return v.Kind == css.SizeLength }

// Size implements the background-size algorithm. A missing second value is
// treated as auto.
func Size(size css.BackgroundSize, in Intrinsic, area geom.Bounds) (float64, float64, error) {
	if len(size) == 0 {
		return 0, 0, nil
	}
	first := size[0]
	second := css.BackgroundSizeValue{Kind: css.SizeAuto}
	if len(size) > 1 {
		second = size[1]
	}

	if isLength(first) && isLength(second) {
		return first.Length.Absolute(area.Width), second.Length.Absolute(area.Height), nil
	}

	if first.Kind == css.SizeCover || first.Kind == css.SizeContain {
		if !in.HasRatio {
			return area.Width, area.Height, nil
		}
		target := area.Width / area.Height
		if (target < in.Ratio) != (first.Kind == css.SizeCover) {
			return area.Width, area.Width / in.Ratio, nil
		}
		return area.Height * in.Ratio, area.Height, nil
	}

	hasDimensions := in.HasWidth || in.HasHeight

	if first.Kind == css.SizeAuto && second.Kind == css.SizeAuto {
		switch {
		case in.HasWidth && in.HasHeight:
			return in.Width, in.Height, nil
		case !in.HasRatio && !hasDimensions:
			return area.Width, area.Height, nil
		case hasDimensions && in.HasRatio:
			if in.HasWidth {
				return in.Width, in.Width / in.Ratio, nil
			}
			return in.Height * in.Ratio, in.Height, nil
		}
		w, h := area.Width, area.Height
		if in.HasWidth {
			w = in.Width
		}
		if in.HasHeight {
			h = in.Height
		}
		return w, h, nil
	}

	if in.HasRatio {
		var w, h float64
		if isLength(first) {
			w = first.Length.Absolute(area.Width)
		} else if isLength(second) {
			h = second.Length.Absolute(area.Height)
		}
		if first.Kind == css.SizeAuto {
			w = h * in.Ratio
		} else if second.Kind == css.SizeAuto {
			h = w / in.Ratio
		}
		return w, h, nil
	}

	var w, h float64
	hasW, hasH := false, false
	if isLength(first) {
		w, hasW = first.Length.Absolute(area.Width), true
	} else if isLength(second) {
		h, hasH = second.Length.Absolute(area.Height), true
	}
	if hasW && second.Kind == css.SizeAuto {
		h, hasH = area.Height, true
		if in.HasWidth && in.HasHeight {
			h = w / in.Width * in.Height
		}
	}
	if hasH && first.Kind == css.SizeAuto {
		w, hasW = area.Width, true
		if in.HasWidth && in.HasHeight {
			w = h / in.Height * in.Width
		}
	}
	if hasW && hasH {
		return w, h, nil
	}
	return 0, 0, ErrUnresolvableSize
}

// RoundSpaceSize rescales a tile so a whole number of tiles fits the area
// along the axes that use round.
func RoundSpaceSize(repeat css.BackgroundRepeat, w, h, areaW, areaH float64) (float64, float64) {
	if repeat != css.Round && repeat != css.SpaceRound && repeat != css.RoundSpace {
		return w, h
	}
	count := func(area, tile float64) float64 {
		if tile <= 0 {
			return 1
		}
		return math.Max(1, math.Round(area/tile))
	}
	nx, ny := count(areaW, w), count(areaH, h)
	switch repeat {
	case css.Round:
		return areaW / nx, areaH / ny
	case css.SpaceRound:
		return w, areaH / ny
	default:
		return areaW / nx, h
	}
}

func rect(left, top, right, bottom float64) geom.Path {
	l, t, r, b := math.Round(left), math.Round(top), math.Round(right), math.Round(bottom)
	return geom.Path{
		geom.Vector{X: l, Y: t},
		geom.Vector{X: r, Y: t},
		geom.Vector{X: r, Y: b},
		geom.Vector{X: l, Y: b},
	}
}

// RepeatPath is the region a layer fills: a band for repeat-x and
// repeat-y, the single tile for no-repeat, the painting area otherwise.
func RepeatPath(repeat css.BackgroundRepeat, x, y, w, h float64, positioning, painting geom.Bounds) geom.Path {
	p := positioning
	switch repeat {
	case css.RepeatX:
		return rect(p.Left, p.Top+y, p.Left+p.Width, p.Top+y+h)
	case css.RepeatY:
		return rect(p.Left+x, p.Top, p.Left+x+w, p.Top+p.Height)
	case css.NoRepeat:
		return rect(p.Left+x, p.Top+y, p.Left+x+w, p.Top+y+h)
	}
	return rect(painting.Left, painting.Top, painting.Right(), painting.Bottom())
}
