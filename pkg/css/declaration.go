package css

import (
	"math"

	"domshot/pkg/geom"
)

// Shadow is one box-shadow or text-shadow entry, in CSS pixels.
type Shadow struct {
	Color   Color
	OffsetX float64
	OffsetY float64
	Blur    float64
	Spread  float64
	Inset   bool
}

type FilterType int

const (
	FilterBlur FilterType = iota
	FilterBrightness
	FilterContrast
	FilterDropShadow
	FilterGrayscale
	FilterHueRotate
	FilterInvert
	FilterOpacity
	FilterSaturate
	FilterSepia
)

var filterTypeNames = []string{
	"blur", "brightness", "contrast", "drop-shadow", "grayscale",
	"hue-rotate", "invert", "opacity", "saturate", "sepia",
}

func (f FilterType) String() string { return keywordName(filterTypeNames, f) }

// Filter is one function of a filter chain. Amount is used by the
// numeric functions, Angle (radians) by hue-rotate, Radius (px) by blur
// and Shadow by drop-shadow.
type Filter struct {
	Type   FilterType
	Amount float64
	Angle  float64
	Radius float64
	Shadow Shadow
}

// ZIndex is "auto" or an integer order.
type ZIndex struct {
	Auto  bool
	Order int
}

// BackgroundSizeKind tags one component of a background-size value.
type BackgroundSizeKind int

const (
	SizeAuto BackgroundSizeKind = iota
	SizeLength
	SizeCover
	SizeContain
)

type BackgroundSizeValue struct {
	Kind   BackgroundSizeKind
	Length LengthPercentage
}

// BackgroundSize holds one or two components; cover and contain are
// always alone.
type BackgroundSize []BackgroundSizeValue

type LineHeightKind int

const (
	LineHeightNormal LineHeightKind = iota
	LineHeightNumber
	LineHeightLength
)

type LineHeight struct {
	Kind  LineHeightKind
	Value float64
}

// Compute resolves the line height in pixels for a font size. "normal"
// is taken as 1.2.
func (l LineHeight) Compute(fontSize float64) float64 {
	switch l.Kind {
	case LineHeightNumber:
		return l.Value * fontSize
	case LineHeightLength:
		return l.Value
	}
	return fontSize * 1.2
}

// DecorationThickness is text-decoration-thickness; auto and from-font
// both paint 1px.
type DecorationThickness struct {
	Auto   bool
	Length LengthPercentage
}

// Absolute resolves the thickness; percentages are of the text run height.
func (t DecorationThickness) Absolute(height float64) float64 {
	if t.Auto {
		return 1
	}
	return t.Length.Absolute(height)
}

// Scale2D is the scale property.
type Scale2D struct {
	X, Y float64
}

// Translate2D is the translate property; percentages refer to the border
// box.
type Translate2D struct {
	X, Y LengthPercentage
}

// Border is the used style of one side.
type Border struct {
	Style BorderStyle
	Color Color
	Width float64
}

// Declaration is the resolved style of one element: every property the
// painter reads, already typed.
type Declaration struct {
	AccentColor *Color

	BackgroundClip     []Box
	BackgroundColor    Color
	BackgroundImage    []Image
	BackgroundOrigin   []Box
	BackgroundPosition [][2]LengthPercentage
	BackgroundRepeat   []BackgroundRepeat
	BackgroundSize     []BackgroundSize

	Borders      [4]Border
	BorderRadius [4][2]LengthPercentage
	BoxShadow    []Shadow

	Color     Color
	Direction Direction
	Display   Display
	Filter    []Filter
	Float     Float

	FontFamily  []string
	FontSize    float64
	FontStyle   FontStyle
	FontVariant []string
	FontWeight  int

	Isolation      bool
	LetterSpacing  float64
	LineHeight     LineHeight
	ListStyleImage Image
	ListStyleType  ListStyleType
	MixBlendMode   BlendMode

	ObjectFit      ObjectFit
	ObjectPosition [2]LengthPercentage
	Opacity        float64
	OverflowX      Overflow
	OverflowY      Overflow
	Padding        [4]LengthPercentage
	PaintOrder     []PaintOrderLayer
	Position       Position

	TextAlign               TextAlign
	TextDecorationColor     Color
	TextDecorationLine      []TextDecorationLine
	TextDecorationStyle     TextDecorationStyle
	TextDecorationThickness DecorationThickness
	TextShadow              []Shadow

	Transform       *geom.Matrix
	TransformOrigin [2]LengthPercentage
	Rotate          *float64
	Scale           *Scale2D
	Translate       *Translate2D

	Visibility            Visibility
	WebkitTextFillColor   Color
	WebkitTextStrokeColor Color
	WebkitTextStrokeWidth float64
	ZIndex                ZIndex
}

// Defaults returns the initial values of every property.
func Defaults() Declaration {
	return Declaration{
		BackgroundClip:          []Box{BorderBox},
		BackgroundOrigin:        []Box{PaddingBox},
		BackgroundPosition:      [][2]LengthPercentage{{Zero, Zero}},
		BackgroundRepeat:        []BackgroundRepeat{Repeat},
		BackgroundSize:          []BackgroundSize{{{Kind: SizeAuto}, {Kind: SizeAuto}}},
		Color:                   Black,
		Display:                 DisplayInline,
		FontFamily:              []string{"sans-serif"},
		FontSize:                16,
		FontWeight:              400,
		ListStyleType:           ListDisc,
		ObjectPosition:          [2]LengthPercentage{FiftyPercent, FiftyPercent},
		Opacity:                 1,
		PaintOrder:              append([]PaintOrderLayer(nil), DefaultPaintOrder...),
		TextDecorationThickness: DecorationThickness{Auto: true},
		TransformOrigin:         [2]LengthPercentage{FiftyPercent, FiftyPercent},
		WebkitTextFillColor:     Black,
		ZIndex:                  ZIndex{Auto: true},
	}
}

// IsVisible reports whether the element paints at all.
func (d *Declaration) IsVisible() bool {
	return d.Display != DisplayNone && d.Opacity > 0 && d.Visibility == VisibilityVisible
}

// IsTransformed is true when transform or any individual transform
// property is set.
func (d *Declaration) IsTransformed() bool {
	return d.Transform != nil || d.Rotate != nil || d.Scale != nil || d.Translate != nil
}

func (d *Declaration) IsPositioned() bool { return d.Position != PositionStatic }

func (d *Declaration) IsPositionedWithZIndex() bool {
	return d.IsPositioned() && !d.ZIndex.Auto
}

func (d *Declaration) IsFloating() bool { return d.Float != FloatNone }

func (d *Declaration) IsInlineLevel() bool {
	return d.Display.Has(DisplayInline | DisplayInlineBlock | DisplayInlineFlex |
		DisplayInlineGrid | DisplayInlineListItem | DisplayInlineTable)
}

// IsPaintedAsInline is true only for pure inline boxes. Inline blocks,
// flexes, grids and tables establish their own formatting context and
// paint with the block-level descendants.
func (d *Declaration) IsPaintedAsInline() bool {
	return d.Display.Has(DisplayInline) &&
		!d.Display.Has(DisplayInlineBlock|DisplayInlineFlex|DisplayInlineGrid|DisplayInlineTable)
}

// ClipsOverflow reports whether descendants are clipped to the padding box.
func (d *Declaration) ClipsOverflow() bool { return d.OverflowX != OverflowVisible }

// DecorationColor is text-decoration-color, falling back to color.
func (d *Declaration) DecorationColor() Color {
	if d.TextDecorationColor != 0 {
		return d.TextDecorationColor
	}
	return d.Color
}

// AbsoluteRadii resolves border-radius against the border box size.
func (d *Declaration) AbsoluteRadii(width, height float64) [4][2]float64 {
	var out [4][2]float64
	for i, r := range d.BorderRadius {
		out[i][0] = math.Max(0, r[0].Absolute(width))
		out[i][1] = math.Max(0, r[1].Absolute(height))
	}
	return out
}

// AbsolutePadding resolves padding; percentages refer to the width.
func (d *Declaration) AbsolutePadding(width float64) [4]float64 {
	var out [4]float64
	for i, p := range d.Padding {
		out[i] = p.Absolute(width)
	}
	return out
}

// BorderWidths lists the used border widths, top, right, bottom, left.
func (d *Declaration) BorderWidths() [4]float64 {
	var out [4]float64
	for i, b := range d.Borders {
		out[i] = b.Width
	}
	return out
}
