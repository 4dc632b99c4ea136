package css

import (
	"fmt"
	"sort"
	"strings"
)

func parseKeyword[T ~int](names []string, what, s string) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, s)
}

func keywordName[T ~int](names []string, v T) string {
	if int(v) >= 0 && int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%d", int(v))
}

type Position int

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

var positionNames = []string{"static", "relative", "absolute", "fixed", "sticky"}

func (p Position) String() string { return keywordName(positionNames, p) }

func ParsePosition(s string) (Position, error) {
	return parseKeyword[Position](positionNames, "position", s)
}

type Float int

const (
	FloatNone Float = iota
	FloatLeft
	FloatRight
	FloatInlineStart
	FloatInlineEnd
)

var floatNames = []string{"none", "left", "right", "inline-start", "inline-end"}

func (f Float) String() string { return keywordName(floatNames, f) }

func ParseFloatKeyword(s string) (Float, error) {
	return parseKeyword[Float](floatNames, "float", s)
}

type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowClip
	OverflowAuto
)

var overflowNames = []string{"visible", "hidden", "scroll", "clip", "auto"}

func (o Overflow) String() string { return keywordName(overflowNames, o) }

func ParseOverflow(s string) (Overflow, error) {
	return parseKeyword[Overflow](overflowNames, "overflow", s)
}

type Visibility int

const (
	VisibilityVisible Visibility = iota
	VisibilityHidden
	VisibilityCollapse
)

var visibilityNames = []string{"visible", "hidden", "collapse"}

func (v Visibility) String() string { return keywordName(visibilityNames, v) }

func ParseVisibility(s string) (Visibility, error) {
	return parseKeyword[Visibility](visibilityNames, "visibility", s)
}

// BorderStyle selects one of the border painters.
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderHidden
	BorderSolid
	BorderDashed
	BorderDotted
	BorderDouble
	BorderGroove
	BorderRidge
	BorderInset
	BorderOutset
)

var borderStyleNames = []string{
	"none", "hidden", "solid", "dashed", "dotted", "double", "groove", "ridge", "inset", "outset",
}

func (b BorderStyle) String() string { return keywordName(borderStyleNames, b) }

// Is3D reports whether the style is shaded with lighter and darker tints.
func (b BorderStyle) Is3D() bool {
	return b == BorderGroove || b == BorderRidge || b == BorderInset || b == BorderOutset
}

func ParseBorderStyle(s string) (BorderStyle, error) {
	return parseKeyword[BorderStyle](borderStyleNames, "border-style", s)
}

// Box names one of the three CSS boxes, as used by background-clip and
// background-origin.
type Box int

const (
	BorderBox Box = iota
	PaddingBox
	ContentBox
)

var boxNames = []string{"border-box", "padding-box", "content-box"}

func (b Box) String() string { return keywordName(boxNames, b) }

func ParseBox(s string) (Box, error) { return parseKeyword[Box](boxNames, "box", s) }

type BackgroundRepeat int

const (
	Repeat BackgroundRepeat = iota
	NoRepeat
	RepeatX
	RepeatY
	Space
	Round
	SpaceRound
	RoundSpace
)

var backgroundRepeatNames = []string{
	"repeat", "no-repeat", "repeat-x", "repeat-y", "space", "round", "space round", "round space",
}

func (r BackgroundRepeat) String() string { return keywordName(backgroundRepeatNames, r) }

// ParseBackgroundRepeat accepts one- and two-keyword forms.
func ParseBackgroundRepeat(s string) (BackgroundRepeat, error) {
	fields := strings.Fields(strings.ToLower(s))
	switch len(fields) {
	case 1:
		return parseKeyword[BackgroundRepeat](backgroundRepeatNames, "background-repeat", fields[0])
	case 2:
		x, y := fields[0], fields[1]
		switch {
		case x == y:
			return parseKeyword[BackgroundRepeat](backgroundRepeatNames, "background-repeat", x)
		case x == "repeat" && y == "no-repeat":
			return RepeatX, nil
		case x == "no-repeat" && y == "repeat":
			return RepeatY, nil
		case x == "space" && y == "round":
			return SpaceRound, nil
		case x == "round" && y == "space":
			return RoundSpace, nil
		}
		// Mixed pairs the painter cannot express tile in both directions.
		return Repeat, nil
	}
	return Repeat, fmt.Errorf("unknown background-repeat %q", s)
}

type ObjectFit int

const (
	ObjectFitFill ObjectFit = iota
	ObjectFitContain
	ObjectFitCover
	ObjectFitNone
	ObjectFitScaleDown
)

var objectFitNames = []string{"fill", "contain", "cover", "none", "scale-down"}

func (o ObjectFit) String() string { return keywordName(objectFitNames, o) }

func ParseObjectFit(s string) (ObjectFit, error) {
	return parseKeyword[ObjectFit](objectFitNames, "object-fit", s)
}

type TextDecorationLine int

const (
	DecorationNone TextDecorationLine = iota
	Underline
	Overline
	LineThrough
	Blink
)

var textDecorationLineNames = []string{"none", "underline", "overline", "line-through", "blink"}

func (t TextDecorationLine) String() string { return keywordName(textDecorationLineNames, t) }

// ParseTextDecorationLine returns the listed lines; "none" yields nil.
func ParseTextDecorationLine(s string) ([]TextDecorationLine, error) {
	var lines []TextDecorationLine
	for _, f := range strings.Fields(s) {
		l, err := parseKeyword[TextDecorationLine](textDecorationLineNames, "text-decoration-line", f)
		if err != nil {
			return nil, err
		}
		if l != DecorationNone {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

type TextDecorationStyle int

const (
	DecorationSolid TextDecorationStyle = iota
	DecorationDouble
	DecorationDotted
	DecorationDashed
	DecorationWavy
)

var textDecorationStyleNames = []string{"solid", "double", "dotted", "dashed", "wavy"}

func (t TextDecorationStyle) String() string { return keywordName(textDecorationStyleNames, t) }

func ParseTextDecorationStyle(s string) (TextDecorationStyle, error) {
	return parseKeyword[TextDecorationStyle](textDecorationStyleNames, "text-decoration-style", s)
}

type FontStyle int

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
	FontStyleOblique
)

var fontStyleNames = []string{"normal", "italic", "oblique"}

func (f FontStyle) String() string { return keywordName(fontStyleNames, f) }

// ParseFontStyle accepts "oblique <angle>" as oblique.
func ParseFontStyle(s string) (FontStyle, error) {
	if f := strings.Fields(s); len(f) > 1 && strings.EqualFold(f[0], "oblique") {
		return FontStyleOblique, nil
	}
	return parseKeyword[FontStyle](fontStyleNames, "font-style", s)
}

type PaintOrderLayer int

const (
	PaintFill PaintOrderLayer = iota
	PaintStroke
	PaintMarkers
)

var paintOrderNames = []string{"fill", "stroke", "markers"}

func (p PaintOrderLayer) String() string { return keywordName(paintOrderNames, p) }

// DefaultPaintOrder is the order used for "normal".
var DefaultPaintOrder = []PaintOrderLayer{PaintFill, PaintStroke, PaintMarkers}

// ParsePaintOrder expands a partial paint-order list: the layers not named
// follow in their default order.
func ParsePaintOrder(s string) ([]PaintOrderLayer, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "normal" {
		return append([]PaintOrderLayer(nil), DefaultPaintOrder...), nil
	}
	var out []PaintOrderLayer
	seen := map[PaintOrderLayer]bool{}
	for _, f := range strings.Fields(s) {
		l, err := parseKeyword[PaintOrderLayer](paintOrderNames, "paint-order", f)
		if err != nil {
			return nil, err
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	for _, l := range DefaultPaintOrder {
		if !seen[l] {
			out = append(out, l)
		}
	}
	return out, nil
}

type ListStyleType int

const (
	ListNone ListStyleType = iota
	ListDisc
	ListCircle
	ListSquare
	ListDecimal
	ListDecimalLeadingZero
	ListLowerRoman
	ListUpperRoman
	ListLowerGreek
	ListLowerAlpha
	ListUpperAlpha
)

var listStyleTypeNames = []string{
	"none", "disc", "circle", "square", "decimal", "decimal-leading-zero",
	"lower-roman", "upper-roman", "lower-greek", "lower-alpha", "upper-alpha",
}

func (l ListStyleType) String() string { return keywordName(listStyleTypeNames, l) }

// ParseListStyleType maps the latin aliases onto their alpha forms;
// unsupported counter styles fall back to decimal.
func ParseListStyleType(s string) ListStyleType {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "lower-latin":
		return ListLowerAlpha
	case "upper-latin":
		return ListUpperAlpha
	}
	t, err := parseKeyword[ListStyleType](listStyleTypeNames, "list-style-type", s)
	if err != nil {
		return ListDecimal
	}
	return t
}

type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

func (t TextAlign) String() string {
	return keywordName([]string{"left", "center", "right"}, t)
}

// ParseTextAlign folds start/end/justify onto the three painted alignments.
func ParseTextAlign(s string) TextAlign {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "-webkit-center":
		return TextAlignCenter
	case "right", "end", "-webkit-right":
		return TextAlignRight
	}
	return TextAlignLeft
}

type Direction int

const (
	LTR Direction = iota
	RTL
)

func (d Direction) String() string { return keywordName([]string{"ltr", "rtl"}, d) }

func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), "rtl") {
		return RTL
	}
	return LTR
}

// BlendMode is a mix-blend-mode value.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

var blendModeNames = []string{
	"normal", "multiply", "screen", "overlay", "darken", "lighten", "color-dodge", "color-burn",
	"hard-light", "soft-light", "difference", "exclusion", "hue", "saturation", "color", "luminosity",
}

func (b BlendMode) String() string { return keywordName(blendModeNames, b) }

// ParseBlendMode falls back to normal for unknown modes, as browsers do.
func ParseBlendMode(s string) BlendMode {
	b, err := parseKeyword[BlendMode](blendModeNames, "mix-blend-mode", s)
	if err != nil {
		return BlendNormal
	}
	return b
}

// Display is a bitmask: "block list-item" sets both bits.
type Display uint32

const DisplayNone Display = 0

const (
	DisplayBlock Display = 1 << (iota + 1)
	DisplayInline
	DisplayRunIn
	DisplayFlow
	DisplayFlowRoot
	DisplayTable
	DisplayFlex
	DisplayGrid
	DisplayRuby
	DisplaySubgrid
	DisplayListItem
	DisplayTableRowGroup
	DisplayTableHeaderGroup
	DisplayTableFooterGroup
	DisplayTableRow
	DisplayTableCell
	DisplayTableColumnGroup
	DisplayTableColumn
	DisplayTableCaption
	DisplayRubyBase
	DisplayRubyText
	DisplayRubyBaseContainer
	DisplayRubyTextContainer
	DisplayContents
	DisplayInlineBlock
	DisplayInlineListItem
	DisplayInlineTable
	DisplayInlineFlex
	DisplayInlineGrid
)

var displayKeywords = map[string]Display{
	"block":               DisplayBlock,
	"inline":              DisplayInline,
	"run-in":              DisplayRunIn,
	"flow":                DisplayFlow,
	"flow-root":           DisplayFlowRoot,
	"table":               DisplayTable,
	"flex":                DisplayFlex,
	"-webkit-flex":        DisplayFlex,
	"-webkit-box":         DisplayFlex,
	"grid":                DisplayGrid,
	"-ms-grid":            DisplayGrid,
	"ruby":                DisplayRuby,
	"subgrid":             DisplaySubgrid,
	"list-item":           DisplayListItem,
	"table-row-group":     DisplayTableRowGroup,
	"table-header-group":  DisplayTableHeaderGroup,
	"table-footer-group":  DisplayTableFooterGroup,
	"table-row":           DisplayTableRow,
	"table-cell":          DisplayTableCell,
	"table-column-group":  DisplayTableColumnGroup,
	"table-column":        DisplayTableColumn,
	"table-caption":       DisplayTableCaption,
	"ruby-base":           DisplayRubyBase,
	"ruby-text":           DisplayRubyText,
	"ruby-base-container": DisplayRubyBaseContainer,
	"ruby-text-container": DisplayRubyTextContainer,
	"contents":            DisplayContents,
	"inline-block":        DisplayInlineBlock,
	"inline-list-item":    DisplayInlineListItem,
	"inline-table":        DisplayInlineTable,
	"inline-flex":         DisplayInlineFlex,
	"-webkit-inline-flex": DisplayInlineFlex,
	"inline-grid":         DisplayInlineGrid,
	"-ms-inline-grid":     DisplayInlineGrid,
}

// Has reports whether any bit of flag is set.
func (d Display) Has(flag Display) bool { return d&flag != 0 }

func (d Display) String() string {
	if d == DisplayNone {
		return "none"
	}
	var parts []string
	for name, bit := range displayKeywords {
		if d&bit != 0 && !strings.HasPrefix(name, "-") {
			parts = append(parts, name)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

// ParseDisplay ORs every recognised keyword; unknown keywords are ignored.
func ParseDisplay(s string) Display {
	var d Display
	for _, f := range strings.Fields(strings.ToLower(s)) {
		if f == "none" {
			return DisplayNone
		}
		d |= displayKeywords[f]
	}
	return d
}
