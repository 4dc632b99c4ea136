package css

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"domshot/pkg/geom"
)

// This file decodes the serialised computed values a browser reports
// (getComputedStyle) into typed values. It is not a general CSS parser:
// computed values are already in canonical form.

// splitFunction splits "name(a, b)" into its name and comma or space
// separated arguments.
func splitFunction(s string) (name string, args []string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", nil, false
	}
	name = strings.TrimSpace(s[:open])
	inner := s[open+1 : len(s)-1]
	for _, part := range SplitTopLevel(inner, ',') {
		for _, f := range SplitTopLevel(part, ' ') {
			if f != "/" {
				args = append(args, f)
			}
		}
	}
	return name, args, true
}

// SplitTopLevel splits s on sep, ignoring separators nested in
// parentheses or quotes. Empty parts are dropped.
func SplitTopLevel(s string, sep rune) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	var quote rune
	flush := func() {
		if p := strings.TrimSpace(current.String()); p != "" {
			parts = append(parts, p)
		}
		current.Reset()
	}
	for _, ch := range s {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case depth == 0 && (ch == sep || (sep == ' ' && (ch == '\t' || ch == '\n'))):
			flush()
			continue
		}
		current.WriteRune(ch)
	}
	flush()
	return parts
}

// ParseImageList reads a background-image value. "none" yields nil.
func ParseImageList(s string) ([]Image, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	var out []Image
	for _, part := range SplitTopLevel(s, ',') {
		img, err := ParseImage(part)
		if err != nil {
			return nil, err
		}
		if img != nil {
			out = append(out, img)
		}
	}
	return out, nil
}

// ParseImage reads one url(), linear-gradient() or radial-gradient()
// value. "none" yields a nil Image.
func ParseImage(s string) (Image, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "none") || s == "" {
		return nil, nil
	}
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("invalid image %q", s)
	}
	name := strings.ToLower(strings.TrimSpace(s[:open]))
	inner := s[open+1 : len(s)-1]
	switch name {
	case "url":
		u := unquote(strings.TrimSpace(inner))
		if u == "" {
			return nil, fmt.Errorf("empty url in %q", s)
		}
		return URLImage{URL: u}, nil
	case "linear-gradient":
		return parseLinearGradient(inner)
	case "radial-gradient":
		return parseRadialGradient(inner)
	}
	return nil, fmt.Errorf("unsupported image function %q", name)
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return strings.ReplaceAll(s[1:len(s)-1], `\`+string(s[0]), string(s[0]))
	}
	return s
}

var sideAngles = map[string]float64{"top": 0, "right": 90, "bottom": 180, "left": 270}

func parseLinearGradient(inner string) (Image, error) {
	parts := SplitTopLevel(inner, ',')
	if len(parts) < 2 {
		return nil, fmt.Errorf("linear-gradient needs at least two stops: %q", inner)
	}
	g := LinearGradient{Angle: math.Pi}
	first := strings.ToLower(parts[0])
	switch {
	case strings.HasPrefix(first, "to "):
		words := strings.Fields(first)[1:]
		if len(words) == 1 {
			deg, ok := sideAngles[words[0]]
			if !ok {
				return nil, fmt.Errorf("invalid gradient side %q", first)
			}
			g.Angle = deg * math.Pi / 180
		} else {
			corner := [2]LengthPercentage{Zero, Zero}
			for _, w := range words {
				switch w {
				case "right":
					corner[0] = HundredPercent
				case "bottom":
					corner[1] = HundredPercent
				}
			}
			g.Corner = &corner
		}
		parts = parts[1:]
	default:
		if a, err := ParseAngle(first); err == nil {
			g.Angle = a
			parts = parts[1:]
		}
	}
	stops, err := parseColorStops(parts)
	if err != nil {
		return nil, err
	}
	g.Stops = stops
	return g, nil
}

var extentKeywords = map[string]RadialExtent{
	"closest-side":    ClosestSide,
	"farthest-side":   FarthestSide,
	"closest-corner":  ClosestCorner,
	"farthest-corner": FarthestCorner,
	"contain":         ClosestSide,
	"cover":           FarthestCorner,
}

func parseRadialGradient(inner string) (Image, error) {
	parts := SplitTopLevel(inner, ',')
	if len(parts) < 2 {
		return nil, fmt.Errorf("radial-gradient needs at least two stops: %q", inner)
	}
	g := RadialGradient{Shape: Ellipse, Extent: FarthestCorner}
	if isGradientPrelude(parts[0]) {
		shapeSpec, posSpec, _ := strings.Cut(" "+strings.ToLower(parts[0])+" ", " at ")
		for _, w := range strings.Fields(shapeSpec) {
			switch {
			case w == "circle":
				g.Shape = Circle
			case w == "ellipse":
				g.Shape = Ellipse
			default:
				if e, ok := extentKeywords[w]; ok {
					g.Extent = e
					continue
				}
				lp, err := ParseLengthPercentage(w)
				if err != nil {
					return nil, fmt.Errorf("radial-gradient size: %w", err)
				}
				g.Size = append(g.Size, lp)
			}
		}
		if len(g.Size) == 1 {
			g.Shape = Circle
		}
		if pos := strings.TrimSpace(posSpec); pos != "" {
			p, err := ParsePosition2D(pos)
			if err != nil {
				return nil, fmt.Errorf("radial-gradient position: %w", err)
			}
			g.Position = p[:]
		}
		parts = parts[1:]
	}
	stops, err := parseColorStops(parts)
	if err != nil {
		return nil, err
	}
	g.Stops = stops
	return g, nil
}

func isGradientPrelude(s string) bool {
	s = " " + strings.ToLower(s) + " "
	if strings.Contains(s, " at ") || strings.Contains(s, "circle") || strings.Contains(s, "ellipse") {
		return true
	}
	for k := range extentKeywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	_, err := ParseColor(strings.TrimSpace(s))
	if err == nil {
		return false
	}
	fields := SplitTopLevel(s, ' ')
	if len(fields) == 0 {
		return false
	}
	_, err = ParseLengthPercentage(fields[0])
	return err == nil
}

// parseColorStops reads "color [pos [pos]]" entries; a double position
// expands to two stops of the same colour.
func parseColorStops(parts []string) ([]ColorStop, error) {
	var stops []ColorStop
	for _, p := range parts {
		fields := SplitTopLevel(p, ' ')
		if len(fields) == 0 {
			continue
		}
		c, err := ParseColor(fields[0])
		if err != nil {
			return nil, fmt.Errorf("gradient stop %q: %w", p, err)
		}
		if len(fields) == 1 {
			stops = append(stops, ColorStop{Color: c})
			continue
		}
		for _, f := range fields[1:] {
			lp, err := ParseLengthPercentage(f)
			if err != nil {
				return nil, fmt.Errorf("gradient stop %q: %w", p, err)
			}
			stops = append(stops, ColorStop{Color: c, Stop: &lp})
		}
	}
	if len(stops) < 2 {
		return nil, fmt.Errorf("gradient needs at least two stops")
	}
	return stops, nil
}

var positionKeywords = map[string]LengthPercentage{
	"left": Zero, "top": Zero, "center": FiftyPercent, "right": HundredPercent, "bottom": HundredPercent,
}

// ParsePosition2D reads a background-position or object-position pair. A
// single value is paired with "center".
func ParsePosition2D(s string) ([2]LengthPercentage, error) {
	fields := SplitTopLevel(strings.ToLower(s), ' ')
	out := [2]LengthPercentage{FiftyPercent, FiftyPercent}
	if len(fields) == 0 {
		return out, fmt.Errorf("empty position")
	}
	if len(fields) > 2 {
		// Four-value edge offsets are serialised as calc() by browsers, so
		// only keep the leading pair.
		fields = fields[:2]
	}
	swap := len(fields) == 2 && (fields[0] == "top" || fields[0] == "bottom" ||
		fields[1] == "left" || fields[1] == "right")
	for i, f := range fields {
		v, ok := positionKeywords[f]
		if !ok {
			lp, err := ParseLengthPercentage(f)
			if err != nil {
				return out, fmt.Errorf("invalid position %q: %w", s, err)
			}
			v = lp
		}
		idx := i
		if swap {
			idx = 1 - i
		}
		if len(fields) == 1 && (f == "top" || f == "bottom") {
			idx = 1
		}
		out[idx] = v
	}
	return out, nil
}

// ParseLengthPair reads one or two lengths; a single value is repeated.
func ParseLengthPair(s string) ([2]LengthPercentage, error) {
	fields := SplitTopLevel(s, ' ')
	if len(fields) == 0 {
		return [2]LengthPercentage{}, fmt.Errorf("empty length pair")
	}
	x, err := ParseLengthPercentage(fields[0])
	if err != nil {
		return [2]LengthPercentage{}, err
	}
	y := x
	if len(fields) > 1 {
		if y, err = ParseLengthPercentage(fields[1]); err != nil {
			return [2]LengthPercentage{}, err
		}
	}
	return [2]LengthPercentage{x, y}, nil
}

// ParseBackgroundSize reads one layer of background-size.
func ParseBackgroundSize(s string) (BackgroundSize, error) {
	var out BackgroundSize
	for _, f := range SplitTopLevel(strings.ToLower(s), ' ') {
		switch f {
		case "auto":
			out = append(out, BackgroundSizeValue{Kind: SizeAuto})
		case "cover":
			out = append(out, BackgroundSizeValue{Kind: SizeCover})
		case "contain":
			out = append(out, BackgroundSizeValue{Kind: SizeContain})
		default:
			lp, err := ParseLengthPercentage(f)
			if err != nil {
				return nil, fmt.Errorf("background-size: %w", err)
			}
			out = append(out, BackgroundSizeValue{Kind: SizeLength, Length: lp})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty background-size")
	}
	return out, nil
}

// ParseShadowList reads box-shadow or text-shadow. "none" yields nil.
func ParseShadowList(s string) ([]Shadow, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	var out []Shadow
	for _, part := range SplitTopLevel(s, ',') {
		sh, err := ParseShadow(part)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, nil
}

// ParseShadow reads one "[inset] <color>? x y [blur [spread]]" entry; the
// colour may come first or last.
func ParseShadow(s string) (Shadow, error) {
	sh := Shadow{Color: Black}
	var lengths []float64
	for _, f := range SplitTopLevel(s, ' ') {
		if strings.EqualFold(f, "inset") {
			sh.Inset = true
			continue
		}
		if v, err := ParseLength(f); err == nil {
			lengths = append(lengths, v)
			continue
		}
		c, err := ParseColor(f)
		if err != nil {
			return sh, fmt.Errorf("shadow %q: %w", s, err)
		}
		sh.Color = c
	}
	if len(lengths) < 2 {
		return sh, fmt.Errorf("shadow %q needs two offsets", s)
	}
	sh.OffsetX, sh.OffsetY = lengths[0], lengths[1]
	if len(lengths) > 2 {
		sh.Blur = lengths[2]
	}
	if len(lengths) > 3 {
		sh.Spread = lengths[3]
	}
	return sh, nil
}

// ParseFilterList reads a filter chain. "none" yields nil.
func ParseFilterList(s string) ([]Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	var out []Filter
	for _, fn := range SplitTopLevel(s, ' ') {
		open := strings.IndexByte(fn, '(')
		if open <= 0 || !strings.HasSuffix(fn, ")") {
			return nil, fmt.Errorf("invalid filter function %q", fn)
		}
		name := strings.ToLower(fn[:open])
		arg := strings.TrimSpace(fn[open+1 : len(fn)-1])
		t, err := parseKeyword[FilterType](filterTypeNames, "filter", name)
		if err != nil {
			return nil, err
		}
		f := Filter{Type: t}
		switch t {
		case FilterBlur:
			if arg != "" {
				if f.Radius, err = ParseLength(arg); err != nil {
					return nil, fmt.Errorf("blur(): %w", err)
				}
			}
		case FilterHueRotate:
			if arg != "" {
				if f.Angle, err = ParseAngle(arg); err != nil {
					return nil, fmt.Errorf("hue-rotate(): %w", err)
				}
			}
		case FilterDropShadow:
			if f.Shadow, err = ParseShadow(arg); err != nil {
				return nil, fmt.Errorf("drop-shadow(): %w", err)
			}
		default:
			f.Amount = 1
			if arg != "" {
				if f.Amount, err = parseAmount(arg); err != nil {
					return nil, fmt.Errorf("%s(): %w", name, err)
				}
			}
		}
		out = append(out, f)
	}
	return out, nil
}

func parseAmount(s string) (float64, error) {
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		return v / 100, err
	}
	return strconv.ParseFloat(s, 64)
}

// ParseTransform reads the computed transform: "none", matrix() or
// matrix3d(). A matrix3d keeps its 2D part.
func ParseTransform(s string) (*geom.Matrix, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return nil, nil
	}
	name, args, ok := splitFunction(s)
	if !ok {
		return nil, fmt.Errorf("invalid transform %q", s)
	}
	nums := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("transform %q: %w", s, err)
		}
		nums[i] = v
	}
	var m geom.Matrix
	switch {
	case name == "matrix" && len(nums) == 6:
		copy(m[:], nums)
	case name == "matrix3d" && len(nums) == 16:
		m = geom.Matrix{nums[0], nums[1], nums[4], nums[5], nums[12], nums[13]}
	default:
		return nil, fmt.Errorf("unsupported transform %q", s)
	}
	return &m, nil
}

// ParseRotate reads the rotate property; only the angle about the z axis
// is kept.
func ParseRotate(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	fields := strings.Fields(s)
	a, err := ParseAngle(fields[len(fields)-1])
	if err != nil {
		return nil, fmt.Errorf("rotate: %w", err)
	}
	return &a, nil
}

// ParseScale reads the scale property.
func ParseScale(s string) (*Scale2D, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	fields := strings.Fields(s)
	vals := make([]float64, 0, 2)
	for _, f := range fields[:min(2, len(fields))] {
		v, err := parseAmount(f)
		if err != nil {
			return nil, fmt.Errorf("scale: %w", err)
		}
		vals = append(vals, v)
	}
	sc := &Scale2D{X: vals[0], Y: vals[0]}
	if len(vals) > 1 {
		sc.Y = vals[1]
	}
	return sc, nil
}

// ParseTranslate reads the translate property; a missing y is 0.
func ParseTranslate(s string) (*Translate2D, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	fields := SplitTopLevel(s, ' ')
	x, err := ParseLengthPercentage(fields[0])
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	t := &Translate2D{X: x}
	if len(fields) > 1 {
		if t.Y, err = ParseLengthPercentage(fields[1]); err != nil {
			return nil, fmt.Errorf("translate: %w", err)
		}
	}
	return t, nil
}

// ParseFontFamily splits a family list and strips quotes.
func ParseFontFamily(s string) []string {
	var out []string
	for _, f := range SplitTopLevel(s, ',') {
		if f = unquote(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ParseFontWeight accepts numeric weights and the keywords normal and bold.
func ParseFontWeight(s string) int {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "bold", "bolder":
		return 700
	case "normal", "":
		return 400
	case "lighter":
		return 300
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 400
}

// ParseZIndex reads "auto" or an integer.
func ParseZIndex(s string) (ZIndex, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return ZIndex{Auto: true}, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return ZIndex{Auto: true}, fmt.Errorf("invalid z-index %q: %w", s, err)
	}
	return ZIndex{Order: v}, nil
}

// ParseLineHeight reads "normal", a bare multiplier or a length.
func ParseLineHeight(s string) (LineHeight, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "normal" {
		return LineHeight{}, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return LineHeight{Kind: LineHeightNumber, Value: v}, nil
	}
	v, err := ParseLength(s)
	if err != nil {
		return LineHeight{}, fmt.Errorf("line-height: %w", err)
	}
	return LineHeight{Kind: LineHeightLength, Value: v}, nil
}

// ParseDecorationThickness reads text-decoration-thickness.
func ParseDecorationThickness(s string) (DecorationThickness, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "auto" || s == "from-font" {
		return DecorationThickness{Auto: true}, nil
	}
	lp, err := ParseLengthPercentage(s)
	if err != nil {
		return DecorationThickness{Auto: true}, fmt.Errorf("text-decoration-thickness: %w", err)
	}
	return DecorationThickness{Length: lp}, nil
}

// ParseLetterSpacing treats "normal" as 0.
func ParseLetterSpacing(s string) float64 {
	v, err := ParseLength(s)
	if err != nil {
		return 0
	}
	return v
}
