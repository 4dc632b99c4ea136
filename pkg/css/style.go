package css

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Style is a set of computed longhand properties keyed by CSS name, as
// serialised by the capture script.
type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// GetLength returns a property as an absolute length.
func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	v, err := ParseLength(val)
	return v, err == nil
}

// ParseInlineStyle parses a style attribute, expanding the shorthands
// snapshots are commonly written with by hand.
func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for _, decl := range SplitTopLevel(stripComments(styleAttr), ';') {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		property := strings.TrimSpace(strings.ToLower(parts[0]))
		value := strings.TrimSpace(parts[1])
		if value == "" || !isPropertyName(property) {
			continue
		}
		expandShorthand(style, property, value)
	}
	return style
}

// isPropertyName accepts identifiers of lowercase letters, digits and
// hyphens that do not start with a digit.
func isPropertyName(s string) bool {
	if s == "" || isDigit(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z') && !isDigit(c) && c != '-' {
			return false
		}
	}
	return true
}

// stripComments removes /* */ comments; an unterminated comment runs to
// the end of the input.
func stripComments(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "/*")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:start])
		end := strings.Index(s[start+2:], "*/")
		if end < 0 {
			return b.String()
		}
		s = s[start+2+end+2:]
	}
}

var sideNames = [4]string{"top", "right", "bottom", "left"}

var cornerNames = [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}

func expandShorthand(style *Style, property, value string) {
	switch property {
	case "padding":
		expandBoxProperty(style, "padding-%s", value)
	case "border":
		for _, side := range sideNames {
			expandBorderProperty(style, "border-"+side, value)
		}
	case "border-top", "border-right", "border-bottom", "border-left":
		expandBorderProperty(style, property, value)
	case "border-width", "border-style", "border-color":
		kind := strings.TrimPrefix(property, "border-")
		expandBoxProperty(style, "border-%s-"+kind, value)
	case "border-radius":
		parts := strings.Fields(value)
		for i, corner := range cornerNames {
			v := "0"
			if len(parts) > 0 {
				v = parts[boxIndex(len(parts), i)]
			}
			style.Set("border-"+corner+"-radius", v)
		}
	case "overflow":
		parts := strings.Fields(value)
		if len(parts) == 0 {
			return
		}
		style.Set("overflow-x", parts[0])
		style.Set("overflow-y", parts[len(parts)-1])
	case "background":
		expandBackground(style, value)
	default:
		style.Set(property, value)
	}
}

var repeatKeywords = map[string]bool{
	"repeat": true, "no-repeat": true, "repeat-x": true, "repeat-y": true, "space": true, "round": true,
}

var boxKeywords = map[string]bool{"border-box": true, "padding-box": true, "content-box": true}

// backgroundTokens splits one layer on spaces and around a top-level
// slash.
func backgroundTokens(layer string) []string {
	var out []string
	for _, tok := range SplitTopLevel(layer, ' ') {
		if strings.Contains(tok, "(") || !strings.Contains(tok, "/") {
			out = append(out, tok)
			continue
		}
		for i, part := range strings.Split(tok, "/") {
			if i > 0 {
				out = append(out, "/")
			}
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// expandBackground resets every background longhand from the layers of
// a background shorthand. Only the last layer may carry a colour.
func expandBackground(style *Style, value string) {
	layers := SplitTopLevel(value, ',')
	if len(layers) == 0 {
		return
	}
	color := "transparent"
	var images, repeats, positions, sizes, origins, clips []string
	for i, layer := range layers {
		image := "none"
		var repeat, position, size, boxes []string
		afterSlash := false
		for _, tok := range backgroundTokens(layer) {
			lower := strings.ToLower(tok)
			_, lengthErr := ParseLengthPercentage(lower)
			_, isPosition := positionKeywords[lower]
			switch {
			case tok == "/":
				afterSlash = true
			case strings.HasSuffix(tok, ")") && isImageFunction(lower):
				image = tok
			case repeatKeywords[lower]:
				repeat = append(repeat, lower)
			case boxKeywords[lower]:
				boxes = append(boxes, lower)
			case afterSlash && (lower == "auto" || lower == "cover" || lower == "contain" || lengthErr == nil):
				size = append(size, lower)
			case isPosition || lengthErr == nil:
				position = append(position, lower)
			case i == len(layers)-1:
				if _, err := ParseColor(tok); err == nil {
					color = tok
				}
			}
		}
		images = append(images, image)
		repeats = append(repeats, joinOr(repeat, "repeat"))
		positions = append(positions, joinOr(position, "0% 0%"))
		sizes = append(sizes, joinOr(size, "auto"))
		origin, clip := "padding-box", "border-box"
		if len(boxes) > 0 {
			origin, clip = boxes[0], boxes[len(boxes)-1]
		}
		origins = append(origins, origin)
		clips = append(clips, clip)
	}
	style.Set("background-color", color)
	style.Set("background-image", strings.Join(images, ", "))
	style.Set("background-repeat", strings.Join(repeats, ", "))
	style.Set("background-position", strings.Join(positions, ", "))
	style.Set("background-size", strings.Join(sizes, ", "))
	style.Set("background-origin", strings.Join(origins, ", "))
	style.Set("background-clip", strings.Join(clips, ", "))
}

func isImageFunction(s string) bool {
	return strings.HasPrefix(s, "url(") || strings.HasPrefix(s, "linear-gradient(") || strings.HasPrefix(s, "radial-gradient(")
}

func joinOr(parts []string, fallback string) string {
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, " ")
}

// boxIndex maps side i of a 1 to 4 value box shorthand to the value that
// sets it.
func boxIndex(n, i int) int {
	switch n {
	case 1:
		return 0
	case 2:
		return i % 2
	case 3:
		if i == 3 {
			return 1
		}
		return i
	}
	return i
}

// expandBoxProperty expands margin/padding style shorthands. pattern
// takes the side name.
func expandBoxProperty(style *Style, pattern, value string) {
	parts := strings.Fields(value)
	if len(parts) == 0 || len(parts) > 4 {
		return
	}
	for i, side := range sideNames {
		style.Set(fmt.Sprintf(pattern, side), parts[boxIndex(len(parts), i)])
	}
}

// expandBorderProperty expands "1px solid black" for one side.
func expandBorderProperty(style *Style, prefix, value string) {
	for _, part := range SplitTopLevel(value, ' ') {
		if _, err := ParseBorderStyle(part); err == nil {
			style.Set(prefix+"-style", part)
		} else if _, err := ParseLength(part); err == nil {
			style.Set(prefix+"-width", part)
		} else {
			style.Set(prefix+"-color", part)
		}
	}
}

type resolver func(d *Declaration, v string) error

func colorInto(dst *Color) resolver {
	return func(_ *Declaration, v string) error {
		c, err := ParseColor(v)
		if err != nil {
			return err
		}
		*dst = c
		return nil
	}
}

func list[T any](parse func(string) (T, error)) func(string) ([]T, error) {
	return func(v string) ([]T, error) {
		var out []T
		for _, part := range SplitTopLevel(v, ',') {
			x, err := parse(part)
			if err != nil {
				return nil, err
			}
			out = append(out, x)
		}
		return out, nil
	}
}

var resolvers = map[string]resolver{
	"accent-color": func(d *Declaration, v string) error {
		if strings.EqualFold(strings.TrimSpace(v), "auto") {
			d.AccentColor = nil
			return nil
		}
		c, err := ParseColor(v)
		if err != nil {
			return err
		}
		d.AccentColor = &c
		return nil
	},
	"background-clip": func(d *Declaration, v string) (err error) {
		d.BackgroundClip, err = list(ParseBox)(v)
		return err
	},
	"background-origin": func(d *Declaration, v string) (err error) {
		d.BackgroundOrigin, err = list(ParseBox)(v)
		return err
	},
	"background-color": func(d *Declaration, v string) error { return colorInto(&d.BackgroundColor)(d, v) },
	"background-image": func(d *Declaration, v string) (err error) {
		d.BackgroundImage, err = ParseImageList(v)
		return err
	},
	"background-position": func(d *Declaration, v string) (err error) {
		d.BackgroundPosition, err = list(ParsePosition2D)(v)
		return err
	},
	"background-repeat": func(d *Declaration, v string) (err error) {
		d.BackgroundRepeat, err = list(ParseBackgroundRepeat)(v)
		return err
	},
	"background-size": func(d *Declaration, v string) (err error) {
		d.BackgroundSize, err = list(ParseBackgroundSize)(v)
		return err
	},
	"box-shadow": func(d *Declaration, v string) (err error) {
		d.BoxShadow, err = ParseShadowList(v)
		return err
	},
	"color": func(d *Declaration, v string) error { return colorInto(&d.Color)(d, v) },
	"direction": func(d *Declaration, v string) error {
		d.Direction = ParseDirection(v)
		return nil
	},
	"display": func(d *Declaration, v string) error {
		d.Display = ParseDisplay(v)
		return nil
	},
	"filter": func(d *Declaration, v string) (err error) {
		d.Filter, err = ParseFilterList(v)
		return err
	},
	"float": func(d *Declaration, v string) (err error) {
		d.Float, err = ParseFloatKeyword(v)
		return err
	},
	"font-family": func(d *Declaration, v string) error {
		d.FontFamily = ParseFontFamily(v)
		return nil
	},
	"font-size": func(d *Declaration, v string) (err error) {
		d.FontSize, err = ParseLength(v)
		return err
	},
	"font-style": func(d *Declaration, v string) (err error) {
		d.FontStyle, err = ParseFontStyle(v)
		return err
	},
	"font-variant": func(d *Declaration, v string) error {
		d.FontVariant = strings.Fields(strings.ToLower(v))
		return nil
	},
	"font-weight": func(d *Declaration, v string) error {
		d.FontWeight = ParseFontWeight(v)
		return nil
	},
	"isolation": func(d *Declaration, v string) error {
		d.Isolation = strings.EqualFold(strings.TrimSpace(v), "isolate")
		return nil
	},
	"letter-spacing": func(d *Declaration, v string) error {
		d.LetterSpacing = ParseLetterSpacing(v)
		return nil
	},
	"line-height": func(d *Declaration, v string) (err error) {
		d.LineHeight, err = ParseLineHeight(v)
		return err
	},
	"list-style-image": func(d *Declaration, v string) (err error) {
		d.ListStyleImage, err = ParseImage(v)
		return err
	},
	"list-style-type": func(d *Declaration, v string) error {
		d.ListStyleType = ParseListStyleType(v)
		return nil
	},
	"mix-blend-mode": func(d *Declaration, v string) error {
		d.MixBlendMode = ParseBlendMode(v)
		return nil
	},
	"object-fit": func(d *Declaration, v string) (err error) {
		d.ObjectFit, err = ParseObjectFit(v)
		return err
	},
	"object-position": func(d *Declaration, v string) (err error) {
		d.ObjectPosition, err = ParsePosition2D(v)
		return err
	},
	"opacity": func(d *Declaration, v string) (err error) {
		d.Opacity, err = parseAmount(strings.TrimSpace(v))
		return err
	},
	"overflow-x": func(d *Declaration, v string) (err error) {
		d.OverflowX, err = ParseOverflow(v)
		return err
	},
	"overflow-y": func(d *Declaration, v string) (err error) {
		d.OverflowY, err = ParseOverflow(v)
		return err
	},
	"paint-order": func(d *Declaration, v string) (err error) {
		d.PaintOrder, err = ParsePaintOrder(v)
		return err
	},
	"position": func(d *Declaration, v string) (err error) {
		d.Position, err = ParsePosition(v)
		return err
	},
	"rotate": func(d *Declaration, v string) (err error) {
		d.Rotate, err = ParseRotate(v)
		return err
	},
	"scale": func(d *Declaration, v string) (err error) {
		d.Scale, err = ParseScale(v)
		return err
	},
	"text-align": func(d *Declaration, v string) error {
		d.TextAlign = ParseTextAlign(v)
		return nil
	},
	"text-decoration-color": func(d *Declaration, v string) error { return colorInto(&d.TextDecorationColor)(d, v) },
	"text-decoration-line": func(d *Declaration, v string) (err error) {
		d.TextDecorationLine, err = ParseTextDecorationLine(v)
		return err
	},
	"text-decoration-style": func(d *Declaration, v string) (err error) {
		d.TextDecorationStyle, err = ParseTextDecorationStyle(v)
		return err
	},
	"text-decoration-thickness": func(d *Declaration, v string) (err error) {
		d.TextDecorationThickness, err = ParseDecorationThickness(v)
		return err
	},
	"text-shadow": func(d *Declaration, v string) (err error) {
		d.TextShadow, err = ParseShadowList(v)
		return err
	},
	"transform": func(d *Declaration, v string) (err error) {
		d.Transform, err = ParseTransform(v)
		return err
	},
	"transform-origin": func(d *Declaration, v string) (err error) {
		d.TransformOrigin, err = ParsePosition2D(v)
		return err
	},
	"translate": func(d *Declaration, v string) (err error) {
		d.Translate, err = ParseTranslate(v)
		return err
	},
	"visibility": func(d *Declaration, v string) (err error) {
		d.Visibility, err = ParseVisibility(v)
		return err
	},
	"-webkit-text-fill-color":   func(d *Declaration, v string) error { return colorInto(&d.WebkitTextFillColor)(d, v) },
	"-webkit-text-stroke-color": func(d *Declaration, v string) error { return colorInto(&d.WebkitTextStrokeColor)(d, v) },
	"-webkit-text-stroke-width": func(d *Declaration, v string) (err error) {
		d.WebkitTextStrokeWidth, err = ParseLength(v)
		return err
	},
	"z-index": func(d *Declaration, v string) (err error) {
		d.ZIndex, err = ParseZIndex(v)
		return err
	},
}

func init() {
	for i, side := range sideNames {
		resolvers["border-"+side+"-style"] = func(d *Declaration, v string) (err error) {
			d.Borders[i].Style, err = ParseBorderStyle(v)
			return err
		}
		resolvers["border-"+side+"-color"] = func(d *Declaration, v string) error {
			return colorInto(&d.Borders[i].Color)(d, v)
		}
		resolvers["border-"+side+"-width"] = func(d *Declaration, v string) (err error) {
			d.Borders[i].Width, err = ParseLength(v)
			return err
		}
		resolvers["padding-"+side] = func(d *Declaration, v string) (err error) {
			d.Padding[i], err = ParseLengthPercentage(v)
			return err
		}
	}
	for i, corner := range cornerNames {
		resolvers["border-"+corner+"-radius"] = func(d *Declaration, v string) (err error) {
			d.BorderRadius[i], err = ParseLengthPair(v)
			return err
		}
	}
}

// Properties lists the longhands Resolve understands, sorted.
func Properties() []string {
	names := make([]string, 0, len(resolvers))
	for name := range resolvers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve converts the properties into a Declaration, starting from the
// initial values. Unknown properties are ignored. Every invalid value is
// reported in the joined error, and the property keeps its initial value.
func (s *Style) Resolve() (*Declaration, error) {
	d := Defaults()
	// -webkit-text-fill-color defaults to currentcolor.
	if _, ok := s.Properties["-webkit-text-fill-color"]; !ok {
		if v, ok := s.Properties["color"]; ok {
			s = s.with("-webkit-text-fill-color", v)
		}
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		if _, ok := resolvers[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		apply := resolvers[name]
		snapshot := d
		if err := apply(&d, s.Properties[name]); err != nil {
			d = snapshot
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if d.Opacity < 0 || d.Opacity > 1 {
		d.Opacity = min(1, max(0, d.Opacity))
	}
	return &d, errors.Join(errs...)
}

func (s *Style) with(property, value string) *Style {
	out := NewStyle()
	for k, v := range s.Properties {
		out.Properties[k] = v
	}
	out.Properties[property] = value
	return out
}
