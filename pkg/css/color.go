package css

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color is a packed 0xRRGGBBAA value.
type Color uint32

const (
	Transparent Color = 0x00000000
	Black       Color = 0x000000ff
	White       Color = 0xffffffff
)

// Pack builds a Color from 8-bit channels and an alpha in [0, 1].
func Pack(r, g, b uint8, a float64) Color {
	alpha := uint32(math.Round(clamp01(a) * 255))
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | alpha)
}

func (c Color) R() uint8 { return uint8(c >> 24) }
func (c Color) G() uint8 { return uint8(c >> 16) }
func (c Color) B() uint8 { return uint8(c >> 8) }
func (c Color) A() uint8 { return uint8(c) }

// IsTransparent reports whether the alpha channel is zero.
func (c Color) IsTransparent() bool { return c.A() == 0 }

// NRGBA converts to the non-premultiplied image/color form.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// String formats the colour the way a canvas fillStyle would accept it.
func (c Color) String() string {
	if c.A() < 255 {
		return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R(), c.G(), c.B(),
			strconv.FormatFloat(float64(c.A())/255, 'f', -1, 64))
	}
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R(), c.G(), c.B())
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	return Pack(c.R(), c.G(), c.B(), float64(c.A())/255*a)
}

// Lighter blends the colour a third of the way toward white. Used for the
// lit sides of 3D border styles.
func (c Color) Lighter() Color {
	const factor = 0.333
	up := func(v uint8) uint32 {
		return uint32(math.Min(255, math.Round(float64(v)+(255-float64(v))*factor)))
	}
	return Color(up(c.R())<<24 | up(c.G())<<16 | up(c.B())<<8 | uint32(c.A()))
}

// Darker blends the colour halfway toward black.
func (c Color) Darker() Color {
	const factor = 0.5
	down := func(v uint8) uint32 {
		return uint32(math.Max(0, math.Round(float64(v)*(1-factor))))
	}
	return Color(down(c.R())<<24 | down(c.G())<<16 | down(c.B())<<8 | uint32(c.A()))
}

// ParseColor reads a computed colour value: hex notation, rgb()/rgba() in
// comma or space syntax, hsl()/hsla(), named colours and "transparent".
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Transparent, fmt.Errorf("empty colour")
	}
	if strings.HasPrefix(s, "#") {
		return ParseHex(s[1:])
	}
	if name, args, ok := splitFunction(s); ok {
		switch name {
		case "rgb", "rgba":
			return parseRGB(args)
		case "hsl", "hsla":
			return parseHSL(args)
		}
		return Transparent, fmt.Errorf("unsupported colour function %q", name)
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	return Transparent, fmt.Errorf("unknown colour %q", s)
}

// ParseHex decodes 3, 4, 6 or 8 hex digits without the leading '#'.
func ParseHex(hex string) (Color, error) {
	expand := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		return b.String()
	}
	switch len(hex) {
	case 3:
		hex = expand(hex) + "ff"
	case 4:
		hex = expand(hex)
	case 6:
		hex += "ff"
	case 8:
	default:
		return Transparent, fmt.Errorf("invalid hex colour #%s", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Transparent, fmt.Errorf("invalid hex colour #%s: %w", hex, err)
	}
	return Color(v), nil
}

func parseRGB(args []string) (Color, error) {
	if len(args) < 3 {
		return Transparent, fmt.Errorf("rgb() needs 3 channels, got %d", len(args))
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := parseChannel(args[i])
		if err != nil {
			return Transparent, err
		}
		ch[i] = v
	}
	alpha := 1.0
	if len(args) > 3 {
		a, err := parseAlpha(args[3])
		if err != nil {
			return Transparent, err
		}
		alpha = a
	}
	return Pack(ch[0], ch[1], ch[2], alpha), nil
}

func parseChannel(s string) (uint8, error) {
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid colour channel %q: %w", s, err)
		}
		return uint8(math.Round(clamp01(v/100) * 255)), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid colour channel %q: %w", s, err)
	}
	return uint8(math.Round(math.Max(0, math.Min(255, v)))), nil
}

func parseAlpha(s string) (float64, error) {
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid alpha %q: %w", s, err)
		}
		return clamp01(v / 100), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid alpha %q: %w", s, err)
	}
	return clamp01(v), nil
}

func parseHSL(args []string) (Color, error) {
	if len(args) < 3 {
		return Transparent, fmt.Errorf("hsl() needs 3 components, got %d", len(args))
	}
	angle, err := ParseAngle(args[0])
	if err != nil {
		if v, ferr := strconv.ParseFloat(args[0], 64); ferr == nil {
			angle = v * math.Pi / 180
		} else {
			return Transparent, err
		}
	}
	sat, err := parseAlpha(args[1])
	if err != nil {
		return Transparent, err
	}
	light, err := parseAlpha(args[2])
	if err != nil {
		return Transparent, err
	}
	alpha := 1.0
	if len(args) > 3 {
		if alpha, err = parseAlpha(args[3]); err != nil {
			return Transparent, err
		}
	}
	h := math.Mod(angle/(2*math.Pi), 1)
	if h < 0 {
		h++
	}
	var t2 float64
	if light <= 0.5 {
		t2 = light * (sat + 1)
	} else {
		t2 = light + sat - light*sat
	}
	t1 := light*2 - t2
	r := hueToRGB(t1, t2, h+1.0/3)
	g := hueToRGB(t1, t2, h)
	b := hueToRGB(t1, t2, h-1.0/3)
	return Pack(uint8(math.Round(r*255)), uint8(math.Round(g*255)), uint8(math.Round(b*255)), alpha), nil
}

func hueToRGB(t1, t2, hue float64) float64 {
	if hue < 0 {
		hue++
	}
	if hue >= 1 {
		hue--
	}
	switch {
	case hue < 1.0/6:
		return (t2-t1)*hue*6 + t1
	case hue < 0.5:
		return t2
	case hue < 2.0/3:
		return (t2-t1)*6*(2.0/3-hue) + t1
	}
	return t1
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

var namedColors = map[string]Color{
	"transparent":          Transparent,
	"aliceblue":            0xf0f8ffff,
	"antiquewhite":         0xfaebd7ff,
	"aqua":                 0x00ffffff,
	"aquamarine":           0x7fffd4ff,
	"azure":                0xf0ffffff,
	"beige":                0xf5f5dcff,
	"bisque":               0xffe4c4ff,
	"black":                0x000000ff,
	"blanchedalmond":       0xffebcdff,
	"blue":                 0x0000ffff,
	"blueviolet":           0x8a2be2ff,
	"brown":                0xa52a2aff,
	"burlywood":            0xdeb887ff,
	"cadetblue":            0x5f9ea0ff,
	"chartreuse":           0x7fff00ff,
	"chocolate":            0xd2691eff,
	"coral":                0xff7f50ff,
	"cornflowerblue":       0x6495edff,
	"cornsilk":             0xfff8dcff,
	"crimson":              0xdc143cff,
	"cyan":                 0x00ffffff,
	"darkblue":             0x00008bff,
	"darkcyan":             0x008b8bff,
	"darkgoldenrod":        0xb8860bff,
	"darkgray":             0xa9a9a9ff,
	"darkgreen":            0x006400ff,
	"darkgrey":             0xa9a9a9ff,
	"darkkhaki":            0xbdb76bff,
	"darkmagenta":          0x8b008bff,
	"darkolivegreen":       0x556b2fff,
	"darkorange":           0xff8c00ff,
	"darkorchid":           0x9932ccff,
	"darkred":              0x8b0000ff,
	"darksalmon":           0xe9967aff,
	"darkseagreen":         0x8fbc8fff,
	"darkslateblue":        0x483d8bff,
	"darkslategray":        0x2f4f4fff,
	"darkslategrey":        0x2f4f4fff,
	"darkturquoise":        0x00ced1ff,
	"darkviolet":           0x9400d3ff,
	"deeppink":             0xff1493ff,
	"deepskyblue":          0x00bfffff,
	"dimgray":              0x696969ff,
	"dimgrey":              0x696969ff,
	"dodgerblue":           0x1e90ffff,
	"firebrick":            0xb22222ff,
	"floralwhite":          0xfffaf0ff,
	"forestgreen":          0x228b22ff,
	"fuchsia":              0xff00ffff,
	"gainsboro":            0xdcdcdcff,
	"ghostwhite":           0xf8f8ffff,
	"gold":                 0xffd700ff,
	"goldenrod":            0xdaa520ff,
	"gray":                 0x808080ff,
	"green":                0x008000ff,
	"greenyellow":          0xadff2fff,
	"grey":                 0x808080ff,
	"honeydew":             0xf0fff0ff,
	"hotpink":              0xff69b4ff,
	"indianred":            0xcd5c5cff,
	"indigo":               0x4b0082ff,
	"ivory":                0xfffff0ff,
	"khaki":                0xf0e68cff,
	"lavender":             0xe6e6faff,
	"lavenderblush":        0xfff0f5ff,
	"lawngreen":            0x7cfc00ff,
	"lemonchiffon":         0xfffacdff,
	"lightblue":            0xadd8e6ff,
	"lightcoral":           0xf08080ff,
	"lightcyan":            0xe0ffffff,
	"lightgoldenrodyellow": 0xfafad2ff,
	"lightgray":            0xd3d3d3ff,
	"lightgreen":           0x90ee90ff,
	"lightgrey":            0xd3d3d3ff,
	"lightpink":            0xffb6c1ff,
	"lightsalmon":          0xffa07aff,
	"lightseagreen":        0x20b2aaff,
	"lightskyblue":         0x87cefaff,
	"lightslategray":       0x778899ff,
	"lightslategrey":       0x778899ff,
	"lightsteelblue":       0xb0c4deff,
	"lightyellow":          0xffffe0ff,
	"lime":                 0x00ff00ff,
	"limegreen":            0x32cd32ff,
	"linen":                0xfaf0e6ff,
	"magenta":              0xff00ffff,
	"maroon":               0x800000ff,
	"mediumaquamarine":     0x66cdaaff,
	"mediumblue":           0x0000cdff,
	"mediumorchid":         0xba55d3ff,
	"mediumpurple":         0x9370dbff,
	"mediumseagreen":       0x3cb371ff,
	"mediumslateblue":      0x7b68eeff,
	"mediumspringgreen":    0x00fa9aff,
	"mediumturquoise":      0x48d1ccff,
	"mediumvioletred":      0xc71585ff,
	"midnightblue":         0x191970ff,
	"mintcream":            0xf5fffaff,
	"mistyrose":            0xffe4e1ff,
	"moccasin":             0xffe4b5ff,
	"navajowhite":          0xffdeadff,
	"navy":                 0x000080ff,
	"oldlace":              0xfdf5e6ff,
	"olive":                0x808000ff,
	"olivedrab":            0x6b8e23ff,
	"orange":               0xffa500ff,
	"orangered":            0xff4500ff,
	"orchid":               0xda70d6ff,
	"palegoldenrod":        0xeee8aaff,
	"palegreen":            0x98fb98ff,
	"paleturquoise":        0xafeeeeff,
	"palevioletred":        0xdb7093ff,
	"papayawhip":           0xffefd5ff,
	"peachpuff":            0xffdab9ff,
	"peru":                 0xcd853fff,
	"pink":                 0xffc0cbff,
	"plum":                 0xdda0ddff,
	"powderblue":           0xb0e0e6ff,
	"purple":               0x800080ff,
	"rebeccapurple":        0x663399ff,
	"red":                  0xff0000ff,
	"rosybrown":            0xbc8f8fff,
	"royalblue":            0x4169e1ff,
	"saddlebrown":          0x8b4513ff,
	"salmon":               0xfa8072ff,
	"sandybrown":           0xf4a460ff,
	"seagreen":             0x2e8b57ff,
	"seashell":             0xfff5eeff,
	"sienna":               0xa0522dff,
	"silver":               0xc0c0c0ff,
	"skyblue":              0x87ceebff,
	"slateblue":            0x6a5acdff,
	"slategray":            0x708090ff,
	"slategrey":            0x708090ff,
	"snow":                 0xfffafaff,
	"springgreen":          0x00ff7fff,
	"steelblue":            0x4682b4ff,
	"tan":                  0xd2b48cff,
	"teal":                 0x008080ff,
	"thistle":              0xd8bfd8ff,
	"tomato":               0xff6347ff,
	"turquoise":            0x40e0d0ff,
	"violet":               0xee82eeff,
	"wheat":                0xf5deb3ff,
	"white":                0xffffffff,
	"whitesmoke":           0xf5f5f5ff,
	"yellow":               0xffff00ff,
	"yellowgreen":          0x9acd32ff,
}
