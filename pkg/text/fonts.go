// Package text resolves CSS font declarations to outline faces, measures
// runs and produces glyph outlines for the painter.
package text

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
	"golang.org/x/image/font/sfnt"
)

// FontConfig holds optional paths to font files. An empty path falls back
// to the bundled Go fonts.
type FontConfig struct {
	Regular    string `mapstructure:"regular" yaml:"regular"`
	Bold       string `mapstructure:"bold" yaml:"bold"`
	Italic     string `mapstructure:"italic" yaml:"italic"`
	BoldItalic string `mapstructure:"bold_italic" yaml:"bold_italic"`
	Monospace  string `mapstructure:"monospace" yaml:"monospace"`
	MonoBold   string `mapstructure:"mono_bold" yaml:"mono_bold"`
}

// FontPath returns the configured path for the given style combination.
func (fc FontConfig) FontPath(bold, italic, mono bool) string {
	if mono {
		if bold && fc.MonoBold != "" {
			return fc.MonoBold
		}
		if fc.Monospace != "" {
			return fc.Monospace
		}
	}
	if bold && italic && fc.BoldItalic != "" {
		return fc.BoldItalic
	}
	if bold && fc.Bold != "" {
		return fc.Bold
	}
	if italic && fc.Italic != "" {
		return fc.Italic
	}
	return fc.Regular
}

// Style is the subset of a computed style that selects a face.
type Style struct {
	Families  []string
	Size      float64
	Weight    int
	Italic    bool
	SmallCaps bool
}

// String renders the style as a CSS font shorthand.
func (s Style) String() string {
	parts := []string{"normal"}
	if s.Italic {
		parts[0] = "italic"
	}
	if s.SmallCaps {
		parts = append(parts, "small-caps")
	}
	parts = append(parts, fmt.Sprint(s.Weight), fmt.Sprintf("%gpx", s.Size))
	return strings.Join(parts, " ") + " " + strings.Join(s.Families, ", ")
}

var monoFamilies = map[string]bool{
	"monospace": true, "courier": true, "courier new": true, "menlo": true,
	"consolas": true, "monaco": true, "ui-monospace": true, "go mono": true,
}

// IsMonospace reports whether the first family that names a known face
// is a monospace one.
func IsMonospace(families []string) bool {
	for _, f := range families {
		if monoFamilies[strings.ToLower(strings.Trim(f, `"' `))] {
			return true
		}
	}
	return false
}

func bundled(bold, medium, italic, mono, smallCaps bool) []byte {
	switch {
	case mono && bold && italic:
		return gomonobolditalic.TTF
	case mono && bold:
		return gomonobold.TTF
	case mono && italic:
		return gomonoitalic.TTF
	case mono:
		return gomono.TTF
	case smallCaps && italic:
		return gosmallcapsitalic.TTF
	case smallCaps:
		return gosmallcaps.TTF
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case medium && italic:
		return gomediumitalic.TTF
	case medium:
		return gomedium.TTF
	case italic:
		return goitalic.TTF
	}
	return goregular.TTF
}

type fontKey struct {
	path                           string
	bold, medium, italic, mono, sc bool
}

type faceKey struct {
	font fontKey
	size float64
}

type parsedFont struct {
	outline *sfnt.Font
	metrics *truetype.Font
}

// Provider loads fonts once and hands out sized faces. It is safe for
// concurrent use.
type Provider struct {
	cfg FontConfig

	mu    sync.Mutex
	fonts map[fontKey]*parsedFont
	faces map[faceKey]*Face
}

func NewProvider(cfg FontConfig) *Provider {
	return &Provider{
		cfg:   cfg,
		fonts: make(map[fontKey]*parsedFont),
		faces: make(map[faceKey]*Face),
	}
}

func (p *Provider) load(key fontKey) (*parsedFont, error) {
	if f, ok := p.fonts[key]; ok {
		return f, nil
	}
	data := bundled(key.bold, key.medium, key.italic, key.mono, key.sc)
	if key.path != "" {
		b, err := os.ReadFile(key.path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", key.path, err)
		}
		data = b
	}
	outline, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", key.path, err)
	}
	pf := &parsedFont{outline: outline}
	// CFF-flavoured OpenType files are outlined through sfnt only.
	if tt, err := truetype.Parse(data); err == nil {
		pf.metrics = tt
	}
	p.fonts[key] = pf
	return pf, nil
}

// Face resolves a style to a sized face.
func (p *Provider) Face(s Style) (*Face, error) {
	bold := s.Weight >= 600
	mono := IsMonospace(s.Families)
	key := fontKey{
		path:   p.cfg.FontPath(bold, s.Italic, mono),
		bold:   bold,
		medium: s.Weight >= 500 && !bold,
		italic: s.Italic,
		mono:   mono,
		sc:     s.SmallCaps,
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	fk := faceKey{font: key, size: s.Size}
	if f, ok := p.faces[fk]; ok {
		return f, nil
	}
	pf, err := p.load(key)
	if err != nil {
		return nil, err
	}
	f := newFace(pf, s.Size)
	p.faces[fk] = f
	return f, nil
}

// FontMetrics are offsets from the top of a line box of the given font.
type FontMetrics struct {
	Baseline float64
	Middle   float64
}

// Metrics positions the baseline and the middle line of text set in the
// first family at size.
func (p *Provider) Metrics(families []string, size float64) (FontMetrics, error) {
	f, err := p.Face(Style{Families: families, Size: size, Weight: 400})
	if err != nil {
		return FontMetrics{}, err
	}
	m := f.Metrics()
	halfLeading := (m.Height - (m.Ascent + m.Descent)) / 2
	baseline := halfLeading + m.Ascent
	return FontMetrics{Baseline: baseline, Middle: baseline - m.XHeight/2}, nil
}

var iosBrokenSystemFont = regexp.MustCompile(`iPhone OS 15_(0|1)`)

// FixIOSSystemFonts drops the system font aliases that render as blank
// text on iOS 15.0 and 15.1.
func FixIOSSystemFonts(families []string, userAgent string) []string {
	if !iosBrokenSystemFont.MatchString(userAgent) {
		return families
	}
	out := make([]string, 0, len(families))
	for _, f := range families {
		if f == "-apple-system" || f == "system-ui" {
			continue
		}
		out = append(out, f)
	}
	return out
}
