package text

import (
	"math"
	"sync"

	"github.com/go-text/typesetting/segmenter"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// PathSink receives glyph outlines in user space.
type PathSink interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticCurveTo(cx, cy, x, y float64)
	BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64)
	ClosePath()
}

// Metrics are the vertical metrics of a face in pixels.
type Metrics struct {
	Ascent  float64
	Descent float64
	Height  float64
	XHeight float64
}

// Face is a font at one size. Its methods may be called concurrently.
type Face struct {
	size    float64
	outline *sfnt.Font
	measure font.Face

	mu  sync.Mutex
	buf sfnt.Buffer
}

func newFace(pf *parsedFont, size float64) *Face {
	f := &Face{size: size, outline: pf.outline}
	if pf.metrics != nil {
		f.measure = truetype.NewFace(pf.metrics, &truetype.Options{Size: size, DPI: 72})
	}
	return f
}

func (f *Face) Size() float64 { return f.size }

func (f *Face) ppem() fixed.Int26_6 { return fixed.Int26_6(math.Round(f.size * 64)) }

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }

func (f *Face) Metrics() Metrics {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.outline.Metrics(&f.buf, f.ppem(), font.HintingNone)
	if err != nil {
		return Metrics{Ascent: f.size * 0.8, Descent: f.size * 0.2, Height: f.size * 1.2, XHeight: f.size / 2}
	}
	out := Metrics{
		Ascent:  fromFixed(m.Ascent),
		Descent: fromFixed(m.Descent),
		Height:  fromFixed(m.Height),
		XHeight: fromFixed(m.XHeight),
	}
	if out.XHeight == 0 {
		out.XHeight = out.Ascent / 2
	}
	return out
}

// Measure returns the advance width of s.
func (f *Face) Measure(s string) float64 {
	if f.measure != nil {
		f.mu.Lock()
		defer f.mu.Unlock()
		return fromFixed(font.MeasureString(f.measure, s))
	}
	return f.walk(s, 0, 0, nil)
}

// Outline emits the outline of s with its baseline origin at (x, y) and
// returns the advance.
func (f *Face) Outline(s string, x, y float64, sink PathSink) float64 {
	return f.walk(s, x, y, sink)
}

func (f *Face) walk(s string, x, y float64, sink PathSink) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	ppem := f.ppem()
	pen := x
	prev, hasPrev := sfnt.GlyphIndex(0), false
	for _, r := range s {
		g, err := f.outline.GlyphIndex(&f.buf, r)
		if err != nil {
			continue
		}
		if hasPrev {
			if k, err := f.outline.Kern(&f.buf, prev, g, ppem, font.HintingNone); err == nil {
				pen += fromFixed(k)
			}
		}
		if sink != nil {
			f.emit(g, ppem, pen, y, sink)
		}
		if adv, err := f.outline.GlyphAdvance(&f.buf, g, ppem, font.HintingNone); err == nil {
			pen += fromFixed(adv)
		}
		prev, hasPrev = g, true
	}
	return pen - x
}

func (f *Face) emit(g sfnt.GlyphIndex, ppem fixed.Int26_6, x, y float64, sink PathSink) {
	segs, err := f.outline.LoadGlyph(&f.buf, g, ppem, nil)
	if err != nil {
		return
	}
	pt := func(p fixed.Point26_6) (float64, float64) {
		return x + fromFixed(p.X), y + fromFixed(p.Y)
	}
	open := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				sink.ClosePath()
			}
			sink.MoveTo(pt(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			sink.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(seg.Args[0])
			px, py := pt(seg.Args[1])
			sink.QuadraticCurveTo(cx, cy, px, py)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(seg.Args[0])
			c2x, c2y := pt(seg.Args[1])
			px, py := pt(seg.Args[2])
			sink.BezierCurveTo(c1x, c1y, c2x, c2y, px, py)
		}
	}
	if open {
		sink.ClosePath()
	}
}

// Graphemes splits s into extended grapheme clusters.
func Graphemes(s string) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	var seg segmenter.Segmenter
	seg.Init(runes)
	it := seg.GraphemeIterator()
	var out []string
	for it.Next() {
		out = append(out, string(it.Grapheme().Text))
	}
	return out
}
