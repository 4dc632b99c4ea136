package render

import (
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"

	"domshot/pkg/canvas"
	"domshot/pkg/css"
	"domshot/pkg/dom"
	"domshot/pkg/text"
)

func (r *Renderer) fontStyle(s *css.Declaration) text.Style {
	return text.Style{
		Families:  text.FixIOSSystemFonts(s.FontFamily, r.opts.UserAgent),
		Size:      s.FontSize,
		Weight:    s.FontWeight,
		Italic:    s.FontStyle != css.FontStyleNormal,
		SmallCaps: slices.Contains(s.FontVariant, "small-caps"),
	}
}

// setFont selects the face for s, logging when none can be loaded.
func (r *Renderer) setFont(s *css.Declaration) bool {
	face, err := r.fonts.Face(r.fontStyle(s))
	if err != nil {
		r.logger.Error("Error loading font", zap.Strings("families", s.FontFamily), zap.Error(err))
		return false
	}
	r.canvas.SetFont(face)
	return true
}

// fillTextSpaced fills a run, placing graphemes one by one when
// letter-spacing is set.
func (r *Renderer) fillTextSpaced(tb dom.TextBounds, letterSpacing, baseline float64) {
	c := r.canvas
	y := tb.Bounds.Top + baseline
	if letterSpacing == 0 {
		c.FillText(tb.Text, tb.Bounds.Left, y)
		return
	}
	left := tb.Bounds.Left
	for _, g := range text.Graphemes(tb.Text) {
		c.FillText(g, left, y)
		left += c.MeasureText(g)
	}
}

func (r *Renderer) renderTextNode(t *dom.Text, s *css.Declaration) {
	c := r.canvas
	if !r.setFont(s) {
		return
	}
	metrics, err := r.fonts.Metrics(text.FixIOSSystemFonts(s.FontFamily, r.opts.UserAgent), s.FontSize)
	if err != nil {
		r.logger.Error("Error measuring font", zap.Strings("families", s.FontFamily), zap.Error(err))
		return
	}
	c.SetTextAlign(canvas.AlignLeft)
	c.SetTextBaseline(canvas.BaselineAlphabetic)

	for _, tb := range t.Bounds {
		blank := strings.TrimSpace(tb.Text) == ""
		for _, layer := range s.PaintOrder {
			switch layer {
			case css.PaintFill:
				c.SetFillColor(s.WebkitTextFillColor)
				r.fillTextSpaced(tb, s.LetterSpacing, metrics.Baseline)

				if len(s.TextShadow) > 0 && !blank {
					for i := len(s.TextShadow) - 1; i >= 0; i-- {
						sh := s.TextShadow[i]
						c.SetShadow(sh.Color, sh.OffsetX, sh.OffsetY, sh.Blur)
						r.fillTextSpaced(tb, s.LetterSpacing, metrics.Baseline)
					}
					c.ClearShadow()
				}

				if len(s.TextDecorationLine) > 0 {
					r.renderDecorations(tb, s, metrics)
				}

			case css.PaintStroke:
				if s.WebkitTextStrokeWidth > 0 && !blank {
					c.SetStrokeColor(s.WebkitTextStrokeColor)
					c.SetLineWidth(s.WebkitTextStrokeWidth)
					c.SetLineJoin(canvas.JoinMiter)
					c.StrokeText(tb.Text, tb.Bounds.Left, tb.Bounds.Top+metrics.Baseline)
				}
			}
		}
	}
}

func (r *Renderer) renderDecorations(tb dom.TextBounds, s *css.Declaration, metrics text.FontMetrics) {
	c := r.canvas
	col := s.DecorationColor()
	c.SetFillColor(col)
	c.SetStrokeColor(col)
	thickness := s.TextDecorationThickness.Absolute(tb.Bounds.Height)
	b := tb.Bounds
	for _, line := range s.TextDecorationLine {
		switch line {
		case css.Underline:
			r.drawDecorationLine(s.TextDecorationStyle, b.Left, b.Top+metrics.Baseline+2, b.Width, thickness)
		case css.Overline:
			r.drawDecorationLine(s.TextDecorationStyle, b.Left, b.Top, b.Width, thickness)
		case css.LineThrough:
			r.drawDecorationLine(s.TextDecorationStyle, b.Left, b.Top+metrics.Middle, b.Width, thickness)
		}
	}
}

// drawDecorationLine paints one decoration of width w whose top edge is
// at y.
func (r *Renderer) drawDecorationLine(style css.TextDecorationStyle, x, y, w, thickness float64) {
	c := r.canvas
	lh := math.Max(1, math.Round(thickness))
	yy := math.Round(y)

	switch style {
	case css.DecorationDouble:
		c.FillRect(x, yy, w, lh)
		c.FillRect(x, math.Round(y+math.Max(2, lh+1)), w, lh)

	case css.DecorationDotted:
		radius := lh / 2
		spacing := math.Max(3, lh*2)
		c.BeginPath()
		for i := x; i < x+w; i += spacing {
			c.MoveTo(i+radius, yy+radius)
			c.Arc(i, yy+radius, radius, 0, 2*math.Pi, false)
		}
		c.Fill()

	case css.DecorationDashed:
		c.Scoped(func() {
			c.SetLineDash([]float64{math.Max(4, lh*3), math.Max(3, lh*2)})
			c.SetLineWidth(lh)
			r.strokeHorizontal(x, yy+lh/2, w)
		})

	case css.DecorationWavy:
		waveHeight := math.Max(1.5, lh)
		waveLength := math.Max(6, lh*4)
		mid := yy + lh/2
		c.Scoped(func() {
			c.SetLineWidth(lh)
			c.BeginPath()
			c.MoveTo(x, mid)
			up := true
			for cur := x; cur < x+w; {
				next := math.Min(cur+waveLength/2, x+w)
				cy := mid + waveHeight
				if up {
					cy = mid - waveHeight
				}
				c.QuadraticCurveTo(cur+waveLength/4, cy, next, mid)
				cur, up = next, !up
			}
			c.Stroke()
		})

	default:
		c.FillRect(x, yy, w, lh)
	}
}

func (r *Renderer) strokeHorizontal(x, y, w float64) {
	c := r.canvas
	c.BeginPath()
	c.MoveTo(x, y)
	c.LineTo(x+w, y)
	c.Stroke()
}
