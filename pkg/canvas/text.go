package canvas

import "domshot/pkg/text"

func (c *Canvas) SetFont(f *text.Face)           { c.state.font = f }
func (c *Canvas) Font() *text.Face               { return c.state.font }
func (c *Canvas) SetTextAlign(a TextAlign)       { c.state.align = a }
func (c *Canvas) SetTextBaseline(b TextBaseline) { c.state.baseline = b }

// MeasureText returns the advance of s in the current font, or 0 when no
// font is set.
func (c *Canvas) MeasureText(s string) float64 {
	if c.state.font == nil {
		return 0
	}
	return c.state.font.Measure(s)
}

// FillText fills s at (x, y) with the fill paint.
func (c *Canvas) FillText(s string, x, y float64) {
	if ops := c.textOps(s, x, y); ops != nil {
		c.fillOps(ops, c.state.fill, true)
	}
}

// StrokeText strokes the outline of s with the stroke paint.
func (c *Canvas) StrokeText(s string, x, y float64) {
	if ops := c.textOps(s, x, y); ops != nil {
		c.strokeOps(ops, c.state.stroke, true)
	}
}

// textOps builds glyph outlines in a scratch path, leaving the current
// path untouched.
func (c *Canvas) textOps(s string, x, y float64) []op {
	f := c.state.font
	if f == nil || s == "" {
		return nil
	}
	switch c.state.align {
	case AlignCenter:
		x -= f.Measure(s) / 2
	case AlignRight:
		x -= f.Measure(s)
	}
	m := f.Metrics()
	switch c.state.baseline {
	case BaselineMiddle:
		y += (m.Ascent - m.Descent) / 2
	case BaselineTop:
		y += m.Ascent
	}

	saved, hs, st, cur := c.path, c.hasCurrent, c.start, c.current
	c.path, c.hasCurrent = nil, false
	f.Outline(s, x, y, c)
	ops := c.path
	c.path, c.hasCurrent, c.start, c.current = saved, hs, st, cur
	return ops
}
