package render

import (
	"context"
	"math"

	"go.uber.org/zap"

	"domshot/pkg/background"
	"domshot/pkg/canvas"
	"domshot/pkg/css"
	"domshot/pkg/dom"
	"domshot/pkg/geom"
	"domshot/pkg/images"
	"domshot/pkg/stacking"
)

// maskOffset moves outer shadow shapes off the surface so only their
// shadow lands on it.
const maskOffset = 10000

func curvedPaintingArea(clip css.Box, curves geom.BoundCurves) geom.Path {
	switch clip {
	case css.BorderBox:
		return geom.BorderBoxPath(curves)
	case css.ContentBox:
		return geom.ContentBoxPath(curves)
	}
	return geom.PaddingBoxPath(curves)
}

func (r *Renderer) renderNodeBackgroundAndBorders(ctx context.Context, paint *stacking.ElementPaint) error {
	r.ApplyEffects(paint.Effects(stacking.BackgroundBorders))
	s := paint.Container.Styles
	c := r.canvas
	hasBackground := !s.BackgroundColor.IsTransparent() || len(s.BackgroundImage) > 0

	if hasBackground || len(s.BoxShadow) > 0 {
		var err error
		c.Scoped(func() {
			c.SetPath(curvedPaintingArea(background.ValueForIndex(s.BackgroundClip, 0), paint.Curves))
			c.Clip()
			if !s.BackgroundColor.IsTransparent() {
				c.SetFillColor(s.BackgroundColor)
				c.Fill()
			}
			err = r.renderBackgroundImage(ctx, paint.Container)
		})
		if err != nil {
			return err
		}

		for i := len(s.BoxShadow) - 1; i >= 0; i-- {
			r.renderBoxShadow(s.BoxShadow[i], paint.Curves)
		}
	}

	for side, b := range s.Borders {
		if b.Style == css.BorderNone || b.Style == css.BorderHidden || b.Color.IsTransparent() || b.Width <= 0 {
			continue
		}
		switch {
		case b.Style == css.BorderDashed || b.Style == css.BorderDotted:
			r.renderDashedDottedBorder(b.Color, b.Width, side, paint.Curves, b.Style)
		case b.Style == css.BorderDouble:
			r.renderDoubleBorder(b.Color, b.Width, side, paint.Curves)
		case b.Style.Is3D():
			r.render3DBorder(b.Color, b.Style, side, paint.Curves)
		default:
			r.renderSolidBorder(b.Color, side, paint.Curves)
		}
	}
	return nil
}

func (r *Renderer) renderBoxShadow(shadow css.Shadow, curves geom.BoundCurves) {
	c := r.canvas
	c.Scoped(func() {
		borderBox := geom.BorderBoxPath(curves)
		offset, dir := float64(maskOffset), -1.0
		if shadow.Inset {
			offset, dir = 0, 1
		}
		spread := shadow.Spread
		area := geom.TransformPath(borderBox, -offset+dir*spread, dir*spread, -dir*2*spread, -dir*2*spread)

		if shadow.Inset {
			c.SetPath(borderBox)
			c.Clip()
			r.mask(area)
		} else {
			r.mask(borderBox)
			c.Clip()
			c.SetPath(area)
		}

		c.SetShadow(shadow.Color, shadow.OffsetX+offset, shadow.OffsetY, shadow.Blur)
		if shadow.Inset {
			c.SetFillColor(shadow.Color)
		} else {
			c.SetFillColor(css.Black)
		}
		c.Fill()
	})
}

// mask sets the current path to the visible surface minus p.
func (r *Renderer) mask(p geom.Path) {
	c := r.canvas
	b := c.UserBounds()
	c.BeginPath()
	c.MoveTo(b.Left, b.Top)
	c.LineTo(b.Right(), b.Top)
	c.LineTo(b.Right(), b.Bottom())
	c.LineTo(b.Left, b.Bottom())
	c.LineTo(b.Left, b.Top)
	c.AppendPath(p.Reverse())
	c.ClosePath()
}

// renderRepeat fills path with a paint anchored at (x, y).
func (r *Renderer) renderRepeat(path geom.Path, p canvas.Paint, x, y float64) {
	c := r.canvas
	c.SetPath(path)
	c.SetFillPaint(p)
	c.Translate(x, y)
	c.Fill()
	c.Translate(-x, -y)
}

// renderBackgroundImage paints the layers bottom first, so the first
// declared layer ends on top.
func (r *Renderer) renderBackgroundImage(ctx context.Context, el *dom.Element) error {
	s := el.Styles
	for i := len(s.BackgroundImage) - 1; i >= 0; i-- {
		var err error
		switch img := s.BackgroundImage[i].(type) {
		case css.URLImage:
			err = r.renderURLBackground(ctx, el, i, img.URL)
		case css.LinearGradient:
			err = r.renderLinearBackground(el, i, img)
		case css.RadialGradient:
			err = r.renderRadialBackground(el, i, img)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderURLBackground(ctx context.Context, el *dom.Element, i int, url string) error {
	img, err := r.cache.Match(ctx, url)
	if err != nil {
		r.logger.Error("Error loading background-image", zap.String("url", url), zap.Error(err))
		return nil
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	in := background.Intrinsic{}
	if w > 0 && h > 0 {
		in = background.NaturalSize(w, h)
	}
	rendering, err := background.Calculate(el, i, in)
	if err != nil {
		return err
	}
	if rendering.Width <= 0 || rendering.Height <= 0 {
		return nil
	}
	scale := r.opts.Scale
	tile := images.Resize(img,
		max(1, int(math.Ceil(rendering.Width*scale))),
		max(1, int(math.Ceil(rendering.Height*scale))))
	r.renderRepeat(rendering.Path, canvas.Pattern{Image: tile, Width: rendering.Width, Height: rendering.Height},
		rendering.OffsetX, rendering.OffsetY)
	return nil
}

func (r *Renderer) renderLinearBackground(el *dom.Element, i int, g css.LinearGradient) error {
	rendering, err := background.Calculate(el, i, background.Intrinsic{})
	if err != nil {
		return err
	}
	w, h := rendering.Width, rendering.Height
	if w <= 0 || h <= 0 {
		return nil
	}
	lineLength, x0, x1, y0, y1 := css.GradientDirection(g, w, h)

	scale := r.opts.Scale
	tile := canvas.New(max(1, int(math.Ceil(w*scale))), max(1, int(math.Ceil(h*scale))))
	tile.Scale(scale, scale)
	tile.SetFillPaint(canvas.LinearGradient{
		X0: x0, Y0: y0, X1: x1, Y1: y1,
		Stops: css.ProcessColorStops(g.Stops, lineLength),
	})
	tile.FillRect(0, 0, w, h)

	r.renderRepeat(rendering.Path, canvas.Pattern{Image: tile.Image(), Width: w, Height: h},
		rendering.OffsetX, rendering.OffsetY)
	return nil
}

func (r *Renderer) renderRadialBackground(el *dom.Element, i int, g css.RadialGradient) error {
	rendering, err := background.Calculate(el, i, background.Intrinsic{})
	if err != nil {
		return err
	}
	left, top, w, h := rendering.OffsetX, rendering.OffsetY, rendering.Width, rendering.Height
	position := g.Position
	if len(position) == 0 {
		position = []css.LengthPercentage{css.FiftyPercent}
	}
	x := position[0].Absolute(w)
	y := position[len(position)-1].Absolute(h)

	rx, ry := css.RadialRadius(g, x, y, w, h)
	if rx <= 0 || ry <= 0 {
		return nil
	}
	c := r.canvas
	c.SetPath(rendering.Path)
	c.SetFillPaint(canvas.RadialGradient{
		X: left + x, Y: top + y, R: rx,
		Stops: css.ProcessColorStops(g.Stops, rx*2),
	})
	if rx == ry {
		c.Fill()
		return nil
	}
	// Elliptical gradients are circular ones squashed vertically about the
	// element's centre.
	b := el.Bounds
	midX, midY := b.Left+0.5*b.Width, b.Top+0.5*b.Height
	f := ry / rx
	c.Scoped(func() {
		c.Translate(midX, midY)
		c.Transform(geom.Matrix{1, 0, 0, f, 0, 0})
		c.Translate(-midX, -midY)
		c.FillRect(left, (top-midY)/f+midY, w, h/f)
	})
	return nil
}
