// Package render paints a captured element tree onto a canvas in CSS
// painting order.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"domshot/pkg/canvas"
	"domshot/pkg/compose"
	"domshot/pkg/css"
	"domshot/pkg/dom"
	"domshot/pkg/geom"
	"domshot/pkg/images"
	"domshot/pkg/stacking"
	"domshot/pkg/text"
)

// Options configures one render pass. X, Y, Width and Height select the
// document region in CSS pixels; the output is Scale times larger.
type Options struct {
	Scale           float64
	X, Y            float64
	Width, Height   float64
	BackgroundColor css.Color

	Cache     images.Matcher
	Fonts     *text.Provider
	Logger    *zap.Logger
	UserAgent string

	// LegacyRotate additionally rotates elements painted outside their
	// own stacking context about their centre when they carry a rotate
	// property. The configuration layer turns it on by default.
	LegacyRotate bool
}

var ErrInvalidOptions = errors.New("invalid render options")

// Renderer owns the output canvas of one render pass. It is not safe
// for concurrent use; the cache and font provider may be shared.
type Renderer struct {
	opts   Options
	canvas *canvas.Canvas
	cache  images.Matcher
	fonts  *text.Provider
	logger *zap.Logger

	// active counts the canvas states pushed by ApplyEffects.
	active int
	blend  css.BlendMode
	rotate *geom.Matrix
}

// New creates a renderer with a canvas of Width*Scale x Height*Scale
// pixels.
func New(opts Options) (*Renderer, error) {
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if opts.Scale < 0 || opts.Width < 0 || opts.Height < 0 {
		return nil, fmt.Errorf("%w: scale %g, size %gx%g", ErrInvalidOptions, opts.Scale, opts.Width, opts.Height)
	}
	r := &Renderer{opts: opts, cache: opts.Cache, fonts: opts.Fonts, logger: opts.Logger}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.fonts == nil {
		r.fonts = text.NewProvider(text.FontConfig{})
	}
	if r.cache == nil {
		c, err := images.NewCache(images.WithLogger(r.logger))
		if err != nil {
			return nil, err
		}
		r.cache = c
	}
	r.canvas = r.newSurface()
	r.logger.Debug("Canvas renderer initialized",
		zap.Float64("width", opts.Width),
		zap.Float64("height", opts.Height),
		zap.Float64("scale", opts.Scale))
	return r, nil
}

// newSurface creates a canvas the size of the output, mapped so user
// space is document CSS pixels.
func (r *Renderer) newSurface() *canvas.Canvas {
	c := canvas.New(int(math.Floor(r.opts.Width*r.opts.Scale)), int(math.Floor(r.opts.Height*r.opts.Scale)))
	c.Scale(r.opts.Scale, r.opts.Scale)
	c.Translate(-r.opts.X, -r.opts.Y)
	return c
}

// Canvas is the output surface.
func (r *Renderer) Canvas() *canvas.Canvas { return r.canvas }

// Render paints the tree below root and returns the output image.
// Asset failures are logged and skipped; background size failures abort
// the pass.
func (r *Renderer) Render(ctx context.Context, root *dom.Element) (*image.RGBA, error) {
	if !r.opts.BackgroundColor.IsTransparent() {
		r.canvas.SetFillColor(r.opts.BackgroundColor)
		r.canvas.FillRect(r.opts.X, r.opts.Y, r.opts.Width, r.opts.Height)
	}
	stack := stacking.Parse(root)
	err := r.RenderStack(ctx, stack)
	r.popEffects()
	if err != nil {
		return nil, err
	}
	if err := r.canvas.Err(); err != nil {
		return nil, err
	}
	return r.canvas.Image(), nil
}

// SavePNG writes the output image to filename.
func (r *Renderer) SavePNG(filename string) error {
	return gg.SavePNG(filename, r.canvas.Image())
}

// ApplyEffects replaces the active effects with effects. A final state
// carries the stack blend mode and the legacy rotation.
func (r *Renderer) ApplyEffects(effects []stacking.Effect) {
	r.popEffects()
	for _, e := range effects {
		r.applyEffect(e)
	}
	r.push()
	r.canvas.SetBlendMode(r.blend)
	if r.rotate != nil {
		r.canvas.Transform(*r.rotate)
	}
}

func (r *Renderer) push() {
	r.canvas.Save()
	r.active++
}

func (r *Renderer) popEffects() {
	for ; r.active > 0; r.active-- {
		r.canvas.Restore()
	}
}

func (r *Renderer) applyEffect(e stacking.Effect) {
	r.push()
	c := r.canvas
	switch e := e.(type) {
	case stacking.OpacityEffect:
		c.SetGlobalAlpha(c.GlobalAlpha() * e.Opacity)
	case stacking.TransformEffect:
		c.Translate(e.OffsetX, e.OffsetY)
		c.Transform(e.Matrix)
		c.Translate(-e.OffsetX, -e.OffsetY)
	case stacking.ClipEffect:
		c.SetPath(e.Path)
		c.Clip()
	}
}

// RenderStack paints a stacking context and everything inside it.
func (r *Renderer) RenderStack(ctx context.Context, stack *stacking.StackingContext) error {
	s := stack.Element.Container.Styles
	if !s.IsVisible() {
		return nil
	}
	prev := r.blend
	if s.MixBlendMode != css.BlendNormal {
		r.blend = s.MixBlendMode
	}
	defer func() { r.blend = prev }()

	if len(s.Filter) > 0 {
		return r.filtered(s.Filter, func() error { return r.renderStackContent(ctx, stack) })
	}
	return r.renderStackContent(ctx, stack)
}

func (r *Renderer) renderStackContent(ctx context.Context, stack *stacking.StackingContext) error {
	r.debug(stack.Element)
	if err := r.renderNodeBackgroundAndBorders(ctx, stack.Element); err != nil {
		return err
	}
	for _, child := range stack.NegativeZIndex {
		if err := r.RenderStack(ctx, child); err != nil {
			return err
		}
	}
	r.renderNodeContent(ctx, stack.Element)
	for _, child := range stack.NonInlineLevel {
		if err := r.RenderNode(ctx, child); err != nil {
			return err
		}
	}
	for _, child := range stack.NonPositionedFloats {
		if err := r.RenderStack(ctx, child); err != nil {
			return err
		}
	}
	for _, child := range stack.NonPositionedInlineLevel {
		if err := r.RenderStack(ctx, child); err != nil {
			return err
		}
	}
	for _, child := range stack.InlineLevel {
		if err := r.RenderNode(ctx, child); err != nil {
			return err
		}
	}
	for _, child := range stack.ZeroOrAutoZIndexOrTransformedOrOpacity {
		if err := r.RenderStack(ctx, child); err != nil {
			return err
		}
	}
	for _, child := range stack.PositiveZIndex {
		if err := r.RenderStack(ctx, child); err != nil {
			return err
		}
	}
	return nil
}

// RenderNode paints the background, borders and content of one element
// that does not form its own stacking context.
func (r *Renderer) RenderNode(ctx context.Context, paint *stacking.ElementPaint) error {
	r.debug(paint)
	s := paint.Container.Styles
	if !s.IsVisible() {
		return nil
	}
	if r.opts.LegacyRotate && s.Rotate != nil {
		b := paint.Container.Bounds
		cx, cy := b.Left+b.Width/2, b.Top+b.Height/2
		m := geom.Translate(cx, cy).Multiply(geom.Rotate(*s.Rotate)).Multiply(geom.Translate(-cx, -cy))
		r.rotate = &m
		defer func() { r.rotate = nil }()
	}
	paintNode := func() error {
		if err := r.renderNodeBackgroundAndBorders(ctx, paint); err != nil {
			return err
		}
		r.renderNodeContent(ctx, paint)
		return nil
	}
	if len(s.Filter) > 0 {
		return r.filtered(s.Filter, paintNode)
	}
	return paintNode()
}

// filtered runs fn against an offscreen canvas with the same geometry,
// applies filters to the result and composites it back with the current
// blend mode.
func (r *Renderer) filtered(filters []css.Filter, fn func() error) error {
	main, active, blend := r.canvas, r.active, r.blend
	r.canvas, r.active, r.blend = r.newSurface(), 0, css.BlendNormal
	err := fn()
	r.popEffects()
	layer := r.canvas.Image()
	if err == nil {
		err = r.canvas.Err()
	}
	r.canvas, r.active, r.blend = main, active, blend
	if err != nil {
		return err
	}
	compose.ApplyFilters(layer, filters, r.opts.Scale)
	r.canvas.Composite(layer, blend)
	return nil
}

func (r *Renderer) debug(paint *stacking.ElementPaint) {
	if paint.Container.Flags.Has(dom.DebugRender) {
		b := paint.Container.Bounds
		r.logger.Debug("Debug render",
			zap.String("tag", paint.Container.Tag),
			zap.Float64("left", b.Left),
			zap.Float64("top", b.Top),
			zap.Float64("width", b.Width),
			zap.Float64("height", b.Height))
	}
}
