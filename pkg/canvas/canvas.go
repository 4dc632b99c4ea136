// Package canvas is an immediate-mode 2D drawing surface with the state
// model of the HTML canvas: a save/restore stack holding the transform,
// clip, alpha, blend mode, paints, line and shadow parameters and font.
// Geometry is transformed to device space as it is added and rasterised
// with gg.
package canvas

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/fogleman/gg"

	"domshot/pkg/compose"
	"domshot/pkg/css"
	"domshot/pkg/geom"
	"domshot/pkg/text"
)

type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

type TextBaseline int

const (
	BaselineAlphabetic TextBaseline = iota
	BaselineMiddle
	BaselineTop
)

type state struct {
	matrix geom.Matrix
	clip   *image.Alpha
	alpha  float64
	blend  css.BlendMode

	fill   Paint
	stroke Paint

	lineWidth float64
	lineCap   LineCap
	lineJoin  LineJoin
	dash      []float64

	shadowColor   css.Color
	shadowOffsetX float64
	shadowOffsetY float64
	shadowBlur    float64

	font     *text.Face
	align    TextAlign
	baseline TextBaseline
}

// Canvas draws onto an RGBA image. It is not safe for concurrent use.
type Canvas struct {
	img   *image.RGBA
	gc    *gg.Context
	state state
	stack []state

	path       []op
	start      geom.Vector
	current    geom.Vector
	hasCurrent bool

	err error
}

// New creates a transparent canvas of width x height device pixels.
func New(width, height int) *Canvas {
	return NewForRGBA(image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))))
}

// NewForRGBA draws onto img, which must have its origin at (0, 0).
func NewForRGBA(img *image.RGBA) *Canvas {
	return &Canvas{
		img: img,
		gc:  gg.NewContextForRGBA(img),
		state: state{
			matrix:    geom.Identity,
			alpha:     1,
			fill:      Solid(css.Black),
			stroke:    Solid(css.Black),
			lineWidth: 1,
		},
	}
}

func (c *Canvas) Image() *image.RGBA { return c.img }

// Err returns the first error a drawing call hit. Calls that fail draw
// nothing.
func (c *Canvas) Err() error { return c.err }
func (c *Canvas) Width() int         { return c.img.Rect.Dx() }
func (c *Canvas) Height() int        { return c.img.Rect.Dy() }

// Save pushes a copy of the drawing state.
func (c *Canvas) Save() {
	s := c.state
	s.dash = append([]float64(nil), c.state.dash...)
	c.stack = append(c.stack, s)
}

// Restore pops the drawing state. Unbalanced calls are ignored.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// Depth is the number of saved states.
func (c *Canvas) Depth() int { return len(c.stack) }

// Scoped runs fn between Save and Restore.
func (c *Canvas) Scoped(fn func()) {
	c.Save()
	defer c.Restore()
	fn()
}

func (c *Canvas) Transform(m geom.Matrix) { c.state.matrix = c.state.matrix.Multiply(m) }
func (c *Canvas) Translate(x, y float64)  { c.Transform(geom.Translate(x, y)) }
func (c *Canvas) Scale(x, y float64)      { c.Transform(geom.Scale(x, y)) }
func (c *Canvas) Rotate(angle float64)    { c.Transform(geom.Rotate(angle)) }
func (c *Canvas) Matrix() geom.Matrix     { return c.state.matrix }

// SetGlobalAlpha sets the alpha applied to everything drawn.
func (c *Canvas) SetGlobalAlpha(a float64) { c.state.alpha = math.Max(0, math.Min(1, a)) }
func (c *Canvas) GlobalAlpha() float64     { return c.state.alpha }

func (c *Canvas) SetBlendMode(m css.BlendMode) { c.state.blend = m }

func (c *Canvas) SetFillPaint(p Paint)         { c.state.fill = p }
func (c *Canvas) SetFillColor(col css.Color)   { c.state.fill = Solid(col) }
func (c *Canvas) SetStrokePaint(p Paint)       { c.state.stroke = p }
func (c *Canvas) SetStrokeColor(col css.Color) { c.state.stroke = Solid(col) }

func (c *Canvas) SetLineWidth(w float64)  { c.state.lineWidth = w }
func (c *Canvas) SetLineCap(lc LineCap)   { c.state.lineCap = lc }
func (c *Canvas) SetLineJoin(j LineJoin)  { c.state.lineJoin = j }
func (c *Canvas) SetLineDash(d []float64) { c.state.dash = append([]float64(nil), d...) }

// SetShadow sets the shadow drawn under fills and strokes. Offsets are in
// user units; blur follows the canvas shadowBlur convention (twice the
// gaussian deviation).
func (c *Canvas) SetShadow(col css.Color, offsetX, offsetY, blur float64) {
	c.state.shadowColor = col
	c.state.shadowOffsetX = offsetX
	c.state.shadowOffsetY = offsetY
	c.state.shadowBlur = blur
}

// ClearShadow disables shadows.
func (c *Canvas) ClearShadow() { c.SetShadow(css.Transparent, 0, 0, 0) }

// UserBounds is the device rectangle mapped back into user space.
func (c *Canvas) UserBounds() geom.Bounds {
	inv, ok := c.state.matrix.Invert()
	if !ok {
		return geom.Empty
	}
	w, h := float64(c.Width()), float64(c.Height())
	var p geom.Path
	for _, pt := range [][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}} {
		x, y := inv.Apply(pt[0], pt[1])
		p = append(p, geom.Vector{X: x, Y: y})
	}
	return p.Extent()
}

// Clip intersects the clip region with the current path.
func (c *Canvas) Clip() {
	tmp := image.NewRGBA(c.img.Rect)
	gc := gg.NewContextForRGBA(tmp)
	replay(gc, c.path, 0, 0)
	gc.SetFillStyle(gg.NewSolidPattern(css.White.NRGBA()))
	gc.Fill()
	mask := gc.AsMask()
	if old := c.state.clip; old != nil {
		for i := range mask.Pix {
			mask.Pix[i] = uint8(uint32(mask.Pix[i]) * uint32(old.Pix[i]) / 255)
		}
	}
	c.state.clip = mask
}

// Clear resets every pixel to transparent.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Rect, image.Transparent, image.Point{}, draw.Src)
}

// Fill fills the current path with the fill paint.
func (c *Canvas) Fill() {
	c.fillOps(c.path, c.state.fill, true)
}

// Stroke strokes the current path with the stroke paint.
func (c *Canvas) Stroke() {
	c.strokeOps(c.path, c.state.stroke, true)
}

// FillRect fills a rectangle without touching the current path.
func (c *Canvas) FillRect(x, y, w, h float64) {
	saved, hs, st, cur := c.path, c.hasCurrent, c.start, c.current
	c.path = nil
	c.Rect(x, y, w, h)
	c.fillOps(c.path, c.state.fill, true)
	c.path, c.hasCurrent, c.start, c.current = saved, hs, st, cur
}

func (c *Canvas) pattern(p Paint) gg.Pattern {
	inv, ok := c.state.matrix.Invert()
	if !ok {
		return gg.NewSolidPattern(image.Transparent.C)
	}
	return p.pattern(inv, c.state.alpha)
}

// composite runs draw against the target image, honouring the clip, and
// blends the result when a blend mode is set.
func (c *Canvas) composite(drawFn func(gc *gg.Context)) {
	if c.state.blend == css.BlendNormal {
		if c.withClip(c.gc) {
			drawFn(c.gc)
		}
		return
	}
	layer := image.NewRGBA(c.img.Rect)
	gc := gg.NewContextForRGBA(layer)
	if !c.withClip(gc) {
		return
	}
	drawFn(gc)
	compose.Blend(c.img, layer, c.img.Rect, c.state.blend)
}

// withClip installs the clip mask on gc. gg rejects a mask whose size
// differs from the context; the failure is kept in Err.
func (c *Canvas) withClip(gc *gg.Context) bool {
	if c.state.clip == nil {
		gc.ResetClip()
		return true
	}
	if err := gc.SetMask(c.state.clip); err != nil {
		c.fail(fmt.Errorf("canvas: apply clip: %w", err))
		return false
	}
	return true
}

func (c *Canvas) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Canvas) fillOps(ops []op, p Paint, shadow bool) {
	if len(ops) == 0 || c.state.alpha == 0 {
		return
	}
	if shadow && c.hasShadow() {
		c.drawShadow(func(gc *gg.Context, dx, dy float64) {
			replay(gc, ops, dx, dy)
			gc.Fill()
		})
	}
	pat := c.pattern(p)
	c.composite(func(gc *gg.Context) {
		replay(gc, ops, 0, 0)
		gc.SetFillStyle(pat)
		gc.Fill()
	})
}

func (c *Canvas) deviceLineWidth() float64 {
	return c.state.lineWidth * c.state.matrix.ScaleFactor()
}

func (c *Canvas) deviceDash() []float64 {
	if len(c.state.dash) == 0 {
		return nil
	}
	k := c.state.matrix.ScaleFactor()
	out := make([]float64, 0, len(c.state.dash)*2)
	for _, d := range c.state.dash {
		out = append(out, d*k)
	}
	if len(out)%2 == 1 {
		out = append(out, out...)
	}
	return out
}

func (c *Canvas) configureStroke(gc *gg.Context) {
	gc.SetLineWidth(c.deviceLineWidth())
	switch c.state.lineCap {
	case CapRound:
		gc.SetLineCap(gg.LineCapRound)
	case CapSquare:
		gc.SetLineCap(gg.LineCapSquare)
	default:
		gc.SetLineCap(gg.LineCapButt)
	}
	if c.state.lineJoin == JoinRound {
		gc.SetLineJoin(gg.LineJoinRound)
	} else {
		gc.SetLineJoin(gg.LineJoinBevel)
	}
	gc.SetDash(c.deviceDash()...)
}

func (c *Canvas) strokeOps(ops []op, p Paint, shadow bool) {
	if len(ops) == 0 || c.state.alpha == 0 || c.state.lineWidth <= 0 {
		return
	}
	if dash := c.deviceDash(); c.state.lineCap == CapRound && len(dash) > 0 && dash[0] == 0 {
		// Zero-length dashes with round caps are dots.
		c.fillOps(dots(ops, c.deviceLineWidth()/2, dash), p, shadow)
		return
	}
	if shadow && c.hasShadow() {
		c.drawShadow(func(gc *gg.Context, dx, dy float64) {
			c.configureStroke(gc)
			replay(gc, ops, dx, dy)
			gc.Stroke()
		})
	}
	pat := c.pattern(p)
	c.composite(func(gc *gg.Context) {
		c.configureStroke(gc)
		replay(gc, ops, 0, 0)
		gc.SetStrokeStyle(pat)
		gc.Stroke()
		gc.SetDash()
	})
}

func (c *Canvas) hasShadow() bool {
	s := c.state
	return !s.shadowColor.IsTransparent() && (s.shadowBlur > 0 || s.shadowOffsetX != 0 || s.shadowOffsetY != 0)
}

// drawShadow rasterises a shape in the shadow colour at the device
// offset, blurs it and composites it under the clip.
func (c *Canvas) drawShadow(shape func(gc *gg.Context, dx, dy float64)) {
	s := c.state
	dx, dy := s.matrix.ApplyVector(s.shadowOffsetX, s.shadowOffsetY)
	layer := image.NewRGBA(c.img.Rect)
	gc := gg.NewContextForRGBA(layer)
	col := s.shadowColor.WithAlpha(s.alpha)
	gc.SetFillStyle(gg.NewSolidPattern(col.NRGBA()))
	gc.SetStrokeStyle(gg.NewSolidPattern(col.NRGBA()))
	shape(gc, dx, dy)
	compose.Blur(layer, s.shadowBlur*s.matrix.ScaleFactor()/2)

	if s.blend != css.BlendNormal {
		if s.clip != nil {
			masked := image.NewRGBA(c.img.Rect)
			draw.DrawMask(masked, masked.Rect, layer, image.Point{}, s.clip, image.Point{}, draw.Src)
			layer = masked
		}
		compose.Blend(c.img, layer, c.img.Rect, s.blend)
		return
	}
	var mask image.Image
	if s.clip != nil {
		mask = s.clip
	}
	draw.DrawMask(c.img, c.img.Rect, layer, image.Point{}, mask, image.Point{}, draw.Over)
}
