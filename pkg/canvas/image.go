package canvas

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"domshot/pkg/compose"
	"domshot/pkg/css"
	"domshot/pkg/geom"
)

// DrawImage draws the source rectangle (sx, sy, sw, sh) of img into the
// user-space rectangle (dx, dy, dw, dh), resampling bilinearly.
func (c *Canvas) DrawImage(img image.Image, sx, sy, sw, sh, dx, dy, dw, dh float64) {
	if img == nil || sw <= 0 || sh <= 0 || dw == 0 || dh == 0 || c.state.alpha == 0 {
		return
	}
	b := img.Bounds()
	m := c.state.matrix.
		Multiply(geom.Translate(dx, dy)).
		Multiply(geom.Scale(dw/sw, dh/sh)).
		Multiply(geom.Translate(-sx-float64(b.Min.X), -sy-float64(b.Min.Y)))
	src := image.Rect(
		b.Min.X+int(sx), b.Min.Y+int(sy),
		b.Min.X+int(sx+sw+0.999), b.Min.Y+int(sy+sh+0.999),
	).Intersect(b)
	if src.Empty() {
		return
	}

	mask := c.drawMask()
	aff := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
	opts := &xdraw.Options{}
	if mask != nil {
		opts.DstMask = mask
	}

	if c.state.blend == css.BlendNormal {
		xdraw.BiLinear.Transform(c.img, aff, img, src, xdraw.Over, opts)
		return
	}
	layer := image.NewRGBA(c.img.Rect)
	xdraw.BiLinear.Transform(layer, aff, img, src, xdraw.Over, opts)
	compose.Blend(c.img, layer, c.img.Rect, c.state.blend)
}

// drawMask combines the clip with the global alpha, or returns nil when
// neither restricts drawing.
func (c *Canvas) drawMask() *image.Alpha {
	clip, alpha := c.state.clip, c.state.alpha
	if clip == nil && alpha >= 1 {
		return nil
	}
	out := image.NewAlpha(c.img.Rect)
	a := uint32(alpha*255 + 0.5)
	for i := range out.Pix {
		v := uint32(255)
		if clip != nil {
			v = uint32(clip.Pix[i])
		}
		out.Pix[i] = uint8(v * a / 255)
	}
	return out
}

// Composite draws a device-space layer of the same size over the canvas
// with the given blend mode. The clip and global alpha are not applied.
func (c *Canvas) Composite(layer *image.RGBA, mode css.BlendMode) {
	r := c.img.Rect.Intersect(layer.Rect)
	if mode == css.BlendNormal {
		draw.Draw(c.img, r, layer, r.Min, draw.Over)
		return
	}
	compose.Blend(c.img, layer, r, mode)
}
