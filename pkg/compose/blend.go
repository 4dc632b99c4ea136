// Package compose implements the pixel operations the 2D surface cannot
// express with paths alone: mix-blend-mode compositing, CSS filter
// functions and the gaussian blur shared with shadows.
package compose

import (
	"image"

	"github.com/gogpu/gg/scene"

	"domshot/pkg/css"
)

var sceneModes = map[css.BlendMode]scene.BlendMode{
	css.BlendNormal:     scene.BlendNormal,
	css.BlendMultiply:   scene.BlendMultiply,
	css.BlendScreen:     scene.BlendScreen,
	css.BlendOverlay:    scene.BlendOverlay,
	css.BlendDarken:     scene.BlendDarken,
	css.BlendLighten:    scene.BlendLighten,
	css.BlendColorDodge: scene.BlendColorDodge,
	css.BlendColorBurn:  scene.BlendColorBurn,
	css.BlendHardLight:  scene.BlendHardLight,
	css.BlendSoftLight:  scene.BlendSoftLight,
	css.BlendDifference: scene.BlendDifference,
	css.BlendExclusion:  scene.BlendExclusion,
	css.BlendHue:        scene.BlendHue,
	css.BlendSaturation: scene.BlendSaturation,
	css.BlendColor:      scene.BlendColor,
	css.BlendLuminosity: scene.BlendLuminosity,
}

// SceneMode maps a mix-blend-mode onto the scene blend mode with the same
// W3C formula. Unknown modes are normal.
func SceneMode(mode css.BlendMode) scene.BlendMode {
	if m, ok := sceneModes[mode]; ok {
		return m
	}
	return scene.BlendNormal
}

// Blend composites src over dst inside r using mode. Both images are
// premultiplied RGBA with the same coordinate space.
func Blend(dst, src *image.RGBA, r image.Rectangle, mode css.BlendMode) {
	r = r.Intersect(dst.Bounds()).Intersect(src.Bounds())
	blend := SceneMode(mode).GetBlendFunc()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			si := src.PixOffset(x, y)
			s := src.Pix[si : si+4 : si+4]
			if s[3] == 0 {
				continue
			}
			di := dst.PixOffset(x, y)
			d := dst.Pix[di : di+4 : di+4]
			d[0], d[1], d[2], d[3] = blend(s[0], s[1], s[2], s[3], d[0], d[1], d[2], d[3])
		}
	}
}
