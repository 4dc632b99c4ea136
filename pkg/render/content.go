package render

import (
	"context"
	"image"
	"math"

	"go.uber.org/zap"

	"domshot/pkg/canvas"
	"domshot/pkg/css"
	"domshot/pkg/dom"
	"domshot/pkg/geom"
	"domshot/pkg/stacking"
)

// defaultRadioColor fills checked radios without an accent-color.
const defaultRadioColor = css.Color(0x2a2a2aff)

// checkmark is the tick of a checked checkbox as fractions of its size.
var checkmark = [][2]float64{
	{0.39363, 0.79},
	{0.16, 0.5549},
	{0.27347, 0.44071},
	{0.39694, 0.5649},
	{0.72983, 0.23},
	{0.84, 0.34085},
	{0.39363, 0.79},
}

const svgLogLimit = 255

func (r *Renderer) renderNodeContent(ctx context.Context, paint *stacking.ElementPaint) {
	r.ApplyEffects(paint.Effects(stacking.Content))
	el := paint.Container
	s := el.Styles
	c := r.canvas

	for _, t := range el.TextNodes {
		r.renderTextNode(t, s)
	}

	switch content := el.Content.(type) {
	case dom.ImageContent:
		img, err := r.cache.Match(ctx, content.Src)
		if err != nil {
			r.logger.Error("Error loading image", zap.String("src", content.Src), zap.Error(err))
			break
		}
		r.renderReplacedElement(el, paint.Curves, img)

	case dom.CanvasContent:
		r.renderReplacedElement(el, paint.Curves, content.Image)

	case dom.SVGContent:
		img, err := r.cache.Match(ctx, content.Markup)
		if err != nil {
			markup := content.Markup
			if len(markup) > svgLogLimit {
				markup = markup[:svgLogLimit]
			}
			r.logger.Error("Error loading svg", zap.String("markup", markup), zap.Error(err))
			break
		}
		r.renderReplacedElement(el, paint.Curves, img)

	case dom.IFrameContent:
		r.renderIFrame(ctx, el, content)

	case dom.InputContent:
		if !content.Checked {
			break
		}
		b := el.Bounds
		size := math.Min(b.Width, b.Height)
		switch content.Type {
		case dom.InputCheckbox:
			c.BeginPath()
			for i, p := range checkmark {
				x, y := b.Left+size*p[0], b.Top+size*p[1]
				if i == 0 {
					c.MoveTo(x, y)
				} else {
					c.LineTo(x, y)
				}
			}
			c.SetFillColor(css.White)
			c.Fill()
		case dom.InputRadio:
			col := defaultRadioColor
			if s.AccentColor != nil {
				col = *s.AccentColor
			}
			c.BeginPath()
			c.Arc(b.Left+size/2, b.Top+size/2, size/4, 0, 2*math.Pi, true)
			c.SetFillColor(col)
			c.Fill()
		}
	}

	if el.IsTextInput() && el.Value() != "" {
		r.renderInputValue(el)
	}

	if s.Display.Has(css.DisplayListItem) {
		r.renderListMarker(ctx, paint)
	}
}

func (r *Renderer) renderInputValue(el *dom.Element) {
	s := el.Styles
	c := r.canvas
	if !r.setFont(s) {
		return
	}
	metrics, err := r.fonts.Metrics(r.fontStyle(s).Families, s.FontSize)
	if err != nil {
		r.logger.Error("Error measuring font", zap.Strings("families", s.FontFamily), zap.Error(err))
		return
	}
	c.SetFillColor(s.Color)
	c.SetTextBaseline(canvas.BaselineAlphabetic)

	bounds := el.ContentBox()
	x := 0.0
	switch s.TextAlign {
	case css.TextAlignCenter:
		c.SetTextAlign(canvas.AlignCenter)
		x = bounds.Width / 2
	case css.TextAlignRight:
		c.SetTextAlign(canvas.AlignRight)
		x = bounds.Width
	default:
		c.SetTextAlign(canvas.AlignLeft)
	}
	textBounds := bounds.Add(x, 0, 0, -bounds.Height/2+1)

	c.Scoped(func() {
		c.SetPath(bounds.Path())
		c.Clip()
		r.fillTextSpaced(dom.TextBounds{Text: el.Value(), Bounds: textBounds}, s.LetterSpacing, metrics.Baseline)
	})
	c.SetTextAlign(canvas.AlignLeft)
}

func (r *Renderer) renderListMarker(ctx context.Context, paint *stacking.ElementPaint) {
	el := paint.Container
	s := el.Styles
	c := r.canvas
	b := el.Bounds

	if s.ListStyleImage != nil {
		u, ok := s.ListStyleImage.(css.URLImage)
		if !ok {
			return
		}
		img, err := r.cache.Match(ctx, u.URL)
		if err != nil {
			r.logger.Error("Error loading list-style-image", zap.String("url", u.URL), zap.Error(err))
			return
		}
		ib := img.Bounds()
		w, h := float64(ib.Dx()), float64(ib.Dy())
		c.DrawImage(img, 0, 0, w, h, b.Left-(w+10), b.Top, w, h)
		return
	}

	if paint.ListValue == "" || s.ListStyleType == css.ListNone {
		return
	}
	if !r.setFont(s) {
		return
	}
	c.SetFillColor(s.Color)
	c.SetTextBaseline(canvas.BaselineMiddle)
	c.SetTextAlign(canvas.AlignRight)
	lineHeight := s.LineHeight.Compute(s.FontSize)
	marker := geom.Bounds{
		Left:   b.Left,
		Top:    b.Top + s.Padding[geom.Top].Absolute(b.Width),
		Width:  b.Width,
		Height: lineHeight/2 + 1,
	}
	r.fillTextSpaced(dom.TextBounds{Text: paint.ListValue, Bounds: marker}, s.LetterSpacing, lineHeight/2+2)
	c.SetTextAlign(canvas.AlignLeft)
	c.SetTextBaseline(canvas.BaselineAlphabetic)
}

func (r *Renderer) renderIFrame(ctx context.Context, el *dom.Element, content dom.IFrameContent) {
	if content.Tree == nil {
		return
	}
	nested, err := New(Options{
		Scale:           r.opts.Scale,
		Width:           content.Width,
		Height:          content.Height,
		BackgroundColor: content.BackgroundColor,
		Cache:           r.cache,
		Fonts:           r.fonts,
		Logger:          r.logger,
		UserAgent:       r.opts.UserAgent,
		LegacyRotate:    r.opts.LegacyRotate,
	})
	if err != nil {
		r.logger.Error("Error rendering iframe", zap.Error(err))
		return
	}
	r.logger.Debug("Rendering iframe",
		zap.Float64("width", content.Width),
		zap.Float64("height", content.Height))
	img, err := nested.Render(ctx, content.Tree)
	if err != nil {
		r.logger.Error("Error rendering iframe", zap.Error(err))
		return
	}
	if content.Width == 0 || content.Height == 0 {
		return
	}
	ib := img.Bounds()
	b := el.Bounds
	r.canvas.DrawImage(img, 0, 0, float64(ib.Dx()), float64(ib.Dy()), b.Left, b.Top, b.Width, b.Height)
}

// ObjectFitLayout places an image of intrinsic size iw x ih inside box.
// dst is the painted rectangle clipped to box; src is the matching part
// of the image in intrinsic units.
func ObjectFitLayout(iw, ih float64, box geom.Bounds, fit css.ObjectFit, position [2]css.LengthPercentage) (src, dst geom.Bounds) {
	dw, dh := box.Width, box.Height
	aspect := iw / ih
	boxAspect := box.Width / box.Height

	contain := func() {
		if aspect > boxAspect {
			dw, dh = box.Width, box.Width/aspect
		} else {
			dw, dh = box.Height*aspect, box.Height
		}
	}
	switch fit {
	case css.ObjectFitContain:
		contain()
	case css.ObjectFitCover:
		if aspect > boxAspect {
			dw, dh = box.Height*aspect, box.Height
		} else {
			dw, dh = box.Width, box.Width/aspect
		}
	case css.ObjectFitNone:
		dw, dh = iw, ih
	case css.ObjectFitScaleDown:
		if iw <= box.Width && ih <= box.Height {
			dw, dh = iw, ih
		} else {
			contain()
		}
	}

	placed := geom.Bounds{
		Left:   box.Left + position[0].Absolute(box.Width-dw),
		Top:    box.Top + position[1].Absolute(box.Height-dh),
		Width:  dw,
		Height: dh,
	}
	left := math.Max(placed.Left, box.Left)
	top := math.Max(placed.Top, box.Top)
	right := math.Min(placed.Right(), box.Right())
	bottom := math.Min(placed.Bottom(), box.Bottom())
	if right <= left || bottom <= top {
		return geom.Bounds{}, geom.Bounds{}
	}
	dst = geom.Bounds{Left: left, Top: top, Width: right - left, Height: bottom - top}

	fx, fy := iw/dw, ih/dh
	src = geom.Bounds{
		Left:   (left - placed.Left) * fx,
		Top:    (top - placed.Top) * fy,
		Width:  dst.Width * fx,
		Height: dst.Height * fy,
	}
	return src, dst
}

// renderReplacedElement draws img into the content box according to
// object-fit and object-position, clipped to the padding box.
func (r *Renderer) renderReplacedElement(el *dom.Element, curves geom.BoundCurves, img image.Image) {
	if img == nil || el.IntrinsicWidth <= 0 || el.IntrinsicHeight <= 0 {
		return
	}
	box := el.ContentBox()
	if box.Width <= 0 || box.Height <= 0 {
		return
	}
	s := el.Styles
	src, dst := ObjectFitLayout(el.IntrinsicWidth, el.IntrinsicHeight, box, s.ObjectFit, s.ObjectPosition)
	if dst.Width <= 0 || dst.Height <= 0 {
		return
	}
	// The decoded image may be larger than its intrinsic size, as for
	// high density canvases.
	ib := img.Bounds()
	kx := float64(ib.Dx()) / el.IntrinsicWidth
	ky := float64(ib.Dy()) / el.IntrinsicHeight

	c := r.canvas
	c.SetPath(geom.PaddingBoxPath(curves))
	c.Scoped(func() {
		c.Clip()
		c.DrawImage(img, src.Left*kx, src.Top*ky, src.Width*kx, src.Height*ky, dst.Left, dst.Top, dst.Width, dst.Height)
	})
}
