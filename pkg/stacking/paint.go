package stacking

import (
	"domshot/pkg/css"
	"domshot/pkg/dom"
	"domshot/pkg/geom"
)

// ElementPaint wraps an element with the geometry and effects the painter
// needs. Parent is a structural back-link used to collect inherited
// effects.
type ElementPaint struct {
	Container *dom.Element
	Parent    *ElementPaint
	Curves    geom.BoundCurves

	// ListValue is the marker text of a list item, filled in by
	// NumberLists.
	ListValue string

	effects []Effect
}

// NewElementPaint computes the curves and the intrinsic effects of el in
// composition order: opacity, transform, clip.
func NewElementPaint(el *dom.Element, parent *ElementPaint) *ElementPaint {
	p := &ElementPaint{
		Container: el,
		Parent:    parent,
		Curves:    geom.NewBoundCurves(el.Metrics()),
	}
	s := el.Styles
	if s.Opacity < 1 {
		p.effects = append(p.effects, OpacityEffect{Opacity: s.Opacity})
	}
	if s.IsTransformed() {
		b := el.Bounds
		p.effects = append(p.effects, TransformEffect{
			OffsetX: b.Left + s.TransformOrigin[0].Absolute(b.Width),
			OffsetY: b.Top + s.TransformOrigin[1].Absolute(b.Height),
			Matrix:  ComposeTransform(s, b),
		})
	}
	if s.ClipsOverflow() {
		border := geom.BorderBoxPath(p.Curves)
		padding := geom.PaddingBoxPath(p.Curves)
		// Overflow clips descendants and content, never the element's own
		// background.
		if geom.EqualPath(border, padding) {
			p.effects = append(p.effects, ClipEffect{Path: border, On: Content})
		} else {
			p.effects = append(p.effects, ClipEffect{Path: padding, On: Content})
		}
	}
	return p
}

// ComposeTransform multiplies translate, rotate, scale and transform in
// that order, skipping the ones that are not set.
func ComposeTransform(s *css.Declaration, b geom.Bounds) geom.Matrix {
	m := geom.Identity
	if t := s.Translate; t != nil {
		m = m.Multiply(geom.Translate(t.X.Absolute(b.Width), t.Y.Absolute(b.Height)))
	}
	if s.Rotate != nil {
		m = m.Multiply(geom.Rotate(*s.Rotate))
	}
	if sc := s.Scale; sc != nil {
		m = m.Multiply(geom.Scale(sc.X, sc.Y))
	}
	if s.Transform != nil {
		m = m.Multiply(*s.Transform)
	}
	return m
}

// OwnEffects returns the effects intrinsic to this element.
func (p *ElementPaint) OwnEffects() []Effect {
	return append([]Effect(nil), p.effects...)
}

func outOfFlow(pos css.Position) bool {
	return pos == css.PositionAbsolute || pos == css.PositionFixed
}

// Effects returns the effects that apply when painting target, ordered
// from the root down to this element. Clips of static ancestors are
// skipped once an absolutely positioned box has left their flow.
func (p *ElementPaint) Effects(target EffectTarget) []Effect {
	inFlow := !outOfFlow(p.Container.Styles.Position)
	effects := append([]Effect(nil), p.effects...)

	for parent := p.Parent; parent != nil; parent = parent.Parent {
		var prefix []Effect
		ps := parent.Container.Styles
		if inFlow || ps.Position != css.PositionStatic || parent.Parent == nil {
			inFlow = !outOfFlow(ps.Position)
			if ps.ClipsOverflow() {
				border := geom.BorderBoxPath(parent.Curves)
				padding := geom.PaddingBoxPath(parent.Curves)
				if !geom.EqualPath(border, padding) {
					prefix = append(prefix, ClipEffect{Path: padding, On: AllTargets})
				}
			}
		}
		for _, e := range parent.effects {
			if !isClip(e) {
				prefix = append(prefix, e)
			}
		}
		effects = append(prefix, effects...)
	}

	out := effects[:0]
	for _, e := range effects {
		if e.Target()&target != 0 {
			out = append(out, e)
		}
	}
	return out
}
