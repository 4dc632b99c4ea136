package stacking

import "domshot/pkg/geom"

// EffectTarget selects the paint phases an effect applies to.
type EffectTarget uint8

const (
	BackgroundBorders EffectTarget = 1 << (iota + 1)
	Content

	AllTargets = BackgroundBorders | Content
)

// Effect is an opacity, transform or clip inherited down the paint tree.
type Effect interface {
	Target() EffectTarget
}

type OpacityEffect struct {
	Opacity float64
}

// TransformEffect applies Matrix about the origin (OffsetX, OffsetY).
type TransformEffect struct {
	OffsetX float64
	OffsetY float64
	Matrix  geom.Matrix
}

type ClipEffect struct {
	Path geom.Path
	On   EffectTarget
}

func (OpacityEffect) Target() EffectTarget   { return AllTargets }
func (TransformEffect) Target() EffectTarget { return AllTargets }
func (c ClipEffect) Target() EffectTarget    { return c.On }

func isClip(e Effect) bool {
	_, ok := e.(ClipEffect)
	return ok
}
