package stacking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domshot/pkg/css"
	"domshot/pkg/dom"
	"domshot/pkg/geom"
)

func newElement(tag string, fn func(*css.Declaration)) *dom.Element {
	el := dom.NewElement(tag, nil, geom.NewBounds(0, 0, 100, 100))
	el.Styles.Display = css.DisplayBlock
	if fn != nil {
		fn(el.Styles)
	}
	el.Flags = dom.Classify(el)
	return el
}

func positioned(z int) func(*css.Declaration) {
	return func(d *css.Declaration) {
		d.Position = css.PositionRelative
		d.ZIndex = css.ZIndex{Order: z}
	}
}

func containers(list []*StackingContext) []*dom.Element {
	var out []*dom.Element
	for _, sc := range list {
		out = append(out, sc.Element.Container)
	}
	return out
}

func TestBuildBuckets(t *testing.T) {
	root := newElement("html", nil)
	block := root.AddChild(newElement("div", nil))
	inline := root.AddChild(newElement("span", func(d *css.Declaration) { d.Display = css.DisplayInline }))
	neg := root.AddChild(newElement("div", positioned(-1)))
	zero := root.AddChild(newElement("div", func(d *css.Declaration) { d.Opacity = 0.5 }))
	pos := root.AddChild(newElement("div", positioned(3)))
	float := root.AddChild(newElement("div", func(d *css.Declaration) { d.Float = css.FloatLeft }))
	isolated := root.AddChild(newElement("div", func(d *css.Declaration) { d.Isolation = true }))

	sc := Parse(root)

	assert.Equal(t, []*dom.Element{neg}, containers(sc.NegativeZIndex))
	assert.Equal(t, []*dom.Element{zero}, containers(sc.ZeroOrAutoZIndexOrTransformedOrOpacity))
	assert.Equal(t, []*dom.Element{pos}, containers(sc.PositiveZIndex))
	assert.Equal(t, []*dom.Element{float}, containers(sc.NonPositionedFloats))
	assert.Equal(t, []*dom.Element{isolated}, containers(sc.NonPositionedInlineLevel))
	require.Len(t, sc.NonInlineLevel, 1)
	assert.Same(t, block, sc.NonInlineLevel[0].Container)
	require.Len(t, sc.InlineLevel, 1)
	assert.Same(t, inline, sc.InlineLevel[0].Container)
}

func TestRealContextsWithoutPositionKeepFlowBucket(t *testing.T) {
	tests := []struct {
		name   string
		style  func(*css.Declaration)
		floats bool
	}{
		{"isolation", func(d *css.Declaration) { d.Isolation = true }, false},
		{"blend", func(d *css.Declaration) { d.MixBlendMode = css.BlendMultiply }, false},
		{"filter", func(d *css.Declaration) { d.Filter = []css.Filter{{Type: css.FilterGrayscale, Amount: 1}} }, false},
		{"floated blend", func(d *css.Declaration) {
			d.Float = css.FloatLeft
			d.MixBlendMode = css.BlendMultiply
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newElement("html", nil)
			el := root.AddChild(newElement("div", tt.style))
			require.True(t, el.Flags.Has(dom.CreatesRealStackingContext))

			sc := Parse(root)

			assert.Empty(t, sc.ZeroOrAutoZIndexOrTransformedOrOpacity)
			if tt.floats {
				assert.Equal(t, []*dom.Element{el}, containers(sc.NonPositionedFloats))
				assert.Empty(t, sc.NonPositionedInlineLevel)
			} else {
				assert.Equal(t, []*dom.Element{el}, containers(sc.NonPositionedInlineLevel))
				assert.Empty(t, sc.NonPositionedFloats)
			}
		})
	}
}

func TestZIndexOrderIsStable(t *testing.T) {
	root := newElement("html", nil)
	a := root.AddChild(newElement("div", positioned(2)))
	b := root.AddChild(newElement("div", positioned(1)))
	c := root.AddChild(newElement("div", positioned(2)))
	d := root.AddChild(newElement("div", positioned(-1)))
	e := root.AddChild(newElement("div", positioned(-3)))
	f := root.AddChild(newElement("div", positioned(-1)))

	sc := Parse(root)

	assert.Equal(t, []*dom.Element{b, a, c}, containers(sc.PositiveZIndex))
	assert.Equal(t, []*dom.Element{e, d, f}, containers(sc.NegativeZIndex))
}

func TestEveryElementPaintedOnce(t *testing.T) {
	root := newElement("html", nil)
	outer := root.AddChild(newElement("div", positioned(1)))
	inner := outer.AddChild(newElement("div", nil))
	inner.AddChild(newElement("div", positioned(-2)))
	inner.AddChild(newElement("span", func(d *css.Declaration) { d.Display = css.DisplayInline }))
	pseudo := root.AddChild(newElement("div", func(d *css.Declaration) { d.Position = css.PositionRelative }))
	pseudo.AddChild(newElement("div", positioned(5)))
	pseudo.AddChild(newElement("div", func(d *css.Declaration) { d.Float = css.FloatRight }))

	sc := Parse(root)

	var want []*dom.Element
	root.Walk(func(e *dom.Element) bool {
		want = append(want, e)
		return true
	})
	assert.ElementsMatch(t, want, sc.Elements())
}

func TestPositionedDescendantEscapesPseudoContext(t *testing.T) {
	root := newElement("html", nil)
	pseudo := root.AddChild(newElement("div", func(d *css.Declaration) { d.Position = css.PositionRelative }))
	nested := pseudo.AddChild(newElement("div", positioned(4)))

	sc := Parse(root)

	require.Len(t, sc.ZeroOrAutoZIndexOrTransformedOrOpacity, 1)
	assert.Empty(t, sc.ZeroOrAutoZIndexOrTransformedOrOpacity[0].PositiveZIndex)
	assert.Equal(t, []*dom.Element{nested}, containers(sc.PositiveZIndex))
}

func listItem(value int) *dom.Element {
	el := newElement("li", func(d *css.Declaration) {
		d.Display = css.DisplayBlock | css.DisplayListItem
		d.ListStyleType = css.ListDecimal
	})
	el.ItemValue = value
	return el
}

func TestNumberLists(t *testing.T) {
	root := newElement("html", nil)
	ol := root.AddChild(newElement("ol", nil))
	ol.List = &dom.ListOwner{Start: 3}
	ol.AddChild(listItem(0))
	ol.AddChild(listItem(10))
	nested := ol.AddChild(listItem(0))
	ul := nested.AddChild(newElement("ul", nil))
	ul.AddChild(listItem(0))

	rev := root.AddChild(newElement("ol", nil))
	rev.List = &dom.ListOwner{Start: 2, Reversed: true}
	rev.AddChild(listItem(0))
	rev.AddChild(listItem(0))

	sc, scopes := Build(root)
	assert.Len(t, scopes, 4)
	NumberLists(scopes)

	values := map[*dom.Element]string{}
	for _, p := range sc.NonInlineLevel {
		values[p.Container] = p.ListValue
	}
	items := ol.Elements
	assert.Equal(t, "3. ", values[items[0]])
	assert.Equal(t, "10. ", values[items[1]])
	assert.Equal(t, "11. ", values[items[2]])
	assert.Equal(t, "1. ", values[ul.Elements[0]])
	assert.Equal(t, "2. ", values[rev.Elements[0]])
	assert.Equal(t, "1. ", values[rev.Elements[1]])
}
