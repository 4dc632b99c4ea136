// Package stacking turns a captured element tree into the tree of CSS
// stacking contexts the painter walks, together with the effects each
// element inherits from its ancestors.
package stacking

import (
	"domshot/pkg/css"
	"domshot/pkg/dom"
)

// StackingContext is one stacking context and its painting-order buckets.
type StackingContext struct {
	Element *ElementPaint

	// NegativeZIndex and PositiveZIndex are kept sorted ascending; equal
	// z-index values keep tree order.
	NegativeZIndex                         []*StackingContext
	ZeroOrAutoZIndexOrTransformedOrOpacity []*StackingContext
	PositiveZIndex                         []*StackingContext
	NonPositionedFloats                    []*StackingContext
	NonPositionedInlineLevel               []*StackingContext
	InlineLevel                            []*ElementPaint
	NonInlineLevel                         []*ElementPaint
}

// NewStackingContext creates an empty context rooted at element.
func NewStackingContext(element *ElementPaint) *StackingContext {
	return &StackingContext{Element: element}
}

func zOrder(sc *StackingContext) int {
	return sc.Element.Container.Styles.ZIndex.Order
}

// insertByZIndex inserts child after every context with an order lower or
// equal to its own.
func insertByZIndex(list []*StackingContext, child *StackingContext) []*StackingContext {
	order := zOrder(child)
	i := len(list)
	for i > 0 && zOrder(list[i-1]) > order {
		i--
	}
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = child
	return list
}

// ListScope is the set of list items numbered together: the items below
// one list owner, or the items with no owner ancestor when Owner is the
// tree root.
type ListScope struct {
	Owner *dom.Element
	Items []*ElementPaint
}

type builder struct {
	scopes []*ListScope
}

// Build walks root once and returns its stacking context together with
// the list scopes still to be numbered.
func Build(root *dom.Element) (*StackingContext, []*ListScope) {
	paint := NewElementPaint(root, nil)
	sc := NewStackingContext(paint)
	b := &builder{}
	rootScope := &ListScope{Owner: root}
	b.parse(paint, sc, sc, rootScope)
	b.scopes = append(b.scopes, rootScope)
	return sc, b.scopes
}

// Parse builds the stacking tree and numbers its lists.
func Parse(root *dom.Element) *StackingContext {
	sc, scopes := Build(root)
	NumberLists(scopes)
	return sc
}

func (b *builder) parse(parent *ElementPaint, stack, realStack *StackingContext, items *ListScope) {
	for _, child := range parent.Container.Elements {
		real := child.Flags.Has(dom.CreatesRealStackingContext)
		pseudo := child.Flags.Has(dom.CreatesStackingContext)
		paint := NewElementPaint(child, parent)
		s := child.Styles
		if s.Display.Has(css.DisplayListItem) {
			items.Items = append(items.Items, paint)
		}

		childItems := items
		if child.Flags.Has(dom.IsListOwner) {
			childItems = &ListScope{Owner: child}
		}

		if real || pseudo {
			parentStack := stack
			if real || s.IsPositioned() {
				parentStack = realStack
			}
			sc := NewStackingContext(paint)

			switch {
			case s.IsPositioned() || s.Opacity < 1 || s.IsTransformed():
				switch order := s.ZIndex.Order; {
				case order < 0:
					parentStack.NegativeZIndex = insertByZIndex(parentStack.NegativeZIndex, sc)
				case order > 0:
					parentStack.PositiveZIndex = insertByZIndex(parentStack.PositiveZIndex, sc)
				default:
					parentStack.ZeroOrAutoZIndexOrTransformedOrOpacity = append(parentStack.ZeroOrAutoZIndexOrTransformedOrOpacity, sc)
				}
			case s.IsFloating():
				parentStack.NonPositionedFloats = append(parentStack.NonPositionedFloats, sc)
			default:
				parentStack.NonPositionedInlineLevel = append(parentStack.NonPositionedInlineLevel, sc)
			}

			nextReal := realStack
			if real {
				nextReal = sc
			}
			b.parse(paint, sc, nextReal, childItems)
		} else {
			if s.IsPaintedAsInline() {
				stack.InlineLevel = append(stack.InlineLevel, paint)
			} else {
				stack.NonInlineLevel = append(stack.NonInlineLevel, paint)
			}
			b.parse(paint, stack, realStack, childItems)
		}

		if child.Flags.Has(dom.IsListOwner) {
			b.scopes = append(b.scopes, childItems)
		}
	}
}

// NumberLists assigns the marker text of every list item. Numbering
// starts at the owner's start attribute (1 otherwise), counts down for
// reversed lists, and restarts at an item's explicit value.
func NumberLists(scopes []*ListScope) {
	for _, scope := range scopes {
		numbering, step := 1, 1
		if l := scope.Owner.List; l != nil {
			numbering = l.Start
			if l.Reversed {
				step = -1
			}
		}
		for _, item := range scope.Items {
			if v := item.Container.ItemValue; v != 0 {
				numbering = v
			}
			item.ListValue = css.CounterText(numbering, item.Container.Styles.ListStyleType, true)
			numbering += step
		}
	}
}

// Walk visits sc and every nested context in painting order.
func (sc *StackingContext) Walk(fn func(*StackingContext)) {
	fn(sc)
	for _, list := range [][]*StackingContext{
		sc.NegativeZIndex,
		sc.NonPositionedFloats,
		sc.NonPositionedInlineLevel,
		sc.ZeroOrAutoZIndexOrTransformedOrOpacity,
		sc.PositiveZIndex,
	} {
		for _, child := range list {
			child.Walk(fn)
		}
	}
}

// Elements lists every element painted by sc and its nested contexts,
// each exactly once.
func (sc *StackingContext) Elements() []*dom.Element {
	var out []*dom.Element
	sc.Walk(func(c *StackingContext) {
		out = append(out, c.Element.Container)
		for _, p := range c.NonInlineLevel {
			out = append(out, p.Container)
		}
		for _, p := range c.InlineLevel {
			out = append(out, p.Container)
		}
	})
	return out
}
