// Package dom holds the captured element tree the painter consumes: every
// node carries its resolved style, its border box and the classification
// flags computed at capture time.
package dom

import (
	"image"
	"strings"

	"domshot/pkg/css"
	"domshot/pkg/geom"
)

// Flags classify an element for the stacking-context builder.
type Flags uint8

const (
	CreatesStackingContext Flags = 1 << (iota + 1)
	CreatesRealStackingContext
	IsListOwner
	DebugRender
)

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

// TextBounds is one line fragment of a text node.
type TextBounds struct {
	Text   string
	Bounds geom.Bounds
}

// Text is a text node, split into the fragments the browser laid out.
type Text struct {
	Text   string
	Bounds []TextBounds
}

// Content is the replaced or form-control payload of an element.
type Content interface {
	isContent()
}

type ImageContent struct {
	Src string
}

// CanvasContent carries the pixels of a <canvas> at capture time.
type CanvasContent struct {
	Image image.Image
}

// SVGContent is an inline <svg> serialised to markup.
type SVGContent struct {
	Markup string
}

// IFrameContent is a same-origin frame captured as its own tree, painted
// by a nested render pass.
type IFrameContent struct {
	Tree            *Element
	Width           float64
	Height          float64
	BackgroundColor css.Color
}

const (
	InputCheckbox = "checkbox"
	InputRadio    = "radio"
)

type InputContent struct {
	Type    string
	Checked bool
	Value   string
}

type TextareaContent struct {
	Value string
}

type SelectContent struct {
	Value string
}

func (ImageContent) isContent()    {}
func (CanvasContent) isContent()   {}
func (SVGContent) isContent()      {}
func (IFrameContent) isContent()   {}
func (InputContent) isContent()    {}
func (TextareaContent) isContent() {}
func (SelectContent) isContent()   {}

// ListOwner carries the numbering attributes of an <ol>.
type ListOwner struct {
	Start    int
	Reversed bool
}

// Element is one captured element.
type Element struct {
	Tag       string
	Styles    *css.Declaration
	Bounds    geom.Bounds
	Flags     Flags
	Elements  []*Element
	TextNodes []*Text

	// Content is nil for ordinary elements.
	Content         Content
	IntrinsicWidth  float64
	IntrinsicHeight float64

	// List is set on <ol> owners; ItemValue is an <li value> (0 when
	// absent).
	List      *ListOwner
	ItemValue int
}

// NewElement creates an element with default styles when styles is nil.
func NewElement(tag string, styles *css.Declaration, bounds geom.Bounds) *Element {
	if styles == nil {
		d := css.Defaults()
		styles = &d
	}
	return &Element{Tag: strings.ToLower(tag), Styles: styles, Bounds: bounds}
}

// AddChild appends a child element.
func (e *Element) AddChild(child *Element) *Element {
	e.Elements = append(e.Elements, child)
	return child
}

// AppendText adds a single-fragment text node spanning bounds.
func (e *Element) AppendText(text string, bounds geom.Bounds) {
	if text == "" {
		return
	}
	e.TextNodes = append(e.TextNodes, &Text{
		Text:   text,
		Bounds: []TextBounds{{Text: text, Bounds: bounds}},
	})
}

// Metrics returns the box geometry used to build rounded outlines.
func (e *Element) Metrics() geom.BoxMetrics {
	return geom.BoxMetrics{
		Bounds:  e.Bounds,
		Border:  e.Styles.BorderWidths(),
		Padding: e.Styles.AbsolutePadding(e.Bounds.Width),
		Radii:   e.Styles.AbsoluteRadii(e.Bounds.Width, e.Bounds.Height),
	}
}

func (e *Element) PaddingBox() geom.Bounds { return e.Metrics().PaddingBox() }

func (e *Element) ContentBox() geom.Bounds { return e.Metrics().ContentBox() }

// Walk visits e and its descendants depth first. Returning false from fn
// skips the children of that element.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Elements {
		c.Walk(fn)
	}
}

// IsTextInput reports whether the element paints a value string: text
// inputs, textareas and selects.
func (e *Element) IsTextInput() bool {
	switch c := e.Content.(type) {
	case TextareaContent, SelectContent:
		return true
	case InputContent:
		return c.Type != InputCheckbox && c.Type != InputRadio
	}
	return false
}

// Value returns the painted value of a text input.
func (e *Element) Value() string {
	switch c := e.Content.(type) {
	case InputContent:
		return c.Value
	case TextareaContent:
		return c.Value
	case SelectContent:
		return c.Value
	}
	return ""
}

var listOwnerTags = map[string]bool{"ol": true, "ul": true, "menu": true}

// Classify computes the flags of e from its styles and tag. Real stacking
// contexts come from z-index on positioned boxes, opacity, transforms,
// filters, blending and isolation; positioned and floating boxes without
// one are painted as pseudo stacking contexts.
func Classify(e *Element) Flags {
	s := e.Styles
	var f Flags
	switch {
	case s.IsPositionedWithZIndex() || s.Opacity < 1 || s.IsTransformed() ||
		len(s.Filter) > 0 || s.MixBlendMode != css.BlendNormal || s.Isolation:
		f |= CreatesRealStackingContext
	case s.IsPositioned() || s.IsFloating():
		f |= CreatesStackingContext
	}
	if listOwnerTags[e.Tag] {
		f |= IsListOwner
	}
	return f | (e.Flags & DebugRender)
}

// ClassifyTree recomputes the flags of every element below root.
func ClassifyTree(root *Element) {
	root.Walk(func(el *Element) bool {
		if el != root {
			el.Flags = Classify(el)
		} else if listOwnerTags[el.Tag] {
			el.Flags |= IsListOwner
		}
		return true
	})
}
