package snapshot

import (
	"fmt"
	"strings"

	"domshot/pkg/css"
	"domshot/pkg/dom"
	"domshot/pkg/geom"
	"domshot/pkg/images"
)

// Page is a document converted into the tree the renderer paints.
type Page struct {
	Root            *dom.Element
	Width, Height   float64
	ScrollX         float64
	ScrollY         float64
	BackgroundColor css.Color

	// Warnings lists style values and canvas payloads that could not be
	// decoded; the affected properties keep their initial values.
	Warnings []error
}

// Build converts the document. Unparsable styles are collected as
// warnings rather than failing the whole page.
func (d *Document) Build() (*Page, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	p := &Page{
		Width:   d.Width,
		Height:  d.Height,
		ScrollX: d.ScrollX,
		ScrollY: d.ScrollY,
	}
	if d.BackgroundColor != "" {
		c, err := css.ParseColor(d.BackgroundColor)
		if err != nil {
			return nil, fmt.Errorf("%w: backgroundColor: %w", ErrInvalid, err)
		}
		p.BackgroundColor = c
	}
	p.Root = p.build(d.Root, "root")
	dom.ClassifyTree(p.Root)
	return p, nil
}

func toBounds(r Rect) geom.Bounds { return geom.NewBounds(r.Left, r.Top, r.Width, r.Height) }

func (p *Page) warn(path string, err error) {
	p.Warnings = append(p.Warnings, fmt.Errorf("%s: %w", path, err))
}

func (p *Page) build(n *Node, path string) *dom.Element {
	style := css.NewStyle()
	for k, v := range n.Styles {
		style.Set(strings.ToLower(k), v)
	}
	for k, v := range css.ParseInlineStyle(n.Style).Properties {
		style.Set(k, v)
	}
	decl, err := style.Resolve()
	if err != nil {
		p.warn(path, err)
	}

	el := dom.NewElement(n.Tag, decl, toBounds(n.Bounds))
	if n.Debug {
		el.Flags |= dom.DebugRender
	}
	el.IntrinsicWidth = n.IntrinsicWidth
	el.IntrinsicHeight = n.IntrinsicHeight
	el.ItemValue = n.Value
	if el.Tag == "ol" {
		el.List = &dom.ListOwner{Start: 1, Reversed: n.Reversed}
		if n.Start != nil {
			el.List.Start = *n.Start
		}
	}

	for _, t := range n.Text {
		text := &dom.Text{Text: t.Text}
		for _, r := range t.Rects {
			text.Bounds = append(text.Bounds, dom.TextBounds{Text: r.Text, Bounds: toBounds(r.Bounds)})
		}
		el.TextNodes = append(el.TextNodes, text)
	}

	if n.Content != nil {
		el.Content = p.content(n.Content, path)
	}

	for i, child := range n.Children {
		el.AddChild(p.build(child, fmt.Sprintf("%s/%s[%d]", path, child.Tag, i)))
	}
	return el
}

func (p *Page) content(c *Content, path string) dom.Content {
	switch c.Type {
	case ContentImage:
		return dom.ImageContent{Src: c.Src}
	case ContentCanvas:
		img, err := images.LoadImageFromDataURI(c.Src)
		if err != nil {
			p.warn(path, fmt.Errorf("canvas: %w", err))
			return nil
		}
		return dom.CanvasContent{Image: img}
	case ContentSVG:
		return dom.SVGContent{Markup: c.Markup}
	case ContentIFrame:
		if c.Document == nil {
			return nil
		}
		nested, err := c.Document.Build()
		if err != nil {
			p.warn(path, fmt.Errorf("iframe: %w", err))
			return nil
		}
		for _, w := range nested.Warnings {
			p.warn(path+" iframe", w)
		}
		return dom.IFrameContent{
			Tree:            nested.Root,
			Width:           nested.Width,
			Height:          nested.Height,
			BackgroundColor: nested.BackgroundColor,
		}
	case ContentInput:
		return dom.InputContent{Type: strings.ToLower(c.InputType), Checked: c.Checked, Value: c.Value}
	case ContentTextarea:
		return dom.TextareaContent{Value: c.Value}
	case ContentSelect:
		return dom.SelectContent{Value: c.Value}
	}
	return nil
}
