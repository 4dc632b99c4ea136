// Package snapshot reads and writes captured pages: a JSON document of
// elements with their border boxes, computed styles, text fragments and
// replaced content.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrInvalid is wrapped by every structural validation failure.
var ErrInvalid = errors.New("invalid snapshot")

// Document is one captured page. Width and Height are the viewport in
// CSS pixels.
type Document struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	ScrollX         float64 `json:"scrollX"`
	ScrollY         float64 `json:"scrollY"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	Root            *Node   `json:"root"`
}

// Rect is a box in document coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node is one captured element. Styles holds computed longhands; Style
// is an inline declaration list applied on top, handy for hand-written
// snapshots.
type Node struct {
	Tag      string            `json:"tag"`
	Bounds   Rect              `json:"bounds"`
	Styles   map[string]string `json:"styles,omitempty"`
	Style    string            `json:"style,omitempty"`
	Text     []TextNode        `json:"text,omitempty"`
	Content  *Content          `json:"content,omitempty"`
	Children []*Node           `json:"children,omitempty"`

	IntrinsicWidth  float64 `json:"intrinsicWidth,omitempty"`
	IntrinsicHeight float64 `json:"intrinsicHeight,omitempty"`

	// Start and Reversed are the <ol> attributes; Value is <li value>.
	Start    *int `json:"start,omitempty"`
	Reversed bool `json:"reversed,omitempty"`
	Value    int  `json:"value,omitempty"`

	Debug bool `json:"debug,omitempty"`
}

// TextNode is a text node split into laid out fragments.
type TextNode struct {
	Text  string     `json:"text"`
	Rects []TextRect `json:"rects"`
}

type TextRect struct {
	Text   string `json:"text"`
	Bounds Rect   `json:"bounds"`
}

// Content types.
const (
	ContentImage    = "img"
	ContentCanvas   = "canvas"
	ContentSVG      = "svg"
	ContentIFrame   = "iframe"
	ContentInput    = "input"
	ContentTextarea = "textarea"
	ContentSelect   = "select"
)

// Content is the replaced or form-control payload of a node. Src holds
// the image URL, or a data URI of the pixels of a canvas.
type Content struct {
	Type      string    `json:"type"`
	Src       string    `json:"src,omitempty"`
	Markup    string    `json:"markup,omitempty"`
	Document  *Document `json:"document,omitempty"`
	InputType string    `json:"inputType,omitempty"`
	Checked   bool      `json:"checked,omitempty"`
	Value     string    `json:"value,omitempty"`
}

// Decode reads and validates a document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DecodeFile reads a document from path.
func DecodeFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// EncodeFile writes doc to path.
func EncodeFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := Encode(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Validate checks the structure of the document and of every nested
// iframe document.
func (d *Document) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: viewport %gx%g", ErrInvalid, d.Width, d.Height)
	}
	if d.Root == nil {
		return fmt.Errorf("%w: missing root", ErrInvalid)
	}
	return d.Root.validate("root")
}

func (n *Node) validate(path string) error {
	if n.Tag == "" {
		return fmt.Errorf("%w: %s: missing tag", ErrInvalid, path)
	}
	if n.Bounds.Width < 0 || n.Bounds.Height < 0 {
		return fmt.Errorf("%w: %s: negative size", ErrInvalid, path)
	}
	if c := n.Content; c != nil {
		switch c.Type {
		case ContentImage, ContentCanvas, ContentSVG, ContentInput, ContentTextarea, ContentSelect:
		case ContentIFrame:
			if c.Document != nil {
				if err := c.Document.Validate(); err != nil {
					return fmt.Errorf("%s iframe: %w", path, err)
				}
			}
		default:
			return fmt.Errorf("%w: %s: unknown content type %q", ErrInvalid, path, c.Type)
		}
	}
	for i, child := range n.Children {
		if child == nil {
			return fmt.Errorf("%w: %s: nil child %d", ErrInvalid, path, i)
		}
		if err := child.validate(fmt.Sprintf("%s/%s[%d]", path, child.Tag, i)); err != nil {
			return err
		}
	}
	return nil
}
