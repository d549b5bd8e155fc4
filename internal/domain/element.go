package domain

import "fmt"

// ElementKind identifies the variant of an Element.
type ElementKind int

const (
	ElementText ElementKind = iota
	ElementImage
)

// String returns the element kind name used in logs
func (k ElementKind) String() string {
	switch k {
	case ElementText:
		return "text"
	case ElementImage:
		return "image"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Element is one positioned unit of page content: a word or a placed image.
// Coordinates use a top-left origin in PDF user-space units, matching the
// rendered pixel buffers once scaled.
type Element struct {
	Kind   ElementKind
	X      float64
	Y      float64
	Width  float64
	Height float64
	Text   string // only set for ElementText
}

// NewTextElement creates a text element
func NewTextElement(x, y, width, height float64, text string) Element {
	return Element{Kind: ElementText, X: x, Y: y, Width: width, Height: height, Text: text}
}

// NewImageElement creates an image element
func NewImageElement(x, y, width, height float64) Element {
	return Element{Kind: ElementImage, X: x, Y: y, Width: width, Height: height}
}

// IsText reports whether the element is a word
func (e Element) IsText() bool {
	return e.Kind == ElementText
}

// IsImage reports whether the element is a placed image
func (e Element) IsImage() bool {
	return e.Kind == ElementImage
}

// Right returns the right edge X coordinate
func (e Element) Right() float64 {
	return e.X + e.Width
}

// Bottom returns the bottom edge Y coordinate (top-left origin)
func (e Element) Bottom() float64 {
	return e.Y + e.Height
}

// Area returns width times height
func (e Element) Area() float64 {
	return e.Width * e.Height
}

// Describe renders the element for difference log lines.
func (e Element) Describe() string {
	s := fmt.Sprintf("%s at (%.2f, %.2f) size %.2fx%.2f", e.Kind, e.X, e.Y, e.Width, e.Height)
	if e.Kind == ElementText {
		s += fmt.Sprintf(" text %q", e.Text)
	}
	return s
}
