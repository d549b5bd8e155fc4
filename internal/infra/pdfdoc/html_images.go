package pdfdoc

import (
	"fmt"
	"strconv"
	"strings"

	"pdf-diff/internal/domain"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseImageBoxes reads the absolutely positioned <img> elements of MuPDF's
// HTML page output. MuPDF uses a top-left origin in points; boxes are
// returned with a lower-left origin like the text layer.
func parseImageBoxes(markup string, pageHeight float64) ([]domain.Box, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page layout: %w", err)
	}

	var boxes []domain.Box
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			if box, ok := imageBox(n, pageHeight); ok {
				boxes = append(boxes, box)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return boxes, nil
}

func imageBox(n *html.Node, pageHeight float64) (domain.Box, bool) {
	var style string
	for _, a := range n.Attr {
		if a.Key == "style" {
			style = a.Val
		}
	}
	props := parseStyle(style)
	top, okTop := props["top"]
	left, okLeft := props["left"]
	width, okW := props["width"]
	height, okH := props["height"]
	if !okTop || !okLeft || !okW || !okH {
		return domain.Box{}, false
	}
	return domain.Box{
		X:      left,
		Y:      pageHeight - top - height,
		Width:  width,
		Height: height,
	}, true
}

// parseStyle extracts numeric CSS declarations, dropping pt/px units.
func parseStyle(style string) map[string]float64 {
	props := make(map[string]float64)
	for _, decl := range strings.Split(style, ";") {
		key, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)
		val = strings.TrimSuffix(strings.TrimSuffix(val, "pt"), "px")
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			continue
		}
		props[key] = f
	}
	return props
}
