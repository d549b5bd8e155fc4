package service

import (
	"math"
	"strings"

	"pdf-diff/internal/domain"
)

// Extractor fills a DocumentLayout from an opened PDF document.
type Extractor struct {
	logger domain.Logger
	scale  float64
}

// NewExtractor creates an extractor; scale is the render scale used to size
// image placement queries.
func NewExtractor(logger domain.Logger, scale float64) *Extractor {
	return &Extractor{logger: logger, scale: scale}
}

// Extract walks every page of doc into layout. Pages that fail to extract are
// logged and left out, which the comparators then treat as missing.
func (x *Extractor) Extract(doc domain.PDFDocument, layout *domain.DocumentLayout) {
	for idx := 0; idx < doc.PageCount(); idx++ {
		page, err := x.extractPage(doc, idx)
		if err != nil {
			x.logger.Error("Failed to extract page", err, "file", layout.Path, "page", idx+1)
			continue
		}
		layout.SetPage(page)
	}
}

func (x *Extractor) extractPage(doc domain.PDFDocument, idx int) (*domain.PageLayout, error) {
	width, height, err := doc.PageSize(idx)
	if err != nil {
		return nil, err
	}
	page := domain.NewPageLayout(idx, width, height)

	words, err := doc.TextWords(idx)
	if err != nil {
		return nil, err
	}
	for _, w := range words {
		text := strings.TrimSpace(w.Text)
		if w.IsWhitespace || text == "" {
			continue
		}
		page.Add(domain.NewTextElement(w.X, flipY(w.Y, w.Height, height), w.Width, w.Height, text))
	}

	renderW := int(math.Ceil(width * x.scale))
	renderH := int(math.Ceil(height * x.scale))
	boxes, err := doc.ImageBoxes(idx, renderW, renderH)
	if err != nil {
		return nil, err
	}
	for _, b := range boxes {
		page.Add(domain.NewImageElement(b.X, flipY(b.Y, b.Height, height), b.Width, b.Height))
	}
	return page, nil
}

// flipY converts a lower-left origin y to the top-left origin of the renders.
func flipY(y, boxHeight, pageHeight float64) float64 {
	return pageHeight - y - boxHeight
}
