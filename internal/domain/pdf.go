package domain

import "image"

// Word is a positioned text run as reported by the PDF document service,
// in PDF user space with a lower-left origin.
type Word struct {
	X            float64
	Y            float64
	Width        float64
	Height       float64
	Text         string
	IsWhitespace bool
}

// Box is the bounding box of a placed image, lower-left origin.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// PDFDocument is an opened PDF. Implementations are owned by a single job
// and need not be safe for concurrent use.
type PDFDocument interface {
	PageCount() int
	PageSize(page int) (width, height float64, err error)
	TextWords(page int) ([]Word, error)
	ImageBoxes(page int, renderWidth, renderHeight int) ([]Box, error)
	Render(page int, scale float64) (*image.RGBA, error)
	Close() error
}

// PDFService opens PDF documents
type PDFService interface {
	Open(path string) (PDFDocument, error)
}
