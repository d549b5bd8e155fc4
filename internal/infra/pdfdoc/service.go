package pdfdoc

import (
	"fmt"
	"image"
	"os"

	"pdf-diff/internal/domain"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pointsPerInch converts a render scale into the DPI MuPDF expects.
const pointsPerInch = 72.0

// Service opens PDFs with MuPDF for rendering and page geometry, and with
// ledongthuc/pdf for positioned glyph runs.
type Service struct {
	logger domain.Logger
	strict bool
	conf   *model.Configuration
}

// NewService creates a PDF document service. With strict set, every file is
// validated by pdfcpu before it is opened.
func NewService(logger domain.Logger, strict bool) domain.PDFService {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Service{
		logger: logger,
		strict: strict,
		conf:   conf,
	}
}

// Open opens the document at path
func (s *Service) Open(path string) (domain.PDFDocument, error) {
	if s.strict {
		if err := api.ValidateFile(path, s.conf); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
	}

	fd, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	f, r, err := pdf.Open(path)
	if err != nil {
		fd.Close()
		return nil, fmt.Errorf("failed to read PDF text layer: %w", err)
	}

	s.logger.Debug("PDF opened", "file", path, "pages", fd.NumPage())
	return &document{
		path:   path,
		fitz:   fd,
		file:   f,
		reader: r,
	}, nil
}

// document is one opened PDF, owned by a single comparison job.
type document struct {
	path   string
	fitz   *fitz.Document
	file   *os.File
	reader *pdf.Reader
}

func (d *document) PageCount() int {
	return d.fitz.NumPage()
}

// PageSize returns the page bounds in points as MuPDF renders them.
func (d *document) PageSize(page int) (float64, float64, error) {
	bound, err := d.fitz.Bound(page)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read bounds of page %d: %w", page+1, err)
	}
	return float64(bound.Dx()), float64(bound.Dy()), nil
}

func (d *document) TextWords(page int) (words []domain.Word, err error) {
	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d not found in text layer", page+1)
	}
	// Malformed content streams make the text layer panic.
	defer func() {
		if r := recover(); r != nil {
			words = nil
			err = fmt.Errorf("failed to read text of page %d: %v", page+1, r)
		}
	}()
	x0, y0 := pageOrigin(p.V)
	return shiftWords(groupWords(p.Content().Text), x0, y0), nil
}

// ImageBoxes returns image placements from MuPDF's positioned HTML output.
// MuPDF lays the page out in points, so the render size is not needed.
func (d *document) ImageBoxes(page int, renderWidth, renderHeight int) ([]domain.Box, error) {
	_, height, err := d.PageSize(page)
	if err != nil {
		return nil, err
	}
	html, err := d.fitz.HTML(page, false)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out page %d: %w", page+1, err)
	}
	return parseImageBoxes(html, height)
}

func (d *document) Render(page int, scale float64) (*image.RGBA, error) {
	img, err := d.fitz.ImageDPI(page, pointsPerInch*scale)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", page+1, err)
	}
	return img, nil
}

func (d *document) Close() error {
	ferr := d.fitz.Close()
	if err := d.file.Close(); err != nil {
		return err
	}
	return ferr
}
