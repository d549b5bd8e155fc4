package service

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"pdf-diff/internal/domain"
)

// MockLogger records messages; workers log concurrently.
type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: []string{},
	}
}

func (m *MockLogger) add(s string) {
	m.mu.Lock()
	m.messages = append(m.messages, s)
	m.mu.Unlock()
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.add("INFO: " + msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	m.add("ERROR: " + msg + " - " + err.Error())
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.add("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.add("WARN: " + msg)
}

func (m *MockLogger) contains(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// fakePage describes one page of a fakeDocument in PDF user space.
type fakePage struct {
	width, height float64
	words         []domain.Word
	images        []domain.Box
	// ink is painted black on the render, lower-left origin like words.
	ink       []domain.Box
	sizeErr   error
	renderErr error
	panics    bool
}

type fakeDocument struct {
	pages  []fakePage
	closed bool
}

func (d *fakeDocument) PageCount() int { return len(d.pages) }

func (d *fakeDocument) PageSize(page int) (float64, float64, error) {
	if page < 0 || page >= len(d.pages) {
		return 0, 0, errors.New("page out of range")
	}
	if d.pages[page].sizeErr != nil {
		return 0, 0, d.pages[page].sizeErr
	}
	return d.pages[page].width, d.pages[page].height, nil
}

func (d *fakeDocument) TextWords(page int) ([]domain.Word, error) {
	if d.pages[page].panics {
		panic("corrupt content stream")
	}
	return d.pages[page].words, nil
}

func (d *fakeDocument) ImageBoxes(page int, renderWidth, renderHeight int) ([]domain.Box, error) {
	return d.pages[page].images, nil
}

func (d *fakeDocument) Render(page int, scale float64) (*image.RGBA, error) {
	p := d.pages[page]
	if p.renderErr != nil {
		return nil, p.renderErr
	}
	w := int(math.Ceil(p.width * scale))
	h := int(math.Ceil(p.height * scale))
	img := filled(w, h, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	for _, b := range p.ink {
		top := p.height - b.Y - b.Height
		fillRect(img, int(b.X*scale), int(top*scale), int((b.X+b.Width)*scale), int((top+b.Height)*scale), color.RGBA{A: 0xff})
	}
	return img, nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

type fakePDFService struct {
	mu   sync.Mutex
	docs map[string]*fakeDocument
}

func newFakePDFService() *fakePDFService {
	return &fakePDFService{docs: make(map[string]*fakeDocument)}
}

func (s *fakePDFService) add(path string, pages ...fakePage) *fakeDocument {
	doc := &fakeDocument{pages: pages}
	s.docs[path] = doc
	return doc
}

// Open hands out a copy so concurrent jobs never share a document.
func (s *fakePDFService) Open(path string) (domain.PDFDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return &fakeDocument{pages: doc.pages}, nil
}

type savedArtifact struct {
	name string
	page int
	data []byte
}

type fakeArtifactStore struct {
	mu    sync.Mutex
	saved []savedArtifact
}

func (s *fakeArtifactStore) SavePage(ctx context.Context, documentName string, pageNumber int, png []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, savedArtifact{name: documentName, page: pageNumber, data: png})
	return documentName + "/page", nil
}

type fakeResultRepository struct {
	mu    sync.Mutex
	saved []domain.PairResult
}

func (r *fakeResultRepository) Save(ctx context.Context, runID string, result domain.PairResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, result)
	return nil
}

func filled(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, 0, 0, w, h, c)
	return img
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if (image.Point{X: x, Y: y}).In(img.Rect) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// textPage builds a layout page from top-left origin text boxes.
func textPage(index int, width, height float64, elements ...domain.Element) *domain.PageLayout {
	p := domain.NewPageLayout(index, width, height)
	for _, e := range elements {
		p.Add(e)
	}
	return p
}

func pairOf(a, b []*domain.PageLayout) *domain.DocumentPair {
	pair := domain.NewDocumentPair("doc.pdf", "a/doc.pdf", "b/doc.pdf")
	for _, p := range a {
		pair.A.SetPage(p)
	}
	for _, p := range b {
		pair.B.SetPage(p)
	}
	return pair
}
