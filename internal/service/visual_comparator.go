package service

import (
	"image"
	"math"

	"pdf-diff/internal/domain"
	apperrors "pdf-diff/pkg/errors"
)

const (
	// RenderScale converts PDF user-space units to rendered pixels.
	RenderScale = 2.1389

	noiseThreshold      = 5.0
	visualDiffThreshold = 0.10
	edgeWeight          = 10.0
)

// VisualResult is the outcome of comparing one rendered page.
type VisualResult struct {
	PageIndex int
	Flagged   int
	// DiffImage aliases the worker's scratch output buffer; encode it before
	// the next call with the same Scratch.
	DiffImage *image.RGBA
}

// elementScore holds the pixel metrics of one element box.
type elementScore struct {
	diffValue   float64
	diffL1      float64
	diffL2      float64
	relative    float64
	outOfBounds bool
}

// VisualComparator scores elements by rendered pixels and paints diff images.
type VisualComparator struct {
	logger  domain.Logger
	scale   float64
	removed Colorize
	added   Colorize
}

// NewVisualComparator creates a visual comparator working at RenderScale
func NewVisualComparator(logger domain.Logger) *VisualComparator {
	return &VisualComparator{
		logger:  logger,
		scale:   RenderScale,
		removed: NewColorize(0, 100, 50),
		added:   NewColorize(120, 100, 50),
	}
}

// Scale returns the render scale the comparator expects
func (v *VisualComparator) Scale() float64 {
	return v.scale
}

// CompareAndVisualize scores every element of both page versions against the
// renders, flags the visually different ones and paints the diff image when
// anything was flagged.
func (v *VisualComparator) CompareAndVisualize(pair *domain.DocumentPair, pageIndex int, renderA, renderB *image.RGBA, scratch *Scratch, diffs *DiffLog) VisualResult {
	result := VisualResult{PageIndex: pageIndex}
	pageA, pageB, ok := v.pages(pair, pageIndex, renderA, renderB)
	if !ok {
		return result
	}

	a := scratch.loadA(renderA)
	b := scratch.loadB(renderB)

	for _, side := range []struct {
		path string
		page *domain.PageLayout
	}{{pair.PathA, pageA}, {pair.PathB, pageB}} {
		for i, e := range side.page.Elements() {
			score := v.score(a, b, e)
			if score.outOfBounds {
				v.logOutOfBounds(side.path, pageIndex, e)
			}
			if score.relative <= visualDiffThreshold {
				continue
			}
			side.page.MarkElementDifferent(i)
			result.Flagged++
			if diffs != nil {
				diffs.VisuallyDifferent(side.path, pageIndex, e, score.relative)
			}
		}
	}

	if result.Flagged > 0 {
		result.DiffImage = v.paint(scratch, a, b, pageA, pageB)
	}
	return result
}

// Visualize paints the diff image for elements that are already flagged,
// without scoring pixels.
func (v *VisualComparator) Visualize(pair *domain.DocumentPair, pageIndex int, renderA, renderB *image.RGBA, scratch *Scratch) VisualResult {
	result := VisualResult{PageIndex: pageIndex}
	pageA, pageB, ok := v.pages(pair, pageIndex, renderA, renderB)
	if !ok {
		return result
	}
	result.Flagged = len(pageA.DifferentElements()) + len(pageB.DifferentElements())
	if result.Flagged == 0 {
		return result
	}

	a := scratch.loadA(renderA)
	b := scratch.loadB(renderB)
	result.DiffImage = v.paint(scratch, a, b, pageA, pageB)
	return result
}

func (v *VisualComparator) pages(pair *domain.DocumentPair, pageIndex int, renderA, renderB *image.RGBA) (*domain.PageLayout, *domain.PageLayout, bool) {
	pageA := pair.A.Page(pageIndex)
	pageB := pair.B.Page(pageIndex)
	if pageA == nil || pageB == nil || renderA == nil || renderB == nil {
		err := apperrors.NewMissingPageError(pair.Name, pageIndex+1, domain.ErrMissingCounterpartPage)
		v.logger.Error("Page missing on one side, skipping visual comparison", err, "page", pageIndex+1)
		if pageA != nil {
			pageA.MarkDifferent()
		}
		if pageB != nil {
			pageB.MarkDifferent()
		}
		return nil, nil, false
	}
	return pageA, pageB, true
}

// score walks the scaled element box row by row. A row past the bottom of
// either render ends the element; a column past the right edge ends the row.
func (v *VisualComparator) score(a, b *image.RGBA, e domain.Element) elementScore {
	var s elementScore
	x0, y0, w, h := v.scaledBox(e)
	if w <= 0 || h <= 0 {
		return s
	}
	maxW := min(a.Rect.Dx(), b.Rect.Dx())
	maxH := min(a.Rect.Dy(), b.Rect.Dy())
	cx := float64(w) / 2
	cy := float64(h) / 2

	for yy := 0; yy < h; yy++ {
		py := y0 + yy
		if py >= maxH {
			s.outOfBounds = true
			break
		}
		for xx := 0; xx < w; xx++ {
			px := x0 + xx
			if px >= maxW {
				s.outOfBounds = true
				break
			}
			d := meanColorDiff(a, b, px, py)
			importance := 1.0
			if e.Kind == domain.ElementImage {
				dx := math.Abs((float64(xx) + 0.5 - cx) / cx)
				dy := math.Abs((float64(yy) + 0.5 - cy) / cy)
				m := edgeWeight * math.Max(dx, dy)
				importance = 1 + m*m/edgeWeight
			}
			if d > noiseThreshold {
				s.diffValue += importance
			}
			s.diffL1 += d * importance
			s.diffL2 += d * d * importance
		}
	}
	// diffL2 is kept for tuning; only diffValue decides.
	s.diffL2 = math.Sqrt(s.diffL2)
	s.relative = s.diffValue / float64(w*h)
	return s
}

// scaledBox converts element geometry to pixel space, clamping the origin at 0.
func (v *VisualComparator) scaledBox(e domain.Element) (x, y, w, h int) {
	x = max(0, int(e.X*v.scale))
	y = max(0, int(e.Y*v.scale))
	w = int(e.Width * v.scale)
	h = int(e.Height * v.scale)
	return x, y, w, h
}

func (v *VisualComparator) logOutOfBounds(path string, pageIndex int, e domain.Element) {
	err := apperrors.NewGeometryError(e.Describe(), domain.ErrGeometryOutOfBounds)
	v.logger.Warn("Element exceeds rendered page, scan truncated", "file", path, "page", pageIndex+1, "error", err)
}

func meanColorDiff(a, b *image.RGBA, x, y int) float64 {
	i := a.PixOffset(x, y)
	j := b.PixOffset(x, y)
	dr := absDiff(a.Pix[i], b.Pix[j])
	dg := absDiff(a.Pix[i+1], b.Pix[j+1])
	db := absDiff(a.Pix[i+2], b.Pix[j+2])
	return float64(dr+dg+db) / 3
}

func absDiff(p, q uint8) int {
	if p > q {
		return int(p - q)
	}
	return int(q - p)
}
