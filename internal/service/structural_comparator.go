package service

import (
	"math"
	"strings"
	"unicode/utf8"

	"pdf-diff/internal/domain"
	apperrors "pdf-diff/pkg/errors"
)

// Acceptance thresholds for the best match of an element.
const (
	imageThreshold           = 0.99
	simpleTextThreshold      = 0.65
	structuralTextThreshold  = 0.85
	malformedThresholdBonus  = 0.10
	malformedHeightThreshold = 1.0
	shortTextLength          = 5
)

// StructuralComparator matches the elements of two document versions by
// geometry and content.
type StructuralComparator struct {
	logger domain.Logger
}

// NewStructuralComparator creates a new structural comparator
func NewStructuralComparator(logger domain.Logger) *StructuralComparator {
	return &StructuralComparator{logger: logger}
}

// Compare flags every element of either side that has no acceptable
// counterpart on the other side. Pairs already marked different are skipped.
func (c *StructuralComparator) Compare(pair *domain.DocumentPair, mode domain.ComparisonMode, diffs *DiffLog) {
	if pair.IsDifferent() {
		return
	}
	// Coverage is not symmetric, so both directions are scanned.
	c.compareSide(pair.Name, pair.A, pair.B, mode, diffs)
	c.compareSide(pair.Name, pair.B, pair.A, mode, diffs)
	pair.CheckDifference()
}

func (c *StructuralComparator) compareSide(name string, from, to *domain.DocumentLayout, mode domain.ComparisonMode, diffs *DiffLog) {
	for _, idx := range from.PageIndexes() {
		page := from.Page(idx)
		other := to.Page(idx)
		if other == nil {
			err := apperrors.NewMissingPageError(name, idx+1, domain.ErrMissingCounterpartPage)
			c.logger.Error("Counterpart page missing, skipping page", err, "file", from.Path, "page", idx+1)
			page.MarkDifferent()
			continue
		}
		c.comparePage(from.Path, page, other, mode, diffs)
	}
}

func (c *StructuralComparator) comparePage(path string, page, other *domain.PageLayout, mode domain.ComparisonMode, diffs *DiffLog) {
	for i, e1 := range page.Elements() {
		best, malformed := bestMatch(e1, page, other, mode)
		if best > acceptanceThreshold(e1, mode, malformed) {
			continue
		}
		page.MarkElementDifferent(i)
		if diffs != nil {
			diffs.Missing(path, page.Index, e1)
		}
	}
}

// bestMatch returns the highest coverage of e1 against the elements of other
// and whether that candidate needed the malformed-height repair. Ties keep the
// first candidate seen.
func bestMatch(e1 domain.Element, page, other *domain.PageLayout, mode domain.ComparisonMode) (float64, bool) {
	best := 0.0
	bestMalformed := false
	edge1 := edge(e1, page.Width)
	for _, e2 := range other.Elements() {
		if e1.Kind != e2.Kind {
			continue
		}
		malformed := isMalformedText(e1, e2)
		coverage := areaCoverage(e1, e2, malformed, mode)
		if e1.Kind == domain.ElementText && !strings.EqualFold(e1.Text, e2.Text) {
			coverage = 0
		}
		if edge1 != edge(e2, other.Width) {
			coverage = 0
		}
		if coverage > best {
			best = coverage
			bestMalformed = malformed
		}
	}
	return best, bestMalformed
}

// isMalformedText reports whether two equal words differ only by one side
// having a degenerate height, an artifact of upstream text extraction.
func isMalformedText(e1, e2 domain.Element) bool {
	if e1.Kind != domain.ElementText || e2.Kind != domain.ElementText {
		return false
	}
	if !strings.EqualFold(e1.Text, e2.Text) {
		return false
	}
	flat1 := e1.Height <= malformedHeightThreshold
	flat2 := e2.Height <= malformedHeightThreshold
	return flat1 != flat2
}

// repairMalformed gives the flat box of a malformed pair the taller height,
// keeping its bottom edge in place. It is a heuristic for text only.
func repairMalformed(e1, e2 domain.Element) (domain.Element, domain.Element) {
	if e1.Height < e2.Height {
		e1.Y = e1.Bottom() - e2.Height
		e1.Height = e2.Height
	} else {
		e2.Y = e2.Bottom() - e1.Height
		e2.Height = e1.Height
	}
	return e1, e2
}

// areaCoverage is the smaller of the two one-sided overlap ratios.
func areaCoverage(e1, e2 domain.Element, malformed bool, mode domain.ComparisonMode) float64 {
	if malformed {
		e1, e2 = repairMalformed(e1, e2)
	}
	if mode == domain.ModeSimple {
		return verticalCoverage(e1, e2)
	}
	return rectCoverage(e1, e2)
}

func verticalCoverage(e1, e2 domain.Element) float64 {
	if e1.Height <= 0 || e2.Height <= 0 {
		// flat boxes only cover each other on the same line
		if e1.Y == e2.Y && e1.Height == e2.Height {
			return 1
		}
		return 0
	}
	covered := math.Min(e1.Bottom(), e2.Bottom()) - math.Max(e1.Y, e2.Y)
	if covered <= 0 {
		return 0
	}
	return math.Min(covered/e1.Height, covered/e2.Height)
}

func rectCoverage(e1, e2 domain.Element) float64 {
	if e1.Area() <= 0 || e2.Area() <= 0 {
		return degenerateCoverage(e1, e2)
	}
	w := math.Min(e1.Right(), e2.Right()) - math.Max(e1.X, e2.X)
	h := math.Min(e1.Bottom(), e2.Bottom()) - math.Max(e1.Y, e2.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	overlap := w * h
	return math.Min(overlap/e1.Area(), overlap/e2.Area())
}

// degenerateCoverage handles boxes without area: only identical boxes cover
// each other.
func degenerateCoverage(e1, e2 domain.Element) float64 {
	if e1.X == e2.X && e1.Y == e2.Y && e1.Width == e2.Width && e1.Height == e2.Height {
		return 1
	}
	return 0
}

// edge is -1 for elements clipped by the left page border, +1 for elements
// running past the right border and 0 otherwise.
func edge(e domain.Element, pageWidth float64) int {
	if e.X < 0 {
		return -1
	}
	if e.Right() > pageWidth {
		return 1
	}
	return 0
}

// acceptanceThreshold is the coverage a best match must exceed.
func acceptanceThreshold(e domain.Element, mode domain.ComparisonMode, malformed bool) float64 {
	if e.Kind == domain.ElementImage {
		return imageThreshold
	}
	var t float64
	if mode == domain.ModeSimple {
		t = simpleTextThreshold
	} else {
		n := utf8.RuneCountInString(e.Text)
		if n > shortTextLength {
			n = shortTextLength
		}
		t = structuralTextThreshold - float64(10-n*2)/100
	}
	if malformed {
		t -= malformedThresholdBonus
	}
	return math.Max(t, 0)
}
