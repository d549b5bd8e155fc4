package pdfdoc

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"pdf-diff/internal/domain"

	"github.com/ledongthuc/pdf"
)

const (
	// wordGapFactor is the horizontal gap, relative to font size, that
	// separates two words without an explicit space glyph.
	wordGapFactor = 0.3
	// baselineFactor is the baseline drift, relative to font size, tolerated
	// inside one word.
	baselineFactor = 0.2
	// descentFactor approximates the descender below the baseline.
	descentFactor = 0.2
)

type glyph struct {
	x, y, w, size float64
	s             string
}

// splitGlyphs breaks multi-rune runs into single runes of equal width.
func splitGlyphs(texts []pdf.Text) []glyph {
	var out []glyph
	for _, t := range texts {
		n := utf8.RuneCountInString(t.S)
		if n == 0 {
			continue
		}
		if n == 1 {
			out = append(out, glyph{x: t.X, y: t.Y, w: t.W, size: t.FontSize, s: t.S})
			continue
		}
		w := t.W / float64(n)
		i := 0
		for _, r := range t.S {
			out = append(out, glyph{x: t.X + float64(i)*w, y: t.Y, w: w, size: t.FontSize, s: string(r)})
			i++
		}
	}
	return out
}

type wordBuilder struct {
	left, right, baseline, size float64
	text                        strings.Builder
}

func (b *wordBuilder) accepts(g glyph) bool {
	tol := math.Max(0.5, b.size*baselineFactor)
	if math.Abs(g.y-b.baseline) > tol {
		return false
	}
	gap := g.x - b.right
	limit := b.size * wordGapFactor
	return gap <= limit && gap >= -limit
}

func (b *wordBuilder) word() domain.Word {
	return domain.Word{
		X:      b.left,
		Y:      b.baseline - b.size*descentFactor,
		Width:  b.right - b.left,
		Height: b.size,
		Text:   b.text.String(),
	}
}

// groupWords joins glyph runs into words. Space glyphs end a word and are
// reported as whitespace words so callers can drop them.
func groupWords(texts []pdf.Text) []domain.Word {
	var words []domain.Word
	var cur *wordBuilder
	flush := func() {
		if cur != nil {
			words = append(words, cur.word())
			cur = nil
		}
	}

	for _, g := range splitGlyphs(texts) {
		if strings.TrimFunc(g.s, unicode.IsSpace) == "" {
			flush()
			words = append(words, domain.Word{
				X:            g.x,
				Y:            g.y - g.size*descentFactor,
				Width:        g.w,
				Height:       g.size,
				Text:         g.s,
				IsWhitespace: true,
			})
			continue
		}
		if cur != nil && cur.accepts(g) {
			cur.text.WriteString(g.s)
			cur.right = math.Max(cur.right, g.x+g.w)
			cur.size = math.Max(cur.size, g.size)
			continue
		}
		flush()
		cur = &wordBuilder{left: g.x, right: g.x + g.w, baseline: g.y, size: g.size}
		cur.text.WriteString(g.s)
	}
	flush()
	return words
}
