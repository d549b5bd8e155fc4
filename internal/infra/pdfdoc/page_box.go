package pdfdoc

import (
	"math"

	"pdf-diff/internal/domain"

	"github.com/ledongthuc/pdf"
)

// maxPageTreeDepth bounds the walk up /Parent links of a broken page tree.
const maxPageTreeDepth = 32

// pageOrigin returns the lower-left corner of the visible page box. MuPDF
// reports bounds relative to the CropBox (falling back to the MediaBox), while
// glyph positions are raw user space, so words are shifted by this origin.
func pageOrigin(page pdf.Value) (float64, float64) {
	for _, key := range []string{"CropBox", "MediaBox"} {
		if box, ok := inheritedBox(page, key); ok {
			return boxOrigin(box)
		}
	}
	return 0, 0
}

func inheritedBox(page pdf.Value, key string) ([4]float64, bool) {
	v := page
	for depth := 0; depth < maxPageTreeDepth && !v.IsNull(); depth++ {
		box := v.Key(key)
		if box.Kind() == pdf.Array && box.Len() == 4 {
			return [4]float64{
				box.Index(0).Float64(),
				box.Index(1).Float64(),
				box.Index(2).Float64(),
				box.Index(3).Float64(),
			}, true
		}
		v = v.Key("Parent")
	}
	return [4]float64{}, false
}

// boxOrigin normalises a PDF rectangle, whose corners may come in any order.
func boxOrigin(box [4]float64) (float64, float64) {
	return math.Min(box[0], box[2]), math.Min(box[1], box[3])
}

func shiftWords(words []domain.Word, dx, dy float64) []domain.Word {
	if dx == 0 && dy == 0 {
		return words
	}
	for i := range words {
		words[i].X -= dx
		words[i].Y -= dy
	}
	return words
}
