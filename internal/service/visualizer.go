package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"pdf-diff/internal/domain"
)

var outlineColor = color.RGBA{R: 0xff, A: 0xff}

// paint builds the diff image in the scratch output buffer: render A in
// grayscale, flagged boxes recoloured by which side is darker, then red
// outlines over every flagged element.
func (v *VisualComparator) paint(scratch *Scratch, a, b *image.RGBA, pages ...*domain.PageLayout) *image.RGBA {
	width, height := a.Rect.Dx(), a.Rect.Dy()
	out := scratch.output(width, height)
	for i := 0; i+3 < len(a.Pix); i += 4 {
		g := grayAt(a.Pix[i:])
		out.Pix[i] = g
		out.Pix[i+1] = g
		out.Pix[i+2] = g
		out.Pix[i+3] = 0xff
	}

	maxW := min(width, b.Rect.Dx())
	maxH := min(height, b.Rect.Dy())
	var flagged []domain.Element
	for _, page := range pages {
		flagged = append(flagged, page.DifferentElements()...)
	}

	for _, e := range flagged {
		x0, y0, w, h := v.scaledBox(e)
		for py := y0; py < y0+h && py < maxH; py++ {
			for px := x0; px < x0+w && px < maxW; px++ {
				if meanColorDiff(a, b, px, py) <= noiseThreshold {
					continue
				}
				ga := grayAt(a.Pix[a.PixOffset(px, py):])
				gb := grayAt(b.Pix[b.PixOffset(px, py):])
				switch {
				case ga < gb:
					out.SetRGBA(px, py, v.removed.Apply(ga))
				case ga > gb:
					out.SetRGBA(px, py, v.added.Apply(gb))
				}
			}
		}
	}

	for _, e := range flagged {
		x0, y0, w, h := v.scaledBox(e)
		if e.Kind == domain.ElementImage {
			drawRect(out, x0, y0, x0+w, y0+h)
		} else {
			hline(out, x0, x0+w, y0+h)
		}
	}
	return out
}

func grayAt(p []uint8) uint8 {
	return uint8((int(p[0]) + int(p[1]) + int(p[2])) / 3)
}

func drawRect(img *image.RGBA, x0, y0, x1, y1 int) {
	hline(img, x0, x1, y0)
	hline(img, x0, x1, y1)
	vline(img, x0, y0, y1)
	vline(img, x1, y0, y1)
}

// hline draws from x0 to x1 inclusive, clipped to img.
func hline(img *image.RGBA, x0, x1, y int) {
	r := img.Rect
	if y < r.Min.Y || y >= r.Max.Y {
		return
	}
	for x := max(x0, r.Min.X); x <= min(x1, r.Max.X-1); x++ {
		img.SetRGBA(x, y, outlineColor)
	}
}

func vline(img *image.RGBA, x, y0, y1 int) {
	r := img.Rect
	if x < r.Min.X || x >= r.Max.X {
		return
	}
	for y := max(y0, r.Min.Y); y <= min(y1, r.Max.Y-1); y++ {
		img.SetRGBA(x, y, outlineColor)
	}
}

// EncodePNG encodes a diff image
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode diff image: %w", err)
	}
	return buf.Bytes(), nil
}
