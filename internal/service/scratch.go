package service

import (
	"image"

	"golang.org/x/image/draw"
)

// Scratch holds the reusable pixel buffers of one worker: the two page
// renders and the diff output. Buffers are resized in place between pages
// and must never be shared between workers.
type Scratch struct {
	a   *image.RGBA
	b   *image.RGBA
	out *image.RGBA
}

// NewScratch creates an empty scratch set; buffers are allocated on first use
func NewScratch() *Scratch {
	return &Scratch{}
}

// loadA copies render A into its slot, normalised to a (0,0) origin
func (s *Scratch) loadA(src *image.RGBA) *image.RGBA {
	s.a = copyInto(s.a, src)
	return s.a
}

// loadB copies render B into its slot, normalised to a (0,0) origin
func (s *Scratch) loadB(src *image.RGBA) *image.RGBA {
	s.b = copyInto(s.b, src)
	return s.b
}

// output returns the diff slot sized to width x height. Its content is
// undefined until written.
func (s *Scratch) output(width, height int) *image.RGBA {
	s.out = resize(s.out, width, height)
	return s.out
}

func copyInto(dst, src *image.RGBA) *image.RGBA {
	sb := src.Bounds()
	dst = resize(dst, sb.Dx(), sb.Dy())
	draw.Copy(dst, image.Point{}, src, sb, draw.Src, nil)
	return dst
}

// resize reuses buf's backing array when it is large enough.
func resize(buf *image.RGBA, width, height int) *image.RGBA {
	n := 4 * width * height
	if buf == nil || cap(buf.Pix) < n {
		return image.NewRGBA(image.Rect(0, 0, width, height))
	}
	buf.Pix = buf.Pix[:n]
	buf.Stride = 4 * width
	buf.Rect = image.Rect(0, 0, width, height)
	return buf
}
