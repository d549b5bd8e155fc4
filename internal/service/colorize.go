package service

import (
	"image/color"
	"math"
)

// Colorize maps a gray luminance onto a tint of a single hue. Each value
// carries its own lookup tables, so a Colorize can be shared read-only.
type Colorize struct {
	r, g, b [256]uint8
}

// NewColorize builds the lookup tables for a hue in degrees, saturation and
// lightness in percent (lightness ranges from -100 to 100).
func NewColorize(hue, saturation, lightness float64) Colorize {
	h := math.Mod(hue, 360) / 360
	if h < 0 {
		h++
	}
	s := clamp01(saturation / 100)
	light := math.Max(-1, math.Min(1, lightness/100))

	var c Colorize
	for i := 0; i < 256; i++ {
		l := float64(i) / 255
		if light > 0 {
			l = l*(1-light) + light
		} else if light < 0 {
			l *= 1 + light
		}
		r, g, b := hslToRGB(h, s, l)
		c.r[i] = to8(r)
		c.g[i] = to8(g)
		c.b[i] = to8(b)
	}
	return c
}

// Apply returns the tinted colour for a gray luminance
func (c Colorize) Apply(gray uint8) color.RGBA {
	return color.RGBA{R: c.r[gray], G: c.g[gray], B: c.b[gray], A: 0xff}
}

func hslToRGB(h, s, l float64) (float64, float64, float64) {
	if s == 0 {
		return l, l, l
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return hueToRGB(p, q, h+1.0/3), hueToRGB(p, q, h), hueToRGB(p, q, h-1.0/3)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
