package maskscore

import (
	"image"

	"github.com/tauraamui/maskdaemon/pkg/landmark"
)

// HueRegion is a pixel rectangle spanned by two landmarks.
type HueRegion struct {
	MinX, MaxX int
	MinY, MaxY int
}

// RegionBetween builds the region spanned by a and b. Coordinates are
// truncated toward zero.
func RegionBetween(a, b landmark.Point) HueRegion {
	return HueRegion{
		MinX: int(a.X), MaxX: int(b.X),
		MinY: int(a.Y), MaxY: int(b.Y),
	}.Normalize()
}

// Normalize swaps bounds so that Min <= Max on both axes.
func (r HueRegion) Normalize() HueRegion {
	if r.MinX > r.MaxX {
		r.MinX, r.MaxX = r.MaxX, r.MinX
	}
	if r.MinY > r.MaxY {
		r.MinY, r.MaxY = r.MaxY, r.MinY
	}
	return r
}

// AverageHue walks x in [MinX, MaxX) and y in [MinY-1, MaxY+1], clipped to
// frame, and returns the mean hue in degrees along with the number of pixels
// visited.
func (r HueRegion) AverageHue(frame *image.RGBA) (float64, int) {
	r = r.Normalize()
	bounds := frame.Bounds()

	x0, x1 := r.MinX, r.MaxX
	if x0 < bounds.Min.X {
		x0 = bounds.Min.X
	}
	if x1 > bounds.Max.X {
		x1 = bounds.Max.X
	}
	// the one pixel margin is applied after clipping so extreme coordinates cannot overflow
	y0, y1 := bounds.Min.Y, bounds.Max.Y-1
	if r.MinY > y0 {
		y0 = r.MinY - 1
	}
	if r.MaxY < y1 {
		y1 = r.MaxY + 1
	}

	var sum float64
	count := 0
	for x := x0; x < x1; x++ {
		for y := y0; y <= y1; y++ {
			c := frame.RGBAAt(x, y)
			sum += Hue(c.R, c.G, c.B)
			count++
		}
	}

	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

// Hue is the HSV hue of an RGB colour in degrees, within [0, 360).
// Greys have hue 0.
func Hue(r, g, b uint8) float64 {
	rf, gf, bf := float64(r), float64(g), float64(b)
	hi, lo := rf, rf
	if gf > hi {
		hi = gf
	}
	if bf > hi {
		hi = bf
	}
	if gf < lo {
		lo = gf
	}
	if bf < lo {
		lo = bf
	}

	delta := hi - lo
	if delta == 0 {
		return 0
	}

	var h float64
	switch hi {
	case rf:
		h = (gf - bf) / delta
	case gf:
		h = 2 + (bf-rf)/delta
	default:
		h = 4 + (rf-gf)/delta
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h
}
