package yuv

import (
	"image"

	"github.com/tauraamui/maskdaemon/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// maxChannelValue is 255 in the 10 bit fixed point space the transform works in.
const maxChannelValue = 262143

var (
	ErrBadDimensions   = xerror.New("frame dimensions must be positive")
	ErrShortPlane      = xerror.New("plane too short for frame geometry")
	ErrDestinationSize = xerror.New("destination does not match frame size")
	ErrMissingPlanes   = xerror.New("frame needs luma and chroma planes")
)

// Planes describes a YUV 4:2:0 frame. U and V may point into the same
// interleaved buffer (semi-planar, pixel stride 2) or into separate
// planes (pixel stride 1).
type Planes struct {
	Y, U, V       []byte
	Width, Height int
	YRowStride    int
	UVRowStride   int
	UVPixelStride int
}

// FromRaw builds Planes over the plane data of a raw frame. A two plane
// frame is treated as semi-planar with U first and V one byte after it.
func FromRaw(planes []videoframe.Plane, dims videoframe.Dimensions) (Planes, error) {
	switch len(planes) {
	case 3:
		return Planes{
			Y: planes[0].Data, U: planes[1].Data, V: planes[2].Data,
			Width: dims.W, Height: dims.H,
			YRowStride:    planes[0].RowStride,
			UVRowStride:   planes[1].RowStride,
			UVPixelStride: planes[1].PixelStride,
		}, nil
	case 2:
		uv := planes[1].Data
		var v []byte
		if len(uv) > 0 {
			v = uv[1:]
		}
		return Planes{
			Y: planes[0].Data, U: uv, V: v,
			Width: dims.W, Height: dims.H,
			YRowStride:    planes[0].RowStride,
			UVRowStride:   planes[1].RowStride,
			UVPixelStride: planes[1].PixelStride,
		}, nil
	default:
		return Planes{}, xerror.Errorf("%w: got %d planes", ErrMissingPlanes, len(planes))
	}
}

// Validate checks the strides and plane lengths cover the frame geometry.
func (p Planes) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return xerror.Errorf("%w: %dx%d", ErrBadDimensions, p.Width, p.Height)
	}
	if p.YRowStride < p.Width || p.UVPixelStride < 1 || p.UVRowStride < 1 {
		return xerror.Errorf("%w: strides y=%d uv=%d uvPixel=%d", ErrBadDimensions, p.YRowStride, p.UVRowStride, p.UVPixelStride)
	}

	if need := (p.Height-1)*p.YRowStride + p.Width; len(p.Y) < need {
		return xerror.Errorf("%w: luma has %d bytes, needs %d", ErrShortPlane, len(p.Y), need)
	}

	need := ((p.Height-1)>>1)*p.UVRowStride + ((p.Width-1)>>1)*p.UVPixelStride + 1
	if len(p.U) < need {
		return xerror.Errorf("%w: chroma U has %d bytes, needs %d", ErrShortPlane, len(p.U), need)
	}
	if len(p.V) < need {
		return xerror.Errorf("%w: chroma V has %d bytes, needs %d", ErrShortPlane, len(p.V), need)
	}
	return nil
}

// Convert writes the RGBA rendition of p into dst, which must be exactly
// p.Width x p.Height. swapUV reads chroma as V,U instead of U,V.
func Convert(dst *image.RGBA, p Planes, swapUV bool) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if dst == nil || dst.Rect.Dx() != p.Width || dst.Rect.Dy() != p.Height {
		return xerror.Errorf("%w: want %dx%d", ErrDestinationSize, p.Width, p.Height)
	}

	uPlane, vPlane := p.U, p.V
	if swapUV {
		uPlane, vPlane = vPlane, uPlane
	}

	for y := 0; y < p.Height; y++ {
		yRow := y * p.YRowStride
		uvRow := (y >> 1) * p.UVRowStride
		out := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)

		for x := 0; x < p.Width; x++ {
			uvOffset := uvRow + (x>>1)*p.UVPixelStride
			r, g, b := toRGB(int(p.Y[yRow+x]), int(uPlane[uvOffset]), int(vPlane[uvOffset]))
			dst.Pix[out] = r
			dst.Pix[out+1] = g
			dst.Pix[out+2] = b
			dst.Pix[out+3] = 0xff
			out += 4
		}
	}
	return nil
}

// toRGB applies the BT.601 video range transform in 10 bit fixed point.
func toRGB(y, u, v int) (uint8, uint8, uint8) {
	y -= 16
	if y < 0 {
		y = 0
	}
	u -= 128
	v -= 128

	y1192 := 1192 * y
	r := y1192 + 1634*v
	g := y1192 - 833*v - 400*u
	b := y1192 + 2066*u

	return channel(r), channel(g), channel(b)
}

func channel(c int) uint8 {
	if c < 0 {
		c = 0
	} else if c > maxChannelValue {
		c = maxChannelValue
	}
	return uint8(c >> 10)
}
