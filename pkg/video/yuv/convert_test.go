package yuv_test

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tauraamui/maskdaemon/pkg/video/videoframe"
	"github.com/tauraamui/maskdaemon/pkg/video/yuv"
)

func uniformI420(w, h int, y, u, v byte) yuv.Planes {
	cw, ch := (w+1)/2, (h+1)/2
	p := yuv.Planes{
		Y: make([]byte, w*h), U: make([]byte, cw*ch), V: make([]byte, cw*ch),
		Width: w, Height: h, YRowStride: w, UVRowStride: cw, UVPixelStride: 1,
	}
	for i := range p.Y {
		p.Y[i] = y
	}
	for i := range p.U {
		p.U[i] = u
		p.V[i] = v
	}
	return p
}

// reference BT.601 video range transform in floating point
func expectedRGB(y, u, v byte) (float64, float64, float64) {
	yf := 1.164 * (float64(y) - 16)
	if float64(y) < 16 {
		yf = 0
	}
	uf, vf := float64(u)-128, float64(v)-128
	clamp := func(c float64) float64 { return math.Max(0, math.Min(255, math.Round(c))) }
	return clamp(yf + 1.596*vf), clamp(yf - 0.813*vf - 0.391*uf), clamp(yf + 2.018*uf)
}

func TestConvertUniformColourWithinRoundingTolerance(t *testing.T) {
	samples := [][3]byte{
		{128, 100, 180},
		{235, 128, 128},
		{16, 128, 128},
		{81, 90, 240},
		{60, 200, 60},
	}

	for _, s := range samples {
		p := uniformI420(8, 6, s[0], s[1], s[2])
		dst := image.NewRGBA(image.Rect(0, 0, 8, 6))
		require.NoError(t, yuv.Convert(dst, p, false))

		er, eg, eb := expectedRGB(s[0], s[1], s[2])
		for y := 0; y < 6; y++ {
			for x := 0; x < 8; x++ {
				c := dst.RGBAAt(x, y)
				assert.InDelta(t, er, float64(c.R), 1, "R for yuv %v", s)
				assert.InDelta(t, eg, float64(c.G), 1, "G for yuv %v", s)
				assert.InDelta(t, eb, float64(c.B), 1, "B for yuv %v", s)
				assert.Equal(t, uint8(0xff), c.A)
			}
		}
	}
}

func TestConvertClampsInsteadOfWrapping(t *testing.T) {
	is := is.New(t)

	green := image.NewRGBA(image.Rect(0, 0, 2, 2))
	is.NoErr(yuv.Convert(green, uniformI420(2, 2, 16, 0, 0), false))
	is.Equal(green.RGBAAt(0, 0), color.RGBA{R: 0, G: 154, B: 0, A: 255})

	blue := image.NewRGBA(image.Rect(0, 0, 2, 2))
	is.NoErr(yuv.Convert(blue, uniformI420(2, 2, 16, 255, 78), false))
	is.Equal(blue.RGBAAt(1, 1), color.RGBA{R: 0, G: 0, B: 255, A: 255})

	white := image.NewRGBA(image.Rect(0, 0, 2, 2))
	is.NoErr(yuv.Convert(white, uniformI420(2, 2, 255, 255, 255), false))
	c := white.RGBAAt(0, 0)
	is.Equal(c.R, uint8(255))
	is.Equal(c.B, uint8(255))
}

func TestConvertSemiPlanarMatchesPlanar(t *testing.T) {
	is := is.New(t)

	src := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			src.SetRGBA(x, y, color.RGBA{R: uint8(40 * x), G: uint8(60 * y), B: 90, A: 255})
		}
	}
	planar := yuv.FromRGBA(src)

	interleaved := make([]byte, len(planar.U)*2)
	for i := range planar.U {
		interleaved[2*i] = planar.U[i]
		interleaved[2*i+1] = planar.V[i]
	}
	semi := planar
	semi.U = interleaved
	semi.V = interleaved[1:]
	semi.UVRowStride = planar.UVRowStride * 2
	semi.UVPixelStride = 2

	want := image.NewRGBA(src.Rect)
	got := image.NewRGBA(src.Rect)
	is.NoErr(yuv.Convert(want, planar, false))
	is.NoErr(yuv.Convert(got, semi, false))
	is.Equal(want.Pix, got.Pix)
}

func TestConvertSwapUVOnlyChangesChannelOrder(t *testing.T) {
	is := is.New(t)

	p := uniformI420(4, 4, 120, 60, 200)
	swapped := p
	swapped.U, swapped.V = p.V, p.U

	want := image.NewRGBA(image.Rect(0, 0, 4, 4))
	got := image.NewRGBA(image.Rect(0, 0, 4, 4))
	is.NoErr(yuv.Convert(want, p, false))
	is.NoErr(yuv.Convert(got, swapped, true))
	is.Equal(want.Pix, got.Pix)
}

func TestConvertHonoursRowPadding(t *testing.T) {
	is := is.New(t)

	p := uniformI420(5, 3, 128, 100, 180)
	padded := p
	padded.YRowStride = 8
	padded.UVRowStride = 4
	padded.Y = make([]byte, 8*3)
	padded.U = make([]byte, 4*2)
	padded.V = make([]byte, 4*2)
	for i := range padded.Y {
		padded.Y[i] = 128
	}
	for i := range padded.U {
		padded.U[i], padded.V[i] = 100, 180
	}

	want := image.NewRGBA(image.Rect(0, 0, 5, 3))
	got := image.NewRGBA(image.Rect(0, 0, 5, 3))
	is.NoErr(yuv.Convert(want, p, false))
	is.NoErr(yuv.Convert(got, padded, false))
	is.Equal(want.Pix, got.Pix)
}

func TestConvertOddDimensionsFloorChromaCoordinates(t *testing.T) {
	is := is.New(t)

	p := uniformI420(3, 3, 100, 128, 128)
	dst := image.NewRGBA(image.Rect(0, 0, 3, 3))
	is.NoErr(yuv.Convert(dst, p, false))
	is.Equal(dst.RGBAAt(2, 2), dst.RGBAAt(0, 0))
}

func TestConvertRejectsShortPlanes(t *testing.T) {
	is := is.New(t)

	p := uniformI420(4, 4, 1, 1, 1)
	p.V = p.V[:1]
	err := yuv.Convert(image.NewRGBA(image.Rect(0, 0, 4, 4)), p, false)
	is.True(errors.Is(err, yuv.ErrShortPlane))
}

func TestConvertRejectsWrongDestination(t *testing.T) {
	is := is.New(t)

	err := yuv.Convert(image.NewRGBA(image.Rect(0, 0, 3, 4)), uniformI420(4, 4, 1, 1, 1), false)
	is.True(errors.Is(err, yuv.ErrDestinationSize))
}

func TestFromRawTwoPlaneIsSemiPlanar(t *testing.T) {
	is := is.New(t)

	planes := []videoframe.Plane{
		{Data: make([]byte, 16), RowStride: 4, PixelStride: 1},
		{Data: []byte{10, 20, 30, 40, 50, 60, 70, 80}, RowStride: 4, PixelStride: 2},
	}
	p, err := yuv.FromRaw(planes, videoframe.Dimensions{W: 4, H: 4})
	is.NoErr(err)
	is.Equal(p.U[0], byte(10))
	is.Equal(p.V[0], byte(20))
	is.Equal(p.UVPixelStride, 2)

	_, err = yuv.FromRaw(planes[:1], videoframe.Dimensions{W: 4, H: 4})
	is.True(errors.Is(err, yuv.ErrMissingPlanes))
}
