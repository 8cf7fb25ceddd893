package affine_test

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tauraamui/maskdaemon/pkg/video/affine"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func filled(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func countColour(img *image.RGBA, c color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestNormalizeAlwaysProducesFullSquare(t *testing.T) {
	sizes := []image.Point{
		{640, 480}, {480, 640}, {224, 224}, {1920, 1080}, {7, 3}, {3, 7}, {1, 1}, {100, 99},
	}
	rotations := []affine.Rotation{affine.Rotate0, affine.Rotate90, affine.Rotate180, affine.Rotate270}

	for _, size := range sizes {
		for _, rotation := range rotations {
			dst := affine.NewSquare(224)
			require.NoError(t, affine.Normalize(dst, filled(size.X, size.Y, red), rotation))

			assert.Equal(t, image.Rect(0, 0, 224, 224), dst.Bounds(), "size %v rotation %d", size, rotation)
			assert.Equal(t, 224*224, countColour(dst, red), "size %v rotation %d left pixels unwritten", size, rotation)
		}
	}
}

func TestNormalizeCropsToCentredSquare(t *testing.T) {
	is := is.New(t)

	src := filled(640, 480, blue)
	// markers sit in the 80 pixel bands either side of the centred 480 square
	for y := 0; y < 480; y++ {
		for x := 0; x < 80; x++ {
			src.SetRGBA(x, y, red)
			src.SetRGBA(639-x, y, red)
		}
	}

	for _, rotation := range []affine.Rotation{affine.Rotate0, affine.Rotate90} {
		dst := affine.NewSquare(224)
		is.NoErr(affine.Normalize(dst, src, rotation))
		is.Equal(countColour(dst, red), 0)
		is.Equal(countColour(dst, blue), 224*224)
	}
}

func TestNormalizeRotatesClockwiseAboutCentre(t *testing.T) {
	is := is.New(t)

	src := filled(480, 480, blue)
	for y := 0; y < 240; y++ {
		for x := 0; x < 240; x++ {
			src.SetRGBA(x, y, red)
		}
	}

	dst := affine.NewSquare(224)
	is.NoErr(affine.Normalize(dst, src, affine.Rotate90))

	is.Equal(dst.RGBAAt(200, 20), red)   // top-left quadrant turned to top-right
	is.Equal(dst.RGBAAt(20, 20), blue)   // top-left now holds what was bottom-left
	is.Equal(dst.RGBAAt(200, 200), blue) // bottom-right stays clear of the marker
}

func TestMatrixMapsCropCornersOntoOutput(t *testing.T) {
	is := is.New(t)

	m, err := affine.Matrix(640, 480, 224, affine.Rotate0)
	is.NoErr(err)

	x, y := affine.Apply(m, 80, 0)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
	x, y = affine.Apply(m, 560, 480)
	assert.InDelta(t, 224, x, 1e-9)
	assert.InDelta(t, 224, y, 1e-9)

	m, err = affine.Matrix(640, 480, 224, affine.Rotate90)
	is.NoErr(err)
	x, y = affine.Apply(m, 80, 0)
	assert.InDelta(t, 224, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
}

func TestNormalizeRejectsBadInput(t *testing.T) {
	is := is.New(t)

	err := affine.Normalize(image.NewRGBA(image.Rect(0, 0, 10, 20)), filled(4, 4, red), affine.Rotate0)
	is.True(errors.Is(err, affine.ErrNotSquare))

	err = affine.Normalize(affine.NewSquare(10), filled(4, 4, red), affine.Rotation(45))
	is.True(errors.Is(err, affine.ErrInvalidRotation))

	err = affine.Normalize(affine.NewSquare(10), image.NewRGBA(image.Rect(0, 0, 0, 0)), affine.Rotate0)
	is.True(errors.Is(err, affine.ErrEmptySource))
}

func TestRotationForDisplay(t *testing.T) {
	is := is.New(t)

	is.Equal(affine.RotationForDisplay(1080, 1920), affine.Rotate90)
	is.Equal(affine.RotationForDisplay(1920, 1080), affine.Rotate0)
	is.Equal(affine.RotationForDisplay(800, 800), affine.Rotate0)
	is.Equal(affine.DisplayOrientation{Width: 720, Height: 1280}.Rotation(), affine.Rotate90)
	is.Equal(affine.Fixed(affine.Rotate180).Rotation(), affine.Rotate180)
}
