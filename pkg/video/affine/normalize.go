package affine

import (
	"image"
	"image/color"
	"math"

	"github.com/tauraamui/xerror"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Rotation is a clockwise device rotation in degrees.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

var (
	ErrNotSquare       = xerror.New("normalized frame must be square")
	ErrEmptySource     = xerror.New("source frame is empty")
	ErrInvalidRotation = xerror.New("rotation must be 0, 90, 180 or 270 degrees")
)

var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Valid reports whether r is one of the supported quarter turns.
func (r Rotation) Valid() bool {
	switch r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return true
	}
	return false
}

// NewSquare allocates a side x side frame to normalize into.
func NewSquare(side int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, side, side))
}

// Matrix computes the source to destination transform: select the centred
// min(w,h) square, scale it to dstSide and turn it about the output centre.
func Matrix(srcW, srcH, dstSide int, rotation Rotation) (f64.Aff3, error) {
	if srcW <= 0 || srcH <= 0 {
		return identity, ErrEmptySource
	}
	if !rotation.Valid() {
		return identity, xerror.Errorf("%w: got %d", ErrInvalidRotation, rotation)
	}

	minDim := math.Min(float64(srcW), float64(srcH))
	crop := translate(-(float64(srcW)-minDim)/2, -(float64(srcH)-minDim)/2)
	scale := float64(dstSide) / minDim
	m := mul(f64.Aff3{scale, 0, 0, 0, scale, 0}, crop)

	if rotation != Rotate0 {
		c := float64(dstSide) / 2
		cos, sin := quarterTurn(rotation)
		turn := f64.Aff3{cos, -sin, 0, sin, cos, 0}
		m = mul(translate(c, c), mul(turn, mul(translate(-c, -c), m)))
	}
	return m, nil
}

// Normalize resamples src into dst with a single nearest neighbour pass
// over the composed matrix. dst keeps its size and must be square.
func Normalize(dst, src *image.RGBA, rotation Rotation) error {
	if dst == nil || dst.Rect.Dx() != dst.Rect.Dy() || dst.Rect.Empty() {
		return ErrNotSquare
	}
	if src == nil || src.Rect.Empty() {
		return ErrEmptySource
	}

	m, err := Matrix(src.Rect.Dx(), src.Rect.Dy(), dst.Rect.Dx(), rotation)
	if err != nil {
		return err
	}
	// account for non zero origins on either side
	m = mul(translate(float64(dst.Rect.Min.X), float64(dst.Rect.Min.Y)),
		mul(m, translate(-float64(src.Rect.Min.X), -float64(src.Rect.Min.Y))))

	draw.Draw(dst, dst.Rect, image.NewUniform(color.RGBA{A: 0xff}), image.Point{}, draw.Src)
	draw.NearestNeighbor.Transform(dst, m, src, src.Rect, draw.Src, nil)
	return nil
}

// Apply maps a source point through m.
func Apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

func quarterTurn(r Rotation) (cos, sin float64) {
	switch r {
	case Rotate90:
		return 0, 1
	case Rotate180:
		return -1, 0
	case Rotate270:
		return 0, -1
	}
	return 1, 0
}

func translate(tx, ty float64) f64.Aff3 {
	return f64.Aff3{1, 0, tx, 0, 1, ty}
}

// mul returns a*b, i.e. b applied first.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}
