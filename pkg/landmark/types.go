package landmark

import (
	"math"

	"github.com/tauraamui/xerror"
)

var (
	ErrLandmarkCount     = xerror.New("detection must carry exactly 68 landmarks")
	ErrNonFiniteLandmark = xerror.New("landmark coordinates must be finite")
)

// Point is a position in normalized frame space.
type Point struct {
	X, Y float32
}

// Finite reports whether neither coordinate is NaN or infinite.
func (p Point) Finite() bool {
	x, y := float64(p.X), float64(p.Y)
	return !math.IsNaN(x) && !math.IsInf(x, 0) && !math.IsNaN(y) && !math.IsInf(y, 0)
}

// Landmark is a schema point located in the normalized frame.
type Landmark struct {
	Index Index
	Point
}

// BoundingBox represents a face bounding box
type BoundingBox struct {
	X1, Y1 float32 // top-left
	X2, Y2 float32 // bottom-right
}

// Width returns box width
func (b BoundingBox) Width() float32 {
	return b.X2 - b.X1
}

// Height returns box height
func (b BoundingBox) Height() float32 {
	return b.Y2 - b.Y1
}

// Detection is a single face found in a normalized frame.
type Detection struct {
	BoundingBox BoundingBox
	Landmarks   []Landmark
	Score       float32
}

// At looks a landmark up by its schema index. Landmarks are stored in index
// order, so this is a direct lookup once the detection has been validated.
func (d Detection) At(i Index) Landmark {
	return d.Landmarks[i]
}

// Validate checks the detection carries the full ordered layout.
func (d Detection) Validate() error {
	return ValidateSet(d.Landmarks)
}

// ValidateSet checks that landmarks holds exactly Count finite points in
// index order.
func ValidateSet(landmarks []Landmark) error {
	if len(landmarks) != Count {
		return xerror.Errorf("%w: got %d", ErrLandmarkCount, len(landmarks))
	}
	for i, l := range landmarks {
		if l.Index != Index(i) {
			return xerror.Errorf("%w: landmark at position %d has index %d", ErrLandmarkCount, i, l.Index)
		}
		if !l.Finite() {
			return xerror.Errorf("%w: landmark %s is at (%v, %v)", ErrNonFiniteLandmark, l.Index, l.X, l.Y)
		}
	}
	return nil
}

// FromPoints builds an ordered landmark set from raw points.
func FromPoints(points []Point) ([]Landmark, error) {
	if len(points) != Count {
		return nil, xerror.Errorf("%w: got %d", ErrLandmarkCount, len(points))
	}
	landmarks := make([]Landmark, Count)
	for i, p := range points {
		if !p.Finite() {
			return nil, xerror.Errorf("%w: point %d is at (%v, %v)", ErrNonFiniteLandmark, i, p.X, p.Y)
		}
		landmarks[i] = Landmark{Index: Index(i), Point: p}
	}
	return landmarks, nil
}

// Bounds computes the tight bounding box around every landmark.
func Bounds(landmarks []Landmark) BoundingBox {
	if len(landmarks) == 0 {
		return BoundingBox{}
	}
	minX, minY := landmarks[0].X, landmarks[0].Y
	maxX, maxY := landmarks[0].X, landmarks[0].Y
	for _, l := range landmarks[1:] {
		if l.X < minX {
			minX = l.X
		}
		if l.X > maxX {
			maxX = l.X
		}
		if l.Y < minY {
			minY = l.Y
		}
		if l.Y > maxY {
			maxY = l.Y
		}
	}
	return BoundingBox{X1: minX, Y1: minY, X2: maxX, Y2: maxY}
}
