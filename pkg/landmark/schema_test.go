package landmark_test

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/maskdaemon/pkg/landmark"
)

func TestSchemaIndicesUsedByScoring(t *testing.T) {
	is := is.New(t)

	is.Equal(int(landmark.JawLeftMouthLevel), 4)
	is.Equal(int(landmark.JawRightMouthLevel), 12)
	is.Equal(int(landmark.LeftEyebrowInner), 21)
	is.Equal(int(landmark.RightEyebrowInner), 22)
	is.Equal(int(landmark.RightEyeInnerCorner), 42)
	is.Equal(int(landmark.MouthCornerLeft), 48)
	is.Equal(int(landmark.MouthCornerRight), 54)
	is.Equal(int(landmark.LowerLipInnerLeft), landmark.Count-1)
}

func TestIndexStringAndValid(t *testing.T) {
	is := is.New(t)

	for i := landmark.Index(0); i < landmark.Count; i++ {
		is.True(i.Valid())
		is.True(i.String() != "")
	}
	is.True(!landmark.Index(-1).Valid())
	is.True(!landmark.Index(landmark.Count).Valid())
}

func TestFromPointsAndValidate(t *testing.T) {
	is := is.New(t)

	points := make([]landmark.Point, landmark.Count)
	for i := range points {
		points[i] = landmark.Point{X: float32(i), Y: float32(2 * i)}
	}
	landmarks, err := landmark.FromPoints(points)
	is.NoErr(err)

	d := landmark.Detection{Landmarks: landmarks, BoundingBox: landmark.Bounds(landmarks)}
	is.NoErr(d.Validate())
	is.Equal(d.At(landmark.Chin).Point, landmark.Point{X: 8, Y: 16})
	is.Equal(d.BoundingBox, landmark.BoundingBox{X1: 0, Y1: 0, X2: 67, Y2: 134})
	is.Equal(d.BoundingBox.Width(), float32(67))
	is.Equal(d.BoundingBox.Height(), float32(134))

	_, err = landmark.FromPoints(points[:10])
	is.True(errors.Is(err, landmark.ErrLandmarkCount))

	landmarks[3], landmarks[4] = landmarks[4], landmarks[3]
	is.True(errors.Is(landmark.ValidateSet(landmarks), landmark.ErrLandmarkCount))
}

func TestNonFiniteLandmarksAreRejected(t *testing.T) {
	is := is.New(t)

	points := make([]landmark.Point, landmark.Count)
	points[landmark.NoseTip] = landmark.Point{X: float32(math.NaN()), Y: 10}

	_, err := landmark.FromPoints(points)
	is.True(errors.Is(err, landmark.ErrNonFiniteLandmark))

	points[landmark.NoseTip] = landmark.Point{X: 10, Y: 10}
	landmarks, err := landmark.FromPoints(points)
	is.NoErr(err)

	landmarks[landmark.Chin].Y = float32(math.Inf(-1))
	is.True(errors.Is(landmark.ValidateSet(landmarks), landmark.ErrNonFiniteLandmark))
	is.True(!landmarks[landmark.Chin].Finite())
	is.True(landmarks[landmark.NoseTip].Finite())
}
