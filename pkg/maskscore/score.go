package maskscore

import (
	"fmt"
	"image"
	"math"

	"github.com/tauraamui/maskdaemon/pkg/landmark"
	"github.com/tauraamui/xerror"
)

var ErrNoFrame = xerror.New("no frame to score")

// MaskScore is the hue similarity between the eyes area and the mouth
// sides, in percent. A covered lower face scores low.
type MaskScore struct {
	Value   float64
	Defined bool
}

// Undefined is returned when a region covers no pixels.
var Undefined = MaskScore{}

func (m MaskScore) String() string {
	if !m.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.2f", m.Value)
}

// Regions are the three areas compared by Score.
type Regions struct {
	EyesArea   HueRegion
	LeftMouth  HueRegion
	RightMouth HueRegion
}

// RegionsFor lays the comparison regions out over a validated landmark set.
func RegionsFor(landmarks []landmark.Landmark) (Regions, error) {
	if err := landmark.ValidateSet(landmarks); err != nil {
		return Regions{}, err
	}
	at := func(i landmark.Index) landmark.Point { return landmarks[i].Point }

	return Regions{
		EyesArea:   RegionBetween(at(landmark.LeftEyebrowInner), at(landmark.RightEyeInnerCorner)),
		LeftMouth:  RegionBetween(at(landmark.JawLeftMouthLevel), at(landmark.MouthCornerLeft)),
		RightMouth: RegionBetween(at(landmark.MouthCornerRight), at(landmark.JawRightMouthLevel)),
	}, nil
}

// Score compares the average hue between the eyebrows and inner eye corner
// against the mean of the two cheek areas beside the mouth.
func Score(landmarks []landmark.Landmark, frame *image.RGBA) (MaskScore, error) {
	if frame == nil {
		return Undefined, ErrNoFrame
	}
	regions, err := RegionsFor(landmarks)
	if err != nil {
		return Undefined, err
	}

	eyes, n := regions.EyesArea.AverageHue(frame)
	if n == 0 {
		return Undefined, nil
	}
	left, n := regions.LeftMouth.AverageHue(frame)
	if n == 0 {
		return Undefined, nil
	}
	right, n := regions.RightMouth.AverageHue(frame)
	if n == 0 {
		return Undefined, nil
	}

	return Compare(eyes, (left+right)/2), nil
}

// Compare scores two average hues by their linear distance relative to the
// larger of the two.
func Compare(eyes, mouth float64) MaskScore {
	largest := math.Max(eyes, mouth)
	if largest == 0 {
		return MaskScore{Value: 100, Defined: true}
	}
	return MaskScore{Value: 100 - math.Abs(eyes-mouth)/largest*100, Defined: true}
}
