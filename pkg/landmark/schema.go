package landmark

import "fmt"

// Index names a point of the 68-point iBUG face layout, the layout produced
// by dlib's shape_predictor_68_face_landmarks and compatible regressors.
type Index int

// Left and right are as seen in the image, matching the usual dlib naming.

// Jaw line from the image-left ear down to the chin and back up (0-16).
const (
	JawLeftTop Index = iota
	JawLeftUpper
	JawLeftMid
	JawLeftLower
	JawLeftMouthLevel
	JawLeftChinSide
	JawLeftChin
	ChinLeft
	Chin
	ChinRight
	JawRightChin
	JawRightChinSide
	JawRightMouthLevel
	JawRightLower
	JawRightMid
	JawRightUpper
	JawRightTop
)

// Eyebrows (17-26).
const (
	LeftEyebrowOuter Index = iota + 17
	LeftEyebrowOuterMid
	LeftEyebrowMid
	LeftEyebrowInnerMid
	LeftEyebrowInner
	RightEyebrowInner
	RightEyebrowInnerMid
	RightEyebrowMid
	RightEyebrowOuterMid
	RightEyebrowOuter
)

// Nose bridge (27-30) and lower nose (31-35).
const (
	NoseBridgeTop Index = iota + 27
	NoseBridgeUpper
	NoseBridgeLower
	NoseTip
	NostrilLeftOuter
	NostrilLeft
	NoseBase
	NostrilRight
	NostrilRightOuter
)

// Eyes (36-47). Each eye runs clockwise from its outer corner.
const (
	LeftEyeOuterCorner Index = iota + 36
	LeftEyeUpperOuter
	LeftEyeUpperInner
	LeftEyeInnerCorner
	LeftEyeLowerInner
	LeftEyeLowerOuter
	RightEyeInnerCorner
	RightEyeUpperInner
	RightEyeUpperOuter
	RightEyeOuterCorner
	RightEyeLowerOuter
	RightEyeLowerInner
)

// Mouth outer lip (48-59) and inner lip (60-67).
const (
	MouthCornerLeft Index = iota + 48
	UpperLipOuterLeft
	UpperLipOuterLeftMid
	UpperLipTop
	UpperLipOuterRightMid
	UpperLipOuterRight
	MouthCornerRight
	LowerLipOuterRight
	LowerLipOuterRightMid
	LowerLipBottom
	LowerLipOuterLeftMid
	LowerLipOuterLeft
	InnerLipCornerLeft
	UpperLipInnerLeft
	UpperLipInnerMid
	UpperLipInnerRight
	InnerLipCornerRight
	LowerLipInnerRight
	LowerLipInnerMid
	LowerLipInnerLeft
)

// Count is the number of points in the layout.
const Count = 68

var names = map[Index]string{
	JawLeftMouthLevel:   "jaw_left_mouth_level",
	JawRightMouthLevel:  "jaw_right_mouth_level",
	Chin:                "chin",
	LeftEyebrowInner:    "left_eyebrow_inner",
	RightEyebrowInner:   "right_eyebrow_inner",
	NoseTip:             "nose_tip",
	LeftEyeInnerCorner:  "left_eye_inner_corner",
	RightEyeInnerCorner: "right_eye_inner_corner",
	MouthCornerLeft:     "mouth_corner_left",
	MouthCornerRight:    "mouth_corner_right",
}

// Valid reports whether i addresses a point of the layout.
func (i Index) Valid() bool {
	return i >= 0 && i < Count
}

func (i Index) String() string {
	if n, ok := names[i]; ok {
		return n
	}
	return fmt.Sprintf("landmark_%d", int(i))
}
