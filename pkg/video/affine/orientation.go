package affine

// Orientation supplies the device rotation, sampled once per frame.
type Orientation interface {
	Rotation() Rotation
}

// DisplayOrientation derives rotation from display dimensions.
type DisplayOrientation struct {
	Width, Height int
}

func (d DisplayOrientation) Rotation() Rotation {
	return RotationForDisplay(d.Width, d.Height)
}

// RotationForDisplay is 90 degrees for portrait displays and 0 otherwise.
func RotationForDisplay(width, height int) Rotation {
	if width < height {
		return Rotate90
	}
	return Rotate0
}

// Fixed always reports the same rotation.
type Fixed Rotation

func (f Fixed) Rotation() Rotation { return Rotation(f) }
