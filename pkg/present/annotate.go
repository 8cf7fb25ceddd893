package present

import (
	"image"
	"image/color"

	"github.com/tauraamui/maskdaemon/pkg/landmark"
	"github.com/tauraamui/maskdaemon/pkg/maskscore"
	"github.com/tauraamui/maskdaemon/pkg/video/overlay"
	"github.com/tauraamui/xerror"
)

const (
	strokeWidth = 2
	fontSize    = 14.0
)

var annotationColour = color.RGBA{G: 255, A: 255}

// Result pairs a detected face with its mask score.
type Result struct {
	Detection landmark.Detection
	Score     maskscore.MaskScore
}

// ScoreAll scores every detection against frame. It must run before
// Annotate draws onto the same frame. Faces that cannot be scored are left
// out of results and reported in skipped.
func ScoreAll(frame *image.RGBA, detections []landmark.Detection) (results []Result, skipped []error) {
	results = make([]Result, 0, len(detections))
	for _, d := range detections {
		score, err := maskscore.Score(d.Landmarks, frame)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		results = append(results, Result{Detection: d, Score: score})
	}
	return results, skipped
}

// Annotate outlines every detected face and writes its score along the
// bottom of frame, a third of the way in.
func Annotate(frame *image.RGBA, results []Result) error {
	b := frame.Bounds()
	for _, r := range results {
		box := r.Detection.BoundingBox
		overlay.Rect(frame, image.Rect(int(box.X1), int(box.Y1), int(box.X2), int(box.Y2)), strokeWidth, annotationColour)
		if err := overlay.Text(frame, b.Min.X+b.Dx()/3, b.Max.Y-5, fontSize, annotationColour, r.Score.String()); err != nil {
			return xerror.Errorf("unable to draw score onto frame: %w", err)
		}
	}
	return nil
}
