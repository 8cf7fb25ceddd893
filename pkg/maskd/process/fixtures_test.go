package process_test

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tauraamui/maskdaemon/pkg/database/models"
	"github.com/tauraamui/maskdaemon/pkg/landmark"
	"github.com/tauraamui/maskdaemon/pkg/video/videobackend"
	"github.com/tauraamui/maskdaemon/pkg/video/videoframe"
	"github.com/tauraamui/maskdaemon/pkg/video/yuv"
)

var (
	green = color.RGBA{G: 154, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

// splitFrame is a 640x480 frame, green above the middle row and blue below.
func splitFrame() yuv.Planes {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			if y < 240 {
				img.SetRGBA(x, y, green)
				continue
			}
			img.SetRGBA(x, y, blue)
		}
	}
	return yuv.FromRGBA(img)
}

type fixtureSource struct {
	planes yuv.Planes
	err    error

	mu       sync.Mutex
	acquired int
	released int
}

func newFixtureSource() *fixtureSource {
	return &fixtureSource{planes: splitFrame()}
}

func (s *fixtureSource) UUID() string { return "fixture" }

func (s *fixtureSource) AcquireLatestFrame() (videoframe.Raw, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	s.acquired++
	s.mu.Unlock()

	p := s.planes
	return videoframe.NewRaw(
		videoframe.Dimensions{W: p.Width, H: p.Height},
		[]videoframe.Plane{
			{Data: p.Y, RowStride: p.YRowStride, PixelStride: 1},
			{Data: p.U, RowStride: p.UVRowStride, PixelStride: p.UVPixelStride},
			{Data: p.V, RowStride: p.UVRowStride, PixelStride: p.UVPixelStride},
		},
		func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.released++
		},
	), nil
}

func (s *fixtureSource) counts() (acquired, released int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acquired, s.released
}

func (s *fixtureSource) Close() error { return nil }

var _ videobackend.Source = &fixtureSource{}

// splitFace places the eye region in the green half and both mouth regions
// in the blue half of a normalized 224x224 split frame.
func splitFace(t *testing.T) landmark.Detection {
	t.Helper()
	points := make([]landmark.Point, landmark.Count)
	for i := range points {
		points[i] = landmark.Point{X: 112, Y: 112}
	}
	points[landmark.LeftEyebrowInner] = landmark.Point{X: 60, Y: 30}
	points[landmark.RightEyeInnerCorner] = landmark.Point{X: 100, Y: 60}
	points[landmark.JawLeftMouthLevel] = landmark.Point{X: 20, Y: 150}
	points[landmark.MouthCornerLeft] = landmark.Point{X: 60, Y: 180}
	points[landmark.MouthCornerRight] = landmark.Point{X: 150, Y: 150}
	points[landmark.JawRightMouthLevel] = landmark.Point{X: 200, Y: 180}

	landmarks, err := landmark.FromPoints(points)
	require.NoError(t, err)
	return landmark.Detection{
		BoundingBox: landmark.Bounds(landmarks),
		Landmarks:   landmarks,
		Score:       0.9,
	}
}

type stubDetector struct {
	mu         sync.Mutex
	detections []landmark.Detection
	err        error
	calls      int
	closed     int
}

func (d *stubDetector) Detect(*image.RGBA) ([]landmark.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	return d.detections, d.err
}

func (d *stubDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed++
	return nil
}

type recordingPresenter struct {
	mu       sync.Mutex
	statuses []string
}

func (p *recordingPresenter) Show(_ *image.RGBA, status string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, status)
	return nil
}

func (p *recordingPresenter) Close() error { return nil }

func (p *recordingPresenter) shown() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.statuses...)
}

type recordingRecorder struct {
	mu      sync.Mutex
	records []models.ScoreRecord
	err     error
}

func (r *recordingRecorder) Create(record *models.ScoreRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, *record)
	return nil
}

func (r *recordingRecorder) all() []models.ScoreRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ScoreRecord{}, r.records...)
}
