package onnxlandmark

import (
	"image"

	"github.com/tauraamui/maskdaemon/pkg/detector/inference"
	"github.com/tauraamui/maskdaemon/pkg/landmark"
	"github.com/tauraamui/xerror"
	ort "github.com/yalue/onnxruntime_go"
)

const (
	inputName     = "input"
	landmarksName = "landmarks"
	scoreName     = "score"

	inputMean = 127.5
	inputStd  = 128.0
)

var ErrInputSize = xerror.New("frame does not match detector input size")

type runner interface {
	Run(inputs []ort.Value, outputs []ort.Value) error
	Destroy() error
}

// Landmark68 regresses the 68 iBUG landmarks of a single face from a square
// RGB frame. The model takes a 1x3xNxN tensor and returns landmarks as
// 136 values in [0,1] plus a face confidence.
type Landmark68 struct {
	session   runner
	inputSize int
	threshold float32
	input     []float32
}

// New loads the model at modelPath. Faces scoring below threshold are dropped.
func New(modelPath string, inputSize int, threshold float32) (*Landmark68, error) {
	session, err := inference.NewSession(modelPath, []string{inputName}, []string{landmarksName, scoreName}, 0)
	if err != nil {
		return nil, xerror.Errorf("failed to create landmark session: %w", err)
	}
	return newWithRunner(session, inputSize, threshold), nil
}

func newWithRunner(r runner, inputSize int, threshold float32) *Landmark68 {
	return &Landmark68{
		session:   r,
		inputSize: inputSize,
		threshold: threshold,
		input:     make([]float32, 3*inputSize*inputSize),
	}
}

// Detect runs the model over frame, which must be inputSize square.
func (l *Landmark68) Detect(frame *image.RGBA) ([]landmark.Detection, error) {
	if frame == nil || frame.Rect.Dx() != l.inputSize || frame.Rect.Dy() != l.inputSize {
		return nil, ErrInputSize
	}

	toTensor(frame, l.input)

	size := int64(l.inputSize)
	inputTensor, err := inference.CreateTensor([]int64{1, 3, size, size}, l.input)
	if err != nil {
		return nil, xerror.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	landmarksTensor, err := inference.CreateEmptyTensor[float32]([]int64{1, 2 * landmark.Count})
	if err != nil {
		return nil, xerror.Errorf("failed to create output tensor: %w", err)
	}
	defer landmarksTensor.Destroy()

	scoreTensor, err := inference.CreateEmptyTensor[float32]([]int64{1, 1})
	if err != nil {
		return nil, xerror.Errorf("failed to create output tensor: %w", err)
	}
	defer scoreTensor.Destroy()

	if err := l.session.Run([]ort.Value{inputTensor}, []ort.Value{landmarksTensor, scoreTensor}); err != nil {
		return nil, xerror.Errorf("landmark inference failed: %w", err)
	}

	return decode(landmarksTensor.GetData(), scoreTensor.GetData()[0], l.inputSize, l.threshold)
}

// Close releases detector resources
func (l *Landmark68) Close() error {
	return l.session.Destroy()
}

// toTensor writes frame into dst as normalized planar RGB, NCHW order.
func toTensor(frame *image.RGBA, dst []float32) {
	w, h := frame.Rect.Dx(), frame.Rect.Dy()
	plane := w * h
	for y := 0; y < h; y++ {
		row := frame.Pix[y*frame.Stride:]
		for x := 0; x < w; x++ {
			i := y*w + x
			px := row[x*4 : x*4+3]
			dst[i] = (float32(px[0]) - inputMean) / inputStd
			dst[plane+i] = (float32(px[1]) - inputMean) / inputStd
			dst[2*plane+i] = (float32(px[2]) - inputMean) / inputStd
		}
	}
}

// decode scales model output into frame space.
func decode(raw []float32, score float32, inputSize int, threshold float32) ([]landmark.Detection, error) {
	if score < threshold {
		return nil, nil
	}
	if len(raw) < 2*landmark.Count {
		return nil, xerror.Errorf("%w: model returned %d values", landmark.ErrLandmarkCount, len(raw))
	}

	side := float32(inputSize)
	points := make([]landmark.Point, landmark.Count)
	for i := range points {
		points[i] = landmark.Point{X: raw[i*2] * side, Y: raw[i*2+1] * side}
	}

	landmarks, err := landmark.FromPoints(points)
	if err != nil {
		return nil, err
	}
	return []landmark.Detection{{
		BoundingBox: landmark.Bounds(landmarks),
		Landmarks:   landmarks,
		Score:       score,
	}}, nil
}
