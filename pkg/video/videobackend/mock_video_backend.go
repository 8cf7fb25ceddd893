package videobackend

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/maskdaemon/pkg/video/overlay"
	"github.com/tauraamui/maskdaemon/pkg/video/videoframe"
	"github.com/tauraamui/maskdaemon/pkg/video/yuv"
	"github.com/tauraamui/xerror"
)

const (
	defaultMockWidth  = 640
	defaultMockHeight = 480
)

type mockVideoBackend struct{}

func (b *mockVideoBackend) Open(_ context.Context, settings Settings) (Source, error) {
	return NewMockSource(settings.Title, settings.Width, settings.Height), nil
}

// MockSource renders a synthetic offline card carrying the camera title
// and the current time.
type MockSource struct {
	uuid        string
	cameraTitle string
	width       int
	height      int

	mu                      sync.Mutex
	closed                  bool
	renderedBaseFrameCanvas bool
	baseFrameCanvas         image.Image
	outstanding             int
}

func NewMockSource(title string, width, height int) *MockSource {
	if width <= 0 || height <= 0 {
		width, height = defaultMockWidth, defaultMockHeight
	}
	return &MockSource{cameraTitle: title, width: width, height: height}
}

func (mvc *MockSource) UUID() string {
	if len(mvc.uuid) == 0 {
		mvc.uuid = uuid.NewString()
	}
	return mvc.uuid
}

func (mvc *MockSource) AcquireLatestFrame() (videoframe.Raw, error) {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()

	if mvc.closed {
		return nil, xerror.New("mock source closed")
	}

	if !mvc.renderedBaseFrameCanvas {
		mvc.baseFrameCanvas = renderBaseFrameCanvas(mvc.width, mvc.height)
		mvc.renderedBaseFrameCanvas = true
	}

	img, err := drawTextLayerOntoBaseFrameClone(mvc.baseFrameCanvas, mvc.cameraTitle)
	if err != nil {
		return nil, err
	}

	p := yuv.FromRGBA(img)
	mvc.outstanding++
	return videoframe.NewRaw(
		videoframe.Dimensions{W: p.Width, H: p.Height},
		[]videoframe.Plane{
			{Data: p.Y, RowStride: p.YRowStride, PixelStride: 1},
			{Data: p.U, RowStride: p.UVRowStride, PixelStride: p.UVPixelStride},
			{Data: p.V, RowStride: p.UVRowStride, PixelStride: p.UVPixelStride},
		},
		mvc.onRelease,
	), nil
}

func (mvc *MockSource) onRelease() {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	mvc.outstanding--
}

// Outstanding is the number of frames handed out and not yet released.
func (mvc *MockSource) Outstanding() int {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	return mvc.outstanding
}

// Close the mock source
func (mvc *MockSource) Close() error {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	mvc.closed = true
	mvc.renderedBaseFrameCanvas = false
	mvc.baseFrameCanvas = nil
	return nil
}

func drawTextLayerOntoBaseFrameClone(base image.Image, title string) (*image.RGBA, error) {
	baseClone := cloneImage(base)
	h := baseClone.Bounds().Dy()
	size := float64(h) / 10

	err := overlay.TextCentredOn(baseClone, 5, h/8, size, color.White, "MD_OFFLINE_STREAM")
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for offline stream: %w", err)
	}

	err = overlay.TextCentredOn(baseClone, 5, h*3/8, size, color.White, title)
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for offline stream: %w", err) //nolint
	}
	err = overlay.TextCentredOn(baseClone, 5, h*5/8, size/2, color.White, time.Now().Format("2006-01-02 15:04:05.999999999"))
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for offline stream: %w", err) //nolint
	}
	return baseClone, nil
}

func renderBaseFrameCanvas(w, h int) image.Image {
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := float64(h) / 2
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), r * 1.5}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), r * 1.5}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), r * 1.5}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func cloneImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
