package videobackend

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tauraamui/maskdaemon/pkg/log"
	"github.com/tauraamui/maskdaemon/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

type openCVBackend struct{}

func (b *openCVBackend) Open(cancel context.Context, settings Settings) (Source, error) {
	src := openCVSource{settings: settings}
	if err := src.connect(cancel); err != nil {
		return nil, err
	}
	return &src, nil
}

type openCVSource struct {
	uuid     string
	settings Settings

	mu     sync.Mutex
	isOpen bool
	vc     *gocv.VideoCapture
	bgr    gocv.Mat
	i420   gocv.Mat
}

func (c *openCVSource) connect(cancel context.Context) error {
	connAndError := make(chan openVideoStreamResult, 1)
	go openVideoStream(c.settings, connAndError)
	select {
	case r := <-connAndError:
		if r.err != nil {
			return r.err
		}
		c.vc = r.vc
		c.bgr = gocv.NewMat()
		c.i420 = gocv.NewMat()
		c.isOpen = true
		return nil
	case <-cancel.Done():
		return xerror.New("connection cancelled")
	}
}

type openVideoStreamResult struct {
	vc  *gocv.VideoCapture
	err error
}

func openVideoStream(settings Settings, d chan openVideoStreamResult) {
	var device interface{} = settings.DeviceID
	if len(settings.Address) > 0 {
		device = settings.Address
	}
	vc, err := openVideoCapture(device)
	if err != nil {
		d <- openVideoStreamResult{err: xerror.Errorf("failed to open camera %v: %w", device, err)}
		return
	}

	if settings.Width > 0 && settings.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(settings.Width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(settings.Height))
	}
	if settings.FPS > 0 {
		vc.Set(gocv.VideoCaptureFPS, float64(settings.FPS))
	}
	log.Debug("Opened camera %v at %.0fx%.0f", device,
		vc.Get(gocv.VideoCaptureFrameWidth), vc.Get(gocv.VideoCaptureFrameHeight))

	d <- openVideoStreamResult{vc: vc}
}

var openVideoCapture = func(device interface{}) (*gocv.VideoCapture, error) {
	return gocv.OpenVideoCapture(device)
}

var readFromVideoCapture = func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
	if vc.IsOpened() {
		return vc.Read(mat)
	}
	return false
}

func (c *openCVSource) UUID() string {
	if len(c.uuid) == 0 {
		c.uuid = uuid.NewString()
	}
	return c.uuid
}

// AcquireLatestFrame reads the next capture and repacks it as I420.
func (c *openCVSource) AcquireLatestFrame() (videoframe.Raw, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isOpen {
		return nil, xerror.New("camera connection closed")
	}
	if !readFromVideoCapture(c.vc, &c.bgr) || c.bgr.Empty() {
		return nil, ErrNoFrame
	}

	w, h := c.bgr.Cols(), c.bgr.Rows()
	// I420 needs even dimensions
	if w%2 != 0 || h%2 != 0 {
		return nil, xerror.Errorf("camera produced odd frame size %dx%d", w, h)
	}
	gocv.CvtColor(c.bgr, &c.i420, gocv.ColorBGRToYUVI420)

	return i420Frame(c.i420.ToBytes(), videoframe.Dimensions{W: w, H: h}), nil
}

// i420Frame splits contiguous I420 bytes into Y, U and V planes.
func i420Frame(data []byte, dims videoframe.Dimensions) videoframe.Raw {
	ySize := dims.W * dims.H
	cw, ch := dims.W/2, dims.H/2
	cSize := cw * ch
	return videoframe.NewRaw(dims, []videoframe.Plane{
		{Data: data[:ySize], RowStride: dims.W, PixelStride: 1},
		{Data: data[ySize : ySize+cSize], RowStride: cw, PixelStride: 1},
		{Data: data[ySize+cSize : ySize+2*cSize], RowStride: cw, PixelStride: 1},
	}, nil)
}

func (c *openCVSource) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return nil
	}
	c.isOpen = false
	c.bgr.Close()
	c.i420.Close()
	return c.vc.Close()
}
