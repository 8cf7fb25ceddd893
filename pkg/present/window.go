package present

import (
	"image"
	"image/color"
	"sync"

	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

// Window shows frames in a native OpenCV preview window.
type Window struct {
	mu     sync.Mutex
	window *gocv.Window
	name   string
}

func NewWindow(name string, width, height int) *Window {
	window := gocv.NewWindow(name)
	if width > 0 && height > 0 {
		window.ResizeWindow(width, height)
	}
	return &Window{window: window, name: name}
}

func (w *Window) Show(frame *image.RGBA, status string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.window == nil {
		return xerror.Errorf("window %s already closed", w.name)
	}

	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return xerror.Errorf("unable to convert frame for display: %w", err)
	}
	defer mat.Close()

	if len(status) > 0 {
		gocv.PutText(&mat, status, image.Pt(5, 15),
			gocv.FontHersheyPlain, 1, color.RGBA{G: 255, A: 255}, 1)
	}

	w.window.IMShow(mat)
	w.window.WaitKey(1)
	return nil
}

// Close closes the window
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.window != nil {
		err := w.window.Close()
		w.window = nil
		return err
	}
	return nil
}
