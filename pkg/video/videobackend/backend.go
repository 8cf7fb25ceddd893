package videobackend

import (
	"context"

	"github.com/tauraamui/maskdaemon/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

var ErrNoFrame = xerror.New("no frame available")

// Settings describe the capture a source should open.
type Settings struct {
	Title    string
	DeviceID int
	// Address overrides DeviceID with a file path or stream URL when set.
	Address string
	Width   int
	Height  int
	FPS     int
}

// Source hands out the newest frame the camera has. Every frame returned
// must be released by the caller.
type Source interface {
	UUID() string
	AcquireLatestFrame() (videoframe.Raw, error)
	Close() error
}

type Backend interface {
	Open(context.Context, Settings) (Source, error)
}

func Default() Backend {
	return OpenCV()
}

func OpenCV() Backend {
	return &openCVBackend{}
}

func Mock() Backend {
	return &mockVideoBackend{}
}

func Resolve(mock bool) Backend {
	if mock {
		return Mock()
	}
	return Default()
}
