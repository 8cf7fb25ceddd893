package process

import (
	"context"
	"errors"
	"time"

	"github.com/tauraamui/maskdaemon/pkg/ingest"
	"github.com/tauraamui/maskdaemon/pkg/log"
	"github.com/tauraamui/maskdaemon/pkg/video/videobackend"
)

const defaultFPS = 30

// StreamProcess polls src at fps and pushes every admitted frame onto
// leases. The channel is expected to have capacity one.
func StreamProcess(title string, src videobackend.Source, fps int, in *ingest.Ingestor, leases chan<- *ingest.Lease) func(context.Context) []chan interface{} {
	if fps <= 0 {
		fps = defaultFPS
	}
	interval := time.Second / time.Duration(fps)
	return func(ctx context.Context) []chan interface{} {
		log.Info("Streaming video from camera [%s]", title)
		stopping := make(chan interface{})
		go func(ctx context.Context, stopping chan interface{}) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					close(stopping)
					return
				case <-ticker.C:
					stream(title, src, in, leases)
				}
			}
		}(ctx, stopping)
		return []chan interface{}{stopping}
	}
}

func stream(title string, src videobackend.Source, in *ingest.Ingestor, leases chan<- *ingest.Lease) {
	raw, err := src.AcquireLatestFrame()
	if err != nil {
		if errors.Is(err, videobackend.ErrNoFrame) {
			log.Debug("No frame available from camera [%s]", title)
			return
		}
		log.Error("Unable to retrieve frame from camera [%s]: %v", title, err)
		return
	}

	lease, err := in.OnFrame(raw)
	if err != nil {
		if errors.Is(err, ingest.ErrDropped) {
			log.Debug("Dropped frame from camera [%s], previous frame still processing", title)
			return
		}
		log.Error("Unable to ingest frame from camera [%s]: %v", title, err)
		return
	}

	select {
	case leases <- lease:
		log.Debug("Sending frame from camera [%s] to inference...", title)
	default:
		lease.Release()
		log.Debug("Inference buffer full...")
	}
}
