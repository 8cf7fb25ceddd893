package process

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/tauraamui/maskdaemon/pkg/database/models"
	"github.com/tauraamui/maskdaemon/pkg/ingest"
	"github.com/tauraamui/maskdaemon/pkg/landmark"
	"github.com/tauraamui/maskdaemon/pkg/log"
	"github.com/tauraamui/maskdaemon/pkg/present"
)

// Detector is the part of detector.Invoker the inference loop needs.
type Detector interface {
	Detect(*image.RGBA) ([]landmark.Detection, error)
}

// Recorder stores one result per processed frame.
type Recorder interface {
	Create(*models.ScoreRecord) error
}

type Inference struct {
	Camera    string
	Detector  Detector
	Presenter present.Presenter
	Recorder  Recorder
}

// InferenceProcess consumes leases until cancelled, releasing every lease it
// receives. Leases still queued on shutdown are released unprocessed.
func InferenceProcess(inf Inference, leases <-chan *ingest.Lease) func(context.Context) []chan interface{} {
	return func(ctx context.Context) []chan interface{} {
		stopping := make(chan interface{})
		go func(ctx context.Context, stopping chan interface{}) {
			defer close(stopping)
			for {
				select {
				case <-ctx.Done():
					drain(leases)
					return
				case lease := <-leases:
					inf.infer(lease)
				}
			}
		}(ctx, stopping)
		return []chan interface{}{stopping}
	}
}

func drain(leases <-chan *ingest.Lease) {
	for {
		select {
		case lease := <-leases:
			lease.Release()
		default:
			return
		}
	}
}

func (inf Inference) infer(lease *ingest.Lease) {
	defer lease.Release()

	detections, err := inf.Detector.Detect(lease.Frame)
	if err != nil {
		log.Error("Unable to detect faces in frame from camera [%s]: %v", inf.Camera, err)
		return
	}

	results, skipped := present.ScoreAll(lease.Frame, detections)
	for _, err := range skipped {
		log.Warn("Unable to score face from camera [%s]: %v", inf.Camera, err)
	}

	if err := present.Annotate(lease.Frame, results); err != nil {
		log.Error("Unable to annotate frame from camera [%s]: %v", inf.Camera, err)
	}

	elapsed := time.Since(lease.AcquiredAt)
	if inf.Presenter != nil {
		status := fmt.Sprintf("Time cost: %.3f sec", elapsed.Seconds())
		if err := inf.Presenter.Show(lease.Frame, status); err != nil {
			log.Error("Unable to present frame from camera [%s]: %v", inf.Camera, err)
		}
	}

	inf.record(lease.ID, results, elapsed)
}

func (inf Inference) record(frameID string, results []present.Result, elapsed time.Duration) {
	if inf.Recorder == nil {
		return
	}

	record := models.ScoreRecord{
		FrameUUID: frameID,
		Camera:    inf.Camera,
		FaceCount: len(results),
		ElapsedMS: elapsed.Milliseconds(),
	}
	if primary, ok := mostConfident(results); ok {
		record.Score = primary.Score.Value
		record.Defined = primary.Score.Defined
	}

	if err := inf.Recorder.Create(&record); err != nil {
		log.Error("Unable to record score for camera [%s]: %v", inf.Camera, err)
	}
}

func mostConfident(results []present.Result) (present.Result, bool) {
	if len(results) == 0 {
		return present.Result{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Detection.Score > best.Detection.Score {
			best = r
		}
	}
	return best, true
}
