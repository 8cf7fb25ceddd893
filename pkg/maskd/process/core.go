package process

import (
	"fmt"

	"github.com/tauraamui/maskdaemon/pkg/ingest"
	"github.com/tauraamui/maskdaemon/pkg/video/videobackend"
)

// Camera is everything a single camera pipeline is built from.
type Camera struct {
	Title    string
	FPS      int
	Source   videobackend.Source
	Ingestor *ingest.Ingestor
}

func NewCoreProcess(cam Camera, inf Inference) Process {
	inf.Camera = cam.Title
	return &scoreCameraFrames{
		cam:    cam,
		inf:    inf,
		leases: make(chan *ingest.Lease, 1),
	}
}

type scoreCameraFrames struct {
	cam           Camera
	inf           Inference
	leases        chan *ingest.Lease
	streamProcess Process
	inferProcess  Process
}

func (proc *scoreCameraFrames) Setup() Process {
	proc.inferProcess = New(Settings{
		StopMsg: fmt.Sprintf("Stopping scoring frames from camera [%s]...", proc.cam.Title),
		Run:     InferenceProcess(proc.inf, proc.leases),
	})

	proc.streamProcess = New(Settings{
		StopMsg: fmt.Sprintf("Closing camera [%s] video stream...", proc.cam.Title),
		Run:     StreamProcess(proc.cam.Title, proc.cam.Source, proc.cam.FPS, proc.cam.Ingestor, proc.leases),
	})
	return proc
}

func (proc *scoreCameraFrames) Start() {
	proc.inferProcess.Start()
	proc.streamProcess.Start()
}

// Stop halts the stream before the inference loop so no lease is queued
// after the loop has drained.
func (proc *scoreCameraFrames) Stop() {
	proc.streamProcess.Stop()
	proc.streamProcess.Wait()
	proc.inferProcess.Stop()
}

func (proc *scoreCameraFrames) Wait() {
	proc.streamProcess.Wait()
	proc.inferProcess.Wait()
}
