package maskd

import (
	"sync"

	"github.com/tauraamui/maskdaemon/pkg/maskd/process"
)

func (s *Server) SetupProcesses() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cam := range s.cameras {
		proc := process.NewCoreProcess(
			process.Camera{Title: cam.title, FPS: cam.fps, Source: cam.source, Ingestor: cam.ingestor},
			process.Inference{Detector: s.invoker, Presenter: s.presenter, Recorder: s.recorder()},
		)
		proc.Setup()
		s.coreProcesses = append(s.coreProcesses, proc)
	}
}

func (s *Server) RunProcesses() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, proc := range s.coreProcesses {
		proc.Start()
	}
}

func (s *Server) shutdownProcesses() {
	wg := sync.WaitGroup{}
	wg.Add(len(s.coreProcesses))
	for _, proc := range s.coreProcesses {
		go func(wg *sync.WaitGroup, proc process.Process) {
			proc.Stop()
			proc.Wait()
			wg.Done()
		}(&wg, proc)
	}
	wg.Wait()
}
