package process

import (
	"context"
	"sync"

	"github.com/tauraamui/maskdaemon/pkg/log"
)

// Process is a camera pipeline stage with a start/stop lifecycle.
type Process interface {
	Setup() Process
	Start()
	Stop()
	Wait()
}

// Settings describe a single stage. Run launches the stage's goroutines and
// returns one channel per goroutine, each closed when that goroutine exits.
type Settings struct {
	StopMsg string
	Run     func(context.Context) []chan interface{}
}

func New(settings Settings) Process {
	return &stage{stopMsg: settings.StopMsg, run: settings.Run}
}

type stageState int

const (
	stageIdle stageState = iota
	stageRunning
	stageStopped
)

// stage runs at most once. Start after Start or after Stop does nothing, and
// Stop on a stage that never ran leaves nothing for Wait to wait on.
type stage struct {
	stopMsg string
	run     func(context.Context) []chan interface{}

	mu     sync.Mutex
	state  stageState
	cancel context.CancelFunc
	done   []chan interface{}
}

func (s *stage) Setup() Process { return s }

func (s *stage) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stageIdle {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = s.run(ctx)
	s.state = stageRunning
}

func (s *stage) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stageStopped {
		return
	}

	wasRunning := s.state == stageRunning
	s.state = stageStopped
	if !wasRunning {
		return
	}
	if len(s.stopMsg) > 0 {
		log.Info(s.stopMsg)
	}
	s.cancel()
}

func (s *stage) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	for _, d := range done {
		<-d
	}
}
