package detector

import (
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tauraamui/maskdaemon/pkg/landmark"
	"github.com/tauraamui/maskdaemon/pkg/log"
	"github.com/tauraamui/xerror"
)

var ErrReleased = xerror.New("detector has been released")

// Detector finds faces and their 68 landmarks in a normalized frame.
type Detector interface {
	Detect(frame *image.RGBA) ([]landmark.Detection, error)
	Close() error
}

type Stats struct {
	Calls       uint64
	Failures    uint64
	InFlight    int
	LastLatency time.Duration
}

// Invoker guards a Detector with a shutdown barrier. Calls made after Close
// has started fail with ErrReleased, and Close waits for every call already
// in progress to return before it releases the detector. At most one call
// reaches the detector at a time, however many cameras share the invoker.
type Invoker struct {
	detector Detector
	call     sync.Mutex

	mu       sync.Mutex
	drained  *sync.Cond
	inFlight int
	closing  bool
	closed   bool
	closeErr error

	calls       atomic.Uint64
	failures    atomic.Uint64
	lastLatency atomic.Int64
}

func NewInvoker(d Detector) *Invoker {
	inv := &Invoker{detector: d}
	inv.drained = sync.NewCond(&inv.mu)
	return inv
}

func (inv *Invoker) Detect(frame *image.RGBA) (detections []landmark.Detection, err error) {
	if !inv.enter() {
		return nil, ErrReleased
	}
	defer inv.exit()

	inv.call.Lock()
	defer inv.call.Unlock()

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = xerror.Errorf("detector panicked: %v", r)
			detections = nil
		}
		inv.lastLatency.Store(int64(time.Since(started)))
		inv.calls.Add(1)
		if err != nil {
			inv.failures.Add(1)
		}
	}()

	return inv.detector.Detect(frame)
}

func (inv *Invoker) enter() bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.closing {
		return false
	}
	inv.inFlight++
	return true
}

func (inv *Invoker) exit() {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.inFlight--
	if inv.inFlight == 0 {
		inv.drained.Broadcast()
	}
}

// Close blocks until in-flight calls drain, then releases the detector.
// Only the first call closes it; later calls wait for and return its result.
func (inv *Invoker) Close() error {
	inv.mu.Lock()
	if inv.closing {
		for !inv.closed {
			inv.drained.Wait()
		}
		err := inv.closeErr
		inv.mu.Unlock()
		return err
	}
	inv.closing = true
	for inv.inFlight > 0 {
		log.Debug("Waiting for %d detection(s) to finish", inv.inFlight)
		inv.drained.Wait()
	}
	inv.mu.Unlock()

	var err error
	if cerr := inv.detector.Close(); cerr != nil {
		err = xerror.Errorf("unable to release detector: %w", cerr)
	}

	inv.mu.Lock()
	inv.closed = true
	inv.closeErr = err
	inv.drained.Broadcast()
	inv.mu.Unlock()

	return err
}

// Released reports whether Close has been called.
func (inv *Invoker) Released() bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.closing
}

func (inv *Invoker) Stats() Stats {
	inv.mu.Lock()
	inFlight := inv.inFlight
	inv.mu.Unlock()
	return Stats{
		Calls:       inv.calls.Load(),
		Failures:    inv.failures.Load(),
		InFlight:    inFlight,
		LastLatency: time.Duration(inv.lastLatency.Load()),
	}
}
