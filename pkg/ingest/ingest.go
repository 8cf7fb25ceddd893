package ingest

import (
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/maskdaemon/pkg/log"
	"github.com/tauraamui/maskdaemon/pkg/video/affine"
	"github.com/tauraamui/maskdaemon/pkg/video/videoframe"
	"github.com/tauraamui/maskdaemon/pkg/video/yuv"
	"github.com/tauraamui/xerror"
)

var (
	ErrDropped = xerror.New("frame dropped while previous frame is processing")
	ErrNilRaw  = xerror.New("no raw frame to ingest")
)

// Stats are lifetime counters for an ingestor.
type Stats struct {
	Accepted    uint64
	Dropped     uint64
	Failed      uint64
	Released    uint64
	Allocations uint64
}

// Ingestor turns raw sensor frames into normalized frames. It owns a single
// frame slot and admits one frame at a time; a frame arriving while the slot
// is leased is released straight back to the source.
type Ingestor struct {
	side        int
	orientation affine.Orientation
	swapUV      bool

	guard Guard
	slot  slot

	accepted    atomic.Uint64
	dropped     atomic.Uint64
	failed      atomic.Uint64
	released    atomic.Uint64
	allocations atomic.Uint64
}

type Option func(*Ingestor)

// WithSwapUV reads chroma planes in V,U order.
func WithSwapUV(swap bool) Option {
	return func(in *Ingestor) { in.swapUV = swap }
}

func New(side int, orientation affine.Orientation, opts ...Option) *Ingestor {
	if orientation == nil {
		orientation = affine.Fixed(affine.Rotate0)
	}
	in := &Ingestor{side: side, orientation: orientation}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// slot is only ever touched by whoever holds the guard.
type slot struct {
	dims       videoframe.Dimensions
	scratch    [][]byte
	packed     *image.RGBA
	normalized *image.RGBA
}

// OnFrame admits raw if the slot is free, converts and normalizes it, and
// hands the slot to the caller as a Lease. raw is released on every path.
// A busy slot yields ErrDropped.
func (in *Ingestor) OnFrame(raw videoframe.Raw) (lease *Lease, err error) {
	if raw == nil {
		return nil, ErrNilRaw
	}

	if !in.guard.TryEnter() {
		raw.Release()
		in.dropped.Add(1)
		return nil, ErrDropped
	}

	rawReleased := false
	releaseRaw := func() {
		if !rawReleased {
			rawReleased = true
			raw.Release()
		}
	}

	handedOff := false
	defer func() {
		if r := recover(); r != nil {
			err = xerror.Errorf("frame processing panicked: %v", r)
			lease = nil
		}
		releaseRaw()
		if !handedOff {
			in.failed.Add(1)
			in.leave()
		}
	}()

	started := time.Now()
	dims := raw.Dimensions()
	planes := raw.Planes()

	// geometry is checked against the source's planes before any buffer is sized from it
	yuvPlanes, err := yuv.FromRaw(planes, dims)
	if err != nil {
		return nil, xerror.Errorf("unable to read frame planes: %w", err)
	}
	if err := yuvPlanes.Validate(); err != nil {
		return nil, xerror.Errorf("unable to read frame planes: %w", err)
	}
	in.ensureBuffers(dims, planes)

	copied := make([]videoframe.Plane, len(planes))
	for i, p := range planes {
		n := copy(in.slot.scratch[i], p.Data)
		copied[i] = videoframe.Plane{Data: in.slot.scratch[i][:n], RowStride: p.RowStride, PixelStride: p.PixelStride}
	}
	releaseRaw()

	yuvPlanes, err = yuv.FromRaw(copied, dims)
	if err != nil {
		return nil, xerror.Errorf("unable to read frame planes: %w", err)
	}
	if err := yuv.Convert(in.slot.packed, yuvPlanes, in.swapUV); err != nil {
		return nil, xerror.Errorf("unable to convert frame to RGBA: %w", err)
	}

	rotation := in.orientation.Rotation()
	if err := affine.Normalize(in.slot.normalized, in.slot.packed, rotation); err != nil {
		return nil, xerror.Errorf("unable to normalize frame: %w", err)
	}

	in.accepted.Add(1)
	handedOff = true
	return &Lease{
		ID:         uuid.NewString(),
		Frame:      in.slot.normalized,
		Packed:     in.slot.packed,
		Rotation:   rotation,
		AcquiredAt: started,
		release:    in.leave,
	}, nil
}

func (in *Ingestor) leave() {
	if in.guard.Leave() {
		in.released.Add(1)
		return
	}
	log.Error("ingest guard released while idle")
}

func (in *Ingestor) ensureBuffers(dims videoframe.Dimensions, planes []videoframe.Plane) {
	if dims != in.slot.dims || in.slot.packed == nil {
		log.Debug("Initializing frame buffers at size %dx%d", dims.W, dims.H)
		in.slot.dims = dims
		in.slot.packed = image.NewRGBA(image.Rect(0, 0, dims.W, dims.H))
		in.slot.normalized = affine.NewSquare(in.side)
		in.slot.scratch = make([][]byte, len(planes))
		for i, p := range planes {
			in.slot.scratch[i] = make([]byte, len(p.Data))
		}
		in.allocations.Add(1)
		return
	}

	// same resolution but a source may hand over a different plane layout
	if len(in.slot.scratch) != len(planes) {
		in.slot.scratch = make([][]byte, len(planes))
	}
	for i, p := range planes {
		if len(in.slot.scratch[i]) < len(p.Data) {
			in.slot.scratch[i] = make([]byte, len(p.Data))
		}
	}
}

// Busy reports whether a frame currently holds the slot.
func (in *Ingestor) Busy() bool {
	return in.guard.Busy()
}

func (in *Ingestor) Stats() Stats {
	return Stats{
		Accepted:    in.accepted.Load(),
		Dropped:     in.dropped.Load(),
		Failed:      in.failed.Load(),
		Released:    in.released.Load(),
		Allocations: in.allocations.Load(),
	}
}

// Lease is temporary ownership of the ingestor's frame slot. The holder may
// read and draw on Frame until it calls Release, after which the next frame
// may overwrite it.
type Lease struct {
	ID         string
	Frame      *image.RGBA
	Packed     *image.RGBA
	Rotation   affine.Rotation
	AcquiredAt time.Time

	once    sync.Once
	release func()
}

// Release returns the slot. Safe to call more than once.
func (l *Lease) Release() {
	l.once.Do(func() {
		if l.release != nil {
			l.release()
		}
	})
}
