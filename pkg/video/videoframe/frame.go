package videoframe

import "sync"

type Dimensions struct {
	W, H int
}

// Plane is a single sample plane of a raw sensor frame.
type Plane struct {
	Data        []byte
	RowStride   int
	PixelStride int
}

// Raw is a camera frame whose backing storage belongs to the source.
// Callers copy what they need and call Release before returning.
type Raw interface {
	Planes() []Plane
	Dimensions() Dimensions
	Release()
}

// NewRaw wraps planes as a Raw frame, calling onRelease at most once.
func NewRaw(dims Dimensions, planes []Plane, onRelease func()) Raw {
	return &raw{dims: dims, planes: planes, onRelease: onRelease}
}

type raw struct {
	dims      Dimensions
	planes    []Plane
	once      sync.Once
	onRelease func()
}

func (r *raw) Planes() []Plane { return r.planes }

func (r *raw) Dimensions() Dimensions { return r.dims }

func (r *raw) Release() {
	r.once.Do(func() {
		if r.onRelease != nil {
			r.onRelease()
		}
		r.planes = nil
	})
}
