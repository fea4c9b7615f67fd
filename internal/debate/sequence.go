package debate

import "sync/atomic"

// Sequence is a monotonically increasing id generator. Ids are 1-based and
// never reused, even when their owner is later discarded. Each registry and
// each session owns its own instance, so independent instances never share
// counter state.
type Sequence struct {
	n atomic.Int64
}

// NewSequence returns a sequence whose first Next call yields start+1.
func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.n.Store(start)
	return s
}

// Next allocates and returns a fresh id.
func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}

// Current returns the last allocated id without consuming one.
func (s *Sequence) Current() int64 {
	return s.n.Load()
}
