// Package scheduler drives the filter engine from a real-time audio callback.
//
// A Scheduler owns a fully buffered interleaved input signal and an output
// buffer of the same size. Each callback takes the next block of frames,
// splits it per channel, runs the engine on every channel in ascending order,
// and writes the interleaved result both to the output buffer and to the
// device buffer. When the last frame has been produced the scheduler flips a
// completion flag exactly once; afterwards every callback only emits silence.
//
// All allocation happens in New. Process touches only preallocated memory
// and atomics, so it is safe to call from a real-time thread. Observers on
// other goroutines may use IsDone, Done, Wait, NextFrame and Stats while the
// callback runs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tphakala/go-audio-blockfilter/internal/engine"
	"github.com/tphakala/go-audio-blockfilter/internal/simdops"
	"github.com/tphakala/go-audio-blockfilter/internal/transport"
)

// MaxChannels bounds the channel count of a stream.
const MaxChannels = 256

// ErrInvalidConfig indicates unusable scheduler parameters.
var ErrInvalidConfig = errors.New("invalid scheduler configuration")

// Stats counts callback activity.
type Stats struct {
	// Callbacks is the number of Process calls.
	Callbacks int64
	// EngineCalls is the number of per-channel engine invocations.
	EngineCalls int64
	// SilentCallbacks is the number of Process calls made after completion.
	SilentCallbacks int64
}

// Scheduler feeds a buffered signal through the engine one callback at a time.
type Scheduler[F simdops.Float] struct {
	src []F
	out []F

	channels int
	total    int
	blockLen int

	spec   *engine.Spec[F]
	states []*engine.ChannelState[F]
	in     [][]F
	work   [][]F
	ops    *simdops.Ops[F]

	next   atomic.Int64
	done   atomic.Bool
	doneCh chan struct{}

	callbacks   atomic.Int64
	engineCalls atomic.Int64
	silent      atomic.Int64
}

// New creates a scheduler over src, an interleaved signal of channels
// channels. blockLen is the largest number of frames filtered per engine
// call; larger callback requests are split.
//
// A zero-length src is complete immediately.
func New[F simdops.Float](src []F, channels int, spec *engine.Spec[F], blockLen int) (*Scheduler[F], error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil filter spec", ErrInvalidConfig)
	}
	if channels < 1 || channels > MaxChannels {
		return nil, fmt.Errorf("%w: channels must be in [1, %d], got %d", ErrInvalidConfig, MaxChannels, channels)
	}
	if blockLen < 1 {
		return nil, fmt.Errorf("%w: block length must be positive, got %d", ErrInvalidConfig, blockLen)
	}
	if len(src)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples is not a whole number of %d-channel frames",
			ErrInvalidConfig, len(src), channels)
	}

	s := &Scheduler[F]{
		src:      src,
		out:      make([]F, len(src)),
		channels: channels,
		total:    len(src) / channels,
		blockLen: blockLen,
		spec:     spec,
		states:   make([]*engine.ChannelState[F], channels),
		in:       make([][]F, channels),
		work:     make([][]F, channels),
		ops:      simdops.For[F](),
		doneCh:   make(chan struct{}),
	}
	for c := range channels {
		s.states[c] = engine.NewChannelState(spec, blockLen)
		s.in[c] = make([]F, blockLen)
		s.work[c] = make([]F, blockLen)
	}

	if s.total == 0 {
		s.finish()
	}
	return s, nil
}

// Process is the callback body. It fills out with up to len(out)/channels
// frames of filtered signal and zeroes the remainder. It returns the number
// of frames produced, which is zero once the stream is complete.
func (s *Scheduler[F]) Process(out []F) int {
	clear(out)
	s.callbacks.Add(1)

	if s.done.Load() {
		s.silent.Add(1)
		return 0
	}

	frames := len(out) / s.channels
	next := int(s.next.Load())
	n := min(frames, s.total-next)

	for pos := 0; pos < n; {
		k := min(s.blockLen, n-pos)
		s.processBlock(next+pos, k, out[pos*s.channels:])
		pos += k
	}

	if int(s.next.Add(int64(n))) >= s.total {
		s.finish()
	}
	return n
}

// processBlock filters k frames starting at frame into the output buffer
// and copies them to dst.
func (s *Scheduler[F]) processBlock(frame, k int, dst []F) {
	lo := frame * s.channels
	hi := lo + k*s.channels

	deinterleave(s.in, s.src[lo:hi], s.channels, k)
	for c := range s.channels {
		engine.Process(s.work[c][:k], s.in[c][:k], s.spec, s.states[c])
	}
	s.engineCalls.Add(int64(s.channels))
	interleave(s.out[lo:hi], s.work, s.channels, k, s.ops)

	copy(dst[:hi-lo], s.out[lo:hi])
}

// finish marks the stream complete. Only the first call has any effect.
func (s *Scheduler[F]) finish() {
	if s.done.CompareAndSwap(false, true) {
		close(s.doneCh)
	}
}

// Callback adapts Process to a transport device. The device is told to stop
// with the buffer that carries the final frames.
func (s *Scheduler[F]) Callback() transport.Callback[F] {
	return func(out []F) transport.Status {
		s.Process(out)
		if s.done.Load() {
			return transport.Complete
		}
		return transport.Continue
	}
}

// IsDone reports whether every frame has been produced.
func (s *Scheduler[F]) IsDone() bool {
	return s.done.Load()
}

// Done is closed when the stream completes.
func (s *Scheduler[F]) Done() <-chan struct{} {
	return s.doneCh
}

// Wait blocks until the stream completes or ctx is done.
func (s *Scheduler[F]) Wait(ctx context.Context) error {
	select {
	case <-s.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Poll calls report with the current progress every interval until the
// stream completes, then returns. It mirrors a console progress loop that
// prints the frame counter while audio plays.
func (s *Scheduler[F]) Poll(ctx context.Context, interval time.Duration, report func(next, total int64)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !s.done.Load() {
		report(s.next.Load(), int64(s.total))
		select {
		case <-s.doneCh:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// NextFrame returns the index of the next frame to be produced.
func (s *Scheduler[F]) NextFrame() int64 {
	return s.next.Load()
}

// TotalFrames returns the number of frames in the signal.
func (s *Scheduler[F]) TotalFrames() int64 {
	return int64(s.total)
}

// Channels returns the number of interleaved channels.
func (s *Scheduler[F]) Channels() int {
	return s.channels
}

// Output returns the interleaved output buffer. It is complete once Done is
// closed; reading it earlier races with the callback.
func (s *Scheduler[F]) Output() []F {
	return s.out
}

// Stats returns a snapshot of the callback counters.
func (s *Scheduler[F]) Stats() Stats {
	return Stats{
		Callbacks:       s.callbacks.Load(),
		EngineCalls:     s.engineCalls.Load(),
		SilentCallbacks: s.silent.Load(),
	}
}
